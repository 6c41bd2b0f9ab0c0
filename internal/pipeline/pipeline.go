// Package pipeline runs report rendering for several script files in
// parallel and streams per-file progress events to an optional consumer
// (the terminal UI in internal/ui).
package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Stage of processing for one script file.
type Stage uint8

const (
	StageLoad Stage = iota
	StageAssemble
	StageRender
)

// Status of a file within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event notifies the UI about per-file progress.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// Result of rendering one script file. Err covers load/assemble failures;
// HasError marks scripts whose annotations contain error severity (the CLI
// exit code cares about both).
type Result struct {
	File     string
	Output   string
	HasError bool
	Err      error
}

// Job renders one script file, calling progress at each stage transition.
type Job func(ctx context.Context, file string, progress func(Stage)) Result

// Run processes files with at most jobs workers (0 means NumCPU), emitting
// events to ev (may be nil; closed when the batch finishes). Results keep
// the input order regardless of completion order.
func Run(ctx context.Context, files []string, jobs int, job Job, ev chan<- Event) []Result {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	emit := func(e Event) {
		if ev != nil {
			ev <- e
		}
	}
	for _, f := range files {
		emit(Event{File: f, Status: StatusQueued})
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range files {
		i, f := i, f // per-iteration copies: required while go.mod targets go < 1.22
		g.Go(func() error {
			progress := func(st Stage) { emit(Event{File: f, Stage: st, Status: StatusWorking}) }
			res := job(ctx, f, progress)
			res.File = f
			if res.Err != nil {
				emit(Event{File: f, Status: StatusError})
			} else {
				emit(Event{File: f, Stage: StageRender, Status: StatusDone})
			}
			results[i] = res
			// ошибка одного файла не останавливает остальные
			return nil
		})
	}
	_ = g.Wait()
	if ev != nil {
		close(ev)
	}
	return results
}
