package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"caret/internal/pipeline"
	"caret/internal/script"
	"caret/internal/ui"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <script.toml>...",
	Short: "Render annotated source reports from TOML scripts",
	Long:  `Render one or more TOML report scripts into annotated, optionally colorized source listings`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	renderCmd.Flags().Bool("indent-all", false, "indent unnumbered lines to the gutter")
	renderCmd.Flags().Int("jobs", 0, "max parallel workers for multiple scripts (0=auto)")
	renderCmd.Flags().String("ui", "auto", "progress UI for multiple scripts (auto|on|off)")
	renderCmd.Flags().Bool("disk-cache", false, "cache rendered reports on disk")
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func parseUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func (m uiMode) enabled() bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// runRender executes the "render" command: loads each script, assembles the
// report over its source file, renders it in the requested format, and
// exits non-zero when any script carries error-severity annotations.
func runRender(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	indentAll, err := cmd.Flags().GetBool("indent-all")
	if err != nil {
		return fmt.Errorf("failed to get indent-all flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	mode, err := parseUIMode(uiFlag)
	if err != nil {
		return err
	}

	if format == "json" {
		return runRenderJSON(cmd, args)
	}
	if format != "pretty" {
		return fmt.Errorf("unknown format: %s", format)
	}

	var cache *script.Cache
	if diskCache {
		cache, err = script.OpenCache("caret")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	job := func(ctx context.Context, file string, progress func(pipeline.Stage)) pipeline.Result {
		progress(pipeline.StageLoad)
		scriptBytes, err := os.ReadFile(file)
		if err != nil {
			return pipeline.Result{Err: err}
		}
		s, err := script.Load(file)
		if err != nil {
			return pipeline.Result{Err: err}
		}
		srcBytes, err := os.ReadFile(s.SourcePath(filepath.Dir(file)))
		if err != nil {
			return pipeline.Result{Err: fmt.Errorf("failed to read source: %w", err)}
		}

		res := pipeline.Result{HasError: s.HasErrors()}
		key := script.RenderKey(scriptBytes, srcBytes, useColor, indentAll)
		if cached, ok := cache.Get(key); ok {
			res.Output = cached
			return res
		}

		progress(pipeline.StageAssemble)
		rep, err := s.AssembleFrom(string(srcBytes))
		if err != nil {
			return pipeline.Result{Err: err}
		}
		rep.SetColorEnabled(useColor)
		if indentAll {
			rep.SetIndentAllLines(true)
		}

		progress(pipeline.StageRender)
		res.Output = rep.Render()
		if cache != nil {
			_ = cache.Put(key, res.Output)
		}
		return res
	}

	var results []pipeline.Result
	if len(args) > 1 && mode.enabled() {
		events := make(chan pipeline.Event, 256)
		done := make(chan []pipeline.Result, 1)
		go func() {
			done <- pipeline.Run(cmd.Context(), args, jobs, job, events)
		}()
		_, uiErr := tea.NewProgram(ui.NewProgressModel("rendering reports", args, events)).Run()
		// дочитываем канал: при раннем выходе UI отправитель не должен
		// зависнуть на передаче события
		for range events {
		}
		results = <-done
		if uiErr != nil {
			return fmt.Errorf("progress UI failed: %w", uiErr)
		}
	} else {
		results = pipeline.Run(cmd.Context(), args, jobs, job, nil)
	}

	hasErrors := false
	var firstErr error
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.File, res.Err)
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		if len(results) > 1 && !quiet {
			fmt.Fprintf(os.Stdout, "== %s ==\n", res.File)
		}
		fmt.Fprintln(os.Stdout, res.Output)
		if res.HasError {
			hasErrors = true
		}
	}
	if firstErr != nil {
		cmd.SilenceUsage = true
		return firstErr
	}
	if hasErrors {
		// Suppress cobra usage output; the report itself is the message
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func runRenderJSON(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, file := range args {
		s, err := script.Load(file)
		if err != nil {
			return err
		}
		if err := script.JSON(os.Stdout, s); err != nil {
			return fmt.Errorf("failed to encode script: %w", err)
		}
		if s.HasErrors() {
			hasErrors = true
		}
	}
	if hasErrors {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
