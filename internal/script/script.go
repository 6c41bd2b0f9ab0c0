// Package script reads TOML report scripts and drives the report assembler
// over a plain source file. A script names the source, a handful of display
// settings, and the annotations (underlines with hints) and highlights
// (color spans) to attach to specific lines.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"caret/internal/annotate"
	"caret/internal/ansi"
	"caret/internal/report"
)

// defaultContext is the number of plain source lines shown around each
// annotated line when the script does not say otherwise.
const defaultContext = 2

// Severity of a script annotation.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity maps the script severity strings to Severity. The empty
// string means info.
func ParseSeverity(v string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "info":
		return SevInfo, nil
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return 0, fmt.Errorf("unknown severity %q (expected info|warning|error)", v)
}

// Script is the on-disk TOML description of one report.
type Script struct {
	Source     string       `toml:"source"`
	Title      string       `toml:"title"`
	Context    int64        `toml:"context"`
	IndentAll  bool         `toml:"indent_all"`
	Annotation []Annotation `toml:"annotation"`
	Highlight  []Highlight  `toml:"highlight"`
}

// Annotation underlines a half-open code-point range on one source line.
// Line numbers are 1-based.
type Annotation struct {
	Line     int64  `toml:"line"`
	Start    int64  `toml:"start"`
	End      int64  `toml:"end"`
	Severity string `toml:"severity"`
	Hint     string `toml:"hint"`
	Note     string `toml:"note"`
}

// Highlight colors a half-open code-point range on one source line without
// underlining it.
type Highlight struct {
	Line  int64  `toml:"line"`
	Start int64  `toml:"start"`
	End   int64  `toml:"end"`
	Color string `toml:"color"`
}

// Load parses and validates a script file.
func Load(path string) (*Script, error) {
	var s Script
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", path, err)
	}
	return &s, nil
}

func (s *Script) validate() error {
	if strings.TrimSpace(s.Source) == "" {
		return fmt.Errorf("source is required")
	}
	if s.Context < 0 {
		return fmt.Errorf("context must not be negative")
	}
	for i, a := range s.Annotation {
		if a.Line < 1 {
			return fmt.Errorf("annotation %d: line %d is not a valid 1-based line number", i, a.Line)
		}
		if a.Start < 0 {
			return fmt.Errorf("annotation %d: start %d is negative", i, a.Start)
		}
		if a.End < a.Start {
			return fmt.Errorf("annotation %d: end %d before start %d", i, a.End, a.Start)
		}
		if _, err := ParseSeverity(a.Severity); err != nil {
			return fmt.Errorf("annotation %d: %w", i, err)
		}
	}
	for i, h := range s.Highlight {
		if h.Line < 1 {
			return fmt.Errorf("highlight %d: line %d is not a valid 1-based line number", i, h.Line)
		}
		if h.Start < 0 {
			return fmt.Errorf("highlight %d: start %d is negative", i, h.Start)
		}
		if h.End < h.Start {
			return fmt.Errorf("highlight %d: end %d before start %d", i, h.End, h.Start)
		}
		if _, err := ansi.ByName(h.Color); err != nil {
			return fmt.Errorf("highlight %d: %w", i, err)
		}
	}
	return nil
}

// HasErrors reports whether the script carries any error-severity
// annotation; the CLI exits non-zero in that case.
func (s *Script) HasErrors() bool {
	for _, a := range s.Annotation {
		if sev, err := ParseSeverity(a.Severity); err == nil && sev == SevError {
			return true
		}
	}
	return false
}

// SourcePath resolves the script's source file relative to baseDir unless
// it is already absolute.
func (s *Script) SourcePath(baseDir string) string {
	if filepath.IsAbs(s.Source) {
		return s.Source
	}
	return filepath.Join(baseDir, s.Source)
}

// Assemble reads the source file and builds the report: for every annotated
// or highlighted line it shows the line plus its context, with skipped-line
// notices between disjoint regions.
func (s *Script) Assemble(baseDir string) (*report.Report, error) {
	content, err := os.ReadFile(s.SourcePath(baseDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return s.AssembleFrom(string(content))
}

// AssembleFrom builds the report over already-loaded source text. The script
// is validated again: hand-built scripts must not reach rendering with spans
// the renderer cannot draw.
func (s *Script) AssembleFrom(content string) (*report.Report, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	ctx := int64(defaultContext)
	if s.Context > 0 {
		ctx = s.Context
	}

	annsByLine := make(map[int][]Annotation)
	marked := make(map[int]bool)
	for _, a := range s.Annotation {
		n, err := safecast.Conv[int](a.Line)
		if err != nil {
			return nil, fmt.Errorf("annotation line overflow: %w", err)
		}
		if n > len(lines) {
			return nil, fmt.Errorf("annotation line %d beyond end of source (%d lines)", n, len(lines))
		}
		annsByLine[n] = append(annsByLine[n], a)
		marked[n] = true
	}
	highsByLine := make(map[int][]Highlight)
	for _, h := range s.Highlight {
		n, err := safecast.Conv[int](h.Line)
		if err != nil {
			return nil, fmt.Errorf("highlight line overflow: %w", err)
		}
		if n > len(lines) {
			return nil, fmt.Errorf("highlight line %d beyond end of source (%d lines)", n, len(lines))
		}
		highsByLine[n] = append(highsByLine[n], h)
		marked[n] = true
	}

	// Окно контекста вокруг каждой помеченной строки; объединение окон
	// задаёт список отображаемых строк.
	show := make(map[int]bool)
	for n := range marked {
		from := n - int(ctx)
		if from < 1 {
			from = 1
		}
		to := n + int(ctx)
		if to > len(lines) {
			to = len(lines)
		}
		for i := from; i <= to; i++ {
			show[i] = true
		}
	}
	displayed := make([]int, 0, len(show))
	for n := range show {
		displayed = append(displayed, n)
	}
	sort.Ints(displayed)

	r := report.New()
	r.SetIndentAllLines(s.IndentAll)
	if s.Title != "" {
		r.AppendInfo(s.Title)
		r.AppendInfo("")
	}

	prev := 0
	for _, n := range displayed {
		if prev == 0 || n != prev+1 {
			if err := r.JumpToLine(n, true); err != nil {
				return nil, err
			}
		}
		line := r.AppendNumberedLine(lines[n-1])
		for _, h := range highsByLine[n] {
			if err := applyHighlight(line, h); err != nil {
				return nil, err
			}
		}
		for _, a := range annsByLine[n] {
			if err := applyAnnotation(line, a); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			if a.Note != "" {
				r.AppendInfo("note: " + a.Note)
			}
		}
		prev = n
	}
	return r, nil
}

func applyAnnotation(line *annotate.Line, a Annotation) error {
	start, err := safecast.Conv[int](a.Start)
	if err != nil {
		return fmt.Errorf("start overflow: %w", err)
	}
	end, err := safecast.Conv[int](a.End)
	if err != nil {
		return fmt.Errorf("end overflow: %w", err)
	}
	sev, err := ParseSeverity(a.Severity)
	if err != nil {
		return err
	}
	switch sev {
	case SevError:
		return line.MarkError(start, end, a.Hint)
	case SevWarning:
		return line.MarkWarning(start, end, a.Hint)
	default:
		return line.AddUnderline(annotate.UnderlineSpan{
			Start:  start,
			End:    end,
			Fill:   '-',
			Prefix: ansi.DefaultTheme.Info,
			Suffix: ansi.Reset,
			Hint:   a.Hint,
		})
	}
}

func applyHighlight(line *annotate.Line, h Highlight) error {
	start, err := safecast.Conv[int](h.Start)
	if err != nil {
		return fmt.Errorf("start overflow: %w", err)
	}
	end, err := safecast.Conv[int](h.End)
	if err != nil {
		return fmt.Errorf("end overflow: %w", err)
	}
	prefix, err := ansi.ByName(h.Color)
	if err != nil {
		return err
	}
	line.AddColor(start, end, prefix, ansi.Reset)
	return nil
}
