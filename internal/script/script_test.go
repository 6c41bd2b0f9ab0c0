package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadRejectsMissingSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.toml", `
[[annotation]]
line = 1
start = 0
end = 1
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for script without source")
	}
}

func TestLoadRejectsBadSeverity(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.toml", `
source = "x.txt"

[[annotation]]
line = 1
start = 0
end = 1
severity = "fatal"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown severity")
	}
}

func TestLoadRejectsBadHighlightColor(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.toml", `
source = "x.txt"

[[highlight]]
line = 1
start = 0
end = 1
color = "ultraviolet"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown highlight color")
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"", SevInfo, false},
		{"info", SevInfo, false},
		{"Warning", SevWarning, false},
		{"ERROR", SevError, false},
		{"fatal", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseSeverity(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSeverity(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAssembleFromShowsContext(t *testing.T) {
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, "line "+string(rune('0'+i%10)))
	}
	src := strings.Join(lines, "\n") + "\n"

	s := &Script{
		Source: "x.txt",
		Annotation: []Annotation{
			{Line: 8, Start: 0, End: 4, Severity: "error", Hint: "bad"},
		},
	}
	r, err := s.AssembleFrom(src)
	if err != nil {
		t.Fatalf("AssembleFrom failed: %v", err)
	}

	out := r.Render()
	// контекст по умолчанию 2: показываются строки 6..10
	for _, want := range []string{"6  | ", "7  | ", "8  | ", "9  | ", "10 | "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "5  | ") {
		t.Fatalf("line 5 should not be shown:\n%s", out)
	}
	if !strings.Contains(out, "^^^^") {
		t.Fatalf("expected underline markers:\n%s", out)
	}
	if !strings.Contains(out, "bad") {
		t.Fatalf("expected hint row:\n%s", out)
	}
}

func TestAssembleFromSkipNotice(t *testing.T) {
	var lines []string
	for i := 1; i <= 30; i++ {
		lines = append(lines, "x")
	}
	src := strings.Join(lines, "\n")

	s := &Script{
		Source:  "x.txt",
		Context: 1,
		Annotation: []Annotation{
			{Line: 2, Start: 0, End: 1, Severity: "warning"},
			{Line: 20, Start: 0, End: 1, Severity: "error"},
		},
	}
	r, err := s.AssembleFrom(src)
	if err != nil {
		t.Fatalf("AssembleFrom failed: %v", err)
	}

	// показаны 1..3 и 19..21, между ними пропущены 4..18
	out := r.Render()
	if !strings.Contains(out, "15 lines not shown") {
		t.Fatalf("expected skip notice for 15 lines:\n%s", out)
	}
}

func TestValidateRejectsNegativeStart(t *testing.T) {
	// отрицательный start не должен доходить до рендера
	ann := &Script{
		Source: "x.txt",
		Annotation: []Annotation{
			{Line: 1, Start: -1, End: 0, Severity: "error", Hint: "boom"},
		},
	}
	if _, err := ann.AssembleFrom("abc"); err == nil {
		t.Fatal("expected error for negative annotation start")
	}

	high := &Script{
		Source: "x.txt",
		Highlight: []Highlight{
			{Line: 1, Start: -3, End: 2, Color: "red"},
		},
	}
	if _, err := high.AssembleFrom("abc"); err == nil {
		t.Fatal("expected error for negative highlight start")
	}
}

func TestLoadRejectsNegativeStart(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.toml", `
source = "x.txt"

[[annotation]]
line = 1
start = -1
end = 0
severity = "error"
hint = "boom"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative start")
	}
}

func TestAssembleFromRejectsLineBeyondEnd(t *testing.T) {
	s := &Script{
		Source: "x.txt",
		Annotation: []Annotation{
			{Line: 99, Start: 0, End: 1},
		},
	}
	if _, err := s.AssembleFrom("only one line"); err == nil {
		t.Fatal("expected error for annotation beyond end of source")
	}
}

func TestAssembleFromNote(t *testing.T) {
	s := &Script{
		Source: "x.txt",
		Annotation: []Annotation{
			{Line: 1, Start: 0, End: 3, Severity: "error", Note: "declared here"},
		},
	}
	r, err := s.AssembleFrom("abcdef")
	if err != nil {
		t.Fatalf("AssembleFrom failed: %v", err)
	}
	if out := r.Render(); !strings.Contains(out, "note: declared here") {
		t.Fatalf("expected note block:\n%s", out)
	}
}

func TestAssembleOverlappingAnnotationsFail(t *testing.T) {
	s := &Script{
		Source: "x.txt",
		Annotation: []Annotation{
			{Line: 1, Start: 0, End: 5, Severity: "error"},
			{Line: 1, Start: 2, End: 6, Severity: "warning"},
		},
	}
	if _, err := s.AssembleFrom("abcdefgh"); err == nil {
		t.Fatal("expected overlap error to surface from Assemble")
	}
}

func TestHasErrors(t *testing.T) {
	s := &Script{
		Source: "x.txt",
		Annotation: []Annotation{
			{Line: 1, Start: 0, End: 1, Severity: "warning"},
		},
	}
	if s.HasErrors() {
		t.Fatal("warning-only script should not report errors")
	}
	s.Annotation = append(s.Annotation, Annotation{Line: 1, Start: 2, End: 3, Severity: "error"})
	if !s.HasErrors() {
		t.Fatal("expected HasErrors for error-severity annotation")
	}
}

func TestLoadAndAssembleEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.txt", "first\nmistaeke\nlast\n")
	path := writeFile(t, dir, "report.toml", `
source = "main.txt"
title = "spelling report"
context = 1

[[annotation]]
line = 2
start = 0
end = 3
severity = "error"
hint = "bad"

[[highlight]]
line = 2
start = 4
end = 8
color = "cyan"
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	r, err := s.Assemble(dir)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	out := r.Render()
	for _, want := range []string{"spelling report", "1 | first", "2 | mistaeke", "3 | last", "^^^", "bad"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
