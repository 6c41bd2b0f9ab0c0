// Package report assembles annotated and plain lines into one rendered
// document: it tracks the line-number cursor, inserts skipped-line notices,
// and aligns everything on a shared gutter. The per-line rendering itself
// lives in internal/annotate.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"caret/internal/annotate"
)

// InvalidLineNumberError reports a negative target passed to JumpToLine.
type InvalidLineNumberError struct {
	Line int
}

func (e *InvalidLineNumberError) Error() string {
	return fmt.Sprintf("invalid line number %d: must not be negative", e.Line)
}

// Report owns an ordered sequence of blocks and the line-number cursor.
// Build first, render once: SetColorEnabled and SetIndentAllLines take
// effect at render time for all blocks, including ones appended earlier.
type Report struct {
	blocks    []*annotate.Line
	cursor    int
	indentAll bool
	color     bool
	numberSet bool
}

// New returns an empty report with the line cursor at 1.
func New() *Report {
	return &Report{cursor: 1}
}

// SetColorEnabled toggles escape-code output for the whole document.
func (r *Report) SetColorEnabled(on bool) { r.color = on }

// SetIndentAllLines makes unnumbered blocks line up with the gutter instead
// of sitting flush left.
func (r *Report) SetIndentAllLines(on bool) { r.indentAll = on }

// Cursor returns the line number the next numbered append will receive.
func (r *Report) Cursor() int { return r.cursor }

// JumpToLine moves the line cursor. With reportSkip, a forward jump of more
// than one past the cursor appends a plain "(N lines not shown)" block,
// provided a line number was ever set before. Negative targets fail with
// *InvalidLineNumberError and leave the report untouched. Jumping backward
// is a caller contract violation and is not detected.
func (r *Report) JumpToLine(line int, reportSkip bool) error {
	if line < 0 {
		return &InvalidLineNumberError{Line: line}
	}
	if reportSkip && r.numberSet && line > r.cursor+1 {
		r.AppendInfo(fmt.Sprintf("... (%d lines not shown)", line-r.cursor))
	}
	r.cursor = line
	r.numberSet = true
	return nil
}

// AppendInfo appends text as a block without a line number; the cursor
// stays put.
func (r *Report) AppendInfo(text string) *annotate.Line {
	return r.AppendInfoLine(annotate.NewLine(text))
}

// AppendInfoLine appends an already-built line as an unnumbered block.
func (r *Report) AppendInfoLine(line *annotate.Line) *annotate.Line {
	line.ClearNumber()
	r.blocks = append(r.blocks, line)
	return line
}

// AppendNumberedLine appends text under the current cursor value and
// advances the cursor by one.
func (r *Report) AppendNumberedLine(text string) *annotate.Line {
	return r.AppendNumbered(annotate.NewLine(text))
}

// AppendNumbered stamps the cursor onto line, appends it and advances the
// cursor. Any number the caller set beforehand is overwritten; only the
// assembler assigns numbers.
func (r *Report) AppendNumbered(line *annotate.Line) *annotate.Line {
	line.SetNumber(r.cursor)
	r.cursor++
	r.numberSet = true
	r.blocks = append(r.blocks, line)
	return line
}

// AppendNumberedLines appends several numbered lines in order, the cursor
// advancing once per line.
func (r *Report) AppendNumberedLines(texts []string) {
	for _, t := range texts {
		r.AppendNumberedLine(t)
	}
}

// Render walks the blocks once and produces the final document. It is a
// pure function of the assembled state: rendering twice gives identical
// output.
func (r *Report) Render() string {
	starting := 1
	for _, b := range r.blocks {
		if b.Numbered() {
			starting = b.Number()
			break
		}
	}
	// Ширина колонки номеров считается от startingLine + текущий курсор.
	// Это приближение, а не максимум по реально использованным номерам;
	// поведение сохранено намеренно.
	gutter := 1 + digits(starting+r.cursor)
	indent := strings.Repeat(" ", gutter) + "| "

	var rows []string
	for _, b := range r.blocks {
		if !b.Numbered() {
			text := b.RenderText(r.color)
			if r.indentAll {
				text = indent + text
			}
			rows = append(rows, text)
			continue
		}
		num := strconv.Itoa(b.Number())
		pad := gutter - len(num)
		if pad < 0 {
			pad = 0
		}
		rows = append(rows, num+strings.Repeat(" ", pad)+"| "+b.RenderText(r.color))
		if u := b.RenderUnderline(r.color); u != "" {
			rows = append(rows, indent+u)
		}
		for _, h := range b.RenderHints(r.color) {
			rows = append(rows, indent+h)
		}
	}
	return strings.Join(rows, "\n")
}

func digits(n int) int {
	if n < 10 {
		return 1
	}
	d := 0
	for n > 0 {
		n /= 10
		d++
	}
	return d
}
