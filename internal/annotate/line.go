package annotate

import (
	"unicode/utf8"

	"caret/internal/ansi"
)

// Line is one immutable text row plus its color and underline annotations.
// Annotations are attached during the build phase; rendering never mutates.
type Line struct {
	text       string
	colors     []ColorSpan
	underlines []UnderlineSpan
	numbered   bool
	number     int
}

// NewLine wraps raw text so annotation methods can be chained onto it.
func NewLine(text string) *Line {
	return &Line{text: text}
}

// Text returns the raw, escape-free text.
func (l *Line) Text() string { return l.text }

// Len returns the text length in code points.
func (l *Line) Len() int { return utf8.RuneCountInString(l.text) }

// Numbered reports whether the line carries a line number.
func (l *Line) Numbered() bool { return l.numbered }

// Number returns the line number; meaningful only when Numbered.
func (l *Line) Number() int { return l.number }

// SetNumber stamps a line number onto the line. The report assembler is the
// normal caller; numbers set by hand are overwritten on append.
func (l *Line) SetNumber(n int) *Line {
	l.number = n
	l.numbered = true
	return l
}

// ClearNumber removes the line number.
func (l *Line) ClearNumber() *Line {
	l.number = 0
	l.numbered = false
	return l
}

// AddColor attaches a color span over [start, end). Overlap with existing
// color spans is allowed. An empty suffix defaults to the reset sequence
// when a prefix is given.
func (l *Line) AddColor(start, end int, prefix, suffix string) *Line {
	if prefix != "" && suffix == "" {
		suffix = ansi.Reset
	}
	l.colors = append(l.colors, ColorSpan{Start: start, End: end, Prefix: prefix, Suffix: suffix})
	return l
}

// AddUnderline attaches an underline span. It fails with *OverlapError when
// the span collides with one already present; the line is left unchanged.
// A zero fill defaults to '-', an empty suffix to the reset sequence when a
// prefix is given.
func (l *Line) AddUnderline(span UnderlineSpan) error {
	if span.Fill == 0 {
		span.Fill = '-'
	}
	if span.Prefix != "" && span.Suffix == "" {
		span.Suffix = ansi.Reset
	}
	for i := range l.underlines {
		if underlinesConflict(l.underlines[i], span) {
			return &OverlapError{New: span, Existing: l.underlines[i]}
		}
	}
	l.underlines = append(l.underlines, span)
	return nil
}

// Underline draws fill characters under [start, end) without color or tip.
func (l *Line) Underline(start, end int, fill rune, hint string) error {
	return l.AddUnderline(UnderlineSpan{Start: start, End: end, Fill: fill, Hint: hint})
}

// MarkError underlines [start, end) with carets in the error color.
func (l *Line) MarkError(start, end int, hint string) error {
	return l.AddUnderline(UnderlineSpan{
		Start:  start,
		End:    end,
		Fill:   '^',
		Prefix: ansi.DefaultTheme.Error,
		Suffix: ansi.Reset,
		Hint:   hint,
	})
}

// MarkErrorLine marks the whole line as an error.
func (l *Line) MarkErrorLine(hint string) error {
	return l.MarkError(0, l.Len(), hint)
}

// MarkWarning underlines [start, end) with tildes and a caret tip in the
// warning color.
func (l *Line) MarkWarning(start, end int, hint string) error {
	return l.AddUnderline(UnderlineSpan{
		Start:       start,
		End:         end,
		Fill:        '~',
		ArrowTip:    '^',
		HasArrowTip: true,
		Prefix:      ansi.DefaultTheme.Warning,
		Suffix:      ansi.Reset,
		Hint:        hint,
	})
}

// MarkWarningLine marks the whole line as a warning.
func (l *Line) MarkWarningLine(hint string) error {
	return l.MarkWarning(0, l.Len(), hint)
}

// Concat returns a new line holding l's text followed by other's text; the
// right-hand spans are shifted by l's code-point length. Line-number
// metadata comes from l. Underline overlaps introduced by the merge are not
// re-checked; avoiding them is the caller's job.
func (l *Line) Concat(other *Line) *Line {
	shift := l.Len()
	out := &Line{
		text:     l.text + other.text,
		numbered: l.numbered,
		number:   l.number,
	}
	out.colors = append(out.colors, l.colors...)
	for _, c := range other.colors {
		c.Start += shift
		c.End += shift
		out.colors = append(out.colors, c)
	}
	out.underlines = append(out.underlines, l.underlines...)
	for _, u := range other.underlines {
		u.Start += shift
		u.End += shift
		out.underlines = append(out.underlines, u)
	}
	return out
}
