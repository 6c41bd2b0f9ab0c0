package annotate

import "fmt"

// ColorSpan colors the half-open code-point range [Start, End) of a line.
// Spans may overlap or touch; they are applied in ascending Start order,
// insertion order for equal starts.
type ColorSpan struct {
	Start  int
	End    int
	Prefix string
	Suffix string
}

// UnderlineSpan draws Fill characters under [Start, End), optionally
// replacing the first cell with ArrowTip, and carries an optional Hint row
// displayed below the underline.
type UnderlineSpan struct {
	Start       int
	End         int
	Fill        rune
	ArrowTip    rune
	HasArrowTip bool
	Prefix      string
	Suffix      string
	Hint        string
}

// OverlapError reports an underline span that collides with one already
// attached to the line. The failing AddUnderline call has no effect.
type OverlapError struct {
	New      UnderlineSpan
	Existing UnderlineSpan
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("underline [%d,%d) overlaps existing underline [%d,%d)",
		e.New.Start, e.New.End, e.Existing.Start, e.Existing.End)
}

// underlinesConflict — предикат пересечения подчёркиваний.
// Спаны могут делить одну граничную клетку: для a.Start <= b.Start пара
// допустима тогда и только тогда, когда b.Start >= a.End-1.
func underlinesConflict(a, b UnderlineSpan) bool {
	if b.Start < a.Start {
		a, b = b, a
	}
	return b.Start < a.End-1
}
