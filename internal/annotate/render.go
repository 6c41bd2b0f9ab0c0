package annotate

import (
	"sort"
	"strconv"
	"strings"
)

func (l *Line) sortedColors() []ColorSpan {
	spans := make([]ColorSpan, len(l.colors))
	copy(spans, l.colors)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func (l *Line) sortedUnderlines() []UnderlineSpan {
	spans := make([]UnderlineSpan, len(l.underlines))
	copy(spans, l.underlines)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// RenderText injects the color escape sequences at span boundaries. With
// color disabled, or no color spans attached, the raw text comes back
// unchanged.
//
// Активен один спан за раз: суффикс текущего закрывает цвет на его правой
// границе, префикс следующего открывает сразу же, если тот начинается в той
// же позиции. Вложенность перекрывающихся спанов не моделируется.
func (l *Line) RenderText(color bool) string {
	if !color || len(l.colors) == 0 {
		return l.text
	}
	spans := l.sortedColors()
	var b strings.Builder
	cur := 0
	i := 0
	for _, r := range l.text {
		for cur < len(spans) && i == spans[cur].End {
			b.WriteString(spans[cur].Suffix)
			cur++
		}
		if cur < len(spans) && i == spans[cur].Start {
			b.WriteString(spans[cur].Prefix)
		}
		b.WriteRune(r)
		i++
	}
	if cur < len(spans) {
		// один завершающий суффикс для незакрытого спана
		b.WriteString(spans[cur].Suffix)
	}
	return b.String()
}

// RenderUnderline builds the marker row that sits directly under the text:
// fill characters (or an arrow tip at the span start) under each underline
// span, spaces elsewhere, padded to the text's code-point width. Escape
// sequences are zero-width, so a span's prefix lands right before its first
// marker cell without disturbing alignment. Returns "" when the line has no
// underline spans.
func (l *Line) RenderUnderline(color bool) string {
	if len(l.underlines) == 0 {
		return ""
	}
	spans := l.sortedUnderlines()
	var b strings.Builder
	col := 0
	for _, s := range spans {
		for col < s.Start {
			b.WriteByte(' ')
			col++
		}
		if color {
			b.WriteString(s.Prefix)
		}
		// col may already sit past Start when two spans share a boundary
		// cell; the shared cell keeps the earlier span's marker.
		for ; col < s.End; col++ {
			if col == s.Start && s.HasArrowTip {
				b.WriteRune(s.ArrowTip)
			} else {
				b.WriteRune(s.Fill)
			}
		}
		if color {
			b.WriteString(s.Suffix)
		}
	}
	for col < l.Len() {
		b.WriteByte(' ')
		col++
	}
	return b.String()
}

// RenderHints returns one row per underline span carrying a hint, ordered
// by span start, each left-padded with spaces up to its span's start
// column.
func (l *Line) RenderHints(color bool) []string {
	spans := l.sortedUnderlines()
	var rows []string
	for _, s := range spans {
		if s.Hint == "" {
			continue
		}
		pad := s.Start
		if pad < 0 {
			pad = 0
		}
		row := strings.Repeat(" ", pad)
		if color {
			row += s.Prefix + s.Hint + s.Suffix
		} else {
			row += s.Hint
		}
		rows = append(rows, row)
	}
	return rows
}

// DisplayBlock renders this line standalone: the gutter and text row, then
// the underline and hint rows when present. Inside a document the report
// assembler produces these rows itself with the shared gutter width.
func (l *Line) DisplayBlock(color bool) string {
	var rows []string
	indent := ""
	if l.numbered {
		num := strconv.Itoa(l.number)
		gutter := len(num) + 1
		rows = append(rows, num+strings.Repeat(" ", gutter-len(num))+"| "+l.RenderText(color))
		indent = strings.Repeat(" ", gutter) + "| "
	} else {
		rows = append(rows, l.RenderText(color))
	}
	if u := l.RenderUnderline(color); u != "" {
		rows = append(rows, indent+u)
	}
	for _, h := range l.RenderHints(color) {
		rows = append(rows, indent+h)
	}
	return strings.Join(rows, "\n")
}
