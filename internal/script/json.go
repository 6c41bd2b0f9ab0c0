package script

import (
	"encoding/json"
	"io"
)

// AnnotationJSON представляет одну аннотацию в JSON выводе.
type AnnotationJSON struct {
	Line     int64  `json:"line"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Severity string `json:"severity"`
	Hint     string `json:"hint,omitempty"`
	Note     string `json:"note,omitempty"`
}

// HighlightJSON представляет один цветовой спан в JSON выводе.
type HighlightJSON struct {
	Line  int64  `json:"line"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Color string `json:"color"`
}

// Output представляет корневую структуру JSON вывода скрипта.
type Output struct {
	Source      string           `json:"source"`
	Title       string           `json:"title,omitempty"`
	Annotations []AnnotationJSON `json:"annotations"`
	Highlights  []HighlightJSON  `json:"highlights,omitempty"`
	Count       int              `json:"count"`
}

// BuildOutput converts the script model into its JSON shape.
func BuildOutput(s *Script) Output {
	out := Output{
		Source:      s.Source,
		Title:       s.Title,
		Annotations: make([]AnnotationJSON, 0, len(s.Annotation)),
		Count:       len(s.Annotation),
	}
	for _, a := range s.Annotation {
		sev, _ := ParseSeverity(a.Severity)
		out.Annotations = append(out.Annotations, AnnotationJSON{
			Line:     a.Line,
			Start:    a.Start,
			End:      a.End,
			Severity: sev.String(),
			Hint:     a.Hint,
			Note:     a.Note,
		})
	}
	for _, h := range s.Highlight {
		out.Highlights = append(out.Highlights, HighlightJSON{
			Line:  h.Line,
			Start: h.Start,
			End:   h.End,
			Color: h.Color,
		})
	}
	return out
}

// JSON writes the script model to w as indented JSON.
func JSON(w io.Writer, s *Script) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(s))
}
