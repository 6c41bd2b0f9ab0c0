package report

import (
	"io"
	"os"
)

// Build constructs a report, applies fn to it and returns it without
// rendering.
func Build(fn func(*Report)) *Report {
	r := New()
	if fn != nil {
		fn(r)
	}
	return r
}

// Sprint assembles and renders a report in one call.
func Sprint(fn func(*Report)) string {
	return Build(fn).Render()
}

// Fprint renders the report to w with a trailing newline.
func Fprint(w io.Writer, fn func(*Report)) error {
	_, err := io.WriteString(w, Sprint(fn)+"\n")
	return err
}

// Print writes the rendered report to stdout.
func Print(fn func(*Report)) error {
	return Fprint(os.Stdout, fn)
}
