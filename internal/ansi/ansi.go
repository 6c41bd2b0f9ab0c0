// Package ansi holds the raw terminal escape sequences used as default span
// prefixes. The rendering core never interprets these strings, it only
// concatenates them, so any sequence the terminal accepts works in their
// place.
package ansi

import (
	"fmt"
	"strings"
)

const (
	Reset = "\x1b[0m"

	Red     = "\x1b[1;31m"
	Green   = "\x1b[1;32m"
	Yellow  = "\x1b[1;33m"
	Blue    = "\x1b[1;34m"
	Magenta = "\x1b[1;35m"
	Cyan    = "\x1b[1;36m"
	Gray    = "\x1b[90m" // bright black, actually
	Bold    = "\x1b[1m"
)

// Theme maps the severities the annotate helpers know about to prefixes.
type Theme struct {
	Error   string
	Warning string
	Info    string
}

// DefaultTheme matches the usual compiler convention: red errors, yellow
// warnings, cyan infos.
var DefaultTheme = Theme{
	Error:   Red,
	Warning: Yellow,
	Info:    Cyan,
}

// ByName resolves a color name used in report scripts to its prefix.
func ByName(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "yellow":
		return Yellow, nil
	case "blue":
		return Blue, nil
	case "magenta":
		return Magenta, nil
	case "cyan":
		return Cyan, nil
	case "gray", "grey":
		return Gray, nil
	case "bold":
		return Bold, nil
	}
	return "", fmt.Errorf("unknown color %q", name)
}
