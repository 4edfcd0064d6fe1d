package output

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// ParseColorMode converts a string to a ColorMode, defaulting to auto.
func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(s) {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		// Check if writer is a file and if it's a terminal
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// colorizeMappingType colors a mapping type string by the kind of data it
// masks.
func colorizeMappingType(typ string) string {
	lower := strings.ToLower(typ)
	switch {
	case strings.Contains(lower, "email"):
		return colorCyan + typ + colorReset
	case strings.Contains(lower, "ip"):
		return colorYellow + typ + colorReset
	case strings.Contains(lower, "hostname"):
		return colorGreen + typ + colorReset
	case strings.Contains(lower, "key"), strings.Contains(lower, "secret"), strings.Contains(lower, "token"):
		return colorBold + colorRed + typ + colorReset
	case strings.Contains(lower, "guid"):
		return colorGray + typ + colorReset
	default:
		return typ
	}
}
