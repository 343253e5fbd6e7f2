package reporter

import (
	"strings"
	"unicode/utf8"
)

const trimMarker = "[...]"

// TrimToRect cuts s to at most maxHeight lines of at most maxWidth bytes.
// Lines are never cut inside a UTF-8 sequence.
func TrimToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	lines := strings.Split(s, "\n")
	cut := len(lines) > maxHeight
	if cut {
		lines = lines[:maxHeight]
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(line) > maxWidth {
			b.WriteString(line[:runeBoundary(line, maxWidth)] + trimMarker)
		} else {
			b.WriteString(line)
		}
	}
	if cut {
		if len(lines) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(trimMarker)
	}
	return b.String()
}

// runeBoundary returns the largest n <= limit at which s[:n] ends on a rune
// boundary.
func runeBoundary(s string, limit int) int {
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

// ErrorMessage returns the trimmed text of err, or nil when err is nil.
func ErrorMessage(err error, maxHeight int, maxWidth int) *string {
	if err == nil {
		return nil
	}
	msg := TrimToRect(err.Error(), maxHeight, maxWidth)
	return &msg
}
