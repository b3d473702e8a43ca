package utils

import (
	"strings"
	"unicode"
)

// MaxLogStringLength defines the maximum length for user-provided strings in logs
const MaxLogStringLength = 64

// SanitizeLogString makes raw request input safe to put in a log field.
// Control characters become spaces, invisible runes are dropped and long input is truncated.
func SanitizeLogString(input string) string {
	if input == "" {
		return ""
	}

	truncated := false
	if runes := []rune(input); len(runes) > MaxLogStringLength {
		input = string(runes[:MaxLogStringLength])
		truncated = true
	}

	input = strings.ReplaceAll(input, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsControl(r):
			b.WriteRune(' ')
		case unicode.IsGraphic(r):
			b.WriteRune(r)
		}
	}

	if truncated {
		b.WriteString("... (truncated)")
	}
	return b.String()
}
