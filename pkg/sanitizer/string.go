package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	ansiSequence = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// MaxLength truncates s to at most n runes.
func MaxLength(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// RemoveControlChars drops ANSI escape sequences and control characters,
// keeping newlines and tabs.
func RemoveControlChars(s string) string {
	s = ansiSequence.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SingleLine collapses every whitespace run, line breaks included, into one
// space and trims the result.
func SingleLine(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Filename makes a client-supplied file name safe to show and log: path
// separators and reserved characters become "_", surrounding dots and spaces
// are trimmed, the result is capped at 255 runes. Empty input yields "file".
func Filename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			return '_'
		}
		return r
	}, name)
	name = MaxLength(strings.Trim(name, " ."), 255)
	if name == "" {
		return "file"
	}
	return name
}
