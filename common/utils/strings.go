package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

//Remove control symbols
func Trim(str string) string {
	return strings.TrimFunc(str, func(c rune) bool {
		return unicode.IsControl(c)
	})
}

// OneLine flattens str for a single report line: control characters
// become spaces and the result is cut to at most max bytes, on a rune
// boundary.
func OneLine(str string, max int) string {
	str = strings.Map(func(c rune) rune {
		if unicode.IsControl(c) {
			return ' '
		}
		return c
	}, str)

	if max > 0 && len(str) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(str[cut]) {
			cut--
		}
		return str[:cut] + "..."
	}
	return str
}
