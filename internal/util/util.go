// internal/util/util.go
package util

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize upper-cases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Despace replaces identifier underscores with spaces.
func Despace(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// Humanize turns an identifier like "logistic_regression" into "Logistic Regression".
// A Caser keeps state between calls, so each call gets its own.
func Humanize(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(Despace(s))
}

// Percent formats a 0-1 ratio as a percentage with the given number of decimals.
func Percent(ratio float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, ratio*100)
}

// TruncateRunes truncates a string to a maximum display width,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxWidth int) string {
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxWidth, "…")
}

// PadRight pads text with spaces to the given display width, truncating when it is wider.
func PadRight(text string, width int) string {
	return runewidth.FillRight(TruncateRunes(text, width), width)
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
