package utils

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

func CountWords(text string) int {
	words := strings.Fields(text)
	wordCount := len(words)

	return wordCount
}

// Truncate cuts s to at most maxRunes runes, appending "..." when it cut
// anything. Blank input gives "(empty)".
func Truncate(s string, maxRunes int) string {
	defaultString := "(empty)"

	if strings.TrimSpace(s) == "" {
		return defaultString
	}

	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}

// RoundDecimals rounds v to places decimal digits through fixed-point
// formatting, which rounds on the exact binary value.
func RoundDecimals(v float64, places int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
