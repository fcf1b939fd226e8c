// Package textparse holds best-effort numeric parsing for untrusted markup.
// Cells scraped from HTML carry stray units, entities and whitespace; these
// helpers strip everything that cannot be part of a number and fall back to
// zero instead of failing, so a single malformed cell can never abort an
// extraction.
package textparse

import (
	"strconv"
	"strings"
)

// Int parses s after discarding every non-digit character. A cell with no
// digits parses to 0.
func Int(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}

	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return value
}

// Float parses s after discarding every character outside [0-9.-]. Anything
// that still fails to parse, including empty input, yields 0.
func Float(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}
