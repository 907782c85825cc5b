package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeText cleans free-form text headed for the question bank or a
// player name: HTML stripped, whitespace trimmed, length bounded.
func SanitizeText(input string) string {
	input = htmlPolicy.Sanitize(input)
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > 1000 {
		input = input[:1000]
	}

	return input
}

// ValidatePlayerName checks registration input.
func ValidatePlayerName(name string) bool {
	n := len([]rune(name))
	return n >= 2 && n <= 100
}
