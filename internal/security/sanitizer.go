package security

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy    = bluemonday.StrictPolicy()
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// SanitizeString trims, drops null bytes and caps the length in runes.
func SanitizeString(input string, maxLen int) string {
	// Trim whitespace
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	if maxLen > 0 && utf8.RuneCountInString(input) > maxLen {
		runes := []rune(input)
		input = string(runes[:maxLen])
	}

	return input
}

// SanitizeText strips all HTML markup from user text. The policy escapes
// entities, which are decoded back so "Tom & Jerry" survives unchanged.
func SanitizeText(input string, maxLen int) string {
	clean := html.UnescapeString(htmlPolicy.Sanitize(input))
	return SanitizeString(clean, maxLen)
}

// ValidateUsername checks the characters allowed in a username lookup
func ValidateUsername(username string) bool {
	return usernameRegex.MatchString(username)
}
