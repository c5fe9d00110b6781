package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Badge glyphs in the order they are rendered after a display name.
const (
	BadgeVerified = "\U0001F6E1\uFE0F"
	BadgePremium  = "\U0001F451"
)

const (
	shieldGlyph         = "\U0001F6E1"
	variationSelector16 = "\uFE0F"
)

// StripBadges removes badge glyphs anywhere in name and reports which ones were present.
func StripBadges(name string) (clean string, verified, premium bool) {
	verified = strings.Contains(name, shieldGlyph)
	premium = strings.Contains(name, BadgePremium)

	replacer := strings.NewReplacer(
		BadgeVerified, "",
		shieldGlyph, "",
		BadgePremium, "",
	)
	clean = replacer.Replace(name)
	clean = strings.ReplaceAll(clean, variationSelector16, "")
	return strings.TrimSpace(clean), verified, premium
}

// CleanName strips badges and other emoji, then lower-cases, for case-insensitive lookups.
func CleanName(name string) string {
	clean, _, _ := StripBadges(name)
	clean = strings.Map(func(r rune) rune {
		if isEmoji(r) {
			return -1
		}
		return r
	}, clean)
	return strings.ToLower(strings.TrimSpace(clean))
}

// Capitalize upper-cases the first character only.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// LooksLikeEmail is the only check applied to decide between email and username lookups.
func LooksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF,
		r >= 0x1F600 && r <= 0x1F6FF,
		r >= 0x1F900 && r <= 0x1F9FF,
		r >= 0x1F1E0 && r <= 0x1F1FF,
		r >= 0x2600 && r <= 0x26FF,
		r >= 0x2700 && r <= 0x27BF:
		return true
	}
	return false
}
