package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugNormalizer strips diacritical marks so accented names produce clean slugs.
var slugNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SlugFromName derives a URL-safe slug from a display name.
// Diacritics are removed, letters are lowercased, and any run of
// non-alphanumeric characters collapses into a single hyphen.
func SlugFromName(name string) string {
	normalized, _, err := transform.String(slugNormalizer, name)
	if err != nil {
		normalized = name
	}

	var b strings.Builder
	lastHyphen := true // avoid a leading hyphen
	for _, r := range strings.ToLower(normalized) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > 50 {
		slug = strings.TrimSuffix(slug[:50], "-")
	}
	return slug
}
