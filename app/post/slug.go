package post

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug folds a title to ASCII: accents are stripped, other non-ASCII runes dropped.
func Slug(title string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)

	slug, _, err := transform.String(t, title)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(slug)
}
