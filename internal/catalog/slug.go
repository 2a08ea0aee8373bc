package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify turns a product name into a URL-friendly identifier:
// accents are folded, runs of non-alphanumerics become a single hyphen,
// leading and trailing hyphens are trimmed and the result is lower case.
func Slugify(text string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(folder, text)
	if err != nil {
		folded = text
	}
	slug := nonAlphanumeric.ReplaceAllString(folded, "-")
	return strings.ToLower(strings.Trim(slug, "-"))
}
