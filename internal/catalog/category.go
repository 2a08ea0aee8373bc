package catalog

import (
	"regexp"
	"strings"
)

// OtherCategory is assigned when no label matches a catalog line.
const OtherCategory = "other"

// Label maps one or more upper-case needles onto a category slug.
type Label struct {
	Needles []string
	Slug    string
}

// DefaultLabels is the closed set of brand and type labels, in precedence order.
var DefaultLabels = []Label{
	{Needles: []string{"LATTAFA"}, Slug: "lattafa"},
	{Needles: []string{"FRAGRANCE WORLD"}, Slug: "fragrance-world"},
	{Needles: []string{"MILESTONE"}, Slug: "milestone-perfumes"},
	{Needles: []string{"FRAGRANCE DELUXE"}, Slug: "fragrance-deluxe"},
	{Needles: []string{"PENDORA SCENTS"}, Slug: "pendora-scents"},
	{Needles: []string{"EAU DE TOILETTE"}, Slug: "eau-de-toilette"},
	{Needles: []string{"EAU DE PARFUM", "EUA DE PARFUM"}, Slug: "eau-de-parfum"},
}

var bracketTag = regexp.MustCompile(`\[([^\]]+)\]`)

// DetectCategory resolves the category slug of a catalog line. The bracketed
// tag is consulted first, then the whole line; unmatched lines are "other".
func DetectCategory(line string, labels []Label) string {
	upper := strings.ToUpper(line)
	if m := bracketTag.FindStringSubmatch(upper); m != nil {
		if slug, ok := matchLabel(strings.TrimSpace(m[1]), labels); ok {
			return slug
		}
	}
	if slug, ok := matchLabel(upper, labels); ok {
		return slug
	}
	return OtherCategory
}

func matchLabel(text string, labels []Label) (string, bool) {
	for _, l := range labels {
		for _, needle := range l.Needles {
			if strings.Contains(text, needle) {
				return l.Slug, true
			}
		}
	}
	return "", false
}
