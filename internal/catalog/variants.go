package catalog

import "strings"

// ExpandVariants splits a name with slash-separated alternatives into one name
// per alternative, keeping the bracket tag on each.
//
//	"OPULENT OUD/MUSK/BLUE [LATTAFA]" -> "OPULENT OUD [LATTAFA]", "OPULENT MUSK [LATTAFA]", "OPULENT BLUE [LATTAFA]"
//	"FOR HER/HIM"                     -> "FOR HER", "FOR HIM"
//	"OUD/MUSK [LATTAFA]"              -> "OUD [LATTAFA]", "MUSK [LATTAFA]"
//
// Text up to the last space before the first slash is the shared prefix; the
// rest is split on every slash. Lines with several slash groups are split on
// all of them against that single prefix.
func ExpandVariants(fullName string) []string {
	name, tag := splitTag(fullName)
	if !strings.Contains(name, "/") {
		return []string{strings.TrimSpace(fullName)}
	}

	firstSlash := strings.Index(name, "/")
	prefix, remainder := "", name
	if sp := strings.LastIndex(name[:firstSlash], " "); sp >= 0 {
		prefix, remainder = name[:sp+1], name[sp+1:]
	}

	var out []string
	for _, seg := range strings.Split(remainder, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		variant := seg
		if strings.TrimSpace(prefix) != "" {
			variant = strings.TrimSpace(prefix + seg)
		}
		out = append(out, strings.TrimSpace(variant+" "+tag))
	}
	if len(out) == 0 {
		return []string{strings.TrimSpace(fullName)}
	}
	return out
}

// splitTag separates "NAME [TAG] trailing" into "NAME" and "[TAG] trailing".
func splitTag(s string) (name, tag string) {
	open := strings.Index(s, "[")
	if open < 0 || !strings.Contains(s[open:], "]") {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(s[:open]), strings.TrimSpace(s[open:])
}
