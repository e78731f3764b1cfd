package engine

import (
	"regexp"
	"strings"
)

// identifierPattern matches ticket-style identifiers: a short alphabetic
// prefix, a hyphen, and digits (e.g. "SD-142", "infra-9").
var identifierPattern = regexp.MustCompile(`(?i)\b[a-z]{2,10}-[0-9]+\b`)

// ExtractIdentifiers pulls ticket identifiers out of free text, uppercased
// and deduplicated in first-seen order.
func ExtractIdentifiers(text string) []string {
	raw := identifierPattern.FindAllString(text, -1)
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.ToUpper(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CanonicalizeIdentifiers rewrites alias prefixes to their canonical project
// prefix using a discovered alias map (alias prefix -> canonical prefix, both
// uppercase). Identifiers with unknown prefixes pass through unchanged; the
// result is re-deduplicated since two aliases may canonicalize to the same key.
func CanonicalizeIdentifiers(ids []string, aliases map[string]string) []string {
	if len(aliases) == 0 || len(ids) == 0 {
		return ids
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		prefix, num, found := strings.Cut(id, "-")
		if found {
			if canonical, ok := aliases[prefix]; ok {
				id = canonical + "-" + num
			}
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
