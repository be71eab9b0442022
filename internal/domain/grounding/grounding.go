// Package grounding validates citation keys claimed by the model before they
// are re-resolved against the knowledge base.
package grounding

import "regexp"

// keyPattern is the citation-key allow-list. Keys outside this class are
// treated as adversarial or malformed citations and dropped silently; they
// must never reach the search index.
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_=\-]+$`)

// ValidKey reports whether a single claimed key matches the allow-list.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// ValidKeys filters the claimed keys through the allow-list and de-duplicates
// them, preserving first-occurrence order. The result is stable for a given
// input, so repeated verification of the same claim list yields the same set.
func ValidKeys(claimed []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(claimed))
	for _, key := range claimed {
		if !ValidKey(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
