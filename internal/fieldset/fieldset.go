// internal/fieldset/fieldset.go

// Package fieldset converts '|'-delimited text blobs into normalized token
// sets and back. Multi-valued provider attributes (categories, tags,
// regions) are stored as flat text; all membership logic lives here so the
// scoring code never does raw string surgery.
package fieldset

import "strings"

// Delimiter separates tokens inside a stored blob.
const Delimiter = "|"

// Decode splits blob on the delimiter, trims whitespace from each piece
// and drops empty pieces. Token order carries no meaning; only membership
// does.
func Decode(blob string) []string {
	if blob == "" {
		return nil
	}
	parts := strings.Split(blob, Delimiter)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Encode joins tokens into a storable blob, trimming whitespace and
// dropping empty tokens. Storage case is preserved.
func Encode(tokens []string) string {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, Delimiter)
}

// Contains reports whether token is a member of the decoded blob. The
// comparison is case-insensitive. An empty blob or empty token never
// matches.
func Contains(blob, token string) bool {
	token = strings.TrimSpace(token)
	if blob == "" || token == "" {
		return false
	}
	probe := strings.ToLower(token)
	for _, t := range Decode(blob) {
		if strings.ToLower(t) == probe {
			return true
		}
	}
	return false
}
