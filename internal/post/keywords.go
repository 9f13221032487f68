package post

import (
	"sort"
	"strings"
)

// keywordSplitter matches the delimiters accepted on the read path.
// Stored values are comma-joined, but legacy rows may use semicolons or
// mix both in a single value.
func keywordSplitter(r rune) bool {
	return r == ',' || r == ';'
}

// SplitKeywords splits a stored keyword string into individual tokens.
// Tokens are trimmed and lowercased; empty tokens are dropped. Duplicates
// are preserved: the input is not assumed to be deduplicated or sorted.
func SplitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tokens []string
	for _, raw := range strings.FieldsFunc(s, keywordSplitter) {
		tok := strings.ToLower(strings.TrimSpace(raw))
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// EncodeKeywords normalizes a set of tags into the stored representation:
// lowercased, deduplicated, sorted, joined with ", ".
func EncodeKeywords(tags []string) string {
	seen := make(map[string]bool, len(tags))
	uniq := make([]string, 0, len(tags))
	for _, raw := range tags {
		tok := strings.ToLower(strings.TrimSpace(raw))
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		uniq = append(uniq, tok)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, ", ")
}
