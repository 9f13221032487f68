package post

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultExtractLimit is the default number of keyword candidates returned.
const DefaultExtractLimit = 15

var (
	// wordRegex matches alphabetic words with optional interior apostrophes.
	wordRegex = regexp.MustCompile(`[a-zA-Z]+(?:'[a-zA-Z]+)*`)

	// hashtagRegex matches hashtags with at least two word characters.
	hashtagRegex = regexp.MustCompile(`#(\w\w+)`)
)

// stopWords are excluded from extraction results.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "your": true, "all": true, "can": true,
	"had": true, "her": true, "was": true, "one": true, "our": true,
	"out": true, "day": true, "get": true, "has": true, "him": true,
	"his": true, "how": true, "its": true, "new": true, "now": true,
	"old": true, "see": true, "two": true, "who": true, "why": true,
	"way": true, "with": true, "this": true, "that": true, "from": true,
	"they": true, "will": true, "have": true, "what": true, "when": true,
	"just": true, "like": true, "more": true, "some": true, "than": true,
	"then": true, "them": true, "were": true, "into": true,
	"about": true, "would": true, "there": true, "their": true,
}

// Candidate is one extracted keyword with its frequency in the caption.
type Candidate struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// ExtractKeywords tokenizes caption text into ranked keyword candidates.
//
// Two token streams are combined: alphabetic words of length >= 3 (interior
// apostrophes allowed) and hashtag bodies (# stripped). Hashtag text is not
// scanned again as words, so #BTS contributes a single "bts" token. All
// tokens are lowercased and stop words removed. Candidates are ranked by
// descending frequency; ties keep first-occurrence order in the combined
// stream. limit <= 0 means DefaultExtractLimit.
//
// Pure function: empty or whitespace-only input yields nil.
func ExtractKeywords(text string, limit int) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultExtractLimit
	}

	var stream []string

	// Word tokens, with hashtags blanked out so their bodies are not
	// counted twice.
	plain := hashtagRegex.ReplaceAllString(text, " ")
	for _, w := range wordRegex.FindAllString(plain, -1) {
		// Length rule counts letters, not the apostrophes between them.
		if len(w)-strings.Count(w, "'") < 3 {
			continue
		}
		stream = append(stream, strings.ToLower(w))
	}

	// Hashtag tokens, case-folded with the # stripped.
	for _, m := range hashtagRegex.FindAllStringSubmatch(text, -1) {
		stream = append(stream, strings.ToLower(m[1]))
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := make([]string, 0, len(stream))
	for i, tok := range stream {
		if stopWords[tok] {
			continue
		}
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = i
			order = append(order, tok)
		}
		counts[tok]++
	}
	if len(order) == 0 {
		return nil
	}

	// Stable rank: frequency descending, then first occurrence.
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}

	out := make([]Candidate, len(order))
	for i, tok := range order {
		out[i] = Candidate{Token: tok, Count: counts[tok]}
	}
	return out
}
