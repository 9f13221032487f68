package ops

import (
	"github.com/hpungsan/traction/internal/post"
)

// SuggestKeywordsInput contains parameters for the SuggestKeywords
// operation.
type SuggestKeywordsInput struct {
	Text  string
	Limit int // default 15, see post.DefaultExtractLimit
}

// SuggestKeywordsOutput contains ranked keyword candidates.
type SuggestKeywordsOutput struct {
	Candidates []post.Candidate `json:"candidates"`
}

// SuggestKeywords extracts ranked keyword candidates from caption text.
// Used at entry time to propose tags; blank input yields an empty list
// rather than an error.
func SuggestKeywords(input SuggestKeywordsInput) *SuggestKeywordsOutput {
	candidates := post.ExtractKeywords(input.Text, input.Limit)
	if candidates == nil {
		candidates = []post.Candidate{}
	}
	return &SuggestKeywordsOutput{Candidates: candidates}
}
