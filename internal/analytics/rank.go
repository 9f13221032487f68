package analytics

import (
	"sort"

	"github.com/hpungsan/traction/internal/errors"
)

// Top-N bounds for ranked reports.
const (
	MinTopN     = 3
	MaxTopN     = 20
	DefaultTopN = 10
)

// SortKeyComposite ranks by the weighted success score.
const SortKeyComposite = "success_score"

// SortKeys lists the valid ranking keys, composite first.
var SortKeys = []string{
	SortKeyComposite,
	"follow_rate",
	"capture_rate",
	"like_rate",
	"follows_gained",
	"email_captures",
	"likes",
	"reach",
}

// sortValue extracts the ranking value for a key. Unknown keys are rejected
// by Rank before this is called.
func sortValue(g *Group, key string) float64 {
	switch key {
	case SortKeyComposite:
		if g.Score == nil {
			return 0.0
		}
		return *g.Score
	case "follow_rate":
		return g.FollowRate
	case "capture_rate":
		return g.CaptureRate
	case "like_rate":
		return g.LikeRate
	case "follows_gained":
		return float64(g.FollowsGained)
	case "email_captures":
		return float64(g.EmailCaptures)
	case "likes":
		return float64(g.Likes)
	case "reach":
		return float64(g.Reach)
	}
	return 0.0
}

// ValidSortKey reports whether key is a known ranking key.
func ValidSortKey(key string) bool {
	for _, k := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ClampTopN bounds n to [MinTopN, MaxTopN], defaulting when unset.
func ClampTopN(n int) int {
	if n <= 0 {
		return DefaultTopN
	}
	if n < MinTopN {
		return MinTopN
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}

// SortGroups stable-sorts groups descending by key, in place, without
// filtering or truncation. Ties keep the existing order.
func SortGroups(groups []Group, key string) error {
	if !ValidSortKey(key) {
		return errors.NewInvalidRequest("unknown sort key: " + key)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return sortValue(&groups[i], key) > sortValue(&groups[j], key)
	})
	return nil
}

// Rank filters out groups with summed reach below minReach, sorts the rest
// descending by key, and truncates to topN (clamped).
//
// Empty input returns NO_DATA; a non-empty input where the threshold
// removed every group returns ALL_FILTERED. Callers rely on the two being
// distinguishable. The sort is stable, so ties keep the aggregation order
// and results are deterministic.
func Rank(groups []Group, minReach int64, key string, topN int) ([]Group, error) {
	if !ValidSortKey(key) {
		return nil, errors.NewInvalidRequest("unknown sort key: " + key)
	}
	if len(groups) == 0 {
		return nil, errors.NewNoData("")
	}

	kept := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.Reach >= minReach {
			kept = append(kept, g)
		}
	}
	if len(kept) == 0 {
		return nil, errors.NewAllFiltered(minReach, len(groups))
	}

	if err := SortGroups(kept, key); err != nil {
		return nil, err
	}

	if n := ClampTopN(topN); len(kept) > n {
		kept = kept[:n]
	}
	return kept, nil
}
