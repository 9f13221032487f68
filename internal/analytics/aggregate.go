package analytics

import (
	"github.com/hpungsan/traction/internal/post"
)

// row is one aggregation input: a group label plus raw metrics. Categorical
// dimensions yield one row per post; the keyword dimension yields one row
// per keyword occurrence (see explodeKeywords).
type row struct {
	label         string
	reach         int64
	likes         int64
	followsGained int64
	emailCaptures int64
}

// Aggregate groups posts by dim and sums the four raw metrics per distinct
// group value. Group order is first occurrence in the input, which makes
// downstream stable sorts deterministic.
//
// For platform/campaign/caption_style a missing value is normalized to
// Unlabeled, so those dimensions partition the input and total reach is
// preserved across groups. The keyword dimension explodes the delimited
// keyword field first; one post can feed several groups (or none), so no
// such invariant holds there.
func Aggregate(posts []post.Post, dim Dimension) []Group {
	if len(posts) == 0 {
		return nil
	}

	var rows []row
	if dim == DimKeyword {
		rows = explodeKeywords(posts)
	} else {
		rows = make([]row, 0, len(posts))
		for i := range posts {
			rows = append(rows, row{
				label:         categoricalLabel(&posts[i], dim),
				reach:         posts[i].Reach,
				likes:         posts[i].Likes,
				followsGained: posts[i].FollowsGained,
				emailCaptures: posts[i].EmailCaptures,
			})
		}
	}
	return sumRows(rows)
}

// explodeKeywords converts each post into one row per keyword token.
// Duplicate tokens within a single post are intentionally preserved: each
// occurrence yields its own row. Posts with no keywords contribute nothing.
func explodeKeywords(posts []post.Post) []row {
	var rows []row
	for i := range posts {
		for _, tok := range post.SplitKeywords(posts[i].Keywords) {
			rows = append(rows, row{
				label:         tok,
				reach:         posts[i].Reach,
				likes:         posts[i].Likes,
				followsGained: posts[i].FollowsGained,
				emailCaptures: posts[i].EmailCaptures,
			})
		}
	}
	return rows
}

func categoricalLabel(p *post.Post, dim Dimension) string {
	var v string
	switch dim {
	case DimPlatform:
		v = p.Platform
	case DimCampaign:
		v = p.Campaign
	case DimCaptionStyle:
		v = p.CaptionStyle
	}
	if v == "" {
		return Unlabeled
	}
	return v
}

// sumRows folds rows into groups keyed by label, keeping first-occurrence
// order.
func sumRows(rows []row) []Group {
	if len(rows) == 0 {
		return nil
	}
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, r := range rows {
		i, ok := index[r.label]
		if !ok {
			i = len(groups)
			index[r.label] = i
			groups = append(groups, Group{Label: r.label})
		}
		groups[i].Reach += r.reach
		groups[i].Likes += r.likes
		groups[i].FollowsGained += r.followsGained
		groups[i].EmailCaptures += r.emailCaptures
	}
	return groups
}

// Totals sums the four raw metrics over the whole snapshot and derives the
// overall rates. Used by the scorecard.
func Totals(posts []post.Post) Group {
	g := Group{Label: "Total"}
	for i := range posts {
		g.Reach += posts[i].Reach
		g.Likes += posts[i].Likes
		g.FollowsGained += posts[i].FollowsGained
		g.EmailCaptures += posts[i].EmailCaptures
	}
	deriveRates(&g)
	return g
}
