package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/errors"
)

// InsightsInput contains parameters for the Insights operation.
type InsightsInput struct {
	// Inclusive date window; both zero means the last full week.
	Start time.Time
	End   time.Time

	// Optional filter sets; empty means no restriction.
	Platforms     []string
	Campaigns     []string
	CaptionStyles []string

	// Dimension to group by. Required.
	Dimension string

	// RankBy defaults to the composite success score.
	RankBy string

	// MinReach defaults from config; TopN likewise, clamped by the engine.
	MinReach *int64
	TopN     int

	// Weights apply only when ranking by the composite score.
	Weights *analytics.Weights
}

// InsightsOutput contains the ranked report.
type InsightsOutput struct {
	Dimension   string            `json:"dimension"`
	LabelColumn string            `json:"label_column"`
	Window      string            `json:"window"`
	RankBy      string            `json:"rank_by"`
	MinReach    int64             `json:"min_reach"`
	Groups      []analytics.Group `json:"groups"`
}

// Insights runs the full reporting pipeline: fetch the filtered snapshot,
// aggregate by dimension, derive rates, optionally score, then rank.
//
// Error conditions are distinct: NO_DATA when the window/filters match no
// posts, ALL_FILTERED when the min-reach threshold removed every group.
func Insights(database *sql.DB, cfg *config.Config, input InsightsInput) (*InsightsOutput, error) {
	dim := analytics.Dimension(input.Dimension)
	if !dim.Valid() {
		return nil, errors.NewInvalidRequest("unknown dimension: " + input.Dimension)
	}
	rankBy := input.RankBy
	if rankBy == "" {
		rankBy = analytics.SortKeyComposite
	}
	if !analytics.ValidSortKey(rankBy) {
		return nil, errors.NewInvalidRequest("unknown sort key: " + rankBy)
	}

	start, end, err := resolveWindow(input.Start, input.End)
	if err != nil {
		return nil, err
	}
	minReach, err := resolveMinReach(input.MinReach, cfg)
	if err != nil {
		return nil, err
	}
	topN := input.TopN
	if topN == 0 {
		topN = cfg.TopN
	}

	posts, err := db.QueryPosts(database, db.Filter{
		Start:         start,
		End:           end,
		Platforms:     input.Platforms,
		Campaigns:     input.Campaigns,
		CaptionStyles: input.CaptionStyles,
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, errors.NewNoData(windowLabel(start, end))
	}

	groups := analytics.Aggregate(posts, dim)
	if len(groups) == 0 {
		// Possible for the keyword dimension when no post carries keywords.
		return nil, errors.NewNoData(windowLabel(start, end))
	}
	analytics.ComputeRates(groups)

	if rankBy == analytics.SortKeyComposite {
		weights, err := resolveWeights(input.Weights, cfg)
		if err != nil {
			return nil, err
		}
		analytics.Score(groups, weights)
	}

	ranked, err := analytics.Rank(groups, minReach, rankBy, topN)
	if err != nil {
		return nil, err
	}

	return &InsightsOutput{
		Dimension:   string(dim),
		LabelColumn: dim.LabelColumn(),
		Window:      windowLabel(start, end),
		RankBy:      rankBy,
		MinReach:    minReach,
		Groups:      ranked,
	}, nil
}
