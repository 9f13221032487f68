package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/errors"
)

// WeeklyInput contains parameters for the Weekly review operation.
type WeeklyInput struct {
	// WeekStart selects the week; it is snapped to the Monday on/before it.
	// Zero means the last full week.
	WeekStart time.Time

	// Optional filter sets; empty means no restriction.
	Platforms     []string
	Campaigns     []string
	CaptionStyles []string

	// GroupBy is a categorical dimension (platform, campaign,
	// caption_style). Defaults to platform.
	GroupBy string

	// SortBy is a metric or rate key. Defaults to reach. The whole table
	// is shown; there is no top-N truncation in the weekly review.
	SortBy string
}

// WeeklyOutput contains the grouped summary for one week.
type WeeklyOutput struct {
	WeekStart   string            `json:"week_start"`
	WeekEnd     string            `json:"week_end"`
	GroupBy     string            `json:"group_by"`
	LabelColumn string            `json:"label_column"`
	SortBy      string            `json:"sort_by"`
	Groups      []analytics.Group `json:"groups"`
}

// Weekly summarizes one Monday-anchored week grouped by a categorical
// dimension, every group included, sorted by the chosen metric.
func Weekly(database *sql.DB, input WeeklyInput) (*WeeklyOutput, error) {
	groupBy := input.GroupBy
	if groupBy == "" {
		groupBy = string(analytics.DimPlatform)
	}
	dim := analytics.Dimension(groupBy)
	if !dim.Valid() || dim == analytics.DimKeyword {
		return nil, errors.NewInvalidRequest("group_by must be one of: platform, campaign, caption_style")
	}
	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = "reach"
	}
	if !analytics.ValidSortKey(sortBy) || sortBy == analytics.SortKeyComposite {
		return nil, errors.NewInvalidRequest("unknown sort key: " + sortBy)
	}

	anchor := input.WeekStart
	if anchor.IsZero() {
		anchor, _ = analytics.LastFullWeek(time.Now())
	}
	start := analytics.MondayOf(anchor)
	end := start.AddDate(0, 0, 6)

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
	analytics.ComputeRates(groups)
	if err := analytics.SortGroups(groups, sortBy); err != nil {
		return nil, err
	}

	return &WeeklyOutput{
		WeekStart:   start.Format(DateFormat),
		WeekEnd:     end.Format(DateFormat),
		GroupBy:     string(dim),
		LabelColumn: dim.LabelColumn(),
		SortBy:      sortBy,
		Groups:      groups,
	}, nil
}
