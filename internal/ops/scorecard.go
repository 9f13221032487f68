package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/errors"
)

// ScorecardInput contains parameters for the Scorecard operation.
type ScorecardInput struct {
	// Inclusive date window; both zero means the last full week.
	Start time.Time
	End   time.Time

	// Optional filter sets; empty means no restriction.
	Platforms     []string
	Campaigns     []string
	CaptionStyles []string
}

// ScorecardOutput contains window totals plus the weekly trend series.
type ScorecardOutput struct {
	Window string          `json:"window"`
	Totals analytics.Group `json:"totals"`

	// Weeks is the Monday-anchored trend series. Weeks without posts are
	// absent; consumers drawing a continuous chart must fill gaps.
	Weeks []analytics.WeekBucket `json:"weeks"`
}

// Scorecard sums the four metrics over the filtered window, derives the
// overall rates, and resamples the same snapshot into weekly buckets.
func Scorecard(database *sql.DB, input ScorecardInput) (*ScorecardOutput, error) {
	start, end, err := resolveWindow(input.Start, input.End)
	if err != nil {
		return nil, err
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

	return &ScorecardOutput{
		Window: windowLabel(start, end),
		Totals: analytics.Totals(posts),
		Weeks:  analytics.Resample(posts),
	}, nil
}
