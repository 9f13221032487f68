// Package analytics is the reporting engine: dimensional aggregation of
// post metrics, rate derivation, composite scoring, ranking, and weekly
// resampling. Every function here is a pure computation over an
// already-fetched, immutable snapshot of posts; nothing holds state between
// invocations, so parallel callers are safe as long as inputs are
// independent collections.
package analytics

// Dimension is a categorical axis used to group posts for comparison.
type Dimension string

const (
	DimPlatform     Dimension = "platform"
	DimCampaign     Dimension = "campaign"
	DimCaptionStyle Dimension = "caption_style"
	DimKeyword      Dimension = "keyword"
)

// Dimensions lists all valid grouping dimensions.
var Dimensions = []Dimension{DimPlatform, DimCampaign, DimCaptionStyle, DimKeyword}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	for _, v := range Dimensions {
		if v == d {
			return true
		}
	}
	return false
}

// LabelColumn is the CSV/table column header for a dimension's group labels.
func (d Dimension) LabelColumn() string {
	switch d {
	case DimCaptionStyle:
		return "style"
	default:
		return string(d)
	}
}

// Unlabeled is the group label substituted for missing categorical values.
const Unlabeled = "Unlabeled"

// Group is one aggregated row of an insights report. It is produced fresh
// per request and never persisted.
type Group struct {
	Label         string `json:"label"`
	Reach         int64  `json:"reach"`
	Likes         int64  `json:"likes"`
	FollowsGained int64  `json:"follows_gained"`
	EmailCaptures int64  `json:"email_captures"`

	LikeRate    float64 `json:"like_rate"`
	FollowRate  float64 `json:"follow_rate"`
	CaptureRate float64 `json:"capture_rate"`

	// Score is set only when the caller ranks by the composite key.
	Score *float64 `json:"success_score,omitempty"`
}
