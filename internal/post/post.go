package post

import "time"

// Platforms is the fixed set of channels a post can be published to.
var Platforms = []string{"instagram", "tiktok", "facebook", "youtube", "pinterest", "email"}

// Post represents one published social-media post and its engagement counts.
type Post struct {
	// ID is a ULID that uniquely identifies this post
	ID string

	// Platform is one of Platforms
	Platform string

	// PostedAt is when the post was published
	PostedAt time.Time

	// Campaign and CaptionStyle are tags drawn from the taxonomy
	// vocabularies; either may be empty
	Campaign     string
	CaptionStyle string

	// Engagement counts. At least one must be positive at entry time.
	Reach         int64
	Likes         int64
	FollowsGained int64
	EmailCaptures int64

	// Notes is free text (markdown); it is never analyzed
	Notes string

	// Keywords is the delimited tag string as stored. Writes normalize it
	// via EncodeKeywords; reads must tolerate legacy comma/semicolon mixes.
	Keywords string

	// CreatedAt and UpdatedAt are Unix timestamps
	CreatedAt int64
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// ValidPlatform reports whether s is a known platform name.
func ValidPlatform(s string) bool {
	for _, p := range Platforms {
		if p == s {
			return true
		}
	}
	return false
}

// HasMetrics reports whether at least one engagement count is positive.
// Posts with all-zero metrics are rejected at entry.
func (p *Post) HasMetrics() bool {
	return p.Reach > 0 || p.Likes > 0 || p.FollowsGained > 0 || p.EmailCaptures > 0
}
