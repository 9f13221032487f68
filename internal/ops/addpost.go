package ops

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/post"
	"github.com/hpungsan/traction/internal/taxonomy"
)

// AddPostInput contains parameters for the AddPost operation.
type AddPostInput struct {
	Platform      string
	PostedAt      time.Time // zero value: now
	Campaign      string    // optional; upserted into the taxonomy
	CaptionStyle  string    // optional; upserted into the taxonomy
	Reach         int64
	Likes         int64
	FollowsGained int64
	EmailCaptures int64
	Notes         string
	Keywords      []string // normalized and joined on write
}

// AddPostOutput contains the result of the AddPost operation.
type AddPostOutput struct {
	ID       string `json:"id"`
	Keywords string `json:"keywords,omitempty"`
}

// AddPost validates and stores one post. Campaign and caption-style values
// are routed through the taxonomy store's idempotent upsert, so entering a
// new tag extends the vocabulary without a separate step. Metrics must not
// all be zero.
func AddPost(database *sql.DB, taxo *taxonomy.Store, input AddPostInput) (*AddPostOutput, error) {
	platform := strings.ToLower(strings.TrimSpace(input.Platform))
	if platform == "" {
		return nil, errors.NewInvalidRequest("platform is required")
	}
	if !post.ValidPlatform(platform) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown platform %q (known: %s)", input.Platform, strings.Join(post.Platforms, ", ")))
	}
	if input.Reach < 0 || input.Likes < 0 || input.FollowsGained < 0 || input.EmailCaptures < 0 {
		return nil, errors.NewInvalidRequest("metrics must be non-negative")
	}

	postedAt := input.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}

	campaign, err := upsertTag(taxo, taxonomy.GroupCampaign, input.Campaign)
	if err != nil {
		return nil, err
	}
	captionStyle, err := upsertTag(taxo, taxonomy.GroupCaptionStyle, input.CaptionStyle)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	now := time.Now().Unix()

	p := &post.Post{
		ID:            id,
		Platform:      platform,
		PostedAt:      postedAt,
		Campaign:      campaign,
		CaptionStyle:  captionStyle,
		Reach:         input.Reach,
		Likes:         input.Likes,
		FollowsGained: input.FollowsGained,
		EmailCaptures: input.EmailCaptures,
		Notes:         input.Notes,
		Keywords:      post.EncodeKeywords(input.Keywords),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !p.HasMetrics() {
		return nil, errors.NewNoMetrics()
	}

	if err := db.Insert(database, p); err != nil {
		return nil, err
	}

	return &AddPostOutput{ID: id, Keywords: p.Keywords}, nil
}

// upsertTag normalizes a vocabulary value through the taxonomy store.
// Empty values stay empty (the aggregator labels them "Unlabeled").
func upsertTag(taxo *taxonomy.Store, group, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	norm, _, err := taxo.Upsert(group, value)
	if err != nil {
		return "", err
	}
	return norm, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
