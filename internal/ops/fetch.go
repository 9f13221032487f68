package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/post"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID string
}

// FetchOutput is a post rendered for output.
type FetchOutput struct {
	ID            string `json:"id"`
	Platform      string `json:"platform"`
	PostedAt      string `json:"posted_at"`
	Campaign      string `json:"campaign,omitempty"`
	CaptionStyle  string `json:"caption_style,omitempty"`
	Reach         int64  `json:"reach"`
	Likes         int64  `json:"likes"`
	FollowsGained int64  `json:"follows_gained"`
	EmailCaptures int64  `json:"email_captures"`
	Notes         string `json:"notes,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// Fetch retrieves one post by ID.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	p, err := db.GetByID(database, id)
	if err != nil {
		return nil, err
	}
	out := renderPost(p)
	return &out, nil
}

func renderPost(p *post.Post) FetchOutput {
	return FetchOutput{
		ID:            p.ID,
		Platform:      p.Platform,
		PostedAt:      p.PostedAt.Format(time.RFC3339),
		Campaign:      p.Campaign,
		CaptionStyle:  p.CaptionStyle,
		Reach:         p.Reach,
		Likes:         p.Likes,
		FollowsGained: p.FollowsGained,
		EmailCaptures: p.EmailCaptures,
		Notes:         p.Notes,
		Keywords:      p.Keywords,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
