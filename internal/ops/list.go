package ops

import (
	"database/sql"

	"github.com/hpungsan/traction/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []FetchOutput `json:"items"`
	Pagination Pagination    `json:"pagination"`
	Sort       string        `json:"sort"`
}

// List retrieves recent posts with pagination, newest first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	posts, total, err := db.ListRecent(database, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]FetchOutput, len(posts))
	for i := range posts {
		items[i] = renderPost(&posts[i])
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "posted_at_desc",
	}, nil
}
