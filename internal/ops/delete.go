package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Delete soft-deletes a post so a mistaken entry stops counting in reports.
func Delete(database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if err := db.SoftDelete(database, id, time.Now().Unix()); err != nil {
		return nil, err
	}
	return &DeleteOutput{ID: id, Deleted: true}, nil
}
