package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/post"
)

const postColumns = `id, platform, posted_at, campaign, caption_style,
	reach, likes, follows_gained, email_captures,
	notes, keywords, created_at, updated_at, deleted_at`

// postedAtLayout stores posted_at as the naive wall-clock datetime the
// user entered. Keeping the string offset-free means SQLite's date()
// returns the same calendar date the user saw, and re-parsing yields one
// location for every row.
const postedAtLayout = "2006-01-02T15:04:05"

// Insert stores a new post in the database.
func Insert(db *sql.DB, p *post.Post) error {
	query := `
		INSERT INTO posts (
			id, platform, posted_at, campaign, caption_style,
			reach, likes, follows_gained, email_captures,
			notes, keywords, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`
	_, err := db.Exec(query,
		p.ID, p.Platform, p.PostedAt.Format(postedAtLayout),
		nullIfEmpty(p.Campaign), nullIfEmpty(p.CaptionStyle),
		p.Reach, p.Likes, p.FollowsGained, p.EmailCaptures,
		nullIfEmpty(p.Notes), nullIfEmpty(p.Keywords),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetByID retrieves a post by its ULID. Soft-deleted posts are excluded.
func GetByID(db *sql.DB, id string) (*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ? AND deleted_at IS NULL`

	row := db.QueryRow(query, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return p, nil
}

// SoftDelete marks a post deleted. Returns NOT_FOUND if no active post has
// the given ID.
func SoftDelete(db *sql.DB, id string, now int64) error {
	res, err := db.Exec(
		`UPDATE posts SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// Filter selects posts for an analytic request. The date range is
// inclusive; empty slices mean "no restriction on that field".
type Filter struct {
	Start         time.Time
	End           time.Time
	Platforms     []string
	Campaigns     []string
	CaptionStyles []string
}

// QueryPosts returns all active posts matching the filter, ordered by
// posted_at ascending. The result is the immutable snapshot the analytics
// engine computes over.
func QueryPosts(db *sql.DB, f Filter) ([]post.Post, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + postColumns + ` FROM posts
		WHERE deleted_at IS NULL AND date(posted_at) BETWEEN ? AND ?`)
	args := []any{f.Start.Format("2006-01-02"), f.End.Format("2006-01-02")}

	appendInClause(&sb, &args, "platform", f.Platforms)
	appendInClause(&sb, &args, "campaign", f.Campaigns)
	appendInClause(&sb, &args, "caption_style", f.CaptionStyles)

	sb.WriteString(" ORDER BY posted_at ASC, id ASC")

	rows, err := db.Query(sb.String(), args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var posts []post.Post
	for rows.Next() {
		p, err := scanPostFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return posts, nil
}

// ListRecent returns active posts ordered by posted_at descending, with
// limit/offset pagination, plus the total active count.
func ListRecent(db *sql.DB, limit, offset int) ([]post.Post, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM posts WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + postColumns + ` FROM posts
		WHERE deleted_at IS NULL
		ORDER BY posted_at DESC, id DESC
		LIMIT ? OFFSET ?`
	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var posts []post.Post
	for rows.Next() {
		p, err := scanPostFromRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return posts, total, nil
}

// appendInClause adds "AND col IN (?, ...)" for a non-empty value set.
func appendInClause(sb *strings.Builder, args *[]any, col string, values []string) {
	if len(values) == 0 {
		return
	}
	sb.WriteString(" AND " + col + " IN (")
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
		*args = append(*args, v)
	}
	sb.WriteString(")")
}

// scanner abstracts sql.Row and sql.Rows for scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*post.Post, error) {
	var (
		p         post.Post
		postedAt  string
		campaign  sql.NullString
		caption   sql.NullString
		notes     sql.NullString
		keywords  sql.NullString
		deletedAt sql.NullInt64
	)

	err := s.Scan(
		&p.ID, &p.Platform, &postedAt, &campaign, &caption,
		&p.Reach, &p.Likes, &p.FollowsGained, &p.EmailCaptures,
		&notes, &keywords, &p.CreatedAt, &p.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PostedAt, err = time.Parse(postedAtLayout, postedAt)
	if err != nil {
		return nil, err
	}
	p.Campaign = campaign.String
	p.CaptionStyle = caption.String
	p.Notes = notes.String
	p.Keywords = keywords.String
	if deletedAt.Valid {
		v := deletedAt.Int64
		p.DeletedAt = &v
	}
	return &p, nil
}

func scanPostFromRows(rows *sql.Rows) (*post.Post, error) {
	return scanPost(rows)
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
