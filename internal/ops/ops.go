// Package ops implements the operations behind every surface (CLI, MCP,
// web): post entry and retrieval, insights reports, weekly review,
// scorecard, and CSV export. Each operation is a pure function of its
// input plus the database snapshot it reads.
package ops

import (
	"fmt"
	"time"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/errors"
)

// Pagination limits for List.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// DateFormat is the calendar-date form accepted in filter inputs.
const DateFormat = "2006-01-02"

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, errors.NewInvalidRequest(fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", s))
	}
	return t, nil
}

// resolveWindow fills a missing date range with the last full
// Monday-to-Sunday week, the default reporting window. End-before-start is
// rejected.
func resolveWindow(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() && end.IsZero() {
		s, e := analytics.LastFullWeek(time.Now())
		return s, e, nil
	}
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, errors.NewInvalidRequest("start and end must be provided together")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.NewInvalidRequest("end date is before start date")
	}
	return start, end, nil
}

// windowLabel renders an inclusive date range for output and error details.
func windowLabel(start, end time.Time) string {
	return start.Format(DateFormat) + ".." + end.Format(DateFormat)
}

// resolveWeights picks the composite weights for a request: explicit input,
// then config override, then the engine default. Out-of-range weights are
// rejected; an all-zero vector is allowed and scores every group 0.0.
func resolveWeights(in *analytics.Weights, cfg *config.Config) (analytics.Weights, error) {
	w := analytics.DefaultWeights
	if cfg != nil && cfg.ScoreWeights != nil {
		w = analytics.Weights{
			Follow:  cfg.ScoreWeights.Follow,
			Capture: cfg.ScoreWeights.Capture,
			Like:    cfg.ScoreWeights.Like,
		}
	}
	if in != nil {
		w = *in
	}
	if !w.Valid() {
		return analytics.Weights{}, errors.NewInvalidRequest("score weights must be in [0, 1]")
	}
	return w, nil
}

// resolveMinReach picks the ranking threshold: explicit input, else config.
func resolveMinReach(in *int64, cfg *config.Config) (int64, error) {
	v := cfg.MinReach
	if in != nil {
		v = *in
	}
	if v < 0 {
		return 0, errors.NewInvalidRequest("min_reach must be non-negative")
	}
	return v, nil
}
