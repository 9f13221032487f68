package web

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI. All routes are
// read-only; entry happens through the CLI or MCP tools.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandlePosts handles GET /posts, listing recent posts newest first.
func (h *Handlers) HandlePosts(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(h.db, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "posts", PostsPageData{
		PageData: PageData{
			Title:   "Posts",
			Version: h.renderer.version,
			Nav:     "posts",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
	})
}

// HandleDetail handles GET /posts/{id}, one post with rendered notes.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(h.db, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	var notesHTML = renderMarkdown(result.Notes)

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   "Post " + result.ID,
			Version: h.renderer.version,
			Nav:     "posts",
		},
		Post:      result,
		NotesHTML: notesHTML,
	})
}

// HandleInsights handles GET /insights, the ranked report, driven by
// query parameters.
func (h *Handlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dimension := q.Get("dimension")
	rankBy := q.Get("rank_by")
	if rankBy == "" {
		rankBy = analytics.SortKeyComposite
	}

	data := InsightsPageData{
		PageData: PageData{
			Title:   "Insights",
			Version: h.renderer.version,
			Nav:     "insights",
		},
		Dimension:  dimension,
		Dimensions: analytics.Dimensions,
		RankBy:     rankBy,
		SortKeys:   analytics.SortKeys,
		Start:      q.Get("start"),
		End:        q.Get("end"),
		MinReach:   int64(parseIntParam(r, "min_reach", int(h.cfg.MinReach))),
		TopN:       parseIntParam(r, "top_n", h.cfg.TopN),
	}

	// A bare visit shows the form without running a report.
	if dimension == "" {
		h.renderer.renderPage(w, "insights", data)
		return
	}

	input := ops.InsightsInput{
		Dimension: dimension,
		RankBy:    rankBy,
		MinReach:  &data.MinReach,
		TopN:      data.TopN,
	}
	var err error
	if data.Start != "" {
		if input.Start, err = ops.ParseDate(data.Start); err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
	}
	if data.End != "" {
		if input.End, err = ops.ParseDate(data.End); err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
	}

	report, err := ops.Insights(h.db, h.cfg, input)
	if err != nil {
		// The two empty-result conditions render as notices, not error
		// pages: the form stays usable.
		if errors.Is(err, errors.ErrNoData) || errors.Is(err, errors.ErrAllFiltered) {
			data.Notice = err.(*errors.TractionError).Message
			h.renderer.renderPage(w, "insights", data)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	data.Report = report
	data.HasReport = true
	h.renderer.renderPage(w, "insights", data)
}

// HandleWeekly handles GET /weekly, one week's grouped summary.
func (h *Handlers) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	data := WeeklyPageData{
		PageData: PageData{
			Title:   "Weekly Review",
			Version: h.renderer.version,
			Nav:     "weekly",
		},
		WeekStart: q.Get("week_start"),
		GroupBy:   q.Get("group_by"),
		SortBy:    q.Get("sort_by"),
	}

	input := ops.WeeklyInput{
		GroupBy: data.GroupBy,
		SortBy:  data.SortBy,
	}
	var err error
	if data.WeekStart != "" {
		if input.WeekStart, err = ops.ParseDate(data.WeekStart); err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
	}

	review, err := ops.Weekly(h.db, input)
	if err != nil {
		if errors.Is(err, errors.ErrNoData) {
			data.Notice = err.(*errors.TractionError).Message
			h.renderer.renderPage(w, "weekly", data)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	data.Review = review
	data.HasReview = true
	h.renderer.renderPage(w, "weekly", data)
}

// parseIntParam parses an integer query parameter with a fallback default.
func parseIntParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
