package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "posts", "insights", "weekly"
}

// PostsPageData is the template data for the post list page.
type PostsPageData struct {
	PageData
	Items      []ops.FetchOutput
	Pagination ops.Pagination
}

// DetailPageData is the template data for the post detail page.
type DetailPageData struct {
	PageData
	Post      *ops.FetchOutput
	NotesHTML template.HTML
}

// InsightsPageData is the template data for the insights report page.
type InsightsPageData struct {
	PageData
	Report     *ops.InsightsOutput
	Dimension  string
	Dimensions []analytics.Dimension
	RankBy     string
	SortKeys   []string
	Start      string
	End        string
	MinReach   int64
	TopN       int
	HasReport  bool
	Notice     string
}

// WeeklyPageData is the template data for the weekly review page.
type WeeklyPageData struct {
	PageData
	Review    *ops.WeeklyOutput
	WeekStart string
	GroupBy   string
	SortBy    string
	HasReview bool
	Notice    string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"formatTime": formatTime,
		"rate":       formatRate,
		"score":      formatScore,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"posts":    "posts.html",
		"detail":   "detail.html",
		"insights": "insights.html",
		"weekly":   "weekly.html",
		"error":    "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given status.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var tErr *errors.TractionError
	if !stderrors.As(err, &tErr) {
		tErr = errors.NewInternal(err)
	}

	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(tErr.Status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    string(tErr.Code),
				"message": tErr.Message,
				"status":  tErr.Status,
			},
		})
		return
	}

	r.renderPageStatus(w, tErr.Status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", tErr.Status),
			Version: r.version,
		},
		StatusCode: tErr.Status,
		Message:    tErr.Message,
	})
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04" UTC.
func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

// formatRate renders a rate as a percentage with two decimals.
func formatRate(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// formatScore renders an optional composite score.
func formatScore(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.4f", *v)
}
