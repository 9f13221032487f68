package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/ops"
	"github.com/hpungsan/traction/internal/taxonomy"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	taxo    *taxonomy.Store
	baseDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, taxo *taxonomy.Store, baseDir string) *Handlers {
	return &Handlers{db: db, cfg: cfg, taxo: taxo, baseDir: baseDir}
}

// Request types for each tool

// AddRequest represents the arguments for post_add.
type AddRequest struct {
	Platform      string   `json:"platform"`
	PostedAt      string   `json:"posted_at,omitempty"`
	Campaign      string   `json:"campaign,omitempty"`
	CaptionStyle  string   `json:"caption_style,omitempty"`
	Reach         int64    `json:"reach,omitempty"`
	Likes         int64    `json:"likes,omitempty"`
	FollowsGained int64    `json:"follows_gained,omitempty"`
	EmailCaptures int64    `json:"email_captures,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// FetchRequest represents the arguments for post_fetch.
type FetchRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for post_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// DeleteRequest represents the arguments for post_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// InsightsRequest represents the arguments for insights_run and the report
// part of insights_export.
type InsightsRequest struct {
	Dimension     string   `json:"dimension"`
	Start         string   `json:"start,omitempty"`
	End           string   `json:"end,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	Campaigns     []string `json:"campaigns,omitempty"`
	CaptionStyles []string `json:"caption_styles,omitempty"`
	RankBy        string   `json:"rank_by,omitempty"`
	MinReach      *int64   `json:"min_reach,omitempty"`
	TopN          int      `json:"top_n,omitempty"`
	WeightFollow  *float64 `json:"weight_follow,omitempty"`
	WeightCapture *float64 `json:"weight_capture,omitempty"`
	WeightLike    *float64 `json:"weight_like,omitempty"`
}

// WeeklyRequest represents the arguments for weekly_review.
type WeeklyRequest struct {
	WeekStart     string   `json:"week_start,omitempty"`
	GroupBy       string   `json:"group_by,omitempty"`
	SortBy        string   `json:"sort_by,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	Campaigns     []string `json:"campaigns,omitempty"`
	CaptionStyles []string `json:"caption_styles,omitempty"`
}

// ScorecardRequest represents the arguments for scorecard_run.
type ScorecardRequest struct {
	Start         string   `json:"start,omitempty"`
	End           string   `json:"end,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	Campaigns     []string `json:"campaigns,omitempty"`
	CaptionStyles []string `json:"caption_styles,omitempty"`
}

// SuggestRequest represents the arguments for keywords_suggest.
type SuggestRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

// ExportRequest represents the arguments for insights_export.
type ExportRequest struct {
	InsightsRequest
	Path string `json:"path,omitempty"`
}

// TaxonomyValuesRequest represents the arguments for taxonomy_values.
type TaxonomyValuesRequest struct {
	Group string `json:"group"`
}

// TaxonomyAddRequest represents the arguments for taxonomy_add.
type TaxonomyAddRequest struct {
	Group string `json:"group"`
	Value string `json:"value"`
}

// HandleAdd handles the post_add tool.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var postedAt time.Time
	if input.PostedAt != "" {
		postedAt, err = time.Parse(time.RFC3339, input.PostedAt)
		if err != nil {
			postedAt, err = time.Parse(ops.DateFormat, input.PostedAt)
		}
		if err != nil {
			return errorResult(errors.NewInvalidRequest("invalid posted_at (want YYYY-MM-DD or RFC3339)")), nil
		}
	}

	result, err := ops.AddPost(h.db, h.taxo, ops.AddPostInput{
		Platform:      input.Platform,
		PostedAt:      postedAt,
		Campaign:      input.Campaign,
		CaptionStyle:  input.CaptionStyle,
		Reach:         input.Reach,
		Likes:         input.Likes,
		FollowsGained: input.FollowsGained,
		EmailCaptures: input.EmailCaptures,
		Notes:         input.Notes,
		Keywords:      input.Keywords,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles the post_fetch tool.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Fetch(h.db, ops.FetchInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the post_list tool.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.List(h.db, ops.ListInput{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles the post_delete tool.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Delete(h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// insightsInput converts an InsightsRequest to the ops input.
func insightsInput(input InsightsRequest) (ops.InsightsInput, error) {
	out := ops.InsightsInput{
		Platforms:     input.Platforms,
		Campaigns:     input.Campaigns,
		CaptionStyles: input.CaptionStyles,
		Dimension:     input.Dimension,
		RankBy:        input.RankBy,
		MinReach:      input.MinReach,
		TopN:          input.TopN,
	}

	var err error
	if input.Start != "" {
		if out.Start, err = ops.ParseDate(input.Start); err != nil {
			return out, err
		}
	}
	if input.End != "" {
		if out.End, err = ops.ParseDate(input.End); err != nil {
			return out, err
		}
	}

	if input.WeightFollow != nil || input.WeightCapture != nil || input.WeightLike != nil {
		w := analytics.Weights{}
		if input.WeightFollow != nil {
			w.Follow = *input.WeightFollow
		}
		if input.WeightCapture != nil {
			w.Capture = *input.WeightCapture
		}
		if input.WeightLike != nil {
			w.Like = *input.WeightLike
		}
		out.Weights = &w
	}
	return out, nil
}

// HandleInsights handles the insights_run tool.
func (h *Handlers) HandleInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InsightsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	opsInput, err := insightsInput(input)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.Insights(h.db, h.cfg, opsInput)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleWeekly handles the weekly_review tool.
func (h *Handlers) HandleWeekly(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WeeklyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	opsInput := ops.WeeklyInput{
		GroupBy:       input.GroupBy,
		SortBy:        input.SortBy,
		Platforms:     input.Platforms,
		Campaigns:     input.Campaigns,
		CaptionStyles: input.CaptionStyles,
	}
	if input.WeekStart != "" {
		if opsInput.WeekStart, err = ops.ParseDate(input.WeekStart); err != nil {
			return errorResult(err), nil
		}
	}

	result, err := ops.Weekly(h.db, opsInput)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleScorecard handles the scorecard_run tool.
func (h *Handlers) HandleScorecard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ScorecardRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	opsInput := ops.ScorecardInput{
		Platforms:     input.Platforms,
		Campaigns:     input.Campaigns,
		CaptionStyles: input.CaptionStyles,
	}
	if input.Start != "" {
		if opsInput.Start, err = ops.ParseDate(input.Start); err != nil {
			return errorResult(err), nil
		}
	}
	if input.End != "" {
		if opsInput.End, err = ops.ParseDate(input.End); err != nil {
			return errorResult(err), nil
		}
	}

	result, err := ops.Scorecard(h.db, opsInput)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSuggest handles the keywords_suggest tool.
func (h *Handlers) HandleSuggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SuggestRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(ops.SuggestKeywords(ops.SuggestKeywordsInput{
		Text:  input.Text,
		Limit: input.Limit,
	}))
}

// HandleExport handles the insights_export tool.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	opsInput, err := insightsInput(input.InsightsRequest)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := ops.ExportInsights(h.db, h.cfg, h.baseDir, ops.ExportInsightsInput{
		Insights: opsInput,
		Path:     input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleTaxonomyValues handles the taxonomy_values tool.
func (h *Handlers) HandleTaxonomyValues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaxonomyValuesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	values, err := h.taxo.Values(input.Group)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"group": input.Group, "values": values})
}

// HandleTaxonomyAdd handles the taxonomy_add tool.
func (h *Handlers) HandleTaxonomyAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaxonomyAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	value, added, err := h.taxo.Upsert(input.Group, input.Value)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"group": input.Group, "value": value, "added": added})
}

// errorResult builds an error tool result from a coded error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if tErr, ok := err.(*errors.TractionError); ok {
		errorObj := map[string]any{
			"code":    tErr.Code,
			"message": tErr.Message,
			"status":  tErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if tErr.Code != errors.ErrInternal && tErr.Details != nil {
			errorObj["details"] = tErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult builds a JSON tool result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
