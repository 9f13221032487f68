package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var addToolDef = mcp.NewTool("post_add",
	mcp.WithDescription("Record a social-media post with its engagement metrics. At least one metric must be positive."),
	mcp.WithString("platform", mcp.Required(), mcp.Description("Channel the post was published on: instagram, tiktok, facebook, youtube, pinterest, email")),
	mcp.WithString("posted_at", mcp.Description("Publication date (YYYY-MM-DD) or RFC3339 timestamp. Defaults to now.")),
	mcp.WithString("campaign", mcp.Description("Campaign/theme tag; new values extend the vocabulary")),
	mcp.WithString("caption_style", mcp.Description("Caption style tag; new values extend the vocabulary")),
	mcp.WithNumber("reach", mcp.Description("Estimated viewers reached")),
	mcp.WithNumber("likes", mcp.Description("Like count")),
	mcp.WithNumber("follows_gained", mcp.Description("Follows gained")),
	mcp.WithNumber("email_captures", mcp.Description("Email captures")),
	mcp.WithString("notes", mcp.Description("Free-text notes (markdown); not analyzed")),
	mcp.WithArray("keywords", mcp.Description("Keyword tags; normalized to lowercase and deduplicated"),
		mcp.Items(map[string]any{"type": "string"})),
)

var fetchToolDef = mcp.NewTool("post_fetch",
	mcp.WithDescription("Fetch one post by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Post ULID")),
)

var listToolDef = mcp.NewTool("post_list",
	mcp.WithDescription("List recent posts, newest first, with pagination."),
	mcp.WithNumber("limit", mcp.Description("Max items (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
)

var deleteToolDef = mcp.NewTool("post_delete",
	mcp.WithDescription("Delete a post so it stops counting in reports."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Post ULID")),
)

var insightsToolDef = mcp.NewTool("insights_run",
	mcp.WithDescription("Grouped, rate-normalized, ranked report: which platform/campaign/caption style/keyword is working."),
	mcp.WithString("dimension", mcp.Required(), mcp.Description("Grouping dimension: platform, campaign, caption_style, keyword")),
	mcp.WithString("start", mcp.Description("Window start date (YYYY-MM-DD, inclusive). Default: last full week.")),
	mcp.WithString("end", mcp.Description("Window end date (YYYY-MM-DD, inclusive)")),
	mcp.WithArray("platforms", mcp.Description("Restrict to these platforms"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("campaigns", mcp.Description("Restrict to these campaigns"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("caption_styles", mcp.Description("Restrict to these caption styles"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("rank_by", mcp.Description("Sort key: success_score (default), follow_rate, capture_rate, like_rate, follows_gained, email_captures, likes, reach")),
	mcp.WithNumber("min_reach", mcp.Description("Exclude groups with summed reach below this (default from config)")),
	mcp.WithNumber("top_n", mcp.Description("Number of groups to show (clamped to 3..20)")),
	mcp.WithNumber("weight_follow", mcp.Description("Composite weight for follow_rate, 0..1 (default 0.6)")),
	mcp.WithNumber("weight_capture", mcp.Description("Composite weight for capture_rate, 0..1 (default 0.3)")),
	mcp.WithNumber("weight_like", mcp.Description("Composite weight for like_rate, 0..1 (default 0.1)")),
)

var weeklyToolDef = mcp.NewTool("weekly_review",
	mcp.WithDescription("Grouped summary of one Monday-anchored week."),
	mcp.WithString("week_start", mcp.Description("Any date inside the week (YYYY-MM-DD); snapped to its Monday. Default: last full week.")),
	mcp.WithString("group_by", mcp.Description("platform (default), campaign, caption_style")),
	mcp.WithString("sort_by", mcp.Description("reach (default), likes, follows_gained, email_captures, like_rate, follow_rate, capture_rate")),
	mcp.WithArray("platforms", mcp.Description("Restrict to these platforms"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("campaigns", mcp.Description("Restrict to these campaigns"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("caption_styles", mcp.Description("Restrict to these caption styles"), mcp.Items(map[string]any{"type": "string"})),
)

var scorecardToolDef = mcp.NewTool("scorecard_run",
	mcp.WithDescription("Window totals with overall rates plus a weekly trend series (weeks without posts are absent)."),
	mcp.WithString("start", mcp.Description("Window start date (YYYY-MM-DD, inclusive). Default: last full week.")),
	mcp.WithString("end", mcp.Description("Window end date (YYYY-MM-DD, inclusive)")),
	mcp.WithArray("platforms", mcp.Description("Restrict to these platforms"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("campaigns", mcp.Description("Restrict to these campaigns"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("caption_styles", mcp.Description("Restrict to these caption styles"), mcp.Items(map[string]any{"type": "string"})),
)

var suggestToolDef = mcp.NewTool("keywords_suggest",
	mcp.WithDescription("Extract ranked keyword candidates from caption text (words and hashtags, stop words removed)."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Caption text")),
	mcp.WithNumber("limit", mcp.Description("Max candidates (default 15)")),
)

var exportToolDef = mcp.NewTool("insights_export",
	mcp.WithDescription("Run an insights report and write it as CSV into the exports directory."),
	mcp.WithString("dimension", mcp.Required(), mcp.Description("Grouping dimension: platform, campaign, caption_style, keyword")),
	mcp.WithString("start", mcp.Description("Window start date (YYYY-MM-DD, inclusive)")),
	mcp.WithString("end", mcp.Description("Window end date (YYYY-MM-DD, inclusive)")),
	mcp.WithString("rank_by", mcp.Description("Sort key (default success_score)")),
	mcp.WithNumber("min_reach", mcp.Description("Exclude groups with summed reach below this")),
	mcp.WithNumber("top_n", mcp.Description("Number of groups to export (clamped to 3..20)")),
	mcp.WithString("path", mcp.Description("Destination .csv directly in the exports directory (default auto-named)")),
)

var taxonomyValuesToolDef = mcp.NewTool("taxonomy_values",
	mcp.WithDescription("List the controlled vocabulary for a taxonomy group."),
	mcp.WithString("group", mcp.Required(), mcp.Description("campaign or caption_style")),
)

var taxonomyAddToolDef = mcp.NewTool("taxonomy_add",
	mcp.WithDescription("Idempotently add a value to a taxonomy vocabulary."),
	mcp.WithString("group", mcp.Required(), mcp.Description("campaign or caption_style")),
	mcp.WithString("value", mcp.Required(), mcp.Description("Value to add; trimmed and title-cased")),
)
