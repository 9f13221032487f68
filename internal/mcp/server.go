package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/taxonomy"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"post_add": {
		def:     addToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdd },
	},
	"post_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"post_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"post_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"insights_run": {
		def:     insightsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInsights },
	},
	"weekly_review": {
		def:     weeklyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWeekly },
	},
	"scorecard_run": {
		def:     scorecardToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleScorecard },
	},
	"keywords_suggest": {
		def:     suggestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSuggest },
	},
	"insights_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"taxonomy_values": {
		def:     taxonomyValuesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaxonomyValues },
	},
	"taxonomy_add": {
		def:     taxonomyAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaxonomyAdd },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the
// given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with traction tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, taxo *taxonomy.Store, baseDir, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"traction",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, taxo, baseDir)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, taxo *taxonomy.Store, baseDir, version string) error {
	s := NewServer(db, cfg, taxo, baseDir, version)
	return server.ServeStdio(s)
}
