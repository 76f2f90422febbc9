package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hideseek/quarry/internal/config"
	"github.com/hideseek/quarry/internal/resolve"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"question_resolve": {
		def:     resolveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleResolve },
	},
	"question_answer": {
		def:     answerToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAnswer },
	},
	"mask_apply": {
		def:     applyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleApply },
	},
	"question_preview": {
		def:     previewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePreview },
	},
	"cache_stats": {
		def:     cacheStatsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCacheStats },
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

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Quarry tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(deps *resolve.Deps, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"quarry",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps)

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
func Run(deps *resolve.Deps, cfg *config.Config, version string) error {
	s := NewServer(deps, cfg, version)
	return server.ServeStdio(s)
}
