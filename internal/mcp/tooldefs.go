package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var resolveToolDef = mcp.NewTool("question_resolve",
	mcp.WithDescription("Resolve a geography question into its decision boundary. Returns the boundary state (none, empty, or region) and the region geometries as GeoJSON. Results are memoized per question signature and map context."),
	mcp.WithObject("question",
		mcp.Required(),
		mcp.Description("Question descriptor: kind (matching|measuring), subtype, lat, lng, and the subtype's metadata (adminLevel, locationKind, geometry)."),
	),
	mcp.WithObject("context",
		mcp.Required(),
		mcp.Description("Map context: viewport [west, south, east, north], optional drawn_polygon GeoJSON feature, optional hider [lng, lat], optional stations list."),
	),
)

var answerToolDef = mcp.NewTool("question_answer",
	mcp.WithDescription("Derive the question's answer from the hider position: sets same, hiderCloser, or lengthComparison on the descriptor. An unchanged descriptor means the question could not be answered this pass."),
	mcp.WithObject("question",
		mcp.Required(),
		mcp.Description("Question descriptor to answer."),
	),
	mcp.WithObject("context",
		mcp.Required(),
		mcp.Description("Map context. Must include hider [lng, lat]; station questions also need the stations list."),
	),
	mcp.WithObject("mask",
		mcp.Required(),
		mcp.Description("Current working map mask as a GeoJSON feature."),
	),
)

var applyToolDef = mcp.NewTool("mask_apply",
	mcp.WithDescription("Apply an answered question's boundary to the working map mask. Returns the replacement mask; the input mask is never mutated. Descriptors without an outcome leave the mask unchanged."),
	mcp.WithObject("question",
		mcp.Required(),
		mcp.Description("Answered question descriptor (same or hiderCloser set)."),
	),
	mcp.WithObject("context",
		mcp.Required(),
		mcp.Description("Map context the boundary was resolved against."),
	),
	mcp.WithObject("mask",
		mcp.Required(),
		mcp.Description("Current working map mask as a GeoJSON feature."),
	),
)

var previewToolDef = mcp.NewTool("question_preview",
	mcp.WithDescription("Export a question's boundary outline as a GeoJSON line feature for map preview, independent of the answer pipeline."),
	mcp.WithObject("question",
		mcp.Required(),
		mcp.Description("Question descriptor to preview."),
	),
	mcp.WithObject("context",
		mcp.Required(),
		mcp.Description("Map context to resolve within."),
	),
)

var cacheStatsToolDef = mcp.NewTool("cache_stats",
	mcp.WithDescription("Report boundary-cache usage: entry count, hits, and misses."),
)
