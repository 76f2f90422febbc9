package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/hideseek/quarry/internal/errors"
	"github.com/hideseek/quarry/internal/geo"
	"github.com/hideseek/quarry/internal/mask"
	"github.com/hideseek/quarry/internal/overpass"
	"github.com/hideseek/quarry/internal/preview"
	"github.com/hideseek/quarry/internal/question"
	"github.com/hideseek/quarry/internal/resolve"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *resolve.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *resolve.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// decode round-trips MCP request arguments through JSON into a typed
// request struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode arguments: %w", err)
	}
	return out, nil
}

// Request types for each tool

// ContextRequest is the wire form of the map context.
type ContextRequest struct {
	// Viewport is west, south, east, north.
	Viewport     [4]float64       `json:"viewport"`
	DrawnPolygon *geojson.Feature `json:"drawn_polygon,omitempty"`
	// Hider is lng, lat.
	Hider    *[2]float64      `json:"hider,omitempty"`
	Stations []StationRequest `json:"stations,omitempty"`
}

// StationRequest is one cached station for nearest-station questions.
type StationRequest struct {
	ID     int64   `json:"id"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Name   string  `json:"name"`
	NameEn string  `json:"name_en,omitempty"`
}

// ToContext converts the wire form into the engine's map context.
func (r ContextRequest) ToContext() *resolve.Context {
	mctx := &resolve.Context{
		Viewport: orb.Bound{
			Min: orb.Point{r.Viewport[0], r.Viewport[1]},
			Max: orb.Point{r.Viewport[2], r.Viewport[3]},
		},
		DrawnPolygon: r.DrawnPolygon,
	}
	if r.Hider != nil {
		p := orb.Point{r.Hider[0], r.Hider[1]}
		mctx.Hider = &p
	}
	for _, s := range r.Stations {
		tags := map[string]string{"name": s.Name}
		if s.NameEn != "" {
			tags["name:en"] = s.NameEn
		}
		mctx.Stations = append(mctx.Stations, overpass.Element{
			Type: "node", ID: s.ID, Lat: s.Lat, Lon: s.Lng, Tags: tags,
		})
	}
	return mctx
}

// ResolveRequest represents the arguments for question_resolve and
// question_preview.
type ResolveRequest struct {
	Question question.Descriptor `json:"question"`
	Context  ContextRequest      `json:"context"`
}

// MaskRequest represents the arguments for question_answer and mask_apply.
type MaskRequest struct {
	Question question.Descriptor `json:"question"`
	Context  ContextRequest      `json:"context"`
	Mask     *geojson.Feature    `json:"mask"`
}

// errorResult builds an error CallToolResult with a structured payload.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if qErr, ok := err.(*errors.QuarryError); ok {
		errorObj := map[string]any{
			"code":    qErr.Code,
			"message": qErr.Message,
			"status":  qErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or provider internals
		if qErr.Code != errors.ErrInternal && qErr.Details != nil {
			errorObj["details"] = qErr.Details
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

// successResult builds a success CallToolResult with a JSON payload.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

// BoundaryResponse is the wire form of a resolved boundary.
type BoundaryResponse struct {
	State   string              `json:"state"`
	Regions []*geojson.Geometry `json:"regions,omitempty"`
}

func boundaryResponse(b resolve.Boundary) (*BoundaryResponse, error) {
	switch {
	case b.IsNone():
		return &BoundaryResponse{State: "none"}, nil
	case b.IsEmpty():
		return &BoundaryResponse{State: "empty"}, nil
	}
	resp := &BoundaryResponse{State: "region"}
	for _, g := range b.Geoms() {
		og, err := geo.ToOrb(g)
		if err != nil {
			return nil, err
		}
		resp.Regions = append(resp.Regions, geojson.NewGeometry(og))
	}
	return resp, nil
}

// HandleResolve processes question_resolve requests.
func (h *Handlers) HandleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ResolveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	b, err := resolve.Resolve(ctx, h.deps, input.Context.ToContext(), &input.Question)
	if err != nil {
		return errorResult(err), nil
	}
	resp, err := boundaryResponse(b)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(resp)
}

// HandleAnswer processes question_answer requests.
func (h *Handlers) HandleAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MaskRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Mask == nil {
		return errorResult(errors.NewInvalidRequest("mask is required")), nil
	}

	current, err := geo.FromOrb(input.Mask.Geometry)
	if err != nil {
		return errorResult(err), nil
	}
	answered, err := mask.Derive(ctx, h.deps, input.Context.ToContext(), &input.Question, current)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"answered": answered,
		"question": &input.Question,
	})
}

// HandleApply processes mask_apply requests.
func (h *Handlers) HandleApply(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MaskRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Mask == nil {
		return errorResult(errors.NewInvalidRequest("mask is required")), nil
	}

	current, err := geo.FromOrb(input.Mask.Geometry)
	if err != nil {
		return errorResult(err), nil
	}
	next, changed, err := mask.Adjust(ctx, h.deps, input.Context.ToContext(), &input.Question, current)
	if err != nil {
		return errorResult(err), nil
	}
	if !changed {
		return successResult(map[string]any{
			"changed": false,
			"mask":    input.Mask,
		})
	}

	g, err := geo.ToOrb(next)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"changed": true,
		"mask":    geojson.NewFeature(g),
	})
}

// HandlePreview processes question_preview requests.
func (h *Handlers) HandlePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ResolveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	f, ok := preview.Export(ctx, h.deps, input.Context.ToContext(), &input.Question)
	if !ok {
		return successResult(map[string]any{"exists": false})
	}
	return successResult(map[string]any{
		"exists":  true,
		"feature": f,
	})
}

// HandleCacheStats processes cache_stats requests.
func (h *Handlers) HandleCacheStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.deps.Cache.Stats())
}
