package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestQuestionWorkflow exercises the complete question lifecycle:
// resolve → answer → apply → preview → cache stats
func TestQuestionWorkflow(t *testing.T) {
	h := NewHandlers(testDeps())
	ctx := context.Background()

	mapContext := contextArgs()
	mapContext["hider"] = []float64{2.0, 2.0} // inside the custom zone

	worldMask := map[string]any{
		"type":       "Feature",
		"properties": map[string]any{},
		"geometry": map[string]any{
			"type":        "Polygon",
			"coordinates": []any{[]any{[]any{0.0, 0.0}, []any{10.0, 0.0}, []any{10.0, 10.0}, []any{0.0, 10.0}, []any{0.0, 0.0}}},
		},
	}

	// 1. Resolve the boundary
	res, err := h.HandleResolve(ctx, makeRequest(map[string]any{
		"question": customZoneArgs(),
		"context":  mapContext,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "region", resultJSON(t, res)["state"])

	// 2. Derive the answer: hider inside the zone
	res, err = h.HandleAnswer(ctx, makeRequest(map[string]any{
		"question": customZoneArgs(),
		"context":  mapContext,
		"mask":     worldMask,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	payload := resultJSON(t, res)
	require.Equal(t, true, payload["answered"])
	answered := payload["question"].(map[string]any)
	require.Equal(t, true, answered["same"])

	// 3. Apply the answered question to the mask
	answeredQuestion := customZoneArgs()
	answeredQuestion["same"] = true
	res, err = h.HandleApply(ctx, makeRequest(map[string]any{
		"question": answeredQuestion,
		"context":  mapContext,
		"mask":     worldMask,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	payload = resultJSON(t, res)
	require.Equal(t, true, payload["changed"])
	require.NotNil(t, payload["mask"])

	// 4. Preview the boundary outline
	res, err = h.HandlePreview(ctx, makeRequest(map[string]any{
		"question": customZoneArgs(),
		"context":  mapContext,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	payload = resultJSON(t, res)
	require.Equal(t, true, payload["exists"])

	// 5. Every step after the first hit the boundary cache
	res, err = h.HandleCacheStats(ctx, makeRequest(nil))
	require.NoError(t, err)
	stats := resultJSON(t, res)
	require.Equal(t, float64(1), stats["entries"])
	require.Equal(t, float64(1), stats["misses"])
	require.Equal(t, float64(3), stats["hits"])
}
