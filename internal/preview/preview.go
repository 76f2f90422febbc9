// Package preview converts resolved boundaries into line features for map
// display, independent of the answer pipeline.
package preview

import (
	"context"
	"log/slog"

	"github.com/paulmach/orb/geojson"

	"github.com/hideseek/quarry/internal/geo"
	"github.com/hideseek/quarry/internal/question"
	"github.com/hideseek/quarry/internal/resolve"
)

// Export resolves the question's boundary and returns its outline as a line
// feature for preview rendering. The second return reports whether a preview
// exists: sentinel and empty boundaries have none, and any resolution or
// geometry failure degrades to "no preview" rather than surfacing an error.
func Export(ctx context.Context, deps *resolve.Deps, mctx *resolve.Context, d *question.Descriptor) (*geojson.Feature, bool) {
	b, err := resolve.Resolve(ctx, deps, mctx, d)
	if err != nil {
		slog.Debug("preview resolution failed", "subtype", d.Subtype, "error", err)
		return nil, false
	}
	if b.IsNone() || b.IsEmpty() {
		return nil, false
	}

	region, err := b.Merged()
	if err != nil {
		slog.Debug("preview merge failed", "subtype", d.Subtype, "error", err)
		return nil, false
	}
	outline, err := geo.PolygonToLine(region)
	if err != nil {
		slog.Debug("preview outline failed", "subtype", d.Subtype, "error", err)
		return nil, false
	}
	g, err := geo.ToOrb(outline)
	if err != nil {
		slog.Debug("preview conversion failed", "subtype", d.Subtype, "error", err)
		return nil, false
	}

	f := geojson.NewFeature(g)
	f.Properties["subtype"] = string(d.Subtype)
	f.Properties["kind"] = string(d.EffectiveKind())
	return f, true
}
