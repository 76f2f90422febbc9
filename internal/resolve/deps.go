package resolve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/hideseek/quarry/internal/config"
	"github.com/hideseek/quarry/internal/notify"
	"github.com/hideseek/quarry/internal/overpass"
)

// Provider is the place-data provider the resolvers consume.
// *overpass.Client is the production implementation; tests substitute fakes.
type Provider interface {
	FetchZone(ctx context.Context, q overpass.Query) (*overpass.Result, error)
	FindAdminBoundary(ctx context.Context, lat, lng float64, adminLevel int) (*geojson.Feature, error)
	FetchCoastline(ctx context.Context, bbox orb.Bound) ([]orb.LineString, error)
	Nearest(ctx context.Context, lat, lng float64, filter, elementKind, label string) (*geojson.Feature, error)
	SameLineStations(ctx context.Context, stationID int64) ([]int64, error)
}

// Deps bundles the external collaborators a resolution needs.
type Deps struct {
	Provider Provider
	Notifier notify.Notifier
	Config   *config.Config
	Cache    *Cache
}

// Context is the read-only map/application context a resolution runs
// against: the current viewport or drawn polygon, the hider coordinate when
// in hider mode, and the cached station list.
type Context struct {
	// Viewport is the coarse map viewport.
	Viewport orb.Bound

	// DrawnPolygon is the active hand-drawn region, when one exists. It
	// takes precedence over the viewport for the context fingerprint and
	// the resolution envelope.
	DrawnPolygon *geojson.Feature

	// Hider is the hidden point, or nil when not in hider mode.
	Hider *orb.Point

	// Stations is the cached station list for nearest-station questions.
	Stations []overpass.Element
}

// Envelope returns the bounding area resolutions tessellate and clip within.
func (c *Context) Envelope() orb.Bound {
	if c.DrawnPolygon != nil {
		return c.DrawnPolygon.Geometry.Bound()
	}
	return c.Viewport
}

// Fingerprint snapshots the map context for cache keys: the drawn polygon
// when present, otherwise the viewport quantized to two decimal places so
// sub-kilometer pans do not invalidate every cached boundary.
func (c *Context) Fingerprint() string {
	if c.DrawnPolygon != nil {
		data, err := c.DrawnPolygon.MarshalJSON()
		if err == nil {
			sum := sha256.Sum256(data)
			return "drawn:" + hex.EncodeToString(sum[:8])
		}
	}
	return fmt.Sprintf("viewport:%.2f,%.2f,%.2f,%.2f",
		c.Viewport.Min[0], c.Viewport.Min[1], c.Viewport.Max[0], c.Viewport.Max[1])
}
