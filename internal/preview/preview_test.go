package preview

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/hideseek/quarry/internal/config"
	"github.com/hideseek/quarry/internal/notify"
	"github.com/hideseek/quarry/internal/overpass"
	"github.com/hideseek/quarry/internal/question"
	"github.com/hideseek/quarry/internal/resolve"
)

type nilProvider struct{}

func (nilProvider) FetchZone(context.Context, overpass.Query) (*overpass.Result, error) {
	return &overpass.Result{}, nil
}
func (nilProvider) FindAdminBoundary(context.Context, float64, float64, int) (*geojson.Feature, error) {
	return nil, nil
}
func (nilProvider) FetchCoastline(context.Context, orb.Bound) ([]orb.LineString, error) {
	return nil, nil
}
func (nilProvider) Nearest(context.Context, float64, float64, string, string, string) (*geojson.Feature, error) {
	return nil, nil
}
func (nilProvider) SameLineStations(context.Context, int64) ([]int64, error) {
	return nil, nil
}

func testDeps() *resolve.Deps {
	return &resolve.Deps{
		Provider: nilProvider{},
		Notifier: &notify.Recorder{},
		Config:   config.DefaultConfig(),
		Cache:    resolve.NewCache(),
	}
}

func testContext() *resolve.Context {
	return &resolve.Context{Viewport: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}}
}

func TestExport_CustomZoneOutline(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{{{1, 1}, {4, 1}, {4, 4}, {1, 4}, {1, 1}}}))
	d := &question.Descriptor{Subtype: question.SubtypeCustomZone, Geometry: fc, Lat: 2, Lng: 2}

	f, ok := Export(context.Background(), testDeps(), testContext(), d)
	if !ok {
		t.Fatal("Export() should produce a preview for a resolvable zone")
	}
	switch f.Geometry.(type) {
	case orb.LineString, orb.MultiLineString:
	default:
		t.Errorf("preview geometry = %T, want a line representation", f.Geometry)
	}
	if f.Properties["subtype"] != string(question.SubtypeCustomZone) {
		t.Errorf("subtype property = %v", f.Properties["subtype"])
	}
}

func TestExport_SentinelBoundaryHasNoPreview(t *testing.T) {
	d := &question.Descriptor{Subtype: question.SubtypeZone, LocationKind: question.LocationPark, Lat: 5, Lng: 5}

	if _, ok := Export(context.Background(), testDeps(), testContext(), d); ok {
		t.Error("no-boundary questions have nothing to preview")
	}
}

func TestExport_ResolutionFailureDegradesQuietly(t *testing.T) {
	d := &question.Descriptor{Subtype: question.SubtypeAdminZone, Lat: 0, Lng: 0, AdminLevel: 2}

	if _, ok := Export(context.Background(), testDeps(), testContext(), d); ok {
		t.Error("a failed resolution must degrade to no preview, not panic or surface")
	}
}
