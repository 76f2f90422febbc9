package resolve

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/twpayne/go-geos"

	"github.com/hideseek/quarry/internal/errors"
	"github.com/hideseek/quarry/internal/geo"
	"github.com/hideseek/quarry/internal/overpass"
	"github.com/hideseek/quarry/internal/question"
)

// railSimplifyToleranceDeg trims redundant vertices from rail chains before
// buffering. Roughly ten meters at mid latitudes.
const railSimplifyToleranceDeg = 0.0001

// measuringResolvers maps each measuring-family subtype to its resolver.
// The interior of a measuring boundary represents "farther from the feature
// than the question's reference coordinate".
var measuringResolvers = map[question.Subtype]resolverFunc{
	question.SubtypeHighspeedRail:          resolveHighspeedRail,
	question.SubtypeCoastline:              resolveCoastline,
	question.SubtypeAirport:                resolveFeatureDistance,
	question.SubtypeMajorCity:              resolveFeatureDistance,
	question.SubtypeCategoryFull:           resolveFeatureDistance,
	question.SubtypeCustomMeasure:          resolveCustomMeasure,
	question.SubtypeMcDonalds:              resolveNoBoundary,
	question.SubtypeSeven11:                resolveNoBoundary,
	question.SubtypeRailMeasure:            resolveNoBoundary,
	question.SubtypeSameTrainLine:          resolveNoBoundary,
	question.SubtypeSameFirstLetterStation: resolveNoBoundary,
	question.SubtypeSameLengthStation:      resolveNoBoundary,
}

// resolveHighspeedRail builds corridors around every high-speed rail line in
// the envelope, then splits the viewport by distance to the nearest corridor.
func resolveHighspeedRail(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	bbox := mctx.Envelope()
	res, err := deps.Provider.FetchZone(ctx, overpass.Query{
		Filter:      `["railway"="rail"]["highspeed"="yes"]`,
		Label:       "high-speed rail",
		ElementKind: "way",
		OutputMode:  "geom",
		BBox:        &bbox,
	})
	if err != nil {
		return Boundary{}, err
	}

	chains := overpass.Chain(overpass.Lines(res.Elements))
	if len(chains) == 0 {
		return EmptyBoundary(), nil
	}

	corridors := make([]*geos.Geom, 0, len(chains))
	for _, chain := range chains {
		trimmed := simplify.DouglasPeucker(railSimplifyToleranceDeg).Simplify(chain.Clone()).(orb.LineString)
		line, err := geo.LineGeom(trimmed)
		if err != nil {
			return Boundary{}, err
		}
		corridor, err := geo.BufferMeters(line, float64(deps.Config.RailBufferMeters), d.Lat, deps.Config.BufferQuadSegments)
		if err != nil {
			return Boundary{}, err
		}
		corridors = append(corridors, corridor)
	}
	feature, err := geo.UnionAll(corridors)
	if err != nil {
		return Boundary{}, err
	}
	return splitByDistance(feature, deps, mctx, d)
}

// resolveCoastline splits the viewport by distance to the nearest coastline.
// Coastline segments are fetched from an area inflated well past the
// viewport so the nearest stretch of coast is present even when it lies
// outside the visible map.
func resolveCoastline(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	fetchBox := geo.InflateBound(mctx.Envelope(), coastlineFetchPadMeters)
	chains, err := deps.Provider.FetchCoastline(ctx, fetchBox)
	if err != nil {
		return Boundary{}, err
	}
	if len(chains) == 0 {
		return EmptyBoundary(), nil
	}

	lines := make([]*geos.Geom, 0, len(chains))
	for _, chain := range chains {
		line, err := geo.LineGeom(chain)
		if err != nil {
			return Boundary{}, err
		}
		lines = append(lines, line)
	}
	coast, err := geo.Combine(lines)
	if err != nil {
		return Boundary{}, err
	}

	ref := orb.Point{d.Lng, d.Lat}
	nearest, err := geo.NearestPoint(coast, ref)
	if err != nil {
		return Boundary{}, err
	}
	dist := geo.DistanceMeters(ref, nearest)
	if dist <= 0 {
		return EmptyBoundary(), nil
	}

	// Clip the coast to the viewport extended by the reference distance.
	// Buffering the clipped stretch keeps the near region exact at the
	// viewport edge without buffering every fetched segment.
	clipBox, err := geo.BoundPolygon(geo.InflateBound(mctx.Envelope(), dist))
	if err != nil {
		return Boundary{}, err
	}
	clipped, err := geo.Intersection(coast, clipBox)
	if err != nil {
		return Boundary{}, err
	}
	near, err := geo.BufferMeters(clipped, dist, d.Lat, deps.Config.BufferQuadSegments)
	if err != nil {
		return Boundary{}, err
	}
	envelope, err := geo.BoundPolygon(mctx.Envelope())
	if err != nil {
		return Boundary{}, err
	}
	far, err := geo.Difference(envelope, near)
	if err != nil {
		return Boundary{}, err
	}
	return RegionBoundary(far), nil
}

// coastlineFetchPadMeters widens the coastline fetch area past the viewport.
const coastlineFetchPadMeters = 100000

// resolveFeatureDistance splits the viewport by distance to the nearest
// feature in the subtype's point set.
func resolveFeatureDistance(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	points, aborted, err := fetchPointSet(ctx, deps, mctx, d)
	if err != nil {
		return Boundary{}, err
	}
	if aborted || len(points) == 0 {
		return EmptyBoundary(), nil
	}

	geoms := make([]*geos.Geom, 0, len(points))
	for _, p := range points {
		g, err := geo.PointGeom(p)
		if err != nil {
			return Boundary{}, err
		}
		geoms = append(geoms, g)
	}
	feature, err := geo.Combine(geoms)
	if err != nil {
		return Boundary{}, err
	}
	return splitByDistance(feature, deps, mctx, d)
}

// resolveCustomMeasure splits the viewport by distance to the caller-supplied
// geometry.
func resolveCustomMeasure(_ context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	if d.Geometry == nil || len(d.Geometry.Features) == 0 {
		return Boundary{}, errors.NewInvalidRequest("custom-measure question carries no geometry")
	}
	geoms := make([]*geos.Geom, 0, len(d.Geometry.Features))
	for _, f := range d.Geometry.Features {
		g, err := geo.FromOrb(f.Geometry)
		if err != nil {
			return Boundary{}, err
		}
		geoms = append(geoms, g)
	}
	feature, err := geo.Combine(geoms)
	if err != nil {
		return Boundary{}, err
	}
	return splitByDistance(feature, deps, mctx, d)
}

// splitByDistance carves the envelope into the half farther from feature
// than the question's reference coordinate. The near half is the reference
// distance buffer around the feature; the returned region is the envelope
// minus that buffer.
func splitByDistance(feature *geos.Geom, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	ref := orb.Point{d.Lng, d.Lat}
	nearest, err := geo.NearestPoint(feature, ref)
	if err != nil {
		return Boundary{}, err
	}
	dist := geo.DistanceMeters(ref, nearest)
	if dist <= 0 {
		return EmptyBoundary(), nil
	}

	near, err := geo.BufferMeters(feature, dist, d.Lat, deps.Config.BufferQuadSegments)
	if err != nil {
		return Boundary{}, err
	}
	envelope, err := geo.BoundPolygon(mctx.Envelope())
	if err != nil {
		return Boundary{}, err
	}
	far, err := geo.Difference(envelope, near)
	if err != nil {
		return Boundary{}, err
	}
	return RegionBoundary(far), nil
}
