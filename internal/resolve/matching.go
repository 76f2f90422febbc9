package resolve

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"

	"github.com/hideseek/quarry/internal/errors"
	"github.com/hideseek/quarry/internal/geo"
	"github.com/hideseek/quarry/internal/overpass"
	"github.com/hideseek/quarry/internal/question"
)

// resolverFunc resolves one question variant into a boundary.
type resolverFunc func(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error)

// matchingResolvers maps each matching-family subtype to its resolver.
// The interior of a matching boundary represents "same region as the hider".
var matchingResolvers = map[question.Subtype]resolverFunc{
	question.SubtypeZone:         resolveNoBoundary,
	question.SubtypeCustomZone:   resolveCustomZone,
	question.SubtypeAdminZone:    resolveAdminZone,
	question.SubtypeLetterZone:   resolveLetterZone,
	question.SubtypeAirport:      resolvePointSetCell,
	question.SubtypeMajorCity:    resolvePointSetCell,
	question.SubtypeCategoryFull: resolvePointSetCell,
	question.SubtypeCustomPoints: resolvePointSetCell,
}

// resolveNoBoundary covers subtypes answered by nearest-feature comparison
// instead of boundary math.
func resolveNoBoundary(context.Context, *Deps, *Context, *question.Descriptor) (Boundary, error) {
	return NoBoundary(), nil
}

// resolveCustomZone returns the caller-supplied geometry verbatim.
func resolveCustomZone(_ context.Context, _ *Deps, _ *Context, d *question.Descriptor) (Boundary, error) {
	if d.Geometry == nil || len(d.Geometry.Features) == 0 {
		return Boundary{}, errors.NewInvalidRequest("custom-zone question carries no geometry")
	}
	geoms := make([]*geos.Geom, 0, len(d.Geometry.Features))
	for _, f := range d.Geometry.Features {
		g, err := geo.FromOrb(f.Geometry)
		if err != nil {
			return Boundary{}, err
		}
		geoms = append(geoms, g)
	}
	return RegionBoundary(geoms...), nil
}

// resolveAdminZone fetches the enclosing administrative boundary at the
// requested level.
func resolveAdminZone(ctx context.Context, deps *Deps, _ *Context, d *question.Descriptor) (Boundary, error) {
	f, err := deps.Provider.FindAdminBoundary(ctx, d.Lat, d.Lng, d.AdminLevel)
	if err != nil {
		return Boundary{}, err
	}
	if f == nil {
		return Boundary{}, errors.NewNoBoundaryFound(d.Lat, d.Lng, d.AdminLevel)
	}
	g, err := geo.FromOrb(f.Geometry)
	if err != nil {
		return Boundary{}, err
	}
	return RegionBoundary(g), nil
}

// resolveLetterZone unions every same-level admin zone whose name begins
// with the same letter as the enclosing zone. Each zone polygon is
// simplified before the union: unioning many full-resolution admin polygons
// is too expensive and fragile, so zone edges are knowingly inexact within
// the configured tolerance.
func resolveLetterZone(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	enclosing, err := deps.Provider.FindAdminBoundary(ctx, d.Lat, d.Lng, d.AdminLevel)
	if err != nil {
		return Boundary{}, err
	}
	if enclosing == nil {
		return Boundary{}, errors.NewNoBoundaryFound(d.Lat, d.Lng, d.AdminLevel)
	}

	letter, err := groupingLetter(enclosing.Properties)
	if err != nil {
		return Boundary{}, err
	}

	bbox := mctx.Envelope()
	res, err := deps.Provider.FetchZone(ctx, overpass.Query{
		Filter: fmt.Sprintf(`["boundary"="administrative"]["admin_level"="%d"]["name:en"~"^%s",i]`, d.AdminLevel, letter),
		Fallbacks: []string{
			fmt.Sprintf(`["boundary"="administrative"]["admin_level"="%d"]["name"~"^%s",i]`, d.AdminLevel, letter),
		},
		Label:       fmt.Sprintf("zones starting with %s", letter),
		ElementKind: "relation",
		OutputMode:  "geom",
		BBox:        &bbox,
	})
	if err != nil {
		return Boundary{}, err
	}

	var zones []*geos.Geom
	for _, e := range res.Elements {
		mp := overpass.RelationRings(e)
		if len(mp) == 0 {
			continue
		}
		g, err := geo.FromOrb(mp)
		if err != nil {
			return Boundary{}, err
		}
		simplified, err := geo.Simplify(g, deps.Config.LetterZoneSimplifyTolerance, true)
		if err != nil {
			return Boundary{}, err
		}
		zones = append(zones, simplified)
	}
	if len(zones) == 0 {
		return EmptyBoundary(), nil
	}

	union, err := geo.UnionAll(zones)
	if err != nil {
		return Boundary{}, err
	}
	return RegionBoundary(union), nil
}

// groupingLetter derives the letter-zone grouping letter from a boundary's
// properties, preferring the English name and requiring an ASCII initial.
func groupingLetter(props map[string]any) (string, error) {
	name, _ := props["name:en"].(string)
	if name == "" {
		name, _ = props["name"].(string)
	}
	if name == "" {
		return "", errors.NewNoEnglishName("")
	}
	c := name[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return string(c), nil
	case c >= 'a' && c <= 'z':
		return string(c - 'a' + 'A'), nil
	}
	return "", errors.NewNoEnglishName(name)
}

// resolvePointSetCell fetches/derives the subtype's point set, partitions
// the envelope into Voronoi cells, and returns the cell containing the
// question's reference coordinate.
func resolvePointSetCell(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	points, aborted, err := fetchPointSet(ctx, deps, mctx, d)
	if err != nil {
		return Boundary{}, err
	}
	if aborted || len(points) == 0 {
		return EmptyBoundary(), nil
	}

	cell, err := locateCell(points, mctx.Envelope(), orb.Point{d.Lng, d.Lat})
	if err != nil {
		return Boundary{}, err
	}
	if cell == nil {
		return EmptyBoundary(), nil
	}
	return RegionBoundary(cell), nil
}

// categoryFilters maps each location kind to its provider filter plus
// fallbacks for mapping variants.
var categoryFilters = map[question.LocationKind]overpass.Query{
	question.LocationPark:     {Filter: `["leisure"="park"]`},
	question.LocationMuseum:   {Filter: `["tourism"="museum"]`},
	question.LocationAquarium: {Filter: `["tourism"="aquarium"]`, Fallbacks: []string{`["leisure"="aquarium"]`}},
	question.LocationZoo:      {Filter: `["tourism"="zoo"]`},
	question.LocationHospital: {Filter: `["amenity"="hospital"]`, Fallbacks: []string{`["healthcare"="hospital"]`}},
	question.LocationCinema:   {Filter: `["amenity"="cinema"]`},
	question.LocationLibrary:  {Filter: `["amenity"="library"]`},
	question.LocationGolf:     {Filter: `["leisure"="golf_course"]`},
}

// CategoryFilter returns the provider filter for a location kind.
func CategoryFilter(kind question.LocationKind) (overpass.Query, bool) {
	q, ok := categoryFilters[kind]
	return q, ok
}

// fetchPointSet gathers the normalized point set for point-set subtypes.
// aborted reports a safety-gate abort: the caller must treat the question as
// unanswerable for this pass, never compute on a partial set.
func fetchPointSet(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (points []orb.Point, aborted bool, err error) {
	switch d.Subtype {
	case question.SubtypeCustomPoints:
		if d.Geometry == nil {
			return nil, false, errors.NewInvalidRequest("custom-points question carries no geometry")
		}
		for _, f := range d.Geometry.Features {
			if p, ok := f.Geometry.(orb.Point); ok {
				points = append(points, p)
			}
		}
		return points, false, nil

	case question.SubtypeAirport:
		bbox := mctx.Envelope()
		res, err := deps.Provider.FetchZone(ctx, overpass.Query{
			Filter:      `["aeroway"="aerodrome"]["iata"]`,
			Label:       "airports",
			ElementKind: "nwr",
			OutputMode:  "center",
			BBox:        &bbox,
		})
		if err != nil {
			return nil, false, err
		}
		return Points(DedupByTag(res.Elements, "iata")), false, nil

	case question.SubtypeMajorCity:
		res, err := deps.Provider.FetchZone(ctx, overpass.Query{
			Filter:      `["place"="city"](if:number(t["population"])>=1000000)`,
			Fallbacks:   []string{`["place"="city"]["capital"="yes"]`},
			Label:       "major cities",
			ElementKind: "node",
			OutputMode:  "body",
		})
		if err != nil {
			return nil, false, err
		}
		return Points(res.Elements), false, nil

	case question.SubtypeCategoryFull:
		base, ok := categoryFilters[d.LocationKind]
		if !ok {
			return nil, false, errors.NewInvalidRequest(fmt.Sprintf("unknown location kind %q", d.LocationKind))
		}
		bbox := mctx.Envelope()
		label := fmt.Sprintf("all %s locations", d.LocationKind)
		res, err := deps.Provider.FetchZone(ctx, overpass.Query{
			Filter:      base.Filter,
			Fallbacks:   base.Fallbacks,
			Label:       label,
			ElementKind: "nwr",
			OutputMode:  "center",
			BBox:        &bbox,
		})
		if err != nil {
			return nil, false, err
		}
		// Safety gates: a provider-side abort or a result at the hard cap
		// yields an empty resolution with a surfaced warning, never a
		// partial or oversized computation. The warning carries the typed
		// error so log consumers can match on its code.
		if res.RuntimeError() {
			gate := errors.NewProviderTimeout(label, res.Remark)
			deps.Notifier.Warn(fmt.Sprintf("%s; try a smaller map area", gate.Error()))
			return nil, true, nil
		}
		if len(res.Elements) >= deps.Config.ElementHardCap {
			gate := errors.NewProviderOverflow(label, len(res.Elements), deps.Config.ElementHardCap)
			deps.Notifier.Warn(fmt.Sprintf("%s; try a smaller map area", gate.Error()))
			return nil, true, nil
		}
		return Points(res.Elements), false, nil
	}
	return nil, false, errors.NewInvalidRequest(fmt.Sprintf("subtype %q has no point set", d.Subtype))
}
