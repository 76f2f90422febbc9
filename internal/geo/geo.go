// Package geo wraps the polygon-algebra primitives the engine consumes.
// GEOS does the heavy lifting (union, difference, buffer, simplify); orb
// supplies the coordinate model and GeoJSON codec at the package edges.
// GEOS reports failures on degenerate input by panicking, so every call in
// this package runs behind a recover that converts the panic into a typed
// GEOMETRY_FAILED error.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geos"

	"github.com/hideseek/quarry/internal/errors"
)

// guard runs fn and converts a GEOS panic into a GEOMETRY_FAILED error.
func guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewGeometryFailed(op, fmt.Errorf("%v", r))
		}
	}()
	fn()
	return nil
}

// FromOrb converts an orb geometry into a GEOS geometry via GeoJSON.
func FromOrb(g orb.Geometry) (*geos.Geom, error) {
	data, err := geojson.NewGeometry(g).MarshalJSON()
	if err != nil {
		return nil, errors.NewGeometryFailed("encode", err)
	}
	geom, err := geos.NewGeomFromGeoJSON(string(data))
	if err != nil {
		return nil, errors.NewGeometryFailed("decode", err)
	}
	return geom, nil
}

// ToOrb converts a GEOS geometry back into an orb geometry via GeoJSON.
func ToOrb(g *geos.Geom) (out orb.Geometry, err error) {
	var raw string
	if err = guard("encode", func() { raw = g.ToGeoJSON(-1) }); err != nil {
		return nil, err
	}
	gj, err := geojson.UnmarshalGeometry([]byte(raw))
	if err != nil {
		return nil, errors.NewGeometryFailed("decode", err)
	}
	return gj.Geometry(), nil
}

// PointGeom builds a GEOS point from an orb point (lng, lat order).
func PointGeom(p orb.Point) (g *geos.Geom, err error) {
	err = guard("point", func() { g = geos.NewPoint([]float64{p[0], p[1]}) })
	return g, err
}

// LineGeom builds a GEOS line string from a sequence of points.
func LineGeom(pts []orb.Point) (g *geos.Geom, err error) {
	coords := make([][]float64, len(pts))
	for i, p := range pts {
		coords[i] = []float64{p[0], p[1]}
	}
	err = guard("linestring", func() { g = geos.NewLineString(coords) })
	return g, err
}

// BoundPolygon builds a closed rectangle polygon from an orb bound.
func BoundPolygon(b orb.Bound) (g *geos.Geom, err error) {
	ring := [][]float64{
		{b.Min[0], b.Min[1]},
		{b.Max[0], b.Min[1]},
		{b.Max[0], b.Max[1]},
		{b.Min[0], b.Max[1]},
		{b.Min[0], b.Min[1]},
	}
	err = guard("polygon", func() { g = geos.NewPolygon([][][]float64{ring}) })
	return g, err
}

// Combine packs several geometries into a single geometry collection.
func Combine(gs []*geos.Geom) (g *geos.Geom, err error) {
	err = guard("combine", func() {
		g = geos.NewCollection(geos.TypeIDGeometryCollection, gs)
	})
	return g, err
}
