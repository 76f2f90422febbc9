package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"

	"github.com/hideseek/quarry/internal/errors"
)

// Union returns the set union of two regions.
func Union(a, b *geos.Geom) (g *geos.Geom, err error) {
	err = guard("union", func() { g = a.Union(b) })
	return g, err
}

// UnionAll folds a slice of regions into one. Empty input yields nil.
func UnionAll(gs []*geos.Geom) (*geos.Geom, error) {
	if len(gs) == 0 {
		return nil, nil
	}
	acc := gs[0]
	for _, g := range gs[1:] {
		next, err := Union(acc, g)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// Difference returns a minus b.
func Difference(a, b *geos.Geom) (g *geos.Geom, err error) {
	err = guard("difference", func() { g = a.Difference(b) })
	return g, err
}

// Intersection returns the overlap of a and b.
func Intersection(a, b *geos.Geom) (g *geos.Geom, err error) {
	err = guard("intersection", func() { g = a.Intersection(b) })
	return g, err
}

// Invert returns the complement of g within the given extent (the "holed
// mask" of the glossary): every extent location not covered by g.
func Invert(g, extent *geos.Geom) (*geos.Geom, error) {
	return Difference(extent, g)
}

// Buffer expands g by a width in degrees using quadsegs segments per quadrant.
func Buffer(g *geos.Geom, widthDeg float64, quadsegs int) (out *geos.Geom, err error) {
	err = guard("buffer", func() { out = g.Buffer(widthDeg, quadsegs) })
	return out, err
}

// BufferMeters expands g by a geodesic width, converted to degrees at the
// reference latitude. The conversion is planar-approximate; acceptable at the
// distance bands this engine works with.
func BufferMeters(g *geos.Geom, meters, atLat float64, quadsegs int) (*geos.Geom, error) {
	return Buffer(g, DegreesForMeters(meters, atLat), quadsegs)
}

// Simplify reduces vertex count at the given tolerance (degrees).
// highQuality selects the topology-preserving variant, which never produces
// self-intersections or collapses rings, at higher cost.
func Simplify(g *geos.Geom, tolerance float64, highQuality bool) (out *geos.Geom, err error) {
	err = guard("simplify", func() {
		if highQuality {
			out = g.TopologyPreserveSimplify(tolerance)
		} else {
			out = g.Simplify(tolerance)
		}
	})
	return out, err
}

// PolygonToLine converts a region to its boundary line representation.
func PolygonToLine(g *geos.Geom) (out *geos.Geom, err error) {
	err = guard("boundary", func() { out = g.Boundary() })
	return out, err
}

// Contains reports whether the region contains the point.
func Contains(g *geos.Geom, p orb.Point) (ok bool, err error) {
	pt, err := PointGeom(p)
	if err != nil {
		return false, err
	}
	err = guard("contains", func() { ok = g.Contains(pt) })
	return ok, err
}

// NearestPoint returns the point on g nearest to p. The first coordinate
// pair GEOS reports lies on g, the second on the query point.
func NearestPoint(g *geos.Geom, p orb.Point) (out orb.Point, err error) {
	pt, err := PointGeom(p)
	if err != nil {
		return orb.Point{}, err
	}
	var coords [][]float64
	if err = guard("nearest", func() { coords = g.NearestPoints(pt) }); err != nil {
		return orb.Point{}, err
	}
	if len(coords) == 0 || len(coords[0]) < 2 {
		return orb.Point{}, errors.NewGeometryFailed("nearest", fmt.Errorf("no nearest point on empty geometry"))
	}
	return orb.Point{coords[0][0], coords[0][1]}, nil
}
