package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"
)

// Voronoi tessellates the envelope into one cell per input point: each cell
// is the set of envelope locations closer to its generator than to any other
// input point. A cell is built directly from that definition, as the
// intersection of the envelope with the half-plane nearer the generator than
// each other generator. Coincident generators collapse into one cell.
// Fewer than two distinct points degenerate to a single cell covering the
// envelope.
func Voronoi(points []orb.Point, envelope orb.Bound) ([]*geos.Geom, error) {
	env, err := BoundPolygon(envelope)
	if err != nil {
		return nil, err
	}
	gens := dedupPoints(points)
	if len(gens) < 2 {
		return []*geos.Geom{env}, nil
	}

	// Half-plane quads must reach past every envelope corner from any
	// bisector midpoint. Midpoints sit no farther from the envelope center
	// than the farthest generator does.
	reach := 2 * (boundDiagonal(envelope) + maxCenterDistance(gens, envelope) + 1)

	cells := make([]*geos.Geom, 0, len(gens))
	for i, p := range gens {
		cell := env
		for j, q := range gens {
			if i == j {
				continue
			}
			half, err := halfPlane(p, q, reach)
			if err != nil {
				return nil, err
			}
			cell, err = Intersection(cell, half)
			if err != nil {
				return nil, err
			}
		}
		var empty bool
		if err := guard("voronoi", func() { empty = cell.IsEmpty() }); err != nil {
			return nil, err
		}
		if !empty {
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// halfPlane builds a quad covering everything within reach of the p/q
// perpendicular bisector on p's side.
func halfPlane(p, q orb.Point, reach float64) (g *geos.Geom, err error) {
	dx, dy := q[0]-p[0], q[1]-p[1]
	n := math.Hypot(dx, dy)
	dx, dy = dx/n, dy/n
	mx, my := (p[0]+q[0])/2, (p[1]+q[1])/2
	// u runs along the bisector; the quad extends from it back past p.
	ux, uy := -dy, dx
	ring := [][]float64{
		{mx + ux*reach, my + uy*reach},
		{mx - ux*reach, my - uy*reach},
		{mx - ux*reach - dx*2*reach, my - uy*reach - dy*2*reach},
		{mx + ux*reach - dx*2*reach, my + uy*reach - dy*2*reach},
		{mx + ux*reach, my + uy*reach},
	}
	err = guard("voronoi", func() { g = geos.NewPolygon([][][]float64{ring}) })
	return g, err
}

func boundDiagonal(b orb.Bound) float64 {
	return math.Hypot(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
}

func maxCenterDistance(pts []orb.Point, b orb.Bound) float64 {
	c := b.Center()
	var out float64
	for _, p := range pts {
		d := math.Hypot(p[0]-c[0], p[1]-c[1])
		if d > out {
			out = d
		}
	}
	return out
}

func dedupPoints(points []orb.Point) []orb.Point {
	seen := make(map[orb.Point]struct{}, len(points))
	out := make([]orb.Point, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
