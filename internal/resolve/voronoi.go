package resolve

import (
	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"

	"github.com/hideseek/quarry/internal/geo"
)

// locateCell partitions the envelope into Voronoi cells around the point set
// and returns the cell containing ref. When clipping leaves ref on a cell
// edge or just outside every cell, the cell of the nearest generator point
// is used instead so the lookup stays deterministic. Returns nil only when
// no cell could be built at all.
func locateCell(points []orb.Point, envelope orb.Bound, ref orb.Point) (*geos.Geom, error) {
	cells, err := geo.Voronoi(points, envelope)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, nil
	}

	for _, cell := range cells {
		hit, err := geo.Contains(cell, ref)
		if err != nil {
			return nil, err
		}
		if hit {
			return cell, nil
		}
	}

	// Edge miss: pick the generator nearest to ref and return its cell.
	gen := nearestPoint(points, ref)
	for _, cell := range cells {
		hit, err := geo.Contains(cell, gen)
		if err != nil {
			return nil, err
		}
		if hit {
			return cell, nil
		}
	}

	// Generator also sits on an edge; fall back to the cell whose rim is
	// closest to ref.
	return nearestCell(cells, ref)
}

func nearestPoint(points []orb.Point, ref orb.Point) orb.Point {
	best := points[0]
	bestDist := geo.DistanceMeters(best, ref)
	for _, p := range points[1:] {
		if d := geo.DistanceMeters(p, ref); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func nearestCell(cells []*geos.Geom, ref orb.Point) (*geos.Geom, error) {
	var best *geos.Geom
	bestDist := 0.0
	for _, cell := range cells {
		rim, err := geo.NearestPoint(cell, ref)
		if err != nil {
			return nil, err
		}
		d := geo.DistanceMeters(rim, ref)
		if best == nil || d < bestDist {
			best, bestDist = cell, d
		}
	}
	return best, nil
}
