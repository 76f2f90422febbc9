// Package resolve turns question descriptors into decision boundaries: the
// regions whose interior separates "same"/"closer" space from its complement.
package resolve

import (
	"github.com/twpayne/go-geos"

	"github.com/hideseek/quarry/internal/geo"
)

type boundaryState int

const (
	stateNone boundaryState = iota // sentinel: no spatial boundary applies
	stateRegion
	stateEmpty // resolution aborted; question unanswerable this pass
)

// Boundary is the result of resolving a question. It is either the "no
// boundary" sentinel (the question is answered by nearest-feature comparison
// instead of boundary math), one or more regions, or the empty result a
// safety gate produces. Immutable once produced; owned by the cache entry.
type Boundary struct {
	state boundaryState
	geoms []*geos.Geom
}

// NoBoundary is the sentinel meaning "no spatial boundary applies".
func NoBoundary() Boundary {
	return Boundary{state: stateNone}
}

// EmptyBoundary marks a resolution pass that aborted (safety gate, missing
// Voronoi cell). Downstream treats the question as unanswerable, which is
// distinct from "always true".
func EmptyBoundary() Boundary {
	return Boundary{state: stateEmpty}
}

// RegionBoundary wraps one or more resolved regions.
func RegionBoundary(geoms ...*geos.Geom) Boundary {
	return Boundary{state: stateRegion, geoms: geoms}
}

// IsNone reports the "no spatial boundary" sentinel.
func (b Boundary) IsNone() bool { return b.state == stateNone }

// IsEmpty reports an aborted resolution.
func (b Boundary) IsEmpty() bool { return b.state == stateEmpty }

// Geoms returns the resolved regions. Nil for sentinel and empty boundaries.
func (b Boundary) Geoms() []*geos.Geom { return b.geoms }

// Merged folds the boundary's regions into a single geometry.
func (b Boundary) Merged() (*geos.Geom, error) {
	if b.state != stateRegion || len(b.geoms) == 0 {
		return nil, nil
	}
	if len(b.geoms) == 1 {
		return b.geoms[0], nil
	}
	return geo.UnionAll(b.geoms)
}
