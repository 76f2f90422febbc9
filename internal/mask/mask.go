// Package mask applies resolved boundaries to the working map mask and
// derives question answers from hider/seeker positions.
package mask

import (
	"context"
	"log/slog"

	"github.com/twpayne/go-geos"

	"github.com/hideseek/quarry/internal/geo"
	"github.com/hideseek/quarry/internal/question"
	"github.com/hideseek/quarry/internal/resolve"
)

// Apply folds a resolved boundary into the working mask. The no-boundary
// sentinel and the empty boundary leave the mask untouched. Never mutates
// the input mask; a new geometry is returned.
func Apply(mask *geos.Geom, b resolve.Boundary, keepInside bool) (*geos.Geom, error) {
	if b.IsNone() || b.IsEmpty() {
		return mask, nil
	}
	region, err := b.Merged()
	if err != nil {
		return nil, err
	}
	if keepInside {
		return geo.Intersection(mask, region)
	}
	return geo.Difference(mask, region)
}

// remask rebuilds a mask by inverting it twice within the world extent.
// Double inversion is a geometric no-op but re-noded geometry often survives
// operations the original degenerate input did not.
func remask(mask *geos.Geom) (*geos.Geom, error) {
	world, err := geo.BoundPolygon(geo.WorldBound)
	if err != nil {
		return nil, err
	}
	holed, err := geo.Invert(mask, world)
	if err != nil {
		return nil, err
	}
	return geo.Invert(holed, world)
}

// Adjust resolves the descriptor's boundary and replaces the working mask
// with the region still consistent with the question's outcome. The returned
// bool reports whether the mask actually changed: sentinel and empty
// boundaries, descriptors with no outcome yet, and unrecoverable geometry
// failures all return the original mask with false. Resolution errors (no
// boundary found, no usable name) are surfaced to the caller.
func Adjust(ctx context.Context, deps *resolve.Deps, mctx *resolve.Context, d *question.Descriptor, current *geos.Geom) (*geos.Geom, bool, error) {
	b, err := resolve.Resolve(ctx, deps, mctx, d)
	if err != nil {
		return current, false, err
	}
	if b.IsNone() || b.IsEmpty() {
		return current, false, nil
	}
	keep, ok := polarity(d)
	if !ok {
		return current, false, nil
	}

	next, err := Apply(current, b, keep)
	if err == nil {
		return next, true, nil
	}

	// Retry once on degenerate input, then degrade to "unchanged".
	rebuilt, rerr := remask(current)
	if rerr == nil {
		if next, rerr = Apply(rebuilt, b, keep); rerr == nil {
			return next, true, nil
		}
	}
	slog.Debug("mask adjustment failed twice, leaving mask unchanged",
		"subtype", d.Subtype, "first", err, "retry", rerr)
	return current, false, nil
}

// polarity derives the apply direction from the descriptor's outcome.
// A matching "same" keeps the boundary interior; a measuring "hider closer"
// removes it, because measuring interiors represent the far half.
func polarity(d *question.Descriptor) (keepInside, ok bool) {
	switch d.EffectiveKind() {
	case question.KindMatching:
		if d.Same == nil {
			return false, false
		}
		return *d.Same, true
	case question.KindMeasuring:
		if d.HiderCloser == nil {
			return false, false
		}
		return !*d.HiderCloser, true
	}
	return false, false
}
