package mask

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geos"

	"github.com/hideseek/quarry/internal/geo"
	"github.com/hideseek/quarry/internal/question"
	"github.com/hideseek/quarry/internal/resolve"
)

// Derive computes the descriptor's outcome from the hider position. On
// success the descriptor's outcome field is set and true is returned. Missing
// data (no hider, no nearby feature, unusable names) and geometry failures in
// this path leave the descriptor untouched and return false without an error;
// the caller treats an unmodified descriptor as "could not be answered".
// Boundary-resolution errors are surfaced.
func Derive(ctx context.Context, deps *resolve.Deps, mctx *resolve.Context, d *question.Descriptor, current *geos.Geom) (bool, error) {
	if mctx.Hider == nil {
		return false, nil
	}

	b, err := resolve.Resolve(ctx, deps, mctx, d)
	if err != nil {
		return false, err
	}
	if b.IsEmpty() {
		return false, nil
	}
	if !b.IsNone() {
		return deriveFromBoundary(d, b, current, *mctx.Hider)
	}
	return deriveFromNearest(ctx, deps, mctx, d)
}

// deriveFromBoundary answers via containment with the self-correction step.
func deriveFromBoundary(d *question.Descriptor, b resolve.Boundary, current *geos.Geom, hider orb.Point) (bool, error) {
	// Assumed outcome when the hider sits inside the applied mask: a
	// matching interior is the "same region" side (same = true), a measuring
	// interior is the far half (hiderCloser = false).
	assumed := d.EffectiveKind() == question.KindMatching

	verdict, err := applyThenTestThenFlip(current, b, hider, assumed)
	if err != nil {
		return false, nil
	}
	switch d.EffectiveKind() {
	case question.KindMatching:
		d.Same = &verdict
	case question.KindMeasuring:
		d.HiderCloser = &verdict
	}
	return true, nil
}

// applyThenTestThenFlip applies the boundary to the mask, inverts the result
// into a holed mask within the world extent, and flips the assumed polarity
// when the hider falls inside the hole. The flip is an involution over the
// applied region's split: a hider strictly inside the applied mask yields
// assumed, strictly outside yields its negation, and applying the operation
// to both sides of any fixed boundary always produces opposite verdicts.
func applyThenTestThenFlip(mask *geos.Geom, b resolve.Boundary, hider orb.Point, assumed bool) (bool, error) {
	applied, err := Apply(mask, b, true)
	if err != nil {
		return false, err
	}
	world, err := geo.BoundPolygon(geo.WorldBound)
	if err != nil {
		return false, err
	}
	holed, err := geo.Invert(applied, world)
	if err != nil {
		return false, err
	}
	inHole, err := geo.Contains(holed, hider)
	if err != nil {
		return false, err
	}
	if inHole {
		return !assumed, nil
	}
	return assumed, nil
}

// nearestFilters gives the provider filter for each fixed nearest-feature
// subtype.
var nearestFilters = map[question.Subtype]struct {
	filter string
	label  string
}{
	question.SubtypeMcDonalds:   {`["brand:wikidata"="Q38076"]`, "nearest McDonald's"},
	question.SubtypeSeven11:     {`["brand:wikidata"="Q259340"]`, "nearest 7-Eleven"},
	question.SubtypeRailMeasure: {`["railway"="station"]`, "nearest train station"},
}

// deriveFromNearest answers sentinel-boundary subtypes by comparing the
// nearest features seen from the seeker and hider points.
func deriveFromNearest(ctx context.Context, deps *resolve.Deps, mctx *resolve.Context, d *question.Descriptor) (bool, error) {
	hider := *mctx.Hider

	switch d.Subtype {
	case question.SubtypeZone:
		q, ok := resolve.CategoryFilter(d.LocationKind)
		if !ok {
			return false, nil
		}
		seekerF, err := deps.Provider.Nearest(ctx, d.Lat, d.Lng, q.Filter, "nwr", string(d.LocationKind))
		if err != nil || seekerF == nil {
			return false, err
		}
		hiderF, err := deps.Provider.Nearest(ctx, hider[1], hider[0], q.Filter, "nwr", string(d.LocationKind))
		if err != nil || hiderF == nil {
			return false, err
		}
		same := seekerF.ID == hiderF.ID
		d.Same = &same
		return true, nil

	case question.SubtypeMcDonalds, question.SubtypeSeven11, question.SubtypeRailMeasure:
		spec := nearestFilters[d.Subtype]
		seekerF, err := deps.Provider.Nearest(ctx, d.Lat, d.Lng, spec.filter, "nwr", spec.label)
		if err != nil || seekerF == nil {
			return false, err
		}
		hiderF, err := deps.Provider.Nearest(ctx, hider[1], hider[0], spec.filter, "nwr", spec.label)
		if err != nil || hiderF == nil {
			return false, err
		}
		closer := featureDistance(hiderF, hider) < featureDistance(seekerF, orb.Point{d.Lng, d.Lat})
		d.HiderCloser = &closer
		return true, nil

	case question.SubtypeSameTrainLine:
		return deriveSameLine(ctx, deps, mctx, d, hider)

	case question.SubtypeSameFirstLetterStation:
		seekerName, hiderName, ok := nearestStationNames(mctx, orb.Point{d.Lng, d.Lat}, hider)
		if !ok {
			return false, nil
		}
		same := firstLetter(seekerName) == firstLetter(hiderName) && firstLetter(seekerName) != 0
		d.Same = &same
		return true, nil

	case question.SubtypeSameLengthStation:
		seekerName, hiderName, ok := nearestStationNames(mctx, orb.Point{d.Lng, d.Lat}, hider)
		if !ok {
			return false, nil
		}
		switch {
		case len(hiderName) < len(seekerName):
			d.LengthComparison = question.ComparisonShorter
		case len(hiderName) > len(seekerName):
			d.LengthComparison = question.ComparisonLonger
		default:
			d.LengthComparison = question.ComparisonSame
		}
		return true, nil
	}
	return false, nil
}

// deriveSameLine tests whether the hider's nearest station is reachable on
// a line through the seeker's nearest station.
func deriveSameLine(ctx context.Context, deps *resolve.Deps, mctx *resolve.Context, d *question.Descriptor, hider orb.Point) (bool, error) {
	seekerStation, ok := nearestStation(mctx, orb.Point{d.Lng, d.Lat})
	if !ok {
		return false, nil
	}
	hiderStation, ok := nearestStation(mctx, hider)
	if !ok {
		return false, nil
	}

	ids, err := deps.Provider.SameLineStations(ctx, seekerStation.ID)
	if err != nil {
		return false, err
	}
	same := false
	for _, id := range ids {
		if id == hiderStation.ID {
			same = true
			break
		}
	}
	d.Same = &same
	return true, nil
}

// featureDistance reads the provider-computed distance, recomputing from the
// feature's point geometry when the property is absent.
func featureDistance(f *geojson.Feature, from orb.Point) float64 {
	if v, ok := f.Properties["distanceToPoint"].(float64); ok {
		return v
	}
	if p, ok := f.Geometry.(orb.Point); ok {
		return geo.DistanceMeters(from, p)
	}
	return 0
}

func firstLetter(name string) byte {
	if name == "" {
		return 0
	}
	c := name[0]
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
