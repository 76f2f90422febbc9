package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// metersPerDegreeLat is the mean meridian arc length of one degree of latitude.
const metersPerDegreeLat = 111320.0

// DistanceMeters returns the geodesic (haversine) distance between two points.
func DistanceMeters(a, b orb.Point) float64 {
	return orbgeo.DistanceHaversine(a, b)
}

// DegreesForMeters converts a geodesic length into an approximate degree
// tolerance at the given latitude. North-south degrees are near constant;
// the east-west shrink toward the poles is averaged in via the cosine term
// so buffers stay roughly isotropic at mid latitudes.
func DegreesForMeters(meters, atLat float64) float64 {
	c := math.Cos(atLat * math.Pi / 180)
	if c < 0.1 {
		c = 0.1 // keep buffers bounded near the poles
	}
	scale := (1 + c) / 2
	return meters / (metersPerDegreeLat * scale)
}

// InflateBound grows a bound outward by a geodesic margin, so that buffered
// regions are not truncated at the viewport edge.
func InflateBound(b orb.Bound, meters float64) orb.Bound {
	midLat := (b.Min[1] + b.Max[1]) / 2
	d := DegreesForMeters(meters, midLat)
	return orb.Bound{
		Min: orb.Point{b.Min[0] - d, clampLat(b.Min[1] - d)},
		Max: orb.Point{b.Max[0] + d, clampLat(b.Max[1] + d)},
	}
}

func clampLat(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}

// WorldBound is the full WGS84 extent, the "known world extent" that holed
// masks are inverted within.
var WorldBound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}
