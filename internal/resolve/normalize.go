package resolve

import (
	"github.com/paulmach/orb"

	"github.com/hideseek/quarry/internal/overpass"
)

// Points converts raw provider elements into point geometries in lng/lat
// order, preferring the element's center when present. Elements missing both
// coordinate forms are a precondition violation the provider does not
// produce for the output modes this engine requests.
func Points(elements []overpass.Element) []orb.Point {
	pts := make([]orb.Point, 0, len(elements))
	for _, e := range elements {
		if e.Center != nil {
			pts = append(pts, e.Center.Point())
			continue
		}
		pts = append(pts, orb.Point{e.Lon, e.Lat})
	}
	return pts
}

// DedupByTag removes elements sharing a unique external identifier tag
// (e.g. an airport's IATA code). The first occurrence wins; elements without
// the tag pass through untouched.
func DedupByTag(elements []overpass.Element, tag string) []overpass.Element {
	seen := make(map[string]bool)
	out := make([]overpass.Element, 0, len(elements))
	for _, e := range elements {
		id := e.Tags[tag]
		if id == "" {
			out = append(out, e)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, e)
	}
	return out
}
