package overpass

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// endpointEpsilon is the coordinate slack used when matching way endpoints.
// Provider geometry is already snapped to shared nodes, so this only absorbs
// float formatting noise.
const endpointEpsilon = 1e-7

// Lines extracts the polylines of all way elements carrying geometry.
func Lines(elements []Element) []orb.LineString {
	var lines []orb.LineString
	for _, e := range elements {
		if len(e.Geometry) < 2 {
			continue
		}
		ls := make(orb.LineString, len(e.Geometry))
		for i, c := range e.Geometry {
			ls[i] = c.Point()
		}
		lines = append(lines, ls)
	}
	return lines
}

// Chain groups adjacent segments into connected chains: segments sharing an
// endpoint are stitched into a single polyline, reversing direction where
// needed. Order of input segments is irrelevant.
func Chain(segments []orb.LineString) []orb.LineString {
	remaining := make([]orb.LineString, len(segments))
	copy(remaining, segments)

	var chains []orb.LineString
	for len(remaining) > 0 {
		chain := remaining[0]
		remaining = remaining[1:]

		extended := true
		for extended {
			extended = false
			for i := 0; i < len(remaining); i++ {
				joined, ok := join(chain, remaining[i])
				if !ok {
					continue
				}
				chain = joined
				remaining = append(remaining[:i], remaining[i+1:]...)
				extended = true
				break
			}
		}
		chains = append(chains, chain)
	}
	return chains
}

// join attaches seg to either end of chain if they share an endpoint.
func join(chain, seg orb.LineString) (orb.LineString, bool) {
	head, tail := chain[0], chain[len(chain)-1]
	sHead, sTail := seg[0], seg[len(seg)-1]

	switch {
	case samePoint(tail, sHead):
		return append(chain, seg[1:]...), true
	case samePoint(tail, sTail):
		return append(chain, reverse(seg)[1:]...), true
	case samePoint(head, sTail):
		return append(seg, chain[1:]...), true
	case samePoint(head, sHead):
		return append(reverse(seg), chain[1:]...), true
	}
	return nil, false
}

func samePoint(a, b orb.Point) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= endpointEpsilon && dy <= endpointEpsilon
}

func reverse(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[len(ls)-1-i] = p
	}
	return out
}

// RelationRings assembles a boundary relation's member ways into a
// multipolygon. Outer members form the shells; inner members whose first
// point falls inside a shell become that shell's holes.
func RelationRings(e Element) orb.MultiPolygon {
	var outers, inners []orb.LineString
	for _, m := range e.Members {
		if m.Type != "way" || len(m.Geometry) < 2 {
			continue
		}
		ls := make(orb.LineString, len(m.Geometry))
		for i, c := range m.Geometry {
			ls[i] = c.Point()
		}
		if m.Role == "inner" {
			inners = append(inners, ls)
		} else {
			outers = append(outers, ls)
		}
	}

	mp := closeChains(Chain(outers))
	for _, hole := range closeChains(Chain(inners)) {
		ring := hole[0]
		for i := range mp {
			if planar.RingContains(mp[i][0], ring[0]) {
				mp[i] = append(mp[i], reverseRing(ring))
				break
			}
		}
	}
	return mp
}

// closeChains promotes chains to single-ring polygons, closing open chains.
func closeChains(chains []orb.LineString) orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, chain := range chains {
		if len(chain) < 3 {
			continue
		}
		ring := orb.Ring(chain)
		if !ring.Closed() {
			ring = append(ring, ring[0])
		}
		if len(ring) < 4 {
			continue
		}
		mp = append(mp, orb.Polygon{ring})
	}
	return mp
}

func reverseRing(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Rings assembles way elements into closed rings and returns them as a
// multipolygon, one polygon per closed chain. Open chains (unclosed boundary
// fragments) are closed by connecting last to first; the provider sends
// complete boundaries so this is a rare repair, not the norm.
func Rings(elements []Element) orb.MultiPolygon {
	return closeChains(Chain(Lines(elements)))
}
