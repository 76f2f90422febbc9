package mask

import (
	"github.com/paulmach/orb"

	"github.com/hideseek/quarry/internal/geo"
	"github.com/hideseek/quarry/internal/overpass"
	"github.com/hideseek/quarry/internal/resolve"
)

// nearestStation picks the cached station closest to the point.
func nearestStation(mctx *resolve.Context, from orb.Point) (overpass.Element, bool) {
	if len(mctx.Stations) == 0 {
		return overpass.Element{}, false
	}
	best := mctx.Stations[0]
	bestDist := geo.DistanceMeters(from, stationPoint(best))
	for _, s := range mctx.Stations[1:] {
		if d := geo.DistanceMeters(from, stationPoint(s)); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, true
}

// nearestStationNames resolves both parties' nearest station names,
// preferring the English name. Either station lacking a name fails the
// lookup.
func nearestStationNames(mctx *resolve.Context, seeker, hider orb.Point) (seekerName, hiderName string, ok bool) {
	s, ok := nearestStation(mctx, seeker)
	if !ok {
		return "", "", false
	}
	h, ok := nearestStation(mctx, hider)
	if !ok {
		return "", "", false
	}
	seekerName = stationName(s)
	hiderName = stationName(h)
	if seekerName == "" || hiderName == "" {
		return "", "", false
	}
	return seekerName, hiderName, true
}

func stationPoint(e overpass.Element) orb.Point {
	if e.Center != nil {
		return e.Center.Point()
	}
	return orb.Point{e.Lon, e.Lat}
}

func stationName(e overpass.Element) string {
	if name := e.Tags["name:en"]; name != "" {
		return name
	}
	return e.Tags["name"]
}
