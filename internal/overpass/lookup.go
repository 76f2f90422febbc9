package overpass

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/hideseek/quarry/internal/geo"
)

// FindAdminBoundary returns the administrative boundary at the given level
// enclosing the coordinate, or nil if none exists. The feature geometry is a
// multipolygon assembled from the boundary relation's member ways; its
// properties carry the relation's tags.
func (c *Client) FindAdminBoundary(ctx context.Context, lat, lng float64, adminLevel int) (*geojson.Feature, error) {
	query := fmt.Sprintf(
		"[out:json][timeout:%d];is_in(%g,%g)->.a;rel(pivot.a)[\"boundary\"=\"administrative\"][\"admin_level\"=\"%d\"];out geom;",
		c.timeout, lat, lng, adminLevel,
	)
	res, err := c.fetchRaw(ctx, query, fmt.Sprintf("admin boundary level %d", adminLevel))
	if err != nil {
		return nil, err
	}

	for _, e := range res.Elements {
		if e.Type != "relation" {
			continue
		}
		mp := RelationRings(e)
		if len(mp) == 0 {
			continue
		}
		f := geojson.NewFeature(mp)
		f.ID = e.ID
		for k, v := range e.Tags {
			f.Properties[k] = v
		}
		return f, nil
	}
	return nil, nil
}

// FetchCoastline returns the coastline polylines within an area, stitched
// into connected chains.
func (c *Client) FetchCoastline(ctx context.Context, bbox orb.Bound) ([]orb.LineString, error) {
	res, err := c.FetchZone(ctx, Query{
		Filter:      `["natural"="coastline"]`,
		Label:       "coastline",
		ElementKind: "way",
		OutputMode:  "geom",
		BBox:        &bbox,
	})
	if err != nil {
		return nil, err
	}
	return Chain(Lines(res.Elements)), nil
}

// nearestRadiiMeters are the expanding search rings used by Nearest.
var nearestRadiiMeters = []int{5000, 25000, 100000}

// Nearest finds the feature matching the filter closest to the coordinate,
// searching expanding radii. The returned feature carries the element's tags
// as properties plus "distanceToPoint" in meters. Returns nil when nothing
// matches within the largest ring.
func (c *Client) Nearest(ctx context.Context, lat, lng float64, filter, elementKind, label string) (*geojson.Feature, error) {
	from := orb.Point{lng, lat}

	for _, radius := range nearestRadiiMeters {
		query := Query{
			Filter:      fmt.Sprintf(`%s(around:%d,%g,%g)`, filter, radius, lat, lng),
			Label:       label,
			ElementKind: elementKind,
			OutputMode:  "center",
		}
		res, err := c.FetchZone(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(res.Elements) == 0 {
			continue
		}

		best := res.Elements[0]
		bestDist := geo.DistanceMeters(from, elementPoint(best))
		for _, e := range res.Elements[1:] {
			if d := geo.DistanceMeters(from, elementPoint(e)); d < bestDist {
				best, bestDist = e, d
			}
		}

		f := geojson.NewFeature(elementPoint(best))
		f.ID = best.ID
		for k, v := range best.Tags {
			f.Properties[k] = v
		}
		f.Properties["distanceToPoint"] = bestDist
		return f, nil
	}
	return nil, nil
}

// elementPoint picks the element's coordinate, preferring the center.
func elementPoint(e Element) orb.Point {
	if e.Center != nil {
		return e.Center.Point()
	}
	return orb.Point{e.Lon, e.Lat}
}

// SameLineStations returns the IDs of all station nodes reachable on any
// train route passing through the given station node.
func (c *Client) SameLineStations(ctx context.Context, stationID int64) ([]int64, error) {
	query := fmt.Sprintf(
		"[out:json][timeout:%d];node(%d)->.s;rel(bn.s)[\"route\"~\"train|railway\"]->.r;node(r.r)[\"railway\"=\"station\"];out skel;",
		c.timeout, stationID,
	)
	res, err := c.fetchRaw(ctx, query, "same-line stations")
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(res.Elements))
	for _, e := range res.Elements {
		ids = append(ids, e.ID)
	}
	return ids, nil
}
