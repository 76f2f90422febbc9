package overpass

import (
	"strings"

	"github.com/paulmach/orb"
)

// LatLon is a coordinate pair as the provider reports it.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point converts to orb's lng/lat order.
func (c LatLon) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// Element mirrors one raw provider element. Nodes carry Lat/Lon directly;
// ways and relations resolved with "out center" carry a Center instead, and
// ways resolved with "out geom" carry their full Geometry.
type Element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat,omitempty"`
	Lon      float64           `json:"lon,omitempty"`
	Center   *LatLon           `json:"center,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
	Geometry []LatLon          `json:"geometry,omitempty"`
	Members  []Member          `json:"members,omitempty"`
}

// Member is a relation member as reported with "out geom": way members carry
// their full geometry inline.
type Member struct {
	Type     string   `json:"type"`
	Role     string   `json:"role"`
	Ref      int64    `json:"ref"`
	Geometry []LatLon `json:"geometry,omitempty"`
}

// Result is one provider response.
type Result struct {
	Elements []Element `json:"elements"`
	Remark   string    `json:"remark,omitempty"`
}

// runtimeRemarkPrefix marks server-side aborts: the provider finished the
// request but truncated or abandoned the evaluation.
const runtimeRemarkPrefix = "runtime error"

// RuntimeError reports whether the response remark signals a server-side
// timeout or runtime abort. Such results must not be treated as complete.
func (r *Result) RuntimeError() bool {
	return strings.HasPrefix(strings.TrimSpace(r.Remark), runtimeRemarkPrefix)
}

// Query describes one FetchZone request.
type Query struct {
	// Filter is an Overpass QL tag filter, e.g. `["aeroway"="aerodrome"]["iata"]`.
	Filter string

	// Label names the fetch for progress reporting and error messages.
	Label string

	// ElementKind selects node/way/relation/nwr. Empty means nwr.
	ElementKind string

	// OutputMode selects the out statement: "center", "geom", or "body".
	// Empty means "body".
	OutputMode string

	// Fallbacks are alternative filters tried in order when the primary
	// filter matches nothing.
	Fallbacks []string

	// BBox restricts the query spatially when set.
	BBox *orb.Bound

	// TimeoutSeconds overrides the configured provider-side timeout when >0.
	TimeoutSeconds int
}
