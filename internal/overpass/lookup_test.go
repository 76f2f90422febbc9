package overpass

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestFindAdminBoundary_AssemblesRelation(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		q := r.Form.Get("data")
		if !strings.Contains(q, "is_in(48.8566,2.3522)") {
			t.Errorf("query missing is_in: %q", q)
		}
		if !strings.Contains(q, `"admin_level"="4"`) {
			t.Errorf("query missing admin level: %q", q)
		}
		writeResult(t, w, Result{Elements: []Element{
			{
				Type: "relation",
				ID:   100,
				Tags: map[string]string{"name": "Île-de-France", "name:en": "Ile-de-France"},
				Members: []Member{
					{Type: "way", Role: "outer", Geometry: []LatLon{{Lat: 48, Lon: 2}, {Lat: 48, Lon: 3}, {Lat: 49, Lon: 3}}},
					{Type: "way", Role: "outer", Geometry: []LatLon{{Lat: 49, Lon: 3}, {Lat: 49, Lon: 2}, {Lat: 48, Lon: 2}}},
				},
			},
		}})
	})

	f, err := c.FindAdminBoundary(context.Background(), 48.8566, 2.3522, 4)
	if err != nil {
		t.Fatalf("FindAdminBoundary failed: %v", err)
	}
	if f == nil {
		t.Fatal("feature should not be nil")
	}
	if f.Properties["name:en"] != "Ile-de-France" {
		t.Errorf("name:en = %v", f.Properties["name:en"])
	}
	if _, ok := f.Geometry.(orb.MultiPolygon); !ok {
		t.Errorf("geometry = %T, want MultiPolygon", f.Geometry)
	}
}

func TestFindAdminBoundary_NoneFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(t, w, Result{})
	})

	f, err := c.FindAdminBoundary(context.Background(), 0, 0, 2)
	if err != nil {
		t.Fatalf("FindAdminBoundary failed: %v", err)
	}
	if f != nil {
		t.Error("feature should be nil when no boundary encloses the point")
	}
}

func TestNearest_ExpandsSearchRadius(t *testing.T) {
	var radii []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		q := r.Form.Get("data")
		switch {
		case strings.Contains(q, "around:5000,"):
			radii = append(radii, "5000")
			writeResult(t, w, Result{})
		case strings.Contains(q, "around:25000,"):
			radii = append(radii, "25000")
			writeResult(t, w, Result{Elements: []Element{
				{Type: "node", ID: 1, Lat: 48.9, Lon: 2.4, Tags: map[string]string{"name": "Gare du Nord"}},
				{Type: "node", ID: 2, Lat: 48.86, Lon: 2.36, Tags: map[string]string{"name": "Châtelet"}},
			}})
		default:
			t.Errorf("unexpected query: %q", q)
		}
	})

	f, err := c.Nearest(context.Background(), 48.8566, 2.3522, `["railway"="station"]`, "node", "station")
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	if f == nil {
		t.Fatal("feature should not be nil")
	}
	if got := f.Properties["name"]; got != "Châtelet" {
		t.Errorf("nearest = %v, want Châtelet", got)
	}
	if _, ok := f.Properties["distanceToPoint"].(float64); !ok {
		t.Error("distanceToPoint should be set")
	}
	if len(radii) != 2 {
		t.Errorf("radii tried = %v, want expanding 5000 then 25000", radii)
	}
}

func TestNearest_NothingInLargestRing(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(t, w, Result{})
	})

	f, err := c.Nearest(context.Background(), 0, 0, `["railway"="station"]`, "node", "station")
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	if f != nil {
		t.Error("feature should be nil when nothing matches")
	}
}

func TestSameLineStations(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if !strings.Contains(r.Form.Get("data"), "node(42)") {
			t.Errorf("query missing station pivot: %q", r.Form.Get("data"))
		}
		writeResult(t, w, Result{Elements: []Element{
			{Type: "node", ID: 42}, {Type: "node", ID: 43}, {Type: "node", ID: 44},
		}})
	})

	ids, err := c.SameLineStations(context.Background(), 42)
	if err != nil {
		t.Fatalf("SameLineStations failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("ids = %v, want 3 stations", ids)
	}
}
