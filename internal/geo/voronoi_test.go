package geo

import (
	"testing"

	"github.com/paulmach/orb"
)

var voronoiEnvelope = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

func TestVoronoi_OneCellPerPoint(t *testing.T) {
	points := []orb.Point{{2, 2}, {8, 2}, {5, 8}}

	cells, err := Voronoi(points, voronoiEnvelope)
	if err != nil {
		t.Fatalf("Voronoi failed: %v", err)
	}
	if len(cells) != len(points) {
		t.Fatalf("cells = %d, want %d", len(cells), len(points))
	}
}

func TestVoronoi_CellsCoverEnvelope(t *testing.T) {
	points := []orb.Point{{2, 2}, {8, 2}, {5, 8}, {1, 9}}

	cells, err := Voronoi(points, voronoiEnvelope)
	if err != nil {
		t.Fatalf("Voronoi failed: %v", err)
	}

	union, err := UnionAll(cells)
	if err != nil {
		t.Fatalf("UnionAll failed: %v", err)
	}

	env, err := BoundPolygon(voronoiEnvelope)
	if err != nil {
		t.Fatalf("BoundPolygon failed: %v", err)
	}

	// Union of clipped cells must cover the viewport exactly: equal areas and
	// an empty symmetric leftover up to floating-point slack.
	if got, want := union.Area(), env.Area(); got < want*0.999 || got > want*1.001 {
		t.Errorf("union area = %v, want %v", got, want)
	}
	leftover, err := Difference(env, union)
	if err != nil {
		t.Fatalf("Difference failed: %v", err)
	}
	if leftover.Area() > 1e-6 {
		t.Errorf("uncovered envelope area = %v, want ~0", leftover.Area())
	}
}

func TestVoronoi_InteriorsPairwiseDisjoint(t *testing.T) {
	points := []orb.Point{{2, 2}, {8, 2}, {5, 8}}

	cells, err := Voronoi(points, voronoiEnvelope)
	if err != nil {
		t.Fatalf("Voronoi failed: %v", err)
	}

	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			overlap, err := Intersection(cells[i], cells[j])
			if err != nil {
				t.Fatalf("Intersection failed: %v", err)
			}
			// Shared boundaries are allowed; shared interior area is not.
			if overlap.Area() > 1e-9 {
				t.Errorf("cells %d and %d overlap with area %v", i, j, overlap.Area())
			}
		}
	}
}

func TestVoronoi_EachCellContainsItsGenerator(t *testing.T) {
	points := []orb.Point{{2, 2}, {8, 8}}

	cells, err := Voronoi(points, voronoiEnvelope)
	if err != nil {
		t.Fatalf("Voronoi failed: %v", err)
	}

	// Every generator must land in exactly one cell.
	for _, p := range points {
		hits := 0
		for _, c := range cells {
			ok, err := Contains(c, p)
			if err != nil {
				t.Fatalf("Contains failed: %v", err)
			}
			if ok {
				hits++
			}
		}
		if hits != 1 {
			t.Errorf("generator %v contained in %d cells, want 1", p, hits)
		}
	}
}

func TestVoronoi_CellsSplitAtBisector(t *testing.T) {
	points := []orb.Point{{2, 5}, {8, 5}}

	cells, err := Voronoi(points, voronoiEnvelope)
	if err != nil {
		t.Fatalf("Voronoi failed: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(cells))
	}

	// The bisector of x=2 and x=8 is x=5; probes on either side must fall
	// into their own generator's cell.
	left, err := Contains(cells[0], orb.Point{1, 5})
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if !left {
		t.Errorf("probe west of the bisector should land in the west cell")
	}
	right, err := Contains(cells[1], orb.Point{9, 5})
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if !right {
		t.Errorf("probe east of the bisector should land in the east cell")
	}
}

func TestVoronoi_CoincidentGeneratorsCollapse(t *testing.T) {
	points := []orb.Point{{2, 2}, {2, 2}, {8, 8}}

	cells, err := Voronoi(points, voronoiEnvelope)
	if err != nil {
		t.Fatalf("Voronoi failed: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("cells = %d, want 2 (duplicate generator collapses)", len(cells))
	}
}

func TestVoronoi_DegenerateSinglePoint(t *testing.T) {
	cells, err := Voronoi([]orb.Point{{5, 5}}, voronoiEnvelope)
	if err != nil {
		t.Fatalf("Voronoi failed: %v", err)
	}
	if len(cells) != 1 {
		t.Fatalf("cells = %d, want 1", len(cells))
	}

	env, err := BoundPolygon(voronoiEnvelope)
	if err != nil {
		t.Fatalf("BoundPolygon failed: %v", err)
	}
	if got, want := cells[0].Area(), env.Area(); got != want {
		t.Errorf("single cell area = %v, want full envelope %v", got, want)
	}
}

func TestVoronoi_DegenerateNoPoints(t *testing.T) {
	cells, err := Voronoi(nil, voronoiEnvelope)
	if err != nil {
		t.Fatalf("Voronoi failed: %v", err)
	}
	if len(cells) != 1 {
		t.Fatalf("cells = %d, want 1 (whole envelope)", len(cells))
	}
}
