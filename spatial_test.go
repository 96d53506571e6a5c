package osm2poi

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestNodesInside(t *testing.T) {
	elements := squareElements(100, 1, 0, 0, 0.001, map[string]string{"building": "yes"}, map[int]map[string]string{
		0: {"entrance": "main"},
	})
	elements = append(elements,
		testNode(50, 0.0005, 0.0005, map[string]string{"entrance": "main"}),
		testNode(51, 0.0004, 0.0004, map[string]string{"amenity": "cafe"}),
		testNode(52, 0.005, 0.005, map[string]string{"entrance": "main"}),
	)
	raw, geo := buildFixture(t, elements)
	building := geo.Find("way/100")

	inside := raw.NodesInside(building, NodesInsideOptions{OnlyEntranceTagged: true})
	// Corner 0 sits on the boundary and node 52 is outside
	if len(inside) != 2 {
		t.Fatalf("Expected corner and inside entrance nodes, got %d", len(inside))
	}

	inside = raw.NodesInside(building, NodesInsideOptions{OnlyEntranceTagged: true, IgnoreBoundary: true})
	if len(inside) != 1 || inside[0].ID != 50 {
		t.Fatalf("Expected only the strictly inside entrance node, got %v", inside)
	}

	inside = raw.NodesInside(building, NodesInsideOptions{OnlyTagged: true, IgnoreBoundary: true})
	if len(inside) != 2 {
		t.Fatalf("Expected both tagged inside nodes, got %d", len(inside))
	}
}

func TestSplitOverlapping(t *testing.T) {
	zone := geojson.NewFeature(unitSquare(0, 0, 1))
	in := geojson.NewFeature(orb.Point{0.5, 0.5})
	onBoundary := geojson.NewFeature(orb.Point{0, 0.5})
	out := geojson.NewFeature(orb.Point{2, 2})

	overlapping, notOverlapping := SplitOverlapping(zone, []*geojson.Feature{in, onBoundary, out})
	// Point containment is boundary inclusive
	if len(overlapping) != 2 {
		t.Errorf("Expected 2 overlapping points, got %d", len(overlapping))
	}
	if len(notOverlapping) != 1 {
		t.Errorf("Expected 1 point outside, got %d", len(notOverlapping))
	}
	if len(overlapping)+len(notOverlapping) != 3 {
		t.Errorf("Partition must cover every candidate")
	}
}

func TestFindOverlappingBoundaryTouch(t *testing.T) {
	building := geojson.NewFeature(unitSquare(0, 0, 1))
	adjacent := geojson.NewFeature(unitSquare(1, 0, 1))
	nested := geojson.NewFeature(unitSquare(0.2, 0.2, 0.5))

	overlapping := FindOverlapping(building, []*geojson.Feature{adjacent, nested})
	if len(overlapping) != 1 || overlapping[0] != nested {
		t.Fatalf("Only the nested polygon must overlap, got %d", len(overlapping))
	}
}

func TestFindNearest(t *testing.T) {
	subject := geojson.NewFeature(orb.Point{0, 0})
	near := geojson.NewFeature(orb.Point{0, 0.0002})  // ~22 meters
	far := geojson.NewFeature(orb.Point{0, 0.001})    // ~111 meters
	candidates := []*geojson.Feature{far, near}

	result := FindNearest(subject, candidates, 0)
	if result == nil || result.Feature != near {
		t.Fatalf("Uncapped search must return the nearest candidate")
	}
	if result.Distance < 20 || result.Distance > 25 {
		t.Errorf("Unexpected distance: %f", result.Distance)
	}

	result = FindNearest(subject, candidates, 30)
	if result == nil || result.Feature != near {
		t.Fatalf("Capped search must still find the near candidate")
	}

	result = FindNearest(subject, []*geojson.Feature{far}, 30)
	if result != nil {
		t.Errorf("No candidate within 30 meters, expected nil")
	}
}
