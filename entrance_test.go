package osm2poi

import (
	"testing"
)

func TestEntrancePrecedenceTypedWins(t *testing.T) {
	// Corner 0 has a typed main entrance, corner 2 only a generic routing
	// entrance. The typed entrance must win alone.
	elements := squareElements(100, 1, 0, 0, 0.001, map[string]string{"building": "yes"}, map[int]map[string]string{
		0: {"entrance": "main"},
		2: {"routing:entrance": "yes"},
	})
	raw, geo := buildFixture(t, elements)

	building := geo.Find("way/100")
	if building == nil {
		t.Fatalf("Building feature not found")
	}
	entrances := EntrancesForFeature(building, raw.FindFeature("way/100"), raw, EntranceOptions{})
	if len(entrances) != 1 {
		t.Fatalf("Expected 1 entrance, got %d", len(entrances))
	}
	if entrances[0].ID != 1 {
		t.Errorf("Typed main entrance must win over routing fallback, got node %d", entrances[0].ID)
	}
}

func TestEntranceRoutingFallback(t *testing.T) {
	elements := squareElements(100, 1, 0, 0, 0.001, map[string]string{"building": "yes"}, map[int]map[string]string{
		2: {"routing:entrance": "yes"},
	})
	raw, geo := buildFixture(t, elements)

	building := geo.Find("way/100")
	entrances := EntrancesForFeature(building, raw.FindFeature("way/100"), raw, EntranceOptions{})
	if len(entrances) != 1 || entrances[0].ID != 3 {
		t.Fatalf("Expected routing:entrance=yes fallback node 3, got %v", entrances)
	}

	// With routing entrances disabled the result must be empty, not the
	// fallback node
	entrances = EntrancesForFeature(building, raw.FindFeature("way/100"), raw, EntranceOptions{NoRoutingEntrance: true})
	if len(entrances) != 0 {
		t.Errorf("Expected no entrance with routing disabled, got %d", len(entrances))
	}
}

func TestEntranceYesIgnored(t *testing.T) {
	// entrance=yes carries no typed information and must not anchor anything
	elements := squareElements(100, 1, 0, 0, 0.001, map[string]string{"building": "yes"}, map[int]map[string]string{
		1: {"entrance": "yes"},
	})
	raw, geo := buildFixture(t, elements)

	entrances := EntrancesForFeature(geo.Find("way/100"), raw.FindFeature("way/100"), raw, EntranceOptions{})
	if len(entrances) != 0 {
		t.Errorf("entrance=yes must be ignored, got %d entrances", len(entrances))
	}
}

func TestEntranceTypesFilter(t *testing.T) {
	elements := squareElements(100, 1, 0, 0, 0.001, map[string]string{"building": "yes"}, map[int]map[string]string{
		0: {"entrance": "home"},
		1: {"entrance": "shop"},
	})
	raw, geo := buildFixture(t, elements)
	building := geo.Find("way/100")
	rawBuilding := raw.FindFeature("way/100")

	entrances := EntrancesForFeature(building, rawBuilding, raw, EntranceOptions{
		EntranceTypes: []string{EntranceMain, EntranceHome},
	})
	if len(entrances) != 1 || entrances[0].ID != 1 {
		t.Fatalf("Expected only the home entrance, got %v", entrances)
	}

	entrances = EntrancesForFeature(building, rawBuilding, raw, EntranceOptions{
		EntranceTypes: []string{EntranceMain, EntranceShop},
	})
	if len(entrances) != 1 || entrances[0].ID != 2 {
		t.Fatalf("Expected only the shop entrance, got %v", entrances)
	}
}

func TestEntranceIncludeInside(t *testing.T) {
	elements := squareElements(100, 1, 0, 0, 0.001, map[string]string{"building": "yes"}, nil)
	// Entrance node strictly inside the building, not part of the way
	elements = append(elements, testNode(50, 0.0005, 0.0005, map[string]string{"entrance": "main"}))
	raw, geo := buildFixture(t, elements)
	building := geo.Find("way/100")
	rawBuilding := raw.FindFeature("way/100")

	entrances := EntrancesForFeature(building, rawBuilding, raw, EntranceOptions{})
	if len(entrances) != 0 {
		t.Fatalf("Inside node must not match without IncludeInside, got %d", len(entrances))
	}

	entrances = EntrancesForFeature(building, rawBuilding, raw, EntranceOptions{IncludeInside: true})
	if len(entrances) != 1 || entrances[0].ID != 50 {
		t.Fatalf("Expected inside entrance node 50, got %v", entrances)
	}
}
