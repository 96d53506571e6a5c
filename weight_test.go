package osm2poi

import (
	"testing"

	"github.com/go-kit/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func weightedPoi(properties map[string]interface{}) *geojson.Feature {
	feature := geojson.NewFeature(orb.Point{0, 0})
	feature.ID = "node/1"
	for key, value := range properties {
		feature.Properties[key] = value
	}
	return feature
}

func TestWeightAveraging(t *testing.T) {
	// A POI matching two categories gets the mean of their weights: with 10
	// square meters, supermarket (1.0) gives 10 and fast food (2.0) gives 20
	poi := weightedPoi(map[string]interface{}{
		"shop":                "supermarket",
		"amenity":             "fast_food",
		"building:floor_area": 10.0,
	})

	weighter := NewPoiWeighter(NewGeojsonData(nil), log.NewNopLogger(), false)
	weighted := weighter.Run([]*geojson.Feature{poi}, nil)
	if len(weighted) != 1 {
		t.Fatalf("Expected 1 weighted POI, got %d", len(weighted))
	}
	weight, ok := propFloat(weighted[0].Properties, "weight:tripDestinationsPerWeekday")
	if !ok {
		t.Fatalf("Weighted POI has no weight")
	}
	if weight != 15 {
		t.Errorf("Mean of 10 and 20 must be 15, got %f", weight)
	}
}

func TestWeightMethodPrecedence(t *testing.T) {
	// educationSchool tries capacity before area; with both tags present the
	// capacity method wins
	poi := weightedPoi(map[string]interface{}{
		"amenity":             "school",
		"capacity":            "100",
		"building:floor_area": 10000.0,
	})

	weighter := NewPoiWeighter(NewGeojsonData(nil), log.NewNopLogger(), false)
	weighted := weighter.Run([]*geojson.Feature{poi}, nil)
	if len(weighted) != 1 {
		t.Fatalf("Expected 1 weighted POI, got %d", len(weighted))
	}
	weight, _ := propFloat(weighted[0].Properties, "weight:tripDestinationsPerWeekday")
	if weight != 120 {
		t.Errorf("Capacity method must win: 1.2 x 100 = 120, got %f", weight)
	}
}

func TestWeightMissing(t *testing.T) {
	// A categorized POI without a usable area tag cannot be weighed and is
	// excluded from the output
	poi := weightedPoi(map[string]interface{}{
		"shop": "supermarket",
	})

	weighter := NewPoiWeighter(NewGeojsonData(nil), log.NewNopLogger(), false)
	weighted := weighter.Run([]*geojson.Feature{poi}, nil)
	if len(weighted) != 0 {
		t.Errorf("POI without weight must be excluded, got %d", len(weighted))
	}
	if len(weighter.MissingWeights()) != 1 {
		t.Errorf("POI without weight must be tracked as missing, got %d", len(weighter.MissingWeights()))
	}
}

func TestWeightIgnoredQueries(t *testing.T) {
	poi := weightedPoi(map[string]interface{}{
		"amenity":             "taxi",
		"building:floor_area": 100.0,
	})

	weighter := NewPoiWeighter(NewGeojsonData(nil), log.NewNopLogger(), false)
	weighted := weighter.Run([]*geojson.Feature{poi}, nil)
	if len(weighted) != 0 {
		t.Errorf("Ignored POI must not be weighed")
	}
	if len(weighter.MissingWeights()) != 0 {
		t.Errorf("Ignored POI must not be tracked as missing either")
	}
}

func TestWeightFloorAreaSharing(t *testing.T) {
	// Two POIs in a building with 1000 sq meters of floor area and 2 flats:
	// 200 is reserved for the flats, the remaining 800 splits into 400 each
	building := geojson.NewFeature(unitSquare(0, 0, 0.001))
	building.ID = "way/100"
	building.Properties["building"] = "yes"
	building.Properties["building:flats"] = 2.0
	building.Properties["building:floor_area"] = 1000.0
	geo := NewGeojsonData([]*geojson.Feature{building})

	first := weightedPoi(map[string]interface{}{
		"shop":        "supermarket",
		"building_id": "way/100",
	})
	second := weightedPoi(map[string]interface{}{
		"shop":        "convenience",
		"building_id": "way/100",
	})
	second.ID = "node/2"

	weighter := NewPoiWeighter(geo, log.NewNopLogger(), false)
	weighted := weighter.Run([]*geojson.Feature{first, second}, nil)
	if len(weighted) != 2 {
		t.Fatalf("Expected 2 weighted POIs, got %d", len(weighted))
	}
	for _, poi := range weighted {
		if area, _ := propFloat(poi.Properties, "assignedFloorArea"); area != 400 {
			t.Errorf("Expected 400 sq meters per POI, got %f", area)
		}
	}
	// supermarket: 1.0 x 400 = 400
	weight, _ := propFloat(weighted[0].Properties, "weight:tripDestinationsPerWeekday")
	if weight != 400 {
		t.Errorf("Expected supermarket weight 400, got %f", weight)
	}
}

func TestWeightOverrides(t *testing.T) {
	first := weightedPoi(map[string]interface{}{
		"shop":                "supermarket",
		"building:floor_area": 100.0,
	})
	second := weightedPoi(map[string]interface{}{
		"shop":                "convenience",
		"building:floor_area": 100.0,
	})
	second.ID = "node/2"
	custom := geojson.NewFeature(orb.Point{1, 1})
	custom.ID = "custom/1"

	overrides := &WeightOverrides{
		Weights:    map[string]float64{"node/1": 42},
		Factors:    map[string]float64{"node/2": 2},
		CustomPois: []*geojson.Feature{custom},
	}
	weighter := NewPoiWeighter(NewGeojsonData(nil), log.NewNopLogger(), false)
	weighted := weighter.Run([]*geojson.Feature{first, second}, overrides)
	if len(weighted) != 3 {
		t.Fatalf("Expected 2 weighted POIs plus the custom one, got %d", len(weighted))
	}

	byID := map[string]*geojson.Feature{}
	for _, poi := range weighted {
		if id, ok := poi.ID.(string); ok {
			byID[id] = poi
		}
	}
	if weight, _ := propFloat(byID["node/1"].Properties, "weight:tripDestinationsPerWeekday"); weight != 42 {
		t.Errorf("Absolute override must set the weight to 42, got %f", weight)
	}
	// convenience: 1.5 x 100 = 150, doubled by the factor
	if weight, _ := propFloat(byID["node/2"].Properties, "weight:tripDestinationsPerWeekday"); weight != 300 {
		t.Errorf("Factor override must double the weight to 300, got %f", weight)
	}
	if _, ok := byID["custom/1"]; !ok {
		t.Errorf("Custom POIs must be appended to the output")
	}
}
