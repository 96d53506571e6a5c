package osm2poi

import (
	"testing"
)

func testTags(raw map[string]string) Tags {
	tags := Tags{}
	for key, value := range raw {
		tags[key] = SplitTagValue(value)
	}
	return tags
}

func testNode(id int64, lon, lat float64, tags map[string]string) *RawElement {
	return &RawElement{
		Type: ElementNode,
		ID:   id,
		Tags: testTags(tags),
		Lon:  lon,
		Lat:  lat,
	}
}

func testWay(id int64, tags map[string]string, nodeIDs ...int64) *RawElement {
	return &RawElement{
		Type:  ElementWay,
		ID:    id,
		Tags:  testTags(tags),
		Nodes: nodeIDs,
	}
}

// squareElements builds a closed square way with four corner nodes. Corner
// tags are keyed by corner index (0 = south-west, counterclockwise).
func squareElements(wayID, nodeBase int64, lon, lat, size float64, wayTags map[string]string, cornerTags map[int]map[string]string) []*RawElement {
	corners := [][2]float64{
		{lon, lat},
		{lon + size, lat},
		{lon + size, lat + size},
		{lon, lat + size},
	}
	elements := []*RawElement{}
	nodeIDs := []int64{}
	for i, corner := range corners {
		id := nodeBase + int64(i)
		elements = append(elements, testNode(id, corner[0], corner[1], cornerTags[i]))
		nodeIDs = append(nodeIDs, id)
	}
	nodeIDs = append(nodeIDs, nodeBase)
	elements = append(elements, testWay(wayID, wayTags, nodeIDs...))
	return elements
}

func buildFixture(t *testing.T, elements []*RawElement) (*RawData, *GeojsonData) {
	t.Helper()
	raw, geo, err := BuildFromElements(elements, false)
	if err != nil {
		t.Fatalf("Can not build fixture: %v", err)
	}
	return raw, geo
}
