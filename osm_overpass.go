package osm2poi

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/serjvanilla/go-overpass"
)

// DefaultOverpassEndpoint is the public Overpass API instance
const DefaultOverpassEndpoint = "https://overpass-api.de/api/interpreter"

// OverpassDownloader fetches one OSM snapshot from an Overpass API instance
// instead of a local extract file
type OverpassDownloader struct {
	client overpass.Client
}

// NewOverpassDownloader builds a downloader against the given Overpass
// endpoint. A zero timeout falls back to 5 minutes, Overpass queries over a
// whole region are slow.
func NewOverpassDownloader(endpoint string, timeout time.Duration) *OverpassDownloader {
	if endpoint == "" {
		endpoint = DefaultOverpassEndpoint
	}
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	httpClient := &http.Client{Timeout: timeout}
	return &OverpassDownloader{
		client: overpass.NewWithSettings(endpoint, 1, httpClient),
	}
}

// DownloadArea fetches every element inside the bounding box
// ("south,west,north,east") with full member recursion and returns the raw
// element set, ordered by type then id.
func (d *OverpassDownloader) DownloadArea(bbox string, verbose bool) ([]*RawElement, error) {
	query := fmt.Sprintf(`
		[out:json][timeout:300];
		(
			node(%s);
			way(%s);
			relation(%s);
		);
		out body;
		>;
		out skel qt;
	`, bbox, bbox, bbox)

	if verbose {
		fmt.Printf("Querying Overpass for bounding box '%s'...\n", bbox)
	}
	st := time.Now()
	result, err := d.client.Query(query)
	if err != nil {
		return nil, errors.Wrap(err, "Overpass query failed")
	}
	if verbose {
		total := len(result.Nodes) + len(result.Ways) + len(result.Relations)
		fmt.Printf("Done in %v (%d elements)\n", time.Since(st), total)
	}
	return overpassElements(&result), nil
}

// overpassElements converts an Overpass result into the raw element set. The
// result maps are unordered; elements are sorted by id per type so repeated
// downloads index identically.
func overpassElements(result *overpass.Result) []*RawElement {
	elements := []*RawElement{}

	nodeIDs := make([]int64, 0, len(result.Nodes))
	for id := range result.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sortInt64s(nodeIDs)
	for _, id := range nodeIDs {
		node := result.Nodes[id]
		elements = append(elements, &RawElement{
			Type: ElementNode,
			ID:   id,
			Tags: tagsFromStringMap(node.Tags),
			Lon:  node.Lon,
			Lat:  node.Lat,
		})
	}

	wayIDs := make([]int64, 0, len(result.Ways))
	for id := range result.Ways {
		wayIDs = append(wayIDs, id)
	}
	sortInt64s(wayIDs)
	for _, id := range wayIDs {
		way := result.Ways[id]
		element := &RawElement{
			Type:  ElementWay,
			ID:    id,
			Tags:  tagsFromStringMap(way.Tags),
			Nodes: make([]int64, 0, len(way.Nodes)),
		}
		for _, node := range way.Nodes {
			if node != nil {
				element.Nodes = append(element.Nodes, node.ID)
			}
		}
		elements = append(elements, element)
	}

	relationIDs := make([]int64, 0, len(result.Relations))
	for id := range result.Relations {
		relationIDs = append(relationIDs, id)
	}
	sortInt64s(relationIDs)
	for _, id := range relationIDs {
		relation := result.Relations[id]
		element := &RawElement{
			Type:    ElementRelation,
			ID:      id,
			Tags:    tagsFromStringMap(relation.Tags),
			Members: make([]Member, 0, len(relation.Members)),
		}
		for _, member := range relation.Members {
			converted, ok := overpassMember(member)
			if !ok {
				continue
			}
			element.Members = append(element.Members, converted)
		}
		elements = append(elements, element)
	}

	return elements
}

func overpassMember(member overpass.RelationMember) (Member, bool) {
	switch member.Type {
	case overpass.ElementTypeNode:
		if member.Node == nil {
			return Member{}, false
		}
		return Member{Type: ElementNode, Ref: member.Node.ID, Role: member.Role}, true
	case overpass.ElementTypeWay:
		if member.Way == nil {
			return Member{}, false
		}
		return Member{Type: ElementWay, Ref: member.Way.ID, Role: member.Role}, true
	case overpass.ElementTypeRelation:
		if member.Relation == nil {
			return Member{}, false
		}
		return Member{Type: ElementRelation, Ref: member.Relation.ID, Role: member.Role}, true
	}
	return Member{}, false
}

func tagsFromStringMap(raw map[string]string) Tags {
	tags := make(Tags, len(raw))
	for key, value := range raw {
		tags[key] = SplitTagValue(value)
	}
	return tags
}

func sortInt64s(values []int64) {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
}
