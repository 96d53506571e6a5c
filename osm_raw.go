package osm2poi

// RawData is a queryable index over one snapshot of raw OSM elements. It is
// built once per extraction run and not mutated afterwards.
type RawData struct {
	elements []*RawElement

	nodes     map[int64]*RawElement
	ways      map[int64]*RawElement
	relations map[int64]*RawElement

	nodesWithTags         []*RawElement
	nodesWithEntranceTags []*RawElement

	wayIDsByRelationID map[int64][]int64
}

// NewRawData builds the element index
func NewRawData(elements []*RawElement) *RawData {
	data := &RawData{
		elements:           elements,
		nodes:              make(map[int64]*RawElement),
		ways:               make(map[int64]*RawElement),
		relations:          make(map[int64]*RawElement),
		wayIDsByRelationID: make(map[int64][]int64),
	}
	for _, element := range elements {
		switch element.Type {
		case ElementNode:
			data.nodes[element.ID] = element
			if len(element.Tags) > 0 {
				data.nodesWithTags = append(data.nodesWithTags, element)
				if element.HasEntranceTag() {
					data.nodesWithEntranceTags = append(data.nodesWithEntranceTags, element)
				}
			}
		case ElementWay:
			data.ways[element.ID] = element
		case ElementRelation:
			data.relations[element.ID] = element
			wayIDs := make([]int64, 0, len(element.Members))
			for _, member := range element.Members {
				if member.Type == ElementWay {
					wayIDs = append(wayIDs, member.Ref)
				}
			}
			if len(wayIDs) > 0 {
				data.wayIDsByRelationID[element.ID] = wayIDs
			}
		}
	}
	return data
}

// Len returns the total number of indexed elements
func (d *RawData) Len() int {
	return len(d.elements)
}

// Find returns the element of the given type and ID, or nil
func (d *RawData) Find(elementType ElementType, id int64) *RawElement {
	switch elementType {
	case ElementNode:
		return d.nodes[id]
	case ElementWay:
		return d.ways[id]
	case ElementRelation:
		return d.relations[id]
	}
	return nil
}

// FindFeature resolves an element from its "<type>/<id>" feature reference
func (d *RawData) FindFeature(featureID string) *RawElement {
	elementType, id, ok := ParseFeatureID(featureID)
	if !ok {
		return nil
	}
	return d.Find(elementType, id)
}

// QueryOr returns all elements matching at least one of the tag predicates
func (d *RawData) QueryOr(queries []TagQuery) []*RawElement {
	matched := []*RawElement{}
	for _, element := range d.elements {
		if MatchesAny(queries, element.Tags) {
			matched = append(matched, element)
		}
	}
	return matched
}

// NodesFor returns the node elements composing the given element: the way's
// own nodes, or for a multipolygon relation the union of its member ways'
// nodes. Duplicates are removed, keeping first-appearance order. Nodes that
// are not part of the snapshot are skipped.
func (d *RawData) NodesFor(element *RawElement) []*RawElement {
	if element == nil {
		return nil
	}
	if element.IsMultipolygon() {
		nodeIDs := []int64{}
		for _, wayID := range d.wayIDsByRelationID[element.ID] {
			if way := d.ways[wayID]; way != nil {
				nodeIDs = append(nodeIDs, way.Nodes...)
			}
		}
		return d.dedupNodes(nodeIDs)
	}
	if element.Type != ElementWay {
		return nil
	}
	return d.dedupNodes(element.Nodes)
}

func (d *RawData) dedupNodes(nodeIDs []int64) []*RawElement {
	seen := make(map[int64]struct{}, len(nodeIDs))
	nodes := []*RawElement{}
	for _, id := range nodeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if node := d.nodes[id]; node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}
