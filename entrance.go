package osm2poi

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Entrance tag values this pipeline cares about
const (
	EntranceMain = "main"
	EntranceShop = "shop"
	EntranceHome = "home"
	EntranceYes  = "yes"
)

// EntranceOptions controls entrance resolution for one feature. The zero
// value means: main entrances only, boundary nodes only, routing entrances
// considered.
type EntranceOptions struct {
	// EntranceTypes are the accepted typed entrance values; defaults to main
	EntranceTypes []string
	// IncludeInside also scans entrance-tagged nodes inside the polygon
	// (malls have entrances on indoor corridors)
	IncludeInside bool
	// NoRoutingEntrance disables the routing:entrance tag entirely, both for
	// typed matches and for the generic yes fallback
	NoRoutingEntrance bool
}

// EntrancesForFeature resolves the candidate entrance nodes of a building or
// area feature. Precedence is load-bearing: nodes typed with a requested
// entrance value win; only when there is none does the generic
// routing:entrance=yes fallback apply; otherwise the result is empty, which
// callers treat as a distinct loggable condition.
func EntrancesForFeature(feature *geojson.Feature, raw *RawElement, data *RawData, options EntranceOptions) []*RawElement {
	entranceTypes := options.EntranceTypes
	if len(entranceTypes) == 0 {
		entranceTypes = []string{EntranceMain}
	}
	if feature == nil || feature.Geometry == nil {
		return nil
	}
	if !IsAreal(feature.Geometry) && !IsLinear(feature.Geometry) {
		return nil
	}

	nodes := data.NodesFor(raw)
	if options.IncludeInside && IsAreal(feature.Geometry) {
		inside := data.NodesInside(feature, NodesInsideOptions{
			IgnoreBoundary:     true,
			OnlyTagged:         true,
			OnlyEntranceTagged: true,
		})
		nodes = append(nodes, inside...)
	}

	typed := []*RawElement{}
	for _, node := range nodes {
		if node.Tags.ContainsAny("entrance", entranceTypes) {
			typed = append(typed, node)
			continue
		}
		if !options.NoRoutingEntrance && node.Tags.ContainsAny("routing:entrance", entranceTypes) {
			typed = append(typed, node)
		}
	}
	if len(typed) > 0 {
		return typed
	}
	if options.NoRoutingEntrance {
		return nil
	}
	// entrance=yes is deliberately ignored; only routing:entrance=yes may
	// stand in for a missing typed entrance
	fallback := []*RawElement{}
	for _, node := range nodes {
		if node.Tags.Contains("routing:entrance", EntranceYes) {
			fallback = append(fallback, node)
		}
	}
	return fallback
}

// NodePoint returns the node's coordinates as an orb point
func NodePoint(node *RawElement) orb.Point {
	return orb.Point{node.Lon, node.Lat}
}

// NodePointFeature builds a Point feature for a raw node, carrying its tags
// as properties
func NodePointFeature(node *RawElement) *geojson.Feature {
	feature := geojson.NewFeature(NodePoint(node))
	feature.ID = node.FeatureID()
	for key := range node.Tags {
		feature.Properties[key] = node.Tags.Join(key)
	}
	return feature
}
