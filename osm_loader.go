package osm2poi

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// LoadOSMFile reads an OSM extract and builds the raw index and its GeoJSON
// projection. The file extension selects the scanner.
func LoadOSMFile(filename string, verbose bool) (*RawData, *GeojsonData, error) {
	if verbose {
		fmt.Printf("Opening file: '%s'...\n", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, errors.Wrap(err, "File open")
	}
	defer file.Close()

	var scanner OSMScanner
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml":
		scanner = osmxml.New(context.Background(), file)
	case ".pbf", ".osm.pbf":
		scanner = osmpbf.New(context.Background(), file, 4)
	default:
		return nil, nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
	defer scanner.Close()

	if verbose {
		fmt.Printf("\tScanning elements... ")
	}
	st := time.Now()
	elements := []*RawElement{}
	for scanner.Scan() {
		obj := scanner.Object()
		switch o := obj.(type) {
		case *osm.Node:
			elements = append(elements, &RawElement{
				Type: ElementNode,
				ID:   int64(o.ID),
				Tags: tagsFromOsm(o.Tags),
				Lon:  o.Lon,
				Lat:  o.Lat,
			})
		case *osm.Way:
			element := &RawElement{
				Type:  ElementWay,
				ID:    int64(o.ID),
				Tags:  tagsFromOsm(o.Tags),
				Nodes: make([]int64, 0, len(o.Nodes)),
			}
			for _, node := range o.Nodes {
				element.Nodes = append(element.Nodes, int64(node.ID))
			}
			elements = append(elements, element)
		case *osm.Relation:
			element := &RawElement{
				Type:    ElementRelation,
				ID:      int64(o.ID),
				Tags:    tagsFromOsm(o.Tags),
				Members: make([]Member, 0, len(o.Members)),
			}
			for _, member := range o.Members {
				memberType, ok := memberElementType(member.Type)
				if !ok {
					continue
				}
				element.Members = append(element.Members, Member{
					Type: memberType,
					Ref:  member.Ref,
					Role: member.Role,
				})
			}
			elements = append(elements, element)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "Scanner error")
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	raw := NewRawData(elements)
	geo := buildGeojsonData(raw, verbose)
	return raw, geo, nil
}

// BuildFromElements indexes an already loaded element set, such as an
// Overpass download, and builds its GeoJSON projection
func BuildFromElements(elements []*RawElement, verbose bool) (*RawData, *GeojsonData, error) {
	raw := NewRawData(elements)
	geo := buildGeojsonData(raw, verbose)
	return raw, geo, nil
}

func memberElementType(memberType osm.Type) (ElementType, bool) {
	switch memberType {
	case osm.TypeNode:
		return ElementNode, true
	case osm.TypeWay:
		return ElementWay, true
	case osm.TypeRelation:
		return ElementRelation, true
	}
	return "", false
}

func tagsFromOsm(osmTags osm.Tags) Tags {
	if len(osmTags) == 0 {
		return Tags{}
	}
	tags := make(Tags, len(osmTags))
	for _, tag := range osmTags {
		tags[tag.Key] = SplitTagValue(tag.Value)
	}
	return tags
}

// buildGeojsonData projects the raw snapshot to GeoJSON features: Points for
// tagged nodes, LineStrings or Polygons for ways, MultiPolygons for
// multipolygon relations. Areal features get their surface areas attached
// since the downstream weighting reads them from properties.
func buildGeojsonData(raw *RawData, verbose bool) *GeojsonData {
	if verbose {
		fmt.Printf("\tBuilding geometries... ")
	}
	st := time.Now()
	features := []*geojson.Feature{}

	for _, element := range raw.elements {
		switch element.Type {
		case ElementNode:
			if len(element.Tags) == 0 {
				continue
			}
			features = append(features, elementFeature(element, orb.Point{element.Lon, element.Lat}))
		case ElementWay:
			if len(element.Tags) == 0 {
				continue
			}
			line := wayLineString(raw, element.Nodes)
			if len(line) < 2 {
				continue
			}
			if isClosedRing(line) {
				features = append(features, elementFeature(element, orb.Polygon{orb.Ring(line)}))
			} else {
				features = append(features, elementFeature(element, line))
			}
		case ElementRelation:
			if !element.IsMultipolygon() {
				continue
			}
			polygon := assembleMultipolygon(raw, element)
			if len(polygon) == 0 {
				continue
			}
			features = append(features, elementFeature(element, polygon))
		}
	}
	if verbose {
		fmt.Printf("Done in %v (%d features)\n", time.Since(st), len(features))
	}
	return NewGeojsonData(features)
}

// elementFeature builds the feature with its joined tag properties and, for
// areal geometries, the derived area properties
func elementFeature(element *RawElement, geometry orb.Geometry) *geojson.Feature {
	feature := geojson.NewFeature(geometry)
	feature.ID = element.FeatureID()
	for key := range element.Tags {
		feature.Properties[key] = element.Tags.Join(key)
	}
	if IsAreal(geometry) {
		area := math.Round(AreaSquareMeters(geometry))
		if element.Tags.Has("building") || element.Tags.Has("building:part") {
			feature.Properties["building:area"] = area
			levels := 1.0
			if parsed, ok := propFloat(feature.Properties, "building:levels"); ok && parsed > 0 {
				levels = parsed
			}
			feature.Properties["building:floor_area"] = math.Round(area * levels)
		} else {
			feature.Properties["polygon:area"] = area
		}
	}
	return feature
}

func wayLineString(raw *RawData, nodeIDs []int64) orb.LineString {
	line := make(orb.LineString, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		node := raw.nodes[id]
		if node == nil {
			continue
		}
		line = append(line, orb.Point{node.Lon, node.Lat})
	}
	return line
}

func isClosedRing(line orb.LineString) bool {
	return len(line) >= 4 && line[0].Equal(line[len(line)-1])
}

// assembleMultipolygon stitches the relation's member ways into closed rings
// and groups them into a multipolygon: outer rings open polygons, inner
// rings are attached as holes of the first polygon whose outer ring contains
// them
func assembleMultipolygon(raw *RawData, relation *RawElement) orb.MultiPolygon {
	outerSegments := [][]orb.Point{}
	innerSegments := [][]orb.Point{}
	for _, member := range relation.Members {
		if member.Type != ElementWay {
			continue
		}
		way := raw.ways[member.Ref]
		if way == nil {
			continue
		}
		line := wayLineString(raw, way.Nodes)
		if len(line) < 2 {
			continue
		}
		if member.Role == "inner" {
			innerSegments = append(innerSegments, line)
		} else {
			outerSegments = append(outerSegments, line)
		}
	}

	polygon := orb.MultiPolygon{}
	for _, ring := range assembleRings(outerSegments) {
		polygon = append(polygon, orb.Polygon{ring})
	}
	for _, ring := range assembleRings(innerSegments) {
		for i := range polygon {
			if len(ring) > 0 && PointInPolygon(ring[0], polygon[i], false) {
				polygon[i] = append(polygon[i], ring)
				break
			}
		}
	}
	return polygon
}

// assembleRings joins open way segments end to end until they close. Already
// closed segments pass through; segments that never close are dropped.
func assembleRings(segments [][]orb.Point) []orb.Ring {
	rings := []orb.Ring{}
	open := [][]orb.Point{}
	for _, segment := range segments {
		if isClosedRing(orb.LineString(segment)) {
			rings = append(rings, orb.Ring(segment))
		} else {
			open = append(open, segment)
		}
	}

	for len(open) > 0 {
		current := open[0]
		open = open[1:]
		extended := true
		for extended && !isClosedRing(orb.LineString(current)) {
			extended = false
			for i, candidate := range open {
				joined, ok := joinSegments(current, candidate)
				if !ok {
					continue
				}
				current = joined
				open = append(open[:i], open[i+1:]...)
				extended = true
				break
			}
		}
		if isClosedRing(orb.LineString(current)) {
			rings = append(rings, orb.Ring(current))
		}
	}
	return rings
}

func joinSegments(a, b []orb.Point) ([]orb.Point, bool) {
	if len(a) == 0 || len(b) == 0 {
		return nil, false
	}
	aEnd := a[len(a)-1]
	switch {
	case aEnd.Equal(b[0]):
		return append(a, b[1:]...), true
	case aEnd.Equal(b[len(b)-1]):
		reversed := reversePoints(b)
		return append(a, reversed[1:]...), true
	case a[0].Equal(b[len(b)-1]):
		return append(append([]orb.Point{}, b...), a[1:]...), true
	case a[0].Equal(b[0]):
		reversed := reversePoints(b)
		return append(reversed, a[1:]...), true
	}
	return nil, false
}

func reversePoints(points []orb.Point) []orb.Point {
	reversed := make([]orb.Point, len(points))
	for i, pt := range points {
		reversed[len(points)-1-i] = pt
	}
	return reversed
}
