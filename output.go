package osm2poi

import (
	"fmt"
	"io/ioutil"

	legacygeojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// ExportFeatureCollection converts pipeline features to the serialization
// model used for the output files
func ExportFeatureCollection(features []*geojson.Feature) *legacygeojson.FeatureCollection {
	collection := legacygeojson.NewFeatureCollection()
	for _, feature := range features {
		exported := exportFeature(feature)
		if exported == nil {
			continue
		}
		collection.AddFeature(exported)
	}
	return collection
}

func exportFeature(feature *geojson.Feature) *legacygeojson.Feature {
	geometry := exportGeometry(feature.Geometry)
	if geometry == nil {
		fmt.Printf("[WARNING]: Can not convert geometry to geojson format. Feature ID: '%v'\n", feature.ID)
		return nil
	}
	exported := legacygeojson.NewFeature(geometry)
	exported.ID = feature.ID
	for key, value := range feature.Properties {
		exported.SetProperty(key, value)
	}
	return exported
}

func exportGeometry(geometry orb.Geometry) *legacygeojson.Geometry {
	switch g := geometry.(type) {
	case orb.Point:
		return legacygeojson.NewPointGeometry([]float64{g[0], g[1]})
	case orb.LineString:
		return legacygeojson.NewLineStringGeometry(exportLine(g))
	case orb.Polygon:
		return legacygeojson.NewPolygonGeometry(exportPolygon(g))
	case orb.MultiPolygon:
		polygons := make([][][][]float64, len(g))
		for i, polygon := range g {
			polygons[i] = exportPolygon(polygon)
		}
		return legacygeojson.NewMultiPolygonGeometry(polygons...)
	}
	return nil
}

func exportLine(line orb.LineString) [][]float64 {
	points := make([][]float64, len(line))
	for i, pt := range line {
		points[i] = []float64{pt[0], pt[1]}
	}
	return points
}

func exportPolygon(polygon orb.Polygon) [][][]float64 {
	rings := make([][][]float64, len(polygon))
	for i, ring := range polygon {
		rings[i] = exportLine(orb.LineString(ring))
	}
	return rings
}

// WriteFeatureCollection serializes the features to a GeoJSON file
func WriteFeatureCollection(filename string, features []*geojson.Feature) error {
	collection := ExportFeatureCollection(features)
	data, err := collection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can not marshal feature collection")
	}
	if err := ioutil.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrapf(err, "Can not write file '%s'", filename)
	}
	return nil
}
