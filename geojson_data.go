package osm2poi

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// GeojsonData is the GeoJSON projection of a raw snapshot: one feature per
// element, keyed by the "<type>/<id>" reference. Read-only input to the
// extraction pipeline.
type GeojsonData struct {
	features     []*geojson.Feature
	featuresByID map[string]*geojson.Feature
}

// NewGeojsonData indexes the given features by their id
func NewGeojsonData(features []*geojson.Feature) *GeojsonData {
	data := &GeojsonData{
		features:     features,
		featuresByID: make(map[string]*geojson.Feature, len(features)),
	}
	for _, feature := range features {
		if id, ok := feature.ID.(string); ok {
			data.featuresByID[id] = feature
		}
	}
	return data
}

// Find returns the feature with the given "<type>/<id>" reference, or nil
func (d *GeojsonData) Find(featureID string) *geojson.Feature {
	return d.featuresByID[featureID]
}

// Features returns all indexed features
func (d *GeojsonData) Features() []*geojson.Feature {
	return d.features
}

// QueryOr returns all features whose properties match at least one predicate.
// An empty predicate list matches everything.
func (d *GeojsonData) QueryOr(queries []TagQuery) []*geojson.Feature {
	matched := []*geojson.Feature{}
	for _, feature := range d.features {
		if len(queries) == 0 {
			matched = append(matched, feature)
			continue
		}
		for _, query := range queries {
			if query.MatchesProperties(feature.Properties) {
				matched = append(matched, feature)
				break
			}
		}
	}
	return matched
}

// FeatureAndRaw pairs a geojson feature with the raw element it projects
type FeatureAndRaw struct {
	Feature *geojson.Feature
	Raw     *RawElement
}

// GeojsonsOptions controls the raw-to-geojson join
type GeojsonsOptions struct {
	// GenerateNodesIfNotFound synthesizes a Point feature for a raw node
	// that has no geojson projection
	GenerateNodesIfNotFound bool
	// ContinueOnMissingGeojson logs and skips elements without a feature
	// instead of failing the run
	ContinueOnMissingGeojson bool
}

// GeojsonsFromRawData pairs raw elements with their geojson features. A
// missing feature is either synthesized (nodes), skipped with a warning, or a
// structural failure, depending on options.
func (d *GeojsonData) GeojsonsFromRawData(elements []*RawElement, options GeojsonsOptions, logger log.Logger) ([]*FeatureAndRaw, error) {
	paired := make([]*FeatureAndRaw, 0, len(elements))
	for _, element := range elements {
		feature := d.Find(element.FeatureID())
		if feature == nil {
			if options.GenerateNodesIfNotFound && element.Type == ElementNode {
				feature = geojson.NewFeature(orb.Point{element.Lon, element.Lat})
				feature.ID = element.FeatureID()
				for key := range element.Tags {
					feature.Properties[key] = element.Tags.Join(key)
				}
			} else {
				level.Warn(logger).Log("msg", "no geojson found for OSM feature, check input files", "feature", element.FeatureID())
				if options.ContinueOnMissingGeojson {
					continue
				}
				return nil, errors.Errorf("missing geojson for OSM feature %s", element.FeatureID())
			}
		} else if _, ok := feature.Geometry.(orb.Collection); ok {
			level.Warn(logger).Log("msg", "unsupported GeometryCollection feature", "feature", element.FeatureID())
			if options.ContinueOnMissingGeojson {
				continue
			}
			return nil, errors.Errorf("unsupported geometry type for feature %s", element.FeatureID())
		}
		paired = append(paired, &FeatureAndRaw{Feature: feature, Raw: element})
	}
	return paired, nil
}
