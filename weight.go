package osm2poi

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/paulmach/orb/geojson"
)

// WeightOverrides are manual corrections applied after automatic weighting,
// in order: absolute weights, then multiplicative factors, then custom POIs
// appended verbatim. POI ids are feature ids ("way/123").
type WeightOverrides struct {
	Weights    map[string]float64
	Factors    map[string]float64
	CustomPois []*geojson.Feature
}

// weightProperty is the output property carrying the POI's weekday
// trip-destination count
const weightProperty = "weight:tripDestinationsPerWeekday"

// buildingWeightInfo caches one building's (or building part's) capacity to
// host POI floor area
type buildingWeightInfo struct {
	flats          int
	area           float64
	floorArea      float64
	poisCount      int
	floorAreaByPOI float64
}

// PoiWeighter assigns a weekday trip-destination weight to each extracted
// POI: POIs are matched against the configured weight categories, the floor
// area of shared buildings is split among the POIs they host, and each
// matched category contributes one weight whose mean becomes the POI's final
// weight.
type PoiWeighter struct {
	geo     *GeojsonData
	logger  log.Logger
	verbose bool

	buildingCache  map[string]*buildingWeightInfo
	missingWeights []*geojson.Feature
}

// NewPoiWeighter wires a weighting run over one polygon snapshot. The weight
// category configuration is audited once so misconfigured categories are
// reported before any POI is processed.
func NewPoiWeighter(geo *GeojsonData, logger log.Logger, verbose bool) *PoiWeighter {
	w := &PoiWeighter{
		geo:           geo,
		logger:        log.With(logger, "component", "weight"),
		verbose:       verbose,
		buildingCache: map[string]*buildingWeightInfo{},
	}
	w.auditConfig()
	return w
}

// MissingWeights returns the POIs no category could weigh, excluded from the
// weighted output
func (w *PoiWeighter) MissingWeights() []*geojson.Feature {
	return w.missingWeights
}

func (w *PoiWeighter) auditConfig() {
	for _, name := range sortedCategoryNames() {
		config := poiWeightCategories[name]
		for _, method := range config.Methods {
			switch method {
			case WeightMethodArea:
				if config.AreaTag == "" {
					level.Error(w.logger).Log("msg", "missing areaTag for poi weight category", "category", name)
				}
				if config.TripsPerSqMeterPerWeekday == 0 {
					level.Error(w.logger).Log("msg", "missing area trip rate for poi weight category", "category", name)
				}
			case WeightMethodCapacity:
				if config.CapacityTag == "" {
					level.Error(w.logger).Log("msg", "missing capacityTag for poi weight category", "category", name)
				}
				if config.TripsPerCapacityPerWeekday == 0 {
					level.Error(w.logger).Log("msg", "missing capacity trip rate for poi weight category", "category", name)
				}
			}
		}
	}
}

func sortedCategoryNames() []string {
	names := make([]string, 0, len(poiWeightCategories))
	for name := range poiWeightCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run weighs the POIs and applies the manual overrides. The returned slice
// holds only POIs that obtained a weight (plus the custom POIs); the rest
// accumulate in MissingWeights.
func (w *PoiWeighter) Run(pois []*geojson.Feature, overrides *WeightOverrides) []*geojson.Feature {
	if w.verbose {
		fmt.Printf("Categorize POIs...\n")
	}
	categorized := w.categorize(pois)

	if w.verbose {
		fmt.Printf("Weigh POIs (total: %d)...\n", len(categorized))
	}
	w.cacheBuildings(categorized)
	weighted := w.weigh(categorized)

	if overrides != nil {
		weighted = w.applyOverrides(weighted, overrides)
	}
	return weighted
}

// categorize drops ignored POIs and accumulates the matching weight category
// names into each remaining POI's weight_categories. Categories are visited
// in sorted name order so multi-category POIs are deterministic.
func (w *PoiWeighter) categorize(pois []*geojson.Feature) []*geojson.Feature {
	kept := []*geojson.Feature{}
	for _, poi := range pois {
		ignored := false
		for _, query := range poiIgnoredQueries {
			if query.MatchesProperties(poi.Properties) {
				ignored = true
				break
			}
		}
		if ignored {
			continue
		}
		poi.Properties["weight_categories"] = []string{}
		kept = append(kept, poi)
	}

	for _, name := range sortedCategoryNames() {
		config := poiWeightCategories[name]
		matched := 0
		for _, poi := range kept {
			for _, query := range config.OsmQueryOr {
				if query.MatchesProperties(poi.Properties) {
					categories, _ := poi.Properties["weight_categories"].([]string)
					poi.Properties["weight_categories"] = append(categories, name)
					matched++
					break
				}
			}
		}
		if w.verbose {
			fmt.Printf("\tPOI weight category %s: %d matching POIs\n", name, matched)
		}
	}
	return kept
}

// cacheBuildings counts the POIs hosted by each building or building part
// and computes the floor area available per POI. Floor area declared for
// flats is reserved first: min(0.7 x floor area, 100 square meters per
// flat).
func (w *PoiWeighter) cacheBuildings(pois []*geojson.Feature) {
	for _, poi := range pois {
		buildingID := w.buildingIDForPoi(poi)
		if buildingID == "" {
			continue
		}
		info, ok := w.buildingCache[buildingID]
		if !ok {
			info = &buildingWeightInfo{}
			if building := w.geo.Find(buildingID); building != nil {
				info.flats, _ = propInt(building.Properties, "building:flats")
				info.area, _ = propFloat(building.Properties, "building:area")
				info.floorArea, _ = propFloat(building.Properties, "building:floor_area")
				if info.flats > 0 && info.floorArea > 0 {
					reserved := math.Min(0.7*info.floorArea, float64(info.flats)*100)
					info.floorArea -= reserved
				}
			}
			w.buildingCache[buildingID] = info
		}
		info.poisCount++
	}

	for _, info := range w.buildingCache {
		if info.poisCount == 0 {
			continue
		}
		if info.floorArea > 0 {
			info.floorAreaByPOI = math.Round(info.floorArea / float64(info.poisCount))
		} else if info.area > 0 {
			info.floorAreaByPOI = math.Round(info.area / float64(info.poisCount))
		}
	}
}

// buildingIDForPoi resolves the polygon the POI draws floor area from: its
// building part when matched, else its building, else the POI itself when
// the POI is a building or a weighted area
func (w *PoiWeighter) buildingIDForPoi(poi *geojson.Feature) string {
	if id := propString(poi.Properties, "building_part_id"); id != "" {
		return id
	}
	if id := propString(poi.Properties, "building_id"); id != "" {
		return id
	}
	id, _ := poi.ID.(string)
	osmID := propString(poi.Properties, "osm_poi_id")
	if osmID != "" {
		id = osmID
	}
	if id == "" {
		return ""
	}
	polygon := w.geo.Find(id)
	if polygon == nil {
		return ""
	}
	if area, ok := propFloat(polygon.Properties, "polygon:area"); ok && area > 0 {
		poi.Properties["polygon:area"] = area
		return ""
	}
	if propString(polygon.Properties, "building") != "" {
		// The POI itself is the building, a farm building or similar with no
		// node POI inside
		return id
	}
	return ""
}

func (w *PoiWeighter) weigh(pois []*geojson.Feature) []*geojson.Feature {
	weighted := []*geojson.Feature{}
	size := len(pois)
	for i, poi := range pois {
		if buildingID := w.buildingIDForPoi(poi); buildingID != "" {
			if info := w.buildingCache[buildingID]; info != nil && info.floorAreaByPOI > 0 {
				poi.Properties["assignedFloorArea"] = info.floorAreaByPOI
				poi.Properties["building:floor_area"] = info.floorAreaByPOI
			}
		}

		weights := w.categoryWeights(poi)
		if len(weights) > 0 {
			sum := 0.0
			for _, weight := range weights {
				sum += weight
			}
			poi.Properties[weightProperty] = sum / float64(len(weights))
			weighted = append(weighted, poi)
		} else {
			w.missingWeights = append(w.missingWeights, poi)
		}

		if w.verbose && (i == 0 || (i+1)%100 == 0 || i+1 == size) {
			fmt.Printf("\tweighted POI %d/%d              \r", i+1, size)
		}
	}
	if w.verbose {
		fmt.Printf("\n")
	}
	return weighted
}

// categoryWeights computes one weight per matched category, trying the
// category's methods in order and keeping the first workable one
func (w *PoiWeighter) categoryWeights(poi *geojson.Feature) []float64 {
	categories, _ := poi.Properties["weight_categories"].([]string)
	weights := []float64{}
	for _, name := range categories {
		config, ok := poiWeightCategories[name]
		if !ok {
			level.Warn(w.logger).Log("msg", "missing config for weight category", "category", name)
			continue
		}
		found := false
		for _, method := range config.Methods {
			switch method {
			case WeightMethodArea:
				if config.TripsPerSqMeterPerWeekday > 0 && config.AreaTag != "" {
					if area, ok := propFloat(poi.Properties, config.AreaTag); ok && !isBlank(poi.Properties[config.AreaTag]) {
						weights = append(weights, math.Round(config.TripsPerSqMeterPerWeekday*area))
						found = true
					}
				}
			case WeightMethodCapacity:
				if config.TripsPerCapacityPerWeekday > 0 && config.CapacityTag != "" {
					if capacity, ok := propFloat(poi.Properties, config.CapacityTag); ok && !isBlank(poi.Properties[config.CapacityTag]) {
						weights = append(weights, math.Round(config.TripsPerCapacityPerWeekday*capacity))
						found = true
					}
				}
			}
			if found {
				break
			}
		}
		if !found {
			level.Error(w.logger).Log("msg", "cannot calculate category weight for poi",
				"poi", poi.ID, "category", name)
		}
	}
	return weights
}

// applyOverrides layers the manual corrections onto the weighted POIs:
// absolute weights first, factors on the resulting weight (rounded), then
// the custom POIs
func (w *PoiWeighter) applyOverrides(pois []*geojson.Feature, overrides *WeightOverrides) []*geojson.Feature {
	byID := map[string]*geojson.Feature{}
	for _, poi := range pois {
		if id, ok := poi.ID.(string); ok {
			byID[id] = poi
		}
	}

	for _, id := range sortedKeys(overrides.Weights) {
		poi, ok := byID[id]
		if !ok {
			level.Error(w.logger).Log("msg", "could not find poi which needs a custom weight", "poi", id)
			continue
		}
		poi.Properties[weightProperty] = overrides.Weights[id]
	}

	for _, id := range sortedKeys(overrides.Factors) {
		poi, ok := byID[id]
		if !ok {
			level.Error(w.logger).Log("msg", "could not find poi which needs a custom weight factor", "poi", id)
			continue
		}
		weight, ok := propFloat(poi.Properties, weightProperty)
		if !ok {
			level.Error(w.logger).Log("msg", "could not find poi weight which needs a custom weight factor", "poi", id)
			continue
		}
		poi.Properties[weightProperty] = math.Round(weight * overrides.Factors[id])
	}

	return append(pois, overrides.CustomPois...)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
