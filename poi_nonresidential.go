package osm2poi

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// How the anchor point of an emitted POI was obtained
const (
	EntranceTypeEntrance         = "entrance"
	EntranceTypeBuildingCentroid = "buildingCentroid"
	EntranceTypeRoutingEntrance  = "routingEntrance"
	EntranceTypeNearestEntrance  = "nearestEntrance"
	EntranceTypeCentroid         = "centroid"
)

// MaxDistanceToEntrance caps, in meters, how far away a building entrance may
// be and still anchor a POI that sits in no building
const MaxDistanceToEntrance = 30.0

// Building tags for which a missing POI categorization is only worth a
// warning: these institutions are often mapped as a bare building
var expectedPoiBuildingTypes = map[string]struct{}{
	"school":       {},
	"college":      {},
	"kindergarten": {},
	"university":   {},
	"hospital":     {},
}

// poiBuilding bundles one building footprint with its resolved entrances and
// the building parts overlapping it
type poiBuilding struct {
	feature   *FeatureAndRaw
	entrances []*RawElement
	parts     []*FeatureAndRaw
}

// NonResidentialExtractor turns tagged OSM activity locations into anchored
// POI points. Each POI is resolved exactly once, by the first pipeline stage
// able to anchor it; the final stage falls back to the POI's own centroid so
// no candidate is ever left unresolved.
type NonResidentialExtractor struct {
	raw     *RawData
	geo     *GeojsonData
	logger  log.Logger
	verbose bool

	hasDataErrors bool
}

// NewNonResidentialExtractor wires a POI extraction run
func NewNonResidentialExtractor(raw *RawData, geo *GeojsonData, logger log.Logger, verbose bool) *NonResidentialExtractor {
	return &NonResidentialExtractor{
		raw:     raw,
		geo:     geo,
		logger:  log.With(logger, "component", "poi"),
		verbose: verbose,
	}
}

// HasDataErrors reports whether any recoverable data-quality error was seen
// during the run
func (e *NonResidentialExtractor) HasDataErrors() bool {
	return e.hasDataErrors
}

// Run executes the POI pipeline and returns the anchored POI points
func (e *NonResidentialExtractor) Run() ([]*geojson.Feature, error) {
	buildings, err := e.collectBuildings()
	if err != nil {
		return nil, err
	}
	candidates, err := e.collectPoiCandidates()
	if err != nil {
		return nil, err
	}

	pois := []*geojson.Feature{}

	// Polygon POIs needing special handling anchor first
	custom, remaining, processed := e.resolveCustomPois(candidates, buildings)
	pois = append(pois, custom...)

	matched, remaining := e.matchPoisToBuildings(buildings, remaining, processed)
	pois = append(pois, matched...)

	pois = append(pois, e.resolveLeftoverPois(remaining, buildings)...)
	pois = append(pois, e.resolveLeftoverBuildings(buildings, processed)...)

	if e.verbose {
		fmt.Printf("Done extracting POIs (%d POIs)\n", len(pois))
	}
	return pois, nil
}

// collectBuildings resolves every non-ignored building footprint with its
// entrances and overlapping building parts
func (e *NonResidentialExtractor) collectBuildings() ([]*poiBuilding, error) {
	if e.verbose {
		fmt.Printf("Getting buildings and their entrances...\n")
	}
	elements := []*RawElement{}
	for _, element := range e.raw.QueryOr(QueryBuildings) {
		if !IsIgnoredBuilding(element) {
			elements = append(elements, element)
		}
	}
	features, err := e.geo.GeojsonsFromRawData(elements, GeojsonsOptions{
		GenerateNodesIfNotFound:  false,
		ContinueOnMissingGeojson: true,
	}, e.logger)
	if err != nil {
		return nil, err
	}
	partFeatures, err := e.geo.GeojsonsFromRawData(e.raw.QueryOr(QueryBuildingParts), GeojsonsOptions{
		GenerateNodesIfNotFound:  false,
		ContinueOnMissingGeojson: true,
	}, e.logger)
	if err != nil {
		return nil, err
	}

	buildings := []*poiBuilding{}
	size := len(features)
	for i, feature := range features {
		if !IsAreal(feature.Feature.Geometry) {
			continue
		}
		building := &poiBuilding{
			feature: feature,
			entrances: EntrancesForFeature(feature.Feature, feature.Raw, e.raw, EntranceOptions{
				EntranceTypes: []string{EntranceMain, EntranceShop},
				IncludeInside: true,
			}),
		}
		for _, part := range partFeatures {
			if featureOverlaps(feature.Feature, part.Feature) {
				building.parts = append(building.parts, part)
			}
		}
		buildings = append(buildings, building)
		if e.verbose && (i == 0 || (i+1)%100 == 0 || i+1 == size) {
			fmt.Printf("\tbuilding %d/%d              \r", i+1, size)
		}
	}
	if e.verbose {
		fmt.Printf("\n")
	}
	return buildings, nil
}

// collectPoiCandidates queries every element whose tags map to at least one
// detailed category. Untagged or unmapped elements are dropped, not errored.
func (e *NonResidentialExtractor) collectPoiCandidates() ([]*FeatureAndRaw, error) {
	elements := []*RawElement{}
	for _, element := range e.raw.QueryOr(PoiTagsQuery) {
		if !IsPoiToProcess(element) {
			continue
		}
		if len(CategoriesForTags(element.Tags)) == 0 {
			continue
		}
		elements = append(elements, element)
	}
	return e.geo.GeojsonsFromRawData(elements, GeojsonsOptions{
		GenerateNodesIfNotFound:  true,
		ContinueOnMissingGeojson: true,
	}, e.logger)
}

// poiFeatures emits one POI record per detailed category of the source
// feature, all anchored at the same point
func poiFeatures(source *geojson.Feature, point orb.Point, entranceType string, extra map[string]interface{}) []*geojson.Feature {
	categories := CategoriesForProperties(source.Properties)
	features := make([]*geojson.Feature, 0, len(categories))
	for _, detailed := range categories {
		feature := geojson.NewFeature(point)
		feature.ID = source.ID
		for key, value := range source.Properties {
			feature.Properties[key] = value
		}
		for key, value := range extra {
			feature.Properties[key] = value
		}
		feature.Properties["osm_poi_id"] = source.ID
		feature.Properties["entrance_type"] = entranceType
		feature.Properties["category"] = detailedCategoryToCategory(detailed)
		feature.Properties["category_detailed"] = detailed
		features = append(features, feature)
	}
	return features
}

// resolveCustomPois anchors the polygon POIs that never sit inside a
// building: school grounds and parks or marinas. All other POIs pass through
// untouched. Returns the processed-building index set started by school
// matches so those buildings are not revisited later.
func (e *NonResidentialExtractor) resolveCustomPois(candidates []*FeatureAndRaw, buildings []*poiBuilding) ([]*geojson.Feature, []*FeatureAndRaw, map[int]struct{}) {
	resolved := []*geojson.Feature{}
	remaining := []*FeatureAndRaw{}
	processed := map[int]struct{}{}

	for _, candidate := range candidates {
		if !IsAreal(candidate.Feature.Geometry) {
			remaining = append(remaining, candidate)
			continue
		}
		switch customKindForProperties(candidate.Feature.Properties) {
		case CUSTOM_SCHOOL:
			resolved = append(resolved, e.resolveSchool(candidate, buildings, processed)...)
		case CUSTOM_PARK_OR_MARINA:
			resolved = append(resolved, e.resolveParkOrMarina(candidate, candidates)...)
		default:
			remaining = append(remaining, candidate)
		}
	}
	return resolved, remaining, processed
}

// resolveSchool anchors a school-like polygon POI: its own main entrance
// wins; else the main entrances of overlapping buildings whose building tag
// repeats the POI's amenity tag. A school with neither is dropped with a
// warning.
func (e *NonResidentialExtractor) resolveSchool(candidate *FeatureAndRaw, buildings []*poiBuilding, processed map[int]struct{}) []*geojson.Feature {
	own := EntrancesForFeature(candidate.Feature, candidate.Raw, e.raw, EntranceOptions{
		EntranceTypes:     []string{EntranceMain},
		NoRoutingEntrance: true,
	})
	if len(own) > 0 {
		return poiFeatures(candidate.Feature, NodePoint(own[0]), EntranceTypeEntrance, map[string]interface{}{
			"entrance": own[0].Tags.Join("entrance"),
		})
	}

	amenity := propString(candidate.Feature.Properties, "amenity")
	resolved := []*geojson.Feature{}
	for i, building := range buildings {
		if amenity == "" || !building.feature.Raw.Tags.Contains("building", amenity) {
			continue
		}
		if !featureOverlaps(candidate.Feature, building.feature.Feature) {
			continue
		}
		// A building resolved with shop entrances in stage 1 only counts
		// here when it also has a main entrance
		doors := mainEntrances(building.entrances)
		if len(doors) == 0 {
			continue
		}
		door := doors[0]
		extra := map[string]interface{}{
			"building_id": building.feature.Feature.ID,
			"entrance":    door.Tags.Join("entrance"),
		}
		if partID, ok := partIDForPoi(building, candidate.Feature); ok {
			extra["building_part_id"] = partID
		}
		resolved = append(resolved, poiFeatures(candidate.Feature, NodePoint(door), EntranceTypeEntrance, extra)...)
		processed[i] = struct{}{}
	}
	if len(resolved) == 0 {
		level.Warn(e.logger).Log("msg", "school POI has no entrance and no matching building, ignoring", "poi", candidate.Feature.ID)
	}
	return resolved
}

// mainEntrances keeps only the doors explicitly typed entrance=main
func mainEntrances(doors []*RawElement) []*RawElement {
	main := []*RawElement{}
	for _, door := range doors {
		if door.Tags.Contains("entrance", EntranceMain) {
			main = append(main, door)
		}
	}
	return main
}

// resolveParkOrMarina anchors a park or marina polygon at a main or routing
// entrance on its boundary. Without one, a leisure POI inside the polygon
// stands in for the area and nothing is emitted; otherwise the POI is
// dropped with an error.
func (e *NonResidentialExtractor) resolveParkOrMarina(candidate *FeatureAndRaw, candidates []*FeatureAndRaw) []*geojson.Feature {
	routing := EntrancesForFeature(candidate.Feature, candidate.Raw, e.raw, EntranceOptions{})
	if len(routing) > 0 {
		return poiFeatures(candidate.Feature, NodePoint(routing[0]), EntranceTypeRoutingEntrance, nil)
	}
	for _, other := range candidates {
		if other == candidate {
			continue
		}
		if propString(other.Feature.Properties, "leisure") == "" {
			continue
		}
		if featureOverlaps(candidate.Feature, other.Feature) {
			// The contained leisure POI carries the activity; the enclosing
			// area itself emits nothing
			return nil
		}
	}
	level.Error(e.logger).Log("msg", "park or marina has no routing entrance and no leisure POI inside, ignoring", "poi", candidate.Feature.ID)
	e.hasDataErrors = true
	return nil
}

// partIDForPoi returns the id of the building part containing the POI, but
// only when exactly one part overlaps it
func partIDForPoi(building *poiBuilding, poi *geojson.Feature) (string, bool) {
	matched := ""
	count := 0
	for _, part := range building.parts {
		if featureOverlaps(part.Feature, poi) {
			matched, _ = part.Feature.ID.(string)
			count++
		}
	}
	if count == 1 {
		return matched, true
	}
	return "", false
}

// matchPoisToBuildings anchors every POI overlapping a building interior at
// the building's nearest entrance, or at the building centroid when the
// building has no entrance. Buildings that yielded at least one POI are
// marked processed. Boundary-only contact does not count as overlap.
func (e *NonResidentialExtractor) matchPoisToBuildings(buildings []*poiBuilding, candidates []*FeatureAndRaw, processed map[int]struct{}) ([]*geojson.Feature, []*FeatureAndRaw) {
	if e.verbose {
		fmt.Printf("Matching POIs to buildings...\n")
	}
	resolved := []*geojson.Feature{}
	remaining := candidates
	size := len(buildings)
	for i, building := range buildings {
		contained := []*FeatureAndRaw{}
		rest := []*FeatureAndRaw{}
		for _, candidate := range remaining {
			if featureOverlaps(building.feature.Feature, candidate.Feature) {
				contained = append(contained, candidate)
			} else {
				rest = append(rest, candidate)
			}
		}
		remaining = rest

		entranceFeatures := make([]*geojson.Feature, 0, len(building.entrances))
		for _, door := range building.entrances {
			entranceFeatures = append(entranceFeatures, NodePointFeature(door))
		}

		for _, candidate := range contained {
			extra := map[string]interface{}{"building_id": building.feature.Feature.ID}
			if partID, ok := partIDForPoi(building, candidate.Feature); ok {
				extra["building_part_id"] = partID
			}

			var features []*geojson.Feature
			if len(building.entrances) > 0 {
				nearest := FindNearest(candidate.Feature, entranceFeatures, 0)
				extra["entrance"] = propString(nearest.Feature.Properties, "entrance")
				pt, _ := RepresentativePoint(nearest.Feature)
				features = poiFeatures(candidate.Feature, pt, EntranceTypeEntrance, extra)
			} else {
				centroid, ok := Centroid(building.feature.Feature.Geometry)
				if !ok {
					continue
				}
				features = poiFeatures(candidate.Feature, centroid, EntranceTypeBuildingCentroid, extra)
			}
			resolved = mergePoiFeatures(resolved, features)
			processed[i] = struct{}{}
		}
		if e.verbose && (i == 0 || (i+1)%100 == 0 || i+1 == size) {
			fmt.Printf("\tbuilding %d/%d              \r", i+1, size)
		}
	}
	if e.verbose {
		fmt.Printf("\n")
	}
	return resolved, remaining
}

// mergePoiFeatures appends POI records, folding duplicates. Two records are
// the same POI when they share coordinates and detailed category and their
// names do not disagree; the later record's properties are layered onto the
// first.
func mergePoiFeatures(pois []*geojson.Feature, features []*geojson.Feature) []*geojson.Feature {
	for _, feature := range features {
		merged := false
		for _, existing := range pois {
			if !samePoi(existing, feature) {
				continue
			}
			for key, value := range feature.Properties {
				existing.Properties[key] = value
			}
			merged = true
			break
		}
		if !merged {
			pois = append(pois, feature)
		}
	}
	return pois
}

func samePoi(a, b *geojson.Feature) bool {
	ptA, okA := a.Geometry.(orb.Point)
	ptB, okB := b.Geometry.(orb.Point)
	if !okA || !okB || !ptA.Equal(ptB) {
		return false
	}
	if propString(a.Properties, "category_detailed") != propString(b.Properties, "category_detailed") {
		return false
	}
	nameA := propString(a.Properties, "name")
	nameB := propString(b.Properties, "name")
	return nameA == "" || nameB == "" || nameA == nameB
}

// resolveLeftoverPois anchors POIs that sit in no building: a main or
// routing entrance on the POI itself wins, else the nearest building
// entrance within MaxDistanceToEntrance meters, else the POI's own point.
// The fallbacks are logged since they anchor the POI with less certainty.
func (e *NonResidentialExtractor) resolveLeftoverPois(candidates []*FeatureAndRaw, buildings []*poiBuilding) []*geojson.Feature {
	allEntrances := []*geojson.Feature{}
	for _, building := range buildings {
		for _, door := range building.entrances {
			allEntrances = append(allEntrances, NodePointFeature(door))
		}
	}

	resolved := []*geojson.Feature{}
	for _, candidate := range candidates {
		routing := EntrancesForFeature(candidate.Feature, candidate.Raw, e.raw, EntranceOptions{})
		if len(routing) > 0 {
			resolved = append(resolved, poiFeatures(candidate.Feature, NodePoint(routing[0]), EntranceTypeRoutingEntrance, nil)...)
			continue
		}
		if nearest := FindNearest(candidate.Feature, allEntrances, MaxDistanceToEntrance); nearest != nil {
			level.Warn(e.logger).Log("msg", "POI outside any building anchored at nearby entrance",
				"poi", candidate.Feature.ID, "distance", nearest.Distance)
			pt, _ := RepresentativePoint(nearest.Feature)
			resolved = append(resolved, poiFeatures(candidate.Feature, pt, EntranceTypeNearestEntrance, map[string]interface{}{
				"entrance": propString(nearest.Feature.Properties, "entrance"),
			})...)
			continue
		}
		pt, ok := RepresentativePoint(candidate.Feature)
		if !ok {
			continue
		}
		level.Warn(e.logger).Log("msg", "POI outside any building and far from any entrance, anchored at its centroid",
			"poi", candidate.Feature.ID)
		resolved = append(resolved, poiFeatures(candidate.Feature, pt, EntranceTypeCentroid, nil)...)
	}
	return resolved
}

// resolveLeftoverBuildings emits a POI for buildings with a resolved
// entrance that matched no POI, using the building's own tags. A building
// whose tags map to no category is dropped silently unless it is a type that
// normally carries activity tags.
func (e *NonResidentialExtractor) resolveLeftoverBuildings(buildings []*poiBuilding, processed map[int]struct{}) []*geojson.Feature {
	resolved := []*geojson.Feature{}
	for i, building := range buildings {
		if _, done := processed[i]; done {
			continue
		}
		if len(building.entrances) == 0 {
			continue
		}
		if len(CategoriesForProperties(building.feature.Feature.Properties)) == 0 {
			for _, value := range building.feature.Raw.Tags["building"] {
				if _, expected := expectedPoiBuildingTypes[value]; expected {
					level.Warn(e.logger).Log("msg", "building of an institutional type has no POI tags", "building", building.feature.Feature.ID)
					break
				}
			}
			continue
		}
		door := building.entrances[0]
		extra := map[string]interface{}{
			"building_id": building.feature.Feature.ID,
			"entrance":    door.Tags.Join("entrance"),
		}
		if partID, ok := partIDForPoi(building, building.feature.Feature); ok {
			extra["building_part_id"] = partID
		}
		resolved = append(resolved, poiFeatures(building.feature.Feature, NodePoint(door), EntranceTypeEntrance, extra)...)
	}
	return resolved
}
