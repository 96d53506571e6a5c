package osm2poi

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/paulmach/orb/geojson"
)

// ResidentialOutput is the result of one residential extraction run: every
// generated entrance plus the residential and mixed-use zones with their
// reconciled flat counts. Immutable once returned.
type ResidentialOutput struct {
	Entrances []*geojson.Feature
	Zones     []*geojson.Feature
}

// ResidentialExtractor derives residential entrances with dwelling counts
// from one raw/geojson snapshot pair
type ResidentialExtractor struct {
	raw     *RawData
	geo     *GeojsonData
	logger  log.Logger
	verbose bool

	hasDataErrors bool
}

// NewResidentialExtractor wires a residential extraction run
func NewResidentialExtractor(raw *RawData, geo *GeojsonData, logger log.Logger, verbose bool) *ResidentialExtractor {
	return &ResidentialExtractor{
		raw:     raw,
		geo:     geo,
		logger:  log.With(logger, "component", "residential"),
		verbose: verbose,
	}
}

// HasDataErrors reports whether any recoverable data-quality error was seen
// during the run
func (e *ResidentialExtractor) HasDataErrors() bool {
	return e.hasDataErrors
}

// Run extracts the residential entrances and the zones with residences
func (e *ResidentialExtractor) Run() (*ResidentialOutput, error) {
	entrances, err := e.buildingEntrances()
	if err != nil {
		return nil, err
	}

	// Purely residential zones first, then zones that are not residential
	// landuse but declare flats
	residentialZones := e.processZones(e.raw.QueryOr(QueryResidentialZones), false, entrances)
	otherZones := e.processZones(e.zonesWithDeclaredFlats(), true, entrances)

	zones := append(residentialZones, otherZones...)
	return &ResidentialOutput{Entrances: entrances, Zones: zones}, nil
}

func (e *ResidentialExtractor) zonesWithDeclaredFlats() []*RawElement {
	zones := e.raw.QueryOr(QueryZonesWithResidences)
	withFlats := []*RawElement{}
	for _, zone := range zones {
		if zone.Tags.Has("flats") {
			withFlats = append(withFlats, zone)
		}
	}
	return withFlats
}

func (e *ResidentialExtractor) buildingEntrances() ([]*geojson.Feature, error) {
	if e.verbose {
		fmt.Printf("Getting residential building entrances...\n")
	}
	residentialRaw := e.raw.QueryOr(QueryResidentialBuildings)
	buildings, err := e.geo.GeojsonsFromRawData(residentialRaw, GeojsonsOptions{
		GenerateNodesIfNotFound:  false,
		ContinueOnMissingGeojson: true,
	}, e.logger)
	if err != nil {
		return nil, err
	}

	entrances := []*geojson.Feature{}
	size := len(buildings)
	for i, building := range buildings {
		entrances = append(entrances, e.homeEntrances(building)...)
		if e.verbose && (i == 0 || (i+1)%10 == 0 || i+1 == size) {
			fmt.Printf("\tresidential building %d/%d              \r", i+1, size)
		}
	}
	if e.verbose {
		fmt.Printf("\nDone getting residential building entrances (%d entrances)\n", len(entrances))
	}
	return entrances, nil
}

// flatCount derives the number of flats of a residential building: the
// explicit building:flats tag when it is a valid non-negative integer, else a
// type-keyed default, else a data error.
func (e *ResidentialExtractor) flatCount(building *geojson.Feature) (int, bool) {
	if flats, ok := propInt(building.Properties, "building:flats"); ok && flats >= 0 {
		return flats, true
	}
	buildingType := propString(building.Properties, "building")
	for _, value := range SplitTagValue(buildingType) {
		if flats, ok := DefaultNumberOfFlats[value]; ok {
			return flats, true
		}
	}
	level.Error(e.logger).Log("msg", "property building:flats is invalid for building", "building", building.ID)
	e.hasDataErrors = true
	return 0, false
}

// entranceProperties collects the building tags every entrance inherits
func (e *ResidentialExtractor) entranceProperties(building *geojson.Feature, flats int) map[string]interface{} {
	properties := map[string]interface{}{
		"building_id":     building.ID,
		"building:flats":  flats,
		"area":            AreaSquareMeters(building.Geometry),
		"retirement_home": IsRetirementHomeProperties(building.Properties),
		"from_landrole":   false,
	}
	for _, key := range []string{"building", "building:levels", "building:floor_area", "flats"} {
		if value, ok := building.Properties[key]; ok {
			properties[key] = value
		}
	}
	return properties
}

// homeEntrances generates the entrance features for one residential
// building, splitting its flat count across the doors
func (e *ResidentialExtractor) homeEntrances(building *FeatureAndRaw) []*geojson.Feature {
	flats, ok := e.flatCount(building.Feature)
	if !ok {
		// Data error already reported; a building with no derivable flat
		// count contributes nothing downstream
		return nil
	}
	baseProperties := e.entranceProperties(building.Feature, flats)

	doors := EntrancesForFeature(building.Feature, building.Raw, e.raw, EntranceOptions{
		EntranceTypes: []string{EntranceMain, EntranceHome},
	})
	if len(doors) > 0 {
		features := make([]*geojson.Feature, 0, len(doors))
		assigned := 0
		splitIn := len(doors)
		for index, door := range doors {
			// Front-loaded split: the last entrance absorbs the remainder,
			// so the door counts always sum back to the building total
			doorFlats := (flats - assigned) / (splitIn - index)
			assigned += doorFlats
			feature := geojson.NewFeature(NodePoint(door))
			feature.ID = door.FeatureID()
			for key, value := range baseProperties {
				feature.Properties[key] = value
			}
			feature.Properties["entrance_type"] = EntranceTypeEntrance
			feature.Properties["entrance"] = door.Tags.Join("entrance")
			feature.Properties["building:flats"] = doorFlats
			features = append(features, feature)
		}
		return features
	}

	level.Warn(e.logger).Log("msg", "building with flats has no entrance, using centroid", "building", building.Feature.ID)
	centroid, ok := Centroid(building.Feature.Geometry)
	if !ok {
		return nil
	}
	feature := geojson.NewFeature(centroid)
	feature.ID = building.Feature.ID
	for key, value := range baseProperties {
		feature.Properties[key] = value
	}
	feature.Properties["entrance_type"] = EntranceTypeCentroid
	return []*geojson.Feature{feature}
}

// processZones resolves zone geometries and reconciles their flat counts
// with the generated entrances. When verifyDeclared is set (zones that are
// not purely residential), a disagreement between the declared flats tag and
// the computed sum is reported.
func (e *ResidentialExtractor) processZones(zoneElements []*RawElement, verifyDeclared bool, entrances []*geojson.Feature) []*geojson.Feature {
	zones := []*geojson.Feature{}
	size := len(zoneElements)
	for i, zoneElement := range zoneElements {
		zone := e.geo.Find(zoneElement.FeatureID())
		if zone == nil || !IsAreal(zone.Geometry) {
			level.Error(e.logger).Log("msg", "no polygon geojson found for OSM zone, maybe wrong files", "zone", zoneElement.FeatureID())
			e.hasDataErrors = true
			continue
		}
		e.reconcileZone(zone, entrances)
		if verifyDeclared {
			declared, _ := propInt(zone.Properties, "flats")
			computed, _ := propInt(zone.Properties, "flats_from_osm")
			if declared != computed {
				level.Error(e.logger).Log("msg", "flat count mismatch for non-residential zone, all flats should match a building",
					"zone", zone.ID, "declared", declared, "from_osm", computed)
				e.hasDataErrors = true
			}
		}
		zones = append(zones, zone)
		if e.verbose && (i == 0 || (i+1)%10 == 0 || i+1 == size) {
			fmt.Printf("\tzone %d/%d              \r", i+1, size)
		}
	}
	return zones
}

// reconcileZone sums the flats of the entrances contained in the zone into
// flats_from_osm and stamps the zone id onto those entrances. An entrance
// sitting exactly on the zone boundary may be counted by each touching zone
// or by none; this is a known imprecision that is only reported.
func (e *ResidentialExtractor) reconcileZone(zone *geojson.Feature, entrances []*geojson.Feature) {
	contained := FindOverlapping(zone, entrances)

	onBoundary := 0
	for _, boundary := range PolygonBoundaries(zone.Geometry) {
		for _, entrance := range entrances {
			if pt, ok := RepresentativePoint(entrance); ok && pointOnLineString(pt, boundary) {
				onBoundary++
			}
		}
	}
	if onBoundary > 0 {
		level.Warn(e.logger).Log("msg", "entrances on zone boundary, flat counts may be counted twice or ignored in touching zones",
			"zone", zone.ID, "entrances", onBoundary)
	}

	flatsFromOsm := 0
	for _, entrance := range contained {
		entrance.Properties["zone_id"] = zone.ID
		if flats, ok := propInt(entrance.Properties, "building:flats"); ok {
			flatsFromOsm += flats
		}
	}

	zone.Properties["flats_from_osm"] = flatsFromOsm
	// The declared flats tag wins when present and parseable
	if declared, ok := propInt(zone.Properties, "flats"); ok {
		zone.Properties["flats"] = declared
	} else {
		zone.Properties["flats"] = flatsFromOsm
	}
}
