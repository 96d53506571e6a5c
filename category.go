package osm2poi

import (
	"sort"
	"strings"
)

// PoiTagsQuery is the union of tag predicates selecting every element that
// may be a point of interest
var PoiTagsQuery = []TagQuery{
	{"amenity": ""},
	{"shop": ""},
	{"leisure": ""},
	{"tourism": ""},
	{"office": ""},
	{"craft": ""},
	{"healthcare": ""},
	{"school": ""},
	{"club": ""},
	{"industrial": ""},
	{"golf": "clubhouse"},
}

// QueryBuildings / QueryBuildingParts select the building footprints
var (
	QueryBuildings     = []TagQuery{{"building": ""}}
	QueryBuildingParts = []TagQuery{{"building:part": ""}}
)

// IgnoreBuildingTypes are building tag values never considered for POI
// extraction (utility footprints, not activity locations)
var IgnoreBuildingTypes = map[string]struct{}{
	"roof":           {},
	"shed":           {},
	"garage":         {},
	"garages":        {},
	"carport":        {},
	"static_caravan": {},
	"container":      {},
	"construction":   {},
	"ruins":          {},
	"collapsed":      {},
	"no":             {},
}

// IsIgnoredBuilding reports whether the element's building type is on the
// ignore list
func IsIgnoredBuilding(element *RawElement) bool {
	for _, value := range element.Tags["building"] {
		if _, ok := IgnoreBuildingTypes[value]; ok {
			return true
		}
	}
	return false
}

// IsPoiToProcess filters out elements that describe a former or empty
// activity rather than a live one
func IsPoiToProcess(element *RawElement) bool {
	if element.Tags.Has("disused") || element.Tags.Has("abandoned") {
		return false
	}
	if element.Tags.Contains("shop", "vacant") {
		return false
	}
	for key := range element.Tags {
		if strings.HasPrefix(key, "disused:") || strings.HasPrefix(key, "abandoned:") {
			return false
		}
	}
	return true
}

// categoryDefault is the table key holding the category used when a tag
// value has no entry of its own. An empty category means the value maps to
// nothing and is dropped.
const categoryDefault = "_default"

// detailedCategoryByTag maps tag key -> tag value -> detailed category.
// Condensed from the OSM activity tagging actually seen in extracts; rolled
// up to coarse categories by detailedCategoryToCategory below.
var detailedCategoryByTag = map[string]map[string]string{
	"craft": {
		categoryDefault: "craft",
	},
	"office": {
		categoryDefault: "office",
		"medical":       "healthcare_other",
		"government":    "government",
		"construction":  "craft",
	},
	"shop": {
		categoryDefault:    "shop_other",
		"bakery":           "shop_food",
		"pastry":           "shop_food",
		"coffee":           "shop_food",
		"farm":             "shop_food",
		"ice_cream":        "shop_food",
		"grocery":          "shop_food",
		"food":             "shop_food",
		"butcher":          "shop_food",
		"greengrocer":      "shop_food",
		"beverages":        "shop_food",
		"health_food":      "shop_food",
		"mall":             "",
		"vacant":           "",
		"beauty":           "service_beauty",
		"massage":          "service_beauty",
		"funeral_directors": "service_funeral",
		"supermarket":      "shop_supermarket",
		"convenience":      "shop_convenience",
		"laundry":          "service_other",
		"dry_cleaning":     "service_other",
		"copyshop":         "service_other",
		"travel_agency":    "service_other",
		"tattoo":           "service_other",
		"car":              "shop_car",
		"car_repair":       "service_car_repair",
		"car_parts":        "service_car_repair",
		"bicycle":          "shop_bicycle",
		"clothes":          "shop_clothes",
		"shoes":            "shop_clothes",
		"hairdresser":      "service_hairdresser",
		"department_store": "shop_department_store",
		"doityourself":     "shop_hardware",
		"hardware":         "shop_hardware",
		"garden_centre":    "shop_hardware",
		"storage_rental":   "service_storage",
	},
	"tourism": {
		categoryDefault: "tourism_tourism",
		"apartment":     "tourism_rental",
		"guest_house":   "tourism_rental",
		"chalet":        "tourism_rental",
		"camp_site":     "tourism_camping",
		"caravan_site":  "tourism_camping",
		"hostel":        "hotel",
		"hotel":         "hotel",
		"motel":         "hotel",
		"picnic_site":   "leisure_park",
		"artwork":       "leisure_art",
		"viewpoint":     "leisure_other",
	},
	"healthcare": {
		categoryDefault: "healthcare_other",
		"pharmacy":      "shop_pharmacy",
		"hospital":      "healthcare_hospital",
		"dentist":       "healthcare_dentist",
	},
	"school": {
		categoryDefault: "school_other",
		"primary":       "school_primary",
		"secondary":     "school_secondary",
	},
	"amenity": {
		categoryDefault:    "",
		"bar":              "restaurant_bar",
		"biergarten":       "restaurant_bar",
		"pub":              "restaurant_bar",
		"cafe":             "restaurant_cafe",
		"internet_cafe":    "restaurant_cafe",
		"fast_food":        "restaurant_fast_food",
		"food_court":       "restaurant_fast_food",
		"ice_cream":        "restaurant_fast_food",
		"canteen":          "restaurant_fast_food",
		"restaurant":       "restaurant_restaurant",
		"school":           "school_primary",
		"college":          "school_college",
		"university":       "school_university",
		"kindergarten":     "school_kindergarten",
		"childcare":        "school_kindergarten",
		"nursery":          "school_kindergarten",
		"driving_school":   "school_other",
		"language_school":  "school_other",
		"music_school":     "school_other",
		"library":          "leisure_library",
		"bus_station":      "transit_bus_station",
		"ferry_terminal":   "transit_ferry_terminal",
		"fuel":             "service_fuel",
		"taxi":             "transport",
		"atm":              "service_atm",
		"bank":             "service_bank",
		"bureau_de_change": "service_bank",
		"clinic":           "healthcare_clinic",
		"doctors":          "healthcare_clinic",
		"dentist":          "healthcare_dentist",
		"hospital":         "healthcare_hospital",
		"nursing_home":     "healthcare_other",
		"pharmacy":         "shop_pharmacy",
		"social_facility":  "social",
		"community_centre": "social",
		"social_centre":    "social",
		"retirement_home":  "social",
		"veterinary":       "service_veterinary",
		"arts_centre":      "leisure_art",
		"theatre":          "leisure_art",
		"cinema":           "leisure_cinema",
		"casino":           "leisure_adult",
		"nightclub":        "leisure_adult",
		"gym":              "leisure_gym",
		"dojo":             "leisure_gym",
		"public_bath":      "leisure_swimming",
		"swimming_pool":    "leisure_swimming",
		"marketplace":      "shop_food",
		"place_of_worship": "religion",
		"monastery":        "religion",
		"grave_yard":       "religion",
		"courthouse":       "government",
		"townhall":         "government",
		"embassy":          "government",
		"police":           "police_station",
		"fire_station":     "fire_station",
		"post_office":      "service_postal",
		"post_depot":       "service_postal",
		"prison":           "prison",
		"car_rental":       "service_rental",
		"bicycle_rental":   "service_rental",
		"boat_rental":      "service_rental",
		"car_sharing":      "service_rental",
		"car_wash":         "service_car_wash",
		"crematorium":      "service_funeral",
		"funeral_home":     "service_funeral",
		"recycling":        "utility",
		"waste_disposal":   "utility",
		"waste_transfer_station": "utility",
		"public_building":  "public",
		"events_venue":     "conference_center",
		"conference_centre": "conference_center",
		"research_institute": "school_research",
		"stables":          "farm",
		"greenhouse":       "farm",
	},
	"building": {
		categoryDefault: "",
		"hotel":         "hotel",
		"commercial":    "shop_other",
		"kiosk":         "shop_other",
		"office":        "office",
		"supermarket":   "shop_supermarket",
		"warehouse":     "service_other",
		"cathedral":     "religion",
		"chapel":        "religion",
		"church":        "religion",
		"mosque":        "religion",
		"religious":     "religion",
		"synagogue":     "religion",
		"temple":        "religion",
		"civic":         "public",
		"public":        "public",
		"fire_station":  "fire_station",
		"government":    "government",
		"hospital":      "healthcare_hospital",
		"train_station": "transit_train_station",
		"transportation": "transport",
		"barn":          "farm",
		"cowshed":       "farm",
		"farm_auxiliary": "farm",
		"greenhouse":    "farm",
		"stable":        "farm",
		"sty":           "farm",
		"pavilion":      "leisure_park",
		"sports_hall":   "leisure_sports",
		"riding_hall":   "leisure_sports",
		"stadium":       "leisure_sports",
		"grandstand":    "leisure_art",
		"hangar":        "transport",
		"garages":       "utility",
		"service":       "utility",
		"transformer_tower": "utility",
		"water_tower":   "utility",
	},
	"leisure": {
		categoryDefault:  "leisure_other",
		"picnic_table":   "",
		"bleachers":      "",
		"playground":     "leisure_playground",
		"recreation_ground": "leisure_playground",
		"swimming_pool":  "leisure_swimming",
		"water_park":     "leisure_swimming",
		"splash_pad":     "leisure_swimming",
		"sports_centre":  "leisure_sports",
		"ice_rink":       "leisure_sports",
		"pitch":          "leisure_sports",
		"stadium":        "leisure_sports",
		"track":          "leisure_sports",
		"horse_riding":   "leisure_sports",
		"fitness_centre": "leisure_gym",
		"park":           "leisure_park",
		"dog_park":       "leisure_park",
		"golf_course":    "leisure_golf",
		"miniature_golf": "leisure_sports",
		"marina":         "leisure_other",
	},
	"club": {
		"sport":    "leisure_sports",
		"shooting": "leisure_sports",
		"social":   "social",
	},
	"industrial": {
		categoryDefault: "industrial",
		"depot":         "utility",
		"transport":     "transport",
	},
	"landuse": {
		categoryDefault:     "",
		"cemetery":          "religion",
		"quarry":            "quarry",
		"recreation_ground": "leisure_playground",
		"winter_sports":     "leisure_sports",
		"landfill":          "landfill",
		"depot":             "utility",
	},
	"golf": {
		categoryDefault: "",
		"clubhouse":     "leisure_golf",
	},
	"power": {
		categoryDefault: "",
		"plant":         "utility",
		"substation":    "utility",
	},
	"railway": {
		categoryDefault: "",
		"station":       "transit_train_station",
	},
	"public_transport": {
		categoryDefault: "",
		"station":       "transit_station",
	},
}

// detailedCategoryToCategory rolls the detailed category up to its coarse
// category (the first path segment of the classification)
func detailedCategoryToCategory(detailed string) string {
	if idx := strings.Index(detailed, "_"); idx > 0 {
		return detailed[:idx]
	}
	return detailed
}

// detailedCategoriesFor resolves the detailed categories for one tag/value
// accessor. Keys are visited in sorted order so that multi-category POIs are
// emitted deterministically.
func detailedCategoriesFor(keys []string, values func(key string) []string) []string {
	sort.Strings(keys)
	seen := map[string]struct{}{}
	categories := []string{}
	for _, key := range keys {
		mapping, ok := detailedCategoryByTag[key]
		if !ok {
			continue
		}
		matched := ""
		found := false
		for _, value := range values(key) {
			if category, ok := mapping[value]; ok {
				matched = category
				found = true
				break
			}
		}
		if !found {
			matched = mapping[categoryDefault]
		}
		if matched == "" {
			continue
		}
		if _, dup := seen[matched]; dup {
			continue
		}
		seen[matched] = struct{}{}
		categories = append(categories, matched)
	}
	return categories
}

// CategoriesForTags resolves detailed categories from a raw tag map
func CategoriesForTags(tags Tags) []string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	return detailedCategoriesFor(keys, func(key string) []string { return tags[key] })
}

// CategoriesForProperties resolves detailed categories from geojson feature
// properties, where tag values are ';'-joined strings
func CategoriesForProperties(properties map[string]interface{}) []string {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	return detailedCategoriesFor(keys, func(key string) []string {
		if str, ok := properties[key].(string); ok {
			return SplitTagValue(str)
		}
		return nil
	})
}

// customKind classifies polygon POIs needing special entrance handling,
// resolved once per POI instead of re-testing tag strings at each stage
type customKind uint16

const (
	CUSTOM_DEFAULT = customKind(iota + 1)
	CUSTOM_SCHOOL
	CUSTOM_PARK_OR_MARINA
)

func (iotaIdx customKind) String() string {
	return [...]string{"default", "school", "park_or_marina"}[iotaIdx-1]
}

// customKindForProperties resolves the custom handling kind of a polygon POI
func customKindForProperties(properties map[string]interface{}) customKind {
	for _, category := range CategoriesForProperties(properties) {
		if strings.HasPrefix(category, "school") {
			return CUSTOM_SCHOOL
		}
	}
	if leisure, ok := properties["leisure"].(string); ok {
		for _, value := range SplitTagValue(leisure) {
			if value == "park" || value == "marina" {
				return CUSTOM_PARK_OR_MARINA
			}
		}
	}
	return CUSTOM_DEFAULT
}
