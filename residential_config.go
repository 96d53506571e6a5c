package osm2poi

// QueryResidentialBuildings selects buildings considered residential: either
// explicitly flat-tagged, or of a residential building type
var QueryResidentialBuildings = []TagQuery{
	{"building:flats": ""},
	{"building": "residential"},
	{"building": "apartments"},
	{"building": "house"},
	{"building": "detached"},
	{"building": "semidetached_house"},
	{"building": "terrace"},
	{"building": "bungalow"},
	{"building": "dormitory"},
}

// DefaultNumberOfFlats gives the assumed flat count per residential building
// type when building:flats is absent or invalid. Types missing here require
// an explicit tag (apartments and dormitories vary too much to guess).
var DefaultNumberOfFlats = map[string]int{
	"house":              1,
	"detached":           1,
	"semidetached_house": 1,
	"bungalow":           1,
	"residential":        1,
	"terrace":            1,
}

// QueryResidentialZones selects purely residential landuse zones
var QueryResidentialZones = []TagQuery{
	{"landuse": "residential"},
}

// QueryZonesWithResidences selects zones that are not purely residential but
// may declare flats (mixed-use parcels); only those actually carrying a
// flats tag are processed
var QueryZonesWithResidences = []TagQuery{
	{"landuse": "commercial"},
	{"landuse": "retail"},
	{"landuse": "institutional"},
	{"landuse": "religious"},
	{"landuse": "industrial"},
}

// IsRetirementHomeProperties checks for a retirement home: the deprecated
// amenity=retirement_home, or a social facility for seniors. Both tags can
// appear together as amenity=retirement_home;social_facility.
func IsRetirementHomeProperties(properties map[string]interface{}) bool {
	amenity, _ := properties["amenity"].(string)
	amenities := SplitTagValue(amenity)
	for _, value := range amenities {
		if value == "retirement_home" {
			return true
		}
	}
	for _, value := range amenities {
		if value == "social_facility" {
			socialFor, _ := properties["social_facility:for"].(string)
			for _, target := range SplitTagValue(socialFor) {
				if target == "senior" {
					return true
				}
			}
		}
	}
	return false
}
