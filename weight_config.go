package osm2poi

// Weighing methods, tried in the order configured per category
const (
	WeightMethodArea     = "area"
	WeightMethodCapacity = "capacity"
)

// POIWeightCategory configures how the POIs matching one tag query get their
// trip-destination weight. A zero rate means the method has no calibrated
// estimate and is not workable.
type POIWeightCategory struct {
	Description string
	// OsmQueryOr selects the POIs of this category
	OsmQueryOr []TagQuery
	// Methods are tried in order; the first workable one wins
	Methods []string
	// AreaTag is the property holding the floor area in square meters
	AreaTag string
	// CapacityTag is the property holding the person capacity
	CapacityTag string
	// TripsPerSqMeterPerWeekday is the average trip-destination rate for the
	// area method
	TripsPerSqMeterPerWeekday float64
	// TripsPerCapacityPerWeekday is the average trip-destination rate for the
	// capacity method
	TripsPerCapacityPerWeekday float64
}

// poiIgnoredQueries lists tag combinations excluded from weighting entirely.
// Matched by tag equality on POI properties.
var poiIgnoredQueries = []TagQuery{
	{"building": "commercial"},
	{"tourism": "viewpoint"},
	{"amenity": "taxi"},
	{"leisure": "slipway"},
	{"leisure": "nature_reserve"},
	{"amenity": "loading_dock"},
	{"shop": "vacant"},
	{"shop": "mall"},
	// TODO: weigh ATMs without letting them dilute floor area shares
	{"amenity": "atm"},
	{"leisure": "golf_course"},
	{"amenity": "camping"},
	{"tourism": "camp_site"},
	{"tourism": "caravan_site"},
}

// poiWeightCategories maps category name to its weighing configuration. Trip
// rates are average weekday trip destinations, calibrated from OD survey
// data.
var poiWeightCategories = map[string]POIWeightCategory{
	"educationSchool": {
		Description: "Primary and secondary schools",
		OsmQueryOr: []TagQuery{
			{"amenity": "school"},
			{"school": ""},
		},
		Methods:                    []string{WeightMethodCapacity, WeightMethodArea},
		AreaTag:                    "building:floor_area",
		CapacityTag:                "capacity",
		TripsPerSqMeterPerWeekday:  0.15,
		TripsPerCapacityPerWeekday: 1.2,
	},
	"educationCollegeUniversity": {
		Description: "Colleges and universities",
		OsmQueryOr: []TagQuery{
			{"amenity": "college"},
			{"amenity": "university"},
		},
		Methods:                    []string{WeightMethodCapacity, WeightMethodArea},
		AreaTag:                    "building:floor_area",
		CapacityTag:                "capacity",
		TripsPerSqMeterPerWeekday:  0.12,
		TripsPerCapacityPerWeekday: 0.9,
	},
	"educationKindergarten": {
		Description: "Kindergartens, childcare and nurseries",
		OsmQueryOr: []TagQuery{
			{"amenity": "kindergarten"},
			{"amenity": "childcare"},
			{"amenity": "nursery"},
		},
		Methods:                    []string{WeightMethodCapacity, WeightMethodArea},
		AreaTag:                    "building:floor_area",
		CapacityTag:                "capacity",
		TripsPerSqMeterPerWeekday:  0.3,
		TripsPerCapacityPerWeekday: 2.0,
	},
	"healthcareHospital": {
		Description: "Hospitals",
		OsmQueryOr: []TagQuery{
			{"amenity": "hospital"},
			{"healthcare": "hospital"},
		},
		Methods:                    []string{WeightMethodCapacity, WeightMethodArea},
		AreaTag:                    "building:floor_area",
		CapacityTag:                "beds",
		TripsPerSqMeterPerWeekday:  0.1,
		TripsPerCapacityPerWeekday: 3.0,
	},
	"healthcareClinic": {
		Description: "Clinics, doctors and dentists",
		OsmQueryOr: []TagQuery{
			{"amenity": "clinic"},
			{"amenity": "doctors"},
			{"amenity": "dentist"},
			{"healthcare": ""},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.4,
	},
	"restaurant": {
		Description: "Restaurants and bars",
		OsmQueryOr: []TagQuery{
			{"amenity": "restaurant"},
			{"amenity": "bar"},
			{"amenity": "pub"},
			{"amenity": "biergarten"},
		},
		Methods:                    []string{WeightMethodArea, WeightMethodCapacity},
		AreaTag:                    "building:floor_area",
		CapacityTag:                "capacity",
		TripsPerSqMeterPerWeekday:  0.8,
		TripsPerCapacityPerWeekday: 2.5,
	},
	"restaurantCafe": {
		Description: "Cafes",
		OsmQueryOr: []TagQuery{
			{"amenity": "cafe"},
			{"amenity": "internet_cafe"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 1.2,
	},
	"restaurantFastFood": {
		Description: "Fast food and food courts",
		OsmQueryOr: []TagQuery{
			{"amenity": "fast_food"},
			{"amenity": "food_court"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 2.0,
	},
	"shopSupermarket": {
		Description: "Supermarkets",
		OsmQueryOr: []TagQuery{
			{"shop": "supermarket"},
			{"building": "supermarket"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 1.0,
	},
	"shopConvenience": {
		Description: "Convenience stores",
		OsmQueryOr: []TagQuery{
			{"shop": "convenience"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 1.5,
	},
	"shopFood": {
		Description: "Food shops",
		OsmQueryOr: []TagQuery{
			{"shop": "bakery"},
			{"shop": "butcher"},
			{"shop": "greengrocer"},
			{"shop": "grocery"},
			{"shop": "food"},
			{"amenity": "marketplace"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 1.0,
	},
	"shopLowClients": {
		Description: "Shops with low number of clients",
		OsmQueryOr: []TagQuery{
			{"shop": "furniture"},
			{"shop": "bed"},
			{"shop": "computer"},
			{"shop": "bicycle"},
			{"shop": "laundry"},
			{"shop": "dry_cleaning"},
			{"shop": "copyshop"},
			{"shop": "tattoo"},
			{"shop": "art"},
			{"shop": "craft"},
			{"shop": "medical_supply"},
			{"amenity": "car_rental"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.1,
	},
	"shopMediumClients": {
		Description: "Shops with a moderate number of clients",
		OsmQueryOr: []TagQuery{
			{"shop": "clothes"},
			{"shop": "shoes"},
			{"shop": "hardware"},
			{"shop": "doityourself"},
			{"shop": "department_store"},
			{"shop": "electronics"},
			{"shop": "florist"},
			{"shop": "books"},
			{"shop": "stationery"},
			{"shop": "pet"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.5,
	},
	"officeWithSomeClients": {
		Description: "Offices receiving some clients",
		OsmQueryOr: []TagQuery{
			{"office": ""},
			{"amenity": "bank"},
			{"amenity": "post_office"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.2,
	},
	"leisureFitnessCenter": {
		Description: "Gyms and fitness centres",
		OsmQueryOr: []TagQuery{
			{"leisure": "fitness_centre"},
			{"amenity": "gym"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.6,
	},
	"leisureSportCenter": {
		Description: "Sport centres, rinks and stadiums",
		OsmQueryOr: []TagQuery{
			{"leisure": "sports_centre"},
			{"leisure": "ice_rink"},
			{"leisure": "stadium"},
		},
		Methods:                    []string{WeightMethodArea, WeightMethodCapacity},
		AreaTag:                    "building:floor_area",
		CapacityTag:                "capacity",
		TripsPerSqMeterPerWeekday:  0.25,
		TripsPerCapacityPerWeekday: 0.5,
	},
	"leisureLibrary": {
		Description: "Libraries",
		OsmQueryOr: []TagQuery{
			{"amenity": "library"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.7,
	},
	"leisurePark": {
		Description: "Parks and playgrounds",
		OsmQueryOr: []TagQuery{
			{"leisure": "park"},
			{"leisure": "playground"},
			{"leisure": "dog_park"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "polygon:area",
		TripsPerSqMeterPerWeekday: 0.01,
	},
	"religionPlaceOfWorship": {
		Description: "Places of worship",
		OsmQueryOr: []TagQuery{
			{"amenity": "place_of_worship"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.15,
	},
	"socialFacility": {
		Description: "Social and community facilities",
		OsmQueryOr: []TagQuery{
			{"amenity": "social_facility"},
			{"amenity": "community_centre"},
			{"amenity": "social_centre"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.3,
	},
	"industrial": {
		Description: "Industrial sites",
		OsmQueryOr: []TagQuery{
			{"industrial": ""},
			{"building": "industrial"},
			{"man_made": "works"},
		},
		Methods:                   []string{WeightMethodArea},
		AreaTag:                   "building:floor_area",
		TripsPerSqMeterPerWeekday: 0.05,
	},
}
