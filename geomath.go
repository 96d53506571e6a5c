package osm2poi

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// boundaryEpsilon is the tolerance, in degrees, for deciding that a point
// lies exactly on a segment. Roughly a millimeter at the equator.
const boundaryEpsilon = 1e-9

// pointOnSegment checks collinearity within epsilon plus bounding box containment
func pointOnSegment(pt, a, b orb.Point) bool {
	cross := (b[0]-a[0])*(pt[1]-a[1]) - (b[1]-a[1])*(pt[0]-a[0])
	if math.Abs(cross) > boundaryEpsilon {
		return false
	}
	if pt[0] < math.Min(a[0], b[0])-boundaryEpsilon || pt[0] > math.Max(a[0], b[0])+boundaryEpsilon {
		return false
	}
	if pt[1] < math.Min(a[1], b[1])-boundaryEpsilon || pt[1] > math.Max(a[1], b[1])+boundaryEpsilon {
		return false
	}
	return true
}

// pointOnRing checks whether the point lies on any segment of the ring
func pointOnRing(pt orb.Point, ring orb.Ring) bool {
	for i := 0; i < len(ring)-1; i++ {
		if pointOnSegment(pt, ring[i], ring[i+1]) {
			return true
		}
	}
	return false
}

// pointOnLineString checks whether the point lies on the line
func pointOnLineString(pt orb.Point, line orb.LineString) bool {
	for i := 0; i < len(line)-1; i++ {
		if pointOnSegment(pt, line[i], line[i+1]) {
			return true
		}
	}
	return false
}

func pointOnPolygonBoundary(pt orb.Point, polygon orb.Polygon) bool {
	for _, ring := range polygon {
		if pointOnRing(pt, ring) {
			return true
		}
	}
	return false
}

// PointInPolygon tests polygon/multipolygon containment with explicit
// boundary semantics: when ignoreBoundary is false (the default everywhere a
// zone or building interior is checked), a point exactly on the boundary
// counts as inside.
func PointInPolygon(pt orb.Point, geometry orb.Geometry, ignoreBoundary bool) bool {
	switch geom := geometry.(type) {
	case orb.Polygon:
		if pointOnPolygonBoundary(pt, geom) {
			return !ignoreBoundary
		}
		return planar.PolygonContains(geom, pt)
	case orb.MultiPolygon:
		for _, polygon := range geom {
			if pointOnPolygonBoundary(pt, polygon) {
				return !ignoreBoundary
			}
		}
		return planar.MultiPolygonContains(geom, pt)
	}
	return false
}

// PointOnLine tests whether the point lies on a LineString or MultiLineString
func PointOnLine(pt orb.Point, geometry orb.Geometry) bool {
	switch geom := geometry.(type) {
	case orb.LineString:
		return pointOnLineString(pt, geom)
	case orb.MultiLineString:
		for _, line := range geom {
			if pointOnLineString(pt, line) {
				return true
			}
		}
	}
	return false
}

// segmentsProperlyCross reports a strict interior crossing of two segments,
// excluding any endpoint touch or collinear overlap.
func segmentsProperlyCross(a1, a2, b1, b2 orb.Point) bool {
	dir := func(p, q, r orb.Point) float64 {
		return (q[0]-p[0])*(r[1]-p[1]) - (q[1]-p[1])*(r[0]-p[0])
	}
	d1 := dir(b1, b2, a1)
	d2 := dir(b1, b2, a2)
	d3 := dir(a1, a2, b1)
	d4 := dir(a1, a2, b2)
	return ((d1 > boundaryEpsilon && d2 < -boundaryEpsilon) || (d1 < -boundaryEpsilon && d2 > boundaryEpsilon)) &&
		((d3 > boundaryEpsilon && d4 < -boundaryEpsilon) || (d3 < -boundaryEpsilon && d4 > boundaryEpsilon))
}

func polygonRings(geometry orb.Geometry) []orb.Ring {
	rings := []orb.Ring{}
	switch geom := geometry.(type) {
	case orb.Polygon:
		rings = append(rings, geom...)
	case orb.MultiPolygon:
		for _, polygon := range geom {
			rings = append(rings, polygon...)
		}
	}
	return rings
}

// PolygonInteriorsOverlap tests whether two areal geometries share interior
// area. Two polygons that only touch along a shared boundary do not overlap;
// this guards against adjacent parcels matching each other.
func PolygonInteriorsOverlap(a, b orb.Geometry) bool {
	// A vertex of one strictly inside the other settles it
	for _, ring := range polygonRings(a) {
		for _, pt := range ring {
			if PointInPolygon(pt, b, true) {
				return true
			}
		}
	}
	for _, ring := range polygonRings(b) {
		for _, pt := range ring {
			if PointInPolygon(pt, a, true) {
				return true
			}
		}
	}
	// Proper edge crossings imply interior intersection even when all
	// vertices are outside
	ringsA := polygonRings(a)
	ringsB := polygonRings(b)
	for _, ra := range ringsA {
		for i := 0; i < len(ra)-1; i++ {
			for _, rb := range ringsB {
				for j := 0; j < len(rb)-1; j++ {
					if segmentsProperlyCross(ra[i], ra[i+1], rb[j], rb[j+1]) {
						return true
					}
				}
			}
		}
	}
	// Identical or inscribed shapes leave every vertex on the other's
	// boundary with no proper crossing; only a strictly interior point can
	// settle them. The area centroid is not usable here since a concave
	// polygon's centroid may sit outside its own interior.
	if pt, ok := interiorPoint(a); ok && PointInPolygon(pt, b, true) {
		return true
	}
	if pt, ok := interiorPoint(b); ok && PointInPolygon(pt, a, true) {
		return true
	}
	return false
}

// interiorPoint returns a point strictly inside the areal geometry, found by
// nudging edge midpoints along their normals. The nudge scales inversely with
// the edge length so the collinearity tolerance of pointOnSegment cannot
// swallow it.
func interiorPoint(geometry orb.Geometry) (orb.Point, bool) {
	for _, ring := range polygonRings(geometry) {
		for i := 0; i < len(ring)-1; i++ {
			a, b := ring[i], ring[i+1]
			length := math.Hypot(b[0]-a[0], b[1]-a[1])
			if length == 0 {
				continue
			}
			offset := math.Max(1e-7, 4*boundaryEpsilon/length)
			mid := orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
			nx := -(b[1] - a[1]) / length * offset
			ny := (b[0] - a[0]) / length * offset
			inward := []orb.Point{{mid[0] + nx, mid[1] + ny}, {mid[0] - nx, mid[1] - ny}}
			for _, candidate := range inward {
				if PointInPolygon(candidate, geometry, true) {
					return candidate, true
				}
			}
		}
	}
	return orb.Point{}, false
}

// LineIntersectsPolygon tests whether a line shares at least one point with
// the polygon's closed area (boundary included)
func LineIntersectsPolygon(line orb.Geometry, polygon orb.Geometry) bool {
	segments := []orb.LineString{}
	switch geom := line.(type) {
	case orb.LineString:
		segments = append(segments, geom)
	case orb.MultiLineString:
		for _, ls := range geom {
			segments = append(segments, ls)
		}
	default:
		return false
	}
	for _, ls := range segments {
		for _, pt := range ls {
			if PointInPolygon(pt, polygon, false) {
				return true
			}
		}
		for i := 0; i < len(ls)-1; i++ {
			for _, ring := range polygonRings(polygon) {
				for j := 0; j < len(ring)-1; j++ {
					if segmentsProperlyCross(ls[i], ls[i+1], ring[j], ring[j+1]) {
						return true
					}
				}
			}
		}
	}
	return false
}

// Centroid returns the area-weighted centroid of a geometry
func Centroid(geometry orb.Geometry) (orb.Point, bool) {
	if geometry == nil {
		return orb.Point{}, false
	}
	if pt, ok := geometry.(orb.Point); ok {
		return pt, true
	}
	centroid, _ := planar.CentroidArea(geometry)
	return centroid, true
}

// RepresentativePoint returns the point used for nearest-distance searches:
// the point itself for Point features, the centroid otherwise
func RepresentativePoint(feature *geojson.Feature) (orb.Point, bool) {
	if feature == nil || feature.Geometry == nil {
		return orb.Point{}, false
	}
	return Centroid(feature.Geometry)
}

// DistanceMeters returns the great-circle distance between two points in meters
func DistanceMeters(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}

// AreaSquareMeters returns the geodesic area of an areal geometry
func AreaSquareMeters(geometry orb.Geometry) float64 {
	if geometry == nil {
		return 0
	}
	switch geometry.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return geo.Area(geometry)
	}
	return 0
}

// PolygonBoundaries returns the boundary rings of an areal geometry as
// LineStrings, for entrance-on-zone-boundary checks
func PolygonBoundaries(geometry orb.Geometry) []orb.LineString {
	boundaries := []orb.LineString{}
	for _, ring := range polygonRings(geometry) {
		boundaries = append(boundaries, orb.LineString(ring))
	}
	return boundaries
}

// IsAreal reports whether the geometry is a polygon or multipolygon
func IsAreal(geometry orb.Geometry) bool {
	switch geometry.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return true
	}
	return false
}

// IsLinear reports whether the geometry is a line or multiline
func IsLinear(geometry orb.Geometry) bool {
	switch geometry.(type) {
	case orb.LineString, orb.MultiLineString:
		return true
	}
	return false
}
