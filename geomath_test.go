package osm2poi

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func unitSquare(lon, lat, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{lon, lat},
		{lon + size, lat},
		{lon + size, lat + size},
		{lon, lat + size},
		{lon, lat},
	}}
}

func TestPointInPolygonBoundary(t *testing.T) {
	square := unitSquare(0, 0, 1)
	onBoundary := orb.Point{0.5, 0}
	inside := orb.Point{0.5, 0.5}
	outside := orb.Point{1.5, 0.5}

	if !PointInPolygon(inside, square, false) {
		t.Errorf("Interior point must be inside")
	}
	if !PointInPolygon(onBoundary, square, false) {
		t.Errorf("Boundary point must be inside when boundary is included")
	}
	if PointInPolygon(onBoundary, square, true) {
		t.Errorf("Boundary point must be outside when boundary is ignored")
	}
	if PointInPolygon(outside, square, false) {
		t.Errorf("Exterior point must be outside")
	}
}

func TestPolygonInteriorsOverlapTouching(t *testing.T) {
	a := unitSquare(0, 0, 1)
	b := unitSquare(1, 0, 1) // shares the edge x=1 with a

	if PolygonInteriorsOverlap(a, b) {
		t.Errorf("Squares sharing only an edge must not overlap")
	}
}

func TestPolygonInteriorsOverlapPartial(t *testing.T) {
	a := unitSquare(0, 0, 1)
	b := unitSquare(0.5, 0.5, 1)

	if !PolygonInteriorsOverlap(a, b) {
		t.Errorf("Partially overlapping squares must overlap")
	}
}

func TestPolygonInteriorsOverlapNested(t *testing.T) {
	outer := unitSquare(0, 0, 1)
	inner := unitSquare(0.25, 0.25, 0.5)

	if !PolygonInteriorsOverlap(outer, inner) {
		t.Errorf("Nested squares must overlap")
	}
	if !PolygonInteriorsOverlap(inner, outer) {
		t.Errorf("Overlap must be symmetric")
	}
}

func TestPolygonInteriorsOverlapIdentical(t *testing.T) {
	a := unitSquare(0, 0, 1)
	b := unitSquare(0, 0, 1)

	if !PolygonInteriorsOverlap(a, b) {
		t.Errorf("Identical squares must overlap")
	}
}

func TestDistanceMeters(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{0, 0.001} // one millidegree of latitude

	d := DistanceMeters(a, b)
	if d < 110.0 || d > 112.5 {
		t.Errorf("One millidegree of latitude must be about 111 meters, got %f", d)
	}
}

func TestAreaSquareMeters(t *testing.T) {
	square := unitSquare(0, 0, 0.001)

	area := AreaSquareMeters(square)
	// Roughly 111m x 111m at the equator
	if math.Abs(area-12364) > 500 {
		t.Errorf("Unexpected area for millidegree square: %f", area)
	}
	if AreaSquareMeters(orb.Point{0, 0}) != 0 {
		t.Errorf("Non-areal geometry must have zero area")
	}
}

func TestCentroid(t *testing.T) {
	square := unitSquare(0, 0, 1)
	centroid, ok := Centroid(square)
	if !ok {
		t.Fatalf("Centroid of a square must exist")
	}
	if math.Abs(centroid[0]-0.5) > 1e-9 || math.Abs(centroid[1]-0.5) > 1e-9 {
		t.Errorf("Centroid of unit square must be (0.5, 0.5), got %v", centroid)
	}
}

func TestPolygonInteriorsOverlapConcaveNotch(t *testing.T) {
	// A U-shaped polygon and the parcel filling its notch share boundary
	// segments only; the U's area centroid falls inside the notch
	u := orb.Polygon{orb.Ring{
		{0, 0}, {3, 0}, {3, 3}, {2, 3}, {2, 1}, {1, 1}, {1, 3}, {0, 3}, {0, 0},
	}}
	notch := orb.Polygon{orb.Ring{
		{1, 1}, {2, 1}, {2, 3}, {1, 3}, {1, 1},
	}}

	if PolygonInteriorsOverlap(u, notch) {
		t.Errorf("Boundary-only touch of a concave polygon must not count as overlap")
	}
	if PolygonInteriorsOverlap(notch, u) {
		t.Errorf("Boundary-only touch must not count as overlap in either order")
	}
	if !PolygonInteriorsOverlap(u, u) {
		t.Errorf("Identical concave polygons must overlap")
	}
}
