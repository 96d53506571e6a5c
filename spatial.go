package osm2poi

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// NodesInsideOptions filters the candidate node set for containment queries
type NodesInsideOptions struct {
	// IgnoreBoundary excludes nodes lying exactly on the polygon boundary
	IgnoreBoundary bool
	// OnlyTagged restricts the scan to nodes carrying at least one tag
	OnlyTagged bool
	// OnlyEntranceTagged restricts the scan to nodes with entrance tagging
	OnlyEntranceTagged bool
}

// NodesInside returns the raw nodes contained in an areal feature. The node
// index is prefiltered by the feature's bounding box before the exact
// point-in-polygon test.
func (d *RawData) NodesInside(feature *geojson.Feature, options NodesInsideOptions) []*RawElement {
	if feature == nil || !IsAreal(feature.Geometry) {
		return nil
	}
	var candidates []*RawElement
	switch {
	case options.OnlyEntranceTagged:
		candidates = d.nodesWithEntranceTags
	case options.OnlyTagged:
		candidates = d.nodesWithTags
	default:
		candidates = make([]*RawElement, 0, len(d.nodes))
		for _, node := range d.nodes {
			candidates = append(candidates, node)
		}
	}

	bound := feature.Geometry.Bound()
	inside := []*RawElement{}
	for _, node := range candidates {
		pt := orb.Point{node.Lon, node.Lat}
		if !bound.Contains(pt) {
			continue
		}
		if PointInPolygon(pt, feature.Geometry, options.IgnoreBoundary) {
			inside = append(inside, node)
		}
	}
	return inside
}

// featureOverlaps is the geometry-overlap test behind FindOverlapping and
// SplitOverlapping. Subject is areal or linear; candidates of any single
// geometry type. For two areal geometries the interiors must intersect:
// parcels sharing only a boundary do not overlap.
func featureOverlaps(subject *geojson.Feature, candidate *geojson.Feature) bool {
	if subject == nil || candidate == nil || subject.Geometry == nil || candidate.Geometry == nil {
		return false
	}
	subjectGeom := subject.Geometry
	candidateGeom := candidate.Geometry

	if pt, ok := candidateGeom.(orb.Point); ok {
		if IsAreal(subjectGeom) {
			return PointInPolygon(pt, subjectGeom, false)
		}
		if IsLinear(subjectGeom) {
			return PointOnLine(pt, subjectGeom)
		}
		return false
	}
	if IsAreal(subjectGeom) && IsAreal(candidateGeom) {
		// Cheap reject before the exact interior test
		if !subjectGeom.Bound().Intersects(candidateGeom.Bound()) {
			return false
		}
		return PolygonInteriorsOverlap(subjectGeom, candidateGeom)
	}
	if IsAreal(subjectGeom) && IsLinear(candidateGeom) {
		return LineIntersectsPolygon(candidateGeom, subjectGeom)
	}
	if IsLinear(subjectGeom) && IsAreal(candidateGeom) {
		return LineIntersectsPolygon(subjectGeom, candidateGeom)
	}
	return false
}

// FindOverlapping returns the candidates overlapping the subject feature
func FindOverlapping(subject *geojson.Feature, candidates []*geojson.Feature) []*geojson.Feature {
	overlapping := []*geojson.Feature{}
	for _, candidate := range candidates {
		if featureOverlaps(subject, candidate) {
			overlapping = append(overlapping, candidate)
		}
	}
	return overlapping
}

// SplitOverlapping partitions the candidates into those overlapping the
// subject and those not. Every candidate ends up in exactly one of the two
// returned slices.
func SplitOverlapping(subject *geojson.Feature, candidates []*geojson.Feature) (overlapping, notOverlapping []*geojson.Feature) {
	overlapping = []*geojson.Feature{}
	notOverlapping = []*geojson.Feature{}
	for _, candidate := range candidates {
		if featureOverlaps(subject, candidate) {
			overlapping = append(overlapping, candidate)
		} else {
			notOverlapping = append(notOverlapping, candidate)
		}
	}
	return overlapping, notOverlapping
}

// NearestResult is the winning candidate of a nearest search with its
// distance from the subject in meters
type NearestResult struct {
	Feature  *geojson.Feature
	Distance float64
}

// FindNearest returns the candidate nearest to the subject's representative
// point, or nil when there is no candidate (or none within maxDistance, when
// maxDistance > 0). Distances are great-circle meters.
func FindNearest(subject *geojson.Feature, candidates []*geojson.Feature, maxDistance float64) *NearestResult {
	from, ok := RepresentativePoint(subject)
	if !ok {
		return nil
	}
	var best *NearestResult
	for _, candidate := range candidates {
		to, ok := RepresentativePoint(candidate)
		if !ok {
			continue
		}
		distance := DistanceMeters(from, to)
		if maxDistance > 0 && distance > maxDistance {
			continue
		}
		if best == nil || distance < best.Distance {
			best = &NearestResult{Feature: candidate, Distance: distance}
		}
	}
	return best
}
