package osm2poi

import (
	"fmt"
	"strconv"
	"strings"
)

type ElementType string

const (
	ElementNode     = ElementType("node")
	ElementWay      = ElementType("way")
	ElementRelation = ElementType("relation")
)

// Tags is a multi-valued OSM tag map. Values are split on ';' when elements
// are loaded, so `amenity=retirement_home;social_facility` gives two values
// for the key `amenity`.
type Tags map[string][]string

// Has reports whether the key is present at all
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// First returns first value for given key (or empty string)
func (t Tags) First(key string) string {
	values := t[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Contains reports whether any value of the key equals the given value
func (t Tags) Contains(key, value string) bool {
	for _, v := range t[key] {
		if v == value {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any value of the key is in the given set
func (t Tags) ContainsAny(key string, values []string) bool {
	for _, v := range t[key] {
		for _, needle := range values {
			if v == needle {
				return true
			}
		}
	}
	return false
}

// Join returns the ';'-joined original form of the tag value
func (t Tags) Join(key string) string {
	return strings.Join(t[key], ";")
}

// SplitTagValue splits a raw OSM tag value into its ';'-separated parts
func SplitTagValue(value string) []string {
	return strings.Split(value, ";")
}

// Member is a member of an OSM relation
type Member struct {
	Type ElementType
	Ref  int64
	Role string
}

// RawElement is one tagged OSM primitive: a node, way or relation. Which
// fields are meaningful depends on Type: nodes carry Lon/Lat, ways carry the
// ordered node ID sequence, relations carry members.
type RawElement struct {
	Type    ElementType
	ID      int64
	Tags    Tags
	Lon     float64
	Lat     float64
	Nodes   []int64
	Members []Member
}

// FeatureID returns the cross-reference key shared with the GeoJSON
// projection, e.g. "way/123456"
func (e *RawElement) FeatureID() string {
	return fmt.Sprintf("%s/%d", e.Type, e.ID)
}

// ParseFeatureID splits a "<type>/<id>" reference into its parts
func ParseFeatureID(featureID string) (ElementType, int64, bool) {
	parts := strings.SplitN(featureID, "/", 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	elementType := ElementType(parts[0])
	if elementType != ElementNode && elementType != ElementWay && elementType != ElementRelation {
		return "", 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return elementType, id, true
}

// IsMultipolygon reports whether the element is a multipolygon relation
func (e *RawElement) IsMultipolygon() bool {
	return e.Type == ElementRelation && e.Tags.Contains("type", "multipolygon")
}

// HasEntranceTag reports whether the element carries any entrance tagging
func (e *RawElement) HasEntranceTag() bool {
	return e.Tags.Has("entrance") || e.Tags.Has("routing:entrance")
}

// TagQuery is one tag predicate: every listed key must be present and, for
// non-empty values, one of the element's values for that key must match. An
// empty value means "key is present, whatever the value".
type TagQuery map[string]string

// Matches checks the predicate against a tag map
func (q TagQuery) Matches(tags Tags) bool {
	if len(tags) == 0 {
		return len(q) == 0
	}
	for key, value := range q {
		if value == "" {
			if !tags.Has(key) {
				return false
			}
			continue
		}
		if !tags.Contains(key, value) {
			return false
		}
	}
	return true
}

// MatchesProperties checks the predicate against geojson feature properties,
// where tag values are kept in their raw ';'-joined form
func (q TagQuery) MatchesProperties(properties map[string]interface{}) bool {
	for key, value := range q {
		raw, ok := properties[key]
		if !ok {
			return false
		}
		str, ok := raw.(string)
		if !ok {
			return false
		}
		if value == "" {
			continue
		}
		found := false
		for _, v := range SplitTagValue(str) {
			if v == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchesAny reports whether any of the given predicates matches the tags
func MatchesAny(queries []TagQuery, tags Tags) bool {
	for _, q := range queries {
		if q.Matches(tags) {
			return true
		}
	}
	return false
}
