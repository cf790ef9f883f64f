package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Node is one element of a flattened tree.
// It is always one of: nil, a predeclared scalar (string, bool, integer, float),
// []Node, *Map, or a terminal marker (a *Map built by NewMarker).
type Node = any

// Map is an insertion-ordered mapping from string keys to nodes.
// It marshals to JSON and YAML preserving key order.
type Map = orderedmap.OrderedMap[string, any]

// NewMap returns an empty ordered mapping.
func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// MarkerKind tags a terminal marker.
type MarkerKind string

const (
	MarkerMaxDepth    MarkerKind = "max_depth_reached"
	MarkerResource    MarkerKind = "resource_type"
	MarkerClosure     MarkerKind = "closure"
	MarkerDateTime    MarkerKind = "datetime"
	MarkerCircular    MarkerKind = "circular_reference"
	MarkerMaxItems    MarkerKind = "max_items_reached"
	MarkerUnsupported MarkerKind = "unsupported_type"
)

// KeyTimezone is the second key of a datetime marker.
const KeyTimezone = "timezone"

// AllMarkerKinds lists every marker tag, in a stable order.
var AllMarkerKinds = []MarkerKind{
	MarkerMaxDepth,
	MarkerResource,
	MarkerClosure,
	MarkerDateTime,
	MarkerCircular,
	MarkerMaxItems,
	MarkerUnsupported,
}

// NewMarker builds a single-key terminal marker.
func NewMarker(kind MarkerKind, payload any) *Map {
	m := NewMap()
	m.Set(string(kind), payload)
	return m
}

// NewDateTimeMarker builds the two-key datetime marker.
func NewDateTimeMarker(datetime, timezone string) *Map {
	m := NewMap()
	m.Set(string(MarkerDateTime), datetime)
	m.Set(KeyTimezone, timezone)
	return m
}

// MarkerOf reports the marker kind when n is a terminal marker.
func MarkerOf(n Node) (MarkerKind, bool) {
	m, ok := n.(*Map)
	if !ok || m == nil {
		return "", false
	}
	first := m.Oldest()
	if first == nil {
		return "", false
	}
	kind := MarkerKind(first.Key)
	switch {
	case kind == MarkerDateTime:
		if m.Len() != 2 {
			return "", false
		}
		if _, ok := m.Get(KeyTimezone); !ok {
			return "", false
		}
		return kind, true
	case m.Len() == 1 && kind.valid():
		return kind, true
	}
	return "", false
}

func (k MarkerKind) valid() bool {
	for _, known := range AllMarkerKinds {
		if k == known {
			return true
		}
	}
	return false
}
