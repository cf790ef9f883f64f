package flatten

import "github.com/aretw0/peek/pkg/domain"

// CountMarkers walks a flattened tree and counts its terminal markers by kind.
// A max_items_reached key appended to a mapping counts as a marker as well.
func CountMarkers(n domain.Node) map[domain.MarkerKind]int {
	counts := make(map[domain.MarkerKind]int)
	countMarkers(n, counts)
	return counts
}

func countMarkers(n domain.Node, counts map[domain.MarkerKind]int) {
	if kind, ok := domain.MarkerOf(n); ok {
		counts[kind]++
		return
	}
	switch t := n.(type) {
	case []domain.Node:
		for _, item := range t {
			countMarkers(item, counts)
		}
	case *domain.Map:
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key == string(domain.MarkerMaxItems) && pair.Next() == nil {
				if b, ok := pair.Value.(bool); ok && b {
					counts[domain.MarkerMaxItems]++
					continue
				}
			}
			countMarkers(pair.Value, counts)
		}
	}
}
