package transport

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/ports"
)

// RedactedValue replaces the value of every redacted key.
const RedactedValue = "***"

// DefaultRedactPatterns match the keys most often holding secrets.
var DefaultRedactPatterns = []string{`(?i)passw(or)?d`, `(?i)secret`, `(?i)token`, `(?i)^authorization$`, `(?i)api_?key`}

type redactor struct {
	next     ports.Transport
	patterns []*regexp.Regexp
}

// Redact wraps next so that values of mapping keys matching any of the
// patterns are masked before emission. The tree given to Emit is not modified.
func Redact(next ports.Transport, patternStrings ...string) (ports.Transport, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return &redactor{next: next, patterns: patterns}, nil
}

func (r *redactor) Emit(ctx context.Context, label string, node domain.Node) error {
	return r.next.Emit(ctx, label, r.mask(node))
}

// mask copies the containers on the way down so the caller's tree is untouched.
func (r *redactor) mask(n domain.Node) domain.Node {
	switch v := n.(type) {
	case *domain.Map:
		if _, isMarker := domain.MarkerOf(v); isMarker {
			return v
		}
		out := domain.NewMap()
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			if r.matches(pair.Key) {
				out.Set(pair.Key, RedactedValue)
				continue
			}
			out.Set(pair.Key, r.mask(pair.Value))
		}
		return out
	case []domain.Node:
		out := make([]domain.Node, len(v))
		for i, item := range v {
			out[i] = r.mask(item)
		}
		return out
	}
	return n
}

func (r *redactor) matches(key string) bool {
	for _, p := range r.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
