package flatten

import (
	"log/slog"
	"reflect"
)

// CyclePolicy decides which previously seen aggregates are reported as circular.
type CyclePolicy int

const (
	// SeenOnce reports every aggregate already entered during the call as circular,
	// including one that is merely shared by two siblings. The first occurrence wins.
	SeenOnce CyclePolicy = iota

	// AncestorsOnly reports an aggregate as circular only while it is on the current
	// path from the root, so shared non-cyclic references expand at each occurrence.
	AncestorsOnly
)

// String returns the policy name used in configuration files.
func (p CyclePolicy) String() string {
	switch p {
	case SeenOnce:
		return "seen_once"
	case AncestorsOnly:
		return "ancestors_only"
	default:
		return "unknown"
	}
}

// ParseCyclePolicy maps a configuration name to a policy.
func ParseCyclePolicy(name string) (CyclePolicy, bool) {
	switch name {
	case "", "seen_once":
		return SeenOnce, true
	case "ancestors_only":
		return AncestorsOnly, true
	}
	return SeenOnce, false
}

// Option configures a Flattener.
type Option func(*Flattener)

// WithMaxDepth sets the deepest nesting level that is still expanded.
// Values below zero are ignored.
func WithMaxDepth(depth int) Option {
	return func(f *Flattener) {
		if depth >= 0 {
			f.maxDepth = depth
		}
	}
}

// WithMaxItems sets how many elements of a sequence or mapping are kept.
// Values below one are ignored.
func WithMaxItems(items int) Option {
	return func(f *Flattener) {
		if items > 0 {
			f.maxItems = items
		}
	}
}

// WithCyclePolicy selects how shared references are reported.
func WithCyclePolicy(policy CyclePolicy) Option {
	return func(f *Flattener) {
		f.policy = policy
	}
}

// WithResourceTypes registers extra types that are treated as opaque handles.
func WithResourceTypes(types ...reflect.Type) Option {
	return func(f *Flattener) {
		for _, t := range types {
			if t != nil {
				f.resources[t] = struct{}{}
			}
		}
	}
}

// WithCloserAsResource controls whether any io.Closer is treated as a handle (default true).
func WithCloserAsResource(enabled bool) Option {
	return func(f *Flattener) {
		f.closerIsResource = enabled
	}
}

// WithLogger sets the logger used to report values that could not be introspected.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flattener) {
		if logger != nil {
			f.logger = logger
		}
	}
}
