package flatten

import (
	"cmp"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/domain"
)

// Flattener converts values into bounded domain.Node trees.
// It holds configuration only and is safe for concurrent use.
type Flattener struct {
	maxDepth         int
	maxItems         int
	policy           CyclePolicy
	resources        map[reflect.Type]struct{}
	closerIsResource bool
	logger           *slog.Logger
}

// New creates a Flattener with the default bounds (depth 10, 100 items, SeenOnce).
func New(opts ...Option) *Flattener {
	f := &Flattener{
		maxDepth:         domain.DefaultMaxDepth,
		maxItems:         domain.DefaultMaxItems,
		policy:           SeenOnce,
		resources:        make(map[reflect.Type]struct{}),
		closerIsResource: true,
		logger:           logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var defaultFlattener = New()

// Flatten converts value with the default Flattener.
func Flatten(value any) domain.Node {
	return defaultFlattener.Flatten(value)
}

// MaxDepth returns the configured depth bound.
func (f *Flattener) MaxDepth() int { return f.maxDepth }

// MaxItems returns the configured width bound.
func (f *Flattener) MaxItems() int { return f.maxItems }

// Policy returns the configured cycle policy.
func (f *Flattener) Policy() CyclePolicy { return f.policy }

// Flatten converts value using a fresh traversal state.
func (f *Flattener) Flatten(value any) domain.Node {
	return f.FlattenWith(value, NewState())
}

// FlattenWith converts value threading the given state. A nil state is replaced by a fresh one.
func (f *Flattener) FlattenWith(value any, st *State) domain.Node {
	if st == nil {
		st = NewState()
	}
	return f.walk(reflect.ValueOf(value), st)
}

func (f *Flattener) walk(v reflect.Value, st *State) (out domain.Node) {
	depth := st.depth
	var entered *identity
	defer func() {
		if r := recover(); r != nil {
			st.depth = depth
			if entered != nil && f.policy == AncestorsOnly {
				st.leave(*entered)
			}
			name := "unknown"
			if v.IsValid() {
				name = typeName(v.Type())
			}
			f.logger.Debug("value could not be flattened", "type", name, "panic", fmt.Sprint(r))
			out = domain.NewMarker(domain.MarkerUnsupported, name)
		}
	}()

	if st.depth > f.maxDepth {
		return domain.NewMarker(domain.MarkerMaxDepth, true)
	}

	v = addressable(expose(v))
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = addressable(expose(v.Elem()))
	}

	switch f.classify(v) {
	case kindNil:
		return nil

	case kindResource:
		return domain.NewMarker(domain.MarkerResource, typeName(v.Type()))

	case kindCallable:
		return domain.NewMarker(domain.MarkerClosure, domain.ClosureDescription)

	case kindDateTime:
		if !v.CanInterface() {
			return f.aggregate(v, st)
		}
		return domain.NewDateTimeMarker(formatTime(v.Interface().(time.Time)))

	case kindPointer:
		if !f.tracksIdentity(v) {
			return f.walk(v.Elem(), st)
		}
		id := identity{typ: v.Type().Elem(), addr: v.Pointer()}
		if st.seen(id) {
			return domain.NewMarker(domain.MarkerCircular, typeName(id.typ))
		}
		st.enter(id)
		entered = &id
		if f.isAggregatePointer(v) {
			out = f.aggregate(v, st)
		} else {
			out = f.walk(v.Elem(), st)
		}
		if f.policy == AncestorsOnly {
			st.leave(id)
		}
		return out

	case kindAggregate:
		return f.aggregate(v, st)

	case kindSequence:
		if isBytes(v.Type()) {
			return bytesNode(v.Bytes())
		}
		return f.sequence(v, st)

	case kindMapping:
		return f.mapping(v, st)

	case kindScalar:
		return scalar(v)
	}

	return domain.NewMarker(domain.MarkerUnsupported, typeName(v.Type()))
}

// tracksIdentity reports whether a pointer takes part in cycle detection: pointers
// to aggregates, and pointers to pointers or interfaces, which can loop without
// ever entering a composite. Pointers to scalars, slices, maps and times are
// followed transparently.
func (f *Flattener) tracksIdentity(v reflect.Value) bool {
	if f.isAggregatePointer(v) {
		return true
	}
	switch v.Type().Elem().Kind() {
	case reflect.Pointer, reflect.Interface:
		return true
	}
	return false
}

// isAggregatePointer reports whether a non-nil pointer expands as the aggregate it
// points to. Pointers to other kinds are followed transparently.
func (f *Flattener) isAggregatePointer(v reflect.Value) bool {
	if _, ok := asFielder(v); ok {
		return true
	}
	elem := v.Type().Elem()
	return elem.Kind() == reflect.Struct && elem != timeType
}

func (f *Flattener) aggregate(v reflect.Value, st *State) domain.Node {
	st.depth++
	out := domain.NewMap()
	for _, m := range members(v) {
		out.Set(m.name, f.walk(m.value, st))
	}
	st.depth--
	return out
}

func (f *Flattener) sequence(v reflect.Value, st *State) domain.Node {
	n := v.Len()
	keep := min(n, f.maxItems)

	st.depth++
	out := make([]domain.Node, 0, keep+1)
	for i := 0; i < keep; i++ {
		out = append(out, f.walk(v.Index(i), st))
	}
	st.depth--

	if n > f.maxItems {
		out = append(out, domain.NewMarker(domain.MarkerMaxItems, true))
	}
	return out
}

func (f *Flattener) mapping(v reflect.Value, st *State) domain.Node {
	keys := sortedKeys(v.MapKeys())
	keep := min(len(keys), f.maxItems)

	st.depth++
	out := domain.NewMap()
	for _, k := range keys[:keep] {
		out.Set(k.name, f.walk(v.MapIndex(k.value), st))
	}
	st.depth--

	if len(keys) > f.maxItems {
		// A kept key with the marker's name gives way so the marker stays last.
		out.Delete(string(domain.MarkerMaxItems))
		out.Set(string(domain.MarkerMaxItems), true)
	}
	return out
}

type mapKey struct {
	name  string
	value reflect.Value
}

// sortedKeys stringifies map keys and orders them: numerically for numeric
// keys, lexically otherwise. Go maps have no insertion order to preserve.
func sortedKeys(keys []reflect.Value) []mapKey {
	out := make([]mapKey, len(keys))
	for i, k := range keys {
		out[i] = mapKey{name: keyString(k), value: k}
	}
	slices.SortStableFunc(out, func(a, b mapKey) int {
		ak, bk := a.value.Kind(), b.value.Kind()
		switch {
		case isInt(ak) && isInt(bk):
			return cmp.Compare(a.value.Int(), b.value.Int())
		case isUint(ak) && isUint(bk):
			return cmp.Compare(a.value.Uint(), b.value.Uint())
		case isFloat(ak) && isFloat(bk):
			return cmp.Compare(a.value.Float(), b.value.Float())
		}
		return cmp.Compare(a.name, b.name)
	})
	return out
}

func keyString(k reflect.Value) string {
	k = expose(k)
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k)
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isBytes(t reflect.Type) bool {
	return t == bytesType || (t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && t.Elem().PkgPath() == "")
}

// bytesNode renders a byte slice as text when it is valid UTF-8, as hex otherwise.
func bytesNode(b []byte) domain.Node {
	if utf8.Valid(b) {
		return string(b)
	}
	return fmt.Sprintf("%x", b)
}
