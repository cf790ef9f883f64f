package flatten

import (
	"io"
	"math"
	"reflect"
	"strconv"
	"time"
	"unsafe"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	closerType  = reflect.TypeOf((*io.Closer)(nil)).Elem()
	fielderType = reflect.TypeOf((*DebugFielder)(nil)).Elem()
	bytesType   = reflect.TypeOf([]byte(nil))
)

// basicTypes maps a scalar kind to its predeclared type.
var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Bool:    reflect.TypeOf(false),
	reflect.Int:     reflect.TypeOf(int(0)),
	reflect.Int8:    reflect.TypeOf(int8(0)),
	reflect.Int16:   reflect.TypeOf(int16(0)),
	reflect.Int32:   reflect.TypeOf(int32(0)),
	reflect.Int64:   reflect.TypeOf(int64(0)),
	reflect.Uint:    reflect.TypeOf(uint(0)),
	reflect.Uint8:   reflect.TypeOf(uint8(0)),
	reflect.Uint16:  reflect.TypeOf(uint16(0)),
	reflect.Uint32:  reflect.TypeOf(uint32(0)),
	reflect.Uint64:  reflect.TypeOf(uint64(0)),
	reflect.Uintptr: reflect.TypeOf(uintptr(0)),
	reflect.Float32: reflect.TypeOf(float32(0)),
	reflect.Float64: reflect.TypeOf(float64(0)),
	reflect.String:  reflect.TypeOf(""),
}

// kind is the closed set of value categories the walk dispatches on.
type kind int

const (
	kindNil kind = iota
	kindScalar
	kindResource
	kindCallable
	kindDateTime
	kindPointer
	kindAggregate
	kindSequence
	kindMapping
	kindUnsupported
)

func (f *Flattener) classify(v reflect.Value) kind {
	if !v.IsValid() {
		return kindNil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		if v.IsNil() {
			return kindNil
		}
	}
	if f.isResource(v) {
		return kindResource
	}
	switch v.Kind() {
	case reflect.Func:
		return kindCallable
	case reflect.Struct:
		if v.Type() == timeType {
			return kindDateTime
		}
		return kindAggregate
	case reflect.Pointer:
		return kindPointer
	case reflect.Slice, reflect.Array, reflect.Map:
		if _, ok := asFielder(v); ok {
			return kindAggregate
		}
		if v.Kind() == reflect.Map {
			return kindMapping
		}
		return kindSequence
	case reflect.Complex64, reflect.Complex128:
		return kindScalar
	}
	if _, ok := basicTypes[v.Kind()]; ok {
		return kindScalar
	}
	return kindUnsupported
}

func (f *Flattener) isResource(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Chan, reflect.UnsafePointer:
		return true
	}
	t := v.Type()
	if _, ok := f.resources[t]; ok {
		return true
	}
	return f.closerIsResource && t.Implements(closerType)
}

// scalar converts a scalar value to its predeclared type so named types
// (type Status int) do not leak their methods into the output. NaN and
// infinities have no JSON form and become "NaN", "+Inf" and "-Inf".
func scalar(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64)
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	}
	if v.Type().PkgPath() == "" && v.CanInterface() {
		return v.Interface()
	}
	out := reflect.New(basicTypes[v.Kind()]).Elem()
	switch v.Kind() {
	case reflect.Bool:
		out.SetBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		out.SetUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		out.SetFloat(v.Float())
	case reflect.String:
		out.SetString(v.String())
	}
	return out.Interface()
}

// expose returns a view of v that can be passed to Interface, even when v was
// reached through an unexported field. Only addressable values can be exposed.
func expose(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// addressable copies non-addressable structs and arrays so their unexported
// members can be exposed in turn.
func addressable(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.CanAddr() || !v.CanInterface() {
		return v
	}
	switch v.Kind() {
	case reflect.Struct, reflect.Array:
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		return c
	}
	return v
}

// typeName is the display name of a type in markers.
func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}

// formatTime renders a date-time as RFC 3339 and its zone as a name or a numeric offset.
// The process-local location reports its zone abbreviation rather than "Local".
func formatTime(t time.Time) (string, string) {
	zone := t.Location().String()
	if t.Location() == time.Local {
		zone, _ = t.Zone()
	}
	if zone == "" {
		zone = t.Format("-07:00")
	}
	return t.Format(time.RFC3339Nano), zone
}
