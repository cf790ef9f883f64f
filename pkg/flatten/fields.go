package flatten

import "reflect"

// Field is one named member reported by a DebugFielder.
type Field struct {
	Name  string
	Value any
}

// DebugFielder lets a type enumerate its own members instead of being read
// through reflection. The fields are flattened in the order returned. Named
// struct, slice, array and map types are all honoured.
type DebugFielder interface {
	DebugFields() []Field
}

type member struct {
	name  string
	value reflect.Value
}

// members lists the members of an aggregate: its DebugFields when the type (or
// its address) implements DebugFielder, every struct field otherwise.
func members(v reflect.Value) []member {
	if fielder, ok := asFielder(v); ok {
		fields := fielder.DebugFields()
		out := make([]member, 0, len(fields))
		for _, fd := range fields {
			out = append(out, member{name: fd.Name, value: reflect.ValueOf(fd.Value)})
		}
		return out
	}

	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	out := make([]member, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Name == "_" {
			continue
		}
		out = append(out, member{name: sf.Name, value: v.Field(i)})
	}
	return out
}

func asFielder(v reflect.Value) (DebugFielder, bool) {
	if v.CanInterface() && v.Type().Implements(fielderType) {
		fielder, ok := v.Interface().(DebugFielder)
		return fielder, ok
	}
	if v.Kind() != reflect.Pointer && v.CanAddr() {
		p := expose(v).Addr()
		if p.CanInterface() && p.Type().Implements(fielderType) {
			fielder, ok := p.Interface().(DebugFielder)
			return fielder, ok
		}
	}
	return nil, false
}
