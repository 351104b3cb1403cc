package properties

import (
	"cmp"
	"encoding/json"
	"fmt"
	"path"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	jsonNumberType    = reflect.TypeFor[json.Number]()
)

// Reflected is the Property of a plain Go value, backed by package reflect.
type Reflected struct {
	Value any
}

var _ Property = Reflected{}

// Of returns the Property of v.
// Structs decompose into named fields (names taken from json tags, "-" skipped),
// slices and arrays into positional items and string keyed maps into named fields
// sorted by key. Types with their own JSON marshaling are opaque and snapshot to
// value.Raw; nil pointers, slices and maps snapshot to value.Unit.
func Of(v any) Property {
	if p, ok := v.(Property); ok {
		return p
	}
	return Reflected{Value: v}
}

func (r Reflected) TypeName() string {
	if r.Value == nil {
		return "()"
	}
	return TypeNameOf(reflect.TypeOf(r.Value))
}

func (r Reflected) AsProperties() (*DynamicProperties, bool) {
	rv, ok := indirect(reflect.ValueOf(r.Value))
	if !ok || isOpaque(rv.Type()) {
		return nil, false
	}
	name := TypeNameOf(rv.Type())

	switch rv.Kind() {
	case reflect.Struct:
		t := rv.Type()
		props := &DynamicProperties{Type: name, Kind: KindMap, Names: make([]string, 0, t.NumField()), Props: make([]Property, 0, t.NumField())}
		for i := range t.NumField() {
			field, ok := propertyName(t.Field(i))
			if !ok {
				continue
			}
			props.Names = append(props.Names, field)
			props.Props = append(props.Props, Of(rv.Field(i).Interface()))
		}
		return props, true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, false
		}
		props := &DynamicProperties{Type: name, Kind: KindSeq, Props: make([]Property, 0, rv.Len())}
		for i := range rv.Len() {
			props.Props = append(props.Props, Of(rv.Index(i).Interface()))
		}
		return props, true
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		keys := sortedKeys(rv)
		props := &DynamicProperties{Type: name, Kind: KindMap, Names: make([]string, 0, len(keys)), Props: make([]Property, 0, len(keys))}
		for _, k := range keys {
			props.Names = append(props.Names, k.String())
			props.Props = append(props.Props, Of(rv.MapIndex(k).Interface()))
		}
		return props, true
	default:
		return nil, false
	}
}

func (r Reflected) Snapshot() (value.Value, error) {
	return snapshot(reflect.ValueOf(r.Value))
}

// TypeNameOf returns the declared name of t.
// Named types are qualified with the last element of their package path,
// e.g. "demo.ComponentA". Unnamed slices and maps are rendered as Seq<T> and
// Map<K,V>, pointers as their element type.
func TypeNameOf(t reflect.Type) string {
	if t == nil {
		return "()"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return packageName(t.PkgPath()) + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "Seq<" + TypeNameOf(t.Elem()) + ">"
	case reflect.Map:
		return "Map<" + TypeNameOf(t.Key()) + "," + TypeNameOf(t.Elem()) + ">"
	case reflect.Interface:
		return "any"
	case reflect.Struct:
		return "struct"
	default:
		return t.Kind().String()
	}
}

func packageName(pkgPath string) string {
	base := []byte(path.Base(pkgPath))
	for i, c := range base {
		if c != '_' && (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			base[i] = '_'
		}
	}
	if len(base) > 0 && base[0] >= '0' && base[0] <= '9' {
		return "_" + string(base)
	}
	return string(base)
}

// propertyName returns the property name of a struct field and whether it takes part in reflection.
func propertyName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return f.Name, true
}

// indirect follows pointers and interfaces. It reports false for nil and invalid values.
func indirect(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return rv, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

func isOpaque(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || (t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(jsonMarshalerType))
}

func snapshot(rv reflect.Value) (value.Value, error) {
	rv, ok := indirect(rv)
	if !ok {
		return value.Unit{}, nil
	}
	t := rv.Type()
	if isOpaque(t) {
		return opaque(rv)
	}
	if t == jsonNumberType {
		return value.Number(rv.String()), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return value.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Number(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value.Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return value.Number(FormatFloat(rv.Float(), t.Bits())), nil
	case reflect.String:
		return value.String(rv.String()), nil
	case reflect.Struct:
		id, err := value.ParseIdentifier(TypeNameOf(t))
		if err != nil {
			return nil, err
		}
		fields := make([]value.Field, 0, t.NumField())
		for i := range t.NumField() {
			name, ok := propertyName(t.Field(i))
			if !ok {
				continue
			}
			v, err := snapshot(rv.Field(i))
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields = append(fields, value.Field{Name: name, Value: v})
		}
		return value.Struct{Type: id, Fields: fields}, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return value.Unit{}, nil
		}
		items := make(value.List, 0, rv.Len())
		for i := range rv.Len() {
			v, err := snapshot(rv.Index(i))
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, v)
		}
		return items, nil
	case reflect.Map:
		if rv.IsNil() {
			return value.Unit{}, nil
		}
		keys := sortedKeys(rv)
		if t.Key().Kind() == reflect.String {
			id, err := value.ParseIdentifier(TypeNameOf(t))
			if err != nil {
				return nil, err
			}
			fields := make([]value.Field, 0, len(keys))
			for _, k := range keys {
				v, err := snapshot(rv.MapIndex(k))
				if err != nil {
					return nil, fmt.Errorf("key %q: %w", k.String(), err)
				}
				fields = append(fields, value.Field{Name: k.String(), Value: v})
			}
			return value.Struct{Type: id, Fields: fields}, nil
		}
		entries := make(value.Map, 0, len(keys))
		for _, k := range keys {
			key, err := snapshot(k)
			if err != nil {
				return nil, fmt.Errorf("map key %v: %w", k, err)
			}
			v, err := snapshot(rv.MapIndex(k))
			if err != nil {
				return nil, fmt.Errorf("map key %v: %w", k, err)
			}
			entries = append(entries, value.Entry{Key: key, Value: v})
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("cannot snapshot value of kind %s", rv.Kind())
	}
}

func opaque(rv reflect.Value) (value.Value, error) {
	v := rv.Interface()
	if rv.Kind() != reflect.Pointer && !rv.Type().Implements(jsonMarshalerType) {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		v = ptr.Interface()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", TypeNameOf(rv.Type()), err)
	}
	return value.NewRaw(data)
}

// FormatFloat renders f in its shortest form for the given bit size.
// Integral values keep a trailing ".0" so that they read back as floats.
func FormatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.IndexFunc(s, func(r rune) bool { return r != '-' && (r < '0' || r > '9') }) < 0 {
		s += ".0"
	}
	return s
}

func sortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b reflect.Value) int {
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}
	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	default:
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	}
}
