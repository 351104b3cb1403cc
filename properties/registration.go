package properties

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

var (
	rawType             = reflect.TypeFor[value.Raw]()
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
)

// Registration holds what is needed to reconstruct values of one type.
type Registration struct {
	// Name is the canonical type name used as identifier in value trees.
	Name    string
	Aliases []string
	Type    reflect.Type
}

func (r *Registration) String() string {
	return r.Name
}

// New returns a pointer to a new zero value of the registered type.
func (r *Registration) New() any {
	return reflect.New(r.Type).Interface()
}

// Field returns the registration of the named field.
// For string keyed maps every name resolves to the element type.
func (r *Registration) Field(name string) (*Registration, error) {
	t := r.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if n, ok := propertyName(f); ok && n == name {
				return &Registration{Name: TypeNameOf(f.Type), Type: f.Type}, nil
			}
		}
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return &Registration{Name: TypeNameOf(t.Elem()), Type: t.Elem()}, nil
		}
	}
	return nil, fmt.Errorf("type %s has no field %q", r.Name, name)
}

// Deserialize reconstructs a property of the registered type from the value node
// the deserializer points at.
func (r *Registration) Deserialize(d *Deserializer, reg *Registry) (Property, error) {
	native, err := d.Native()
	if err != nil {
		return nil, err
	}
	decoded, err := r.DecodeNative(native, reg)
	if err != nil {
		return nil, err
	}
	return Of(decoded), nil
}

// FromProperties materializes a value of the registered type from a property container.
func (r *Registration) FromProperties(props *DynamicProperties, reg *Registry) (any, error) {
	native, err := propertiesToNative(props, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to convert properties of %s: %w", r.Name, err)
	}
	return r.DecodeNative(native, reg)
}

// DecodeNative decodes a native tree (maps, slices and leaves as produced by
// Deserializer.Native) into a new value of the registered type.
// Unknown fields are an error.
func (r *Registration) DecodeNative(native any, reg *Registry) (any, error) {
	target := reflect.New(r.Type)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  decodeHook(reg),
		ErrorUnused: true,
		TagName:     "json",
		Result:      target.Interface(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder for %s: %w", r.Name, err)
	}
	if err := decoder.Decode(native); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.Name, err)
	}
	return target.Elem().Interface(), nil
}

// decodeHook converts the leaves of a native tree into the exact target types.
// Pointer targets are skipped, the hook runs again for their element.
// Targets with their own JSON marshaling receive the JSON form of the data.
func decodeHook(reg *Registry) mapstructure.DecodeHookFuncValue {
	return func(from reflect.Value, to reflect.Value) (any, error) {
		data := from.Interface()
		if to.Kind() == reflect.Pointer {
			return data, nil
		}
		switch data := data.(type) {
		case value.Raw:
			return decodeRaw(data, to.Type())
		case structNative:
			return decodeStruct(data, to.Type(), reg)
		}
		if from.Type() != to.Type() && isOpaque(to.Type()) && reflect.PointerTo(to.Type()).Implements(jsonUnmarshalerType) {
			encoded, err := json.Marshal(data)
			if err != nil {
				return nil, fmt.Errorf("cannot marshal %T for %s: %w", data, to.Type(), err)
			}
			raw, err := value.NewRaw(encoded)
			if err != nil {
				return nil, err
			}
			return decodeRaw(raw, to.Type())
		}
		switch data := data.(type) {
		case json.Number:
			return parseNumber(data, to.Type())
		case string:
			// object keys of JSON documents are strings
			if isNumeric(to.Kind()) {
				return parseNumber(json.Number(data), to.Type())
			}
		}
		return data, nil
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func parseNumber(n json.Number, t reflect.Type) (any, error) {
	var parsed any
	var err error
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		parsed, err = strconv.ParseFloat(string(n), t.Bits())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err = strconv.ParseInt(string(n), 10, t.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		parsed, err = strconv.ParseUint(string(n), 10, t.Bits())
	default:
		return n, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as %s: %w", string(n), t, err)
	}
	return reflect.ValueOf(parsed).Convert(t).Interface(), nil
}

func decodeRaw(raw value.Raw, t reflect.Type) (any, error) {
	if t.Kind() == reflect.Interface || t == rawType {
		return raw, nil
	}
	ptr := reflect.New(t)
	if err := json.Unmarshal(raw.Data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("cannot unmarshal %s into %s: %w", raw, t, err)
	}
	return ptr.Elem().Interface(), nil
}

func decodeStruct(native structNative, t reflect.Type, reg *Registry) (any, error) {
	if t.Kind() != reflect.Interface || native.typ == "" {
		return native.fields, nil
	}
	registration, err := reg.Resolve(native.typ)
	if err != nil {
		return nil, err
	}
	decoded, err := registration.DecodeNative(native, reg)
	if err != nil {
		return nil, err
	}
	if !reflect.TypeOf(decoded).AssignableTo(t) {
		return nil, fmt.Errorf("%s is not assignable to %s", registration.Name, t)
	}
	return decoded, nil
}
