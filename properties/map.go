package properties

import (
	"encoding/json"
	"fmt"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

// TypeKey is the map entry that names the registration a map is decoded against.
const TypeKey = "type"

// GenericMapType and GenericSeqType name containers decoded without a registration.
const (
	GenericMapType = "Map"
	GenericSeqType = "Seq"
)

// MapDeserializer decodes Map nodes, which carry no declared struct shape, into
// named-field containers.
//
// If the map has a string entry under TypeKey, the named registration drives the
// decoding of every other entry. Otherwise entries are decoded structurally into
// generic containers and plain values.
type MapDeserializer struct {
	registry *Registry
}

func NewMapDeserializer(reg *Registry) *MapDeserializer {
	return &MapDeserializer{registry: reg}
}

func (m *MapDeserializer) Deserialize(d *Deserializer) (*DynamicProperties, error) {
	entries, ok := d.Value().(value.Map)
	if !ok {
		return nil, fmt.Errorf("expected map, found %s", d.Value())
	}

	var registration *Registration
	for _, e := range entries {
		if key, ok := e.Key.(value.String); ok && string(key) == TypeKey {
			name, ok := e.Value.(value.String)
			if !ok {
				return nil, fmt.Errorf("map entry %q must be a string, found %s", TypeKey, e.Value)
			}
			var err error
			if registration, err = m.registry.Resolve(string(name)); err != nil {
				return nil, err
			}
			break
		}
	}

	typeName := GenericMapType
	if registration != nil {
		typeName = registration.Name
	}
	props := NewMap(typeName)
	for _, e := range entries {
		key, err := mapKey(e.Key)
		if err != nil {
			return nil, err
		}
		if registration != nil && key == TypeKey {
			continue
		}
		var prop Property
		if registration != nil {
			field, err := registration.Field(key)
			if err != nil {
				return nil, err
			}
			if prop, err = field.Deserialize(NewDeserializer(e.Value), m.registry); err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
		} else if prop, err = m.generic(e.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		props.Set(key, prop)
	}
	return props, nil
}

// generic decodes a node without a target type.
// Struct nodes still resolve their declared type through the registry.
func (m *MapDeserializer) generic(v value.Value) (Property, error) {
	switch v := v.(type) {
	case value.Map:
		return m.Deserialize(NewDeserializer(v))
	case value.List:
		return m.genericSeq(v)
	case value.Tuple:
		return m.genericSeq(v)
	case value.Struct:
		registration, err := m.registry.Resolve(v.Type.String())
		if err != nil {
			return nil, err
		}
		return registration.Deserialize(NewDeserializer(v), m.registry)
	case value.Number:
		return Of(json.Number(v)), nil
	case value.String:
		return Of(string(v)), nil
	case value.Bool:
		return Of(bool(v)), nil
	case value.Unit:
		return Of(nil), nil
	case value.Raw:
		return Of(v), nil
	default:
		return nil, fmt.Errorf("cannot decode %s without a type", v)
	}
}

func (m *MapDeserializer) genericSeq(items []value.Value) (*DynamicProperties, error) {
	props := NewSeq(GenericSeqType)
	for i, item := range items {
		prop, err := m.generic(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		props.Push(prop)
	}
	return props, nil
}

func mapKey(k value.Value) (string, error) {
	switch k := k.(type) {
	case value.String:
		return string(k), nil
	case value.Number:
		return string(k), nil
	default:
		return "", fmt.Errorf("unsupported map key %s", k)
	}
}
