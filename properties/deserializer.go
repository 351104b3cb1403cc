package properties

import (
	"encoding/json"
	"fmt"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

// Deserializer is a read-only view over one node of a value tree.
type Deserializer struct {
	node value.Value
}

func NewDeserializer(v value.Value) *Deserializer {
	return &Deserializer{node: v}
}

// Value returns the node the deserializer points at.
func (d *Deserializer) Value() value.Value {
	return d.node
}

// Native converts the node into a tree of plain Go values:
// numbers become json.Number, lists and tuples []any, maps map[any]any and
// Unit nil. Raw leaves are kept as they are.
func (d *Deserializer) Native() (any, error) {
	return toNative(d.node)
}

// structNative is the native form of a Struct node. The type name is kept so
// that interface targets can be resolved through the registry.
type structNative struct {
	typ    string
	fields map[string]any
}

func toNative(v value.Value) (any, error) {
	switch v := v.(type) {
	case value.Struct:
		fields := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			if _, dup := fields[f.Name]; dup {
				return nil, fmt.Errorf("duplicate field %q in %s", f.Name, v.Type)
			}
			native, err := toNative(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			fields[f.Name] = native
		}
		return structNative{typ: v.Type.String(), fields: fields}, nil
	case value.TupleStruct:
		return sliceToNative(v.Items)
	case value.Tuple:
		return sliceToNative(v)
	case value.List:
		return sliceToNative(v)
	case value.Map:
		m := make(map[any]any, len(v))
		for _, e := range v {
			var key any
			switch k := e.Key.(type) {
			case value.String:
				key = string(k)
			case value.Number:
				key = json.Number(k)
			case value.Bool:
				key = bool(k)
			default:
				return nil, fmt.Errorf("unsupported map key %s", e.Key)
			}
			native, err := toNative(e.Value)
			if err != nil {
				return nil, fmt.Errorf("map key %s: %w", e.Key, err)
			}
			m[key] = native
		}
		return m, nil
	case value.Number:
		return json.Number(v), nil
	case value.String:
		return string(v), nil
	case value.Bool:
		return bool(v), nil
	case value.Unit:
		return nil, nil
	case value.Raw:
		return v, nil
	case nil:
		return nil, fmt.Errorf("missing value")
	default:
		return nil, fmt.Errorf("unsupported value %T", v)
	}
}

func sliceToNative(items []value.Value) ([]any, error) {
	out := make([]any, 0, len(items))
	for i, item := range items {
		native, err := toNative(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, native)
	}
	return out, nil
}

// propertiesToNative converts a property tree into the native form DecodeNative accepts.
// Reflected properties contribute their Go value as is.
func propertiesToNative(p Property, reg *Registry) (any, error) {
	switch p := p.(type) {
	case nil:
		return nil, nil
	case Reflected:
		return p.Value, nil
	case *DynamicProperties:
		switch p.Kind {
		case KindMap:
			if len(p.Names) != len(p.Props) {
				return nil, fmt.Errorf("%s has %d field names but %d values", p.Type, len(p.Names), len(p.Props))
			}
			fields := make(map[string]any, len(p.Names))
			for i, name := range p.Names {
				native, err := propertiesToNative(p.Props[i], reg)
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", name, err)
				}
				fields[name] = native
			}
			if registration, ok := reg.Lookup(p.Type); ok {
				return structNative{typ: registration.Name, fields: fields}, nil
			}
			return fields, nil
		case KindSeq:
			items := make([]any, 0, len(p.Props))
			for i, child := range p.Props {
				native, err := propertiesToNative(child, reg)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				items = append(items, native)
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unsupported property kind %s of %s", p.Kind, p.Type)
		}
	default:
		snapshot, err := p.Snapshot()
		if err != nil {
			return nil, err
		}
		return toNative(snapshot)
	}
}
