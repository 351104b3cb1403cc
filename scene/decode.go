package scene

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/value"
)

// Decode reconstructs a scene from a List of entity records.
// Decoding is a single pass; the first error or a cancelled context aborts the whole call.
// Unlike Encode, decoding requires a registry.
func Decode(ctx context.Context, reg *properties.Registry, v value.Value) (*Scene, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	list, ok := v.(value.List)
	if !ok {
		return nil, fmt.Errorf("%w: expected entity list, found %s", ErrStructuralMismatch, describe(v))
	}
	slog.DebugContext(ctx, "decoding scene", "entities", len(list))

	s := &Scene{Entities: make([]Entity, 0, len(list))}
	for i, item := range list {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := DecodeEntity(ctx, reg, item)
		if err != nil {
			return nil, fmt.Errorf("entity record %d: %w", i, err)
		}
		s.Entities = append(s.Entities, e)
	}
	return s, nil
}

// DecodeEntity reconstructs an entity from a two element record holding the
// identifier and the list of components. Both a plain Tuple and an Entity
// TupleStruct are accepted.
func DecodeEntity(ctx context.Context, reg *properties.Registry, v value.Value) (Entity, error) {
	var items []value.Value
	switch v := v.(type) {
	case value.Tuple:
		items = v
	case value.TupleStruct:
		if v.Type.Equal(entityType) {
			items = v.Items
		}
	}
	if len(items) != 2 {
		return Entity{}, fmt.Errorf("%w: expected entity, found %s", ErrStructuralMismatch, describe(v))
	}

	number, ok := items[0].(value.Number)
	if !ok {
		return Entity{}, fmt.Errorf("%w: expected entity identifier, found %s", ErrStructuralMismatch, describe(items[0]))
	}
	id, err := strconv.ParseUint(string(number), 10, 64)
	if err != nil {
		return Entity{}, fmt.Errorf("%w: invalid entity identifier %s: %w", ErrStructuralMismatch, number, err)
	}
	list, ok := items[1].(value.List)
	if !ok {
		return Entity{}, fmt.Errorf("%w: expected component list, found %s", ErrStructuralMismatch, describe(items[1]))
	}

	components := make([]*properties.DynamicProperties, 0, len(list))
	for _, c := range list {
		props, err := DecodeDynamic(ctx, reg, c)
		if err != nil {
			return Entity{}, fmt.Errorf("entity %d: %w", id, err)
		}
		components = append(components, props)
	}
	return Entity{ID: id, Components: components}, nil
}

// DecodeDynamic reconstructs a property container from a Struct, whose type is
// resolved through the registry, or from a Map, which is decoded by a
// properties.MapDeserializer.
func DecodeDynamic(ctx context.Context, reg *properties.Registry, v value.Value) (*properties.DynamicProperties, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	switch v := v.(type) {
	case value.Map:
		props, err := properties.NewMapDeserializer(reg).Deserialize(properties.NewDeserializer(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDeserialize, err)
		}
		return props, nil
	case value.Struct:
		registration, err := reg.Resolve(v.Type.String())
		if err != nil {
			return nil, err
		}
		props := properties.NewMap(registration.Name)
		for _, f := range v.Fields {
			if _, exists := props.Get(f.Name); exists {
				return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateField, f.Name, v.Type)
			}
			field, err := registration.Field(f.Name)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDeserialize, err)
			}
			prop, err := DecodeProperty(ctx, reg, f.Value, field)
			if err != nil {
				return nil, fmt.Errorf("field %q of %s: %w", f.Name, registration.Name, err)
			}
			props.Set(f.Name, prop)
		}
		return props, nil
	default:
		return nil, fmt.Errorf("%w: cannot convert value to dynamic properties: %s", ErrStructuralMismatch, describe(v))
	}
}

// DecodeProperty reconstructs a property through the registration's own deserialization.
func DecodeProperty(ctx context.Context, reg *properties.Registry, v value.Value, registration *properties.Registration) (properties.Property, error) {
	switch {
	case reg == nil:
		return nil, ErrNoRegistry
	case registration == nil:
		return nil, fmt.Errorf("%w: no registration for %s", ErrDeserialize, describe(v))
	}
	prop, err := registration.Deserialize(properties.NewDeserializer(v), reg)
	if err != nil {
		slog.DebugContext(ctx, "deserialization failed", "type", registration.Name, "error", err)
		return nil, fmt.Errorf("%w: %s from %s: %w", ErrDeserialize, registration.Name, describe(v), err)
	}
	return prop, nil
}
