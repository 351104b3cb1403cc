package scene

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/value"
)

// Encode converts a scene into a List of entity records, preserving entity order.
// The registry may be nil, in which case type names are used as declared.
func Encode(ctx context.Context, reg *properties.Registry, s *Scene) (value.Value, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot encode nil scene")
	}
	slog.DebugContext(ctx, "encoding scene", "entities", len(s.Entities))

	entities := make(value.List, 0, len(s.Entities))
	for _, e := range s.Entities {
		v, err := EncodeEntity(ctx, reg, e)
		if err != nil {
			return nil, err
		}
		entities = append(entities, v)
	}
	return entities, nil
}

// EncodeEntity converts an entity into Entity(id, [components...]).
func EncodeEntity(ctx context.Context, reg *properties.Registry, e Entity) (value.Value, error) {
	components := make(value.List, 0, len(e.Components))
	for i, c := range e.Components {
		if c == nil {
			return nil, fmt.Errorf("entity %d: component %d is nil", e.ID, i)
		}
		v, err := EncodeDynamic(ctx, reg, c)
		if err != nil {
			return nil, fmt.Errorf("entity %d: component %s: %w", e.ID, c.Type, err)
		}
		components = append(components, v)
	}
	return value.TupleStruct{
		Type:  entityType,
		Items: []value.Value{value.Number(strconv.FormatUint(e.ID, 10)), components},
	}, nil
}

// EncodeDynamic converts a property container into a Struct (named fields) or a List (positional items).
// The type name is canonicalized through the registry and must parse as a value.Identifier.
func EncodeDynamic(ctx context.Context, reg *properties.Registry, props *properties.DynamicProperties) (value.Value, error) {
	if props == nil {
		return nil, fmt.Errorf("%w: nil property container", ErrUnsupportedShape)
	}
	name := props.Type
	if reg != nil {
		if registration, ok := reg.Lookup(name); ok {
			name = registration.Name
		}
	}
	id, err := value.ParseIdentifier(name)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", props.Type, err)
	}

	switch props.Kind {
	case properties.KindMap:
		if len(props.Names) != len(props.Props) {
			return nil, fmt.Errorf("%w: %s has %d field names but %d values", ErrFieldCountMismatch, id, len(props.Names), len(props.Props))
		}
		fields := make([]value.Field, 0, len(props.Names))
		seen := make(map[string]struct{}, len(props.Names))
		for i, field := range props.Names {
			if _, dup := seen[field]; dup {
				return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateField, field, id)
			}
			seen[field] = struct{}{}
			v, err := EncodeProperty(ctx, reg, props.Props[i])
			if err != nil {
				return nil, fmt.Errorf("field %q of %s: %w", field, id, err)
			}
			fields = append(fields, value.Field{Name: field, Value: v})
		}
		return value.Struct{Type: id, Fields: fields}, nil
	case properties.KindSeq:
		items := make(value.List, 0, len(props.Props))
		for i, child := range props.Props {
			v, err := EncodeProperty(ctx, reg, child)
			if err != nil {
				return nil, fmt.Errorf("item %d of %s: %w", i, id, err)
			}
			items = append(items, v)
		}
		return items, nil
	default:
		err := fmt.Errorf("%w: %s has kind %s", ErrUnsupportedShape, id, props.Kind)
		slog.ErrorContext(ctx, "cannot encode dynamic properties", "type", props.Type, "kind", props.Kind.String(), "error", err)
		return nil, err
	}
}

// EncodeProperty converts a single property. Properties without a structural
// decomposition are encoded as their serializable snapshot.
func EncodeProperty(ctx context.Context, reg *properties.Registry, prop properties.Property) (value.Value, error) {
	if prop == nil {
		return value.Unit{}, nil
	}
	if props, ok := prop.AsProperties(); ok {
		if props == nil {
			return value.Unit{}, nil
		}
		return EncodeDynamic(ctx, reg, props)
	}
	slog.DebugContext(ctx, "falling back to serializable snapshot", "type", prop.TypeName())
	v, err := prop.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s: %w", prop.TypeName(), err)
	}
	return v, nil
}
