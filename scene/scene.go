// Package scene converts between entity graphs and value trees.
//
// The Encoder flattens the dynamic properties of every component of every entity
// into a value.Value, the Decoder reconstructs dynamic properties from a value tree
// by resolving each declared type name against a properties.Registry. Both
// directions are synchronous recursive walks. They only read the registry, so
// concurrent calls sharing one registry are safe.
//
// A scene is encoded as
//
//	[
//	  Entity(0, [demo.ComponentA(x: 1.0, y: 2.0), ...]),
//	  ...
//	]
package scene

import (
	"fmt"

	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/value"
)

// EntityTypeName is the type name of entity records in a value tree.
const EntityTypeName = "Entity"

var entityType = value.MustParseIdentifier(EntityTypeName)

var (
	// ErrUnsupportedShape is returned when a property container has a shape the encoder does not implement.
	ErrUnsupportedShape = fmt.Errorf("unsupported property shape")
	// ErrMissingRegistration is returned when a declared type name has no registration.
	ErrMissingRegistration = properties.ErrNotRegistered
	// ErrStructuralMismatch is returned when a value does not have the shape the decoder expects at its position.
	ErrStructuralMismatch = fmt.Errorf("structural mismatch")
	// ErrDeserialize is returned when a registered type rejects the value it is decoded from.
	ErrDeserialize = fmt.Errorf("failed to deserialize")
	// ErrFieldCountMismatch is returned when a container of named fields has a different number of names and values.
	ErrFieldCountMismatch = fmt.Errorf("field count mismatch")
	// ErrDuplicateField is returned when a field name occurs twice in one struct.
	ErrDuplicateField = fmt.Errorf("duplicate field")
	// ErrNoRegistry is returned when decoding without a type registry.
	ErrNoRegistry = fmt.Errorf("type registry required for decoding")
)

// Entity is an identifier paired with the dynamic properties of its components.
type Entity struct {
	ID         uint64
	Components []*properties.DynamicProperties
}

// Scene is the ordered list of entities exchanged with a world.
type Scene struct {
	Entities []Entity
}

func describe(v value.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}
