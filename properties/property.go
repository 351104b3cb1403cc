// Package properties provides the reflection capability the scene converter works against.
//
// A Property is a type-erased view of a Go value. It either decomposes into a
// DynamicProperties container (named fields or positional items) or offers a
// serializable snapshot of itself as a value leaf. Properties are reconstructed from
// value trees through a Registration looked up in a Registry.
package properties

import (
	"fmt"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

// Kind is the shape of a DynamicProperties container.
type Kind int

const (
	// KindValue marks a container without a structural shape.
	KindValue Kind = iota
	// KindMap marks a container of named fields.
	KindMap
	// KindSeq marks a container of positional items.
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Property is the capability set the converter requires from a reflected value.
type Property interface {
	// TypeName is the declared name of the underlying type.
	TypeName() string
	// AsProperties returns the structural decomposition of the property, if it has one.
	AsProperties() (*DynamicProperties, bool)
	// Snapshot encodes the property as a single leaf of the value tree.
	Snapshot() (value.Value, error)
}

// DynamicProperties is the runtime representation of the fields of a value
// without compile time knowledge of its type.
// For KindMap, Names and Props are zipped positionally.
type DynamicProperties struct {
	Type  string
	Kind  Kind
	Names []string
	Props []Property
}

var _ Property = &DynamicProperties{}

// NewMap creates an empty container of named fields.
func NewMap(typeName string) *DynamicProperties {
	return &DynamicProperties{Type: typeName, Kind: KindMap, Names: []string{}, Props: []Property{}}
}

// NewSeq creates an empty container of positional items.
func NewSeq(typeName string) *DynamicProperties {
	return &DynamicProperties{Type: typeName, Kind: KindSeq, Props: []Property{}}
}

// Set inserts a named field, replacing an existing field of the same name in place.
func (d *DynamicProperties) Set(name string, p Property) {
	for i, n := range d.Names {
		if n == name {
			d.Props[i] = p
			return
		}
	}
	d.Names = append(d.Names, name)
	d.Props = append(d.Props, p)
}

// Push appends a positional item.
func (d *DynamicProperties) Push(p Property) {
	d.Props = append(d.Props, p)
}

// Get returns the named field.
func (d *DynamicProperties) Get(name string) (Property, bool) {
	for i, n := range d.Names {
		if n == name && i < len(d.Props) {
			return d.Props[i], true
		}
	}
	return nil, false
}

// Len returns the number of children.
func (d *DynamicProperties) Len() int {
	return len(d.Props)
}

func (d *DynamicProperties) TypeName() string {
	return d.Type
}

func (d *DynamicProperties) AsProperties() (*DynamicProperties, bool) {
	return d, true
}

func (d *DynamicProperties) Snapshot() (value.Value, error) {
	return nil, fmt.Errorf("dynamic properties of %s have no serializable snapshot", d.Type)
}
