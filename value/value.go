// Package value defines the typed value tree that scenes are exchanged in.
//
// A Value is a closed tagged union. Structured nodes (Struct, TupleStruct) carry a
// parsed type Identifier, positional nodes (Tuple, List) and Map carry children,
// and leaves (Number, String, Bool, Unit, Raw) carry data. Numbers keep their exact
// textual form so no precision is lost across the text boundary.
//
// The tree carries no behavior beyond structural identity; two trees are equal if
// they are deeply equal.
package value

import (
	"strconv"
	"strings"
)

// Value is a node of the value tree. The set of implementations is closed.
type Value interface {
	isValue()
	// String renders a compact single line representation used for diagnostics.
	String() string
}

// Field is a named field of a Struct.
type Field struct {
	Name  string
	Value Value
}

// Entry is a key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Struct is a named type with named fields in declaration order.
type Struct struct {
	Type   Identifier
	Fields []Field
}

// TupleStruct is a named type with positional fields.
type TupleStruct struct {
	Type  Identifier
	Items []Value
}

// Tuple is a sequence of positional fields without a type name.
type Tuple []Value

// List is an ordered sequence of values.
type List []Value

// Map is an ordered sequence of arbitrary key/value pairs.
type Map []Entry

// Number is a numeric leaf stored as its exact textual representation.
type Number string

// String is a text leaf.
type String string

// Bool is a boolean leaf.
type Bool bool

// Unit is the empty leaf, used for absent values.
type Unit struct{}

func (Struct) isValue()      {}
func (TupleStruct) isValue() {}
func (Tuple) isValue()       {}
func (List) isValue()        {}
func (Map) isValue()         {}
func (Number) isValue()      {}
func (String) isValue()      {}
func (Bool) isValue()        {}
func (Unit) isValue()        {}
func (Raw) isValue()         {}

// Field returns the value of the named field.
func (s Struct) Field(name string) (Value, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (s Struct) String() string {
	var sb strings.Builder
	sb.WriteString(s.Type.String())
	sb.WriteByte('(')
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(render(f.Value))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (t TupleStruct) String() string {
	return t.Type.String() + renderSeq("(", t.Items, ")")
}

func (t Tuple) String() string {
	return renderSeq("(", t, ")")
}

func (l List) String() string {
	return renderSeq("[", l, "]")
}

func (m Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(render(e.Key))
		sb.WriteString(": ")
		sb.WriteString(render(e.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (n Number) String() string {
	return string(n)
}

func (s String) String() string {
	return strconv.Quote(string(s))
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (Unit) String() string {
	return "()"
}

func renderSeq(open string, items []Value, close string) string {
	var sb strings.Builder
	sb.WriteString(open)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(render(item))
	}
	sb.WriteString(close)
	return sb.String()
}

func render(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}
