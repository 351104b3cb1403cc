package properties_test

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/value"
)

func TestTypeNameOf(t *testing.T) {
	tests := []struct {
		typ      reflect.Type
		expected string
	}{
		{reflect.TypeFor[int](), "int"},
		{reflect.TypeFor[float32](), "float32"},
		{reflect.TypeFor[string](), "string"},
		{reflect.TypeFor[Vec](), "properties_test.Vec"},
		{reflect.TypeFor[*Vec](), "properties_test.Vec"},
		{reflect.TypeFor[[]float32](), "Seq<float32>"},
		{reflect.TypeFor[[3]int](), "Seq<int>"},
		{reflect.TypeFor[map[string]Vec](), "Map<string,properties_test.Vec>"},
		{reflect.TypeFor[any](), "any"},
		{reflect.TypeFor[json.Number](), "json.Number"},
		{reflect.TypeFor[time.Time](), "time.Time"},
		{reflect.TypeFor[struct{}](), "struct"},
		{reflect.TypeFor[Pair[int]](), "properties_test.Pair[int]"},
		{nil, "()"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, properties.TypeNameOf(tt.typ))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		bits     int
		expected string
	}{
		{1, 32, "1.0"},
		{0, 32, "0.0"},
		{-3, 64, "-3.0"},
		{100, 64, "100.0"},
		{2.5, 64, "2.5"},
		{float64(float32(0.1)), 32, "0.1"},
		{0.1, 64, "0.1"},
		{1e21, 64, "1e+21"},
		{math.NaN(), 64, "NaN"},
		{math.Inf(1), 64, "+Inf"},
		{math.Inf(-1), 32, "-Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, properties.FormatFloat(tt.input, tt.bits))
		})
	}
}

func TestOf_Struct(t *testing.T) {
	r := require.New(t)
	body := Body{
		Position: Vec{X: 1, Y: 2},
		Mass:     3,
		Cache:    []byte("ignored"),
		internal: 1,
	}

	props, ok := properties.Of(body).AsProperties()
	r.True(ok)
	r.Equal("properties_test.Body", props.TypeName())
	r.Equal(properties.KindMap, props.Kind)
	r.Equal([]string{"position", "path", "tags", "parent", "born", "mass", "count"}, props.Names)
	r.Equal(properties.Of(Vec{X: 1, Y: 2}), props.Props[0])
	r.Equal(properties.Of(float64(3)), props.Props[5])

	pos, ok := props.Get("position")
	r.True(ok)
	inner, ok := pos.AsProperties()
	r.True(ok)
	r.Equal([]string{"x", "y"}, inner.Names)

	// nil slices, maps and pointers have no decomposition and snapshot to unit
	for _, name := range []string{"path", "tags", "parent"} {
		p, ok := props.Get(name)
		r.True(ok, name)
		_, ok = p.AsProperties()
		r.False(ok, name)
		snapshot, err := p.Snapshot()
		r.NoError(err, name)
		r.Equal(value.Unit{}, snapshot, name)
	}

	// pointers decompose like their element
	ptrProps, ok := properties.Of(&body).AsProperties()
	r.True(ok)
	r.Equal(props, ptrProps)
}

func TestOf_Composites(t *testing.T) {
	r := require.New(t)

	seq, ok := properties.Of([]float32{1, 2}).AsProperties()
	r.True(ok)
	r.Equal(properties.KindSeq, seq.Kind)
	r.Equal("Seq<float32>", seq.Type)
	r.Equal([]properties.Property{properties.Of(float32(1)), properties.Of(float32(2))}, seq.Props)

	m, ok := properties.Of(map[string]int{"b": 2, "a": 1}).AsProperties()
	r.True(ok)
	r.Equal(properties.KindMap, m.Kind)
	r.Equal([]string{"a", "b"}, m.Names)

	_, ok = properties.Of(map[int]string{1: "a"}).AsProperties()
	r.False(ok)

	_, ok = properties.Of(42).AsProperties()
	r.False(ok)

	dyn := properties.NewSeq("Seq")
	r.Same(dyn, properties.Of(dyn))
}

func TestOf_Snapshot(t *testing.T) {
	born := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	celsius := Celsius(21.5)

	tests := []struct {
		name     string
		input    any
		expected value.Value
	}{
		{"int", int8(-3), value.Number("-3")},
		{"uint", uint64(math.MaxUint64), value.Number("18446744073709551615")},
		{"float32", float32(0.1), value.Number("0.1")},
		{"integral float", float64(2), value.Number("2.0")},
		{"string", "hello", value.String("hello")},
		{"bool", true, value.Bool(true)},
		{"json number", json.Number("12.50"), value.Number("12.50")},
		{"nil", nil, value.Unit{}},
		{"nil pointer", (*Vec)(nil), value.Unit{}},
		{"time", born, value.Raw{Data: []byte(`"2024-01-01T00:00:00Z"`)}},
		{"pointer receiver marshaler", celsius, value.Raw{Data: []byte(`{"celsius":21.5}`)}},
		{"pointer to marshaler", &celsius, value.Raw{Data: []byte(`{"celsius":21.5}`)}},
		{"struct", Vec{X: 1, Y: 0.5}, value.Struct{
			Type: value.NewIdentifier("Vec", "properties_test"),
			Fields: []value.Field{
				{Name: "x", Value: value.Number("1.0")},
				{Name: "y", Value: value.Number("0.5")},
			},
		}},
		{"slice", []int{1, 2}, value.List{value.Number("1"), value.Number("2")}},
		{"keyed map", map[int]string{2: "b", 1: "a"}, value.Map{
			{Key: value.Number("1"), Value: value.String("a")},
			{Key: value.Number("2"), Value: value.String("b")},
		}},
		{"string keyed map", map[string]bool{"b": true, "a": false}, value.Struct{
			Type: value.MustParseIdentifier("Map<string,bool>"),
			Fields: []value.Field{
				{Name: "a", Value: value.Bool(false)},
				{Name: "b", Value: value.Bool(true)},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			p := properties.Of(tt.input)
			snapshot, err := p.Snapshot()
			r.NoError(err)
			r.Equal(tt.expected, snapshot)

			again, err := p.Snapshot()
			r.NoError(err)
			r.Equal(snapshot, again)
		})
	}
}

func TestOf_OpaqueHasNoDecomposition(t *testing.T) {
	_, ok := properties.Of(time.Now()).AsProperties()
	assert.False(t, ok)
	_, ok = properties.Of(Celsius(1)).AsProperties()
	assert.False(t, ok)
}

func TestOf_SnapshotErrors(t *testing.T) {
	_, err := properties.Of(make(chan int)).Snapshot()
	assert.Error(t, err)

	_, err = properties.Of(Pair[int]{A: 1, B: 2}).Snapshot()
	assert.ErrorIs(t, err, value.ErrInvalidIdentifier)

	_, err = properties.NewMap("A").Snapshot()
	assert.Error(t, err)
}

func TestDynamicProperties(t *testing.T) {
	r := require.New(t)
	props := properties.NewMap("demo.A")
	props.Set("x", properties.Of(1))
	props.Set("y", properties.Of(2))
	props.Set("x", properties.Of(3))

	r.Equal(2, props.Len())
	r.Equal([]string{"x", "y"}, props.Names)
	x, ok := props.Get("x")
	r.True(ok)
	r.Equal(properties.Of(3), x)
	_, ok = props.Get("z")
	r.False(ok)

	self, ok := props.AsProperties()
	r.True(ok)
	r.Same(props, self)

	seq := properties.NewSeq("Seq<int>")
	seq.Push(properties.Of(1))
	r.Equal(1, seq.Len())
	r.Equal("seq", seq.Kind.String())
}
