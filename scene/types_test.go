package scene_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindings/go/scene/properties"
)

type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type Label struct {
	Text  string    `json:"text"`
	Since time.Time `json:"since"`
}

// Path is a component without named fields.
type Path []float64

type Inventory struct {
	Items  map[string]int `json:"items"`
	Slots  []Position     `json:"slots"`
	Owner  *Position      `json:"owner"`
	Weight float64        `json:"weight"`
	Locked bool           `json:"locked"`
	Dirty  bool           `json:"-"`
}

func newRegistry(t *testing.T) *properties.Registry {
	t.Helper()
	reg := properties.NewRegistry()
	reg.MustRegister(Position{}, "geo.Position/v1")
	reg.MustRegister(Label{})
	reg.MustRegister(Path{})
	reg.MustRegister(Inventory{})
	return reg
}

func dynamic(t *testing.T, v any) *properties.DynamicProperties {
	t.Helper()
	props, ok := properties.Of(v).AsProperties()
	require.True(t, ok, "%T has no structural decomposition", v)
	return props
}
