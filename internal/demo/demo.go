// Package demo contains the component types and the sample world used by scenectl
// when no world manifest is given.
package demo

import (
	"encoding/json"
	"fmt"
	"time"

	invopop "github.com/invopop/jsonschema"
	"github.com/opencontainers/go-digest"

	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/world"
)

type ComponentA struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type ComponentB struct {
	Value string `json:"value"`
	// TimeSinceStartup is runtime state and never part of a scene.
	TimeSinceStartup time.Duration `json:"-"`
}

// NewComponentB returns the value a freshly started application assigns.
func NewComponentB(sinceStartup time.Duration) ComponentB {
	return ComponentB{Value: "Default Value", TimeSinceStartup: sinceStartup}
}

type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type Quat struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

type Transform struct {
	Translation Vec3 `json:"translation"`
	Rotation    Quat `json:"rotation"`
	Scale       Vec3 `json:"scale"`
}

func IdentityTransform() Transform {
	return Transform{
		Rotation: Quat{W: 1},
		Scale:    Vec3{X: 1, Y: 1, Z: 1},
	}
}

type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

var White = Color{R: 1, G: 1, B: 1, A: 1}

// AssetHandle references an asset by the digest of its content.
// It is stored as the digest string.
type AssetHandle struct {
	Digest digest.Digest
}

func NewAssetHandle(content []byte) AssetHandle {
	return AssetHandle{Digest: digest.FromBytes(content)}
}

func (h AssetHandle) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Digest.String())
}

func (h *AssetHandle) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = AssetHandle{}
		return nil
	}
	d, err := digest.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid asset handle %q: %w", s, err)
	}
	h.Digest = d
	return nil
}

func (AssetHandle) JSONSchema() *invopop.Schema {
	return &invopop.Schema{Type: "string"}
}

type Mesh struct {
	Asset AssetHandle `json:"asset"`
}

type StandardMaterial struct {
	Albedo        Color        `json:"albedo"`
	AlbedoTexture *AssetHandle `json:"albedoTexture,omitempty"`
	Shaded        bool         `json:"shaded"`
}

type Draw struct {
	Visible     bool `json:"visible"`
	Transparent bool `json:"transparent"`
}

// PBRComponents returns the components of a default physically rendered object.
func PBRComponents() []any {
	return []any{
		Mesh{Asset: NewAssetHandle([]byte("cube"))},
		StandardMaterial{Albedo: White, Shaded: true},
		Draw{Visible: true},
		IdentityTransform(),
	}
}

// Register adds all demo component types to the registry.
func Register(reg *properties.Registry) error {
	for _, prototype := range []any{
		ComponentA{},
		ComponentB{},
		Vec3{},
		Quat{},
		Transform{},
		Color{},
		Mesh{},
		StandardMaterial{},
		Draw{},
	} {
		if _, err := reg.Register(prototype); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the demo component types.
func NewRegistry() (*properties.Registry, error) {
	reg := properties.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// World returns the sample world: two entities with plain components and one
// physically rendered object.
func World(sinceStartup time.Duration) *world.World {
	w := world.New()
	b := NewComponentB(sinceStartup)
	b.Value = "hello"
	w.Spawn(ComponentA{X: 1, Y: 2}, b)
	w.Spawn(ComponentA{X: 3, Y: 4})
	w.Spawn(PBRComponents()...)
	return w
}
