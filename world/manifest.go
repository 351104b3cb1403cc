package world

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/bindings/go/scene/properties"
)

// Manifest is the human authored form of a world.
//
//	entities:
//	- id: 3
//	  components:
//	  - type: demo.ComponentA
//	    fields:
//	      x: 1.0
//	      y: 2.0
type Manifest struct {
	Entities []EntitySpec `json:"entities"`
}

// EntitySpec describes one entity. Entities without id are spawned with the
// next free id.
type EntitySpec struct {
	ID         *uint64         `json:"id,omitempty"`
	Components []ComponentSpec `json:"components"`
}

// ComponentSpec is the JSON form of one component under its registered type name.
type ComponentSpec struct {
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields,omitempty"`
}

type LoadOptions struct {
	// Validate checks the fields of every component against the JSON schema of its type
	// before decoding.
	Validate bool
}

type LoadOption func(*LoadOptions)

func WithValidation() LoadOption {
	return func(o *LoadOptions) {
		o.Validate = true
	}
}

// ParseManifest reads a manifest from YAML or JSON. Numbers are kept as json.Number
// so they decode at the exact width of their target field.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m, func(d *json.Decoder) *json.Decoder {
		d.UseNumber()
		d.DisallowUnknownFields()
		return d
	}); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest parses a manifest and builds the world it describes.
func LoadManifest(reg *properties.Registry, data []byte, opts ...LoadOption) (*World, error) {
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return m.World(reg, opts...)
}

// World builds the world described by the manifest.
func (m *Manifest) World(reg *properties.Registry, opts ...LoadOption) (*World, error) {
	options := &LoadOptions{}
	for _, opt := range opts {
		opt(options)
	}

	w := New()
	for i, spec := range m.Entities {
		components := make([]any, 0, len(spec.Components))
		for j, c := range spec.Components {
			component, err := c.decode(reg, options)
			if err != nil {
				return nil, fmt.Errorf("entity %d component %d: %w", i, j, err)
			}
			components = append(components, component)
		}
		if spec.ID == nil {
			w.Spawn(components...)
			continue
		}
		if err := w.Insert(*spec.ID, components...); err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
	}
	return w, nil
}

func (c ComponentSpec) decode(reg *properties.Registry, options *LoadOptions) (any, error) {
	registration, err := reg.Resolve(c.Type)
	if err != nil {
		return nil, err
	}
	fields := c.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	if options.Validate {
		if err := properties.Validate(registration, fields); err != nil {
			return nil, err
		}
	}
	return registration.DecodeNative(fields, reg)
}

// ManifestFromWorld describes a world as a manifest. Every entity carries its id.
func ManifestFromWorld(reg *properties.Registry, w *World) (*Manifest, error) {
	m := &Manifest{Entities: []EntitySpec{}}
	for _, id := range w.IDs() {
		components, _ := w.Components(id)
		spec := EntitySpec{ID: &id, Components: make([]ComponentSpec, 0, len(components))}
		for _, component := range components {
			c, err := componentSpec(reg, component)
			if err != nil {
				return nil, fmt.Errorf("entity %d: %w", id, err)
			}
			spec.Components = append(spec.Components, c)
		}
		m.Entities = append(m.Entities, spec)
	}
	return m, nil
}

func componentSpec(reg *properties.Registry, component any) (ComponentSpec, error) {
	props, err := componentProperties(reg, component)
	if err != nil {
		return ComponentSpec{}, err
	}
	if props.Kind != properties.KindMap {
		return ComponentSpec{}, fmt.Errorf("%s is not a component with named fields", props.Type)
	}
	data, err := json.Marshal(component)
	if err != nil {
		return ComponentSpec{}, fmt.Errorf("failed to marshal %s: %w", props.Type, err)
	}
	var fields map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		return ComponentSpec{}, fmt.Errorf("failed to read fields of %s: %w", props.Type, err)
	}
	// absent fields decode to their zero value
	for name, field := range fields {
		if field == nil {
			delete(fields, name)
		}
	}
	return ComponentSpec{Type: props.Type, Fields: fields}, nil
}

// Marshal renders the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}
