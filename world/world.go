// Package world holds entities and their components in memory and converts
// them from and to scenes.
package world

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"sync"

	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/scene"
)

var ErrEntityExists = fmt.Errorf("entity already exists")

// World is a set of entities with explicit ids, kept in insertion order.
// It is safe for concurrent use.
type World struct {
	mu       sync.RWMutex
	next     uint64
	order    []uint64
	entities map[uint64][]any
}

func New() *World {
	return &World{entities: map[uint64][]any{}}
}

// Spawn adds a new entity with the next free id and returns that id.
func (w *World) Spawn(components ...any) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		if _, exists := w.entities[w.next]; !exists {
			break
		}
		w.next++
	}
	id := w.next
	w.insert(id, components)
	return id
}

// Insert adds an entity under the given id.
func (w *World) Insert(id uint64, components ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.entities[id]; exists {
		return fmt.Errorf("%w: %d", ErrEntityExists, id)
	}
	w.insert(id, components)
	return nil
}

func (w *World) insert(id uint64, components []any) {
	w.entities[id] = slices.Clone(components)
	w.order = append(w.order, id)
	if id >= w.next && id < math.MaxUint64 {
		w.next = id + 1
	}
}

// Components returns a copy of the components of an entity.
func (w *World) Components(id uint64) ([]any, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	components, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(components), true
}

// IDs returns the entity ids in insertion order.
func (w *World) IDs() []uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.order)
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.order)
}

// Snapshot converts the world into a scene. Every component type must be
// registered and must decompose into named fields or a sequence.
func (w *World) Snapshot(reg *properties.Registry) (*scene.Scene, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := &scene.Scene{Entities: make([]scene.Entity, 0, len(w.order))}
	for _, id := range w.order {
		entity := scene.Entity{ID: id, Components: make([]*properties.DynamicProperties, 0, len(w.entities[id]))}
		for _, component := range w.entities[id] {
			props, err := componentProperties(reg, component)
			if err != nil {
				return nil, fmt.Errorf("entity %d: %w", id, err)
			}
			entity.Components = append(entity.Components, props)
		}
		s.Entities = append(s.Entities, entity)
	}
	return s, nil
}

func componentProperties(reg *properties.Registry, component any) (*properties.DynamicProperties, error) {
	if component == nil {
		return nil, fmt.Errorf("component is nil")
	}
	registration, ok := reg.RegistrationFor(reflect.TypeOf(component))
	if !ok {
		return nil, fmt.Errorf("%w: %s", properties.ErrNotRegistered, registration.Name)
	}
	props, ok := properties.Of(component).AsProperties()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no structural decomposition", scene.ErrUnsupportedShape, registration.Name)
	}
	props.Type = registration.Name
	return props, nil
}

// Load builds a world from a scene, materializing every component as a value
// of its registered type.
func Load(reg *properties.Registry, s *scene.Scene) (*World, error) {
	if s == nil {
		return nil, fmt.Errorf("scene is nil")
	}
	w := New()
	for _, entity := range s.Entities {
		components := make([]any, 0, len(entity.Components))
		for _, props := range entity.Components {
			if props == nil {
				return nil, fmt.Errorf("entity %d: component is nil", entity.ID)
			}
			registration, err := reg.Resolve(props.Type)
			if err != nil {
				return nil, fmt.Errorf("entity %d: %w", entity.ID, err)
			}
			component, err := registration.FromProperties(props, reg)
			if err != nil {
				return nil, fmt.Errorf("entity %d: %w", entity.ID, err)
			}
			components = append(components, component)
		}
		if err := w.Insert(entity.ID, components...); err != nil {
			return nil, err
		}
	}
	return w, nil
}
