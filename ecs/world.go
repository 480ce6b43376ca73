package ecs

import (
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
)

// World owns every entity and component. Component values live in one
// store per registered kind; callers only ever hold pointers handed out by
// Get, which stay valid until the component is removed or overwritten by
// Remove/DestroyEntity.
type World struct {
	registry  *ComponentRegistry
	stores    []componentStore
	alive     *intmap.Set[Entity]
	entities  []Entity
	ids       entityAllocator
	resources map[reflect.Type]any
}

// NewWorld creates an empty world over the kinds registered in registry.
// Kinds registered after NewWorld are picked up lazily.
func NewWorld(registry *ComponentRegistry) *World {
	w := &World{
		registry:  registry,
		alive:     intmap.NewSet[Entity](256),
		resources: make(map[reflect.Type]any),
	}
	w.syncStores()
	return w
}

// Registry returns the component registry backing this world.
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

func (w *World) syncStores() {
	for len(w.stores) < len(w.registry.factories) {
		w.stores = append(w.stores, w.registry.factories[len(w.stores)]())
	}
}

func (w *World) storeByID(id ComponentID) componentStore {
	if int(id) >= len(w.stores) {
		w.syncStores()
	}
	return w.stores[id]
}

func (w *World) storeOf(t reflect.Type) componentStore {
	return w.storeByID(w.registry.mustLookup(t))
}

func storeFor[T any](w *World) *store[T] {
	return w.storeOf(reflect.TypeFor[T]()).(*store[T])
}

// CreateEntity allocates a fresh id and adds it to the live set.
func (w *World) CreateEntity() Entity {
	e := w.ids.allocate()
	w.alive.Add(e)
	// ids grow monotonically so appending keeps the slice sorted
	w.entities = append(w.entities, e)
	return e
}

// Spawn creates an entity and attaches the given components to it.
// Components may be passed by value or by pointer.
func (w *World) Spawn(components ...any) Entity {
	e := w.CreateEntity()
	for _, c := range components {
		w.AddComponent(e, c)
	}
	return e
}

// DestroyEntity removes e from the live set and drops every component it
// owns. Destroying a dead or unknown entity is a no-op.
func (w *World) DestroyEntity(e Entity) {
	if !w.alive.Del(e) {
		return
	}
	if i, ok := slices.BinarySearch(w.entities, e); ok {
		w.entities = slices.Delete(w.entities, i, i+1)
	}
	for _, s := range w.stores {
		s.Del(e)
	}
}

// Alive reports whether e is currently live.
func (w *World) Alive(e Entity) bool {
	return e != NoEntity && w.alive.Has(e)
}

// Resolve dereferences a weak entity reference. It reports false for the
// sentinel and for entities that have been destroyed.
func (w *World) Resolve(e Entity) (Entity, bool) {
	if !w.Alive(e) {
		return NoEntity, false
	}
	return e, true
}

// Entities returns a snapshot of the live entities in ascending id order.
func (w *World) Entities() []Entity {
	return slices.Clone(w.entities)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.entities)
}

// AddComponent attaches component to e, overwriting any existing value of the
// same kind. It returns false when e is not live or the value is not a
// registered kind.
func (w *World) AddComponent(e Entity, component any) bool {
	if !w.Alive(e) || component == nil {
		return false
	}
	id, ok := w.registry.Lookup(reflect.TypeOf(component))
	if !ok {
		panic("component type " + reflect.TypeOf(component).String() + " is not registered")
	}
	return w.storeByID(id).PutAny(e, component)
}

// GetComponent returns a pointer to e's component of type t, or nil.
func (w *World) GetComponent(e Entity, t reflect.Type) any {
	return w.storeOf(t).GetAny(e)
}

// RemoveComponent detaches the component of type t from e.
func (w *World) RemoveComponent(e Entity, t reflect.Type) bool {
	return w.storeOf(t).Del(e)
}

// HasComponent reports whether e carries a component of type t.
func (w *World) HasComponent(e Entity, t reflect.Type) bool {
	return w.storeOf(t).GetAny(e) != nil
}

// HasTypes reports whether e carries every one of the given kinds.
func (w *World) HasTypes(e Entity, types ...reflect.Type) bool {
	for _, t := range types {
		if !w.HasComponent(e, t) {
			return false
		}
	}
	return true
}

// Components returns pointers to every component attached to e, in
// registration order.
func (w *World) Components(e Entity) []any {
	w.syncStores()
	var out []any
	for _, s := range w.stores {
		if c := s.GetAny(e); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Add attaches v to e, overwriting any existing T. It returns nil when e is
// not live.
func Add[T any](w *World, e Entity, v T) *T {
	if !w.Alive(e) {
		return nil
	}
	return storeFor[T](w).put(e, v)
}

// Get returns a mutable pointer to e's T.
func Get[T any](w *World, e Entity) (*T, bool) {
	return storeFor[T](w).get(e)
}

// Remove detaches e's T, reporting whether it was present.
func Remove[T any](w *World, e Entity) bool {
	return storeFor[T](w).Del(e)
}

// Has reports whether e carries a T.
func Has[T any](w *World, e Entity) bool {
	return storeFor[T](w).items.Has(e)
}

// Count returns the number of entities carrying a T.
func Count[T any](w *World) int {
	return storeFor[T](w).Len()
}

// WorldStats summarizes the contents of a World.
type WorldStats struct {
	Entities   int
	Components []ComponentStats
}

// ComponentStats reports how many entities carry one kind.
type ComponentStats struct {
	Type  reflect.Type
	Count int
}

// Stats collects per-kind counts for debugging and reporting.
func (w *World) Stats() WorldStats {
	w.syncStores()
	stats := WorldStats{
		Entities:   len(w.entities),
		Components: make([]ComponentStats, len(w.stores)),
	}
	for i, s := range w.stores {
		stats.Components[i] = ComponentStats{Type: s.Type(), Count: s.Len()}
	}
	return stats
}
