package ecs

import (
	"fmt"
	"reflect"

	"github.com/kamstrup/intmap"
)

// ComponentID is the dense index a ComponentRegistry assigns to a kind.
type ComponentID int

// ComponentRegistry manages component type registration for an ECS instance.
// Each World has its own registry, allowing multiple independent worlds to
// coexist without interference.
type ComponentRegistry struct {
	ids       map[reflect.Type]ComponentID
	types     []reflect.Type
	factories []func() componentStore
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids: make(map[reflect.Type]ComponentID),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
// Registering the same type twice returns the existing id.
func RegisterComponent[T any](r *ComponentRegistry) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := r.ids[t]; ok {
		return id
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}

	id := ComponentID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	r.factories = append(r.factories, func() componentStore {
		return &store[T]{
			typ:   t,
			items: intmap.New[Entity, *T](64),
		}
	})
	return id
}

// Types returns the registered component types in registration order.
func (r *ComponentRegistry) Types() []reflect.Type {
	return append([]reflect.Type(nil), r.types...)
}

// Lookup returns the id of a registered type.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentID, bool) {
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	id, ok := r.ids[t]
	return id, ok
}

func (r *ComponentRegistry) mustLookup(t reflect.Type) ComponentID {
	id, ok := r.Lookup(t)
	if !ok {
		panic(fmt.Sprintf("component type %v is not registered", t))
	}
	return id
}

// componentStore is the type-erased view of a per-kind store.
type componentStore interface {
	Type() reflect.Type
	GetAny(e Entity) any
	PutAny(e Entity, v any) bool
	Del(e Entity) bool
	Len() int
	Clear()
}

// store holds every component of kind T keyed by entity.
type store[T any] struct {
	typ   reflect.Type
	items *intmap.Map[Entity, *T]
}

func (s *store[T]) Type() reflect.Type { return s.typ }

func (s *store[T]) get(e Entity) (*T, bool) {
	return s.items.Get(e)
}

func (s *store[T]) put(e Entity, v T) *T {
	if p, ok := s.items.Get(e); ok {
		*p = v
		return p
	}
	p := new(T)
	*p = v
	s.items.Put(e, p)
	return p
}

// GetAny returns a *T, or nil when absent.
func (s *store[T]) GetAny(e Entity) any {
	if p, ok := s.items.Get(e); ok {
		return p
	}
	return nil
}

// PutAny accepts either T or *T.
func (s *store[T]) PutAny(e Entity, v any) bool {
	switch c := v.(type) {
	case T:
		s.put(e, c)
	case *T:
		if c == nil {
			return false
		}
		s.put(e, *c)
	default:
		return false
	}
	return true
}

func (s *store[T]) Del(e Entity) bool { return s.items.Del(e) }
func (s *store[T]) Len() int          { return s.items.Len() }
func (s *store[T]) Clear()            { s.items.Clear() }
