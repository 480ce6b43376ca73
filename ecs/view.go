package ecs

import (
	"iter"
	"reflect"
)

// View represents a query for entities with a specific combination of components.
// The type T should be a struct with embedded or named pointer fields, one per
// component type. Named fields can be marked as optional using the
// `ecs:"optional"` struct tag; embedded fields are always required.
// A field of type Entity is filled with the id of the matched entity.
type View[T any] struct {
	world    *World
	types    []reflect.Type
	fields   []int
	optional []bool
	idField  int
	ids      []ComponentID
}

// NewView creates a new view for the given struct type.
func NewView[T any](world *World) *View[T] {
	v := &View[T]{}
	v.Init(world)
	return v
}

// Init binds the view to a world. It is called automatically by the
// Scheduler for View fields of registered systems.
func (v *View[T]) Init(world *World) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v.world = world
	v.types = v.types[:0]
	v.fields = v.fields[:0]
	v.optional = v.optional[:0]
	v.ids = v.ids[:0]
	v.idField = -1

	entityType := reflect.TypeFor[Entity]()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type == entityType {
			v.idField = i
			continue
		}
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		isOptional := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				isOptional = true
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
		}

		componentType := field.Type.Elem()
		v.types = append(v.types, componentType)
		v.fields = append(v.fields, i)
		v.optional = append(v.optional, isOptional)
		v.ids = append(v.ids, world.registry.mustLookup(componentType))
	}
}

// Types returns the component types referenced by the view.
func (v *View[T]) Types() []reflect.Type {
	return append([]reflect.Type(nil), v.types...)
}

// Fill populates the provided struct pointer with component data for the given
// entity. It returns false if the entity is dead or lacks a required component.
// Optional components are set to nil if not present.
func (v *View[T]) Fill(e Entity, ptr *T) bool {
	if !v.world.Alive(e) {
		return false
	}
	out := reflect.ValueOf(ptr).Elem()
	for i, id := range v.ids {
		field := out.Field(v.fields[i])
		component := v.world.storeByID(id).GetAny(e)
		if component == nil {
			if !v.optional[i] {
				return false
			}
			field.SetZero()
			continue
		}
		field.Set(reflect.ValueOf(component))
	}
	if v.idField >= 0 {
		out.Field(v.idField).SetUint(uint64(e))
	}
	return true
}

// Get returns a populated view struct for the given entity, or nil if the
// entity doesn't have all the required components.
func (v *View[T]) Get(e Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// Iter returns an iterator over all entities that have all the required
// components, in ascending entity order. The live set is snapshotted when
// iteration starts.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for _, e := range v.world.Entities() {
			var result T
			if !v.Fill(e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity with the non-nil components of data.
func (v *View[T]) Spawn(data T) Entity {
	in := reflect.ValueOf(&data).Elem()
	components := make([]any, 0, len(v.fields))
	for i, fieldIndex := range v.fields {
		field := in.Field(fieldIndex)
		if field.IsNil() {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, field.Interface())
	}
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}
	return v.world.Spawn(components...)
}
