package ecs

import "reflect"

// Singleton provides access to a single value that is not associated with
// any entity. Use this for global game state such as the camera view, input
// state or per-frame scratch lists.
type Singleton[T any] struct {
	world *World
	ptr   *T
}

// NewSingleton creates a new Singleton accessor for the given world.
// If the value doesn't exist yet it is created from the initializer, or the
// zero value. This guarantees the singleton exists after the call.
func NewSingleton[T any](world *World, initializer ...T) *Singleton[T] {
	ptr, ok := ReadSingleton[T](world)
	if !ok {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		ptr = AddSingleton(world, value)
	}
	return &Singleton[T]{world: world, ptr: ptr}
}

// Init initializes the Singleton with a world reference, creating a zero
// value if none exists. Called by the Scheduler during system registration.
func (s *Singleton[T]) Init(world *World) {
	s.world = world
	ptr, ok := ReadSingleton[T](world)
	if !ok {
		var zero T
		ptr = AddSingleton(world, zero)
	}
	s.ptr = ptr
}

// Get returns a pointer to the singleton value, or nil if unbound.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil && s.world != nil {
		s.ptr, _ = ReadSingleton[T](s.world)
	}
	return s.ptr
}

// AddSingleton stores value as the world's T, replacing any previous one in
// place so existing accessors observe the change.
func AddSingleton[T any](w *World, value T) *T {
	t := reflect.TypeFor[T]()
	if existing, ok := w.resources[t]; ok {
		p := existing.(*T)
		*p = value
		return p
	}
	p := new(T)
	*p = value
	w.resources[t] = p
	return p
}

// ReadSingleton returns the world's T if present.
func ReadSingleton[T any](w *World) (*T, bool) {
	v, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}
