package ecs

import "iter"

// Query wraps a View with a per-frame cache. The Scheduler calls Execute
// before each system runs, so a system iterates a stable snapshot even while
// it queues structural changes.
type Query[T any] struct {
	view *View[T]

	cachedEntities   []Entity
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query bound to world.
func NewQuery[T any](world *World) *Query[T] {
	q := &Query[T]{}
	q.Init(world)
	return q
}

// Init initializes or re-initializes the Query with a world.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(world *World) {
	q.view = NewView[T](world)
	q.cacheValid = false
}

// View returns the underlying view, for single-entity lookups.
func (q *Query[T]) View() *View[T] {
	return q.view
}

// Execute builds the entity and component caches for this frame.
func (q *Query[T]) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	for e, item := range q.view.Iter() {
		q.cachedEntities = append(q.cachedEntities, e)
		q.cachedComponents = append(q.cachedComponents, item)
	}

	q.cacheValid = true
}

// Len returns the number of cached matches.
func (q *Query[T]) Len() int {
	return len(q.cachedEntities)
}

// Iter returns an iterator over entity ids and component data.
// Panics if Execute() has not been called this frame.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(Entity, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called this frame.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}
