package ecs

import (
	"errors"
	"math"
)

// Entity is an opaque identifier for a game object. Ids are handed out from a
// monotonically increasing counter and are never reused, so a stale id can
// never alias a newer entity.
type Entity uint64

// NoEntity is the sentinel "no entity" value. CreateEntity never returns it.
const NoEntity Entity = 0

// ErrEntityOverflow is the panic value raised when the id counter is exhausted.
var ErrEntityOverflow = errors.New("ecs: entity id space exhausted")

type entityAllocator struct {
	next Entity
}

func (a *entityAllocator) allocate() Entity {
	if a.next == math.MaxUint64 {
		panic(ErrEntityOverflow)
	}
	a.next++
	return a.next
}
