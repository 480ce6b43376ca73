package ecs

import "reflect"

// Commands provides a buffer for deferred ECS operations that are executed at
// the end of a frame. This prevents structural changes to the world during
// system execution.
type Commands struct {
	spawns  []spawnCommand
	deletes []Entity
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []deferCommand
}

// NewCommands returns an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
	done       func(Entity)
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type removeComponentCommand struct {
	entity   Entity
	compType reflect.Type
}

// Defer queues a function to run after every structural change was applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues a spawn and calls done with the new id once it exists.
func (c *Commands) SpawnThen(done func(Entity), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, done: done})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity Entity) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity Entity, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Pending reports the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies all commands to world in the order deletes, removes, adds,
// spawns, defers, then resets the buffer. Removes and adds targeting an
// entity deleted in the same flush are dropped.
func (c *Commands) Flush(world *World) {
	deletedEntities := make(map[Entity]bool, len(c.deletes))

	for _, e := range c.deletes {
		world.DestroyEntity(e)
		deletedEntities[e] = true
	}

	for _, cmd := range c.removes {
		if !deletedEntities[cmd.entity] {
			world.RemoveComponent(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if !deletedEntities[cmd.entity] {
			world.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		e := world.Spawn(cmd.components...)
		if cmd.done != nil {
			cmd.done(e)
		}
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
