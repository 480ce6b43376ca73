package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/embark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsSpawn(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	commands := ecs.NewCommands()

	commands.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	commands.Spawn(Position{X: 3, Y: 4})
	assert.Equal(t, 0, world.Len(), "nothing applied before flush")
	assert.Equal(t, 2, commands.Pending())

	commands.Flush(world)

	assert.Equal(t, 2, world.Len())
	assert.Equal(t, 2, ecs.Count[Position](world))
	assert.Equal(t, 1, ecs.Count[Velocity](world))
	assert.Equal(t, 0, commands.Pending())
}

func TestCommandsSpawnThen(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	commands := ecs.NewCommands()

	var spawned ecs.Entity
	commands.SpawnThen(func(e ecs.Entity) { spawned = e }, Name{Value: "bullet"})
	commands.Flush(world)

	require.NotEqual(t, ecs.NoEntity, spawned)
	name, ok := ecs.Get[Name](world, spawned)
	require.True(t, ok)
	assert.Equal(t, "bullet", name.Value)
}

func TestCommandsDeleteWinsOverAddAndRemove(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	commands := ecs.NewCommands()

	doomed := world.Spawn(Position{}, Velocity{})
	kept := world.Spawn(Position{}, Velocity{})

	commands.AddComponent(doomed, Health{Current: 1})
	commands.RemoveComponent(doomed, reflect.TypeOf(Velocity{}))
	commands.Delete(doomed)
	commands.AddComponent(kept, Health{Current: 2})
	commands.RemoveComponent(kept, reflect.TypeOf(Velocity{}))
	commands.Flush(world)

	assert.False(t, world.Alive(doomed))
	assert.False(t, ecs.Has[Health](world, doomed))

	health, ok := ecs.Get[Health](world, kept)
	require.True(t, ok)
	assert.Equal(t, 2, health.Current)
	assert.False(t, ecs.Has[Velocity](world, kept))
}

func TestCommandsDeferRunsLast(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	commands := ecs.NewCommands()

	var countAtDefer int
	commands.Defer(func() { countAtDefer = world.Len() })
	commands.Spawn(Position{})
	commands.Spawn(Position{})
	commands.Flush(world)

	assert.Equal(t, 2, countAtDefer)
}

func TestCommandsDuplicateDelete(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	commands := ecs.NewCommands()

	e := world.Spawn(Position{})
	commands.Delete(e)
	commands.Delete(e)

	assert.NotPanics(t, func() { commands.Flush(world) })
	assert.Equal(t, 0, world.Len())
}
