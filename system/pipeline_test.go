package system_test

import (
	"testing"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/config"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/input"
	"github.com/plus3/embark/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineShootsEnemyDown(t *testing.T) {
	w := newWorld()
	cfg := config.Defaults()
	p := system.NewPipeline(w, cfg, nil, testLogger(t))

	player := w.Spawn(
		component.Position{},
		component.Velocity{},
		box(8, 8),
		component.Input{},
		component.Combat{Health: 100},
		component.Cursor{},
		component.Sprite{Atlas: "hero"},
		component.Shooter{Atlas: "hero"},
	)
	w.Spawn(component.Camera{Target: player, Zoom: 1})
	enemy := w.Spawn(
		component.Position{X: 30},
		component.Velocity{},
		box(8, 8),
		component.Enemy{},
		component.Combat{Health: 25},
	)

	p.Draw(&fakeCanvas{}, geom.Vec2{X: 100, Y: 100})
	assert.Equal(t, geom.Vec2{X: 4, Y: 4}, p.Camera().Center)

	// aim at the enemy's center
	p.Handle(input.MouseMove{X: 80, Y: 50})
	p.Handle(input.MouseButton{Button: input.ButtonLeft, Down: true})

	dt := 1.0 / float64(cfg.Window.TPS)
	p.Tick(dt)
	e, _ := ecs.Get[component.Enemy](w, enemy)
	assert.Equal(t, component.Aggressive, e.State)
	require.Equal(t, 1, countBullets(w))

	for range 120 {
		if !w.Alive(enemy) {
			break
		}
		p.Tick(dt)
	}
	assert.False(t, w.Alive(enemy))
	assert.Zero(t, countBullets(w))

	c, _ := ecs.Get[component.Combat](w, player)
	assert.Equal(t, uint32(100), c.Health)
}

func TestPipelineMovesPlayer(t *testing.T) {
	w := newWorld()
	p := system.NewPipeline(w, config.Defaults(), system.DefaultRules{Damage: 1}, testLogger(t))
	player := w.Spawn(component.Position{}, component.Velocity{}, component.Input{})

	p.Handle(input.KeyDown{Key: input.KeyS})
	p.Tick(0.5)

	pos, _ := ecs.Get[component.Position](w, player)
	assert.Equal(t, component.Position{Y: 15}, *pos)
}

func TestPipelineQuit(t *testing.T) {
	p := system.NewPipeline(newWorld(), config.Defaults(), nil, testLogger(t))
	assert.False(t, p.Input().Quit)
	p.Handle(input.Quit{})
	assert.True(t, p.Input().Quit)
}

func TestPipelineObstacleNeverMoves(t *testing.T) {
	w := newWorld()
	p := system.NewPipeline(w, config.Defaults(), nil, testLogger(t))

	mover := w.Spawn(
		component.Position{},
		component.Velocity{},
		component.Acceleration{},
		component.Mass{M: 20},
		component.Force{X: 200},
		box(10, 10),
	)
	wall := w.Spawn(component.Position{X: 12}, component.Mass{M: 5}, box(10, 10))

	for range 100 {
		p.Tick(1.0 / 60)
		pos, _ := ecs.Get[component.Position](w, wall)
		require.Equal(t, component.Position{X: 12}, *pos)
	}

	pos, _ := ecs.Get[component.Position](w, mover)
	assert.LessOrEqual(t, pos.X, 2.0, "the mover never enters the wall")
	assert.Positive(t, pos.X, "the mover advanced before it was stopped")
}

func countBullets(w *ecs.World) int {
	return ecs.Count[component.Bullet](w)
}
