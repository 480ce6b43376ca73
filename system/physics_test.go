package system_test

import (
	"testing"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccelerationFromForce(t *testing.T) {
	w := newWorld()
	e := w.Spawn(component.Acceleration{X: 99}, component.Mass{M: 2}, component.Force{X: 10, Y: -4})

	runOnce(w, 1.0/60, &system.AccelerationSystem{FrictionEpsilon: 1e-6})

	a, ok := ecs.Get[component.Acceleration](w, e)
	require.True(t, ok)
	assert.InDelta(t, 5.0, a.X, 1e-9)
	assert.InDelta(t, -2.0, a.Y, 1e-9)
}

func TestFrictionOpposesMotion(t *testing.T) {
	w := newWorld()
	moving := w.Spawn(
		component.Acceleration{},
		component.Mass{M: 2},
		component.Friction{Coeff: 0.5},
		component.Velocity{X: 3, Y: 4},
	)
	resting := w.Spawn(
		component.Acceleration{X: 1},
		component.Mass{M: 2},
		component.Friction{Coeff: 0.5},
		component.Velocity{},
	)

	runOnce(w, 1.0/60, &system.AccelerationSystem{FrictionEpsilon: 1e-6})

	a, _ := ecs.Get[component.Acceleration](w, moving)
	assert.InDelta(t, -0.3, a.X, 1e-9)
	assert.InDelta(t, -0.4, a.Y, 1e-9)

	a, _ = ecs.Get[component.Acceleration](w, resting)
	assert.Zero(t, a.X)
	assert.Zero(t, a.Y)
}

func TestMasslessBodyIsSkipped(t *testing.T) {
	w := newWorld()
	e := w.Spawn(component.Acceleration{X: 7}, component.Mass{}, component.Force{X: 10})

	runOnce(w, 1, &system.AccelerationSystem{})

	a, _ := ecs.Get[component.Acceleration](w, e)
	assert.Equal(t, 7.0, a.X)
}

func TestIntegration(t *testing.T) {
	w := newWorld()
	e := w.Spawn(
		component.Position{X: 1, Y: 1},
		component.Velocity{X: 2},
		component.Acceleration{Y: 4},
	)

	runOnce(w, 0.5, &system.VelocitySystem{}, &system.PositionSystem{})

	v, _ := ecs.Get[component.Velocity](w, e)
	assert.Equal(t, component.Velocity{X: 2, Y: 2}, *v)
	p, _ := ecs.Get[component.Position](w, e)
	assert.Equal(t, component.Position{X: 2, Y: 2}, *p)
}

func TestDirectionSelectsSpriteRow(t *testing.T) {
	w := newWorld()
	rows := map[component.Facing]int{
		component.FacingRight: 0,
		component.FacingLeft:  1,
		component.FacingUp:    2,
		component.FacingDown:  3,
	}
	entities := map[component.Facing]ecs.Entity{}
	for facing := range rows {
		entities[facing] = w.Spawn(component.Direction{Facing: facing}, component.Sprite{Row: 9})
	}

	runOnce(w, 1, &system.DirectionSystem{})

	for facing, row := range rows {
		s, _ := ecs.Get[component.Sprite](w, entities[facing])
		assert.Equal(t, row, s.Row, facing.String())
	}
}
