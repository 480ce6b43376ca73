package system_test

import (
	"testing"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/input"
	"github.com/plus3/embark/render"
	"github.com/plus3/embark/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInput(t *testing.T, w *ecs.World) (*system.InputSystem, *ecs.Scheduler) {
	in := &system.InputSystem{Speed: 30, ZoomStep: 0.5, MinZoom: 0.1, Log: testLogger(t)}
	s := ecs.NewScheduler(w)
	s.Register(in)
	return in, s
}

func TestInputSetsVelocityAndFacing(t *testing.T) {
	w := newWorld()
	player := w.Spawn(component.Input{}, component.Velocity{}, component.Direction{Facing: component.FacingDown})
	in, s := newInput(t, w)

	in.Handle(input.KeyDown{Key: input.KeyD})
	s.Once(1.0 / 60)

	v, _ := ecs.Get[component.Velocity](w, player)
	assert.Equal(t, component.Velocity{X: 30}, *v)
	d, _ := ecs.Get[component.Direction](w, player)
	assert.Equal(t, component.FacingRight, d.Facing)
	i, _ := ecs.Get[component.Input](w, player)
	assert.True(t, i.Pressing)

	// diagonal keeps the previous facing
	in.Handle(input.KeyDown{Key: input.KeyW})
	s.Once(1.0 / 60)
	assert.Equal(t, component.Velocity{X: 30, Y: -30}, *v)
	assert.Equal(t, component.FacingRight, d.Facing)

	in.Handle(input.KeyUp{Key: input.KeyD})
	in.Handle(input.KeyUp{Key: input.KeyW})
	s.Once(1.0 / 60)
	assert.Equal(t, component.Velocity{}, *v)
	assert.False(t, i.Pressing)
}

func TestOpposingKeysCancel(t *testing.T) {
	w := newWorld()
	player := w.Spawn(component.Input{}, component.Velocity{})
	in, s := newInput(t, w)

	in.Handle(input.KeyDown{Key: input.KeyA})
	in.Handle(input.KeyDown{Key: input.KeyD})
	s.Once(1.0 / 60)

	v, _ := ecs.Get[component.Velocity](w, player)
	assert.Zero(t, v.X)
}

func TestZoomOnlyAffectsFreeCameras(t *testing.T) {
	w := newWorld()
	free := w.Spawn(component.Camera{Zoom: 1})
	bound := w.Spawn(component.Camera{Zoom: 1}, component.Input{}, component.Velocity{})
	in, s := newInput(t, w)

	in.Handle(input.KeyDown{Key: input.KeyArrowUp})
	s.Once(1.0 / 60)

	c, _ := ecs.Get[component.Camera](w, free)
	assert.Equal(t, 1.5, c.Zoom)
	c, _ = ecs.Get[component.Camera](w, bound)
	assert.Equal(t, 1.0, c.Zoom)

	in.Handle(input.KeyUp{Key: input.KeyArrowUp})
	in.Handle(input.KeyDown{Key: input.KeyArrowDown})
	for range 10 {
		s.Once(1.0 / 60)
	}
	c, _ = ecs.Get[component.Camera](w, free)
	assert.Equal(t, 0.1, c.Zoom)
}

func TestFireIsEdgeTriggered(t *testing.T) {
	w := newWorld()
	ecs.AddSingleton(w, render.Camera{Zoom: 1, Viewport: geom.Vec2{X: 100, Y: 100}})
	shooter := w.Spawn(
		component.Position{},
		component.Cursor{},
		component.Sprite{Atlas: "bullet"},
		component.Shooter{Atlas: "bullet"},
	)
	in, s := newInput(t, w)
	shots := ecs.NewSingleton[system.ShotQueue](w).Get()

	in.Handle(input.MouseMove{X: 60, Y: 50})
	in.Handle(input.MouseButton{Button: input.ButtonLeft, Down: true})
	s.Once(1.0 / 60)

	require.Len(t, shots.Requests, 1)
	assert.Equal(t, shooter, shots.Requests[0].Shooter)
	assert.InDelta(t, 1.0, shots.Requests[0].Dir.X, 1e-9)
	assert.InDelta(t, 0.0, shots.Requests[0].Dir.Y, 1e-9)
	cursor, _ := ecs.Get[component.Cursor](w, shooter)
	assert.Equal(t, component.Cursor{X: 60, Y: 50}, *cursor)

	// holding the button does not fire again
	s.Once(1.0 / 60)
	assert.Len(t, shots.Requests, 1)

	in.Handle(input.MouseButton{Button: input.ButtonLeft, Down: false})
	s.Once(1.0 / 60)
	in.Handle(input.MouseButton{Button: input.ButtonLeft, Down: true})
	s.Once(1.0 / 60)
	assert.Len(t, shots.Requests, 2)
}

func TestQuitAndDebugToggle(t *testing.T) {
	w := newWorld()
	in, _ := newInput(t, w)
	state := ecs.NewSingleton[system.InputState](w).Get()

	in.Handle(input.KeyDown{Key: input.KeyF1})
	assert.True(t, state.Debug)
	in.Handle(input.KeyDown{Key: input.KeyF1})
	assert.False(t, state.Debug)

	assert.False(t, state.Quit)
	in.Handle(input.KeyDown{Key: input.KeyEscape})
	assert.True(t, state.Quit)
}
