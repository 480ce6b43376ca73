package system

import (
	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/input"
	"github.com/plus3/embark/render"
	"go.uber.org/zap"
)

// InputState is the held-key and mouse state accumulated from events.
type InputState struct {
	Held      [input.KeyF1 + 1]bool
	MouseX    float64
	MouseY    float64
	MouseLeft bool
	Debug     bool
	Quit      bool

	// firing latches the left button so one press fires one shot
	firing bool
}

// Down reports whether a key is held.
func (s *InputState) Down(k input.Key) bool {
	return k > input.KeyUnknown && int(k) < len(s.Held) && s.Held[k]
}

// FireRequest asks the projectile system to fire from Shooter along Dir.
type FireRequest struct {
	Shooter ecs.Entity
	Dir     geom.Vec2
}

// ShotQueue holds fire requests until the projectile system drains them.
type ShotQueue struct {
	Requests []FireRequest
}

// InputSystem applies player intent. Events arrive through Handle between
// ticks; Execute turns the accumulated state into velocities, facing, zoom
// and fire requests.
type InputSystem struct {
	State  ecs.Singleton[InputState]
	Shots  ecs.Singleton[ShotQueue]
	Camera ecs.Singleton[render.Camera]

	Players ecs.Query[struct {
		*component.Input
		*component.Velocity
		Direction *component.Direction `ecs:"optional"`
	}]
	Cameras ecs.Query[struct {
		ecs.Entity
		*component.Camera
	}]
	Shooters ecs.Query[struct {
		ecs.Entity
		*component.Position
		*component.Cursor
		*component.Sprite
		*component.Shooter
	}]

	Speed    float64
	ZoomStep float64
	MinZoom  float64
	Log      *zap.Logger
}

// Handle folds one event into the held state. The system must be registered
// with a Scheduler first.
func (s *InputSystem) Handle(ev input.Event) {
	state := s.State.Get()
	switch ev := ev.(type) {
	case input.KeyDown:
		if ev.Key > input.KeyUnknown && int(ev.Key) < len(state.Held) {
			state.Held[ev.Key] = true
		}
		switch ev.Key {
		case input.KeyEscape:
			state.Quit = true
		case input.KeyF1:
			state.Debug = !state.Debug
		}
	case input.KeyUp:
		if ev.Key > input.KeyUnknown && int(ev.Key) < len(state.Held) {
			state.Held[ev.Key] = false
		}
	case input.MouseMove:
		state.MouseX, state.MouseY = ev.X, ev.Y
	case input.MouseButton:
		if ev.Button == input.ButtonLeft {
			state.MouseLeft = ev.Down
		}
	case input.Quit:
		state.Quit = true
	}
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.State.Get()

	up, left := state.Down(input.KeyW), state.Down(input.KeyA)
	down, right := state.Down(input.KeyS), state.Down(input.KeyD)
	count := 0
	for _, held := range []bool{up, left, down, right} {
		if held {
			count++
		}
	}
	// diagonal movement keeps the previous facing
	only := count == 1

	for player := range s.Players.Values() {
		var sx, sy float64
		if up {
			sy--
		}
		if left {
			sx--
		}
		if down {
			sy++
		}
		if right {
			sx++
		}
		player.Velocity.X = sx * s.Speed
		player.Velocity.Y = sy * s.Speed
		player.Input.Pressing = count > 0

		if only && player.Direction != nil {
			switch {
			case up:
				player.Direction.Facing = component.FacingUp
			case left:
				player.Direction.Facing = component.FacingLeft
			case down:
				player.Direction.Facing = component.FacingDown
			case right:
				player.Direction.Facing = component.FacingRight
			}
		}
	}

	for cam := range s.Cameras.Values() {
		if ecs.Has[component.Input](frame.World, cam.Entity) {
			continue
		}
		if state.Down(input.KeyArrowUp) {
			cam.Camera.Zoom += s.ZoomStep
		} else if state.Down(input.KeyArrowDown) {
			cam.Camera.Zoom -= s.ZoomStep
		}
		if cam.Camera.Zoom < s.MinZoom {
			cam.Camera.Zoom = s.MinZoom
		}
	}

	fire := state.MouseLeft && !state.firing
	state.firing = state.MouseLeft

	view := s.Camera.Get()
	for shooter := range s.Shooters.Values() {
		shooter.Cursor.X = state.MouseX
		shooter.Cursor.Y = state.MouseY
		if !fire || view.Zoom == 0 {
			continue
		}

		aim := view.ScreenToWorld(geom.Vec2{X: state.MouseX, Y: state.MouseY})
		dir, ok := aim.Sub(shooter.Position.Vec()).Normalize()
		if !ok {
			continue
		}
		shots := s.Shots.Get()
		shots.Requests = append(shots.Requests, FireRequest{Shooter: shooter.Entity, Dir: dir})
		s.Log.Debug("fire requested",
			zap.Uint64("shooter", uint64(shooter.Entity)),
			zap.Float64("dx", dir.X),
			zap.Float64("dy", dir.Y))
	}
}
