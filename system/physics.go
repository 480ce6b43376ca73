package system

import (
	"math"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
)

// AccelerationSystem recomputes acceleration from the forces acting on each
// body. The result overwrites the previous tick's value.
type AccelerationSystem struct {
	Bodies ecs.Query[struct {
		*component.Acceleration
		*component.Mass
		Force    *component.Force    `ecs:"optional"`
		Friction *component.Friction `ecs:"optional"`
		Velocity *component.Velocity `ecs:"optional"`
	}]

	// FrictionEpsilon is the speed below which kinetic friction is not
	// applied, so resting bodies don't jitter.
	FrictionEpsilon float64
}

func (s *AccelerationSystem) Execute(frame *ecs.UpdateFrame) {
	for body := range s.Bodies.Values() {
		m := body.Mass.M
		if m <= 0 {
			continue
		}

		var rx, ry float64
		if body.Force != nil {
			rx += body.Force.X
			ry += body.Force.Y
		}

		// kinetic friction opposes the direction of travel
		if body.Friction != nil && body.Velocity != nil {
			ux, uy := body.Velocity.X, body.Velocity.Y
			if mag := math.Hypot(ux, uy); mag > s.FrictionEpsilon {
				rx -= ux / mag * body.Friction.Coeff * m
				ry -= uy / mag * body.Friction.Coeff * m
			}
		}

		body.Acceleration.X = rx / m
		body.Acceleration.Y = ry / m
	}
}

// VelocitySystem integrates acceleration into velocity.
type VelocitySystem struct {
	Bodies ecs.Query[struct {
		*component.Velocity
		*component.Acceleration
	}]
}

func (s *VelocitySystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DeltaTime
	for body := range s.Bodies.Values() {
		body.Velocity.X += dt * body.Acceleration.X
		body.Velocity.Y += dt * body.Acceleration.Y
	}
}

// PositionSystem integrates velocity into position. It runs after collision
// resolution so resolved velocities are the ones applied.
type PositionSystem struct {
	Bodies ecs.Query[struct {
		*component.Position
		*component.Velocity
	}]
}

func (s *PositionSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DeltaTime
	for body := range s.Bodies.Values() {
		body.Position.X += dt * body.Velocity.X
		body.Position.Y += dt * body.Velocity.Y
	}
}
