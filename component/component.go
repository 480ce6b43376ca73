// Package component defines the data attached to game entities. Components
// are plain values; behavior lives in package system.
package component

import (
	"strings"

	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
)

type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() geom.Vec2 { return geom.Vec2{X: p.X, Y: p.Y} }

// Velocity is in world units per second.
type Velocity struct {
	X, Y float64
}

func (v Velocity) Vec() geom.Vec2 { return geom.Vec2{X: v.X, Y: v.Y} }

type Acceleration struct {
	X, Y float64
}

type Mass struct {
	M float64
}

// Force is a constant body force applied every tick.
type Force struct {
	X, Y float64
}

// Friction marks an entity as drag-governed. Coeff scales kinetic friction.
type Friction struct {
	Coeff float64
}

// Volume is a static collision box relative to Position.
type Volume struct {
	Box geom.Rect
}

// Collide is a collision box recomputed every tick from the current sprite
// frame, relative to Position.
type Collide struct {
	Box geom.Rect
}

type Facing int

const (
	FacingDown Facing = iota
	FacingRight
	FacingLeft
	FacingUp
)

var facingNames = [...]string{"down", "right", "left", "up"}

func (f Facing) String() string {
	if f < 0 || int(f) >= len(facingNames) {
		return "unknown"
	}
	return facingNames[f]
}

// ParseFacing accepts "up", "down", "left" or "right" in any case.
func ParseFacing(s string) (Facing, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range facingNames {
		if s == name {
			return Facing(i), true
		}
	}
	return FacingDown, false
}

// Direction is the last intended facing. It selects the sprite row.
type Direction struct {
	Facing Facing
}

// Combat holds hit points.
type Combat struct {
	Health uint32
}

// Damage subtracts amount from health without wrapping below zero.
func (c *Combat) Damage(amount uint32) {
	if amount >= c.Health {
		c.Health = 0
		return
	}
	c.Health -= amount
}

type EnemyState int

const (
	Passive EnemyState = iota
	Aggressive
)

func (s EnemyState) String() string {
	if s == Aggressive {
		return "aggressive"
	}
	return "passive"
}

// Enemy is hostile AI state. Target is a weak reference, NoEntity when
// passive. A zero Radius uses the configured aggro radius.
type Enemy struct {
	State  EnemyState
	Target ecs.Entity
	Radius float64
}

// Bullet marks a projectile. Shooter is a weak reference to the entity that
// fired it; Hit is set by collision resolution and consumed by the
// projectile system.
type Bullet struct {
	Shooter ecs.Entity
	Hit     bool
	Age     float64
}

// Camera binds the viewport to a target entity.
type Camera struct {
	Target ecs.Entity
	Zoom   float64
}

// Input marks an entity as player controlled.
type Input struct {
	Pressing bool
}

// Cursor is the last mouse position in screen space.
type Cursor struct {
	X, Y float64
}

// Shooter lets an entity fire projectiles drawn from Atlas.
type Shooter struct {
	Atlas render.AtlasID
}

// Sprite references one tile of an atlas. Overlay sprites are drawn after
// every depth-sorted sprite.
type Sprite struct {
	Atlas   render.AtlasID
	Row     int
	Col     int
	Z       float64
	Overlay bool
}

// Label is a display name shown by the debug UI.
type Label struct {
	Text string
}

// Register adds every component kind to registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Acceleration](registry)
	ecs.RegisterComponent[Mass](registry)
	ecs.RegisterComponent[Force](registry)
	ecs.RegisterComponent[Friction](registry)
	ecs.RegisterComponent[Volume](registry)
	ecs.RegisterComponent[Collide](registry)
	ecs.RegisterComponent[Direction](registry)
	ecs.RegisterComponent[Combat](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Bullet](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[Input](registry)
	ecs.RegisterComponent[Cursor](registry)
	ecs.RegisterComponent[Shooter](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Label](registry)
}

// NewRegistry returns a registry with every component kind registered.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	Register(registry)
	return registry
}
