// Package system contains the per-tick passes that advance the game world,
// and the Pipeline that runs them in their fixed order.
package system

import "github.com/plus3/embark/ecs"

// Hit describes a bullet striking a combatant.
type Hit struct {
	Bullet  ecs.Entity
	Shooter ecs.Entity
	Target  ecs.Entity
	Health  uint32
}

// Rules supplies the tunable combat numbers. The scripting package provides
// a Lua-backed implementation.
type Rules interface {
	BulletDamage(hit Hit) uint32
	AggroRadius(enemy ecs.Entity, base float64) float64
}

// DefaultRules applies fixed damage and the configured aggro radius.
type DefaultRules struct {
	Damage uint32
}

func (r DefaultRules) BulletDamage(Hit) uint32 {
	return r.Damage
}

func (DefaultRules) AggroRadius(_ ecs.Entity, base float64) float64 {
	return base
}
