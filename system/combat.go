package system

import (
	"math"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"go.uber.org/zap"
)

// CombatAISystem steers enemies toward the nearest combatant inside their
// aggro radius. A target stays locked while it remains valid and in range.
type CombatAISystem struct {
	Enemies ecs.Query[struct {
		ecs.Entity
		*component.Position
		*component.Velocity
		*component.Enemy
	}]
	Targets ecs.View[struct {
		ecs.Entity
		*component.Position
		*component.Velocity
		*component.Combat
	}]

	Rules        Rules
	AggroRadius  float64
	SteerImpulse float64
	MaxSpeed     float64
	Log          *zap.Logger
}

func (s *CombatAISystem) Execute(frame *ecs.UpdateFrame) {
	w := frame.World
	for enemy := range s.Enemies.Values() {
		radius := enemy.Enemy.Radius
		if radius == 0 {
			radius = s.AggroRadius
		}
		radius = s.Rules.AggroRadius(enemy.Entity, radius)
		pos := enemy.Position.Vec()

		target, targetPos, ok := s.keep(w, enemy.Enemy.Target, pos, radius)
		if !ok {
			target, targetPos, ok = s.nearest(w, enemy.Entity, pos, radius)
		}

		if !ok {
			if enemy.Enemy.State == component.Aggressive {
				enemy.Velocity.X, enemy.Velocity.Y = 0, 0
				s.Log.Debug("enemy lost target", zap.Uint64("enemy", uint64(enemy.Entity)))
			}
			enemy.Enemy.State = component.Passive
			enemy.Enemy.Target = ecs.NoEntity
			continue
		}

		if enemy.Enemy.Target != target {
			s.Log.Debug("enemy acquired target",
				zap.Uint64("enemy", uint64(enemy.Entity)),
				zap.Uint64("target", uint64(target)))
		}
		enemy.Enemy.State = component.Aggressive
		enemy.Enemy.Target = target
		s.steer(enemy.Velocity, targetPos.Sub(pos))
	}
}

// keep revalidates the current target.
func (s *CombatAISystem) keep(w *ecs.World, target ecs.Entity, pos geom.Vec2, radius float64) (ecs.Entity, geom.Vec2, bool) {
	if target == ecs.NoEntity || !w.Alive(target) || ecs.Has[component.Enemy](w, target) {
		return ecs.NoEntity, geom.Vec2{}, false
	}
	t := s.Targets.Get(target)
	if t == nil {
		return ecs.NoEntity, geom.Vec2{}, false
	}
	tp := t.Position.Vec()
	if tp.Sub(pos).Len() >= radius {
		return ecs.NoEntity, geom.Vec2{}, false
	}
	return target, tp, true
}

// nearest picks the closest combatant strictly inside radius. Ties go to the
// lowest entity id. Enemies never target each other.
func (s *CombatAISystem) nearest(w *ecs.World, self ecs.Entity, pos geom.Vec2, radius float64) (ecs.Entity, geom.Vec2, bool) {
	best := ecs.NoEntity
	var bestPos geom.Vec2
	bestDist := math.Inf(1)
	for e, t := range s.Targets.Iter() {
		if e == self || ecs.Has[component.Enemy](w, e) {
			continue
		}
		tp := t.Position.Vec()
		d := tp.Sub(pos).Len()
		if d < radius && d < bestDist {
			best, bestPos, bestDist = e, tp, d
		}
	}
	return best, bestPos, best != ecs.NoEntity
}

// steer nudges v toward dir and clamps its magnitude to MaxSpeed.
func (s *CombatAISystem) steer(v *component.Velocity, dir geom.Vec2) {
	unit, ok := dir.Normalize()
	if !ok {
		return
	}
	v.X += unit.X * s.SteerImpulse
	v.Y += unit.Y * s.SteerImpulse

	speed := v.Vec().Len()
	if s.MaxSpeed > 0 && speed > s.MaxSpeed {
		v.X = v.X / speed * s.MaxSpeed
		v.Y = v.Y / speed * s.MaxSpeed
	}
}
