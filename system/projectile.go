package system

import (
	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
	"go.uber.org/zap"
)

// ProjectileSystem spawns bullets for queued fire requests and removes
// bullets that have hit something or outlived their TTL.
type ProjectileSystem struct {
	Shots   ecs.Singleton[ShotQueue]
	Atlases ecs.Singleton[render.Atlases]
	Bullets ecs.Query[struct {
		ecs.Entity
		*component.Bullet
	}]

	Speed float64
	Mass  float64
	Size  float64 // fallback box edge when the atlas has no collider
	TTL   float64 // seconds, 0 keeps bullets until they hit
	Z     float64
	Log   *zap.Logger
}

func (s *ProjectileSystem) Execute(frame *ecs.UpdateFrame) {
	shots := s.Shots.Get()
	for _, req := range shots.Requests {
		s.fire(frame, req)
	}
	clear(shots.Requests)
	shots.Requests = shots.Requests[:0]

	for bullet := range s.Bullets.Values() {
		bullet.Bullet.Age += frame.DeltaTime
		if bullet.Bullet.Hit || (s.TTL > 0 && bullet.Bullet.Age >= s.TTL) {
			frame.Commands.Delete(bullet.Entity)
		}
	}
}

func (s *ProjectileSystem) fire(frame *ecs.UpdateFrame, req FireRequest) {
	w := frame.World
	pos, ok := ecs.Get[component.Position](w, req.Shooter)
	if !ok {
		return
	}
	shooter, ok := ecs.Get[component.Shooter](w, req.Shooter)
	if !ok {
		return
	}

	vel := req.Dir.Scale(s.Speed)
	if sv, ok := ecs.Get[component.Velocity](w, req.Shooter); ok {
		vel = vel.Add(sv.Vec())
	}

	box, ok := s.Atlases.Get().FirstBox(shooter.Atlas, 0)
	if !ok {
		box = geom.Rect{W: s.Size, H: s.Size}
	}

	frame.Commands.Spawn(
		component.Position{X: pos.X, Y: pos.Y},
		component.Velocity{X: vel.X, Y: vel.Y},
		component.Volume{Box: box},
		component.Mass{M: s.Mass},
		component.Bullet{Shooter: req.Shooter},
		component.Sprite{Atlas: shooter.Atlas, Z: s.Z},
	)
	s.Log.Debug("bullet fired",
		zap.Uint64("shooter", uint64(req.Shooter)),
		zap.Float64("vx", vel.X),
		zap.Float64("vy", vel.Y))
}

// DefeatSystem despawns enemies whose health has run out.
type DefeatSystem struct {
	Enemies ecs.Query[struct {
		ecs.Entity
		*component.Enemy
		*component.Combat
	}]
	Log *zap.Logger
}

func (s *DefeatSystem) Execute(frame *ecs.UpdateFrame) {
	for enemy := range s.Enemies.Values() {
		if enemy.Combat.Health == 0 {
			frame.Commands.Delete(enemy.Entity)
			s.Log.Info("enemy defeated", zap.Uint64("enemy", uint64(enemy.Entity)))
		}
	}
}
