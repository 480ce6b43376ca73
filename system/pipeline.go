package system

import (
	"github.com/plus3/embark/config"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/input"
	"github.com/plus3/embark/render"
	"go.uber.org/zap"
)

// Pipeline owns the two schedulers that drive a session: Sim advances the
// world once per fixed tick, Render builds the draw queue once per frame.
type Pipeline struct {
	World  *ecs.World
	Sim    *ecs.Scheduler
	Render *ecs.Scheduler

	input *InputSystem
	state *ecs.Singleton[InputState]
	view  *ecs.Singleton[render.Camera]
	queue *ecs.Singleton[render.Queue]
}

// NewPipeline registers every system in tick order.
func NewPipeline(world *ecs.World, cfg *config.Config, rules Rules, log *zap.Logger) *Pipeline {
	if rules == nil {
		rules = DefaultRules{Damage: cfg.Combat.BulletDamage}
	}
	phys, combat := cfg.Physics, cfg.Combat

	ecs.AddSingleton(world, render.Camera{Zoom: phys.DefaultZoom})

	p := &Pipeline{
		World:  world,
		Sim:    ecs.NewScheduler(world),
		Render: ecs.NewScheduler(world),
		input: &InputSystem{
			Speed:    phys.PlayerSpeed,
			ZoomStep: phys.ZoomStep,
			MinZoom:  phys.MinZoom,
			Log:      log.Named("input"),
		},
		state: ecs.NewSingleton[InputState](world),
		view:  ecs.NewSingleton[render.Camera](world),
		queue: ecs.NewSingleton[render.Queue](world),
	}

	p.Sim.Register(p.input)
	p.Sim.Register(&AccelerationSystem{FrictionEpsilon: phys.FrictionEps})
	p.Sim.Register(&VelocitySystem{})
	p.Sim.Register(&DirectionSystem{})
	p.Sim.Register(&HitboxSystem{})
	p.Sim.Register(&CollisionDetectSystem{Log: log.Named("collision")})
	p.Sim.Register(&CollisionResolveSystem{Rules: rules, Log: log.Named("collision")})
	p.Sim.Register(&PositionSystem{})
	p.Sim.Register(&CombatAISystem{
		Rules:        rules,
		AggroRadius:  combat.AggroRadius,
		SteerImpulse: combat.SteerImpulse,
		MaxSpeed:     combat.MaxSpeed,
		Log:          log.Named("ai"),
	})
	p.Sim.Register(&ProjectileSystem{
		Speed: phys.BulletSpeed,
		Mass:  phys.BulletMass,
		Size:  phys.BulletSize,
		TTL:   phys.BulletTTL,
		Z:     phys.BulletLayerZ,
		Log:   log.Named("projectile"),
	})
	if combat.DespawnDead {
		p.Sim.Register(&DefeatSystem{Log: log.Named("combat")})
	}

	p.Render.Register(&CameraSystem{DefaultZoom: phys.DefaultZoom, Log: log.Named("camera")})
	p.Render.Register(&SpriteQueueSystem{})
	p.Render.Register(&UISystem{})
	if cfg.Debug.ShowColliders {
		p.Render.Register(&ColliderOverlaySystem{})
	}
	return p
}

// Handle feeds one input event to the input system.
func (p *Pipeline) Handle(ev input.Event) {
	p.input.Handle(ev)
}

// Input exposes the accumulated input state.
func (p *Pipeline) Input() *InputState {
	return p.state.Get()
}

// Tick advances the simulation by dt seconds.
func (p *Pipeline) Tick(dt float64) {
	p.Sim.Once(dt)
}

// Draw builds this frame's draw queue for a viewport of the given size and
// issues it to canvas.
func (p *Pipeline) Draw(canvas render.Canvas, viewport geom.Vec2) {
	p.view.Get().Viewport = viewport
	p.Render.Once(0)
	p.queue.Get().Flush(canvas)
}

// Camera returns the current world-to-screen transform.
func (p *Pipeline) Camera() render.Camera {
	return *p.view.Get()
}
