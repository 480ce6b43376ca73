package system

import (
	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
	"go.uber.org/zap"
)

// Contact is an unordered pair of overlapping entities, stored with A < B.
type Contact struct {
	A, B ecs.Entity
}

// Contacts holds the pairs found by detection for resolution to consume.
type Contacts struct {
	Pairs []Contact
}

// HitboxSystem keeps each sprite's collision box in sync with the tile it
// currently shows.
type HitboxSystem struct {
	Atlases ecs.Singleton[render.Atlases]
	Shapes  ecs.Query[struct {
		*component.Collide
		*component.Sprite
	}]
}

func (s *HitboxSystem) Execute(frame *ecs.UpdateFrame) {
	atlases := s.Atlases.Get()
	for item := range s.Shapes.Values() {
		if box, ok := atlases.CollisionBox(item.Sprite.Atlas, item.Sprite.Row, item.Sprite.Col); ok {
			item.Collide.Box = box
		}
	}
}

// Shape returns the world-space box e collides with. A Collide box takes
// precedence over Volume. The box is offset by Position when present.
func Shape(w *ecs.World, e ecs.Entity) (geom.Rect, bool) {
	var box geom.Rect
	if c, ok := ecs.Get[component.Collide](w, e); ok {
		box = c.Box
	} else if v, ok := ecs.Get[component.Volume](w, e); ok {
		box = v.Box
	} else {
		return geom.Rect{}, false
	}
	if p, ok := ecs.Get[component.Position](w, e); ok {
		box = box.Offset(p.Vec())
	}
	return box, true
}

// DetectContacts finds every pair of collidable entities whose boxes overlap
// after moving bodies are projected dt seconds along their velocity. Pairs
// where neither entity moves are never reported.
func DetectContacts(w *ecs.World, dt float64) []Contact {
	type candidate struct {
		entity ecs.Entity
		rect   geom.Rect
		moving bool
	}

	var candidates []candidate
	for _, e := range w.Entities() {
		rect, ok := Shape(w, e)
		if !ok {
			continue
		}
		c := candidate{entity: e, rect: rect}
		if v, ok := ecs.Get[component.Velocity](w, e); ok {
			c.rect = rect.Offset(v.Vec().Scale(dt))
			c.moving = true
		}
		candidates = append(candidates, c)
	}

	var contacts []Contact
	for i := range candidates {
		a := candidates[i]
		for j := i + 1; j < len(candidates); j++ {
			b := candidates[j]
			if !a.moving && !b.moving {
				continue
			}
			if a.rect.Overlaps(b.rect) {
				contacts = append(contacts, Contact{A: a.entity, B: b.entity})
			}
		}
	}
	return contacts
}

// CollisionDetectSystem publishes this tick's contacts.
type CollisionDetectSystem struct {
	Contacts ecs.Singleton[Contacts]
	Log      *zap.Logger
}

func (s *CollisionDetectSystem) Execute(frame *ecs.UpdateFrame) {
	contacts := s.Contacts.Get()
	contacts.Pairs = DetectContacts(frame.World, frame.DeltaTime)
	if len(contacts.Pairs) > 0 {
		s.Log.Debug("contacts detected", zap.Int("pairs", len(contacts.Pairs)))
	}
}

// CollisionResolveSystem applies the outcome of each contact: bullet hits,
// elastic bounces between free bodies, or a full stop.
type CollisionResolveSystem struct {
	Contacts ecs.Singleton[Contacts]
	Rules    Rules
	Log      *zap.Logger
}

func (s *CollisionResolveSystem) Execute(frame *ecs.UpdateFrame) {
	contacts := s.Contacts.Get()
	for _, c := range contacts.Pairs {
		s.resolve(frame.World, c.A, c.B)
	}
	contacts.Pairs = contacts.Pairs[:0]
}

func (s *CollisionResolveSystem) resolve(w *ecs.World, a, b ecs.Entity) {
	if !w.Alive(a) || !w.Alive(b) {
		return
	}

	bulletA, aIsBullet := ecs.Get[component.Bullet](w, a)
	bulletB, bIsBullet := ecs.Get[component.Bullet](w, b)

	// a bullet passes through whoever fired it
	if (aIsBullet && bulletA.Shooter == b) || (bIsBullet && bulletB.Shooter == a) {
		return
	}

	switch {
	case aIsBullet:
		s.hit(w, a, bulletA, b)
	case bIsBullet:
		s.hit(w, b, bulletB, a)
	case elastic(w, a, b):
	default:
		stop(w, a)
		stop(w, b)
	}
}

func (s *CollisionResolveSystem) hit(w *ecs.World, bullet ecs.Entity, b *component.Bullet, target ecs.Entity) {
	b.Hit = true

	combat, ok := ecs.Get[component.Combat](w, target)
	if !ok {
		return
	}
	damage := s.Rules.BulletDamage(Hit{
		Bullet:  bullet,
		Shooter: b.Shooter,
		Target:  target,
		Health:  combat.Health,
	})
	combat.Damage(damage)

	s.Log.Debug("bullet hit",
		zap.Uint64("bullet", uint64(bullet)),
		zap.Uint64("target", uint64(target)),
		zap.Uint32("damage", damage),
		zap.Uint32("health", combat.Health))
}

// elastic applies a one-dimensional elastic collision per axis when both
// bodies are free to move. Two bodies that both feel friction are treated
// as resting against each other instead.
func elastic(w *ecs.World, a, b ecs.Entity) bool {
	ma, okA := ecs.Get[component.Mass](w, a)
	mb, okB := ecs.Get[component.Mass](w, b)
	if !okA || !okB {
		return false
	}
	if ecs.Has[component.Friction](w, a) && ecs.Has[component.Friction](w, b) {
		return false
	}
	va, okA := ecs.Get[component.Velocity](w, a)
	vb, okB := ecs.Get[component.Velocity](w, b)
	if !okA || !okB {
		return false
	}
	total := ma.M + mb.M
	if total <= 0 {
		return false
	}

	ax := ((ma.M-mb.M)*va.X + 2*mb.M*vb.X) / total
	ay := ((ma.M-mb.M)*va.Y + 2*mb.M*vb.Y) / total
	bx := ((mb.M-ma.M)*vb.X + 2*ma.M*va.X) / total
	by := ((mb.M-ma.M)*vb.Y + 2*ma.M*va.Y) / total

	va.X, va.Y = ax, ay
	vb.X, vb.Y = bx, by
	return true
}

func stop(w *ecs.World, e ecs.Entity) {
	if v, ok := ecs.Get[component.Velocity](w, e); ok {
		v.X, v.Y = 0, 0
	}
}
