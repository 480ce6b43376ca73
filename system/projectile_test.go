package system_test

import (
	"testing"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
	"github.com/plus3/embark/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectiles(t *testing.T) *system.ProjectileSystem {
	return &system.ProjectileSystem{Speed: 60, Mass: 1, Size: 4, TTL: 3, Z: 1, Log: testLogger(t)}
}

func bullets(w *ecs.World) []ecs.Entity {
	var out []ecs.Entity
	for _, e := range w.Entities() {
		if ecs.Has[component.Bullet](w, e) {
			out = append(out, e)
		}
	}
	return out
}

func TestFireSpawnsBulletAtEndOfTick(t *testing.T) {
	w := newWorld()
	atlas := render.NewAtlas("shots", 2, 32, 32, 8, 8, 0, 0)
	atlas.AddCollider(0, geom.Rect{X: 2, Y: 2, W: 3, H: 3})
	ecs.NewSingleton[render.Atlases](w).Get().Add(atlas)

	shooter := w.Spawn(component.Position{X: 5, Y: 6}, component.Velocity{X: 1, Y: 2}, component.Shooter{Atlas: "shots"})
	shots := ecs.NewSingleton[system.ShotQueue](w).Get()
	shots.Requests = append(shots.Requests, system.FireRequest{Shooter: shooter, Dir: geom.Vec2{Y: 1}})

	runOnce(w, 1.0/60, newProjectiles(t))

	assert.Empty(t, shots.Requests)
	spawned := bullets(w)
	require.Len(t, spawned, 1)
	b := spawned[0]

	p, _ := ecs.Get[component.Position](w, b)
	assert.Equal(t, component.Position{X: 5, Y: 6}, *p)
	v, _ := ecs.Get[component.Velocity](w, b)
	assert.Equal(t, component.Velocity{X: 1, Y: 62}, *v)
	vol, _ := ecs.Get[component.Volume](w, b)
	assert.Equal(t, geom.Rect{X: 2, Y: 2, W: 3, H: 3}, vol.Box)
	bullet, _ := ecs.Get[component.Bullet](w, b)
	assert.Equal(t, shooter, bullet.Shooter)
	sprite, _ := ecs.Get[component.Sprite](w, b)
	assert.Equal(t, component.Sprite{Atlas: "shots", Z: 1}, *sprite)
	m, _ := ecs.Get[component.Mass](w, b)
	assert.Equal(t, 1.0, m.M)
}

func TestFireWithoutColliderUsesFallbackBox(t *testing.T) {
	w := newWorld()
	shooter := w.Spawn(component.Position{}, component.Shooter{Atlas: "none"})
	shots := ecs.NewSingleton[system.ShotQueue](w).Get()
	shots.Requests = append(shots.Requests, system.FireRequest{Shooter: shooter, Dir: geom.Vec2{X: 1}})

	runOnce(w, 1.0/60, newProjectiles(t))

	spawned := bullets(w)
	require.Len(t, spawned, 1)
	vol, _ := ecs.Get[component.Volume](w, spawned[0])
	assert.Equal(t, geom.Rect{W: 4, H: 4}, vol.Box)
}

func TestFireFromDeadShooterIsDropped(t *testing.T) {
	w := newWorld()
	shooter := w.Spawn(component.Position{}, component.Shooter{})
	w.DestroyEntity(shooter)
	shots := ecs.NewSingleton[system.ShotQueue](w).Get()
	shots.Requests = append(shots.Requests, system.FireRequest{Shooter: shooter, Dir: geom.Vec2{X: 1}})

	runOnce(w, 1.0/60, newProjectiles(t))

	assert.Empty(t, bullets(w))
	assert.Empty(t, shots.Requests)
}

func TestHitAndExpiredBulletsAreRemoved(t *testing.T) {
	w := newWorld()
	hit := w.Spawn(component.Bullet{Hit: true})
	old := w.Spawn(component.Bullet{Age: 2.99})
	fresh := w.Spawn(component.Bullet{})

	runOnce(w, 0.5, newProjectiles(t))

	assert.False(t, w.Alive(hit))
	assert.False(t, w.Alive(old))
	assert.True(t, w.Alive(fresh))
	b, _ := ecs.Get[component.Bullet](w, fresh)
	assert.Equal(t, 0.5, b.Age)
}

func TestDefeatDespawnsDeadEnemies(t *testing.T) {
	w := newWorld()
	dead := w.Spawn(component.Enemy{}, component.Combat{})
	alive := w.Spawn(component.Enemy{}, component.Combat{Health: 1})
	player := w.Spawn(component.Combat{})

	runOnce(w, 1, &system.DefeatSystem{Log: testLogger(t)})

	assert.False(t, w.Alive(dead))
	assert.True(t, w.Alive(alive))
	assert.True(t, w.Alive(player))
}
