package scripting

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/embark/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestEngine(t *testing.T, src string) *Engine {
	t.Helper()
	e := newEngine(50*time.Millisecond, system.DefaultRules{Damage: 25}, zaptest.NewLogger(t))
	t.Cleanup(e.Close)
	if src != "" {
		require.NoError(t, e.LoadString(src))
	}
	return e
}

func TestBulletDamageFallback(t *testing.T) {
	e := newTestEngine(t, "")
	assert.False(t, e.HasHook("bullet_damage"))
	assert.Equal(t, uint32(25), e.BulletDamage(system.Hit{Health: 100}))
}

func TestBulletDamageHook(t *testing.T) {
	e := newTestEngine(t, `
function bullet_damage(hit)
  if hit.health <= 10 then
    return hit.health
  end
  return hit.base * 2
end
`)
	assert.Equal(t, uint32(50), e.BulletDamage(system.Hit{Bullet: 3, Shooter: 1, Target: 2, Health: 100}))
	assert.Equal(t, uint32(7), e.BulletDamage(system.Hit{Health: 7}))
}

func TestBulletDamageHookErrors(t *testing.T) {
	e := newTestEngine(t, `
function bullet_damage(hit)
  error("boom")
end
function aggro_radius(enemy, base)
  return "far"
end
`)
	assert.Equal(t, uint32(25), e.BulletDamage(system.Hit{}))
	assert.Equal(t, 48.0, e.AggroRadius(1, 48))
}

func TestNegativeDamageClamps(t *testing.T) {
	e := newTestEngine(t, `function bullet_damage(hit) return -5 end`)
	assert.Equal(t, uint32(0), e.BulletDamage(system.Hit{}))
}

func TestHookTimeout(t *testing.T) {
	e := newTestEngine(t, `function bullet_damage(hit) while true do end end`)
	start := time.Now()
	assert.Equal(t, uint32(25), e.BulletDamage(system.Hit{}))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAggroRadiusHook(t *testing.T) {
	e := newTestEngine(t, `
function aggro_radius(enemy, base)
  if enemy == 7 then return base * 2 end
  return base
end
`)
	assert.Equal(t, 96.0, e.AggroRadius(7, 48))
	assert.Equal(t, 48.0, e.AggroRadius(8, 48))
}

func TestNewEngineLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "combat.lua"),
		[]byte(`function bullet_damage(hit) return 1 end`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0o644))

	e, err := NewEngine(dir, time.Second, system.DefaultRules{Damage: 25}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, uint32(1), e.BulletDamage(system.Hit{}))

	missing, err := NewEngine(filepath.Join(dir, "nope"), time.Second, system.DefaultRules{Damage: 25}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer missing.Close()
	assert.False(t, missing.HasHook("bullet_damage"))
}

func TestNewEngineReportsSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`function (`), 0o644))

	_, err := NewEngine(dir, time.Second, system.DefaultRules{Damage: 25}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "bad.lua")
}

func TestHookResultsOutOfRange(t *testing.T) {
	e := newTestEngine(t, `
local zero = 0
function bullet_damage(hit)
  if hit.health == 1 then
    return zero/zero
  end
  return math.huge
end
function aggro_radius(enemy, base)
  return zero/zero
end
`)
	assert.Equal(t, uint32(25), e.BulletDamage(system.Hit{Health: 1}), "NaN falls back to the base damage")
	assert.Equal(t, uint32(math.MaxUint32), e.BulletDamage(system.Hit{Health: 100}))
	assert.Equal(t, 48.0, e.AggroRadius(1, 48), "NaN falls back to the base radius")
}
