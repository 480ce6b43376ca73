// Package scripting exposes optional Lua hooks that override combat rules.
package scripting

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/system"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (game loop).
//
// Recognized globals:
//
//	bullet_damage(hit)          -> number   hit = {bullet, shooter, target, health, base}
//	aggro_radius(enemy, base)   -> number
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	timeout  time.Duration
	fallback system.Rules
}

// NewEngine creates a Lua engine and loads every .lua file in dir. A missing
// directory yields an engine with no hooks. fallback answers any hook that
// is not defined or fails.
func NewEngine(dir string, timeout time.Duration, fallback system.Rules, log *zap.Logger) (*Engine, error) {
	e := newEngine(timeout, fallback, log)
	if dir == "" {
		return e, nil
	}
	if err := e.loadDir(dir); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func newEngine(timeout time.Duration, fallback system.Rules, log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log, timeout: timeout, fallback: fallback}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, typically to define hooks.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasHook reports whether a global function is defined.
func (e *Engine) HasHook(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// call invokes a global function returning one number. ok is false when the
// hook is undefined, errors, times out, or returns a non-number or NaN.
func (e *Engine) call(name string, args ...lua.LValue) (float64, bool) {
	fn, isFn := e.vm.GetGlobal(name).(*lua.LFunction)
	if !isFn {
		return 0, false
	}

	if e.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		e.vm.SetContext(ctx)
		defer e.vm.RemoveContext()
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, isNum := result.(lua.LNumber)
	if !isNum {
		e.log.Error("lua hook returned non-number", zap.String("func", name), zap.String("type", result.Type().String()))
		return 0, false
	}
	if math.IsNaN(float64(n)) {
		e.log.Error("lua hook returned NaN", zap.String("func", name))
		return 0, false
	}
	return float64(n), true
}

// BulletDamage implements system.Rules.
func (e *Engine) BulletDamage(hit system.Hit) uint32 {
	t := e.vm.NewTable()
	t.RawSetString("bullet", entityValue(hit.Bullet))
	t.RawSetString("shooter", entityValue(hit.Shooter))
	t.RawSetString("target", entityValue(hit.Target))
	t.RawSetString("health", lua.LNumber(hit.Health))
	t.RawSetString("base", lua.LNumber(e.fallback.BulletDamage(hit)))

	dmg, ok := e.call("bullet_damage", t)
	if !ok {
		return e.fallback.BulletDamage(hit)
	}
	switch {
	case dmg < 0:
		return 0
	case dmg >= math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(dmg)
}

// AggroRadius implements system.Rules.
func (e *Engine) AggroRadius(enemy ecs.Entity, base float64) float64 {
	fallback := e.fallback.AggroRadius(enemy, base)
	r, ok := e.call("aggro_radius", entityValue(enemy), lua.LNumber(fallback))
	if !ok || r < 0 {
		return fallback
	}
	return r
}

func entityValue(id ecs.Entity) lua.LValue {
	return lua.LNumber(id)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
