// Package config loads engine settings from TOML (or YAML) over built-in
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Window  WindowConfig  `toml:"window" yaml:"window"`
	Map     MapConfig     `toml:"map" yaml:"map"`
	Physics PhysicsConfig `toml:"physics" yaml:"physics"`
	Combat  CombatConfig  `toml:"combat" yaml:"combat"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Scripts ScriptsConfig `toml:"scripts" yaml:"scripts"`
	Debug   DebugConfig   `toml:"debug" yaml:"debug"`
}

type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	TPS    int    `toml:"tps" yaml:"tps"` // simulation ticks per second
}

type MapConfig struct {
	Path    string `toml:"path" yaml:"path"`
	Prefabs string `toml:"prefabs" yaml:"prefabs"` // optional YAML prefab table
}

type PhysicsConfig struct {
	PlayerSpeed  float64 `toml:"player_speed" yaml:"player_speed"`
	ZoomStep     float64 `toml:"zoom_step" yaml:"zoom_step"` // per tick while a zoom key is held
	MinZoom      float64 `toml:"min_zoom" yaml:"min_zoom"`
	FrictionEps  float64 `toml:"friction_epsilon" yaml:"friction_epsilon"`
	DefaultZoom  float64 `toml:"default_zoom" yaml:"default_zoom"`
	BulletSpeed  float64 `toml:"bullet_speed" yaml:"bullet_speed"`
	BulletMass   float64 `toml:"bullet_mass" yaml:"bullet_mass"`
	BulletTTL    float64 `toml:"bullet_ttl" yaml:"bullet_ttl"` // seconds, 0 disables expiry
	BulletSize   float64 `toml:"bullet_size" yaml:"bullet_size"`
	BulletLayerZ float64 `toml:"bullet_layer_z" yaml:"bullet_layer_z"`
}

type CombatConfig struct {
	BulletDamage  uint32  `toml:"bullet_damage" yaml:"bullet_damage"`
	AggroRadius   float64 `toml:"aggro_radius" yaml:"aggro_radius"`
	SteerImpulse  float64 `toml:"steer_impulse" yaml:"steer_impulse"`
	MaxSpeed      float64 `toml:"max_speed" yaml:"max_speed"`
	DefaultHealth uint32  `toml:"default_health" yaml:"default_health"`
	DespawnDead   bool    `toml:"despawn_dead" yaml:"despawn_dead"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
	File   string `toml:"file" yaml:"file"`     // extra output path, empty for stderr only
}

type ScriptsConfig struct {
	Dir     string        `toml:"dir" yaml:"dir"`
	Timeout time.Duration `toml:"timeout" yaml:"timeout"`
}

type DebugConfig struct {
	Overlay       bool `toml:"overlay" yaml:"overlay"`
	ShowColliders bool `toml:"show_colliders" yaml:"show_colliders"`
}

// Load reads path over the defaults. Files ending in .yaml or .yml are
// decoded as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window.tps must be positive, got %d", c.Window.TPS)
	}
	if c.Physics.DefaultZoom == 0 {
		return fmt.Errorf("physics.default_zoom must be non-zero")
	}
	if c.Combat.AggroRadius < 0 {
		return fmt.Errorf("combat.aggro_radius must not be negative")
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "embark",
			Width:  640,
			Height: 480,
			TPS:    60,
		},
		Map: MapConfig{
			Path: "assets/testmap.tmx",
		},
		Physics: PhysicsConfig{
			PlayerSpeed:  30,
			ZoomStep:     1.0 / 60.0,
			MinZoom:      0.1,
			FrictionEps:  1e-6,
			DefaultZoom:  1,
			BulletSpeed:  60,
			BulletMass:   1,
			BulletTTL:    3,
			BulletSize:   4,
			BulletLayerZ: 1,
		},
		Combat: CombatConfig{
			BulletDamage:  25,
			AggroRadius:   48, // 3 tiles of 16px
			SteerImpulse:  0.3,
			MaxSpeed:      30,
			DefaultHealth: 4,
			DespawnDead:   true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripts: ScriptsConfig{
			Timeout: 50 * time.Millisecond,
		},
	}
}
