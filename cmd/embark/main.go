// Command embark runs a TMX map as a playable top-down session.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/embark/component"
	"github.com/plus3/embark/config"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/ecs/debugui"
	debugui_ebiten "github.com/plus3/embark/ecs/debugui/ebiten"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/input"
	"github.com/plus3/embark/input/ebiteninput"
	"github.com/plus3/embark/loader"
	"github.com/plus3/embark/logging"
	"github.com/plus3/embark/render/ebitenrender"
	"github.com/plus3/embark/scripting"
	"github.com/plus3/embark/system"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file.")
	mapPath := flag.String("map", "", "Override the map path from the config.")
	flag.Parse()

	if err := run(*configPath, *mapPath); err != nil {
		fmt.Fprintln(os.Stderr, "embark:", err)
		os.Exit(1)
	}
}

func run(configPath, mapPath string) error {
	cfg := config.Defaults()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if mapPath != "" {
		cfg.Map.Path = mapPath
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	registry := component.NewRegistry()
	debugui.Register(registry)
	world := ecs.NewWorld(registry)

	textures := ebitenrender.NewTextures()
	m, err := loader.Load(cfg.Map.Path, textures, log.Named("loader"))
	if err != nil {
		return err
	}
	m.DefaultHealth = cfg.Combat.DefaultHealth
	m.DefaultZoom = cfg.Physics.DefaultZoom
	if cfg.Map.Prefabs != "" {
		if m.Prefabs, err = loader.LoadPrefabs(cfg.Map.Prefabs); err != nil {
			return err
		}
	}
	m.Populate(world)

	rules, err := scripting.NewEngine(cfg.Scripts.Dir, cfg.Scripts.Timeout,
		system.DefaultRules{Damage: cfg.Combat.BulletDamage}, log.Named("lua"))
	if err != nil {
		return err
	}
	defer rules.Close()

	pipeline := system.NewPipeline(world, cfg, rules, log)

	backend := ecs.NewSingleton(world, debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height))
	ui := ecs.NewScheduler(world)
	ui.Register(&debugui.ImguiSystem{})
	debugui.SpawnDebugUI(world, map[string]*ecs.Scheduler{
		"sim":    pipeline.Sim,
		"render": pipeline.Render,
	}, func() bool {
		return cfg.Debug.Overlay || pipeline.Input().Debug
	})

	game := &Game{
		pipeline: pipeline,
		ui:       ui,
		backend:  backend,
		imguiIO:  ecs.NewSingleton[debugui.ImguiInputState](world),
		source:   ebiteninput.NewSource(),
		canvas:   &ebitenrender.Canvas{Textures: textures},
		dt:       1 / float64(cfg.Window.TPS),
		log:      log,
	}

	log.Info("session started",
		zap.String("map", cfg.Map.Path),
		zap.Int("entities", world.Len()),
		zap.Int("tps", cfg.Window.TPS))
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	log.Info("session ended")
	return nil
}

// Game implements ebiten.Game on top of the system pipeline.
type Game struct {
	pipeline *system.Pipeline
	ui       *ecs.Scheduler
	backend  *ecs.Singleton[debugui_ebiten.ImguiBackend]
	imguiIO  *ecs.Singleton[debugui.ImguiInputState]
	source   *ebiteninput.Source
	canvas   *ebitenrender.Canvas
	events   []input.Event
	dt       float64
	log      *zap.Logger
}

func (g *Game) Update() error {
	captured := g.imguiIO.Get().WantCaptureMouse
	g.events = g.source.Poll(g.events[:0])
	for _, ev := range g.events {
		if reachesWorld(ev, captured) {
			g.pipeline.Handle(ev)
		}
	}
	if g.pipeline.Input().Quit {
		return ebiten.Termination
	}

	g.pipeline.Tick(g.dt)

	// ImguiSystem defers its render functions, so they run inside the frame
	g.backend.Get().Frame(func() {
		g.ui.Once(g.dt)
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	size := screen.Bounds().Size()
	g.canvas.Screen = screen
	g.pipeline.Draw(g.canvas, geom.Vec2{X: float64(size.X), Y: float64(size.Y)})
	g.backend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// reachesWorld reports whether ev goes to the game while ImGui may own the
// mouse. Button releases always pass so a press started in the world never
// stays latched.
func reachesWorld(ev input.Event, captured bool) bool {
	if !captured {
		return true
	}
	switch ev := ev.(type) {
	case input.MouseMove:
		return false
	case input.MouseButton:
		return !ev.Down
	}
	return true
}
