// Command ecs-stress runs the full simulation and render pipeline headless
// over a synthetic arena and prints a timing report.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/config"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/input"
	"github.com/plus3/embark/logging"
	"github.com/plus3/embark/render"
	"github.com/plus3/embark/system"
	"go.uber.org/zap"
)

const (
	arenaSize = 2048
	tileSize  = 16
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	enemyCount := flag.Int("entities", 2000, "The number of enemies to spawn.")
	seed := flag.Uint64("seed", 1, "Random seed for the arena layout.")
	fireEvery := flag.Int("fire-every", 10, "Ticks between player shots, 0 to never fire.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Defaults()
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ecs-stress:", err)
		os.Exit(1)
	}
	defer log.Sync()

	world := ecs.NewWorld(component.NewRegistry())
	pipeline := system.NewPipeline(world, cfg, nil, log)

	rng := rand.New(rand.NewPCG(*seed, *seed))
	populate(world, rng, *enemyCount)
	log.Info("arena populated", zap.Int("entities", world.Len()))

	report := &Report{
		Duration:       *duration,
		Entities:       world.Len(),
		Enemies:        *enemyCount,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	dt := 1 / float64(cfg.Window.TPS)
	viewport := geom.Vec2{X: float64(cfg.Window.Width), Y: float64(cfg.Window.Height)}
	canvas := &countingCanvas{}
	startTime := time.Now()

Loop:
	for tick := 0; ; tick++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		if *fireEvery > 0 && tick%*fireEvery == 0 {
			pipeline.Handle(input.MouseMove{X: rng.Float64() * viewport.X, Y: rng.Float64() * viewport.Y})
			pipeline.Handle(input.MouseButton{Button: input.ButtonLeft, Down: true})
		} else {
			pipeline.Handle(input.MouseButton{Button: input.ButtonLeft, Down: false})
		}

		updateStart := time.Now()
		pipeline.Tick(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))

		drawStart := time.Now()
		pipeline.Draw(canvas, viewport)
		report.DrawTime.Samples = append(report.DrawTime.Samples, time.Since(drawStart))

		report.TotalUpdates++
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.DrawTime.Finalize()
	report.EntitiesEnd = world.Len()
	report.DrawCalls = canvas.calls
	report.Schedulers = []SchedulerReport{
		{Name: "sim", Stats: pipeline.Sim.GetStats()},
		{Name: "render", Stats: pipeline.Render.GetStats()},
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

// populate spawns a player with a following camera, a ring of static walls
// and n wandering enemies.
func populate(world *ecs.World, rng *rand.Rand, n int) {
	atlas := render.NewAtlas("stress", 1, 4*tileSize, 4*tileSize, tileSize, tileSize, 0, 0)
	atlas.AddCollider(0, geom.Rect{X: 6, Y: 6, W: 4, H: 4})
	ecs.NewSingleton[render.Atlases](world).Get().Add(atlas)

	box := component.Volume{Box: geom.Rect{W: tileSize, H: tileSize}}
	player := world.Spawn(
		component.Position{X: arenaSize / 2, Y: arenaSize / 2},
		component.Velocity{},
		box,
		component.Input{},
		component.Direction{},
		component.Combat{Health: 1 << 20},
		component.Cursor{},
		component.Sprite{Atlas: "stress", Z: 1},
		component.Shooter{Atlas: "stress"},
		component.Label{Text: "player"},
	)
	world.Spawn(component.Camera{Target: player, Zoom: 1})

	for i := 0; i < arenaSize; i += tileSize {
		for _, pos := range []component.Position{
			{X: float64(i)}, {X: float64(i), Y: arenaSize},
			{Y: float64(i)}, {X: arenaSize, Y: float64(i)},
		} {
			world.Spawn(pos, component.Collide{Box: box.Box}, component.Sprite{Atlas: "stress", Row: 1})
		}
	}

	for range n {
		world.Spawn(
			component.Position{X: tileSize + rng.Float64()*(arenaSize-2*tileSize), Y: tileSize + rng.Float64()*(arenaSize-2*tileSize)},
			component.Velocity{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10},
			component.Acceleration{},
			component.Mass{M: 1 + rng.Float64()},
			component.Friction{Coeff: 0.1},
			box,
			component.Enemy{Radius: 64 + rng.Float64()*64},
			component.Combat{Health: uint32(1 + rng.IntN(100))},
			component.Sprite{Atlas: "stress", Row: 2, Col: rng.IntN(4)},
		)
	}
}

// countingCanvas discards draw calls.
type countingCanvas struct {
	calls int64
}

func (c *countingCanvas) DrawImage(render.TextureHandle, image.Rectangle, geom.Rect) { c.calls++ }
func (c *countingCanvas) DrawText(string, float64, float64, color.Color)             { c.calls++ }
func (c *countingCanvas) StrokeRect(geom.Rect, color.Color)                          { c.calls++ }
