package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/ecs/debugui"
	debugui_ebiten "github.com/plus3/embark/ecs/debugui/ebiten"
)

// Game implements ebiten.Game and integrates the ECS with ImGui rendering.
type Game struct {
	world        *ecs.World
	scheduler    *ecs.Scheduler
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *Game) Update() error {
	// ImguiSystem defers its render functions, so they run inside the frame
	g.imguiBackend.Get().Frame(func() {
		g.scheduler.Once(1.0 / 60.0)
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw game content to screen
	// ...

	// Draw ImGui overlay on top
	g.imguiBackend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	registry := ecs.NewComponentRegistry()
	debugui.Register(registry)
	world := ecs.NewWorld(registry)

	ecs.NewSingleton(world, debugui_ebiten.NewImguiBackend("ECS ImGui Example", 1280, 720))

	world.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from ECS!")
			imgui.End()
		},
	})

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(&debugui.ImguiSystem{})
	debugui.SpawnDebugUI(world, map[string]*ecs.Scheduler{"main": scheduler}, nil)

	game := &Game{
		world:        world,
		scheduler:    scheduler,
		imguiBackend: ecs.NewSingleton[debugui_ebiten.ImguiBackend](world),
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
