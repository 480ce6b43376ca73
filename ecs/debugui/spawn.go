package debugui

import (
	"github.com/plus3/embark/ecs"
)

// Panels bundles the inspector windows. Enabled gates all of them at once.
type Panels struct {
	Enabled func() bool

	browser    *EntityBrowser
	inspector  *ComponentInspector
	stores     *StoreViewer
	queries    *QueryDebugger
	perf       *PerformanceStats
	world      *ecs.World
	schedulers map[string]*ecs.Scheduler
}

// SpawnDebugUI adds an ImguiItem entity that draws the inspector windows for
// world. Schedulers are listed by name in the performance window.
func SpawnDebugUI(world *ecs.World, schedulers map[string]*ecs.Scheduler, enabled func() bool) *Panels {
	p := &Panels{
		Enabled:    enabled,
		browser:    NewEntityBrowser(100),
		inspector:  NewComponentInspector(),
		stores:     NewStoreViewer(),
		queries:    NewQueryDebugger(),
		perf:       NewPerformanceStats(120),
		world:      world,
		schedulers: schedulers,
	}
	world.Spawn(ImguiItem{Render: p.render})
	return p
}

func (p *Panels) render() {
	if p.Enabled != nil && !p.Enabled() {
		return
	}
	p.browser.Render(p.world)
	p.inspector.Render(p.world, p.browser.Selected())
	if kind := p.stores.Render(p.world); kind != nil {
		p.browser.FilterKind(kind)
	}
	p.queries.Render(p.world)
	p.perf.Render(p.world, p.schedulers)
}
