package debugui

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/embark/ecs"
)

// PerformanceStats plots frame times and per-system timings.
type PerformanceStats struct {
	history []float32
	index   int
	timer   FrameTimer
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	return &PerformanceStats{
		history: make([]float32, historyFrames),
		timer:   FrameTimer{last: time.Now()},
	}
}

func (ps *PerformanceStats) Render(world *ecs.World, schedulers map[string]*ecs.Scheduler) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	ps.history[ps.index] = ps.timer.Delta() * 1000
	ps.index = (ps.index + 1) % len(ps.history)

	stats := world.Stats()
	imgui.Text(fmt.Sprintf("Entities: %d", stats.Entities))
	imgui.Text(fmt.Sprintf("Component kinds: %d", len(stats.Components)))

	var avg float32
	for _, ft := range ps.history {
		avg += ft
	}
	avg /= float32(len(ps.history))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.history[0], int32(len(ps.history)))

	for _, name := range slices.Sorted(maps.Keys(schedulers)) {
		scheduler := schedulers[name]
		if !imgui.TreeNodeStr(name) {
			continue
		}
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable##"+name, 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, s := range scheduler.GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(s.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}
}

// FrameTimer measures wall time between calls to Delta.
type FrameTimer struct {
	last time.Time
}

// Delta returns seconds since the previous call.
func (ft *FrameTimer) Delta() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.last).Seconds())
	ft.last = now
	return delta
}
