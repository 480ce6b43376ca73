package debugui

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/embark/ecs"
)

// QueryDebugger counts the entities matching an ad hoc set of component
// kinds, the same test a Query applies.
type QueryDebugger struct {
	selected map[reflect.Type]bool
	preview  int
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{selected: make(map[reflect.Type]bool), preview: 20}
}

func (qd *QueryDebugger) Render(world *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	imgui.Text("Select Component Types:")
	imgui.Separator()
	if imgui.Button("Clear All") {
		clear(qd.selected)
	}

	kinds := world.Registry().Types()
	for _, t := range kinds {
		on := qd.selected[t]
		if imgui.Checkbox(t.String(), &on) {
			if on {
				qd.selected[t] = true
			} else {
				delete(qd.selected, t)
			}
		}
	}
	imgui.Separator()

	var required []reflect.Type
	for _, t := range kinds {
		if qd.selected[t] {
			required = append(required, t)
		}
	}
	if len(required) == 0 {
		imgui.Text("No component types selected")
		return
	}

	matches := matchEntities(world, required)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))
	if len(matches) > 0 && imgui.TreeNodeStr("First matches") {
		for _, e := range matches[:min(len(matches), qd.preview)] {
			imgui.BulletText(strconv.FormatUint(uint64(e), 10))
		}
		imgui.TreePop()
	}
}

func matchEntities(world *ecs.World, required []reflect.Type) []ecs.Entity {
	var out []ecs.Entity
	for _, e := range world.Entities() {
		if world.HasTypes(e, required...) {
			out = append(out, e)
		}
	}
	return out
}
