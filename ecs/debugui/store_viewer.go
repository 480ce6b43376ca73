package debugui

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/embark/ecs"
)

// StoreViewer tabulates how many entities carry each component kind.
// Clicking a row returns that kind so the entity browser can filter by it.
type StoreViewer struct {
	selected   reflect.Type
	sortColumn int
	ascending  bool
}

func NewStoreViewer() *StoreViewer {
	return &StoreViewer{sortColumn: 1}
}

func (sv *StoreViewer) Render(world *ecs.World) (clicked reflect.Type) {
	if !imgui.BeginV("Component Stores", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}
	defer imgui.End()

	stats := world.Stats()
	rows := stats.Components
	largest := 0
	for _, row := range rows {
		largest = max(largest, row.Count)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if !imgui.BeginTableV("StoreTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		return nil
	}
	defer imgui.EndTable()

	imgui.TableSetupColumn("Component")
	imgui.TableSetupColumn("Entities")
	imgui.TableHeadersRow()

	specs := imgui.TableGetSortSpecs()
	if specs.SpecsDirty() && specs.SpecsCount() > 0 {
		spec := specs.Specs()
		sv.sortColumn = int(spec.ColumnIndex())
		sv.ascending = spec.SortDirection() == imgui.SortDirectionAscending
		specs.SetSpecsDirty(false)
	}
	sortStores(rows, sv.sortColumn, sv.ascending)

	for _, row := range rows {
		imgui.TableNextRow()

		imgui.TableNextColumn()
		if imgui.SelectableBoolV(row.Type.String(), sv.selected == row.Type, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
			sv.selected = row.Type
			clicked = row.Type
		}

		imgui.TableNextColumn()
		imgui.Text(strconv.Itoa(row.Count))
		if largest > 0 {
			width := float32(row.Count) / float32(largest) * 80
			imgui.SameLine()
			pos := imgui.CursorScreenPos()
			color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
			imgui.WindowDrawList().AddRectFilled(pos, imgui.NewVec2(pos.X+width, pos.Y+10), color)
		}
	}
	return clicked
}

func sortStores(rows []ecs.ComponentStats, column int, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool
		if column == 0 {
			less = a.Type.String() < b.Type.String()
		} else {
			less = a.Count < b.Count
		}
		if !ascending {
			return !less
		}
		return less
	})
}
