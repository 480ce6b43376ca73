package debugui

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/embark/ecs"
)

// EntityInfo is one row of the entity browser.
type EntityInfo struct {
	ID         ecs.Entity
	Components []string
}

// EntityBrowser lists live entities with a text filter and paging. Selecting
// a row drives the component inspector.
type EntityBrowser struct {
	rows       []EntityInfo
	lastCount  int
	lastMax    ecs.Entity
	selected   ecs.Entity
	filter     string
	kind       reflect.Type
	pageSize   int
	page       int
	sortColumn int
	ascending  bool
}

func NewEntityBrowser(pageSize int) *EntityBrowser {
	return &EntityBrowser{pageSize: pageSize, ascending: true}
}

// Selected returns the highlighted entity, or ecs.NoEntity.
func (eb *EntityBrowser) Selected() ecs.Entity {
	return eb.selected
}

// FilterKind restricts the list to entities carrying t. A nil t clears it.
func (eb *EntityBrowser) FilterKind(t reflect.Type) {
	eb.kind = t
	eb.page = 0
}

func (eb *EntityBrowser) Render(world *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.refresh(world)

	imgui.InputTextWithHint("##search", "Search...", &eb.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filter = ""
		eb.kind = nil
	}
	if eb.kind != nil {
		imgui.Text("Kind: " + eb.kind.String())
	}

	visible := eb.filtered(world)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		specs := imgui.TableGetSortSpecs()
		if specs.SpecsDirty() && specs.SpecsCount() > 0 {
			spec := specs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.ascending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortRows()
			specs.SetSpecsDirty(false)
		}

		start := min(eb.page*eb.pageSize, len(visible))
		end := min(start+eb.pageSize, len(visible))
		for _, row := range visible[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(strconv.FormatUint(uint64(row.ID), 10), eb.selected == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = row.ID
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.Components, ", "))

			imgui.TableNextColumn()
			imgui.Text(strconv.Itoa(len(row.Components)))
		}
		imgui.EndTable()
	}

	if len(visible) > eb.pageSize {
		pages := (len(visible) + eb.pageSize - 1) / eb.pageSize
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, pages, len(visible)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.page > 0 {
			eb.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.page < pages-1 {
			eb.page++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(visible)))
	}

	imgui.End()
}

// refresh rebuilds the rows when the live set has changed shape. Component
// additions on existing entities show up on the next structural change.
func (eb *EntityBrowser) refresh(world *ecs.World) {
	entities := world.Entities()
	var newest ecs.Entity
	if len(entities) > 0 {
		newest = entities[len(entities)-1]
	}
	if eb.rows != nil && len(entities) == eb.lastCount && newest == eb.lastMax {
		return
	}
	eb.lastCount, eb.lastMax = len(entities), newest
	eb.rows = collectEntities(world, entities)
	eb.sortRows()
	if eb.selected != ecs.NoEntity && !world.Alive(eb.selected) {
		eb.selected = ecs.NoEntity
	}
}

func collectEntities(world *ecs.World, entities []ecs.Entity) []EntityInfo {
	rows := make([]EntityInfo, 0, len(entities))
	for _, e := range entities {
		components := world.Components(e)
		names := make([]string, len(components))
		for i, c := range components {
			names[i] = reflect.TypeOf(c).Elem().Name()
		}
		rows = append(rows, EntityInfo{ID: e, Components: names})
	}
	return rows
}

func (eb *EntityBrowser) sortRows() {
	sort.SliceStable(eb.rows, func(i, j int) bool {
		a, b := eb.rows[i], eb.rows[j]
		var less bool
		switch eb.sortColumn {
		case 1:
			less = strings.Join(a.Components, ",") < strings.Join(b.Components, ",")
		case 2:
			less = len(a.Components) < len(b.Components)
		default:
			less = a.ID < b.ID
		}
		if !eb.ascending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) filtered(world *ecs.World) []EntityInfo {
	if eb.filter == "" && eb.kind == nil {
		return eb.rows
	}

	needle := strings.ToLower(eb.filter)
	out := make([]EntityInfo, 0, len(eb.rows))
	for _, row := range eb.rows {
		if eb.kind != nil && !world.HasComponent(row.ID, eb.kind) {
			continue
		}
		if needle != "" {
			id := strconv.FormatUint(uint64(row.ID), 10)
			match := strings.Contains(id, needle) || slices.ContainsFunc(row.Components, func(name string) bool {
				return strings.Contains(strings.ToLower(name), needle)
			})
			if !match {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}
