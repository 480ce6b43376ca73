package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/embark/ecs"
)

// ComponentInspector shows and edits the components of one entity in place.
type ComponentInspector struct{}

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

func (ci *ComponentInspector) Render(world *ecs.World, e ecs.Entity) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	if e == ecs.NoEntity {
		imgui.Text("No entity selected")
		return
	}
	if !world.Alive(e) {
		imgui.Text(fmt.Sprintf("Entity %d is gone", e))
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %d", e))
	imgui.Separator()

	for _, component := range world.Components(e) {
		val := reflect.ValueOf(component).Elem()
		if imgui.TreeNodeStr(val.Type().String()) {
			ci.renderStruct(val, "")
			imgui.TreePop()
		}
	}
}

// renderStruct draws editable widgets for the exported fields of val, which
// must be addressable so edits write through to the stored component.
func (ci *ComponentInspector) renderStruct(val reflect.Value, prefix string) {
	for _, f := range exportedFields(val.Type()) {
		field := val.Field(f.index)
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				imgui.Text(f.name + ": nil")
				continue
			}
			field = field.Elem()
		}
		ci.renderField(prefix+f.name, f.name, field)
	}
}

func (ci *ComponentInspector) renderField(id, name string, field reflect.Value) {
	label := "##" + id
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(field.Int())
		ci.caption(name, 150)
		if imgui.InputInt(label, &v) && field.CanSet() {
			field.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(field.Uint())
		ci.caption(name, 150)
		if imgui.InputInt(label, &v) && v >= 0 && field.CanSet() {
			field.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(field.Float())
		ci.caption(name, 150)
		if imgui.InputFloat(label, &v) && field.CanSet() {
			field.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := field.Bool()
		if imgui.Checkbox(name+label, &v) && field.CanSet() {
			field.SetBool(v)
		}

	case reflect.String:
		v := field.String()
		ci.caption(name, 200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) && field.CanSet() {
			field.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name + label) {
			ci.renderStruct(field, id+".")
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Map:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, field.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, field.Interface()))
	}
}

func (ci *ComponentInspector) caption(name string, width float32) {
	imgui.Text(name + ":")
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}
