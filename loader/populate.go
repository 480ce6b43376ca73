package loader

import (
	"strconv"
	"strings"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
	"github.com/plus3/embark/tmx"
	"go.uber.org/zap"
)

// Populate spawns one entity per tile layer and one per map object, and
// publishes the atlases as a world singleton. It returns the entity created
// for each object id.
func (m *Map) Populate(w *ecs.World) map[int]ecs.Entity {
	atlases := ecs.NewSingleton[render.Atlases](w).Get()
	for _, id := range m.atlasIDs() {
		a, _ := m.Atlases.Get(id)
		atlases.Add(a)
	}

	for _, layer := range m.Layers {
		w.Spawn(
			component.Position{},
			component.Sprite{Atlas: layer.Atlas, Z: layer.Z},
			component.Label{Text: "layer " + layer.Name},
		)
	}

	// ids are assigned first so cameras can reference later objects
	ids := make(map[int]ecs.Entity)
	var objects []tmx.Object
	for _, group := range m.Source.ObjectGroups {
		for _, obj := range group.Objects {
			ids[obj.ID] = w.CreateEntity()
			objects = append(objects, obj)
		}
	}
	for _, obj := range objects {
		m.build(w, ids, obj)
	}

	m.log.Info("map populated", zap.Int("objects", len(objects)), zap.Int("layers", len(m.Layers)))
	return ids
}

func (m *Map) atlasIDs() []render.AtlasID {
	ids := make([]render.AtlasID, 0, len(m.Source.Tilesets)+len(m.Layers))
	for _, ts := range m.Source.Tilesets {
		ids = append(ids, render.AtlasID(ts.Name))
	}
	for _, l := range m.Layers {
		ids = append(ids, l.Atlas)
	}
	return ids
}

// properties merges the object's prefab under its own properties. The
// prefab is named by a "prefab" property or else by the object's class.
func (m *Map) properties(obj tmx.Object) map[string]string {
	props := make(map[string]string)
	name, explicit := obj.Properties.Get("prefab")
	if !explicit {
		name = obj.Kind()
	}
	if prefab, found := m.Prefabs[name]; found {
		for k, v := range prefab {
			props[k] = v
		}
	} else if explicit {
		m.log.Warn("unknown prefab", zap.Int("object", obj.ID), zap.String("prefab", name))
	}
	for _, p := range obj.Properties {
		props[p.Name] = p.String()
	}
	delete(props, "prefab")
	return props
}

// build attaches the components named by obj's properties to its entity.
func (m *Map) build(w *ecs.World, ids map[int]ecs.Entity, obj tmx.Object) {
	e := ids[obj.ID]
	props := m.properties(obj)
	p := propReader{props: props, object: obj.ID, log: m.log}

	pos := component.Position{X: obj.X, Y: obj.Y}
	if obj.GID != 0 {
		// tile objects are anchored at their bottom-left corner
		pos.Y -= obj.Height
	}
	ecs.Add(w, e, pos)

	if obj.Name != "" {
		ecs.Add(w, e, component.Label{Text: obj.Name})
	}
	if text, ok := props["label"]; ok {
		ecs.Add(w, e, component.Label{Text: text})
	}

	if p.flag("input") {
		ecs.Add(w, e, component.Input{})
	}
	if v, ok := props["velocity"]; ok {
		vel := component.Velocity{}
		if _, err := strconv.ParseBool(v); err != nil {
			vec := p.vec("velocity")
			vel = component.Velocity{X: vec.X, Y: vec.Y}
		}
		ecs.Add(w, e, vel)
	}

	if atlas, ok := props["sprite"]; ok {
		if _, found := m.Atlases.Get(render.AtlasID(atlas)); !found {
			m.log.Warn("sprite references unknown tileset", zap.Int("object", obj.ID), zap.String("tileset", atlas))
		}
		ecs.Add(w, e, component.Sprite{
			Atlas:   render.AtlasID(atlas),
			Z:       p.float("layer", 0),
			Overlay: p.flag("overlay"),
		})
	}
	if v, ok := props["direction"]; ok {
		facing, valid := component.ParseFacing(v)
		if !valid {
			p.bad("direction", v)
		}
		ecs.Add(w, e, component.Direction{Facing: facing})
	}

	size := geom.Rect{W: obj.Width, H: obj.Height}
	if p.flag("volume") {
		ecs.Add(w, e, component.Volume{Box: size})
	}
	if p.flag("collide") {
		ecs.Add(w, e, component.Collide{Box: size})
	}

	if v, ok := props["camera"]; ok {
		m.camera(w, e, ids, p, v)
	} else if v, ok := props["view"]; ok {
		m.camera(w, e, ids, p, v)
	}

	if v, ok := props["combat"]; ok {
		health := m.DefaultHealth
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			health = uint32(n)
		} else if b, berr := strconv.ParseBool(v); berr != nil || !b {
			p.bad("combat", v)
		}
		ecs.Add(w, e, component.Combat{Health: health})
	}
	if _, ok := props["enemy"]; ok {
		ecs.Add(w, e, component.Enemy{Radius: p.float("aggro", 0)})
	}

	if _, ok := props["mass"]; ok {
		ecs.Add(w, e, component.Mass{M: p.float("mass", 1)})
		ecs.Add(w, e, component.Acceleration{})
	}
	if _, ok := props["friction"]; ok {
		ecs.Add(w, e, component.Friction{Coeff: p.float("friction", 0)})
	}
	if _, ok := props["force"]; ok {
		f := p.vec("force")
		ecs.Add(w, e, component.Force{X: f.X, Y: f.Y})
		ecs.Add(w, e, component.Acceleration{})
	}

	if p.flag("cursor") {
		ecs.Add(w, e, component.Cursor{})
	}
	if atlas, ok := props["shoots"]; ok {
		ecs.Add(w, e, component.Shooter{Atlas: render.AtlasID(atlas)})
	}
}

func (m *Map) camera(w *ecs.World, e ecs.Entity, ids map[int]ecs.Entity, p propReader, ref string) {
	cam := component.Camera{Zoom: p.float("zoom", m.DefaultZoom)}
	id, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil {
		p.bad("camera", ref)
	} else if target, ok := ids[id]; ok {
		cam.Target = target
	}
	if cam.Target == ecs.NoEntity {
		m.log.Warn("camera has no target", zap.Int("object", p.object))
	}
	ecs.Add(w, e, cam)
}

// rectOf converts a Tiled object's bounds to a rectangle.
func rectOf(obj tmx.Object) geom.Rect {
	return geom.Rect{X: obj.X, Y: obj.Y, W: obj.Width, H: obj.Height}
}
