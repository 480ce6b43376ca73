package system

import (
	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
	"go.uber.org/zap"
)

// CameraSystem points the render camera at the first camera entity's
// target. When the target is gone the view stays where it was.
type CameraSystem struct {
	View    ecs.Singleton[render.Camera]
	Cameras ecs.Query[struct {
		ecs.Entity
		*component.Camera
	}]

	DefaultZoom float64
	Log         *zap.Logger

	lost bool
}

func (s *CameraSystem) Execute(frame *ecs.UpdateFrame) {
	var active *component.Camera
	var id ecs.Entity
	for e, cam := range s.Cameras.Iter() {
		if active == nil {
			active, id = cam.Camera, e
		}
	}
	if active == nil {
		return
	}

	view := s.View.Get()
	view.Zoom = active.Zoom
	if view.Zoom <= 0 {
		view.Zoom = s.DefaultZoom
	}

	center, ok := focus(frame.World, active.Target)
	if !ok {
		if !s.lost {
			s.Log.Warn("camera target missing",
				zap.Uint64("camera", uint64(id)),
				zap.Uint64("target", uint64(active.Target)))
			s.lost = true
		}
		return
	}
	s.lost = false
	view.Center = center
}

// focus is the center of e's box, or its position when it has none.
func focus(w *ecs.World, e ecs.Entity) (geom.Vec2, bool) {
	pos, ok := ecs.Get[component.Position](w, e)
	if !ok {
		return geom.Vec2{}, false
	}
	center := pos.Vec()
	if v, ok := ecs.Get[component.Volume](w, e); ok {
		center = center.Add(geom.Vec2{X: v.Box.W / 2, Y: v.Box.H / 2})
	} else if c, ok := ecs.Get[component.Collide](w, e); ok {
		center = center.Add(geom.Vec2{X: c.Box.W / 2, Y: c.Box.H / 2})
	}
	return center, true
}
