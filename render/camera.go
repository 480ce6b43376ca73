package render

import "github.com/plus3/embark/geom"

// Camera is the per-frame world-to-screen transform. Center is the world
// point shown in the middle of the viewport.
type Camera struct {
	Center   geom.Vec2
	Zoom     float64
	Viewport geom.Vec2
}

// WorldToScreen maps a world point into viewport pixels.
func (c Camera) WorldToScreen(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: (p.X-c.Center.X)*c.Zoom + c.Viewport.X/2,
		Y: (p.Y-c.Center.Y)*c.Zoom + c.Viewport.Y/2,
	}
}

// ScreenToWorld is the inverse of WorldToScreen. Zoom must be non-zero.
func (c Camera) ScreenToWorld(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: (p.X-c.Viewport.X/2)/c.Zoom + c.Center.X,
		Y: (p.Y-c.Viewport.Y/2)/c.Zoom + c.Center.Y,
	}
}
