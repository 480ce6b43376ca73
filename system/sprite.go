package system

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
)

// Debug font metrics used to place UI text.
const (
	glyphW = 6
	glyphH = 16
)

// SpriteQueueSystem queues every sprite in draw order: ascending Z plus Y so
// lower entities draw over higher ones, then overlays. Ties keep entity id
// order.
type SpriteQueueSystem struct {
	Atlases ecs.Singleton[render.Atlases]
	View    ecs.Singleton[render.Camera]
	Queue   ecs.Singleton[render.Queue]
	Sprites ecs.Query[struct {
		ecs.Entity
		*component.Position
		*component.Sprite
		Cursor *component.Cursor `ecs:"optional"`
	}]

	order []spriteEntry
}

type spriteEntry struct {
	key     float64
	overlay bool
	pos     geom.Vec2
	screen  bool
	sprite  component.Sprite
}

func (s *SpriteQueueSystem) Execute(frame *ecs.UpdateFrame) {
	s.order = s.order[:0]
	for item := range s.Sprites.Values() {
		entry := spriteEntry{
			key:     item.Sprite.Z + item.Position.Y,
			overlay: item.Sprite.Overlay,
			pos:     item.Position.Vec(),
			sprite:  *item.Sprite,
		}
		// a cursor overlay follows the mouse in screen space
		if entry.overlay && item.Cursor != nil {
			entry.pos = geom.Vec2{X: item.Cursor.X, Y: item.Cursor.Y}
			entry.screen = true
		}
		s.order = append(s.order, entry)
	}
	sort.SliceStable(s.order, func(i, j int) bool {
		a, b := s.order[i], s.order[j]
		if a.overlay != b.overlay {
			return !a.overlay
		}
		return a.key < b.key
	})

	atlases := s.Atlases.Get()
	view := *s.View.Get()
	queue := s.Queue.Get()
	for _, entry := range s.order {
		atlas, ok := atlases.Get(entry.sprite.Atlas)
		if !ok {
			continue
		}
		src := atlas.Source(entry.sprite.Row, entry.sprite.Col)
		dst := geom.Rect{W: float64(src.Dx()), H: float64(src.Dy())}
		if entry.screen {
			dst.X, dst.Y = entry.pos.X, entry.pos.Y
		} else {
			p := view.WorldToScreen(entry.pos)
			dst = geom.Rect{X: p.X, Y: p.Y, W: dst.W * view.Zoom, H: dst.H * view.Zoom}
		}
		queue.Push(render.DrawCommand{Texture: atlas.Texture, Src: src, Dst: dst})
	}
}

// UISystem queues a health label centered above every combatant.
type UISystem struct {
	View       ecs.Singleton[render.Camera]
	Queue      ecs.Singleton[render.Queue]
	Combatants ecs.Query[struct {
		*component.Position
		*component.Combat
		Volume *component.Volume `ecs:"optional"`
	}]
}

func (s *UISystem) Execute(frame *ecs.UpdateFrame) {
	view := *s.View.Get()
	queue := s.Queue.Get()
	for item := range s.Combatants.Values() {
		text := fmt.Sprintf("HEALTH: %d", item.Combat.Health)
		var width float64
		if item.Volume != nil {
			width = item.Volume.Box.W * view.Zoom
		}
		p := view.WorldToScreen(item.Position.Vec())
		queue.Push(render.TextCommand{
			Text:  text,
			X:     p.X + width/2 - float64(len(text)*glyphW)/2,
			Y:     p.Y - glyphH,
			Color: color.White,
		})
	}
}

// ColliderOverlaySystem outlines every collision box for debugging.
type ColliderOverlaySystem struct {
	View  ecs.Singleton[render.Camera]
	Queue ecs.Singleton[render.Queue]
}

var colliderColor = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff}

func (s *ColliderOverlaySystem) Execute(frame *ecs.UpdateFrame) {
	view := *s.View.Get()
	queue := s.Queue.Get()
	for _, e := range frame.World.Entities() {
		box, ok := Shape(frame.World, e)
		if !ok {
			continue
		}
		p := view.WorldToScreen(geom.Vec2{X: box.X, Y: box.Y})
		queue.Push(render.OutlineCommand{
			Rect:  geom.Rect{X: p.X, Y: p.Y, W: box.W * view.Zoom, H: box.H * view.Zoom},
			Color: colliderColor,
		})
	}
}
