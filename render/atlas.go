// Package render turns finalized world state into an ordered list of draw
// commands. It owns no textures; texture lifetime belongs to the Canvas
// implementation behind a TextureHandle.
package render

import (
	"image"

	"github.com/plus3/embark/geom"
)

// TextureHandle identifies a texture owned by the backend.
type TextureHandle int

// NoTexture is the zero handle.
const NoTexture TextureHandle = 0

// AtlasID names a sprite sheet, usually after the tileset it was built from.
type AtlasID string

// Atlas is a texture cut into a grid of equally sized tiles, plus the
// collision boxes authored for individual tiles.
type Atlas struct {
	ID       AtlasID
	Texture  TextureHandle
	TileW    int
	TileH    int
	Columns  int
	Rows     int
	Margin   int
	Spacing  int
	FirstGID int

	// colliders maps a local tile id (col + row*Columns) to its boxes in
	// tile-local coordinates, in authoring order.
	colliders map[int][]geom.Rect
}

// NewAtlas creates an atlas over a texture of the given pixel size.
func NewAtlas(id AtlasID, tex TextureHandle, imageW, imageH, tileW, tileH, margin, spacing int) *Atlas {
	a := &Atlas{
		ID:        id,
		Texture:   tex,
		TileW:     tileW,
		TileH:     tileH,
		Margin:    margin,
		Spacing:   spacing,
		colliders: make(map[int][]geom.Rect),
	}
	if tileW > 0 {
		a.Columns = (imageW - 2*margin + spacing) / (tileW + spacing)
	}
	if tileH > 0 {
		a.Rows = (imageH - 2*margin + spacing) / (tileH + spacing)
	}
	if a.Columns < 1 {
		a.Columns = 1
	}
	if a.Rows < 1 {
		a.Rows = 1
	}
	return a
}

// TileID returns the local id of the tile at (row, col).
func (a *Atlas) TileID(row, col int) int {
	return col + row*a.Columns
}

// Source returns the pixel rectangle of the tile at (row, col).
func (a *Atlas) Source(row, col int) image.Rectangle {
	x := a.Margin + col*(a.TileW+a.Spacing)
	y := a.Margin + row*(a.TileH+a.Spacing)
	return image.Rect(x, y, x+a.TileW, y+a.TileH)
}

// SourceByID returns the pixel rectangle of a local tile id.
func (a *Atlas) SourceByID(id int) image.Rectangle {
	return a.Source(id/a.Columns, id%a.Columns)
}

// AddCollider appends a collision box to a tile.
func (a *Atlas) AddCollider(tileID int, box geom.Rect) {
	if a.colliders == nil {
		a.colliders = make(map[int][]geom.Rect)
	}
	a.colliders[tileID] = append(a.colliders[tileID], box)
}

// Colliders returns the boxes authored for a tile.
func (a *Atlas) Colliders(tileID int) []geom.Rect {
	return a.colliders[tileID]
}

// Atlases is the registry of every sprite sheet known to a session. The zero
// value is ready to use.
type Atlases struct {
	byID map[AtlasID]*Atlas
}

// Add registers an atlas, replacing any previous atlas with the same id.
func (s *Atlases) Add(a *Atlas) {
	if s.byID == nil {
		s.byID = make(map[AtlasID]*Atlas)
	}
	s.byID[a.ID] = a
}

// Get looks up an atlas.
func (s *Atlases) Get(id AtlasID) (*Atlas, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Len returns the number of registered atlases.
func (s *Atlases) Len() int {
	return len(s.byID)
}

// CollisionBox returns the box used for collision when the atlas shows the
// tile at (row, col): the last box authored for that tile.
func (s *Atlases) CollisionBox(id AtlasID, row, col int) (geom.Rect, bool) {
	a, ok := s.Get(id)
	if !ok {
		return geom.Rect{}, false
	}
	boxes := a.Colliders(a.TileID(row, col))
	if len(boxes) == 0 {
		return geom.Rect{}, false
	}
	return boxes[len(boxes)-1], true
}

// FirstBox returns the first box authored for a local tile id.
func (s *Atlases) FirstBox(id AtlasID, tileID int) (geom.Rect, bool) {
	a, ok := s.Get(id)
	if !ok {
		return geom.Rect{}, false
	}
	boxes := a.Colliders(tileID)
	if len(boxes) == 0 {
		return geom.Rect{}, false
	}
	return boxes[0], true
}
