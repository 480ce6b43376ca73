// Package loader turns a TMX map into render atlases, composed layer
// textures and the entities described by the map's objects.
package loader

import (
	"fmt"
	"image"

	"github.com/plus3/embark/render"
	"github.com/plus3/embark/tmx"
	"go.uber.org/zap"
)

// TextureStore is the backend that owns texture memory.
type TextureStore interface {
	Load(path string) (render.TextureHandle, image.Point, error)
	NewTexture(w, h int) render.TextureHandle
	Blit(dst, src render.TextureHandle, from image.Rectangle, at image.Point, flip render.Flip)
}

// Layer is one tile layer composed into a single texture.
type Layer struct {
	Name  string
	Atlas render.AtlasID
	Z     float64
}

// Map is a loaded map ready to populate a world.
type Map struct {
	Source  *tmx.Map
	Atlases *render.Atlases
	Layers  []Layer
	Prefabs Prefabs

	// DefaultHealth applies to a "combat" property without a number.
	DefaultHealth uint32
	// DefaultZoom applies to cameras without a "zoom" property.
	DefaultZoom float64

	log *zap.Logger
}

// Load reads the map at path, uploads its tilesets and composes its tile
// layers.
func Load(path string, textures TextureStore, log *zap.Logger) (*Map, error) {
	src, err := tmx.Load(path)
	if err != nil {
		return nil, err
	}
	if src.Orientation != "" && src.Orientation != "orthogonal" {
		return nil, fmt.Errorf("map %s: unsupported orientation %q", path, src.Orientation)
	}

	m := &Map{
		Source:        src,
		Atlases:       &render.Atlases{},
		DefaultHealth: 4,
		DefaultZoom:   1,
		log:           log,
	}
	for _, ts := range src.Tilesets {
		if err := m.addTileset(ts, textures); err != nil {
			return nil, fmt.Errorf("map %s: %w", path, err)
		}
	}
	m.composeLayers(textures)

	log.Info("map loaded",
		zap.String("path", path),
		zap.Int("tilesets", len(src.Tilesets)),
		zap.Int("layers", len(m.Layers)),
		zap.Int("objectgroups", len(src.ObjectGroups)))
	return m, nil
}

func (m *Map) addTileset(ts *tmx.Tileset, textures TextureStore) error {
	tex, size, err := textures.Load(ts.Image.Source)
	if err != nil {
		return fmt.Errorf("tileset %q: %w", ts.Name, err)
	}
	if size.X == 0 || size.Y == 0 {
		size = image.Pt(ts.Image.Width, ts.Image.Height)
	}

	atlas := render.NewAtlas(render.AtlasID(ts.Name), tex, size.X, size.Y, ts.TileWidth, ts.TileHeight, ts.Margin, ts.Spacing)
	if ts.Columns > 0 {
		atlas.Columns = ts.Columns
	}
	atlas.FirstGID = ts.FirstGID

	boxes := 0
	for _, tile := range ts.Tiles {
		if tile.ObjectGroup == nil {
			continue
		}
		for _, obj := range tile.ObjectGroup.Objects {
			atlas.AddCollider(tile.ID, rectOf(obj))
			boxes++
		}
	}
	m.Atlases.Add(atlas)

	m.log.Debug("tileset loaded",
		zap.String("name", ts.Name),
		zap.String("image", ts.Image.Source),
		zap.Int("columns", atlas.Columns),
		zap.Int("rows", atlas.Rows),
		zap.Int("colliders", boxes))
	return nil
}

// composeLayers draws every visible tile layer into its own texture and
// registers it as a single-tile atlas. Layer z values are negative so tile
// layers always sort beneath objects.
func (m *Map) composeLayers(textures TextureStore) {
	src := m.Source
	w, h := src.PixelSize()
	if w == 0 || h == 0 {
		return
	}

	for i, layer := range src.Layers {
		if layer.Hidden() {
			continue
		}
		tex := textures.NewTexture(w, h)
		skipped := 0
		for y := range layer.Height {
			for x := range layer.Width {
				gid := layer.At(x, y)
				if gid.ID() == 0 {
					continue
				}
				ts, local, ok := src.TilesetFor(gid)
				if !ok {
					skipped++
					continue
				}
				atlas, ok := m.Atlases.Get(render.AtlasID(ts.Name))
				if !ok {
					skipped++
					continue
				}
				from := atlas.SourceByID(local)
				// oversized tiles are anchored at the bottom-left of their cell
				at := image.Pt(x*src.TileWidth, (y+1)*src.TileHeight-from.Dy())
				textures.Blit(tex, atlas.Texture, from, at, flipOf(gid))
			}
		}
		if skipped > 0 {
			m.log.Warn("layer references unknown tiles", zap.String("layer", layer.Name), zap.Int("tiles", skipped))
		}

		id := render.AtlasID("layer:" + layer.Name)
		m.Atlases.Add(render.NewAtlas(id, tex, w, h, w, h, 0, 0))
		m.Layers = append(m.Layers, Layer{
			Name:  layer.Name,
			Atlas: id,
			Z:     float64(i - len(src.Layers)),
		})
	}
}

func flipOf(gid tmx.GID) render.Flip {
	var f render.Flip
	if gid.FlippedH() {
		f |= render.FlipH
	}
	if gid.FlippedV() {
		f |= render.FlipV
	}
	if gid.FlippedD() {
		f |= render.FlipD
	}
	return f
}
