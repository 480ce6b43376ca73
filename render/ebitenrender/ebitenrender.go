// Package ebitenrender backs render.Canvas and the loader's texture store
// with Ebitengine images.
package ebitenrender

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
)

// Textures owns every image a session uploads. Handle n refers to
// images[n-1], so the zero handle is never valid.
type Textures struct {
	images []*ebiten.Image
}

func NewTextures() *Textures {
	return &Textures{}
}

// Add takes ownership of img and returns its handle.
func (t *Textures) Add(img *ebiten.Image) render.TextureHandle {
	t.images = append(t.images, img)
	return render.TextureHandle(len(t.images))
}

// Image resolves a handle, or nil.
func (t *Textures) Image(h render.TextureHandle) *ebiten.Image {
	if h <= render.NoTexture || int(h) > len(t.images) {
		return nil
	}
	return t.images[h-1]
}

// Load decodes an image file into a new texture.
func (t *Textures) Load(path string) (render.TextureHandle, image.Point, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return render.NoTexture, image.Point{}, fmt.Errorf("load texture %s: %w", path, err)
	}
	return t.Add(img), img.Bounds().Size(), nil
}

// NewTexture allocates a transparent w by h texture.
func (t *Textures) NewTexture(w, h int) render.TextureHandle {
	return t.Add(ebiten.NewImage(w, h))
}

// Blit copies from of src onto dst with its top-left at at, applying flip.
func (t *Textures) Blit(dst, src render.TextureHandle, from image.Rectangle, at image.Point, flip render.Flip) {
	d, s := t.Image(dst), t.Image(src)
	if d == nil || s == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM = flipGeoM(from.Dx(), from.Dy(), flip)
	op.GeoM.Translate(float64(at.X), float64(at.Y))
	d.DrawImage(s.SubImage(from).(*ebiten.Image), &op)
}

// flipGeoM orients a w by h tile in place: transpose first for a diagonal
// flip, then mirror.
func flipGeoM(w, h int, flip render.Flip) ebiten.GeoM {
	var g ebiten.GeoM
	fw, fh := float64(w), float64(h)
	if flip.Has(render.FlipD) {
		g.SetElement(0, 0, 0)
		g.SetElement(0, 1, 1)
		g.SetElement(1, 0, 1)
		g.SetElement(1, 1, 0)
		fw, fh = fh, fw
	}
	if flip.Has(render.FlipH) {
		g.Scale(-1, 1)
		g.Translate(fw, 0)
	}
	if flip.Has(render.FlipV) {
		g.Scale(1, -1)
		g.Translate(0, fh)
	}
	return g
}

// Canvas draws onto one screen image for the duration of a frame.
type Canvas struct {
	Screen   *ebiten.Image
	Textures *Textures
}

func (c *Canvas) DrawImage(tex render.TextureHandle, src image.Rectangle, dst geom.Rect) {
	img := c.Textures.Image(tex)
	if img == nil || src.Empty() {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(dst.W/float64(src.Dx()), dst.H/float64(src.Dy()))
	op.GeoM.Translate(dst.X, dst.Y)
	c.Screen.DrawImage(img.SubImage(src).(*ebiten.Image), &op)
}

// DrawText uses the built-in debug font, which only renders in white.
func (c *Canvas) DrawText(text string, x, y float64, _ color.Color) {
	ebitenutil.DebugPrintAt(c.Screen, text, int(x), int(y))
}

func (c *Canvas) StrokeRect(dst geom.Rect, clr color.Color) {
	vector.StrokeRect(c.Screen, float32(dst.X), float32(dst.Y), float32(dst.W), float32(dst.H), 1, clr, false)
}
