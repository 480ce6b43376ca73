package render_test

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/plus3/embark/geom"
	"github.com/plus3/embark/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, zoom := range []float64{0.25, 1, 2, 3.5, -1} {
		t.Run(fmt.Sprintf("zoom=%v", zoom), func(t *testing.T) {
			cam := render.Camera{
				Center:   geom.Vec2{X: rng.Float64() * 500, Y: rng.Float64() * 500},
				Zoom:     zoom,
				Viewport: geom.Vec2{X: 640, Y: 480},
			}
			for i := 0; i < 100; i++ {
				p := geom.Vec2{X: rng.Float64() * 640, Y: rng.Float64() * 480}
				got := cam.WorldToScreen(cam.ScreenToWorld(p))
				assert.InDelta(t, p.X, got.X, 1e-9)
				assert.InDelta(t, p.Y, got.Y, 1e-9)
			}
		})
	}
}

func TestCameraCenterMapsToViewportMiddle(t *testing.T) {
	cam := render.Camera{Center: geom.Vec2{X: 100, Y: 50}, Zoom: 2, Viewport: geom.Vec2{X: 320, Y: 240}}
	assert.Equal(t, geom.Vec2{X: 160, Y: 120}, cam.WorldToScreen(cam.Center))
	assert.Equal(t, geom.Vec2{X: 180, Y: 120}, cam.WorldToScreen(geom.Vec2{X: 110, Y: 50}))
}

func TestAtlasGrid(t *testing.T) {
	atlas := render.NewAtlas("chars", 1, 66, 34, 16, 16, 1, 0)
	assert.Equal(t, 4, atlas.Columns)
	assert.Equal(t, 2, atlas.Rows)
	assert.Equal(t, image.Rect(17, 17, 33, 33), atlas.Source(1, 1))
	assert.Equal(t, atlas.Source(1, 2), atlas.SourceByID(6))
}

func TestCollisionBoxUsesLastBox(t *testing.T) {
	var atlases render.Atlases
	atlas := render.NewAtlas("chars", 1, 64, 64, 16, 16, 0, 0)
	atlas.AddCollider(atlas.TileID(1, 2), geom.Rect{W: 1, H: 1})
	atlas.AddCollider(atlas.TileID(1, 2), geom.Rect{X: 2, Y: 3, W: 10, H: 12})
	atlases.Add(atlas)

	box, ok := atlases.CollisionBox("chars", 1, 2)
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 2, Y: 3, W: 10, H: 12}, box)

	first, ok := atlases.FirstBox("chars", atlas.TileID(1, 2))
	require.True(t, ok)
	assert.Equal(t, geom.Rect{W: 1, H: 1}, first)

	_, ok = atlases.CollisionBox("chars", 0, 0)
	assert.False(t, ok)
	_, ok = atlases.CollisionBox("missing", 1, 2)
	assert.False(t, ok)
}

type recordingCanvas struct {
	calls []string
}

func (c *recordingCanvas) DrawImage(tex render.TextureHandle, src image.Rectangle, dst geom.Rect) {
	c.calls = append(c.calls, fmt.Sprintf("image %d %v", tex, src))
}

func (c *recordingCanvas) DrawText(text string, x, y float64, _ color.Color) {
	c.calls = append(c.calls, "text "+text)
}

func (c *recordingCanvas) StrokeRect(dst geom.Rect, _ color.Color) {
	c.calls = append(c.calls, fmt.Sprintf("rect %v", dst))
}

func TestQueueFlushInOrder(t *testing.T) {
	var q render.Queue
	q.Push(render.DrawCommand{Texture: 2, Src: image.Rect(0, 0, 1, 1)})
	q.Push(render.TextCommand{Text: "HEALTH: 4"})
	q.Push(render.DrawCommand{Texture: 1, Src: image.Rect(0, 0, 2, 2)})
	q.Push(render.OutlineCommand{Rect: geom.Rect{W: 3, H: 4}})

	canvas := &recordingCanvas{}
	q.Flush(canvas)

	assert.Equal(t, []string{
		"image 2 (0,0)-(1,1)",
		"text HEALTH: 4",
		"image 1 (0,0)-(2,2)",
		"rect {0 0 3 4}",
	}, canvas.calls)
	assert.Equal(t, 0, q.Len())
}
