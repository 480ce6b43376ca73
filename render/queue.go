package render

import (
	"image"
	"image/color"

	"github.com/plus3/embark/geom"
)

// Canvas is the renderer boundary. Implementations draw immediately and
// report nothing back.
type Canvas interface {
	DrawImage(tex TextureHandle, src image.Rectangle, dst geom.Rect)
	DrawText(text string, x, y float64, clr color.Color)
	StrokeRect(dst geom.Rect, clr color.Color)
}

// Command is one queued draw call.
type Command interface {
	Draw(c Canvas)
}

// DrawCommand copies a texture sub-rectangle into a screen rectangle.
type DrawCommand struct {
	Texture TextureHandle
	Src     image.Rectangle
	Dst     geom.Rect
}

func (d DrawCommand) Draw(c Canvas) {
	c.DrawImage(d.Texture, d.Src, d.Dst)
}

// TextCommand draws a UI string at a screen position.
type TextCommand struct {
	Text  string
	X, Y  float64
	Color color.Color
}

func (t TextCommand) Draw(c Canvas) {
	c.DrawText(t.Text, t.X, t.Y, t.Color)
}

// OutlineCommand strokes a screen rectangle, used for debug overlays.
type OutlineCommand struct {
	Rect  geom.Rect
	Color color.Color
}

func (o OutlineCommand) Draw(c Canvas) {
	c.StrokeRect(o.Rect, o.Color)
}

// Queue is the ordered list of draw calls built each frame.
type Queue struct {
	Commands []Command
}

// Push appends a command.
func (q *Queue) Push(cmd Command) {
	q.Commands = append(q.Commands, cmd)
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	return len(q.Commands)
}

// Flush issues every queued command in order and empties the queue.
func (q *Queue) Flush(c Canvas) {
	for _, cmd := range q.Commands {
		cmd.Draw(c)
	}
	q.Reset()
}

// Reset drops queued commands without drawing them.
func (q *Queue) Reset() {
	clear(q.Commands)
	q.Commands = q.Commands[:0]
}
