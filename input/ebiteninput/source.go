// Package ebiteninput produces input events from ebiten's polled keyboard
// and mouse state.
package ebiteninput

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/embark/input"
)

var keys = map[ebiten.Key]input.Key{
	ebiten.KeyW:         input.KeyW,
	ebiten.KeyA:         input.KeyA,
	ebiten.KeyS:         input.KeyS,
	ebiten.KeyD:         input.KeyD,
	ebiten.KeyArrowUp:   input.KeyArrowUp,
	ebiten.KeyArrowDown: input.KeyArrowDown,
	ebiten.KeyEscape:    input.KeyEscape,
	ebiten.KeyF1:        input.KeyF1,
}

var buttons = [...]ebiten.MouseButton{
	input.ButtonLeft:   ebiten.MouseButtonLeft,
	input.ButtonRight:  ebiten.MouseButtonRight,
	input.ButtonMiddle: ebiten.MouseButtonMiddle,
}

// Source turns ebiten's polled input state into discrete events. It must be
// polled from the ebiten Update goroutine.
type Source struct {
	pressed    []ebiten.Key
	lastX      int
	lastY      int
	havePos    bool
	buttonDown [len(buttons)]bool
}

// NewSource creates a poller.
func NewSource() *Source {
	return &Source{}
}

// Poll appends the events that happened since the previous call to events.
func (s *Source) Poll(events []input.Event) []input.Event {
	s.pressed = inpututil.AppendJustPressedKeys(s.pressed[:0])
	for _, k := range s.pressed {
		if key, ok := keys[k]; ok {
			events = append(events, input.KeyDown{Key: key})
		}
	}
	s.pressed = inpututil.AppendJustReleasedKeys(s.pressed[:0])
	for _, k := range s.pressed {
		if key, ok := keys[k]; ok {
			events = append(events, input.KeyUp{Key: key})
		}
	}

	x, y := ebiten.CursorPosition()
	if !s.havePos || x != s.lastX || y != s.lastY {
		s.lastX, s.lastY, s.havePos = x, y, true
		events = append(events, input.MouseMove{X: float64(x), Y: float64(y)})
	}

	for b, eb := range buttons {
		down := ebiten.IsMouseButtonPressed(eb)
		if down != s.buttonDown[b] {
			s.buttonDown[b] = down
			events = append(events, input.MouseButton{Button: input.Button(b), Down: down})
		}
	}

	return events
}
