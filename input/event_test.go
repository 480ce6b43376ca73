package input_test

import (
	"testing"

	"github.com/plus3/embark/input"
	"github.com/stretchr/testify/assert"
)

func TestKeyString(t *testing.T) {
	assert.Equal(t, "W", input.KeyW.String())
	assert.Equal(t, "F1", input.KeyF1.String())
	assert.Equal(t, "ArrowUp", input.KeyArrowUp.String())
	assert.Equal(t, "ArrowDown", input.KeyArrowDown.String())
	assert.Equal(t, "unknown", input.Key(99).String())
}

func TestEventsAreDistinct(t *testing.T) {
	events := []input.Event{
		input.KeyDown{Key: input.KeyA},
		input.KeyUp{Key: input.KeyA},
		input.MouseMove{X: 1, Y: 2},
		input.MouseButton{Button: input.ButtonLeft, Down: true},
		input.Quit{},
	}

	var kinds []string
	for _, ev := range events {
		switch ev.(type) {
		case input.KeyDown:
			kinds = append(kinds, "down")
		case input.KeyUp:
			kinds = append(kinds, "up")
		case input.MouseMove:
			kinds = append(kinds, "move")
		case input.MouseButton:
			kinds = append(kinds, "button")
		case input.Quit:
			kinds = append(kinds, "quit")
		}
	}
	assert.Equal(t, []string{"down", "up", "move", "button", "quit"}, kinds)
}
