package main

import (
	"testing"

	"github.com/plus3/embark/input"
	"github.com/stretchr/testify/assert"
)

func TestReachesWorld(t *testing.T) {
	tests := []struct {
		name     string
		ev       input.Event
		captured bool
		want     bool
	}{
		{"move", input.MouseMove{X: 1, Y: 2}, false, true},
		{"move captured", input.MouseMove{X: 1, Y: 2}, true, false},
		{"press captured", input.MouseButton{Button: input.ButtonLeft, Down: true}, true, false},
		{"release captured", input.MouseButton{Button: input.ButtonLeft}, true, true},
		{"key captured", input.KeyDown{Key: input.KeyW}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reachesWorld(tt.ev, tt.captured))
		})
	}
}
