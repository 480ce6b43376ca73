package component_test

import (
	"testing"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"github.com/stretchr/testify/assert"
)

func TestDamageSaturates(t *testing.T) {
	c := component.Combat{Health: 30}
	c.Damage(25)
	assert.Equal(t, uint32(5), c.Health)
	c.Damage(25)
	assert.Equal(t, uint32(0), c.Health)
	c.Damage(25)
	assert.Equal(t, uint32(0), c.Health)
}

func TestParseFacing(t *testing.T) {
	tests := []struct {
		in   string
		want component.Facing
		ok   bool
	}{
		{"up", component.FacingUp, true},
		{" Left ", component.FacingLeft, true},
		{"RIGHT", component.FacingRight, true},
		{"down", component.FacingDown, true},
		{"sideways", component.FacingDown, false},
	}
	for _, tt := range tests {
		got, ok := component.ParseFacing(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "left", component.FacingLeft.String())
}

func TestRegistryCoversEveryKind(t *testing.T) {
	world := ecs.NewWorld(component.NewRegistry())
	e := world.Spawn(
		component.Position{}, component.Velocity{}, component.Acceleration{},
		component.Mass{M: 1}, component.Force{}, component.Friction{},
		component.Volume{}, component.Collide{}, component.Direction{},
		component.Combat{}, component.Enemy{}, component.Bullet{},
		component.Camera{}, component.Input{}, component.Cursor{},
		component.Shooter{}, component.Sprite{}, component.Label{},
	)
	assert.Len(t, world.Components(e), 18)
}
