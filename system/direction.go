package system

import (
	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
)

// facingRows maps a facing to the sprite sheet row that draws it.
var facingRows = map[component.Facing]int{
	component.FacingRight: 0,
	component.FacingLeft:  1,
	component.FacingUp:    2,
	component.FacingDown:  3,
}

// DirectionSystem selects the sprite row matching each entity's facing.
type DirectionSystem struct {
	Facing ecs.Query[struct {
		*component.Direction
		*component.Sprite
	}]
}

func (s *DirectionSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Facing.Values() {
		if row, ok := facingRows[item.Direction.Facing]; ok {
			item.Sprite.Row = row
		}
	}
}
