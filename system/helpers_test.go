package system_test

import (
	"testing"

	"github.com/plus3/embark/component"
	"github.com/plus3/embark/ecs"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newWorld() *ecs.World {
	return ecs.NewWorld(component.NewRegistry())
}

// runOnce registers systems on a fresh scheduler and ticks it once.
func runOnce(w *ecs.World, dt float64, systems ...ecs.System) *ecs.Scheduler {
	s := ecs.NewScheduler(w)
	for _, sys := range systems {
		s.Register(sys)
	}
	s.Once(dt)
	return s
}

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}
