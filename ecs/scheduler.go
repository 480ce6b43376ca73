package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// systemTiming accumulates wall-clock durations for one system.
type systemTiming struct {
	name  string
	runs  int64
	min   time.Duration
	max   time.Duration
	total time.Duration
	last  time.Duration
}

func (t *systemTiming) observe(d time.Duration) {
	if t.runs == 0 || d < t.min {
		t.min = d
	}
	t.max = max(t.max, d)
	t.runs++
	t.total += d
	t.last = d
}

func (t *systemTiming) snapshot() SystemStats {
	out := SystemStats{
		Name:           t.name,
		ExecutionCount: t.runs,
		MinDuration:    t.min,
		MaxDuration:    t.max,
		LastDuration:   t.last,
		TotalDuration:  t.total,
	}
	if t.runs > 0 {
		out.AvgDuration = t.total / time.Duration(t.runs)
	}
	return out
}

// fieldInitializer is implemented by Query, View and Singleton.
type fieldInitializer interface {
	Init(world *World)
}

type queryExecutor interface {
	Execute()
}

// Scheduler runs registered systems in registration order and applies the
// frame's Commands once every system has run.
type Scheduler struct {
	world    *World
	commands *Commands
	systems  []System
	queries  [][]queryExecutor
	timings  []systemTiming
}

// NewScheduler creates a new scheduler for the given world.
func NewScheduler(world *World) *Scheduler {
	return &Scheduler{
		world:    world,
		commands: NewCommands(),
		systems:  make([]System, 0),
	}
}

// World returns the world the scheduler drives.
func (s *Scheduler) World() *World {
	return s.world
}

// Register adds a system to the scheduler and initializes its Query, View
// and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.queries = append(s.queries, s.initializeFields(system))
	s.systems = append(s.systems, system)

	s.timings = append(s.timings, systemTiming{name: systemName(system)})
}

func systemName(system System) string {
	if named, ok := system.(interface{ Name() string }); ok {
		return named.Name()
	}
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Pointer {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

// initializeFields binds every Query, View and Singleton field of system to
// the scheduler's world and returns the queries to refresh before each run.
func (s *Scheduler) initializeFields(system System) []queryExecutor {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var queries []queryExecutor
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		binder, ok := field.Addr().Interface().(fieldInitializer)
		if !ok {
			continue
		}
		binder.Init(s.world)
		if q, ok := binder.(queryExecutor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Once executes all registered systems once with the given delta time, then
// flushes the structural changes they queued.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.world, s.commands)

	for i, system := range s.systems {
		start := time.Now()
		for _, q := range s.queries[i] {
			q.Execute()
		}
		system.Execute(frame)
		s.timings[i].observe(time.Since(start))
	}

	frame.Commands.Flush(s.world)
}

// Run executes all systems repeatedly at the given interval until the context
// is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns a snapshot of per-system timings in registration order.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.timings)),
	}
	for i := range s.timings {
		stats.Systems[i] = s.timings[i].snapshot()
		stats.TotalExecutions += s.timings[i].runs
	}
	return stats
}
