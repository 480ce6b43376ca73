package ecs

// System represents a behavior that operates on entities with specific components.
// Systems can include Query, View and Singleton fields, which the Scheduler binds
// on registration, as well as custom state that persists between frames.
// Implementing Name() string overrides the name reported in SchedulerStats.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

// Execute calls f(frame).
func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
