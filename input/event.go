// Package input defines the discrete events the engine consumes.
package input

// Key is an engine-level key code. Only keys the engine binds are named.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyArrowUp
	KeyArrowDown
	KeyEscape
	KeyF1
)

var keyNames = [...]string{"unknown", "W", "A", "S", "D", "ArrowUp", "ArrowDown", "Escape", "F1"}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Event is one discrete input occurrence.
type Event interface {
	isEvent()
}

type KeyDown struct {
	Key Key
}

type KeyUp struct {
	Key Key
}

// MouseMove carries the cursor position in screen pixels.
type MouseMove struct {
	X, Y float64
}

type MouseButton struct {
	Button Button
	Down   bool
}

// Quit asks the session to end.
type Quit struct{}

func (KeyDown) isEvent()     {}
func (KeyUp) isEvent()       {}
func (MouseMove) isEvent()   {}
func (MouseButton) isEvent() {}
func (Quit) isEvent()        {}
