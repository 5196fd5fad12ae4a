// Package input collects window events into per-frame state the update loop can poll.
package input

// input is the implementation of Input.
type input struct {
	down    map[uint32]bool
	pressed map[uint32]bool

	mouseX, mouseY float64
	haveMouse      bool
	dx, dy         float64
}

// Input is the keyboard and mouse state for the current frame.
//
// Window callbacks feed it through the Handle* methods, the update loop reads it, and
// EndFrame clears the per-frame edges and deltas. Everything runs on the frame loop thread.
type Input interface {
	// KeyDown reports whether a key is currently held.
	//
	// Parameters:
	//   - key: the key code
	//
	// Returns:
	//   - bool: true while held
	KeyDown(key uint32) bool

	// KeyPressed reports whether a key went down during this frame. Auto-repeat does not
	// count as a new press.
	//
	// Parameters:
	//   - key: the key code
	//
	// Returns:
	//   - bool: true on the frame of the press only
	KeyPressed(key uint32) bool

	// MouseMove returns the cursor movement accumulated since the last EndFrame.
	//
	// Returns:
	//   - float64: horizontal delta in pixels, positive to the right
	//   - float64: vertical delta in pixels, positive downward
	MouseMove() (dx, dy float64)

	// EndFrame clears presses and mouse deltas.
	EndFrame()

	// HandleKeyDown records a key press or repeat.
	HandleKeyDown(key uint32)

	// HandleKeyUp records a key release.
	HandleKeyUp(key uint32)

	// HandleMouseMove records an absolute cursor position. The first position only
	// establishes the origin.
	HandleMouseMove(x, y float64)

	// Reset forgets all held keys and the cursor origin, used when focus or cursor mode changes.
	Reset()
}

var _ Input = &input{}

// NewInput creates an empty input state.
//
// Returns:
//   - Input: the new state
func NewInput() Input {
	return &input{
		down:    make(map[uint32]bool),
		pressed: make(map[uint32]bool),
	}
}

func (in *input) KeyDown(key uint32) bool {
	return in.down[key]
}

func (in *input) KeyPressed(key uint32) bool {
	return in.pressed[key]
}

func (in *input) MouseMove() (float64, float64) {
	return in.dx, in.dy
}

func (in *input) EndFrame() {
	clear(in.pressed)
	in.dx, in.dy = 0, 0
}

func (in *input) HandleKeyDown(key uint32) {
	if !in.down[key] {
		in.pressed[key] = true
	}
	in.down[key] = true
}

func (in *input) HandleKeyUp(key uint32) {
	delete(in.down, key)
}

func (in *input) HandleMouseMove(x, y float64) {
	if in.haveMouse {
		in.dx += x - in.mouseX
		in.dy += y - in.mouseY
	}
	in.mouseX, in.mouseY = x, y
	in.haveMouse = true
}

func (in *input) Reset() {
	clear(in.down)
	clear(in.pressed)
	in.haveMouse = false
	in.dx, in.dy = 0, 0
}
