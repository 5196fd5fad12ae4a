package camera

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
)

// Transformable is the part of a scene node the FPS controller drives.
type Transformable interface {
	// Rotation returns the local Euler rotation in radians.
	Rotation() [3]float32
	// SetRotation sets the local Euler rotation in radians.
	SetRotation(r [3]float32)
	// Translate moves the node. With local set, delta is expressed in the node's rotated frame.
	Translate(delta [3]float32, local bool)
}

// fpsControllerImpl is the implementation of FPSController.
type fpsControllerImpl struct {
	yaw   float32
	pitch float32

	sensitivity float32
	moveSpeed   float32
	pitchLimit  float32
}

// FPSController is a first-person mouse-look and walk controller.
//
// Yaw and pitch are kept in degrees. Positive yaw turns right, positive pitch looks down.
// The controller does not read input itself; the caller feeds it mouse deltas and
// movement axes each frame and applies the result to a node.
type FPSController interface {
	// Yaw returns the heading in degrees.
	//
	// Returns:
	//   - float32: yaw in degrees
	Yaw() float32

	// Pitch returns the vertical look angle in degrees, within the pitch limit.
	//
	// Returns:
	//   - float32: pitch in degrees
	Pitch() float32

	// Sensitivity returns the mouse sensitivity in degrees per pixel.
	//
	// Returns:
	//   - float32: the sensitivity
	Sensitivity() float32

	// MoveSpeed returns the walk speed in world units per second.
	//
	// Returns:
	//   - float32: the speed
	MoveSpeed() float32

	// SetOrientation sets yaw and pitch directly. Pitch is clamped to the limit.
	//
	// Parameters:
	//   - yaw: heading in degrees
	//   - pitch: look angle in degrees
	SetOrientation(yaw, pitch float32)

	// Look turns the view by a mouse delta in pixels.
	//
	// Parameters:
	//   - dx: horizontal mouse movement, positive to the right
	//   - dy: vertical mouse movement, positive downward
	Look(dx, dy float32)

	// Apply writes the current yaw and pitch to the node's rotation. Roll is zeroed.
	//
	// Parameters:
	//   - target: the node to orient
	Apply(target Transformable)

	// Move walks the node in its own frame. Axis values are usually -1, 0 or 1.
	//
	// Parameters:
	//   - target: the node to move
	//   - forward: forward axis, positive toward where the node faces
	//   - right: strafe axis, positive to the right
	//   - dt: timestep in seconds
	Move(target Transformable, forward, right, dt float32)
}

var _ FPSController = &fpsControllerImpl{}

// NewFPSController creates a controller with 0.1 degrees per pixel sensitivity, a walk
// speed of 20 units per second and pitch limited to ±90 degrees.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - FPSController: the newly created controller
func NewFPSController(options ...FPSControllerOption) FPSController {
	c := &fpsControllerImpl{
		sensitivity: 0.1,
		moveSpeed:   20.0,
		pitchLimit:  90.0,
	}
	for _, option := range options {
		option(c)
	}
	c.pitch = common.Clamp(c.pitch, -c.pitchLimit, c.pitchLimit)
	return c
}

func (c *fpsControllerImpl) Yaw() float32 {
	return c.yaw
}

func (c *fpsControllerImpl) Pitch() float32 {
	return c.pitch
}

func (c *fpsControllerImpl) Sensitivity() float32 {
	return c.sensitivity
}

func (c *fpsControllerImpl) MoveSpeed() float32 {
	return c.moveSpeed
}

func (c *fpsControllerImpl) SetOrientation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = common.Clamp(pitch, -c.pitchLimit, c.pitchLimit)
}

func (c *fpsControllerImpl) Look(dx, dy float32) {
	c.yaw += dx * c.sensitivity
	c.pitch = common.Clamp(c.pitch+dy*c.sensitivity, -c.pitchLimit, c.pitchLimit)
}

func (c *fpsControllerImpl) Apply(target Transformable) {
	// Nodes face +Z in a right-handed frame, so turning right is a negative Y rotation.
	target.SetRotation([3]float32{common.Radians(c.pitch), -common.Radians(c.yaw), 0})
}

func (c *fpsControllerImpl) Move(target Transformable, forward, right, dt float32) {
	if forward == 0 && right == 0 {
		return
	}
	step := c.moveSpeed * dt
	// Local +X points left when facing +Z.
	target.Translate([3]float32{-right * step, 0, forward * step}, true)
}
