package camera

// FPSControllerOption is a functional option for configuring an FPSController.
type FPSControllerOption func(*fpsControllerImpl)

// WithSensitivity sets the mouse sensitivity in degrees per pixel.
//
// Parameters:
//   - sensitivity: degrees of rotation per pixel of mouse movement
//
// Returns:
//   - FPSControllerOption: functional option to set the sensitivity
func WithSensitivity(sensitivity float32) FPSControllerOption {
	return func(c *fpsControllerImpl) {
		c.sensitivity = sensitivity
	}
}

// WithMoveSpeed sets the walk speed in world units per second.
//
// Parameters:
//   - speed: movement speed
//
// Returns:
//   - FPSControllerOption: functional option to set the speed
func WithMoveSpeed(speed float32) FPSControllerOption {
	return func(c *fpsControllerImpl) {
		c.moveSpeed = speed
	}
}

// WithPitchLimit sets the largest allowed pitch magnitude in degrees.
//
// Parameters:
//   - degrees: the limit, applied symmetrically
//
// Returns:
//   - FPSControllerOption: functional option to set the limit
func WithPitchLimit(degrees float32) FPSControllerOption {
	return func(c *fpsControllerImpl) {
		c.pitchLimit = degrees
	}
}

// WithOrientation sets the starting yaw and pitch in degrees.
//
// Parameters:
//   - yaw: heading in degrees
//   - pitch: look angle in degrees
//
// Returns:
//   - FPSControllerOption: functional option to set the orientation
func WithOrientation(yaw, pitch float32) FPSControllerOption {
	return func(c *fpsControllerImpl) {
		c.yaw = yaw
		c.pitch = pitch
	}
}
