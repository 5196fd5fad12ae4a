package outline

// CompositorOption is a functional option for configuring a Compositor.
type CompositorOption func(*compositor)

// WithMaskName sets the mask render target name. Defaults to "OutlineMask".
//
// Parameters:
//   - name: the target name
//
// Returns:
//   - CompositorOption: option function to apply
func WithMaskName(name string) CompositorOption {
	return func(c *compositor) {
		c.maskName = name
	}
}

// WithOutlineColor sets the RGBA color the outline stage draws.
//
// Parameters:
//   - color: the outline color
//
// Returns:
//   - CompositorOption: option function to apply
func WithOutlineColor(color [4]float32) CompositorOption {
	return func(c *compositor) {
		c.color = color
	}
}

// WithThickness sets the outline width in mask texels.
//
// Parameters:
//   - thickness: edge search radius, at least 1
//
// Returns:
//   - CompositorOption: option function to apply
func WithThickness(thickness float32) CompositorOption {
	return func(c *compositor) {
		c.thickness = max(thickness, 1)
	}
}

// WithAntiAlias enables or disables the anti-alias stage. The stage stays in the chain
// either way so the chain order never changes.
//
// Parameters:
//   - enabled: false to skip anti-aliasing
//
// Returns:
//   - CompositorOption: option function to apply
func WithAntiAlias(enabled bool) CompositorOption {
	return func(c *compositor) {
		c.antiAlias = enabled
	}
}
