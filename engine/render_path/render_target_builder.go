package render_path

// RenderTargetOption is a functional option for configuring a RenderTarget.
type RenderTargetOption func(*renderTarget)

// WithFormat sets the target's color layout. Defaults to FormatRGBA.
//
// Parameters:
//   - format: the color layout
//
// Returns:
//   - RenderTargetOption: option function to apply
func WithFormat(format TargetFormat) RenderTargetOption {
	return func(t *renderTarget) {
		t.format = format
	}
}

// WithFilter sets the sampling filter. Defaults to FilterLinear.
//
// Parameters:
//   - filter: the filter mode
//
// Returns:
//   - RenderTargetOption: option function to apply
func WithFilter(filter FilterMode) RenderTargetOption {
	return func(t *renderTarget) {
		t.filter = filter
	}
}

// WithUpdateMode sets when the target is redrawn. Defaults to UpdateAlways.
//
// Parameters:
//   - mode: the update mode
//
// Returns:
//   - RenderTargetOption: option function to apply
func WithUpdateMode(mode UpdateMode) RenderTargetOption {
	return func(t *renderTarget) {
		t.updateMode = mode
	}
}
