package render_path

// renderSurface is the implementation of RenderSurface.
type renderSurface struct {
	target   RenderTarget
	viewport Viewport
	renders  uint64
}

// RenderSurface binds a viewport to an off-screen target. The renderer draws every due
// surface before the main viewport, in registration order, within the same frame.
type RenderSurface interface {
	// Target returns the render target drawn into.
	//
	// Returns:
	//   - RenderTarget: the target
	Target() RenderTarget

	// Viewport returns the viewport drawn.
	//
	// Returns:
	//   - Viewport: the viewport
	Viewport() Viewport

	// Due reports whether the surface must render this frame: always for UpdateAlways
	// targets, and once per QueueUpdate for manual ones.
	//
	// Returns:
	//   - bool: true if the surface should render
	Due() bool

	// MarkRendered records a completed render and consumes a queued manual update.
	MarkRendered()

	// RenderCount returns how many times the surface has rendered.
	//
	// Returns:
	//   - uint64: the count
	RenderCount() uint64
}

var _ RenderSurface = &renderSurface{}

// NewRenderSurface creates a surface drawing viewport into target.
//
// Parameters:
//   - target: the render target
//   - viewport: the viewport to draw
//
// Returns:
//   - RenderSurface: the new surface
func NewRenderSurface(target RenderTarget, viewport Viewport) RenderSurface {
	return &renderSurface{target: target, viewport: viewport}
}

func (s *renderSurface) Target() RenderTarget {
	return s.target
}

func (s *renderSurface) Viewport() Viewport {
	return s.viewport
}

func (s *renderSurface) Due() bool {
	switch s.target.UpdateMode() {
	case UpdateAlways:
		return true
	case UpdateManual:
		return s.target.UpdateQueued()
	}
	return false
}

func (s *renderSurface) MarkRendered() {
	s.renders++
	if t, ok := s.target.(*renderTarget); ok {
		t.updateQueue = false
	}
}

func (s *renderSurface) RenderCount() uint64 {
	return s.renders
}
