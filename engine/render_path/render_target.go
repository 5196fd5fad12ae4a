package render_path

import "fmt"

// TargetFormat is the color layout of a render target.
type TargetFormat int

const (
	// FormatRGB stores color only; the renderer ignores the alpha channel.
	FormatRGB TargetFormat = iota
	// FormatRGBA stores color and alpha.
	FormatRGBA
)

// FilterMode selects how a target is sampled when read by a post stage.
type FilterMode int

const (
	// FilterNearest samples the closest texel.
	FilterNearest FilterMode = iota
	// FilterLinear blends neighboring texels.
	FilterLinear
)

// UpdateMode controls when a render surface redraws its target.
type UpdateMode int

const (
	// UpdateAlways redraws the target every frame before the main view.
	UpdateAlways UpdateMode = iota
	// UpdateManual redraws only after QueueUpdate.
	UpdateManual
)

// String returns a readable name for the update mode.
func (m UpdateMode) String() string {
	switch m {
	case UpdateAlways:
		return "always"
	case UpdateManual:
		return "manual"
	}
	return fmt.Sprintf("UpdateMode(%d)", int(m))
}

// renderTarget is the implementation of RenderTarget.
type renderTarget struct {
	name        string
	width       uint32
	height      uint32
	format      TargetFormat
	filter      FilterMode
	updateMode  UpdateMode
	updateQueue bool
}

// RenderTarget is a named off-screen color buffer.
//
// The size is fixed when the target is created. Window resizes never change it; a caller
// that wants a different size creates a new target.
type RenderTarget interface {
	// Name returns the name post stages use to reference this target.
	//
	// Returns:
	//   - string: the target name
	Name() string

	// Size returns the width and height in pixels.
	//
	// Returns:
	//   - width, height: the fixed dimensions
	Size() (width, height uint32)

	// Format returns the color layout.
	//
	// Returns:
	//   - TargetFormat: RGB or RGBA
	Format() TargetFormat

	// Filter returns the sampling filter used when the target is read.
	//
	// Returns:
	//   - FilterMode: nearest or linear
	Filter() FilterMode

	// UpdateMode returns when the target is redrawn.
	//
	// Returns:
	//   - UpdateMode: always or manual
	UpdateMode() UpdateMode

	// SetUpdateMode changes when the target is redrawn.
	//
	// Parameters:
	//   - mode: the new mode
	SetUpdateMode(mode UpdateMode)

	// QueueUpdate requests one redraw of a manual target. It has no effect on targets
	// that already update always.
	QueueUpdate()

	// UpdateQueued reports whether a manual redraw is pending.
	//
	// Returns:
	//   - bool: true if QueueUpdate was called since the last render
	UpdateQueued() bool
}

var _ RenderTarget = &renderTarget{}

// NewRenderTarget creates a target with a fixed size. Zero dimensions are raised to 1.
//
// Parameters:
//   - name: the target name
//   - width: width in pixels
//   - height: height in pixels
//   - opts: target options
//
// Returns:
//   - RenderTarget: the new target
func NewRenderTarget(name string, width, height uint32, opts ...RenderTargetOption) RenderTarget {
	t := &renderTarget{
		name:   name,
		width:  max(width, 1),
		height: max(height, 1),
		format: FormatRGBA,
		filter: FilterLinear,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *renderTarget) Name() string {
	return t.name
}

func (t *renderTarget) Size() (uint32, uint32) {
	return t.width, t.height
}

func (t *renderTarget) Format() TargetFormat {
	return t.format
}

func (t *renderTarget) Filter() FilterMode {
	return t.filter
}

func (t *renderTarget) UpdateMode() UpdateMode {
	return t.updateMode
}

func (t *renderTarget) SetUpdateMode(mode UpdateMode) {
	t.updateMode = mode
}

func (t *renderTarget) QueueUpdate() {
	if t.updateMode == UpdateManual {
		t.updateQueue = true
	}
}

func (t *renderTarget) UpdateQueued() bool {
	return t.updateQueue
}
