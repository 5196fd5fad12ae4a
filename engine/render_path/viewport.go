package render_path

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

// viewport is the implementation of Viewport.
type viewport struct {
	scene      scene.Scene
	cameraNode scene.Node
	path       RenderPath
	clearColor [4]float32
	hasClear   bool
	shadows    bool
}

// Viewport pairs a scene with the camera node that views it and the post chain applied
// to the result.
type Viewport interface {
	// Scene returns the scene drawn by this viewport.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// CameraNode returns the node whose camera component and world transform define the view.
	//
	// Returns:
	//   - scene.Node: the camera node
	CameraNode() scene.Node

	// RenderPath returns the post chain. It may be nil for off-screen viewports.
	//
	// Returns:
	//   - RenderPath: the chain, or nil
	RenderPath() RenderPath

	// ClearColor returns the explicit clear color, if one was set. Viewports without one
	// clear to the fog color of the zone around the camera.
	//
	// Returns:
	//   - [4]float32: the clear color
	//   - bool: false when no explicit color was set
	ClearColor() ([4]float32, bool)

	// Shadows reports whether the viewport samples the shadow map.
	//
	// Returns:
	//   - bool: true if shadows apply
	Shadows() bool
}

var _ Viewport = &viewport{}

// NewViewport creates a viewport.
//
// Parameters:
//   - s: the scene to draw
//   - cameraNode: the node carrying the camera
//   - path: the post chain, or nil
//   - opts: viewport options
//
// Returns:
//   - Viewport: the new viewport
func NewViewport(s scene.Scene, cameraNode scene.Node, path RenderPath, opts ...ViewportOption) Viewport {
	v := &viewport{
		scene:      s,
		cameraNode: cameraNode,
		path:       path,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *viewport) Scene() scene.Scene {
	return v.scene
}

func (v *viewport) CameraNode() scene.Node {
	return v.cameraNode
}

func (v *viewport) RenderPath() RenderPath {
	return v.path
}

func (v *viewport) ClearColor() ([4]float32, bool) {
	return v.clearColor, v.hasClear
}

func (v *viewport) Shadows() bool {
	return v.shadows
}

// ViewportOption is a functional option for configuring a Viewport.
type ViewportOption func(*viewport)

// WithClearColor sets an explicit clear color.
//
// Parameters:
//   - c: RGBA clear color
//
// Returns:
//   - ViewportOption: option function to apply
func WithClearColor(c [4]float32) ViewportOption {
	return func(v *viewport) {
		v.clearColor = c
		v.hasClear = true
	}
}

// WithShadows enables shadow map sampling for the viewport.
//
// Parameters:
//   - enabled: true to sample shadows
//
// Returns:
//   - ViewportOption: option function to apply
func WithShadows(enabled bool) ViewportOption {
	return func(v *viewport) {
		v.shadows = enabled
	}
}
