package outline

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-outline/engine/render_path"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

// Default names used by the compositor.
const (
	DefaultMaskName    = "OutlineMask"
	OutlineStageName   = "outline"
	AntiAliasStageName = "fxaa"
)

// ErrAlreadySetUp is returned by Setup when called a second time.
var ErrAlreadySetUp = errors.New("outline: compositor already set up")

// compositor is the implementation of Compositor.
type compositor struct {
	mainScene     scene.Scene
	mainCamera    scene.Node
	outlineScene  scene.Scene
	outlineCamera scene.Node

	maskName  string
	color     [4]float32
	thickness float32
	antiAlias bool

	mask         render_path.RenderTarget
	path         render_path.RenderPath
	mainViewport render_path.Viewport
	maskViewport render_path.Viewport
	surfaces     []render_path.RenderSurface
}

// Compositor wires the two scenes into one frame.
//
// Setup creates the mask target at the window size, the off-screen viewport that draws the
// outline scene into it every frame, and the main viewport whose post chain is fixed to
// [outline-from-mask, anti-alias]. The mask keeps its setup size for the application's
// lifetime; Resize only updates camera aspect ratios so the mask stays aligned with the
// screen while being stretched over it.
type Compositor interface {
	// Setup builds the mask target, viewports and post chain.
	//
	// Parameters:
	//   - width: window width in pixels
	//   - height: window height in pixels
	//
	// Returns:
	//   - error: ErrAlreadySetUp on a second call, or an error building the chain
	Setup(width, height uint32) error

	// Resize reacts to a window size change. The mask target is left untouched.
	//
	// Parameters:
	//   - width: new window width in pixels
	//   - height: new window height in pixels
	Resize(width, height uint32)

	// Surfaces returns the off-screen surfaces to render before the main viewport.
	//
	// Returns:
	//   - []render_path.RenderSurface: the mask surface, or nil before Setup
	Surfaces() []render_path.RenderSurface

	// MainViewport returns the on-screen viewport.
	//
	// Returns:
	//   - render_path.Viewport: the main viewport, or nil before Setup
	MainViewport() render_path.Viewport

	// OutlineViewport returns the viewport drawn into the mask.
	//
	// Returns:
	//   - render_path.Viewport: the mask viewport, or nil before Setup
	OutlineViewport() render_path.Viewport

	// MaskTarget returns the off-screen mask.
	//
	// Returns:
	//   - render_path.RenderTarget: the mask, or nil before Setup
	MaskTarget() render_path.RenderTarget

	// RenderPath returns the main viewport's post chain.
	//
	// Returns:
	//   - render_path.RenderPath: the chain, or nil before Setup
	RenderPath() render_path.RenderPath
}

var _ Compositor = &compositor{}

// NewCompositor creates a compositor for a main scene and its outline twin. Nothing is
// built until Setup.
//
// Parameters:
//   - mainScene: the visible scene
//   - mainCamera: the node carrying the main camera
//   - outlineScene: the scene holding the mirror
//   - outlineCamera: the node carrying the outline camera
//   - opts: compositor options
//
// Returns:
//   - Compositor: the compositor
func NewCompositor(mainScene scene.Scene, mainCamera scene.Node, outlineScene scene.Scene, outlineCamera scene.Node, opts ...CompositorOption) Compositor {
	c := &compositor{
		mainScene:     mainScene,
		mainCamera:    mainCamera,
		outlineScene:  outlineScene,
		outlineCamera: outlineCamera,
		maskName:      DefaultMaskName,
		color:         [4]float32{1, 0.85, 0.2, 1},
		thickness:     2,
		antiAlias:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *compositor) Setup(width, height uint32) error {
	if c.mask != nil {
		return ErrAlreadySetUp
	}

	mask := render_path.NewRenderTarget(c.maskName, width, height,
		render_path.WithFormat(render_path.FormatRGB),
		render_path.WithFilter(render_path.FilterNearest),
		render_path.WithUpdateMode(render_path.UpdateAlways),
	)

	path, err := render_path.NewRenderPath(
		render_path.NewStage(OutlineStageName, render_path.EffectOutline,
			render_path.WithInput(render_path.InputMask, c.maskName),
			render_path.WithParameter(render_path.ParamColorR, c.color[0]),
			render_path.WithParameter(render_path.ParamColorG, c.color[1]),
			render_path.WithParameter(render_path.ParamColorB, c.color[2]),
			render_path.WithParameter(render_path.ParamColorA, c.color[3]),
			render_path.WithParameter(render_path.ParamThickness, c.thickness),
		),
		render_path.NewStage(AntiAliasStageName, render_path.EffectFXAA,
			render_path.WithStageEnabled(c.antiAlias),
		),
	)
	if err != nil {
		return fmt.Errorf("outline: build render path: %w", err)
	}

	c.mask = mask
	c.path = path
	c.maskViewport = render_path.NewViewport(c.outlineScene, c.outlineCamera, nil,
		render_path.WithClearColor([4]float32{0, 0, 0, 1}),
	)
	c.mainViewport = render_path.NewViewport(c.mainScene, c.mainCamera, path,
		render_path.WithShadows(true),
	)
	c.surfaces = []render_path.RenderSurface{render_path.NewRenderSurface(mask, c.maskViewport)}
	c.setAspect(width, height)

	log.Printf("[Outline] mask %q %dx%d, update %s", c.maskName, width, height, mask.UpdateMode())
	return nil
}

func (c *compositor) Resize(width, height uint32) {
	c.setAspect(width, height)
}

func (c *compositor) Surfaces() []render_path.RenderSurface {
	return c.surfaces
}

func (c *compositor) MainViewport() render_path.Viewport {
	return c.mainViewport
}

func (c *compositor) OutlineViewport() render_path.Viewport {
	return c.maskViewport
}

func (c *compositor) MaskTarget() render_path.RenderTarget {
	return c.mask
}

func (c *compositor) RenderPath() render_path.RenderPath {
	return c.path
}

// setAspect matches both cameras to the window so the mask lines up in screen space.
func (c *compositor) setAspect(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	aspect := float32(width) / float32(height)
	for _, n := range []scene.Node{c.mainCamera, c.outlineCamera} {
		if n != nil && n.Camera() != nil {
			n.Camera().SetAspect(aspect)
		}
	}
}
