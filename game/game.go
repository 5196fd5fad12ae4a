// Package game builds the outline demo: a lit main scene with one highlighted mushroom, the
// outline scene that mirrors it, and the per-frame update that drives both.
package game

import (
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/config"
	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/input"
	"github.com/Carmen-Shannon/oxy-outline/engine/light"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/Carmen-Shannon/oxy-outline/engine/profiler"
	"github.com/Carmen-Shannon/oxy-outline/engine/resource"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
	"github.com/Carmen-Shannon/oxy-outline/engine/script"
	"github.com/Carmen-Shannon/oxy-outline/engine/window"
)

// Resource and node names used by the demo scene.
const (
	PlaneModel        = "Plane"
	StoneTiledMat     = "Materials/StoneTiled.yaml"
	MushroomMat       = "Materials/Mushroom.yaml"
	CameraNodeName    = "Camera"
	MushroomNodeName  = "Mushroom"
	LightNodeName     = "DirectionalLight"
	ZoneNodeName      = "Zone"
	PlaneNodeName     = "Plane"
	cameraFarClip     = 1000
	mushroomMinScale  = 0.5
	mushroomScaleSpan = 2
)

// game is the implementation of Game.
type game struct {
	cfg   config.Config
	cache resource.Cache
	rng   *rand.Rand

	mainScene         scene.Scene
	outlineScene      scene.Scene
	cameraNode        scene.Node
	outlineCameraNode scene.Node

	controller  camera.FPSController
	compositor  outline.Compositor
	highlighter outline.Highlighter
	selector    script.Selector

	window   window.Window
	input    input.Input
	profiler *profiler.Profiler
	reloads  <-chan string
	seed     uint64
}

// Game is the outline demo application.
//
// New builds both scenes on the CPU only, so a Game can be created and updated without a
// window or GPU. Attach hooks it into an engine: the compositor is set up at the window size
// and the update runs once per frame.
type Game interface {
	// MainScene returns the visible scene.
	//
	// Returns:
	//   - scene.Scene: the main scene
	MainScene() scene.Scene

	// OutlineScene returns the scene that only ever holds the outline camera and the mirror.
	//
	// Returns:
	//   - scene.Scene: the outline scene
	OutlineScene() scene.Scene

	// CameraNode returns the main camera node.
	//
	// Returns:
	//   - scene.Node: the node driven by the FPS controls
	CameraNode() scene.Node

	// OutlineCameraNode returns the outline scene's camera node.
	//
	// Returns:
	//   - scene.Node: the node kept in sync with CameraNode
	OutlineCameraNode() scene.Node

	// Compositor returns the mask and post chain wiring.
	//
	// Returns:
	//   - outline.Compositor: the compositor
	Compositor() outline.Compositor

	// Highlighter returns the per-frame sync and mirror driver.
	//
	// Returns:
	//   - outline.Highlighter: the highlighter
	Highlighter() outline.Highlighter

	// Seed returns the seed used for random placement.
	//
	// Returns:
	//   - uint64: the seed
	Seed() uint64

	// Setup builds the compositor at the given window size.
	//
	// Parameters:
	//   - width: window width in pixels
	//   - height: window height in pixels
	//
	// Returns:
	//   - error: error if the compositor could not be built
	Setup(width, height int) error

	// Update runs one frame of game logic: HUD toggle, mouse look, WASD movement, target
	// selection with camera sync and mirror rebuild, then pending hot reloads.
	//
	// Parameters:
	//   - dt: the timestep in seconds
	Update(dt float32)

	// Attach sets the game up against an engine's window and registers its update, resize
	// and frame source.
	//
	// Parameters:
	//   - e: the engine
	//
	// Returns:
	//   - error: error if setup fails
	Attach(e engine.Engine) error
}

var _ Game = &game{}

// New builds the main and outline scenes.
//
// Parameters:
//   - cfg: the application configuration
//   - cache: resource cache for models and materials
//   - opts: game options
//
// Returns:
//   - Game: the game
//   - error: error if a resource fails to load
func New(cfg config.Config, cache resource.Cache, opts ...GameBuilderOption) (Game, error) {
	g := &game{
		cfg:   cfg,
		cache: cache,
		seed:  uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.rng = rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	if g.input == nil {
		g.input = input.NewInput()
	}
	if g.profiler == nil {
		g.profiler = profiler.NewProfiler(profiler.WithVisible(cfg.Debug.HUD))
	}

	if err := cache.Preload(Resources(cfg)...); err != nil {
		return nil, fmt.Errorf("game: preload: %w", err)
	}
	if err := g.buildMainScene(); err != nil {
		return nil, err
	}
	if err := g.buildOutlineScene(); err != nil {
		return nil, err
	}

	g.controller = camera.NewFPSController(
		camera.WithSensitivity(cfg.Controls.MouseSensitivity),
		camera.WithMoveSpeed(cfg.Controls.MoveSpeed),
	)
	g.compositor = outline.NewCompositor(g.mainScene, g.cameraNode, g.outlineScene, g.outlineCameraNode,
		outline.WithOutlineColor([4]float32(cfg.Outline.Color)),
		outline.WithThickness(cfg.Outline.Thickness),
		outline.WithAntiAlias(cfg.Outline.AntiAlias),
	)

	log.Printf("[Game] scenes built, seed %d, %d main nodes", g.seed, g.mainScene.NodeCount())
	return g, nil
}

// Resources lists every resource the demo needs, for preloading.
//
// Parameters:
//   - cfg: the application configuration
//
// Returns:
//   - []string: resource names
func Resources(cfg config.Config) []string {
	names := []string{PlaneModel, cfg.Scene.HighlightModel, StoneTiledMat, MushroomMat, cfg.Outline.Material}
	if cfg.Outline.Script != "" {
		names = append(names, cfg.Outline.Script)
	}
	return names
}

func (g *game) MainScene() scene.Scene {
	return g.mainScene
}

func (g *game) OutlineScene() scene.Scene {
	return g.outlineScene
}

func (g *game) CameraNode() scene.Node {
	return g.cameraNode
}

func (g *game) OutlineCameraNode() scene.Node {
	return g.outlineCameraNode
}

func (g *game) Compositor() outline.Compositor {
	return g.compositor
}

func (g *game) Highlighter() outline.Highlighter {
	return g.highlighter
}

func (g *game) Seed() uint64 {
	return g.seed
}

func (g *game) Setup(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("game: invalid window size %dx%d", width, height)
	}
	return g.compositor.Setup(uint32(width), uint32(height))
}

func (g *game) Update(dt float32) {
	if g.input.KeyPressed(common.KeyF2) && !g.profiler.Toggle() && g.window != nil {
		g.window.SetTitle(g.cfg.Window.Title)
	}

	dx, dy := g.input.MouseMove()
	g.controller.Look(float32(dx), float32(dy))
	g.controller.Apply(g.cameraNode)

	var forward, right float32
	if g.input.KeyDown(common.KeyW) {
		forward++
	}
	if g.input.KeyDown(common.KeyS) {
		forward--
	}
	if g.input.KeyDown(common.KeyD) {
		right++
	}
	if g.input.KeyDown(common.KeyA) {
		right--
	}
	g.controller.Move(g.cameraNode, forward, right, dt)

	g.highlighter.Tick()
	g.drainReloads()
}

func (g *game) Attach(e engine.Engine) error {
	g.input = e.Input()
	g.profiler = e.Profiler()
	g.profiler.SetVisible(g.cfg.Debug.HUD)

	width, height := g.cfg.Window.Width, g.cfg.Window.Height
	g.window = e.Window()
	if w := g.window; w != nil {
		width, height = w.Width(), w.Height()
		w.SetMouseVisible(!g.cfg.Window.MouseHidden)
	}
	if err := g.Setup(width, height); err != nil {
		return err
	}

	e.SetFrameSource(g.compositor)
	e.AddUpdateCallback(g.Update)
	e.AddResizeCallback(func(width, height int) {
		if width > 0 && height > 0 {
			g.compositor.Resize(uint32(width), uint32(height))
		}
	})
	return nil
}

func (g *game) buildMainScene() error {
	planeModel, err := g.cache.Model(PlaneModel)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	mushroomModel, err := g.cache.Model(g.cfg.Scene.HighlightModel)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	stone, err := g.cache.Material(StoneTiledMat)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	mushroomMat, err := g.cache.Material(MushroomMat)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	s := scene.NewScene("Main")
	s.CreateChild(PlaneNodeName,
		scene.WithScale(100, 1, 100),
		scene.WithStaticModel(planeModel, stone),
	)
	s.CreateChild(LightNodeName, scene.WithLight(light.NewDirectionalLight(
		light.WithDirection(0.6, -1, 0.8),
		light.WithColor(0.6, 0.5, 0.2),
		light.WithCastsShadows(true),
	)))
	s.CreateChild(ZoneNodeName, scene.WithZone(&scene.Zone{
		AmbientColor: [3]float32{0.4, 0.5, 0.8},
		FogColor:     [3]float32{0.4, 0.5, 0.8},
		FogStart:     100,
		FogEnd:       300,
		BoundsMin:    [3]float32{-1000, -1000, -1000},
		BoundsMax:    [3]float32{1000, 1000, 1000},
	}))

	yaw := g.rng.Float32() * 360
	size := mushroomMinScale + g.rng.Float32()*mushroomScaleSpan
	s.CreateChild(MushroomNodeName,
		scene.WithPosition(0, 0, 20),
		scene.WithRotation(0, common.Radians(yaw), 0),
		scene.WithScale(size, size, size),
		scene.WithStaticModel(mushroomModel, mushroomMat),
	)

	cam := camera.NewCamera(
		camera.WithAspect(float32(g.cfg.Window.Width)/float32(g.cfg.Window.Height)),
		camera.WithClip(0.1, cameraFarClip),
	)
	g.cameraNode = s.CreateChild(CameraNodeName,
		scene.WithPosition(0, 5, 0),
		scene.WithCamera(cam),
	)

	g.mainScene = s
	return nil
}

func (g *game) buildOutlineScene() error {
	highlight, err := g.cache.Material(g.cfg.Outline.Material)
	if err != nil {
		return fmt.Errorf("game: highlight material: %w", err)
	}

	s := scene.NewScene("Outline")
	// Node.Clone leaves cameras behind, so the camera component is cloned separately.
	g.outlineCameraNode = s.CreateChild(CameraNodeName, scene.WithCamera(g.cameraNode.Camera().Clone()))
	g.outlineCameraNode.SetTransform(g.cameraNode.Transform())
	g.outlineScene = s

	g.highlighter = outline.NewHighlighter(
		outline.NewCameraSync(g.cameraNode, g.outlineCameraNode),
		outline.NewMirror(s, highlight),
		g.newSelector(),
	)
	return nil
}

// newSelector prefers the configured script and falls back to selecting by name.
func (g *game) newSelector() outline.TargetSelector {
	if name := g.cfg.Outline.Script; name != "" {
		src, err := g.cache.Script(name)
		if err == nil {
			var sel script.Selector
			sel, err = script.NewSelector(name, src, g.mainScene, g.cameraNode)
			if err == nil {
				g.selector = sel
				return sel
			}
		}
		log.Printf("[Game] selector script %s unavailable, selecting by name: %v", name, err)
	}
	if g.cfg.Outline.Target == "" {
		return nil
	}
	return outline.NewNameSelector(g.mainScene, g.cfg.Outline.Target)
}

// drainReloads applies every pending hot reload event without blocking.
func (g *game) drainReloads() {
	for {
		select {
		case name, ok := <-g.reloads:
			if !ok {
				g.reloads = nil
				return
			}
			g.reload(name)
		default:
			return
		}
	}
}

func (g *game) reload(name string) {
	switch {
	case strings.HasPrefix(name, resource.MaterialsPrefix):
		if err := g.cache.ReloadMaterial(name); err != nil {
			log.Printf("[Game] reload %s: %v", name, err)
		}
	case g.selector != nil && name == g.selector.Name():
		src, err := g.cache.Script(name)
		if err == nil {
			err = g.selector.Reload(src)
		}
		if err != nil {
			log.Printf("[Game] reload %s: %v", name, err)
			return
		}
		log.Printf("[Game] reloaded selector %s", name)
	}
}
