package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine/input"
	"github.com/Carmen-Shannon/oxy-outline/engine/profiler"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_path"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/window"
)

// maxDeltaTime caps the timestep handed to update callbacks, so a stall (a window drag, a
// breakpoint) does not turn into one huge movement step.
const maxDeltaTime float32 = 0.25

// FrameSource supplies what is drawn each frame. The outline compositor is one.
type FrameSource interface {
	// Surfaces returns the off-screen surfaces, in render order.
	Surfaces() []render_path.RenderSurface
	// MainViewport returns the viewport presented to the window.
	MainViewport() render_path.Viewport
}

// engine implements the Engine interface.
// Everything runs on the thread that calls Run.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	input    input.Input
	profiler *profiler.Profiler
	source   FrameSource

	updateCallbacks []func(deltaTime float32)
	resizeCallbacks []func(width, height int)

	frameLimit time.Duration // minimum frame duration; 0 = uncapped
	now        func() time.Time
	lastFrame  time.Time
	frames     uint64

	quit     bool
	quitOnce sync.Once

	lastRenderErr string
}

// Engine owns the frame loop. Each iteration processes window messages, advances the update
// callbacks by the elapsed time, renders, closes the input frame and ticks the profiler.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer, or nil when frames are not drawn.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Input returns the polled input state fed by the window callbacks.
	//
	// Returns:
	//   - input.Input: the input state
	Input() input.Input

	// Profiler returns the frame profiler that doubles as the debug HUD.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// SetFrameSource sets what the renderer draws each frame.
	//
	// Parameters:
	//   - source: the surfaces and main viewport provider
	SetFrameSource(source FrameSource)

	// AddUpdateCallback registers a function called once per frame before rendering, in
	// registration order.
	//
	// Parameters:
	//   - callback: receives the frame's delta time in seconds
	AddUpdateCallback(callback func(deltaTime float32))

	// AddResizeCallback registers a function called after the renderer has been resized.
	//
	// Parameters:
	//   - callback: receives the new window size in pixels
	AddResizeCallback(callback func(width, height int))

	// SetFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetFrameLimit(fps float64)

	// Frames returns the number of frames run so far.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Run runs the frame loop on the calling goroutine until the window closes or Quit is called.
	Run()

	// Quit stops the loop after the current frame and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Window input callbacks are routed into the engine's input state and window resizes are
// forwarded to the renderer and then to the registered resize callbacks.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		input: input.NewInput(),
		now:   time.Now,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if e.window != nil {
		e.window.SetKeyDownCallback(e.input.HandleKeyDown)
		e.window.SetKeyUpCallback(e.input.HandleKeyUp)
		e.window.SetMouseMoveCallback(e.input.HandleMouseMove)
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Input() input.Input {
	return e.input
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) SetFrameSource(source FrameSource) {
	e.source = source
}

func (e *engine) AddUpdateCallback(callback func(deltaTime float32)) {
	e.updateCallbacks = append(e.updateCallbacks, callback)
}

func (e *engine) AddResizeCallback(callback func(width, height int)) {
	e.resizeCallbacks = append(e.resizeCallbacks, callback)
}

func (e *engine) SetFrameLimit(fps float64) {
	e.frameLimit = frameDuration(fps)
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Run() {
	e.lastFrame = e.now()
	if e.window == nil {
		for !e.quit {
			e.frame()
		}
		return
	}

	e.window.SetUpdateCallback(func() {
		if e.quit {
			return
		}
		e.frame()
	})
	e.window.ProcessMessages()
	log.Printf("[Engine] stopped after %d frames", e.frames)
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.quit = true
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				log.Printf("[Engine] close window: %v", err)
			}
		}
	})
}

// frame runs one iteration of the loop. Window messages have already been pumped by the caller.
func (e *engine) frame() {
	start := e.now()
	dt := min(float32(start.Sub(e.lastFrame).Seconds()), maxDeltaTime)
	e.lastFrame = start

	for _, cb := range e.updateCallbacks {
		cb(dt)
		if e.quit {
			return
		}
	}

	e.render()
	e.input.EndFrame()
	e.profiler.Tick()
	e.frames++

	if e.frameLimit > 0 {
		if remaining := e.frameLimit - e.now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) render() {
	if e.renderer == nil || e.source == nil {
		return
	}
	stats, err := e.renderer.Render(e.source.Surfaces(), e.source.MainViewport())
	e.profiler.RecordDraws(stats.Draws, stats.Culled)
	if err == nil {
		e.lastRenderErr = ""
		return
	}
	// A failing frame usually keeps failing the same way; report each distinct error once.
	if msg := err.Error(); msg != e.lastRenderErr {
		log.Printf("[Engine] render: %v", err)
		e.lastRenderErr = msg
	}
}

func (e *engine) resize(width, height int) {
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	for _, cb := range e.resizeCallbacks {
		cb(width, height)
	}
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
