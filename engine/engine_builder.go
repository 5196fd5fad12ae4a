package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine/input"
	"github.com/Carmen-Shannon/oxy-outline/engine/profiler"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window the engine pumps messages for and reads input from.
// Without a window the engine runs headless until Quit is called.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer that draws the frame source each frame.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithInput replaces the engine's input state.
//
// Parameters:
//   - in: the input state
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInput(in input.Input) EngineBuilderOption {
	return func(e *engine) {
		e.input = in
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithFrameSource sets what is drawn each frame.
//
// Parameters:
//   - source: the surfaces and main viewport provider
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameSource(source FrameSource) EngineBuilderOption {
	return func(e *engine) {
		e.source = source
	}
}

// WithUpdateCallback registers an update callback during construction.
//
// Parameters:
//   - callback: receives the frame's delta time in seconds
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithUpdateCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.updateCallbacks = append(e.updateCallbacks, callback)
	}
}

// WithFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.frameLimit = frameDuration(fps)
	}
}

// WithClock replaces the time source used for timesteps.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}
