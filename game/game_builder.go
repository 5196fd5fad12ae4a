package game

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/input"
	"github.com/Carmen-Shannon/oxy-outline/engine/profiler"
)

// GameBuilderOption is a functional option for configuring a Game.
type GameBuilderOption func(*game)

// WithSeed fixes the seed for random placement so runs are reproducible.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithSeed(seed uint64) GameBuilderOption {
	return func(g *game) {
		g.seed = seed
	}
}

// WithReloadEvents sets the channel of changed resource names, usually a resource.Watcher's
// Events. Events are drained at the end of every Update.
//
// Parameters:
//   - events: resource names to reload
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithReloadEvents(events <-chan string) GameBuilderOption {
	return func(g *game) {
		g.reloads = events
	}
}

// WithInput sets the input state read by Update until Attach replaces it with the engine's.
func WithInput(in input.Input) GameBuilderOption {
	return func(g *game) {
		g.input = in
	}
}

// WithProfiler sets the profiler toggled by F2 until Attach replaces it with the engine's.
func WithProfiler(p *profiler.Profiler) GameBuilderOption {
	return func(g *game) {
		g.profiler = p
	}
}
