package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithVisible sets the initial HUD state.
//
// Parameters:
//   - visible: true to start with the HUD shown
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithVisible(visible bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.visible = visible
	}
}

// WithInterval sets how often stats are computed. Non-positive values keep the default.
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithReporter replaces the log output, for example to also write the window title.
//
// Parameters:
//   - report: called with each interval's stats while the HUD is visible
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithReporter(report func(Stats)) ProfilerBuilderOption {
	return func(p *Profiler) {
		if report != nil {
			p.report = report
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
