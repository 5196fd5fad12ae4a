package profiler

import (
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsOnlyWhenVisible(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var reports []Stats
	p := NewProfiler(WithClock(clock.now), WithReporter(func(s Stats) { reports = append(reports, s) }))

	for i := 0; i < 100; i++ {
		clock.advance(10 * time.Millisecond)
		p.RecordDraws(3, 1)
		p.Tick()
	}
	if len(reports) != 0 {
		t.Fatalf("hidden HUD reported %d times", len(reports))
	}
	if fps := p.Last().FPS; fps != 100 {
		t.Errorf("stats are still gathered while hidden, fps = %v", fps)
	}

	if !p.Toggle() {
		t.Fatal("toggle should show the HUD")
	}
	for i := 0; i < 50; i++ {
		clock.advance(20 * time.Millisecond)
		p.Tick()
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	s := reports[0]
	if s.FPS != 50 {
		t.Errorf("fps = %v, want 50", s.FPS)
	}
	if s.Draws != 3 || s.Culled != 1 {
		t.Errorf("draws = %d culled = %d", s.Draws, s.Culled)
	}
	if !strings.Contains(s.String(), "FPS: 50.0") {
		t.Errorf("string = %q", s.String())
	}
}

func TestTickBeforeInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithVisible(true), WithInterval(500*time.Millisecond), WithReporter(func(Stats) {}))

	clock.advance(100 * time.Millisecond)
	if p.Tick() {
		t.Error("reported before the interval elapsed")
	}
	clock.advance(400 * time.Millisecond)
	if !p.Tick() {
		t.Error("expected a report once the interval elapsed")
	}
	if got := p.Last().FrameTimeMs; got != 250 {
		t.Errorf("frame time = %v ms, want 250", got)
	}
}
