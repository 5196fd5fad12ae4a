package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine/profiler"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_path"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
)

type stubRenderer struct {
	renders int
	resized [2]int
	err     error
	order   *[]string
}

func (r *stubRenderer) Resize(width, height int)            { r.resized = [2]int{width, height} }
func (r *stubRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *stubRenderer) Pipeline(string) pipeline.Pipeline   { return nil }
func (r *stubRenderer) Release()                            {}
func (r *stubRenderer) Render([]render_path.RenderSurface, render_path.Viewport) (renderer.FrameStats, error) {
	r.renders++
	if r.order != nil {
		*r.order = append(*r.order, "render")
	}
	return renderer.FrameStats{Draws: 4, Culled: 2}, r.err
}

type stubSource struct{}

func (stubSource) Surfaces() []render_path.RenderSurface { return nil }
func (stubSource) MainViewport() render_path.Viewport    { return nil }

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestHeadlessRunStopsOnQuit(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: 10 * time.Millisecond}
	var order []string
	r := &stubRenderer{order: &order}

	var e Engine
	e = NewEngine(
		WithClock(clock.now),
		WithRenderer(r),
		WithFrameSource(stubSource{}),
		WithUpdateCallback(func(dt float32) {
			order = append(order, "update")
			if dt <= 0 || dt > maxDeltaTime {
				t.Errorf("unexpected dt %v", dt)
			}
		}),
	)
	e.AddUpdateCallback(func(float32) {
		if e.Frames() == 2 {
			e.Quit()
		}
	})
	e.Run()

	if e.Frames() != 2 {
		t.Fatalf("expected 2 complete frames, got %d", e.Frames())
	}
	if r.renders != 2 {
		t.Fatalf("the quitting frame must not render, got %d renders", r.renders)
	}
	want := []string{"update", "render", "update", "render", "update"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
	e.Quit()
}

func TestFrameClampsDeltaTime(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: 5 * time.Second}
	var got float32
	e := NewEngine(WithClock(clock.now), WithUpdateCallback(func(dt float32) { got = dt })).(*engine)
	e.lastFrame = clock.now()
	e.frame()
	if got != maxDeltaTime {
		t.Fatalf("expected dt clamped to %v, got %v", maxDeltaTime, got)
	}
}

func TestFrameEndsInputFrame(t *testing.T) {
	e := NewEngine().(*engine)
	e.lastFrame = time.Now()
	e.Input().HandleKeyDown(65)
	if !e.Input().KeyPressed(65) {
		t.Fatalf("press should be visible before the frame ends")
	}
	e.frame()
	if e.Input().KeyPressed(65) || !e.Input().KeyDown(65) {
		t.Fatalf("the press edge should clear while the key stays held")
	}
}

func TestRenderFeedsProfiler(t *testing.T) {
	p := profiler.NewProfiler()
	r := &stubRenderer{err: errors.New("surface lost")}
	e := NewEngine(WithRenderer(r), WithProfiler(p)).(*engine)

	e.render()
	if r.renders != 0 {
		t.Fatalf("nothing renders without a frame source")
	}

	e.SetFrameSource(stubSource{})
	e.render()
	e.render()
	if r.renders != 2 {
		t.Fatalf("expected 2 renders, got %d", r.renders)
	}
	if e.lastRenderErr != "surface lost" {
		t.Fatalf("expected the render error to be remembered, got %q", e.lastRenderErr)
	}
	r.err = nil
	e.render()
	if e.lastRenderErr != "" {
		t.Fatalf("a successful frame should clear the remembered error")
	}
}

func TestResizeForwardsToRendererFirst(t *testing.T) {
	r := &stubRenderer{}
	e := NewEngine(WithRenderer(r)).(*engine)
	var seen [2]int
	e.AddResizeCallback(func(w, h int) {
		if r.resized != [2]int{w, h} {
			t.Errorf("renderer should be resized before callbacks run")
		}
		seen = [2]int{w, h}
	})
	e.resize(1280, 720)
	if seen != [2]int{1280, 720} {
		t.Fatalf("resize callback not called, got %v", seen)
	}
}

func TestFrameDuration(t *testing.T) {
	cases := []struct {
		fps  float64
		want time.Duration
	}{
		{0, 0},
		{-30, 0},
		{50, 20 * time.Millisecond},
	}
	for _, c := range cases {
		if got := frameDuration(c.fps); got != c.want {
			t.Errorf("frameDuration(%v) = %v, want %v", c.fps, got, c.want)
		}
	}
}
