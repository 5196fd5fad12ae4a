package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
)

func TestKeyEdges(t *testing.T) {
	in := NewInput()

	in.HandleKeyDown(common.KeyW)
	if !in.KeyDown(common.KeyW) || !in.KeyPressed(common.KeyW) {
		t.Fatal("first frame should report down and pressed")
	}

	in.EndFrame()
	in.HandleKeyDown(common.KeyW) // auto-repeat
	if !in.KeyDown(common.KeyW) {
		t.Error("key should still be down")
	}
	if in.KeyPressed(common.KeyW) {
		t.Error("repeat must not count as a press")
	}

	in.HandleKeyUp(common.KeyW)
	if in.KeyDown(common.KeyW) {
		t.Error("key should be up after release")
	}

	in.HandleKeyDown(common.KeyW)
	if !in.KeyPressed(common.KeyW) {
		t.Error("press after release should register")
	}
}

func TestPressAndReleaseInOneFrame(t *testing.T) {
	in := NewInput()
	in.HandleKeyDown(common.KeyF2)
	in.HandleKeyUp(common.KeyF2)
	if !in.KeyPressed(common.KeyF2) {
		t.Error("a tap within one frame should still be seen")
	}
	if in.KeyDown(common.KeyF2) {
		t.Error("tapped key should not be held")
	}
	in.EndFrame()
	if in.KeyPressed(common.KeyF2) {
		t.Error("press should clear at end of frame")
	}
}

func TestMouseDelta(t *testing.T) {
	tests := []struct {
		name           string
		moves          [][2]float64
		wantDX, wantDY float64
	}{
		{"first sample sets origin", [][2]float64{{100, 100}}, 0, 0},
		{"single move", [][2]float64{{100, 100}, {110, 95}}, 10, -5},
		{"accumulates", [][2]float64{{0, 0}, {3, 4}, {10, 10}}, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput()
			for _, m := range tt.moves {
				in.HandleMouseMove(m[0], m[1])
			}
			dx, dy := in.MouseMove()
			if dx != tt.wantDX || dy != tt.wantDY {
				t.Errorf("delta = (%v, %v), want (%v, %v)", dx, dy, tt.wantDX, tt.wantDY)
			}
		})
	}
}

func TestEndFrameAndReset(t *testing.T) {
	in := NewInput()
	in.HandleMouseMove(0, 0)
	in.HandleMouseMove(5, 5)
	in.EndFrame()
	if dx, dy := in.MouseMove(); dx != 0 || dy != 0 {
		t.Errorf("delta after EndFrame = (%v, %v)", dx, dy)
	}
	in.HandleMouseMove(6, 5)
	if dx, _ := in.MouseMove(); dx != 1 {
		t.Errorf("delta continues from last position, got %v", dx)
	}

	in.HandleKeyDown(common.KeyA)
	in.Reset()
	if in.KeyDown(common.KeyA) {
		t.Error("reset should release keys")
	}
	in.HandleMouseMove(500, 500)
	if dx, dy := in.MouseMove(); dx != 0 || dy != 0 {
		t.Errorf("first move after reset should only set origin, got (%v, %v)", dx, dy)
	}
}
