package script

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

const closestScript = `
math := import("math")
best := 0
best_dist := 1000.0
for n in nodes {
	if n.name == "Plane" { continue }
	dx := n.x - camera.x
	dy := n.y - camera.y
	dz := n.z - camera.z
	d := math.sqrt(dx*dx + dy*dy + dz*dz)
	if d < best_dist {
		best_dist = d
		best = n.id
	}
}
if best > 0 { target = best }
`

func newScene() (scene.Scene, scene.Node, scene.Node, scene.Node) {
	s := scene.NewScene("main")
	box := model.NewBox("Box")
	cam := s.CreateChild("Camera", scene.WithPosition(0, 5, 0))
	s.CreateChild("Plane", scene.WithStaticModel(box, nil))
	near := s.CreateChild("Near", scene.WithPosition(0, 0, 10), scene.WithStaticModel(box, nil))
	far := s.CreateChild("Far", scene.WithPosition(0, 0, 50), scene.WithStaticModel(box, nil))
	return s, cam, near, far
}

func TestSelectorResolvesTarget(t *testing.T) {
	s, cam, near, far := newScene()

	cases := []struct {
		name   string
		source string
		want   scene.Node
	}{
		{"by_name", `target = "Far"`, far},
		{"by_id", fmt.Sprintf("target = %d", near.ID()), near},
		{"closest", closestScript, near},
		{"unset", `x := 1`, nil},
		{"wrong_type", `target = [1, 2]`, nil},
		{"unknown_name", `target = "Nope"`, nil},
		{"frame_driven", `if frame == 0 { target = "Near" }`, near},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sel, err := NewSelector(c.name, []byte(c.source), s, cam)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := sel.Select(); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
			if sel.LastError() != nil {
				t.Fatalf("unexpected error %v", sel.LastError())
			}
		})
	}
}

func TestSelectorTracksCamera(t *testing.T) {
	s, cam, near, far := newScene()
	sel, err := NewSelector("closest", []byte(closestScript), s, cam)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if sel.Select() != near {
		t.Fatalf("expected near first")
	}
	cam.SetPosition([3]float32{0, 0, 48})
	if sel.Select() != far {
		t.Fatalf("expected far after moving the camera")
	}
}

func TestSelectorTargetResetsEachRun(t *testing.T) {
	s, cam, near, _ := newScene()
	sel, err := NewSelector("once", []byte(`if frame == 0 { target = "Near" }`), s, cam)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if sel.Select() != near {
		t.Fatalf("expected near on frame 0")
	}
	if sel.Select() != nil {
		t.Fatalf("target should not persist into the next run")
	}
}

func TestSelectorErrors(t *testing.T) {
	s, cam, near, _ := newScene()

	if _, err := NewSelector("bad", []byte(`target = `), s, cam); err == nil {
		t.Fatalf("expected compile error")
	}

	sel, err := NewSelector("runtime", []byte(`target = nodes()`), s, cam)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if sel.Select() != nil {
		t.Fatalf("runtime errors select nothing")
	}

	if err := sel.Reload([]byte(`target = `)); err == nil {
		t.Fatalf("expected reload compile error")
	}
	if err := sel.Reload([]byte(`target = "Near"`)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sel.Select() != near || sel.LastError() != nil {
		t.Fatalf("reloaded program should run cleanly")
	}
}

func TestSelectorSkipsHiddenNodes(t *testing.T) {
	s, cam, near, far := newScene()
	near.SetEnabled(false)
	sel, err := NewSelector("closest", []byte(closestScript), s, cam)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if sel.Select() != far {
		t.Fatalf("hidden nodes must not be offered to the script")
	}
}
