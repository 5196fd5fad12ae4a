package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

// fakeNode is a minimal Transformable with local-frame translation.
type fakeNode struct {
	pos [3]float32
	rot [3]float32
}

func (n *fakeNode) Rotation() [3]float32     { return n.rot }
func (n *fakeNode) SetRotation(r [3]float32) { n.rot = r }
func (n *fakeNode) Translate(d [3]float32, local bool) {
	if local {
		m := make([]float32, 16)
		common.BuildModelMatrix(m, 0, 0, 0, n.rot[0], n.rot[1], n.rot[2], 1, 1, 1)
		d = common.TransformDirection(m, d)
	}
	for i := range d {
		n.pos[i] += d[i]
	}
}

func (n *fakeNode) world() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:], n.pos[0], n.pos[1], n.pos[2], n.rot[0], n.rot[1], n.rot[2], 1, 1, 1)
	return m
}

func TestCameraLooksDownPositiveZ(t *testing.T) {
	c := NewCamera(WithClip(0.1, 300), WithAspect(800.0/600.0))
	n := &fakeNode{pos: [3]float32{0, 5, 0}}
	c.Update(n.world())

	if c.Position() != n.pos {
		t.Fatalf("expected eye %v, got %v", n.pos, c.Position())
	}

	f := c.Frustum()
	cases := []struct {
		name  string
		point [3]float32
		want  bool
	}{
		{"ahead", [3]float32{0, 0, 20}, true},
		{"behind", [3]float32{0, 0, -20}, false},
		{"past_far", [3]float32{0, 5, 400}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.SphereVisible(tc.point, 0.5); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCameraCloneKeepsSettings(t *testing.T) {
	c := NewCamera(WithFov(1.2), WithClip(0.5, 300))
	clone := c.Clone()
	if clone.Fov() != 1.2 || clone.Near() != 0.5 || clone.Far() != 300 {
		t.Fatalf("clone lost perspective settings")
	}
	if clone.BindGroupProvider() == c.BindGroupProvider() {
		t.Fatalf("clone must own a separate bind group provider")
	}
	if clone.BindGroupProvider().Label() == c.BindGroupProvider().Label() {
		t.Fatalf("expected unique provider labels")
	}
}

func TestCameraIgnoresBadAspect(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	if c.Aspect() != 2 {
		t.Fatalf("expected aspect to stay 2, got %v", c.Aspect())
	}
}

func TestUniformLayout(t *testing.T) {
	c := NewCamera()
	u := c.Uniform()
	if u.Size() != 80 || len(u.Marshal()) != 80 {
		t.Fatalf("expected 80 byte uniform")
	}
}

func TestFPSControllerLook(t *testing.T) {
	cases := []struct {
		name      string
		dx, dy    float32
		wantYaw   float32
		wantPitch float32
	}{
		{"right", 100, 0, 10, 0},
		{"down", 0, 200, 0, 20},
		{"clamp_down", 0, 5000, 0, 90},
		{"clamp_up", 0, -5000, 0, -90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewFPSController()
			c.Look(tc.dx, tc.dy)
			if !near(c.Yaw(), tc.wantYaw) || !near(c.Pitch(), tc.wantPitch) {
				t.Fatalf("expected yaw %v pitch %v, got %v %v", tc.wantYaw, tc.wantPitch, c.Yaw(), c.Pitch())
			}
		})
	}
}

func TestFPSControllerMove(t *testing.T) {
	cases := []struct {
		name           string
		yaw            float32
		forward, right float32
		want           [3]float32
	}{
		{"forward", 0, 1, 0, [3]float32{0, 0, 20}},
		{"strafe_right", 0, 0, 1, [3]float32{-20, 0, 0}},
		{"turned_right_forward", 90, 1, 0, [3]float32{-20, 0, 0}},
		{"idle", 0, 0, 0, [3]float32{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewFPSController(WithOrientation(tc.yaw, 0))
			n := &fakeNode{}
			c.Apply(n)
			c.Move(n, tc.forward, tc.right, 1)
			for i := range n.pos {
				if !near(n.pos[i], tc.want[i]) {
					t.Fatalf("expected %v, got %v", tc.want, n.pos)
				}
			}
		})
	}
}

func TestFPSControllerAppliedCameraFacesYaw(t *testing.T) {
	c := NewFPSController(WithOrientation(90, 0))
	n := &fakeNode{}
	c.Apply(n)

	cam := NewCamera()
	cam.Update(n.world())
	f := cam.Frustum()
	if !f.SphereVisible([3]float32{-10, 0, 0}, 0.5) {
		t.Fatalf("a right turn from +Z should face -X")
	}
	if f.SphereVisible([3]float32{10, 0, 0}, 0.5) {
		t.Fatalf("+X should be behind after a right turn")
	}
}
