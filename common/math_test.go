package common

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestBuildModelMatrixTransformsPoint(t *testing.T) {
	cases := []struct {
		name  string
		pos   [3]float32
		rot   [3]float32
		scale [3]float32
		in    [3]float32
		want  [3]float32
	}{
		{"identity", [3]float32{}, [3]float32{}, [3]float32{1, 1, 1}, [3]float32{1, 2, 3}, [3]float32{1, 2, 3}},
		{"translate", [3]float32{0, 0, 20}, [3]float32{}, [3]float32{1, 1, 1}, [3]float32{0, 0, 0}, [3]float32{0, 0, 20}},
		{"scale", [3]float32{}, [3]float32{}, [3]float32{2, 3, 4}, [3]float32{1, 1, 1}, [3]float32{2, 3, 4}},
		{"yaw_90", [3]float32{}, [3]float32{0, math.Pi / 2, 0}, [3]float32{1, 1, 1}, [3]float32{0, 0, 1}, [3]float32{1, 0, 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := make([]float32, 16)
			BuildModelMatrix(m, c.pos[0], c.pos[1], c.pos[2], c.rot[0], c.rot[1], c.rot[2], c.scale[0], c.scale[1], c.scale[2])
			got := TransformPoint(m, c.in)
			for i := range got {
				if !approx(got[i], c.want[i]) {
					t.Fatalf("component %d: expected %v, got %v", i, c.want, got)
				}
			}
		})
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 3, -2, 7, 0.3, 1.1, -0.4, 2, 2, 2)

	inv := make([]float32, 16)
	if !Invert4(inv, m) {
		t.Fatalf("expected matrix to be invertible")
	}

	out := make([]float32, 16)
	Mul4(out, m, inv)
	id := make([]float32, 16)
	Identity(id)
	for i := range out {
		if !approx(out[i], id[i]) {
			t.Fatalf("m * inv(m) is not identity at %d: %v", i, out)
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	m := make([]float32, 16)
	out := []float32{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	if Invert4(out, m) {
		t.Fatalf("zero matrix should not invert")
	}
	if out[0] != 9 {
		t.Fatalf("output should be untouched on failure")
	}
}

func TestMaxScale(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 0, 0, 0, 0, 0.7, 0, 1, 3, 2)
	if got := MaxScale(m); !approx(got, 3) {
		t.Fatalf("expected 3, got %v", got)
	}
}

func TestDecomposeModelMatrix(t *testing.T) {
	cases := []struct {
		name            string
		pos, rot, scale [3]float32
	}{
		{"identity", [3]float32{}, [3]float32{}, [3]float32{1, 1, 1}},
		{"mushroom", [3]float32{0, 0, 20}, [3]float32{0, 2.1, 0}, [3]float32{1.7, 1.7, 1.7}},
		{"tilted", [3]float32{1, -2, 3}, [3]float32{0.4, -0.9, 0.3}, [3]float32{2, 1, 0.5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := make([]float32, 16)
			BuildModelMatrix(m, c.pos[0], c.pos[1], c.pos[2], c.rot[0], c.rot[1], c.rot[2], c.scale[0], c.scale[1], c.scale[2])
			pos, rot, scale := DecomposeModelMatrix(m)
			for i := 0; i < 3; i++ {
				if !approx(pos[i], c.pos[i]) || !approx(rot[i], c.rot[i]) || !approx(scale[i], c.scale[i]) {
					t.Fatalf("got pos %v rot %v scale %v", pos, rot, scale)
				}
			}
		})
	}
}
