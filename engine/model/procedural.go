package model

import (
	"math"
)

// ProfilePoint is one sample of a lathe profile: a radius from the Y axis at a height,
// with the vertex color used for the ring generated from it.
type ProfilePoint struct {
	Radius float32
	Height float32
	Color  [4]float32
}

// NewPlane builds a unit quad on the XZ plane facing +Y, centered at the origin.
// Texture coordinates span [0, uvRepeat] on both axes.
//
// Parameters:
//   - name: the model name
//   - uvRepeat: how many times a texture tiles across the quad
//
// Returns:
//   - Model: the plane model
func NewPlane(name string, uvRepeat float32) Model {
	white := [4]float32{1, 1, 1, 1}
	tangent := [4]float32{1, 0, 0, 1}
	up := [3]float32{0, 1, 0}
	vertices := []GPUVertex{
		{Position: [3]float32{-0.5, 0, -0.5}, Normal: up, TexCoord: [2]float32{0, 0}, Color: white, Tangent: tangent},
		{Position: [3]float32{-0.5, 0, 0.5}, Normal: up, TexCoord: [2]float32{0, uvRepeat}, Color: white, Tangent: tangent},
		{Position: [3]float32{0.5, 0, 0.5}, Normal: up, TexCoord: [2]float32{uvRepeat, uvRepeat}, Color: white, Tangent: tangent},
		{Position: [3]float32{0.5, 0, -0.5}, Normal: up, TexCoord: [2]float32{uvRepeat, 0}, Color: white, Tangent: tangent},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return NewModel(WithName(name), WithGeometry(vertices, indices))
}

// NewBox builds a unit cube centered at the origin with per-face normals.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - Model: the box model
func NewBox(name string) Model {
	type face struct {
		normal, u, v [3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range corners {
			var p [3]float32
			for i := 0; i < 3; i++ {
				p[i] = 0.5*f.normal[i] + 0.5*c[0]*f.u[i] + 0.5*c[1]*f.v[i]
			}
			vertices = append(vertices, GPUVertex{
				Position: p,
				Normal:   f.normal,
				TexCoord: [2]float32{(c[0] + 1) / 2, 1 - (c[1]+1)/2},
				Color:    [4]float32{1, 1, 1, 1},
				Tangent:  [4]float32{f.u[0], f.u[1], f.u[2], 1},
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewModel(WithName(name), WithGeometry(vertices, indices))
}

// NewLathe revolves a profile around the Y axis. Consecutive profile points are joined by
// rings of quads; normals are derived from the profile slope.
//
// Parameters:
//   - name: the model name
//   - profile: points ordered bottom to top
//   - segments: number of slices around the axis (minimum 3)
//
// Returns:
//   - Model: the lathed model
func NewLathe(name string, profile []ProfilePoint, segments int) Model {
	segments = max(segments, 3)
	rings := len(profile)
	vertices := make([]GPUVertex, 0, rings*(segments+1))
	indices := make([]uint32, 0, (rings-1)*segments*6)

	for i, p := range profile {
		prev := profile[max(i-1, 0)]
		next := profile[min(i+1, rings-1)]
		dr := next.Radius - prev.Radius
		dh := next.Height - prev.Height
		nr, ny := dh, -dr
		if l := float32(math.Sqrt(float64(nr*nr + ny*ny))); l > 0 {
			nr, ny = nr/l, ny/l
		}

		for j := 0; j <= segments; j++ {
			theta := 2 * math.Pi * float64(j) / float64(segments)
			c, s := float32(math.Cos(theta)), float32(math.Sin(theta))
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{p.Radius * c, p.Height, p.Radius * s},
				Normal:   [3]float32{nr * c, ny, nr * s},
				TexCoord: [2]float32{float32(j) / float32(segments), 1 - float32(i)/float32(max(rings-1, 1))},
				Color:    p.Color,
				Tangent:  [4]float32{-s, 0, c, 1},
			})
		}
	}

	stride := uint32(segments + 1)
	for i := 0; i < rings-1; i++ {
		for j := 0; j < segments; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + 1
			c := a + stride
			d := c + 1
			indices = append(indices, a, d, b, a, c, d)
		}
	}

	return NewModel(WithName(name), WithGeometry(vertices, indices))
}

// NewMushroom builds a stem-and-cap mushroom roughly 1.65 units tall with a cap radius of 1.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - Model: the mushroom model
func NewMushroom(name string) Model {
	stem := [4]float32{0.92, 0.87, 0.74, 1}
	capColor := [4]float32{0.78, 0.22, 0.16, 1}
	profile := []ProfilePoint{
		{0.22, 0.00, stem},
		{0.19, 0.45, stem},
		{0.16, 0.88, stem},
		{0.60, 0.90, stem},
		{1.00, 0.86, capColor},
		{0.96, 1.10, capColor},
		{0.74, 1.40, capColor},
		{0.38, 1.60, capColor},
		{0.00, 1.66, capColor},
	}
	return NewLathe(name, profile, 24)
}
