package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const meshSource = `
/* block comment with @vertex fn not_this() */
struct Camera {
    view_proj: mat4x4<f32>,
    position: vec3<f32>,
}

struct Params {
    color: vec4<f32>,
    thickness: f32,
}

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
    @location(3) color: vec4<f32>,
    @location(4) tangent: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(1) var albedo_sampler: sampler;
@group(1) @binding(0) var albedo: texture_2d<f32>;
@group(1) @binding(2) var<uniform> params: Params;
@group(2) @binding(0) var shadow_map: texture_depth_2d;
@group(2) @binding(1) var shadow_sampler: sampler_comparison;
@group(2) @binding(2) var<storage, read> lights: array<vec4<f32>>;

// @fragment fn commented_out() {}
@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestEntryPoints(t *testing.T) {
	cases := []struct {
		name string
		typ  ShaderType
		want string
	}{
		{"vertex", ShaderTypeVertex, "vs_main"},
		{"fragment", ShaderTypeFragment, "fs_main"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := NewShader("mesh", c.typ, meshSource)
			if err != nil {
				t.Fatalf("new shader: %v", err)
			}
			if s.EntryPoint() != c.want {
				t.Fatalf("expected %q, got %q", c.want, s.EntryPoint())
			}
			if s.ShaderType() != c.typ || s.Key() != "mesh" {
				t.Fatalf("unexpected identity")
			}
		})
	}
}

func TestMissingEntryPoint(t *testing.T) {
	if _, err := NewShader("broken", ShaderTypeFragment, "@vertex fn vs() {}"); err == nil {
		t.Fatalf("expected an error for a missing fragment entry point")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("MustShader should panic")
		}
	}()
	MustShader("broken", ShaderTypeVertex, "fn nothing() {}")
}

func TestVertexLayout(t *testing.T) {
	s := MustShader("mesh", ShaderTypeVertex, meshSource)
	layouts := s.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("expected one vertex layout, got %d", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != 64 {
		t.Fatalf("expected stride 64, got %d", l.ArrayStride)
	}
	wantOffsets := []uint64{0, 12, 24, 32, 48}
	for i, a := range l.Attributes {
		if a.Offset != wantOffsets[i] || a.ShaderLocation != uint32(i) {
			t.Fatalf("attribute %d: offset %d location %d", i, a.Offset, a.ShaderLocation)
		}
	}
	if l.Attributes[2].Format != wgpu.VertexFormatFloat32x2 {
		t.Fatalf("uv should be float32x2")
	}

	frag := MustShader("mesh", ShaderTypeFragment, meshSource)
	if len(frag.VertexLayouts()) != 0 {
		t.Fatalf("fragment shaders carry no vertex layouts")
	}
}

func TestBindGroupLayouts(t *testing.T) {
	s := MustShader("mesh", ShaderTypeFragment, meshSource)
	groups := s.BindGroupLayoutDescriptors()
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	cam := s.BindGroupLayoutDescriptor(0).Entries[0]
	if cam.Buffer.Type != wgpu.BufferBindingTypeUniform || cam.Buffer.MinBindingSize != 80 {
		t.Fatalf("camera: type %v size %d", cam.Buffer.Type, cam.Buffer.MinBindingSize)
	}
	if cam.Visibility != wgpu.ShaderStageFragment {
		t.Fatalf("visibility should follow the stage")
	}

	mat := s.BindGroupLayoutDescriptor(1).Entries
	for i, e := range mat {
		if e.Binding != uint32(i) {
			t.Fatalf("entries should be sorted by binding, got %d at %d", e.Binding, i)
		}
	}
	if mat[0].Texture.SampleType != wgpu.TextureSampleTypeFloat || mat[0].Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Fatalf("albedo should be a float 2d texture")
	}
	if mat[1].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Fatalf("expected a filtering sampler")
	}
	if mat[2].Buffer.MinBindingSize != 32 {
		t.Fatalf("Params should round up to 32 bytes, got %d", mat[2].Buffer.MinBindingSize)
	}

	shadow := s.BindGroupLayoutDescriptor(2).Entries
	if shadow[0].Texture.SampleType != wgpu.TextureSampleTypeDepth {
		t.Fatalf("expected a depth texture")
	}
	if shadow[1].Sampler.Type != wgpu.SamplerBindingTypeComparison {
		t.Fatalf("expected a comparison sampler")
	}
	if shadow[2].Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage || shadow[2].Buffer.MinBindingSize != 16 {
		t.Fatalf("runtime array should bind one element: %v %d", shadow[2].Buffer.Type, shadow[2].Buffer.MinBindingSize)
	}

	if s.BindingName(1, 2) != "params" || s.BindingName(5, 0) != "" {
		t.Fatalf("unexpected binding names")
	}
	if b, ok := s.Binding(2, "shadow_sampler"); !ok || b != 1 {
		t.Fatalf("expected shadow_sampler at binding 1, got %d", b)
	}
	if _, ok := s.Binding(0, "missing"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]typeLayout{"Plane": {16, 16}}
	cases := []struct {
		typ        string
		size       uint64
		align      uint64
		resolvable bool
	}{
		{"f32", 4, 4, true},
		{"vec3<f32>", 12, 16, true},
		{"mat4x4<f32>", 64, 16, true},
		{"array<Plane, 6>", 96, 16, true},
		{"array<vec3f, 2>", 32, 16, true},
		{"array<u32>", 4, 4, true},
		{"Unknown", 0, 0, false},
		{"array<f32, n>", 0, 0, false},
	}
	for _, c := range cases {
		t.Run(c.typ, func(t *testing.T) {
			l, ok := resolveTypeLayout(c.typ, known)
			if ok != c.resolvable {
				t.Fatalf("expected resolvable %v", c.resolvable)
			}
			if ok && (l.size != c.size || l.align != c.align) {
				t.Fatalf("expected %d/%d, got %d/%d", c.size, c.align, l.size, l.align)
			}
		})
	}
}

func TestStructSizesResolveForwardReferences(t *testing.T) {
	structs := parseStructBlocks(stripComments(`
struct Outer { inner: Inner, scale: f32, }
struct Inner { a: vec3<f32>, b: f32, }
`))
	sizes := computeStructSizes(structs)
	if sizes["Inner"].size != 16 {
		t.Fatalf("Inner: expected 16, got %d", sizes["Inner"].size)
	}
	if sizes["Outer"].size != 32 {
		t.Fatalf("Outer: expected 32, got %d", sizes["Outer"].size)
	}
}
