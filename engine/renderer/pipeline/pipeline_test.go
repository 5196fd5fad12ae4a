package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const vertexOnly = `
struct Camera { view_proj: mat4x4<f32>, }
@group(0) @binding(0) var<uniform> camera: Camera;
@vertex fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return camera.view_proj * vec4<f32>(0.0);
}
`

const fragmentOnly = `
struct Camera { view_proj: mat4x4<f32>, }
@group(0) @binding(0) var<uniform> camera: Camera;
@group(0) @binding(1) var tex: texture_2d<f32>;
@group(1) @binding(0) var samp: sampler;
@fragment fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestMergeBindGroupLayouts(t *testing.T) {
	vs := shader.MustShader("vs", shader.ShaderTypeVertex, vertexOnly)
	fs := shader.MustShader("fs", shader.ShaderTypeFragment, fragmentOnly)
	p := NewPipeline("merged", WithVertexShader(vs), WithFragmentShader(fs))

	merged := p.BindGroupLayouts()
	if len(merged) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(merged))
	}

	g0 := merged[0].Entries
	if len(g0) != 2 {
		t.Fatalf("group 0: expected 2 entries, got %d", len(g0))
	}
	if g0[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Fatalf("shared binding should be visible to both stages, got %v", g0[0].Visibility)
	}
	if g0[1].Visibility != wgpu.ShaderStageFragment {
		t.Fatalf("fragment-only binding kept its visibility, got %v", g0[1].Visibility)
	}
	if merged[1].Entries[0].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Fatalf("group 1 should come from the fragment shader")
	}

	// Merging must not write through to the shader's own descriptors.
	if vs.BindGroupLayoutDescriptor(0).Entries[0].Visibility != wgpu.ShaderStageVertex {
		t.Fatalf("vertex shader layout was mutated")
	}
}

func TestMergeWithoutFragment(t *testing.T) {
	vs := shader.MustShader("vs", shader.ShaderTypeVertex, vertexOnly)
	p := NewPipeline("shadow", WithVertexShader(vs), WithDepthFormat(wgpu.TextureFormatDepth32Float))
	if p.Shader(shader.ShaderTypeFragment) != nil {
		t.Fatalf("expected no fragment shader")
	}
	if len(p.BindGroupLayouts()) != 1 {
		t.Fatalf("expected the vertex layouts only")
	}
	if p.DepthFormat() != wgpu.TextureFormatDepth32Float {
		t.Fatalf("depth format option not applied")
	}
}

func TestPipelineDefaults(t *testing.T) {
	cases := []struct {
		name  string
		opts  []PipelineBuilderOption
		check func(Pipeline) bool
	}{
		{"depth", nil, func(p Pipeline) bool {
			return p.DepthTestEnabled() && p.DepthWriteEnabled() && p.DepthFormat() == wgpu.TextureFormatDepth24Plus
		}},
		{"raster", nil, func(p Pipeline) bool {
			return p.CullMode() == wgpu.CullModeNone && p.FrontFace() == wgpu.FrontFaceCCW &&
				p.Topology() == wgpu.PrimitiveTopologyTriangleList
		}},
		{"blend_off", nil, func(p Pipeline) bool {
			return !p.BlendEnabled() && p.BlendState() != nil && p.WriteMask() == wgpu.ColorWriteMaskAll
		}},
		{"post", []PipelineBuilderOption{
			WithDepthFormat(wgpu.TextureFormatUndefined),
			WithDepthTestEnabled(false),
			WithDepthWriteEnabled(false),
		}, func(p Pipeline) bool {
			return p.DepthFormat() == wgpu.TextureFormatUndefined && !p.DepthTestEnabled() && !p.DepthWriteEnabled()
		}},
		{"shadow", []PipelineBuilderOption{
			WithCullMode(wgpu.CullModeFront),
			WithDepthBias(2, 2.5),
		}, func(p Pipeline) bool {
			return p.CullMode() == wgpu.CullModeFront && p.DepthBias() == 2 && p.DepthBiasSlopeScale() == 2.5
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewPipeline(c.name, c.opts...)
			if p.Key() != c.name {
				t.Fatalf("unexpected key %q", p.Key())
			}
			if !c.check(p) {
				t.Fatalf("unexpected state")
			}
			if len(p.Formats()) != 0 || p.RenderPipeline(wgpu.TextureFormatRGBA8Unorm) != nil {
				t.Fatalf("nothing should be compiled yet")
			}
		})
	}
}
