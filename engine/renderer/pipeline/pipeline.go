package pipeline

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthOnly is the color format key under which a pipeline without a color target is stored.
const DepthOnly = wgpu.TextureFormatUndefined

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key string

	vertexShader, fragmentShader shader.Shader

	// compiled holds one GPU pipeline per color target format it has been built for.
	compiled map[wgpu.TextureFormat]*wgpu.RenderPipeline

	depthFormat         wgpu.TextureFormat
	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Pipeline describes a render pipeline: its shaders plus the fixed-function state used to
// build it. The same description is compiled once per color target format on demand, since
// scene passes may target both the swapchain and off-screen textures of other formats.
type Pipeline interface {
	// Key returns the pipeline's identifier, which materials reference by name.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Shader returns the shader for a stage.
	//
	// Parameters:
	//   - shaderType: vertex or fragment
	//
	// Returns:
	//   - shader.Shader: the shader, or nil for a depth-only pipeline's fragment stage
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayouts merges the vertex and fragment bind group layouts. Bindings declared
	// by both stages have their visibility ORed together.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: merged layouts keyed by group index
	BindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor

	// RenderPipeline returns the compiled pipeline for a color format.
	//
	// Parameters:
	//   - format: the color target format, or DepthOnly
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled pipeline, or nil if not built for that format yet
	RenderPipeline(format wgpu.TextureFormat) *wgpu.RenderPipeline

	// SetRenderPipeline stores a compiled pipeline for a color format.
	//
	// Parameters:
	//   - format: the color target format, or DepthOnly
	//   - rp: the compiled pipeline
	SetRenderPipeline(format wgpu.TextureFormat, rp *wgpu.RenderPipeline)

	// Formats lists the color formats the pipeline has been compiled for.
	//
	// Returns:
	//   - []wgpu.TextureFormat: the formats
	Formats() []wgpu.TextureFormat

	// DepthFormat returns the depth attachment format, or TextureFormatUndefined when the
	// pipeline runs without a depth attachment.
	DepthFormat() wgpu.TextureFormat

	// DepthTestEnabled reports whether fragments are depth tested.
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth.
	DepthWriteEnabled() bool

	// DepthBias returns the constant depth bias.
	DepthBias() int32

	// DepthBiasSlopeScale returns the slope-scaled depth bias.
	DepthBiasSlopeScale() float32

	// BlendEnabled reports whether BlendState applies to the color target.
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	BlendState() *wgpu.BlendState

	// Release frees every compiled pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline description. Nothing is compiled until the renderer builds it
// for a color format.
//
// Defaults: depth test and write on against Depth24Plus, no culling, triangle lists with CCW
// front faces, all color channels written, alpha blending off.
//
// Parameters:
//   - key: the pipeline's identifier
//   - opts: builder options
//
// Returns:
//   - Pipeline: the description
func NewPipeline(key string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:               key,
		compiled:          make(map[wgpu.TextureFormat]*wgpu.RenderPipeline),
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	}
	return nil
}

func (p *pipeline) BindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor {
	var vertex, fragment map[int]wgpu.BindGroupLayoutDescriptor
	if p.vertexShader != nil {
		vertex = p.vertexShader.BindGroupLayoutDescriptors()
	}
	if p.fragmentShader != nil {
		fragment = p.fragmentShader.BindGroupLayoutDescriptors()
	}
	return MergeBindGroupLayouts(vertex, fragment)
}

func (p *pipeline) RenderPipeline(format wgpu.TextureFormat) *wgpu.RenderPipeline {
	return p.compiled[format]
}

func (p *pipeline) SetRenderPipeline(format wgpu.TextureFormat, rp *wgpu.RenderPipeline) {
	if old := p.compiled[format]; old != nil && old != rp {
		old.Release()
	}
	p.compiled[format] = rp
}

func (p *pipeline) Formats() []wgpu.TextureFormat {
	return slices.Sorted(maps.Keys(p.compiled))
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Release() {
	for format, rp := range p.compiled {
		if rp != nil {
			rp.Release()
		}
		delete(p.compiled, format)
	}
}

// MergeBindGroupLayouts combines per-stage layouts into one set for a pipeline layout.
// Groups present in one stage are taken as is. Within a shared group, bindings are unioned;
// a binding present in both stages keeps the vertex entry with both visibility flags.
//
// Parameters:
//   - vertex: layouts reflected from the vertex shader
//   - fragment: layouts reflected from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged layouts, entries sorted by binding
func MergeBindGroupLayouts(vertex, fragment map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, max(len(vertex), len(fragment)))
	maps.Copy(merged, vertex)

	for g, fDesc := range fragment {
		vDesc, ok := merged[g]
		if !ok {
			merged[g] = fDesc
			continue
		}
		entries := slices.Clone(vDesc.Entries)
		for _, e := range fDesc.Entries {
			i := slices.IndexFunc(entries, func(x wgpu.BindGroupLayoutEntry) bool { return x.Binding == e.Binding })
			if i >= 0 {
				entries[i].Visibility |= e.Visibility
				continue
			}
			entries = append(entries, e)
		}
		slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
			return int(a.Binding) - int(b.Binding)
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{Label: vDesc.Label, Entries: entries}
	}
	return merged
}
