package material

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
)

// DefaultPipelineKey is the render pipeline used by materials that do not name one.
const DefaultPipelineKey = "lit"

// material is the implementation of the Material interface.
type material struct {
	name              string
	baseColor         [4]float32
	uvScale           [2]float32
	textureName       string
	texture           *common.TextureStagingData
	revision          uint64
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a render material, encapsulating surface
// properties, an optional diffuse texture, and the GPU resource bindings needed for draw calls.
//
// Materials are shared by reference: every scene node drawing with the same material sees
// property changes immediately, which is how hot-reloaded definitions reach the screen.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the RGBA color multiplied with the diffuse texture.
	// Unlit materials output it unchanged.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// SetBaseColor replaces the base color.
	//
	// Parameters:
	//   - c: the RGBA color
	SetBaseColor(c [4]float32)

	// UVScale retrieves the texture coordinate multiplier used to tile the diffuse texture.
	//
	// Returns:
	//   - [2]float32: the (u, v) scale
	UVScale() [2]float32

	// SetUVScale replaces the texture coordinate multiplier.
	SetUVScale(u, v float32)

	// TextureName retrieves the resource name of the diffuse texture, or "" when untextured.
	//
	// Returns:
	//   - string: the texture resource name
	TextureName() string

	// Texture retrieves the staged diffuse texture pixels, or nil when untextured.
	//
	// Returns:
	//   - *common.TextureStagingData: the texture data
	Texture() *common.TextureStagingData

	// SetTexture replaces the diffuse texture and bumps the revision so GPU bindings are rebuilt.
	//
	// Parameters:
	//   - name: the texture resource name
	//   - data: the staged pixels, or nil to clear
	SetTexture(name string, data *common.TextureStagingData)

	// Revision increments whenever a change requires the bind group to be recreated.
	//
	// Returns:
	//   - uint64: the current revision
	Revision() uint64

	// PipelineKey retrieves the key of the render pipeline this material draws with.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetPipelineKey sets the render pipeline this material draws with.
	SetPipelineKey(key string)

	// BindGroupProvider retrieves the GPU binding provider for this material, or nil before the
	// renderer first draws with it.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider stores the GPU binding provider created by the renderer.
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)

	// Params builds the uniform block uploaded for this material.
	//
	// Returns:
	//   - GPUMaterialParams: the packed parameters
	Params() GPUMaterialParams
}

var _ Material = &material{}

// NewMaterial creates a new Material instance with the specified options applied.
// The base color defaults to opaque white, the UV scale to (1, 1) and the pipeline to DefaultPipelineKey.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions to configure the Material
//
// Returns:
//   - Material: a new instance of Material configured with the provided options
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor:   [4]float32{1, 1, 1, 1},
		uvScale:     [2]float32{1, 1},
		pipelineKey: DefaultPipelineKey,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) SetBaseColor(c [4]float32) {
	m.baseColor = c
}

func (m *material) UVScale() [2]float32 {
	return m.uvScale
}

func (m *material) SetUVScale(u, v float32) {
	m.uvScale = [2]float32{u, v}
}

func (m *material) TextureName() string {
	return m.textureName
}

func (m *material) Texture() *common.TextureStagingData {
	return m.texture
}

func (m *material) SetTexture(name string, data *common.TextureStagingData) {
	if name == m.textureName && data == m.texture {
		return
	}
	m.textureName = name
	m.texture = data
	m.revision++
}

func (m *material) Revision() uint64 {
	return m.revision
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) SetPipelineKey(key string) {
	if key == m.pipelineKey {
		return
	}
	m.pipelineKey = key
	m.revision++
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}

func (m *material) Params() GPUMaterialParams {
	return GPUMaterialParams{
		BaseColor: m.baseColor,
		UVScale:   m.uvScale,
	}
}
