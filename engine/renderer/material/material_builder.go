package material

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the RGBA base color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithUVScale is an option builder that tiles the diffuse texture.
//
// Parameters:
//   - u, v: texture coordinate multipliers
//
// Returns:
//   - MaterialBuilderOption: a function that applies the UV scale option to a material
func WithUVScale(u, v float32) MaterialBuilderOption {
	return func(m *material) {
		m.uvScale = [2]float32{u, v}
	}
}

// WithTexture is an option builder that sets the diffuse texture.
//
// Parameters:
//   - name: the texture resource name
//   - data: the staged RGBA pixels
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(name string, data *common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.textureName = name
		m.texture = data
	}
}

// WithPipelineKey is an option builder that selects the render pipeline, for example "lit" or "unlit".
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}
