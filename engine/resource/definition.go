package resource

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/config"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
	"gopkg.in/yaml.v3"
)

// MaterialDefinition is the YAML form of a material.
//
//	pipeline: lit
//	color: "#ffffff"
//	texture: Textures/StoneTiled
//	uv_scale: [50, 50]
type MaterialDefinition struct {
	Pipeline string       `yaml:"pipeline"`
	Color    config.Color `yaml:"color"`
	Texture  string       `yaml:"texture"`
	UVScale  []float32    `yaml:"uv_scale"`
}

// ParseMaterialDefinition decodes a material definition and fills in defaults:
// the lit pipeline, opaque white and a UV scale of one.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - MaterialDefinition: the decoded definition
//   - error: error if the document is malformed
func ParseMaterialDefinition(data []byte) (MaterialDefinition, error) {
	def := MaterialDefinition{
		Pipeline: material.DefaultPipelineKey,
		Color:    config.Color{1, 1, 1, 1},
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return MaterialDefinition{}, err
	}
	switch len(def.UVScale) {
	case 0:
		def.UVScale = []float32{1, 1}
	case 1:
		def.UVScale = []float32{def.UVScale[0], def.UVScale[0]}
	case 2:
	default:
		return MaterialDefinition{}, fmt.Errorf("uv_scale: expected 1 or 2 values, got %d", len(def.UVScale))
	}
	if def.Pipeline == "" {
		def.Pipeline = material.DefaultPipelineKey
	}
	return def, nil
}

// apply copies the definition onto a live material.
func (d MaterialDefinition) apply(m material.Material, texName string, tex *common.TextureStagingData) {
	m.SetBaseColor(d.Color)
	m.SetUVScale(d.UVScale[0], d.UVScale[1])
	m.SetPipelineKey(d.Pipeline)
	m.SetTexture(texName, tex)
}
