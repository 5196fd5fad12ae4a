package scene

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
)

// staticModel is the implementation of StaticModel.
type staticModel struct {
	model       model.Model
	material    material.Material
	castShadows bool
}

// StaticModel is the drawable component of a node: a shared model drawn with a material.
// The component itself belongs to exactly one node, so swapping its material never
// affects other nodes that draw the same model.
type StaticModel interface {
	// Model returns the drawn model.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// Material returns the material the model is drawn with.
	//
	// Returns:
	//   - material.Material: the material, or nil to use the renderer's default
	Material() material.Material

	// SetMaterial replaces the material for this component only.
	//
	// Parameters:
	//   - m: the new material
	SetMaterial(m material.Material)

	// CastShadows reports whether the model is drawn into the shadow map.
	//
	// Returns:
	//   - bool: true if it casts shadows
	CastShadows() bool

	// SetCastShadows sets whether the model is drawn into the shadow map.
	//
	// Parameters:
	//   - cast: true to cast shadows
	SetCastShadows(cast bool)

	// Clone returns a new component with the same model, material and shadow flag.
	//
	// Returns:
	//   - StaticModel: the copy
	Clone() StaticModel
}

var _ StaticModel = &staticModel{}

// NewStaticModel creates a shadow-casting drawable component.
//
// Parameters:
//   - m: the model
//   - mat: the material
//
// Returns:
//   - StaticModel: the component
func NewStaticModel(m model.Model, mat material.Material) StaticModel {
	return &staticModel{model: m, material: mat, castShadows: true}
}

func (s *staticModel) Model() model.Model {
	return s.model
}

func (s *staticModel) Material() material.Material {
	return s.material
}

func (s *staticModel) SetMaterial(m material.Material) {
	s.material = m
}

func (s *staticModel) CastShadows() bool {
	return s.castShadows
}

func (s *staticModel) SetCastShadows(cast bool) {
	s.castShadows = cast
}

func (s *staticModel) Clone() StaticModel {
	c := *s
	return &c
}
