package model

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	vertices       []GPUVertex
	indices        []uint32
	vertexData     []byte
	indexData      []byte
	boundingRadius float32
	meshProvider   bind_group_provider.BindGroupProvider
}

// Model defines the interface for a static triangle mesh.
// The CPU-side vertex and index data are immutable after construction; the GPU copy lives in
// the mesh provider, which the renderer fills the first time the model is drawn. A single
// Model is shared by every scene node that draws it, including mirror clones.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices retrieves the CPU-side vertex list.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices retrieves the triangle list indices.
	//
	// Returns:
	//   - []uint32: three indices per triangle
	Indices() []uint32

	// VertexData retrieves the packed vertex buffer contents.
	//
	// Returns:
	//   - []byte: 64 bytes per vertex
	VertexData() []byte

	// IndexData retrieves the packed index buffer contents.
	//
	// Returns:
	//   - []byte: 4 bytes per index
	IndexData() []byte

	// IndexCount retrieves the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius retrieves the radius of a sphere around the model origin enclosing every vertex.
	//
	// Returns:
	//   - float32: the bounding radius in model space
	BoundingRadius() float32

	// MeshProvider retrieves the GPU provider holding vertex and index buffers, or nil before upload.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider stores the GPU provider created by the renderer.
	SetMeshProvider(p bind_group_provider.BindGroupProvider)
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// Vertex and index buffers are packed once here.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	m.vertexData = MarshalVertices(m.vertices)
	m.indexData = MarshalIndices(m.indices)
	if m.boundingRadius == 0 {
		m.boundingRadius = ComputeBoundingRadius(m.vertices)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) SetMeshProvider(p bind_group_provider.BindGroupProvider) {
	m.meshProvider = p
}
