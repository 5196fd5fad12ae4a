package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is a @vertex entry point.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a @fragment entry point.
	ShaderTypeFragment
)

// String returns the stage name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	}
	return fmt.Sprintf("ShaderType(%d)", int(t))
}

// shader is the implementation of Shader.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string

	bindGroupLayouts map[int]wgpu.BindGroupLayoutDescriptor
	bindingNames     map[int]map[int]string
	vertexLayouts    []wgpu.VertexBufferLayout
}

// Shader is one reflected stage of a WGSL module.
//
// The source is parsed once at construction: the entry point for the stage, the
// @group/@binding declarations as bind group layout descriptors, and for vertex shaders the
// vertex input structs as buffer layouts. A single WGSL file may carry both a vertex and a
// fragment entry point; build one Shader per stage from the same source.
type Shader interface {
	// Key returns the shader's identifier, used for labels and lookups.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Source returns the WGSL source the shader was built from.
	//
	// Returns:
	//   - string: the WGSL code
	Source() string

	// ShaderType returns the stage of this shader.
	//
	// Returns:
	//   - ShaderType: vertex or fragment
	ShaderType() ShaderType

	// EntryPoint returns the name of the stage's entry function.
	//
	// Returns:
	//   - string: the entry point, e.g. "vs_main"
	EntryPoint() string

	// BindGroupLayoutDescriptor returns the parsed layout for a single group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout, empty when the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every parsed group layout.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: layouts keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindingName returns the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - string: the variable name, or "" if nothing is declared there
	BindingName(group, binding int) string

	// Binding finds the binding index of a named variable within a group.
	//
	// Parameters:
	//   - group: the @group index
	//   - name: the variable name
	//
	// Returns:
	//   - int: the binding index, or -1
	//   - bool: whether the variable was found
	Binding(group int, name string) (int, bool)

	// VertexLayouts returns one buffer layout per vertex input struct, in declaration order.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, empty for fragment shaders
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module builds a shader module descriptor for the source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor, labelled with the key
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader reflects one stage of a WGSL module.
//
// Parameters:
//   - key: the shader's identifier
//   - shaderType: which entry point to reflect
//   - source: the WGSL code
//
// Returns:
//   - Shader: the reflected shader
//   - error: error if the source has no entry point for the stage
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
	}
	cleaned := stripComments(source)

	s.entryPoint = parseEntryPoint(cleaned, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no %s entry point", key, shaderType)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(cleaned)
	}
	s.bindGroupLayouts, s.bindingNames = parseBindGroupLayouts(cleaned, visibility)
	return s, nil
}

// MustShader is NewShader for sources compiled into the binary, where a missing entry point
// is a programming error.
func MustShader(key string, shaderType ShaderType, source string) Shader {
	s, err := NewShader(key, shaderType, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts
}

func (s *shader) BindingName(group, binding int) string {
	return s.bindingNames[group][binding]
}

func (s *shader) Binding(group int, name string) (int, bool) {
	for binding, n := range s.bindingNames[group] {
		if n == name {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}
