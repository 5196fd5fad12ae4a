// Package loader imports static meshes from glTF 2.0 files, both the JSON form with embedded
// or external buffers and the binary GLB container.
package loader

import (
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-outline/engine/model"
)

// loader is the implementation of Loader.
type loader struct {
	readFile func(name string) ([]byte, error)
}

// Loader turns glTF documents into models.
//
// Every triangle primitive of the default scene is merged into one model with node transforms
// baked in. A primitive's material base color factor becomes its vertex color. Textures, skins
// and animations are ignored.
type Loader interface {
	// Load decodes a glTF or GLB document. The format is detected from the content.
	//
	// Parameters:
	//   - name: the model name, also used to resolve external buffers relative to it
	//   - data: the file contents
	//
	// Returns:
	//   - model.Model: the merged static model
	//   - error: a decode error, or an error if the document has no triangles
	Load(name string, data []byte) (model.Model, error)
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the provided options.
//
// Parameters:
//   - options: loader options
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// IsModelFile reports whether a name has a glTF or GLB extension.
//
// Parameters:
//   - name: a file or resource name
//
// Returns:
//   - bool: true for .gltf and .glb
func IsModelFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}

func (l *loader) Load(name string, data []byte) (model.Model, error) {
	var resolve Resolver
	if l.readFile != nil {
		dir := path.Dir(filepath.ToSlash(name))
		resolve = func(uri string) ([]byte, error) {
			return l.readFile(path.Join(dir, uri))
		}
	}

	p, err := parseGLTF(data, resolve)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	vertices, indices, err := p.extractMesh()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	m := model.NewModel(model.WithName(name), model.WithGeometry(vertices, indices))
	log.Printf("[Loader] %s: %d vertices, %d triangles", name, len(vertices), len(indices)/3)
	return m, nil
}
