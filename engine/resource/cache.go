// Package resource loads and caches models, materials, textures and scripts by name.
//
// Names are slash-separated paths such as "Materials/White.yaml". Files in the resource
// directory on disk take precedence over the copies embedded in the binary, which lets
// the demo run without any assets while still supporting edits and hot reload.
package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/loader"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
)

// ErrNotFound is returned when a resource name matches nothing registered, on disk or embedded.
var ErrNotFound = errors.New("resource: not found")

// ModelBuilder creates a model on first use.
type ModelBuilder func(name string) model.Model

// TextureBuilder creates texture pixels on first use.
type TextureBuilder func(name string) (common.TextureStagingData, error)

// Name prefixes used by Preload to pick a loader.
const (
	MaterialsPrefix = "Materials/"
	TexturesPrefix  = "Textures/"
	ScriptsPrefix   = "Scripts/"
)

// cache is the implementation of Cache.
type cache struct {
	mu      *sync.Mutex
	dir     string
	builtin fs.FS

	maxTextureSize int
	workers        int
	pool           worker.DynamicWorkerPool
	loader         loader.Loader

	modelBuilders   map[string]ModelBuilder
	textureBuilders map[string]TextureBuilder

	models    map[string]model.Model
	materials map[string]material.Material
	textures  map[string]*common.TextureStagingData
}

// Cache resolves resources by name and keeps one instance of each.
//
// All methods are safe for concurrent use so Preload can fan out across workers. Returned
// models and materials are shared: every caller sees the same instance.
type Cache interface {
	// Dir returns the on-disk resource directory, or "" when only embedded assets are used.
	//
	// Returns:
	//   - string: the directory
	Dir() string

	// RegisterModel installs a builder for a model name. A model already built under that
	// name is dropped so the next Model call rebuilds it.
	//
	// Parameters:
	//   - name: the model name
	//   - builder: creates the model
	RegisterModel(name string, builder ModelBuilder)

	// Model returns the model registered under name, building it on first use. Names ending
	// in .gltf or .glb that have no builder are imported from disk or the embedded assets.
	//
	// Parameters:
	//   - name: the model name
	//
	// Returns:
	//   - model.Model: the shared model
	//   - error: ErrNotFound if nothing is registered under name
	Model(name string) (model.Model, error)

	// RegisterTexture installs a procedural texture builder.
	//
	// Parameters:
	//   - name: the texture name
	//   - builder: creates the pixels
	RegisterTexture(name string, builder TextureBuilder)

	// Texture returns decoded RGBA pixels for name. Registered builders win; otherwise the
	// name is read as a PNG or JPEG file.
	//
	// Parameters:
	//   - name: the texture name
	//
	// Returns:
	//   - *common.TextureStagingData: the shared pixels
	//   - error: ErrNotFound or a decode error
	Texture(name string) (*common.TextureStagingData, error)

	// Material returns the material defined by the YAML file name, loading it on first use.
	//
	// Parameters:
	//   - name: the definition name, for example "Materials/White.yaml"
	//
	// Returns:
	//   - material.Material: the shared material
	//   - error: ErrNotFound, a parse error or a texture error
	Material(name string) (material.Material, error)

	// ReloadMaterial re-reads a definition and applies it to the live material in place,
	// so nodes already drawing with it pick the change up. An unloaded material is loaded.
	// On error the live material is left unchanged.
	//
	// Parameters:
	//   - name: the definition name
	//
	// Returns:
	//   - error: ErrNotFound, a parse error or a texture error
	ReloadMaterial(name string) error

	// Script returns the source of a script resource. Scripts are not cached so edits on
	// disk are always seen.
	//
	// Parameters:
	//   - name: the script name, for example "Scripts/Selector.tengo"
	//
	// Returns:
	//   - []byte: the source
	//   - error: ErrNotFound or a read error
	Script(name string) ([]byte, error)

	// Preload resolves every name on the worker pool and waits for all of them.
	// Names under Materials/, Textures/ and Scripts/ use the matching loader; anything else
	// is a model.
	//
	// Parameters:
	//   - names: the resources to load
	//
	// Returns:
	//   - error: every failure joined, or nil
	Preload(names ...string) error

	// Close stops the worker pool.
	Close()
}

var _ Cache = &cache{}

// NewCache creates a cache with the built-in models, procedural textures and embedded assets.
//
// Parameters:
//   - options: cache options
//
// Returns:
//   - Cache: the new cache
func NewCache(options ...CacheBuilderOption) Cache {
	c := &cache{
		mu:              &sync.Mutex{},
		builtin:         embedded,
		maxTextureSize:  1024,
		workers:         4,
		modelBuilders:   make(map[string]ModelBuilder),
		textureBuilders: make(map[string]TextureBuilder),
		models:          make(map[string]model.Model),
		materials:       make(map[string]material.Material),
		textures:        make(map[string]*common.TextureStagingData),
	}

	c.modelBuilders["Plane"] = func(name string) model.Model { return model.NewPlane(name, 1) }
	c.modelBuilders["Box"] = model.NewBox
	c.modelBuilders["Mushroom"] = model.NewMushroom
	c.textureBuilders[StoneTiledTexture] = NewStoneTiledTexture
	c.loader = loader.NewLoader(loader.WithFileReader(func(name string) ([]byte, error) {
		return readFile(c.dir, c.builtin, name)
	}))

	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cache) Dir() string {
	return c.dir
}

func (c *cache) RegisterModel(name string, builder ModelBuilder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modelBuilders[name] = builder
	delete(c.models, name)
}

func (c *cache) Model(name string) (model.Model, error) {
	c.mu.Lock()
	if m, ok := c.models[name]; ok {
		c.mu.Unlock()
		return m, nil
	}
	builder, ok := c.modelBuilders[name]
	c.mu.Unlock()

	var built model.Model
	switch {
	case ok:
		built = builder(name)
	case loader.IsModelFile(name):
		raw, err := readFile(c.dir, c.builtin, name)
		if err != nil {
			return nil, err
		}
		if built, err = c.loader.Load(CleanName(name), raw); err != nil {
			return nil, fmt.Errorf("resource: model %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: model %q", ErrNotFound, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.models[name]; ok {
		return m, nil
	}
	c.models[name] = built
	return built, nil
}

func (c *cache) RegisterTexture(name string, builder TextureBuilder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.textureBuilders[name] = builder
	delete(c.textures, name)
}

func (c *cache) Texture(name string) (*common.TextureStagingData, error) {
	name = CleanName(name)
	c.mu.Lock()
	if t, ok := c.textures[name]; ok {
		c.mu.Unlock()
		return t, nil
	}
	builder, ok := c.textureBuilders[name]
	c.mu.Unlock()

	var (
		data common.TextureStagingData
		err  error
	)
	if ok {
		data, err = builder(name)
	} else {
		var raw []byte
		raw, err = readFile(c.dir, c.builtin, name)
		if err != nil {
			return nil, err
		}
		data, err = common.DecodeTexture(bytes.NewReader(raw), c.maxTextureSize)
	}
	if err != nil {
		return nil, fmt.Errorf("resource: texture %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.textures[name]; ok {
		return t, nil
	}
	c.textures[name] = &data
	return &data, nil
}

func (c *cache) Material(name string) (material.Material, error) {
	name = CleanName(name)
	c.mu.Lock()
	if m, ok := c.materials[name]; ok {
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	def, tex, err := c.loadDefinition(name)
	if err != nil {
		return nil, err
	}
	m := material.NewMaterial(material.WithName(name))
	def.apply(m, def.Texture, tex)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.materials[name]; ok {
		return existing, nil
	}
	c.materials[name] = m
	return m, nil
}

func (c *cache) ReloadMaterial(name string) error {
	name = CleanName(name)
	c.mu.Lock()
	live, ok := c.materials[name]
	c.mu.Unlock()
	if !ok {
		_, err := c.Material(name)
		return err
	}

	def, tex, err := c.loadDefinition(name)
	if err != nil {
		return err
	}
	def.apply(live, def.Texture, tex)
	log.Printf("[Resource] reloaded %s", name)
	return nil
}

func (c *cache) Script(name string) ([]byte, error) {
	return readFile(c.dir, c.builtin, name)
}

func (c *cache) Preload(names ...string) error {
	if len(names) == 0 {
		return nil
	}

	c.mu.Lock()
	if c.pool == nil {
		c.pool = worker.NewDynamicWorkerPool(c.workers, 64, 1*time.Second)
	}
	pool := c.pool
	c.mu.Unlock()

	start := time.Now()
	errs := make([]error, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		idx, n := i, name
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				errs[idx] = c.load(n)
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()

	err := errors.Join(errs...)
	log.Printf("[Resource] preloaded %d resources in %v", len(names), time.Since(start).Round(time.Millisecond))
	return err
}

func (c *cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		c.pool.Stop()
		c.pool = nil
	}
}

// load dispatches a name to its loader.
func (c *cache) load(name string) error {
	var err error
	switch {
	case strings.HasPrefix(name, MaterialsPrefix):
		_, err = c.Material(name)
	case strings.HasPrefix(name, TexturesPrefix):
		_, err = c.Texture(name)
	case strings.HasPrefix(name, ScriptsPrefix):
		_, err = c.Script(name)
	default:
		_, err = c.Model(name)
	}
	return err
}

// loadDefinition reads and parses a material definition and resolves its texture.
func (c *cache) loadDefinition(name string) (MaterialDefinition, *common.TextureStagingData, error) {
	raw, err := readFile(c.dir, c.builtin, name)
	if err != nil {
		return MaterialDefinition{}, nil, err
	}
	def, err := ParseMaterialDefinition(raw)
	if err != nil {
		return MaterialDefinition{}, nil, fmt.Errorf("resource: material %s: %w", name, err)
	}
	if def.Texture == "" {
		return def, nil, nil
	}
	tex, err := c.Texture(def.Texture)
	if err != nil {
		return MaterialDefinition{}, nil, fmt.Errorf("resource: material %s: %w", name, err)
	}
	return def, tex, nil
}
