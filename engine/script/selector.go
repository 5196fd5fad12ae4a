package script

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Script globals.
const (
	globalNodes  = "nodes"
	globalCamera = "camera"
	globalFrame  = "frame"
	globalTarget = "target"
)

// selector is the implementation of Selector.
type selector struct {
	name       string
	scene      scene.Scene
	cameraNode scene.Node

	compiled  *tengo.Compiled
	source    []byte
	maxAllocs int64
	budget    time.Duration

	frame   int64
	lastErr error
}

// Selector is a highlight target selector driven by a tengo script.
//
// Before every run the script sees three globals:
//
//	nodes   array of {id, name, x, y, z} for each enabled drawable node of the scene
//	camera  {x, y, z} world position of the camera node
//	frame   number of runs so far
//
// The script assigns the global target (with =, not :=) to a node id or a node name.
// Leaving it undefined, assigning anything else, or failing at runtime selects nothing.
type Selector interface {
	outline.TargetSelector

	// Name returns the resource name the script was loaded from.
	//
	// Returns:
	//   - string: the script name
	Name() string

	// Reload compiles new source. On failure the previous program stays active.
	//
	// Parameters:
	//   - source: the tengo source
	//
	// Returns:
	//   - error: compile error, if any
	Reload(source []byte) error

	// LastError returns the error from the most recent run, or nil.
	//
	// Returns:
	//   - error: the last runtime error
	LastError() error
}

var _ Selector = &selector{}

// NewSelector compiles a selector script for a scene.
//
// Parameters:
//   - name: resource name used in log messages
//   - source: the tengo source
//   - s: the scene whose drawables are offered to the script
//   - cameraNode: the node whose position is exposed as camera
//   - opts: selector options
//
// Returns:
//   - Selector: the selector
//   - error: compile error, if any
func NewSelector(name string, source []byte, s scene.Scene, cameraNode scene.Node, opts ...SelectorOption) (Selector, error) {
	sel := &selector{
		name:       name,
		scene:      s,
		cameraNode: cameraNode,
		maxAllocs:  100000,
		budget:     5 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(sel)
	}
	if err := sel.Reload(source); err != nil {
		return nil, err
	}
	return sel, nil
}

func (s *selector) Name() string {
	return s.name
}

func (s *selector) LastError() error {
	return s.lastErr
}

func (s *selector) Reload(source []byte) error {
	script := tengo.NewScript(source)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	script.SetMaxAllocs(s.maxAllocs)
	_ = script.Add(globalNodes, []any{})
	_ = script.Add(globalCamera, map[string]any{})
	_ = script.Add(globalFrame, 0)
	_ = script.Add(globalTarget, nil)

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", s.name, err)
	}
	s.compiled = compiled
	s.source = source
	s.lastErr = nil
	log.Printf("[Script] compiled %s", s.name)
	return nil
}

func (s *selector) Select() scene.Node {
	if s.compiled == nil {
		return nil
	}
	target, err := s.run()
	if err != nil {
		if s.lastErr == nil || s.lastErr.Error() != err.Error() {
			log.Printf("[Script] %s: %v", s.name, err)
		}
		s.lastErr = err
		return nil
	}
	s.lastErr = nil
	return target
}

// run executes the script once and resolves its target.
func (s *selector) run() (scene.Node, error) {
	if err := s.compiled.Set(globalNodes, s.nodesObject()); err != nil {
		return nil, err
	}
	if err := s.compiled.Set(globalCamera, s.cameraObject()); err != nil {
		return nil, err
	}
	if err := s.compiled.Set(globalFrame, s.frame); err != nil {
		return nil, err
	}
	if err := s.compiled.Set(globalTarget, nil); err != nil {
		return nil, err
	}
	s.frame++

	ctx, cancel := context.WithTimeout(context.Background(), s.budget)
	defer cancel()
	if err := s.compiled.RunContext(ctx); err != nil {
		return nil, err
	}

	switch v := s.compiled.Get(globalTarget).Value().(type) {
	case int64:
		if v <= 0 {
			return nil, nil
		}
		return s.scene.NodeByID(uint64(v)), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return s.scene.FindNode(v), nil
	}
	return nil, nil
}

func (s *selector) nodesObject() *tengo.Array {
	arr := &tengo.Array{}
	s.scene.Walk(func(n scene.Node) bool {
		if !n.Enabled() {
			return false
		}
		if n.StaticModel() == nil {
			return true
		}
		p := n.WorldPosition()
		arr.Value = append(arr.Value, &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"id":   &tengo.Int{Value: int64(n.ID())},
			"name": &tengo.String{Value: n.Name()},
			"x":    &tengo.Float{Value: float64(p[0])},
			"y":    &tengo.Float{Value: float64(p[1])},
			"z":    &tengo.Float{Value: float64(p[2])},
		}})
		return true
	})
	return arr
}

func (s *selector) cameraObject() *tengo.ImmutableMap {
	var p [3]float32
	if s.cameraNode != nil && s.cameraNode.Alive() {
		p = s.cameraNode.WorldPosition()
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"x": &tengo.Float{Value: float64(p[0])},
		"y": &tengo.Float{Value: float64(p[1])},
		"z": &tengo.Float{Value: float64(p[2])},
	}}
}
