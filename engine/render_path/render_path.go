package render_path

import (
	"fmt"
	"slices"
)

// renderPath is the implementation of RenderPath.
type renderPath struct {
	stages []Stage
}

// RenderPath is the ordered post-process chain applied to a viewport's scene color.
// An empty path, or one whose stages are all disabled, presents the scene color as is.
type RenderPath interface {
	// Append adds a stage at the end of the chain.
	//
	// Parameters:
	//   - s: the stage
	//
	// Returns:
	//   - error: error if a stage with the same name exists
	Append(s Stage) error

	// Insert adds a stage at index, shifting later stages back.
	//
	// Parameters:
	//   - index: position in [0, len]
	//   - s: the stage
	//
	// Returns:
	//   - error: error if the index is out of range or the name is taken
	Insert(index int, s Stage) error

	// Remove deletes the named stage.
	//
	// Parameters:
	//   - name: the stage name
	//
	// Returns:
	//   - bool: false if no stage had that name
	Remove(name string) bool

	// Stage looks up a stage by name.
	//
	// Parameters:
	//   - name: the stage name
	//
	// Returns:
	//   - Stage: the stage, or nil
	Stage(name string) Stage

	// SetEnabled enables or disables the named stage.
	//
	// Parameters:
	//   - name: the stage name
	//   - enabled: the new state
	//
	// Returns:
	//   - bool: false if no stage had that name
	SetEnabled(name string, enabled bool) bool

	// Stages returns every stage in chain order.
	//
	// Returns:
	//   - []Stage: a copy of the chain
	Stages() []Stage

	// EnabledStages returns the stages that will run, in chain order.
	//
	// Returns:
	//   - []Stage: the enabled stages
	EnabledStages() []Stage
}

var _ RenderPath = &renderPath{}

// NewRenderPath creates a path from stages in order.
//
// Parameters:
//   - stages: the initial chain
//
// Returns:
//   - RenderPath: the new path
//   - error: error if two stages share a name
func NewRenderPath(stages ...Stage) (RenderPath, error) {
	p := &renderPath{}
	for _, s := range stages {
		if err := p.Append(s); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *renderPath) Append(s Stage) error {
	return p.Insert(len(p.stages), s)
}

func (p *renderPath) Insert(index int, s Stage) error {
	if index < 0 || index > len(p.stages) {
		return fmt.Errorf("render path: insert index %d out of range [0, %d]", index, len(p.stages))
	}
	if p.index(s.Name()) >= 0 {
		return fmt.Errorf("render path: duplicate stage %q", s.Name())
	}
	p.stages = slices.Insert(p.stages, index, s)
	return nil
}

func (p *renderPath) Remove(name string) bool {
	i := p.index(name)
	if i < 0 {
		return false
	}
	p.stages = slices.Delete(p.stages, i, i+1)
	return true
}

func (p *renderPath) Stage(name string) Stage {
	if i := p.index(name); i >= 0 {
		return p.stages[i]
	}
	return nil
}

func (p *renderPath) SetEnabled(name string, enabled bool) bool {
	s := p.Stage(name)
	if s == nil {
		return false
	}
	s.SetEnabled(enabled)
	return true
}

func (p *renderPath) Stages() []Stage {
	return slices.Clone(p.stages)
}

func (p *renderPath) EnabledStages() []Stage {
	out := make([]Stage, 0, len(p.stages))
	for _, s := range p.stages {
		if s.Enabled() {
			out = append(out, s)
		}
	}
	return out
}

func (p *renderPath) index(name string) int {
	return slices.IndexFunc(p.stages, func(s Stage) bool { return s.Name() == name })
}
