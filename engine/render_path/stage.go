package render_path

import "maps"

// Effect names the full-screen shader a post stage runs.
type Effect string

const (
	// EffectOutline edge-detects a mask target and composites a colored outline over the scene.
	EffectOutline Effect = "outline"
	// EffectFXAA applies fast approximate anti-aliasing.
	EffectFXAA Effect = "fxaa"
	// EffectCopy copies the scene color unchanged.
	EffectCopy Effect = "copy"
)

// Stage input binding names.
const (
	// InputMask is the binding an outline stage reads its mask target from.
	InputMask = "mask"
)

// Outline stage parameter names.
const (
	ParamColorR    = "color_r"
	ParamColorG    = "color_g"
	ParamColorB    = "color_b"
	ParamColorA    = "color_a"
	ParamThickness = "thickness"
)

// stage is the implementation of Stage.
type stage struct {
	name    string
	effect  Effect
	enabled bool
	inputs  map[string]string
	params  map[string]float32
}

// Stage is one full-screen pass of a render path's post chain.
//
// Every stage implicitly reads the output of the stage before it (or the scene color for
// the first stage). Additional inputs name render targets by binding.
type Stage interface {
	// Name returns the stage name, unique within its path.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Effect returns the shader the stage runs.
	//
	// Returns:
	//   - Effect: the effect
	Effect() Effect

	// Enabled reports whether the stage runs.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled turns the stage on or off.
	//
	// Parameters:
	//   - enabled: true to run the stage
	SetEnabled(enabled bool)

	// Input returns the render target name bound to a stage input.
	//
	// Parameters:
	//   - binding: the input binding name
	//
	// Returns:
	//   - string: the target name
	//   - bool: false if nothing is bound
	Input(binding string) (string, bool)

	// Inputs returns a copy of every input binding.
	//
	// Returns:
	//   - map[string]string: binding name to target name
	Inputs() map[string]string

	// Parameter returns a float parameter, or 0 when unset.
	//
	// Parameters:
	//   - name: the parameter name
	//
	// Returns:
	//   - float32: the value
	Parameter(name string) float32

	// SetParameter sets a float parameter.
	//
	// Parameters:
	//   - name: the parameter name
	//   - value: the value
	SetParameter(name string, value float32)
}

var _ Stage = &stage{}

// NewStage creates an enabled stage.
//
// Parameters:
//   - name: the stage name
//   - effect: the shader to run
//   - opts: stage options
//
// Returns:
//   - Stage: the new stage
func NewStage(name string, effect Effect, opts ...StageOption) Stage {
	s := &stage{
		name:    name,
		effect:  effect,
		enabled: true,
		inputs:  make(map[string]string),
		params:  make(map[string]float32),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *stage) Name() string {
	return s.name
}

func (s *stage) Effect() Effect {
	return s.effect
}

func (s *stage) Enabled() bool {
	return s.enabled
}

func (s *stage) SetEnabled(enabled bool) {
	s.enabled = enabled
}

func (s *stage) Input(binding string) (string, bool) {
	t, ok := s.inputs[binding]
	return t, ok
}

func (s *stage) Inputs() map[string]string {
	return maps.Clone(s.inputs)
}

func (s *stage) Parameter(name string) float32 {
	return s.params[name]
}

func (s *stage) SetParameter(name string, value float32) {
	s.params[name] = value
}
