package render_path

// StageOption is a functional option for configuring a Stage.
type StageOption func(*stage)

// WithInput binds a render target to a stage input.
//
// Parameters:
//   - binding: the input binding name, such as InputMask
//   - target: the render target name
//
// Returns:
//   - StageOption: option function to apply
func WithInput(binding, target string) StageOption {
	return func(s *stage) {
		s.inputs[binding] = target
	}
}

// WithParameter sets a float parameter.
//
// Parameters:
//   - name: the parameter name
//   - value: the value
//
// Returns:
//   - StageOption: option function to apply
func WithParameter(name string, value float32) StageOption {
	return func(s *stage) {
		s.params[name] = value
	}
}

// WithStageEnabled sets the initial enabled state.
//
// Parameters:
//   - enabled: false to create the stage switched off
//
// Returns:
//   - StageOption: option function to apply
func WithStageEnabled(enabled bool) StageOption {
	return func(s *stage) {
		s.enabled = enabled
	}
}
