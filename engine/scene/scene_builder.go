package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithRootName sets the name of the scene's root node. Defaults to "Root".
//
// Parameters:
//   - name: the root node name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRootName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.rootName = name
	}
}
