package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithMaxNodes sets the maximum number of live nodes. Values below 1 keep the default of 1024.
//
// Parameters:
//   - n: the node capacity
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaxNodes(n int) SceneBuilderOption {
	return func(s *scene) {
		if n > 0 {
			s.maxNodes = n
		}
	}
}

// WithScaleAlongZ sets whether Z scale propagates from parents to children. Defaults to true.
//
// Parameters:
//   - scale: true to propagate Z scale
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithScaleAlongZ(scale bool) SceneBuilderOption {
	return func(s *scene) {
		s.scaleAlongZ = scale
	}
}
