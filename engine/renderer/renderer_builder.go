package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend sets the device the renderer draws into.
//
// Parameters:
//   - backend: the RendererBackend
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}

// WithCapacity sets the maximum number of render objects queued per frame.
// Non-positive values keep the default of 256.
//
// Parameters:
//   - capacity: the render object capacity
//
// Returns:
//   - RendererBuilderOption: a function that applies the capacity option to a renderer
func WithCapacity(capacity int) RendererBuilderOption {
	return func(r *renderer) {
		if capacity > 0 {
			r.capacity = capacity
		}
	}
}
