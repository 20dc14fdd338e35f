package spine_model

// WorldBuilderOption is a functional option for configuring a World via NewWorld.
type WorldBuilderOption func(*world)

// WithMaxCount sets the instance capacity of the World. Values above MaxCapacity are clamped.
//
// Parameters:
//   - n: the instance capacity
//
// Returns:
//   - WorldBuilderOption: a function that applies the capacity option to a world
func WithMaxCount(n int) WorldBuilderOption {
	return func(w *world) {
		if n > 0 {
			w.maxCount = n
		}
	}
}
