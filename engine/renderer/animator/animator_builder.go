package animator

// AnimatorBuilderOption is a functional option for configuring an Animator via NewAnimator.
type AnimatorBuilderOption func(*animator)

// WithEventSink sets the receiver of animation events and completions.
//
// Parameters:
//   - sink: the event sink
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the sink option to an animator
func WithEventSink(sink EventSink) AnimatorBuilderOption {
	return func(a *animator) {
		a.sink = sink
	}
}
