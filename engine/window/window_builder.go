package window

// WindowBuilderOption is a functional option for configuring a Window.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the initial window title.
//
// Parameters:
//   - title: the title
//
// Returns:
//   - WindowBuilderOption: a function that applies the title option to a window
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size in screen coordinates.
//
// Parameters:
//   - width: the width
//   - height: the height
//
// Returns:
//   - WindowBuilderOption: a function that applies the size option to a window
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}
