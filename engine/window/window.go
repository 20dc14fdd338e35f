package window

import (
	"runtime"
)

// Window is the viewer's input window. It has no rendering surface; it delivers key
// presses and drives the update callback on the main thread.
type Window interface {
	// SetUpdateCallback sets the function called once per processed event batch.
	//
	// Parameters:
	//   - callback: the function called on the main thread
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: receives the new width and height
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the function called when a key is pressed. Repeats are dropped.
	//
	// Parameters:
	//   - callback: receives the key code (see common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the function called when a key is released.
	//
	// Parameters:
	//   - callback: receives the key code (see common.Key*)
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetTitle replaces the window title. Must be called on the main thread.
	SetTitle(title string)

	// IsRunning reports whether the window is open.
	IsRunning() bool

	// Close closes the window and releases the platform resources.
	Close() error

	// ProcessMessages polls events until the window closes. Blocks the calling thread,
	// which must be the main thread.
	ProcessMessages()

	// Width returns the framebuffer width.
	Width() int

	// Height returns the framebuffer height.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	width  int
	height int

	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a platform window configured with the provided options.
//
// Parameters:
//   - options: variadic list of WindowBuilderOption functions
//
// Returns:
//   - Window: the window
//   - error: an error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "oxy-spine",
		width:  960,
		height: 540,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
