package renderer

import (
	"cogentcore.org/core/base/errors"
)

var (
	// ErrOutOfResources is returned by AddToRender once the render object queue is full.
	ErrOutOfResources = errors.New("renderer: out of render objects")

	// ErrInvalidContext is returned when a render object or buffer does not belong to a usable context.
	ErrInvalidContext = errors.New("renderer: invalid context")
)
