package spine_model

import (
	"cogentcore.org/core/base/errors"
)

var (
	// ErrResourceExhausted is returned by Create when every instance slot is in use.
	ErrResourceExhausted = errors.New("spine model: instance buffer is full")

	// ErrAllocationFailure is returned by Create when the bone nodes cannot be created.
	ErrAllocationFailure = errors.New("spine model: could not allocate bone nodes")

	// ErrNotFound is returned for unknown skins, properties and material constants.
	ErrNotFound = errors.New("spine model: not found")

	// ErrTypeMismatch is returned when a property is set with a value of the wrong type.
	ErrTypeMismatch = errors.New("spine model: type mismatch")

	// ErrInvalidHandle is returned for handles that do not name a live instance.
	ErrInvalidHandle = errors.New("spine model: invalid handle")
)
