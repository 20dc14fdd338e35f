package model

import (
	"cogentcore.org/core/base/errors"
)

var (
	// ErrInvalidSkeleton is returned when a bone hierarchy cannot be used for animation.
	ErrInvalidSkeleton = errors.New("model: invalid skeleton")

	// ErrInvalidClip is returned when an animation clip does not match its skeleton.
	ErrInvalidClip = errors.New("model: invalid animation clip")

	// ErrInvalidMesh is returned when a skin references missing data or bones.
	ErrInvalidMesh = errors.New("model: invalid mesh")
)
