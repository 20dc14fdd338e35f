package message

import (
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/animator"
)

// PlayAnimation asks a spine model to play an animation.
type PlayAnimation struct {
	AnimationID   uint64
	Playback      animator.Playback
	BlendDuration float32
}

// CancelAnimation stops the current animation of a spine model.
type CancelAnimation struct{}

// Enable turns a component on.
type Enable struct{}

// Disable turns a component off.
type Disable struct{}

// AnimationDone reports that the primary animation of a spine model completed.
type AnimationDone struct {
	AnimationID uint64
	Playback    animator.Playback
}

// AnimationEvent reports a keyed animation event.
type AnimationEvent struct {
	EventID uint64
	T       float32
	Integer int32
	Float   float32
	String  uint64
}
