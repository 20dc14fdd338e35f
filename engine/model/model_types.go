package model

import (
	"github.com/Carmen-Shannon/oxy-spine/common"
)

// --- Skeleton Types ---

// Bone represents a single bone in a skeleton hierarchy.
type Bone struct {
	// Name is the bone's identifier (for debugging and lookup).
	Name string

	// ID is the hashed bone name.
	ID uint64

	// ParentIndex is the index of the parent bone (-1 for the root bone).
	ParentIndex int32

	// Local is the bone's bind transform relative to its parent.
	Local common.Transform

	// Length is the authored bone length. Informational only.
	Length float32
}

// BindBone is the precomputed bind pose of one bone.
type BindBone struct {
	// LocalToParent is the bind transform relative to the parent bone.
	LocalToParent common.Transform

	// LocalToModel is the bind transform in model space.
	LocalToModel common.Transform

	// ModelToLocal is the inverse of LocalToModel.
	ModelToLocal common.Transform

	// ParentIndex is the index of the parent bone (-1 for the root bone).
	ParentIndex int32

	// Length is the authored bone length.
	Length float32
}

// --- Animation Types ---

// AnimationTrack holds uniformly sampled keyframes for one bone.
// Samples are spaced 1/SampleRate seconds apart starting at t = 0. Any of the
// component arrays may be empty, in which case the component is not animated.
type AnimationTrack struct {
	// BoneIndex is the index of the bone this track animates.
	BoneIndex uint32

	// Positions holds 3 floats (x, y, z) per sample.
	Positions []float32

	// Rotations holds 4 floats (x, y, z, w) per sample.
	Rotations []float32

	// Scale holds 3 floats (x, y, z) per sample.
	Scale []float32
}

// EventKey is a single keyed event in an EventTrack.
type EventKey struct {
	// T is the event time in seconds from the start of the clip.
	T float32

	// Integer is the integer payload.
	Integer int32

	// Float is the float payload.
	Float float32

	// String is the hashed string payload.
	String uint64
}

// EventTrack lists the keyed occurrences of one event.
type EventTrack struct {
	// EventID is the hashed event name.
	EventID uint64

	// Keys are ordered by time.
	Keys []EventKey
}

// AnimationClip represents a single animation (walk, run, attack, etc.).
type AnimationClip struct {
	// ID is the hashed animation name.
	ID uint64

	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// SampleRate is the number of keyframe samples per second.
	SampleRate float32

	// Tracks contains keyframe data for each animated bone.
	Tracks []AnimationTrack

	// EventTracks contains the keyed events of the clip.
	EventTracks []EventTrack
}

// --- Mesh Types ---

// Mesh is one skin: a bind-space triangle list weighted to at most 4 bones per vertex.
type Mesh struct {
	// ID is the hashed skin name.
	ID uint64

	// Name is the skin identifier.
	Name string

	// Positions holds 3 floats per vertex.
	Positions []float32

	// Texcoord0 holds 2 floats per vertex.
	Texcoord0 []float32

	// Indices lists the triangle vertex indices.
	Indices []uint32

	// BoneIndices holds 4 bone indices per vertex.
	BoneIndices []uint32

	// Weights holds 4 weights per vertex, expected to sum to 1.
	Weights []float32
}

// BlendMode selects the framebuffer blend applied when drawing a model.
type BlendMode int

const (
	// BlendModeAlpha is premultiplied alpha blending.
	BlendModeAlpha BlendMode = iota

	// BlendModeAdd is additive blending.
	BlendModeAdd

	// BlendModeMult is multiplicative blending.
	BlendModeMult
)

// String returns the name of the blend mode.
func (b BlendMode) String() string {
	switch b {
	case BlendModeAlpha:
		return "alpha"
	case BlendModeAdd:
		return "add"
	case BlendModeMult:
		return "mult"
	}
	return "unknown"
}
