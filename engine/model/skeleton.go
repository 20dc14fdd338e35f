package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-spine/common"
)

// Skeleton represents a bone hierarchy and its precomputed bind pose.
//
// Bones are stored in depth-first pre-order: bone 0 is the only root and every
// bone's parent is bone i-1 or one of its ancestors. This ordering lets model
// space be accumulated in a single forward pass and lets bone proxy nodes be
// addressed in the order a depth-first walk visits them.
type Skeleton struct {
	// Bones is the array of all bones in the skeleton.
	Bones []Bone

	// BoneNameToIndex maps bone names to their indices for quick lookup.
	BoneNameToIndex map[string]int32

	bindPose []BindBone
}

// NewSkeleton validates the bone ordering and precomputes the bind pose.
//
// Parameters:
//   - bones: the bones in depth-first pre-order
//
// Returns:
//   - *Skeleton: the skeleton
//   - error: ErrInvalidSkeleton if the hierarchy is empty or not in pre-order
func NewSkeleton(bones []Bone) (*Skeleton, error) {
	if len(bones) == 0 {
		return nil, fmt.Errorf("%w: no bones", ErrInvalidSkeleton)
	}
	if bones[0].ParentIndex != -1 {
		return nil, fmt.Errorf("%w: bone 0 must be the root", ErrInvalidSkeleton)
	}
	for i := 1; i < len(bones); i++ {
		p := bones[i].ParentIndex
		if p < 0 || int(p) >= i {
			return nil, fmt.Errorf("%w: bone %d (%s) has parent %d", ErrInvalidSkeleton, i, bones[i].Name, p)
		}
		// parent must be on the ancestor chain of the previous bone
		a := int32(i - 1)
		for a != p && a >= 0 {
			a = bones[a].ParentIndex
		}
		if a != p {
			return nil, fmt.Errorf("%w: bone %d (%s) breaks depth-first order", ErrInvalidSkeleton, i, bones[i].Name)
		}
	}

	s := &Skeleton{
		Bones:           bones,
		BoneNameToIndex: make(map[string]int32, len(bones)),
	}
	for i := range s.Bones {
		if s.Bones[i].ID == 0 && s.Bones[i].Name != "" {
			s.Bones[i].ID = common.HashString64(s.Bones[i].Name)
		}
		s.BoneNameToIndex[s.Bones[i].Name] = int32(i)
	}
	s.bindPose = computeBindPose(s.Bones)
	return s, nil
}

// BoneCount returns the number of bones.
func (s *Skeleton) BoneCount() int {
	return len(s.Bones)
}

// BindPose returns the precomputed bind pose, one entry per bone.
func (s *Skeleton) BindPose() []BindBone {
	return s.bindPose
}

// computeBindPose accumulates model-space bind transforms parent-first and inverts them.
func computeBindPose(bones []Bone) []BindBone {
	pose := make([]BindBone, len(bones))
	for i, b := range bones {
		bb := &pose[i]
		bb.LocalToParent = b.Local
		bb.ParentIndex = b.ParentIndex
		bb.Length = b.Length
		if b.ParentIndex < 0 {
			bb.LocalToModel = b.Local
		} else {
			bb.LocalToModel = pose[b.ParentIndex].LocalToModel.Mul(b.Local)
		}
		bb.ModelToLocal = bb.LocalToModel.Inverse()
	}
	return pose
}
