package model

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(n int) []Bone {
	bones := make([]Bone, n)
	for i := range bones {
		bones[i] = Bone{
			Name:        string(rune('a' + i)),
			ParentIndex: int32(i - 1),
			Local:       common.NewTransform(math32.Vec3(1, 0, 0), common.QuatIdentity(), 1),
		}
	}
	return bones
}

func TestNewSkeletonBindPose(t *testing.T) {
	s, err := NewSkeleton(chain(3))
	require.NoError(t, err)
	require.Len(t, s.BindPose(), 3)

	bp := s.BindPose()
	assert.InDelta(t, 3, bp[2].LocalToModel.Translation.X, 1e-5)
	back := bp[2].ModelToLocal.Apply(math32.Vec3(3, 0, 0))
	assert.InDelta(t, 0, back.X, 1e-5)
	assert.Equal(t, int32(1), s.BoneNameToIndex["b"])
	assert.Equal(t, common.HashString64("c"), s.Bones[2].ID)
}

func TestNewSkeletonRejectsBadOrder(t *testing.T) {
	_, err := NewSkeleton(nil)
	assert.ErrorIs(t, err, ErrInvalidSkeleton)

	bones := chain(2)
	bones[0].ParentIndex = 1
	_, err = NewSkeleton(bones)
	assert.ErrorIs(t, err, ErrInvalidSkeleton)

	// root, a(0), b(0), c(1): c's parent is not on b's ancestor chain
	bad := []Bone{
		{Name: "root", ParentIndex: -1},
		{Name: "a", ParentIndex: 0},
		{Name: "b", ParentIndex: 0},
		{Name: "c", ParentIndex: 1},
	}
	_, err = NewSkeleton(bad)
	assert.ErrorIs(t, err, ErrInvalidSkeleton)

	// root, a(0), c(1), b(0) is a valid pre-order
	good := []Bone{
		{Name: "root", ParentIndex: -1},
		{Name: "a", ParentIndex: 0},
		{Name: "c", ParentIndex: 1},
		{Name: "b", ParentIndex: 0},
	}
	_, err = NewSkeleton(good)
	assert.NoError(t, err)
}

func TestNewModelLookups(t *testing.T) {
	s, err := NewSkeleton(chain(2))
	require.NoError(t, err)

	m, err := NewModel(
		WithName("hero"),
		WithSkeleton(s),
		WithAnimations(&AnimationClip{Name: "walk", Duration: 1, SampleRate: 30}),
		WithMeshes(&Mesh{Name: "default"}),
		WithDefaultSkin("default"),
		WithBlendMode(BlendModeAdd),
	)
	require.NoError(t, err)

	assert.Equal(t, common.HashString64("hero"), m.ID())
	assert.NotNil(t, m.FindAnimation(common.HashString64("walk")))
	assert.Nil(t, m.FindAnimation(common.HashString64("run")))
	assert.NotNil(t, m.FindMesh(m.DefaultSkin()))
	assert.Nil(t, m.FindMesh(common.HashString64("other")))
	assert.Equal(t, BlendModeAdd, m.BlendMode())
	assert.Zero(t, m.DefaultAnimation())
}

func TestNewModelValidation(t *testing.T) {
	s, err := NewSkeleton(chain(2))
	require.NoError(t, err)

	_, err = NewModel(WithName("x"))
	assert.ErrorIs(t, err, ErrInvalidSkeleton)

	_, err = NewModel(WithSkeleton(s), WithAnimations(&AnimationClip{
		Name: "bad", Duration: 1, SampleRate: 10,
		Tracks: []AnimationTrack{{BoneIndex: 5}},
	}))
	assert.ErrorIs(t, err, ErrInvalidClip)

	_, err = NewModel(WithSkeleton(s), WithMeshes(&Mesh{
		Name:        "bad",
		Positions:   []float32{0, 0, 0},
		Texcoord0:   []float32{0, 0},
		Indices:     []uint32{0},
		BoneIndices: []uint32{0, 0, 0, 9},
		Weights:     []float32{1, 0, 0, 0},
	}))
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestDemoModel(t *testing.T) {
	m, err := NewDemoModel(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Skeleton().BoneCount())
	assert.Len(t, m.Animations(), 3)
	assert.NotNil(t, m.FindMesh(m.DefaultSkin()))
	assert.NotNil(t, m.FindAnimation(m.DefaultAnimation()))
}
