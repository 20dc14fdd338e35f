package model

import (
	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
)

const demoSampleRate = 10

// NewDemoModel builds a small procedural model: a three bone arm with one quad per
// bone, the skins "default" and "wide" and the animations "idle", "wave" and "spin".
// "wave" keys the event "step" at 0.5s and 1.5s.
//
// Parameters:
//   - mat: the material to draw the model with (may be nil)
//
// Returns:
//   - Model: the model
//   - error: any validation error
func NewDemoModel(mat material.Material) (Model, error) {
	up := common.NewTransform(math32.Vec3(0, 1, 0), common.QuatIdentity(), 1)
	skeleton, err := NewSkeleton([]Bone{
		{Name: "root", ParentIndex: -1, Local: common.IdentityTransform(), Length: 1},
		{Name: "upper", ParentIndex: 0, Local: up, Length: 1},
		{Name: "lower", ParentIndex: 1, Local: up, Length: 1},
	})
	if err != nil {
		return nil, err
	}

	return NewModel(
		WithName("demo"),
		WithSkeleton(skeleton),
		WithMeshes(demoMesh("default", 0.25), demoMesh("wide", 0.5)),
		WithAnimations(
			swayClip("idle", 1, 0.1),
			swayClip("wave", 2, 0.8),
			spinClip("spin", 1),
		),
		WithMaterial(mat),
		WithDefaultSkin("default"),
		WithDefaultAnimation("idle"),
	)
}

// demoMesh emits one quad of the given half width per bone, in bind space.
func demoMesh(name string, halfWidth float32) *Mesh {
	m := &Mesh{Name: name}
	for b := uint32(0); b < 3; b++ {
		base := uint32(len(m.Positions) / 3)
		y0, y1 := float32(b), float32(b+1)
		m.Positions = append(m.Positions,
			-halfWidth, y0, 0,
			halfWidth, y0, 0,
			halfWidth, y1, 0,
			-halfWidth, y1, 0,
		)
		m.Texcoord0 = append(m.Texcoord0, 0, 1, 1, 1, 1, 0, 0, 0)
		for range 4 {
			m.BoneIndices = append(m.BoneIndices, b, 0, 0, 0)
			m.Weights = append(m.Weights, 1, 0, 0, 0)
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// swayClip rotates the two child bones back and forth around Z. Tracks are relative to the bind pose.
func swayClip(name string, duration, amplitude float32) *AnimationClip {
	samples := int(duration*demoSampleRate) + 1
	clip := &AnimationClip{Name: name, Duration: duration, SampleRate: demoSampleRate}
	for bone := uint32(1); bone < 3; bone++ {
		tr := AnimationTrack{BoneIndex: bone}
		for i := range samples {
			t := float32(i) / demoSampleRate
			s, _ := math32.Sincos(2 * math32.Pi * t / duration)
			q := common.QuatFromAxisAngle(math32.Vec3(0, 0, 1), amplitude*s)
			tr.Rotations = append(tr.Rotations, q.X, q.Y, q.Z, q.W)
		}
		clip.Tracks = append(clip.Tracks, tr)
	}
	if name == "wave" {
		clip.EventTracks = []EventTrack{{
			EventID: common.HashString64("step"),
			Keys: []EventKey{
				{T: 0.5, Integer: 1},
				{T: 1.5, Integer: 2},
			},
		}}
	}
	return clip
}

// spinClip turns the root bone a full revolution.
func spinClip(name string, duration float32) *AnimationClip {
	samples := int(duration*demoSampleRate) + 1
	tr := AnimationTrack{BoneIndex: 0}
	for i := range samples {
		t := float32(i) / demoSampleRate
		q := common.QuatFromAxisAngle(math32.Vec3(0, 0, 1), 2*math32.Pi*t/duration)
		tr.Rotations = append(tr.Rotations, q.X, q.Y, q.Z, q.W)
		tr.Scale = append(tr.Scale, 1, 1, 1)
	}
	return &AnimationClip{Name: name, Duration: duration, SampleRate: demoSampleRate, Tracks: []AnimationTrack{tr}}
}
