package animator

import (
	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// samplePose blends the clip of p into pose with weight w. Bone components without a
// track keep the value already in pose.
func samplePose(p *Player, pose []common.Transform, w float32) {
	clip := p.Animation
	if clip == nil {
		return
	}
	fraction := p.CursorToTime() * clip.SampleRate
	sample := int(math32.Floor(fraction))
	frac := fraction - float32(sample)
	if sample < 0 {
		sample, frac = 0, 0
	}

	for i := range clip.Tracks {
		tr := &clip.Tracks[i]
		if int(tr.BoneIndex) >= len(pose) {
			continue
		}
		t := &pose[tr.BoneIndex]
		if len(tr.Positions) > 0 {
			t.Translation = t.Translation.Lerp(sampleVec3(tr.Positions, sample, frac), w)
		}
		if len(tr.Rotations) > 0 {
			t.Rotation = common.QuatLerp(w, t.Rotation, sampleQuat(tr.Rotations, sample, frac))
		}
		if len(tr.Scale) > 0 {
			t.Scale = t.Scale.Lerp(sampleVec3(tr.Scale, sample, frac), w)
		}
	}
}

// keyPair returns the element offsets of the two keys surrounding sample, clamped to the track.
func keyPair(n, stride, sample int, frac float32) (int, int, float32) {
	count := n / stride
	if sample+1 >= count {
		last := (count - 1) * stride
		return last, last, 0
	}
	return sample * stride, (sample + 1) * stride, frac
}

func sampleVec3(keys []float32, sample int, frac float32) math32.Vector3 {
	a, b, f := keyPair(len(keys), 3, sample, frac)
	v0 := math32.Vec3(keys[a], keys[a+1], keys[a+2])
	v1 := math32.Vec3(keys[b], keys[b+1], keys[b+2])
	return v0.Lerp(v1, f)
}

func sampleQuat(keys []float32, sample int, frac float32) math32.Quat {
	a, b, f := keyPair(len(keys), 4, sample, frac)
	q0 := math32.Quat{X: keys[a], Y: keys[a+1], Z: keys[a+2], W: keys[a+3]}
	q1 := math32.Quat{X: keys[b], Y: keys[b+1], Z: keys[b+2], W: keys[b+3]}
	return common.QuatLerp(f, q0, q1)
}

// normalizeRotations renormalizes every non-degenerate rotation of pose.
func normalizeRotations(pose []common.Transform) {
	for i := range pose {
		if common.QuatDot(pose[i].Rotation, pose[i].Rotation) > 0.001 {
			pose[i].Rotation = common.QuatNormalize(pose[i].Rotation)
		}
	}
}

// composeBind puts the animated local transforms on top of the bind local transforms.
func composeBind(bind []model.BindBone, pose []common.Transform) {
	for i := range pose {
		pose[i] = bind[i].LocalToParent.Mul(pose[i])
	}
}
