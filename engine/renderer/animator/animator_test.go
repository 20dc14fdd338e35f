package animator

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

type recordingSink struct {
	events []model.EventKey
	done   []uint64
}

func (r *recordingSink) AnimationEvent(eventID uint64, key model.EventKey) {
	r.events = append(r.events, key)
}

func (r *recordingSink) AnimationDone(animationID uint64, playback Playback) {
	r.done = append(r.done, animationID)
}

func oneBone(t *testing.T) *model.Skeleton {
	t.Helper()
	s, err := model.NewSkeleton([]model.Bone{{Name: "root", ParentIndex: -1, Local: common.IdentityTransform()}})
	require.NoError(t, err)
	return s
}

// rampClip moves bone 0 along X from 0 to duration at 30 samples per second.
func rampClip(duration float32) *model.AnimationClip {
	const rate = 30
	n := int(duration*rate) + 1
	tr := model.AnimationTrack{BoneIndex: 0}
	for i := range n {
		tr.Positions = append(tr.Positions, float32(i)/rate, 0, 0)
	}
	return &model.AnimationClip{ID: 1, Name: "walk", Duration: duration, SampleRate: rate, Tracks: []model.AnimationTrack{tr}}
}

// constClip holds bone 0 at x.
func constClip(id uint64, x float32) *model.AnimationClip {
	return &model.AnimationClip{
		ID: id, Duration: 1, SampleRate: 1,
		Tracks: []model.AnimationTrack{{BoneIndex: 0, Positions: []float32{x, 0, 0, x, 0, 0}}},
	}
}

func eventClip(times ...float32) *model.AnimationClip {
	c := rampClip(1)
	track := model.EventTrack{EventID: 9}
	for i, tm := range times {
		track.Keys = append(track.Keys, model.EventKey{T: tm, Integer: int32(i)})
	}
	c.EventTracks = []model.EventTrack{track}
	return c
}

func TestLoopForwardWraps(t *testing.T) {
	a := NewAnimator(oneBone(t))
	require.True(t, a.Play(rampClip(1), 1, PlaybackLoopForward, 0))
	for range 10 {
		a.Advance(0.25)
		assert.GreaterOrEqual(t, a.Current().Cursor, float32(0))
		assert.Less(t, a.Current().Cursor, float32(1))
	}
	assert.InDelta(t, 0.5, a.Current().Cursor, tol)
	assert.True(t, a.Current().Playing)
}

func TestLoopBackwardSamplesReversed(t *testing.T) {
	a := NewAnimator(oneBone(t))
	a.Play(rampClip(1), 1, PlaybackLoopBackward, 0)
	a.Animate(0.25, common.IdentityTransform(), nil)
	assert.InDelta(t, 0.75, a.Pose()[0].Translation.X, tol)
}

func TestOnceCompletes(t *testing.T) {
	for _, pb := range []Playback{PlaybackOnceForward, PlaybackOnceBackward, PlaybackOncePingPong} {
		t.Run(pb.String(), func(t *testing.T) {
			sink := &recordingSink{}
			a := NewAnimator(oneBone(t), WithEventSink(sink))
			a.Play(rampClip(1), 7, pb, 0)
			dur := a.Current().Duration()

			a.Advance(dur / 2)
			assert.True(t, a.Current().Playing)
			assert.Empty(t, sink.done)

			a.Advance(dur / 2)
			assert.False(t, a.Current().Playing)
			assert.Equal(t, dur, a.Current().Cursor)
			assert.Equal(t, []uint64{7}, sink.done)

			a.Advance(1)
			assert.Equal(t, dur, a.Current().Cursor)
			assert.Len(t, sink.done, 1)
		})
	}
}

func TestOncePingPongReflects(t *testing.T) {
	a := NewAnimator(oneBone(t))
	a.Play(rampClip(1), 1, PlaybackOncePingPong, 0)
	assert.InDelta(t, 2, a.Current().Duration(), tol)

	a.Advance(0.75)
	a.Advance(0.75)
	assert.InDelta(t, 1.5, a.Current().Cursor, tol)
	assert.InDelta(t, 0.5, a.Current().CursorToTime(), tol)

	a.Sample()
	assert.InDelta(t, 0.5, a.Pose()[0].Translation.X, tol)
}

func TestLoopPingPongFlips(t *testing.T) {
	a := NewAnimator(oneBone(t))
	a.Play(rampClip(1), 1, PlaybackLoopPingPong, 0)
	a.Advance(0.6)
	assert.False(t, a.Current().Backwards)
	a.Advance(0.6)
	assert.True(t, a.Current().Backwards)
	assert.InDelta(t, 0.2, a.Current().Cursor, tol)
	assert.InDelta(t, 0.8, a.Current().CursorToTime(), tol)
}

func TestPlaybackNoneHolds(t *testing.T) {
	a := NewAnimator(oneBone(t))
	a.Play(rampClip(1), 1, PlaybackNone, 0)
	a.Advance(0.5)
	assert.Zero(t, a.Current().Cursor)
}

func TestPlayUnknownAndCancel(t *testing.T) {
	a := NewAnimator(oneBone(t))
	assert.False(t, a.Play(nil, 3, PlaybackLoopForward, 0.5))
	assert.False(t, a.Blending())
	assert.Nil(t, a.Current().Animation)

	a.Play(rampClip(1), 1, PlaybackLoopForward, 0)
	a.Advance(0.1)
	a.Cancel()
	a.Advance(0.1)
	assert.InDelta(t, 0.1, a.Current().Cursor, tol)
	assert.False(t, a.Current().Playing)
	assert.NotNil(t, a.Current().Animation)
}

func TestCrossfadeEndpoints(t *testing.T) {
	a := NewAnimator(oneBone(t))
	a.Play(constClip(1, 0), 1, PlaybackLoopForward, 0)
	old := a.Current()
	require.True(t, a.Play(constClip(2, 10), 2, PlaybackLoopForward, 1))
	assert.True(t, a.Blending())
	assert.Same(t, old, a.Secondary())

	a.Animate(0, common.IdentityTransform(), nil)
	assert.InDelta(t, 0, a.Pose()[0].Translation.X, tol)

	a.Animate(0.5, common.IdentityTransform(), nil)
	assert.InDelta(t, 5, a.Pose()[0].Translation.X, tol)
	assert.True(t, a.Secondary().Playing)

	a.Animate(0.5, common.IdentityTransform(), nil)
	assert.False(t, a.Blending())
	assert.False(t, a.Secondary().Playing)
	assert.InDelta(t, 10, a.Pose()[0].Translation.X, tol)
}

func TestPlayWithoutBlendStopsFadingPlayer(t *testing.T) {
	a := NewAnimator(oneBone(t))
	a.Play(constClip(1, 0), 1, PlaybackLoopForward, 0)
	a.Play(constClip(2, 10), 2, PlaybackLoopForward, 1)
	a.Animate(0.25, common.IdentityTransform(), nil)
	require.True(t, a.Secondary().Playing)

	require.True(t, a.Play(constClip(3, 4), 3, PlaybackLoopForward, 0))
	assert.False(t, a.Blending())
	assert.False(t, a.Secondary().Playing)
	assert.True(t, a.Current().Playing)

	a.Animate(0.25, common.IdentityTransform(), nil)
	assert.InDelta(t, 4, a.Pose()[0].Translation.X, tol)
}

func TestCrossfadeRotationStaysUnit(t *testing.T) {
	s := oneBone(t)
	q := common.QuatFromAxisAngle(math32.Vec3(0, 0, 1), 2)
	clip := func(id uint64, r math32.Quat) *model.AnimationClip {
		return &model.AnimationClip{ID: id, Duration: 1, SampleRate: 1, Tracks: []model.AnimationTrack{{
			BoneIndex: 0, Rotations: []float32{r.X, r.Y, r.Z, r.W, r.X, r.Y, r.Z, r.W},
		}}}
	}
	a := NewAnimator(s)
	a.Play(clip(1, common.QuatIdentity()), 1, PlaybackLoopForward, 0)
	a.Play(clip(2, q), 2, PlaybackLoopForward, 1)
	a.Animate(0.5, common.IdentityTransform(), nil)
	r := a.Pose()[0].Rotation
	assert.InDelta(t, 1, common.QuatDot(r, r), tol)
}

func TestSecondaryDoesNotReportDone(t *testing.T) {
	sink := &recordingSink{}
	a := NewAnimator(oneBone(t), WithEventSink(sink))
	a.Play(rampClip(1), 1, PlaybackOnceForward, 0)
	a.Play(rampClip(1), 2, PlaybackLoopForward, 2)
	a.Advance(1)
	assert.False(t, a.Secondary().Playing)
	assert.Empty(t, sink.done)
}

func TestEventsHalfOpen(t *testing.T) {
	sink := &recordingSink{}
	a := NewAnimator(oneBone(t), WithEventSink(sink))
	a.Play(eventClip(0.5), 1, PlaybackLoopForward, 0)
	a.Advance(0.25)
	a.Advance(0.25)
	assert.Empty(t, sink.events)
	a.Advance(0.25)
	assert.Len(t, sink.events, 1)
	// one full loop later it fires again, exactly once
	for range 4 {
		a.Advance(0.25)
	}
	assert.Len(t, sink.events, 2)
}

func TestEventsOnWrap(t *testing.T) {
	sink := &recordingSink{}
	a := NewAnimator(oneBone(t), WithEventSink(sink))
	a.Play(eventClip(0.95, 0.05), 1, PlaybackLoopForward, 0)
	a.Advance(0.9)
	require.Len(t, sink.events, 1)
	sink.events = nil

	// [0.9, 1) then [0, 0.1)
	a.Advance(0.2)
	require.Len(t, sink.events, 2)
	assert.Equal(t, int32(0), sink.events[0].Integer)
	assert.Equal(t, int32(1), sink.events[1].Integer)
}

func TestEventsPingPongWrapFiresTwice(t *testing.T) {
	sink := &recordingSink{}
	a := NewAnimator(oneBone(t), WithEventSink(sink))
	a.Play(eventClip(0.95), 1, PlaybackLoopPingPong, 0)
	a.Advance(0.9)
	assert.Empty(t, sink.events)
	a.Advance(0.2)
	assert.Len(t, sink.events, 2)
}

func TestEventsOncePingPongMidpoint(t *testing.T) {
	sink := &recordingSink{}
	a := NewAnimator(oneBone(t), WithEventSink(sink))
	a.Play(eventClip(0.8), 1, PlaybackOncePingPong, 0)
	a.Advance(0.7)
	assert.Empty(t, sink.events)
	a.Advance(0.6)
	assert.Len(t, sink.events, 2)
}

func TestEventsCompletionIncludesEnd(t *testing.T) {
	sink := &recordingSink{}
	a := NewAnimator(oneBone(t), WithEventSink(sink))
	a.Play(eventClip(1), 1, PlaybackOnceForward, 0)
	a.Advance(0.6)
	a.Advance(0.6)
	assert.Len(t, sink.events, 1)
	assert.Len(t, sink.done, 1)
}

func TestSampleClampsAtEnd(t *testing.T) {
	a := NewAnimator(oneBone(t))
	a.Play(rampClip(1), 1, PlaybackOnceForward, 0)
	a.Animate(5, common.IdentityTransform(), nil)
	assert.InDelta(t, 1, a.Pose()[0].Translation.X, tol)
}

func TestAnimateHierarchy(t *testing.T) {
	up := common.NewTransform(math32.Vec3(0, 1, 0), common.QuatIdentity(), 1)
	s, err := model.NewSkeleton([]model.Bone{
		{Name: "root", ParentIndex: -1, Local: common.IdentityTransform()},
		{Name: "arm", ParentIndex: 0, Local: up},
	})
	require.NoError(t, err)

	a := NewAnimator(s)
	instance := common.NewTransform(math32.Vec3(5, 0, 0), common.QuatIdentity(), 1)
	var pushed []common.Transform
	a.Animate(0, instance, func(local []common.Transform) {
		pushed = append([]common.Transform(nil), local...)
	})

	require.Len(t, pushed, 2)
	assert.InDelta(t, 5, pushed[0].Translation.X, tol)
	assert.InDelta(t, 1, pushed[1].Translation.Y, tol)
	// at bind pose the skinning deltas are identity
	for _, d := range a.Pose() {
		assert.InDelta(t, 0, d.Translation.Length(), tol)
		assert.InDelta(t, 1, d.Rotation.W, tol)
	}

	// rotating the root swings the arm around it
	rot := common.QuatFromAxisAngle(math32.Vec3(0, 0, 1), math32.Pi/2)
	a.Play(&model.AnimationClip{ID: 1, Duration: 1, SampleRate: 1, Tracks: []model.AnimationTrack{{
		BoneIndex: 0, Rotations: []float32{rot.X, rot.Y, rot.Z, rot.W, rot.X, rot.Y, rot.Z, rot.W},
	}}}, 1, PlaybackLoopForward, 0)
	a.Animate(0, instance, nil)
	tip := a.Pose()[1].Apply(math32.Vec3(0, 2, 0))
	assert.InDelta(t, -2, tip.X, tol)
	assert.InDelta(t, 0, tip.Y, tol)
}

func TestParsePlayback(t *testing.T) {
	p, ok := ParsePlayback("loop_pingpong")
	assert.True(t, ok)
	assert.Equal(t, PlaybackLoopPingPong, p)
	_, ok = ParsePlayback("sideways")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Playback(42).String())
	assert.True(t, PlaybackOncePingPong.Once())
	assert.False(t, PlaybackLoopForward.Once())
}
