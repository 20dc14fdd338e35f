package animator

import (
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// animator is the implementation of the Animator interface.
type animator struct {
	skeleton *model.Skeleton
	sink     EventSink

	players [2]Player
	current int

	blending      bool
	blendTimer    float32
	blendDuration float32

	pose []common.Transform
}

// Animator drives the pose of one skeleton instance from two players. One player is
// current; the other is idle or fading out during a crossfade.
//
// An Animator is not safe for concurrent use.
type Animator interface {
	// Skeleton returns the animated skeleton.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton
	Skeleton() *model.Skeleton

	// SetEventSink replaces the receiver of events and completions (nil to drop them).
	//
	// Parameters:
	//   - sink: the event sink
	SetEventSink(sink EventSink)

	// Play starts a clip on the current player. With blend > 0 the current player keeps
	// playing as the fading secondary and the other player becomes current; otherwise
	// the current player is stopped and reused.
	//
	// Parameters:
	//   - clip: the clip (nil fails)
	//   - id: the id reported in completions and by the animation property
	//   - playback: the playback mode
	//   - blend: the crossfade duration in seconds
	//
	// Returns:
	//   - bool: false if clip is nil; nothing changes in that case
	Play(clip *model.AnimationClip, id uint64, playback Playback, blend float32) bool

	// Cancel stops the current player. The clip stays assigned.
	Cancel()

	// Current returns the current player.
	Current() *Player

	// Secondary returns the other player.
	Secondary() *Player

	// Blending reports whether a crossfade is active.
	Blending() bool

	// BlendProgress returns elapsed/duration of the active crossfade, or 0.
	BlendProgress() float32

	// Advance moves the crossfade timer and the active players by dt, reporting crossed
	// events of every advanced player and completion of the current player to the sink.
	//
	// Parameters:
	//   - dt: the frame time in seconds
	Advance(dt float32)

	// Sample resets the pose and samples the active players into it: while blending the
	// secondary at full weight, then the current player weighted by BlendProgress;
	// otherwise the current player at full weight. The result is composed onto the
	// bind local transforms.
	Sample()

	// Animate advances, samples and resolves the pose.
	//
	// push receives the local pose with bone 0 composed with instance, as written to bone
	// proxies. Afterwards Pose holds the skinning deltas, which are relative to instance.
	//
	// Parameters:
	//   - dt: the frame time in seconds
	//   - instance: the local transform of the instance relative to its owner
	//   - push: receives the local pose (may be nil)
	Animate(dt float32, instance common.Transform, push func(local []common.Transform))

	// Pose returns the working pose, one transform per bone.
	Pose() []common.Transform

	// Reset stops both players and restores the identity pose.
	Reset()
}

var _ Animator = &animator{}

// NewAnimator creates an Animator for skeleton configured with the provided options.
//
// Parameters:
//   - skeleton: the skeleton to animate
//   - options: variadic list of AnimatorBuilderOption functions
//
// Returns:
//   - Animator: the animator
func NewAnimator(skeleton *model.Skeleton, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		skeleton: skeleton,
		pose:     make([]common.Transform, skeleton.BoneCount()),
	}
	for _, opt := range options {
		opt(a)
	}
	a.resetPose()
	return a
}

func (a *animator) Skeleton() *model.Skeleton {
	return a.skeleton
}

func (a *animator) SetEventSink(sink EventSink) {
	a.sink = sink
}

func (a *animator) Play(clip *model.AnimationClip, id uint64, playback Playback, blend float32) bool {
	if clip == nil {
		return false
	}
	if blend > 0 {
		a.blending = true
		a.blendTimer = 0
		a.blendDuration = blend
		a.current = (a.current + 1) % len(a.players)
	} else {
		if a.blending {
			a.Secondary().Playing = false
		}
		a.blending = false
		a.players[a.current].Playing = false
	}
	a.players[a.current].play(clip, id, playback)
	return true
}

func (a *animator) Cancel() {
	a.players[a.current].Playing = false
}

func (a *animator) Current() *Player {
	return &a.players[a.current]
}

func (a *animator) Secondary() *Player {
	return &a.players[(a.current+1)%len(a.players)]
}

func (a *animator) Blending() bool {
	return a.blending
}

func (a *animator) BlendProgress() float32 {
	if !a.blending || a.blendDuration <= 0 {
		return 0
	}
	return a.blendTimer / a.blendDuration
}

func (a *animator) Advance(dt float32) {
	if a.blending {
		a.blendTimer += dt
		if a.blendTimer >= a.blendDuration {
			a.blending = false
			a.Secondary().Playing = false
		}
	}
	if a.blending {
		a.advancePlayer(a.Secondary(), dt, false)
	}
	a.advancePlayer(a.Current(), dt, true)
}

// advancePlayer steps one player and reports its events; only the current player reports completion.
func (a *animator) advancePlayer(p *Player, dt float32, primary bool) {
	if p.Animation == nil || !p.Playing {
		return
	}
	prev, completed := p.advance(dt)
	if prev != p.Cursor {
		postEvents(a.sink, p, prev, dt, completed)
	}
	if completed {
		p.Playing = false
		if primary && a.sink != nil {
			a.sink.AnimationDone(p.AnimationID, p.Playback)
		}
	}
}

func (a *animator) Sample() {
	a.resetPose()
	if a.blending {
		samplePose(a.Secondary(), a.pose, 1)
		normalizeRotations(a.pose)
		samplePose(a.Current(), a.pose, a.BlendProgress())
		normalizeRotations(a.pose)
	} else {
		samplePose(a.Current(), a.pose, 1)
	}
	composeBind(a.skeleton.BindPose(), a.pose)
}

func (a *animator) Animate(dt float32, instance common.Transform, push func(local []common.Transform)) {
	if len(a.pose) == 0 {
		return
	}
	a.Advance(dt)
	a.Sample()

	root := a.pose[0]
	if push != nil {
		a.pose[0] = instance.Mul(root)
		push(a.pose)
		a.pose[0] = root
	}

	bind := a.skeleton.BindPose()
	for i := 1; i < len(a.pose); i++ {
		a.pose[i] = a.pose[bind[i].ParentIndex].Mul(a.pose[i])
	}
	for i := range a.pose {
		a.pose[i] = a.pose[i].Mul(bind[i].ModelToLocal)
	}
}

func (a *animator) Pose() []common.Transform {
	return a.pose
}

func (a *animator) Reset() {
	a.players = [2]Player{}
	a.current = 0
	a.blending = false
	a.blendTimer = 0
	a.blendDuration = 0
	a.resetPose()
}

func (a *animator) resetPose() {
	for i := range a.pose {
		a.pose[i].SetIdentity()
	}
}
