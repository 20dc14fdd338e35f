package animator

import (
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// Player is one playback cursor over one clip.
type Player struct {
	// Animation is the clip being played (nil when idle).
	Animation *model.AnimationClip

	// AnimationID is the id the clip was requested with.
	AnimationID uint64

	// Cursor is the elapsed playback time. It always advances forward; direction is
	// applied when the cursor is mapped to a sample time.
	Cursor float32

	// Playback is the playback mode.
	Playback Playback

	// Playing is false once the player is stopped or completed.
	Playing bool

	// Backwards reverses the mapping from cursor to sample time.
	Backwards bool
}

// Duration returns the cursor range of the player: the clip duration, doubled for
// once-pingpong so the forward and return sweeps form one linear range.
//
// Returns:
//   - float32: the cursor duration (0 without a clip)
func (p *Player) Duration() float32 {
	if p.Animation == nil {
		return 0
	}
	d := p.Animation.Duration
	if p.Playback == PlaybackOncePingPong {
		d *= 2
	}
	return d
}

// CursorToTime maps the cursor to a time within the clip.
//
// Returns:
//   - float32: the sample time in seconds
func (p *Player) CursorToTime() float32 {
	dur := p.Duration()
	t := p.Cursor
	if p.Backwards {
		t = dur - t
	}
	if p.Playback == PlaybackOncePingPong && t > dur*0.5 {
		t = dur - t
	}
	return t
}

// play resets the player onto a new clip.
func (p *Player) play(clip *model.AnimationClip, id uint64, playback Playback) {
	p.Animation = clip
	p.AnimationID = id
	p.Playback = playback
	p.Cursor = 0
	p.Playing = true
	p.Backwards = playback.StartsBackwards()
}

// advance moves the cursor by dt and applies the wrap policy of the playback mode.
// It returns the cursor before the move and whether a once mode completed this step.
func (p *Player) advance(dt float32) (prev float32, completed bool) {
	prev = p.Cursor
	if p.Playback != PlaybackNone {
		p.Cursor += dt
	}
	dur := p.Duration()

	switch p.Playback {
	case PlaybackOnceForward, PlaybackOnceBackward, PlaybackOncePingPong:
		if p.Cursor >= dur {
			p.Cursor = dur
			completed = true
		}
	case PlaybackLoopForward, PlaybackLoopBackward:
		for dur > 0 && p.Cursor >= dur {
			p.Cursor -= dur
		}
	case PlaybackLoopPingPong:
		for dur > 0 && p.Cursor >= dur {
			p.Cursor -= dur
			p.Backwards = !p.Backwards
		}
	}
	return prev, completed
}
