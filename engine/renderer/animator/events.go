package animator

import (
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// EventSink receives the notifications produced while advancing players.
type EventSink interface {
	// AnimationEvent is called once per keyed event crossed by a player.
	//
	// Parameters:
	//   - eventID: the hashed event name
	//   - key: the event key with its payload
	AnimationEvent(eventID uint64, key model.EventKey)

	// AnimationDone is called when the current player completes a once mode.
	//
	// Parameters:
	//   - animationID: the id of the completed animation
	//   - playback: the playback mode it was played with
	AnimationDone(animationID uint64, playback Playback)
}

// postEvents reports the events crossed by p between prev and its current cursor.
func postEvents(sink EventSink, p *Player, prev, dt float32, completed bool) {
	if sink == nil || p.Animation == nil || len(p.Animation.EventTracks) == 0 {
		return
	}
	cursor := p.Cursor
	// a completed cursor is clamped onto the end; widen the half-open interval to include it
	if completed {
		cursor += dt
	}
	dur := p.Duration()

	switch {
	case prev > cursor:
		prevBackwards := p.Backwards
		if p.Playback == PlaybackLoopPingPong {
			prevBackwards = !prevBackwards
		}
		postInterval(sink, p.Animation, prev, dur, dur, prevBackwards)
		postInterval(sink, p.Animation, 0, cursor, dur, p.Backwards)
	case p.Playback == PlaybackOncePingPong && cursor > dur*0.5:
		half := dur * 0.5
		if prev < half {
			postInterval(sink, p.Animation, prev, half, dur, false)
			postInterval(sink, p.Animation, half, cursor, dur, true)
		} else {
			postInterval(sink, p.Animation, prev, cursor, dur, true)
		}
	default:
		postInterval(sink, p.Animation, prev, cursor, dur, p.Backwards)
	}
}

// postInterval reports every key whose cursor position lies in [start, end).
func postInterval(sink EventSink, clip *model.AnimationClip, start, end, dur float32, backwards bool) {
	for _, track := range clip.EventTracks {
		for _, key := range track.Keys {
			c := key.T
			if backwards {
				c = dur - key.T
			}
			if start <= c && c < end {
				sink.AnimationEvent(track.EventID, key)
			}
		}
	}
}
