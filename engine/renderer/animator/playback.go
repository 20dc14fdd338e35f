package animator

// Playback selects how a Player moves its cursor through a clip.
type Playback int32

const (
	// PlaybackNone holds the cursor in place.
	PlaybackNone Playback = iota

	// PlaybackOnceForward plays the clip once from start to end.
	PlaybackOnceForward

	// PlaybackOnceBackward plays the clip once from end to start.
	PlaybackOnceBackward

	// PlaybackOncePingPong plays the clip forward then backward, once.
	PlaybackOncePingPong

	// PlaybackLoopForward repeats the clip from start to end.
	PlaybackLoopForward

	// PlaybackLoopBackward repeats the clip from end to start.
	PlaybackLoopBackward

	// PlaybackLoopPingPong repeats the clip, reversing direction on each wrap.
	PlaybackLoopPingPong
)

var playbackNames = [...]string{
	PlaybackNone:         "none",
	PlaybackOnceForward:  "once_forward",
	PlaybackOnceBackward: "once_backward",
	PlaybackOncePingPong: "once_pingpong",
	PlaybackLoopForward:  "loop_forward",
	PlaybackLoopBackward: "loop_backward",
	PlaybackLoopPingPong: "loop_pingpong",
}

// String returns the name of the playback mode.
func (p Playback) String() string {
	if p.Valid() {
		return playbackNames[p]
	}
	return "unknown"
}

// Valid reports whether p is one of the declared modes.
func (p Playback) Valid() bool {
	return p >= PlaybackNone && p <= PlaybackLoopPingPong
}

// Once reports whether p completes instead of wrapping.
func (p Playback) Once() bool {
	return p == PlaybackOnceForward || p == PlaybackOnceBackward || p == PlaybackOncePingPong
}

// StartsBackwards reports whether a player starting in mode p runs its cursor backwards.
func (p Playback) StartsBackwards() bool {
	return p == PlaybackOnceBackward || p == PlaybackLoopBackward
}

// ParsePlayback looks up a playback mode by name.
//
// Parameters:
//   - name: the mode name as returned by String
//
// Returns:
//   - Playback: the mode
//   - bool: false if the name is unknown
func ParsePlayback(name string) (Playback, bool) {
	for i, n := range playbackNames {
		if n == name {
			return Playback(i), true
		}
	}
	return PlaybackNone, false
}
