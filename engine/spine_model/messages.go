package spine_model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-spine/engine/message"
)

func (w *world) DispatchMessages() int {
	return w.bus.Dispatch(w.socket, w.OnMessage)
}

func (w *world) OnMessage(msg *message.Message) {
	if f := msg.Receiver.Fragment; f != 0 {
		if f-1 > math.MaxUint32 {
			return
		}
		if c := w.component(Handle(f - 1)); c != nil && c.node == msg.Receiver.Path {
			w.handleMessage(c, msg)
		}
		return
	}
	for _, c := range w.components {
		if c != nil && c.node == msg.Receiver.Path {
			w.handleMessage(c, msg)
		}
	}
}

func (w *world) handleMessage(c *component, msg *message.Message) {
	switch m := msg.Data.(type) {
	case message.Enable:
		c.enabled = true
	case message.Disable:
		c.enabled = false
	case message.PlayAnimation:
		if c.animator.Play(c.model.FindAnimation(m.AnimationID), m.AnimationID, m.Playback, m.BlendDuration) {
			c.listener = msg.Sender
		}
	case message.CancelAnimation:
		c.animator.Cancel()
	}
}
