package spine_model

import (
	"fmt"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/message"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
)

// component is one spine model instance.
type component struct {
	world  *world
	handle Handle

	node      uint64
	transform common.Transform
	model     model.Model
	skin      uint64
	mesh      *model.Mesh
	animator  animator.Animator
	boneNodes []uint64

	enabled bool

	worldTransform common.Transform
	worldMatrix    math32.Matrix4
	sortKey        uint64
	mixedHash      uint32

	constants     []material.Constant
	prevConstants []math32.Vector4

	listener message.URL
}

// renderable reports whether the component takes part in sorting and batching.
func (c *component) renderable() bool {
	return c.enabled && c.mesh != nil
}

// reHash recomputes the batching hash from the render state and snapshots the constants.
func (c *component) reHash() {
	h := common.NewHasher32()
	h.Uint64(c.model.ID())
	if mat := c.model.Material(); mat != nil {
		h.Uint64(mat.ID())
	}
	h.Uint64(c.model.Texture())
	h.Uint32(uint32(c.model.BlendMode()))
	for _, k := range c.constants {
		h.Uint64(k.NameHash)
		h.Float32(k.Value.X)
		h.Float32(k.Value.Y)
		h.Float32(k.Value.Z)
		h.Float32(k.Value.W)
	}
	c.mixedHash = h.Sum32()

	c.prevConstants = c.prevConstants[:0]
	for _, k := range c.constants {
		c.prevConstants = append(c.prevConstants, k.Value)
	}
}

// constantsChanged reports whether any constant differs from the snapshot taken by reHash.
func (c *component) constantsChanged() bool {
	if len(c.prevConstants) != len(c.constants) {
		return true
	}
	for i, k := range c.constants {
		if k.Value.Sub(c.prevConstants[i]).LengthSquared() > 0 {
			return true
		}
	}
	return false
}

// findConstant returns the index of an override, or -1.
func (c *component) findConstant(nameHash uint64) int {
	for i, k := range c.constants {
		if k.NameHash == nameHash {
			return i
		}
	}
	return -1
}

// constantSlot returns the override for nameHash, creating it from the material
// default when missing.
func (c *component) constantSlot(nameHash uint64) (*material.Constant, error) {
	if i := c.findConstant(nameHash); i >= 0 {
		return &c.constants[i], nil
	}
	mat := c.model.Material()
	if mat == nil {
		return nil, fmt.Errorf("%w: constant %x (no material)", ErrNotFound, nameHash)
	}
	seed, ok := mat.ProgramConstant(nameHash)
	if !ok {
		return nil, fmt.Errorf("%w: constant %x in material %q", ErrNotFound, nameHash, mat.Name())
	}
	if len(c.constants) == cap(c.constants) {
		grown := make([]material.Constant, len(c.constants), cap(c.constants)+4)
		copy(grown, c.constants)
		c.constants = grown
	}
	c.constants = append(c.constants, seed)
	return &c.constants[len(c.constants)-1], nil
}

// url addresses the component.
func (c *component) url() message.URL {
	return message.URL{Socket: c.world.socket, Path: c.node, Fragment: uint64(c.handle) + 1}
}

// AnimationEvent posts an event to the listener, or to the components of the owning node.
func (c *component) AnimationEvent(eventID uint64, key model.EventKey) {
	receiver := c.listener
	if !receiver.Valid() {
		receiver = c.url()
		receiver.Fragment = 0
	}
	err := c.world.bus.Post(c.url(), receiver, message.AnimationEvent{
		EventID: eventID,
		T:       key.T,
		Integer: key.Integer,
		Float:   key.Float,
		String:  key.String,
	})
	if err != nil {
		errors.Log(fmt.Errorf("[SpineModel] could not send animation event %x to %s: %w", eventID, receiver, err))
	}
}

// AnimationDone posts the completion to the listener once and clears it.
func (c *component) AnimationDone(animationID uint64, playback animator.Playback) {
	if !c.listener.Valid() {
		return
	}
	listener := c.listener
	c.listener = message.URL{}
	err := c.world.bus.Post(c.url(), listener, message.AnimationDone{
		AnimationID: animationID,
		Playback:    playback,
	})
	if err != nil {
		errors.Log(fmt.Errorf("[SpineModel] could not send animation done to %s: %w", listener, err))
	}
}
