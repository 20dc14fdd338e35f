package spine_model

import (
	"fmt"
	"log"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/message"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-spine/engine/scene"
)

const (
	defaultMaxCount = 128

	// MaxCapacity is the largest instance capacity; slot indices are packed into 16 bits of the sort key.
	MaxCapacity = 0xFFFF
)

// Handle names a spine model instance within its World. Handles are slot indices and
// are reused after Destroy.
type Handle uint32

// CreateParams describes a new instance.
type CreateParams struct {
	// Node is the scene node that owns the instance.
	Node uint64

	// Model is the spine resource to instantiate.
	Model model.Model

	// Position is the instance offset relative to Node.
	Position math32.Vector3

	// Rotation is the instance rotation relative to Node.
	Rotation math32.Quat
}

// UpdateStats summarizes one World update.
type UpdateStats struct {
	Instances int
	Batches   int
	Vertices  int
}

// vertex is the layout written to the shared vertex buffer.
type vertex struct {
	X, Y, Z float32
	U, V    float32
}

// world is the implementation of the World interface.
type world struct {
	name     string
	maxCount int

	scene    scene.Scene
	renderer renderer.Renderer
	bus      message.Bus
	socket   uint64

	components []*component
	pool       *indexPool

	sortBuffer    []uint32
	renderObjects []renderer.RenderObject
	objectCount   int

	vertexDeclaration *renderer.VertexDeclaration
	vertexBuffer      renderer.VertexBuffer
	staging           []vertex

	minZ, maxZ float32
}

// World owns every spine model instance of one collection. Each frame Update refreshes
// world transforms, sorts instances by depth and render state, advances and samples
// their animations and skins their meshes into one shared vertex buffer, queuing one
// render object per batch.
//
// A World is not safe for concurrent use. Separate Worlds may be updated in parallel.
type World interface {
	// Name returns the world's identifier.
	Name() string

	// Socket returns the message socket the world receives on.
	Socket() uint64

	// Capacity returns the maximum number of instances.
	Capacity() int

	// Count returns the number of live instances.
	Count() int

	// Create instantiates a model under a scene node.
	//
	// Parameters:
	//   - params: the instance description
	//
	// Returns:
	//   - Handle: the instance handle
	//   - error: ErrResourceExhausted when full, ErrAllocationFailure when bone nodes cannot be created
	Create(params CreateParams) (Handle, error)

	// Destroy deletes the bone nodes of an instance and frees its slot.
	//
	// Parameters:
	//   - h: the instance handle
	Destroy(h Handle)

	// Valid reports whether h names a live instance.
	Valid(h Handle) bool

	// URL returns the message address of an instance.
	URL(h Handle) message.URL

	// Enabled reports whether an instance is enabled.
	Enabled(h Handle) bool

	// SetEnabled enables or disables an instance.
	SetEnabled(h Handle, enabled bool)

	// PlayAnimation starts an animation on an instance.
	//
	// Parameters:
	//   - h: the instance handle
	//   - animationID: the hashed animation name
	//   - playback: the playback mode
	//   - blend: the crossfade duration in seconds
	//
	// Returns:
	//   - bool: false if the handle or the animation is unknown
	PlayAnimation(h Handle, animationID uint64, playback animator.Playback, blend float32) bool

	// CancelAnimation stops the current animation of an instance.
	CancelAnimation(h Handle)

	// Animator returns the animator of an instance, or nil.
	Animator(h Handle) animator.Animator

	// Skin returns the hashed skin name of an instance.
	Skin(h Handle) uint64

	// SetSkin selects the mesh of an instance. Unknown skins keep the current mesh.
	//
	// Returns:
	//   - error: ErrNotFound if the model has no such skin
	SetSkin(h Handle, skin uint64) error

	// Animation returns the animation id of the current player of an instance.
	Animation(h Handle) uint64

	// Constant returns a material constant override of an instance.
	//
	// Returns:
	//   - math32.Vector4: the value
	//   - bool: false if the instance has no override for the name
	Constant(h Handle, nameHash uint64) (math32.Vector4, bool)

	// SetConstant overrides a material constant of an instance.
	//
	// Returns:
	//   - error: ErrNotFound if the material does not declare the constant
	SetConstant(h Handle, nameHash uint64, value math32.Vector4) error

	// SetConstantElement overrides one element (0..3) of a material constant of an instance.
	//
	// Returns:
	//   - error: ErrNotFound if the material does not declare the constant
	SetConstantElement(h Handle, nameHash uint64, element int, value float32) error

	// GetProperty reads a named property: "skin", "animation" or a material constant
	// optionally suffixed with .x, .y, .z or .w.
	GetProperty(h Handle, name string) (PropertyValue, error)

	// SetProperty writes a named property. "animation" is read-only.
	SetProperty(h Handle, name string, value PropertyValue) error

	// OnMessage handles Enable, Disable, PlayAnimation and CancelAnimation messages.
	OnMessage(msg *message.Message)

	// DispatchMessages delivers every pending message of the world socket.
	//
	// Returns:
	//   - int: the number of messages dispatched
	DispatchMessages() int

	// Update runs one frame.
	//
	// Parameters:
	//   - dt: the frame time in seconds
	//
	// Returns:
	//   - UpdateStats: counts for the frame
	//   - error: a vertex buffer upload error
	Update(dt float32) (UpdateStats, error)

	// VertexBuffer returns the shared vertex buffer.
	VertexBuffer() renderer.VertexBuffer

	// RenderObjects returns the render objects built by the last Update.
	RenderObjects() []renderer.RenderObject

	// Release destroys every instance and frees the vertex buffer and socket.
	Release()
}

var _ World = &world{}

// NewWorld creates a World bound to a scene, a render context and a message bus.
//
// Parameters:
//   - name: the world name, also used as its socket name
//   - sc: the scene owning instance and bone nodes
//   - r: the render context receiving render objects
//   - bus: the message bus
//   - options: variadic list of WorldBuilderOption functions
//
// Returns:
//   - World: the world
//   - error: an error if the socket or vertex buffer cannot be created
func NewWorld(name string, sc scene.Scene, r renderer.Renderer, bus message.Bus, options ...WorldBuilderOption) (World, error) {
	w := &world{
		name:     name,
		maxCount: defaultMaxCount,
		scene:    sc,
		renderer: r,
		bus:      bus,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.maxCount > MaxCapacity {
		log.Printf("[SpineModel] max_count %d exceeds %d, clamping", w.maxCount, MaxCapacity)
		w.maxCount = MaxCapacity
	}

	socket, err := bus.NewSocket(name)
	if err != nil {
		return nil, err
	}
	w.socket = socket

	w.vertexDeclaration = renderer.NewVertexDeclaration(
		renderer.VertexElement{Name: "position", Components: 3},
		renderer.VertexElement{Name: "texcoord0", Components: 2},
	)
	w.vertexBuffer, err = r.Backend().NewVertexBuffer(w.vertexDeclaration, name)
	if err != nil {
		bus.DeleteSocket(socket)
		return nil, fmt.Errorf("spine model: vertex buffer: %w", err)
	}

	w.components = make([]*component, w.maxCount)
	w.pool = newIndexPool(w.maxCount)
	w.sortBuffer = make([]uint32, 0, w.maxCount)
	w.renderObjects = make([]renderer.RenderObject, w.maxCount)
	return w, nil
}

func (w *world) Name() string {
	return w.name
}

func (w *world) Socket() uint64 {
	return w.socket
}

func (w *world) Capacity() int {
	return w.maxCount
}

func (w *world) Count() int {
	return w.maxCount - w.pool.remaining()
}

func (w *world) component(h Handle) *component {
	if int(h) >= len(w.components) {
		return nil
	}
	return w.components[h]
}

func (w *world) Valid(h Handle) bool {
	return w.component(h) != nil
}

func (w *world) Create(params CreateParams) (Handle, error) {
	if params.Model == nil {
		return 0, fmt.Errorf("%w: no model", ErrNotFound)
	}
	index, ok := w.pool.pop()
	if !ok {
		log.Printf("[SpineModel] Spine instance could not be created since the buffer is full (%d)", w.maxCount)
		return 0, ErrResourceExhausted
	}

	mdl := params.Model
	c := &component{
		world:     w,
		handle:    Handle(index),
		node:      params.Node,
		transform: common.Transform{Translation: params.Position, Rotation: params.Rotation, Scale: math32.Vec3(1, 1, 1)},
		model:     mdl,
		skin:      mdl.DefaultSkin(),
		enabled:   true,
	}
	if c.transform.Rotation == (math32.Quat{}) {
		c.transform.Rotation = common.QuatIdentity()
	}
	c.mesh = mdl.FindMesh(c.skin)
	c.animator = animator.NewAnimator(mdl.Skeleton(), animator.WithEventSink(c))

	if err := w.createBones(c); err != nil {
		w.pool.push(index)
		return 0, err
	}
	c.reHash()
	w.components[index] = c

	if id := mdl.DefaultAnimation(); id != 0 {
		c.animator.Play(mdl.FindAnimation(id), id, animator.PlaybackLoopForward, 0)
	}
	return c.handle, nil
}

// createBones creates one bone proxy node per bone and links them under the owning node.
func (w *world) createBones(c *component) error {
	bind := c.model.BindPose()
	c.boneNodes = make([]uint64, 0, len(bind))
	fail := func(err error) error {
		for _, id := range c.boneNodes {
			w.scene.DeleteNode(id)
		}
		c.boneNodes = nil
		log.Printf("[SpineModel] Failed to create bone nodes: %v", err)
		return fmt.Errorf("%w: %w", ErrAllocationFailure, err)
	}

	for i := range bind {
		local := bind[i].LocalToParent
		if i == 0 {
			local = c.transform.Mul(local)
		}
		id, err := w.scene.NewNode(local)
		if err != nil {
			return fail(err)
		}
		w.scene.SetBone(id, true)
		c.boneNodes = append(c.boneNodes, id)
	}
	// children are kept newest first, so link in reverse to keep bone order
	for i := len(bind) - 1; i >= 0; i-- {
		parent := c.node
		if p := bind[i].ParentIndex; p >= 0 {
			parent = c.boneNodes[p]
		}
		if err := w.scene.SetParent(c.boneNodes[i], parent); err != nil {
			return fail(err)
		}
	}
	return nil
}

func (w *world) Destroy(h Handle) {
	c := w.component(h)
	if c == nil {
		return
	}
	for _, id := range c.boneNodes {
		w.scene.DeleteNode(id)
	}
	w.components[h] = nil
	w.pool.push(uint32(h))
}

func (w *world) URL(h Handle) message.URL {
	if c := w.component(h); c != nil {
		return c.url()
	}
	return message.URL{}
}

func (w *world) Enabled(h Handle) bool {
	c := w.component(h)
	return c != nil && c.enabled
}

func (w *world) SetEnabled(h Handle, enabled bool) {
	if c := w.component(h); c != nil {
		c.enabled = enabled
	}
}

func (w *world) PlayAnimation(h Handle, animationID uint64, playback animator.Playback, blend float32) bool {
	c := w.component(h)
	if c == nil {
		return false
	}
	return c.animator.Play(c.model.FindAnimation(animationID), animationID, playback, blend)
}

func (w *world) CancelAnimation(h Handle) {
	if c := w.component(h); c != nil {
		c.animator.Cancel()
	}
}

func (w *world) Animator(h Handle) animator.Animator {
	if c := w.component(h); c != nil {
		return c.animator
	}
	return nil
}

func (w *world) Skin(h Handle) uint64 {
	if c := w.component(h); c != nil {
		return c.skin
	}
	return 0
}

func (w *world) SetSkin(h Handle, skin uint64) error {
	c := w.component(h)
	if c == nil {
		return ErrInvalidHandle
	}
	mesh := c.model.FindMesh(skin)
	if mesh == nil {
		log.Printf("[SpineModel] Could not find skin %x on model %q", skin, c.model.Name())
		return fmt.Errorf("%w: skin %x", ErrNotFound, skin)
	}
	c.skin = skin
	c.mesh = mesh
	return nil
}

func (w *world) Animation(h Handle) uint64 {
	if c := w.component(h); c != nil {
		return c.animator.Current().AnimationID
	}
	return 0
}

func (w *world) Constant(h Handle, nameHash uint64) (math32.Vector4, bool) {
	c := w.component(h)
	if c == nil {
		return math32.Vector4{}, false
	}
	if i := c.findConstant(nameHash); i >= 0 {
		return c.constants[i].Value, true
	}
	return math32.Vector4{}, false
}

func (w *world) SetConstant(h Handle, nameHash uint64, value math32.Vector4) error {
	c := w.component(h)
	if c == nil {
		return ErrInvalidHandle
	}
	k, err := c.constantSlot(nameHash)
	if err != nil {
		return err
	}
	k.Value = value
	c.reHash()
	return nil
}

func (w *world) SetConstantElement(h Handle, nameHash uint64, element int, value float32) error {
	c := w.component(h)
	if c == nil {
		return ErrInvalidHandle
	}
	if element < 0 || element > 3 {
		return fmt.Errorf("%w: element %d", ErrNotFound, element)
	}
	k, err := c.constantSlot(nameHash)
	if err != nil {
		return err
	}
	switch element {
	case 0:
		k.Value.X = value
	case 1:
		k.Value.Y = value
	case 2:
		k.Value.Z = value
	case 3:
		k.Value.W = value
	}
	c.reHash()
	return nil
}

func (w *world) VertexBuffer() renderer.VertexBuffer {
	return w.vertexBuffer
}

func (w *world) RenderObjects() []renderer.RenderObject {
	return w.renderObjects[:w.objectCount]
}

func (w *world) Release() {
	for i, c := range w.components {
		if c != nil {
			w.Destroy(Handle(i))
		}
	}
	w.renderer.Backend().DeleteVertexBuffer(w.vertexBuffer)
	w.bus.DeleteSocket(w.socket)
}
