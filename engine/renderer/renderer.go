package renderer

import (
	"log"
	"sync"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
)

const defaultCapacity = 256

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend  RendererBackend
	capacity int
	objects  []*RenderObject
	warned   bool

	view, projection, viewProj math32.Matrix4
}

// Predicate selects render objects by material tags. An empty predicate matches every object.
type Predicate struct {
	// Tags are the hashed tags every matching material must carry.
	Tags []uint64
}

// NewPredicate hashes tag names into a Predicate.
//
// Parameters:
//   - tags: the tag names
//
// Returns:
//   - Predicate: the predicate
func NewPredicate(tags ...string) Predicate {
	p := Predicate{Tags: make([]uint64, len(tags))}
	for i, t := range tags {
		p.Tags[i] = common.HashString64(t)
	}
	return p
}

// Renderer defines the interface for the render context: a bounded queue of render
// objects collected during a frame and flushed to a RendererBackend by Draw.
//
// AddToRender is safe for concurrent use so that several worlds may share one Renderer.
type Renderer interface {
	// Backend returns the device that owns buffers and receives draws.
	//
	// Returns:
	//   - RendererBackend: the backend
	Backend() RendererBackend

	// Capacity returns the maximum number of render objects per frame.
	//
	// Returns:
	//   - int: the capacity
	Capacity() int

	// AddToRender queues a render object for this frame. The object must stay valid until
	// ClearRenderObjects is called. Once the queue is full ErrOutOfResources is returned and
	// a warning is logged the first time only.
	//
	// Parameters:
	//   - obj: the render object
	//
	// Returns:
	//   - error: ErrOutOfResources when full, ErrInvalidContext for a nil object
	AddToRender(obj *RenderObject) error

	// ClearRenderObjects empties the queue.
	ClearRenderObjects()

	// RenderObjects returns the queued objects in insertion order.
	//
	// Returns:
	//   - []*RenderObject: the queued objects
	RenderObjects() []*RenderObject

	// Draw submits, in insertion order, every queued object whose material carries all
	// tags of the predicate.
	//
	// Parameters:
	//   - predicate: the tag filter
	//
	// Returns:
	//   - int: the number of objects drawn
	//   - error: the first submission error
	Draw(predicate Predicate) (int, error)

	// SetView sets the view matrix.
	//
	// Parameters:
	//   - view: the view matrix
	SetView(view math32.Matrix4)

	// SetProjection sets the projection matrix.
	//
	// Parameters:
	//   - projection: the projection matrix
	SetProjection(projection math32.Matrix4)

	// ViewProj returns projection * view.
	//
	// Returns:
	//   - math32.Matrix4: the combined matrix
	ViewProj() math32.Matrix4
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer configured with the provided options. Without
// WithBackend the renderer draws into a MemoryBackend.
//
// Parameters:
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:       &sync.Mutex{},
		capacity: defaultCapacity,
	}
	common.Identity(&r.view)
	common.Identity(&r.projection)
	common.Identity(&r.viewProj)

	for _, opt := range options {
		opt(r)
	}
	if r.backend == nil {
		r.backend = NewMemoryBackend()
	}
	r.objects = make([]*RenderObject, 0, r.capacity)
	return r
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Capacity() int {
	return r.capacity
}

func (r *renderer) AddToRender(obj *RenderObject) error {
	if obj == nil {
		return ErrInvalidContext
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.objects) >= r.capacity {
		if !r.warned {
			log.Printf("[Renderer] Max number of objects reached (%d), some objects will not be rendered", r.capacity)
			r.warned = true
		}
		return ErrOutOfResources
	}
	r.objects = append(r.objects, obj)
	return nil
}

func (r *renderer) ClearRenderObjects() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.objects)
	r.objects = r.objects[:0]
}

func (r *renderer) RenderObjects() []*RenderObject {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objects
}

func (r *renderer) Draw(predicate Predicate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drawn := 0
	for _, obj := range r.objects {
		if len(predicate.Tags) > 0 && (obj.Material == nil || !obj.Material.HasTags(predicate.Tags)) {
			continue
		}
		if err := r.backend.Draw(obj, &r.viewProj); err != nil {
			return drawn, err
		}
		drawn++
	}
	return drawn, nil
}

func (r *renderer) SetView(view math32.Matrix4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = view
	common.Mul4(&r.viewProj, &r.projection, &r.view)
}

func (r *renderer) SetProjection(projection math32.Matrix4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projection = projection
	common.Mul4(&r.viewProj, &r.projection, &r.view)
}

func (r *renderer) ViewProj() math32.Matrix4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewProj
}
