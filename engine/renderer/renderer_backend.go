package renderer

import (
	"cogentcore.org/core/math32"
)

// VertexElement is a single attribute of a vertex layout.
type VertexElement struct {
	// Name is the attribute name as seen by the vertex program.
	Name string

	// Components is the number of float32 components of the attribute.
	Components uint32
}

// VertexDeclaration is a vertex layout allocated by a RendererBackend.
type VertexDeclaration struct {
	// Elements are the attributes in buffer order.
	Elements []VertexElement

	// Stride is the size of one vertex in bytes.
	Stride uint32
}

// NewVertexDeclaration computes the stride of a tightly packed float32 layout.
//
// Parameters:
//   - elements: the attributes in buffer order
//
// Returns:
//   - *VertexDeclaration: the declaration
func NewVertexDeclaration(elements ...VertexElement) *VertexDeclaration {
	d := &VertexDeclaration{Elements: elements}
	for _, e := range elements {
		d.Stride += e.Components * 4
	}
	return d
}

// VertexBuffer is a growable vertex buffer owned by a RendererBackend.
type VertexBuffer interface {
	// Label returns the debug name of the buffer.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Size returns the current size of the buffer storage in bytes.
	//
	// Returns:
	//   - int: the size in bytes
	Size() int
}

// RendererBackend is the graphics device consumed by a Renderer: vertex layout and
// buffer allocation, uploads and draw submission.
//
// In-memory and WebGPU implementations exist; see NewMemoryBackend and the gpu package.
type RendererBackend interface {
	// NewVertexBuffer allocates an empty vertex buffer.
	//
	// Parameters:
	//   - decl: the layout of the buffer
	//   - label: the debug name
	//
	// Returns:
	//   - VertexBuffer: the buffer
	//   - error: an error if allocation fails
	NewVertexBuffer(decl *VertexDeclaration, label string) (VertexBuffer, error)

	// SetVertexBufferData replaces the buffer contents, growing its storage when needed.
	// A nil data slice with a non-zero size only re-specifies the storage size.
	//
	// Parameters:
	//   - buf: the buffer
	//   - size: the storage size in bytes
	//   - data: the bytes to upload (may be nil)
	//
	// Returns:
	//   - error: ErrInvalidContext for foreign buffers, or an upload error
	SetVertexBufferData(buf VertexBuffer, size int, data []byte) error

	// DeleteVertexBuffer frees the buffer.
	//
	// Parameters:
	//   - buf: the buffer
	DeleteVertexBuffer(buf VertexBuffer)

	// Draw submits one render object.
	//
	// Parameters:
	//   - obj: the render object
	//   - viewProj: the combined view and projection matrix
	//
	// Returns:
	//   - error: an error if submission fails
	Draw(obj *RenderObject, viewProj *math32.Matrix4) error

	// Release frees every resource held by the backend.
	Release()
}
