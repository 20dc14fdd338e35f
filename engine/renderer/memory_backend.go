package renderer

import (
	"sync"

	"cogentcore.org/core/math32"
)

// memoryBuffer is a VertexBuffer backed by a byte slice.
type memoryBuffer struct {
	label string
	data  []byte
	owner *MemoryBackend
}

func (b *memoryBuffer) Label() string {
	return b.label
}

func (b *memoryBuffer) Size() int {
	return len(b.data)
}

// MemoryBackend is a RendererBackend that keeps buffers in memory and records every
// draw. It backs headless runs and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	buffers map[*memoryBuffer]struct{}
	draws   []RenderObject
	uploads int
}

var _ RendererBackend = &MemoryBackend{}

// NewMemoryBackend creates an empty MemoryBackend.
//
// Returns:
//   - *MemoryBackend: the backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{buffers: make(map[*memoryBuffer]struct{})}
}

func (m *MemoryBackend) NewVertexBuffer(decl *VertexDeclaration, label string) (VertexBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := &memoryBuffer{label: label, owner: m}
	m.buffers[b] = struct{}{}
	return b, nil
}

func (m *MemoryBackend) SetVertexBufferData(buf VertexBuffer, size int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := buf.(*memoryBuffer)
	if !ok || b.owner != m {
		return ErrInvalidContext
	}
	if _, live := m.buffers[b]; !live {
		return ErrInvalidContext
	}
	if size < len(data) {
		size = len(data)
	}
	if cap(b.data) < size {
		b.data = make([]byte, size)
	}
	b.data = b.data[:size]
	copy(b.data, data)
	if data != nil {
		m.uploads++
	}
	return nil
}

func (m *MemoryBackend) DeleteVertexBuffer(buf VertexBuffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := buf.(*memoryBuffer); ok {
		delete(m.buffers, b)
	}
}

func (m *MemoryBackend) Draw(obj *RenderObject, viewProj *math32.Matrix4) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draws = append(m.draws, *obj)
	return nil
}

func (m *MemoryBackend) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.buffers)
	m.draws = nil
}

// Draws returns a copy of every render object drawn since the last ResetDraws.
//
// Returns:
//   - []RenderObject: the drawn objects in submission order
func (m *MemoryBackend) Draws() []RenderObject {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RenderObject(nil), m.draws...)
}

// ResetDraws forgets the recorded draws.
func (m *MemoryBackend) ResetDraws() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draws = m.draws[:0]
}

// Uploads returns how many data uploads have been made.
//
// Returns:
//   - int: the upload count
func (m *MemoryBackend) Uploads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}

// BufferData returns a copy of the contents of buf.
//
// Parameters:
//   - buf: a buffer created by this backend
//
// Returns:
//   - []byte: the contents
func (m *MemoryBackend) BufferData(buf VertexBuffer) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := buf.(*memoryBuffer); ok {
		return append([]byte(nil), b.data...)
	}
	return nil
}

// BufferCount returns how many buffers are live.
//
// Returns:
//   - int: the live buffer count
func (m *MemoryBackend) BufferCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffers)
}
