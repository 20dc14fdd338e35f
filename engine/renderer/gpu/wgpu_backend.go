package gpu

import (
	"log"
	"runtime"
	"sync"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuBuffer is a renderer.VertexBuffer backed by a GPU buffer.
type wgpuBuffer struct {
	label  string
	size   int
	buffer *wgpu.Buffer
	owner  *wgpuBackend
}

func (b *wgpuBuffer) Label() string {
	return b.label
}

func (b *wgpuBuffer) Size() int {
	return b.size
}

// wgpuBackend is the WebGPU implementation of renderer.RendererBackend.
// It owns a headless device. Vertex buffers live in GPU memory; Draw validates the
// vertex range against the uploaded buffer and encodes nothing.
type wgpuBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	buffers map[*wgpuBuffer]struct{}
}

var _ renderer.RendererBackend = &wgpuBackend{}

// NewWGPUBackend requests an adapter and device and returns a backend using them.
//
// Parameters:
//   - forceFallbackAdapter: true to request the software fallback adapter
//
// Returns:
//   - renderer.RendererBackend: the backend
//   - error: an error if no adapter or device is available
func NewWGPUBackend(forceFallbackAdapter bool) (renderer.RendererBackend, error) {
	runtime.LockOSThread()
	w := &wgpuBackend{
		mu:       &sync.Mutex{},
		instance: wgpu.CreateInstance(nil),
		buffers:  make(map[*wgpuBuffer]struct{}),
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	})
	if err != nil {
		w.instance.Release()
		return nil, err
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Spine Device",
	})
	if err != nil {
		a.Release()
		w.instance.Release()
		return nil, err
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func (b *wgpuBackend) NewVertexBuffer(decl *renderer.VertexDeclaration, label string) (renderer.VertexBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf := &wgpuBuffer{label: label, owner: b}
	b.buffers[buf] = struct{}{}
	return buf, nil
}

func (b *wgpuBackend) SetVertexBufferData(buf renderer.VertexBuffer, size int, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	wb, ok := buf.(*wgpuBuffer)
	if !ok || wb.owner != b {
		return renderer.ErrInvalidContext
	}
	if _, live := b.buffers[wb]; !live {
		return renderer.ErrInvalidContext
	}
	if size < len(data) {
		size = len(data)
	}
	// WebGPU requires copy sizes to be multiples of 4
	size = (size + 3) &^ 3

	if wb.buffer == nil || wb.size < size {
		if wb.buffer != nil {
			wb.buffer.Release()
			wb.buffer = nil
		}
		if size == 0 {
			wb.size = 0
			return nil
		}
		created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            wb.label + " Vertex Buffer",
			Size:             uint64(size),
			Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return err
		}
		wb.buffer = created
		wb.size = size
	}

	if len(data) > 0 {
		if rem := len(data) % 4; rem != 0 {
			padded := make([]byte, len(data)+4-rem)
			copy(padded, data)
			data = padded
		}
		b.queue.WriteBuffer(wb.buffer, 0, data)
	}
	return nil
}

func (b *wgpuBackend) DeleteVertexBuffer(buf renderer.VertexBuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	wb, ok := buf.(*wgpuBuffer)
	if !ok {
		return
	}
	if wb.buffer != nil {
		wb.buffer.Release()
		wb.buffer = nil
	}
	delete(b.buffers, wb)
}

// Draw only validates obj: the buffer must belong to this backend and the vertex
// range must fit in the uploaded data. No command is encoded or submitted, since
// the backend has no surface or render pipeline.
func (b *wgpuBackend) Draw(obj *renderer.RenderObject, viewProj *math32.Matrix4) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	wb, ok := obj.VertexBuffer.(*wgpuBuffer)
	if !ok || wb.owner != b {
		return renderer.ErrInvalidContext
	}
	if int(obj.VertexStart+obj.VertexCount)*int(obj.VertexDeclaration.Stride) > wb.size {
		log.Printf("[WGPU] Draw range %d+%d exceeds buffer %q", obj.VertexStart, obj.VertexCount, wb.label)
		return renderer.ErrInvalidContext
	}
	return nil
}

func (b *wgpuBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for wb := range b.buffers {
		if wb.buffer != nil {
			wb.buffer.Release()
		}
	}
	clear(b.buffers)
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
