package renderer

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToRenderCapacity(t *testing.T) {
	r := NewRenderer(WithCapacity(2))
	objs := make([]RenderObject, 3)

	require.NoError(t, r.AddToRender(&objs[0]))
	require.NoError(t, r.AddToRender(&objs[1]))
	assert.ErrorIs(t, r.AddToRender(&objs[2]), ErrOutOfResources)
	assert.ErrorIs(t, r.AddToRender(&objs[2]), ErrOutOfResources)
	assert.ErrorIs(t, r.AddToRender(nil), ErrInvalidContext)
	assert.Len(t, r.RenderObjects(), 2)

	r.ClearRenderObjects()
	assert.Empty(t, r.RenderObjects())
	assert.NoError(t, r.AddToRender(&objs[2]))
}

func TestDrawPredicate(t *testing.T) {
	backend := NewMemoryBackend()
	r := NewRenderer(WithBackend(backend))

	tile := material.NewMaterial(material.WithName("tile"), material.WithTags("tile"))
	spine := material.NewMaterial(material.WithName("spine"), material.WithTags("tile", "spine"))
	objs := []RenderObject{{Material: tile, VertexCount: 3}, {Material: spine, VertexCount: 6}, {VertexCount: 9}}
	for i := range objs {
		require.NoError(t, r.AddToRender(&objs[i]))
	}

	n, err := r.Draw(NewPredicate("spine"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, backend.Draws(), 1)
	assert.Equal(t, uint32(6), backend.Draws()[0].VertexCount)

	backend.ResetDraws()
	n, err = r.Draw(Predicate{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestViewProj(t *testing.T) {
	r := NewRenderer()
	view := common.NewTransform(math32.Vec3(0, 0, -5), common.QuatIdentity(), 1).Matrix()
	proj := common.NewTransform(math32.Vec3(0, 0, 0), common.QuatIdentity(), 2).Matrix()
	r.SetView(view)
	r.SetProjection(proj)

	vp := r.ViewProj()
	p := common.TransformPoint(&vp, math32.Vec3(1, 0, 0))
	assert.InDelta(t, 2, p.X, 1e-5)
	assert.InDelta(t, -10, p.Z, 1e-5)
}

func TestCalculateDepthKeyOrder(t *testing.T) {
	var near, far, neg RenderObject
	near.Reset()
	far.Reset()
	neg.Reset()
	near.WorldTransform[14] = 1
	far.WorldTransform[14] = 10
	neg.WorldTransform[14] = -3
	near.CalculateDepthKey()
	far.CalculateDepthKey()
	neg.CalculateDepthKey()
	assert.Less(t, neg.DepthKey, near.DepthKey)
	assert.Less(t, near.DepthKey, far.DepthKey)
}

func TestMemoryBackendBuffers(t *testing.T) {
	b := NewMemoryBackend()
	decl := NewVertexDeclaration(VertexElement{Name: "position", Components: 3}, VertexElement{Name: "texcoord0", Components: 2})
	assert.Equal(t, uint32(20), decl.Stride)

	buf, err := b.NewVertexBuffer(decl, "spine")
	require.NoError(t, err)
	require.NoError(t, b.SetVertexBufferData(buf, 64, nil))
	assert.Equal(t, 64, buf.Size())
	assert.Equal(t, 0, b.Uploads())

	require.NoError(t, b.SetVertexBufferData(buf, 4, []byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{1, 2, 3, 4}, b.BufferData(buf))
	assert.Equal(t, 1, b.Uploads())

	other := NewMemoryBackend()
	assert.ErrorIs(t, other.SetVertexBufferData(buf, 4, nil), ErrInvalidContext)

	b.DeleteVertexBuffer(buf)
	assert.Equal(t, 0, b.BufferCount())
	assert.ErrorIs(t, b.SetVertexBufferData(buf, 4, nil), ErrInvalidContext)
}
