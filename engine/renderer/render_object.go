package renderer

import (
	"math"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
)

// PrimitiveType identifies how the vertex range of a RenderObject is assembled.
type PrimitiveType int

const (
	// PrimitiveTriangles draws every three vertices as a triangle.
	PrimitiveTriangles PrimitiveType = iota

	// PrimitiveLines draws every two vertices as a line.
	PrimitiveLines

	// PrimitivePoints draws every vertex as a point.
	PrimitivePoints
)

// BlendFactor is a framebuffer blend factor.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

// RenderObject is a single draw command: a vertex range in a vertex buffer plus the
// render state needed to draw it.
type RenderObject struct {
	// VertexDeclaration describes the layout of VertexBuffer.
	VertexDeclaration *VertexDeclaration

	// VertexBuffer holds the vertices of the command.
	VertexBuffer VertexBuffer

	// PrimitiveType selects how vertices are assembled.
	PrimitiveType PrimitiveType

	// VertexStart is the first vertex of the range.
	VertexStart uint32

	// VertexCount is the number of vertices in the range.
	VertexCount uint32

	// Material is the material the command is drawn with.
	Material material.Material

	// Texture is the texture handle bound to unit 0 (0 for none).
	Texture uint64

	// WorldTransform is used for depth sorting only; vertices are already in world space.
	WorldTransform math32.Matrix4

	// DepthKey is the sortable depth computed by CalculateDepthKey.
	DepthKey uint64

	// Constants are the material constant overrides for this command.
	Constants []material.Constant

	// SourceBlendFactor is the source blend factor, used when SetBlendFactors is true.
	SourceBlendFactor BlendFactor

	// DestinationBlendFactor is the destination blend factor, used when SetBlendFactors is true.
	DestinationBlendFactor BlendFactor

	// SetBlendFactors enables the blend factor pair.
	SetBlendFactors bool
}

// Reset clears o for reuse while keeping the capacity of its constant slice.
func (o *RenderObject) Reset() {
	constants := o.Constants[:0]
	*o = RenderObject{}
	o.Constants = constants
	common.Identity(&o.WorldTransform)
}

// CalculateDepthKey derives DepthKey from the Z translation of WorldTransform so that
// keys compare in the same order as the depths they encode.
func (o *RenderObject) CalculateDepthKey() {
	z := common.Translation(&o.WorldTransform).Z
	bits := math.Float32bits(z)
	if bits&0x80000000 != 0 {
		bits = ^bits
	} else {
		bits |= 0x80000000
	}
	o.DepthKey = uint64(bits)
}
