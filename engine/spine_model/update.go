package spine_model

import (
	"cmp"
	"fmt"
	"slices"
	"unsafe"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
)

// disabledKey sorts after every renderable instance.
const disabledKey = ^uint64(0)

func (w *world) Update(dt float32) (UpdateStats, error) {
	var stats UpdateStats
	vertexSize := int(unsafe.Sizeof(vertex{}))

	// room for one quad per slot; the real size is uploaded at the end of the frame
	if err := w.renderer.Backend().SetVertexBufferData(w.vertexBuffer, 6*vertexSize*w.maxCount, nil); err != nil {
		return stats, err
	}
	w.staging = w.staging[:0]

	for _, c := range w.components {
		if c != nil && c.enabled && c.constantsChanged() {
			c.reHash()
		}
	}

	w.updateTransforms()
	w.generateKeys()
	w.sortInstances()
	w.objectCount = 0

	for _, c := range w.components {
		if c == nil {
			continue
		}
		stats.Instances++
		w.animate(c, dt)
	}

	for start := 0; start < len(w.sortBuffer); {
		if !w.components[w.sortBuffer[start]].renderable() {
			break
		}
		start = w.renderBatch(start)
		stats.Batches++
	}
	stats.Vertices = len(w.staging)

	data := common.SliceToBytes(w.staging)
	if err := w.renderer.Backend().SetVertexBufferData(w.vertexBuffer, len(data), data); err != nil {
		return stats, err
	}
	return stats, nil
}

// updateTransforms refreshes world transforms and the depth range of renderable instances.
func (w *world) updateTransforms() {
	scaleAlongZ := w.scene.ScaleAlongZ()
	n := 0
	w.minZ, w.maxZ = 0, 1

	for _, c := range w.components {
		if c == nil || !c.renderable() {
			continue
		}
		owner := w.scene.WorldTransform(c.node)
		if scaleAlongZ {
			c.worldTransform = owner.Mul(c.transform)
		} else {
			c.worldTransform = owner.MulNoScaleZ(c.transform)
		}
		c.worldMatrix = c.worldTransform.Matrix()

		z := c.worldTransform.Translation.Z
		if n == 0 {
			w.minZ, w.maxZ = z, z
		} else {
			w.minZ = min(w.minZ, z)
			w.maxZ = max(w.maxZ, z)
		}
		n++
	}
}

// generateKeys packs depth bucket, render state hash and slot index into each sort key.
func (w *world) generateKeys() {
	var rangeInv float32
	if w.maxZ > w.minZ {
		rangeInv = 1 / (w.maxZ - w.minZ)
	}
	w.sortBuffer = w.sortBuffer[:0]

	for i, c := range w.components {
		if c == nil {
			continue
		}
		w.sortBuffer = append(w.sortBuffer, uint32(i))
		if !c.renderable() {
			c.sortKey = disabledKey
			continue
		}
		z := (c.worldTransform.Translation.Z - w.minZ) * rangeInv * 65535
		z = math32.Clamp(z, 0, 65535)
		c.sortKey = sortKey(uint16(z), c.mixedHash, uint16(i))
	}
}

// sortKey packs a depth bucket, a render state hash and a slot index.
func sortKey(z uint16, hash uint32, index uint16) uint64 {
	return uint64(z)<<48 | uint64(hash)<<16 | uint64(index)
}

func depthBucket(key uint64) uint16 {
	return uint16(key >> 48)
}

func (w *world) sortInstances() {
	slices.SortFunc(w.sortBuffer, func(a, b uint32) int {
		if c := cmp.Compare(w.components[a].sortKey, w.components[b].sortKey); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

// animate advances and samples one instance and pushes its local pose to the bone nodes.
func (w *world) animate(c *component, dt float32) {
	if !c.enabled || len(c.animator.Pose()) == 0 {
		return
	}
	c.animator.Animate(dt, c.transform, func(local []common.Transform) {
		w.scene.SetBoneTransforms(c.boneNodes, local)
	})
}

// renderBatch emits one render object for the run of instances starting at sortBuffer[start]
// that share the render state hash and depth bucket, and returns the index after the run.
func (w *world) renderBatch(start int) int {
	first := w.components[w.sortBuffer[start]]
	end := start + 1
	vertexCount := len(first.mesh.Indices)
	for ; end < len(w.sortBuffer); end++ {
		c := w.components[w.sortBuffer[end]]
		if !c.renderable() || c.mixedHash != first.mixedHash || depthBucket(c.sortKey) != depthBucket(first.sortKey) {
			break
		}
		vertexCount += len(c.mesh.Indices)
	}

	if w.objectCount < len(w.renderObjects) {
		ro := &w.renderObjects[w.objectCount]
		w.objectCount++
		ro.Reset()
		ro.VertexDeclaration = w.vertexDeclaration
		ro.VertexBuffer = w.vertexBuffer
		ro.PrimitiveType = renderer.PrimitiveTriangles
		ro.VertexStart = uint32(len(w.staging))
		ro.VertexCount = uint32(vertexCount)
		ro.Material = first.model.Material()
		ro.Texture = first.model.Texture()
		ro.WorldTransform = first.worldMatrix
		ro.CalculateDepthKey()
		ro.Constants = append(ro.Constants, first.constants...)
		ro.SourceBlendFactor, ro.DestinationBlendFactor = blendFactors(first.model.BlendMode())
		ro.SetBlendFactors = true
		// a full render context already logged its warning
		_ = w.renderer.AddToRender(ro)
	}

	for i := start; i < end; i++ {
		w.staging = emitVertices(w.staging, w.components[w.sortBuffer[i]])
	}
	return end
}

// blendFactors maps a model blend mode to a source and destination factor.
func blendFactors(mode model.BlendMode) (renderer.BlendFactor, renderer.BlendFactor) {
	switch mode {
	case model.BlendModeAlpha:
		return renderer.BlendFactorOne, renderer.BlendFactorOneMinusSrcAlpha
	case model.BlendModeAdd:
		return renderer.BlendFactorOne, renderer.BlendFactorOne
	case model.BlendModeMult:
		return renderer.BlendFactorDstColor, renderer.BlendFactorOneMinusSrcAlpha
	}
	errors.Log(fmt.Errorf("[SpineModel] unknown blend mode: %d", mode))
	return renderer.BlendFactorOne, renderer.BlendFactorOneMinusSrcAlpha
}

// emitVertices skins the mesh of c with its pose and appends world space vertices.
func emitVertices(out []vertex, c *component) []vertex {
	mesh := c.mesh
	pose := c.animator.Pose()
	out = slices.Grow(out, len(mesh.Indices))
	for _, idx := range mesh.Indices {
		p := math32.Vec3(mesh.Positions[idx*3], mesh.Positions[idx*3+1], mesh.Positions[idx*3+2])
		var skinned math32.Vector3
		for k := uint32(0); k < 4; k++ {
			weight := mesh.Weights[idx*4+k]
			if weight == 0 {
				continue
			}
			bone := mesh.BoneIndices[idx*4+k]
			skinned = skinned.Add(pose[bone].Apply(p).MulScalar(weight))
		}
		v := c.worldTransform.Apply(skinned)
		out = append(out, vertex{
			X: v.X, Y: v.Y, Z: v.Z,
			U: mesh.Texcoord0[idx*2],
			V: mesh.Texcoord0[idx*2+1],
		})
	}
	return out
}
