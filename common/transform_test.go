package common

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertVec3(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol)
	assert.InDelta(t, want.Y, got.Y, tol)
	assert.InDelta(t, want.Z, got.Z, tol)
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(math32.Vec3(0, 0, 1), math32.Pi/2)
	assertVec3(t, math32.Vec3(0, 1, 0), QuatRotate(q, math32.Vec3(1, 0, 0)))
	assertVec3(t, math32.Vec3(1, 2, 3), QuatRotate(QuatIdentity(), math32.Vec3(1, 2, 3)))
}

func TestQuatLerpShortestPath(t *testing.T) {
	a := QuatIdentity()
	b := math32.Quat{W: -1}
	// -1 and 1 are the same rotation, the shortest path never passes through zero.
	mid := QuatLerp(0.5, a, b)
	assert.InDelta(t, 1, mid.W, tol)

	c := QuatFromAxisAngle(math32.Vec3(0, 1, 0), math32.Pi/2)
	assert.Equal(t, a, QuatLerp(0, a, c))
	end := QuatLerp(1, a, c)
	assert.InDelta(t, c.Y, end.Y, tol)
	assert.InDelta(t, c.W, end.W, tol)
}

func TestQuatMulComposesRotations(t *testing.T) {
	a := QuatFromAxisAngle(math32.Vec3(0, 0, 1), math32.Pi/2)
	b := QuatFromAxisAngle(math32.Vec3(1, 0, 0), math32.Pi/2)
	v := math32.Vec3(0, 1, 0)
	// b first, then a
	assertVec3(t, QuatRotate(a, QuatRotate(b, v)), QuatRotate(QuatMul(a, b), v))
	assertVec3(t, math32.Vec3(-1, 0, 0), QuatRotate(QuatMul(a, b), math32.Vec3(0, 0, -1)))

	id := QuatMul(a, QuatConjugate(a))
	assert.InDelta(t, 1, id.W, tol)
	assert.InDelta(t, 0, id.Z, tol)
	assert.InDelta(t, 1, QuatDot(a, a), tol)
}

func TestQuatNormalize(t *testing.T) {
	q := QuatNormalize(math32.Quat{X: 2})
	assert.InDelta(t, 1, q.X, tol)
	assert.Equal(t, math32.Quat{}, QuatNormalize(math32.Quat{}))
}

func TestTransformMulApply(t *testing.T) {
	parent := NewTransform(math32.Vec3(10, 0, 0), QuatFromAxisAngle(math32.Vec3(0, 0, 1), math32.Pi/2), 2)
	child := NewTransform(math32.Vec3(1, 0, 0), QuatIdentity(), 1)
	p := math32.Vec3(1, 0, 0)

	composed := parent.Mul(child)
	assertVec3(t, parent.Apply(child.Apply(p)), composed.Apply(p))
	assertVec3(t, math32.Vec3(10, 4, 0), composed.Apply(p))
}

func TestTransformInverse(t *testing.T) {
	tr := NewTransform(math32.Vec3(3, -2, 5), QuatFromAxisAngle(math32.Vec3(1, 0, 0), 0.7), 1.5)
	p := math32.Vec3(0.25, 4, -1)
	assertVec3(t, p, tr.Inverse().Apply(tr.Apply(p)))

	id := tr.Mul(tr.Inverse())
	assertVec3(t, math32.Vec3(0, 0, 0), id.Translation)
	assertVec3(t, math32.Vec3(1, 1, 1), id.Scale)
}

func TestTransformMulNoScaleZ(t *testing.T) {
	parent := Transform{Translation: math32.Vec3(0, 0, 0), Rotation: QuatIdentity(), Scale: math32.Vec3(2, 2, 5)}
	child := NewTransform(math32.Vec3(1, 1, 1), QuatIdentity(), 1)

	r := parent.MulNoScaleZ(child)
	assertVec3(t, math32.Vec3(2, 2, 1), r.Translation)
	assertVec3(t, math32.Vec3(2, 2, 1), r.Scale)
}

func TestTransformMatrixMatchesApply(t *testing.T) {
	tr := NewTransform(math32.Vec3(1, 2, 3), QuatFromAxisAngle(math32.Vec3(0, 1, 0), 1.1), 0.5)
	m := tr.Matrix()
	p := math32.Vec3(-2, 0.5, 7)

	got := TransformPoint(&m, p)
	assertVec3(t, tr.Apply(p), math32.Vec3(got.X, got.Y, got.Z))
	assert.InDelta(t, 1, got.W, tol)
	assertVec3(t, math32.Vec3(1, 2, 3), Translation(&m))
}

func TestMul4Identity(t *testing.T) {
	var id math32.Matrix4
	Identity(&id)
	m := NewTransform(math32.Vec3(4, 5, 6), QuatIdentity(), 3).Matrix()

	var out math32.Matrix4
	Mul4(&out, &id, &m)
	assert.Equal(t, m, out)
}

func TestHashString64(t *testing.T) {
	assert.Equal(t, HashString64("walk"), HashString64("walk"))
	assert.NotEqual(t, HashString64("walk"), HashString64("run"))

	a, b := NewHasher32(), NewHasher32()
	a.Uint64(7)
	a.Float32(1.5)
	b.Uint64(7)
	b.Float32(1.5)
	assert.Equal(t, a.Sum32(), b.Sum32())
	b.Uint32(1)
	assert.NotEqual(t, a.Sum32(), b.Sum32())
}
