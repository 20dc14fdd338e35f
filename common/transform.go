package common

import (
	"cogentcore.org/core/math32"
)

// Transform is a decomposed translation, rotation and scale (TRS) transform.
// Applying a Transform to a point scales it, rotates it and then translates it.
type Transform struct {
	// Translation is the position offset.
	Translation math32.Vector3

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation math32.Quat

	// Scale is the scale factor along each axis.
	Scale math32.Vector3
}

// IdentityTransform returns a Transform with no translation, identity rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: QuatIdentity(),
		Scale:    math32.Vec3(1, 1, 1),
	}
}

// NewTransform builds a Transform with a uniform scale.
//
// Parameters:
//   - translation: the position offset
//   - rotation: the orientation
//   - scale: the uniform scale factor
//
// Returns:
//   - Transform: the transform
func NewTransform(translation math32.Vector3, rotation math32.Quat, scale float32) Transform {
	return Transform{
		Translation: translation,
		Rotation:    rotation,
		Scale:       math32.Vec3(scale, scale, scale),
	}
}

// SetIdentity resets t to the identity transform.
func (t *Transform) SetIdentity() {
	*t = IdentityTransform()
}

// Mul composes two transforms so that the result applied to a point equals
// t.Apply(rhs.Apply(p)), ignoring shear introduced by non-uniform scale.
//
// Parameters:
//   - rhs: the transform applied first
//
// Returns:
//   - Transform: the composed transform
func (t Transform) Mul(rhs Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(QuatRotate(t.Rotation, t.Scale.Mul(rhs.Translation))),
		Rotation:    QuatMul(t.Rotation, rhs.Rotation),
		Scale:       t.Scale.Mul(rhs.Scale),
	}
}

// MulNoScaleZ composes like Mul but never propagates t's Z scale, neither into the
// child translation nor into the resulting scale.
//
// Parameters:
//   - rhs: the transform applied first
//
// Returns:
//   - Transform: the composed transform
func (t Transform) MulNoScaleZ(rhs Transform) Transform {
	s := math32.Vec3(t.Scale.X, t.Scale.Y, 1)
	return Transform{
		Translation: t.Translation.Add(QuatRotate(t.Rotation, s.Mul(rhs.Translation))),
		Rotation:    QuatMul(t.Rotation, rhs.Rotation),
		Scale:       s.Mul(rhs.Scale),
	}
}

// Inverse returns the transform that undoes t. Exact for uniform scale.
//
// Returns:
//   - Transform: the inverse transform
func (t Transform) Inverse() Transform {
	invScale := math32.Vec3(1/t.Scale.X, 1/t.Scale.Y, 1/t.Scale.Z)
	invRot := QuatConjugate(t.Rotation)
	return Transform{
		Translation: QuatRotate(invRot, t.Translation.MulScalar(-1)).Mul(invScale),
		Rotation:    invRot,
		Scale:       invScale,
	}
}

// Apply transforms the point p: scale, then rotate, then translate.
//
// Parameters:
//   - p: the point
//
// Returns:
//   - math32.Vector3: the transformed point
func (t Transform) Apply(p math32.Vector3) math32.Vector3 {
	return t.Translation.Add(QuatRotate(t.Rotation, t.Scale.Mul(p)))
}

// Matrix converts t into a column-major 4x4 matrix.
//
// Returns:
//   - math32.Matrix4: the matrix
func (t Transform) Matrix() math32.Matrix4 {
	q := t.Rotation
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	sx, sy, sz := t.Scale.X, t.Scale.Y, t.Scale.Z

	var m math32.Matrix4
	m[0] = (1 - 2*(yy+zz)) * sx
	m[1] = (2 * (xy + wz)) * sx
	m[2] = (2 * (xz - wy)) * sx

	m[4] = (2 * (xy - wz)) * sy
	m[5] = (1 - 2*(xx+zz)) * sy
	m[6] = (2 * (yz + wx)) * sy

	m[8] = (2 * (xz + wy)) * sz
	m[9] = (2 * (yz - wx)) * sz
	m[10] = (1 - 2*(xx+yy)) * sz

	m[12] = t.Translation.X
	m[13] = t.Translation.Y
	m[14] = t.Translation.Z
	m[15] = 1
	return m
}
