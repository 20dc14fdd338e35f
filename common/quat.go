package common

import (
	"cogentcore.org/core/math32"
)

// QuatIdentity returns the identity rotation (0, 0, 0, 1).
//
// Returns:
//   - math32.Quat: the identity quaternion
func QuatIdentity() math32.Quat {
	return math32.Quat{W: 1}
}

// QuatDot returns the 4D dot product of two quaternions.
//
// Parameters:
//   - a, b: the quaternions
//
// Returns:
//   - float32: the dot product
func QuatDot(a, b math32.Quat) float32 {
	return a.Dot(b)
}

// QuatMul returns the Hamilton product a * b, i.e. the rotation b followed by a.
//
// Parameters:
//   - a: the left-hand quaternion
//   - b: the right-hand quaternion
//
// Returns:
//   - math32.Quat: the product
func QuatMul(a, b math32.Quat) math32.Quat {
	return a.Mul(b)
}

// QuatConjugate returns the conjugate of q, which is its inverse when q is unit length.
//
// Parameters:
//   - q: the quaternion
//
// Returns:
//   - math32.Quat: the conjugate
func QuatConjugate(q math32.Quat) math32.Quat {
	return q.Conjugate()
}

// QuatNormalize returns q scaled to unit length. A zero quaternion is returned unchanged.
//
// Parameters:
//   - q: the quaternion
//
// Returns:
//   - math32.Quat: the normalized quaternion
func QuatNormalize(q math32.Quat) math32.Quat {
	if q == (math32.Quat{}) {
		return q
	}
	q.Normalize()
	return q
}

// QuatLerp linearly interpolates from a to b by t along the shortest arc.
// b is negated when the quaternions lie in opposite hemispheres. The result is not renormalized.
//
// Parameters:
//   - t: the interpolation factor (0 = a, 1 = b)
//   - a: the start rotation
//   - b: the end rotation
//
// Returns:
//   - math32.Quat: the interpolated quaternion
func QuatLerp(t float32, a, b math32.Quat) math32.Quat {
	if a.Dot(b) < 0 {
		b = math32.Quat{X: -b.X, Y: -b.Y, Z: -b.Z, W: -b.W}
	}
	return math32.Quat{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

// QuatRotate rotates the vector v by the quaternion q.
//
// Parameters:
//   - q: the rotation (assumed unit length)
//   - v: the vector to rotate
//
// Returns:
//   - math32.Vector3: the rotated vector
func QuatRotate(q math32.Quat, v math32.Vector3) math32.Vector3 {
	return v.MulQuat(q)
}

// QuatFromAxisAngle builds a rotation of angle radians around the given unit axis.
//
// Parameters:
//   - axis: the rotation axis (unit length)
//   - angle: the rotation angle in radians
//
// Returns:
//   - math32.Quat: the rotation
func QuatFromAxisAngle(axis math32.Vector3, angle float32) math32.Quat {
	return math32.NewQuatAxisAngle(axis, angle)
}
