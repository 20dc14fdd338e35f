package common

import (
	"unsafe"

	"cogentcore.org/core/math32"
)

// Identity resets a 4x4 matrix to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination matrix
func Identity(m *math32.Matrix4) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (OpenGL/WebGPU convention).
// Result: out = a * b. out may alias a or b.
//
// Parameters:
//   - out: destination matrix
//   - a: left-hand matrix
//   - b: right-hand matrix
func Mul4(out, a, b *math32.Matrix4) {
	var buf math32.Matrix4
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	*out = buf
}

// TransformPoint multiplies the point p (w = 1) by the column-major matrix m.
//
// Parameters:
//   - m: the transform matrix
//   - p: the point to transform
//
// Returns:
//   - math32.Vector4: the transformed homogeneous point
func TransformPoint(m *math32.Matrix4, p math32.Vector3) math32.Vector4 {
	return math32.Vec4(p.X, p.Y, p.Z, 1).MulMatrix4(m)
}

// Translation extracts the translation column of a column-major matrix.
//
// Parameters:
//   - m: the matrix
//
// Returns:
//   - math32.Vector3: the translation (column 3)
func Translation(m *math32.Matrix4) math32.Vector3 {
	return math32.Vec3(m[12], m[13], m[14])
}
