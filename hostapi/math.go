package hostapi

import (
	"math"

	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
)

// Vec4 mirrors D3DXVECTOR4.
type Vec4 [4]float32

// Matrix mirrors D3DXMATRIX, row-major.
type Matrix [4][4]float32

func readF32(mem shim.Memory, ptr uint32) float32 {
	return math.Float32frombits(readU32(mem, ptr))
}

func writeF32(mem shim.Memory, ptr uint32, v float32) {
	writeU32(mem, ptr, math.Float32bits(v))
}

func readVec4(mem shim.Memory, ptr uint32) Vec4 {
	var v Vec4
	for i := range v {
		v[i] = readF32(mem, ptr+uint32(i*4))
	}
	return v
}

func writeVec4(mem shim.Memory, ptr uint32, v Vec4) {
	for i, f := range v {
		writeF32(mem, ptr+uint32(i*4), f)
	}
}

func readMatrix(mem shim.Memory, ptr uint32) Matrix {
	var m Matrix
	for r := range m {
		for c := range m[r] {
			m[r][c] = readF32(mem, ptr+uint32((r*4+c)*4))
		}
	}
	return m
}

func writeMatrix(mem shim.Memory, ptr uint32, m Matrix) {
	for r := range m {
		for c := range m[r] {
			writeF32(mem, ptr+uint32((r*4+c)*4), m[r][c])
		}
	}
}

// Dot returns the four-component dot product.
func (v Vec4) Dot(o Vec4) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] + v[3]*o[3]
}

// Transform returns the row vector v multiplied by m.
func (v Vec4) Transform(m Matrix) Vec4 {
	var out Vec4
	for c := 0; c < 4; c++ {
		out[c] = v[0]*m[0][c] + v[1]*m[1][c] + v[2]*m[2][c] + v[3]*m[3][c]
	}
	return out
}

// Inverse returns the inverse of m and its determinant. ok is false when m is
// singular.
func (m Matrix) Inverse() (inv Matrix, det float32, ok bool) {
	var a [16]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			a[r*4+c] = float64(m[r][c])
		}
	}

	var x [16]float64
	x[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	x[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	x[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	x[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	x[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	x[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	x[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	x[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	x[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	x[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	x[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	x[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	x[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	x[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	x[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	x[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	d := a[0]*x[0] + a[1]*x[4] + a[2]*x[8] + a[3]*x[12]
	if d == 0 {
		return Matrix{}, 0, false
	}
	for i := range x {
		inv[i/4][i%4] = float32(x[i] / d)
	}
	return inv, float32(d), true
}

// D3DXVec4Dot returns the dot product of two guest vectors.
func (s *Surface) D3DXVec4Dot(mem shim.Memory, v1Ptr, v2Ptr uint32) float32 {
	r := readVec4(mem, v1Ptr).Dot(readVec4(mem, v2Ptr))
	s.log.Debug("D3DXVec4Dot", zap.Float32("result", r))
	return r
}

// D3DXVec4Transform writes v*m to outPtr and returns outPtr.
func (s *Surface) D3DXVec4Transform(mem shim.Memory, outPtr, vPtr, mPtr uint32) uint32 {
	writeVec4(mem, outPtr, readVec4(mem, vPtr).Transform(readMatrix(mem, mPtr)))
	s.log.Debug("D3DXVec4Transform")
	return outPtr
}

// D3DXMatrixInverse writes the inverse of m to outPtr and returns outPtr, or
// NULL when m is singular. detPtr, when set, receives the determinant.
func (s *Surface) D3DXMatrixInverse(mem shim.Memory, outPtr, detPtr, mPtr uint32) uint32 {
	inv, det, ok := readMatrix(mem, mPtr).Inverse()
	s.log.Debug("D3DXMatrixInverse", zap.Float32("determinant", det), zap.Bool("invertible", ok))
	if detPtr != 0 {
		writeF32(mem, detPtr, det)
	}
	if !ok {
		return 0
	}
	writeMatrix(mem, outPtr, inv)
	return outPtr
}
