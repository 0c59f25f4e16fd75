package kmath

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Mat4 is a 4x4 matrix stored in column-major order: element (row, col) is
// at index col*4+row, which is the layout expected by OpenGL uniforms.
//
//	 0  4   8  12
//	 1  5   9  13
//	 2  6  10  14
//	 3  7  11  15
type Mat4 [16]float32

// FromMS3 returns m in column-major order.
func FromMS3(m ms3.Mat4) Mat4 {
	r := Mat4(m.Array())
	r.Transpose()
	return r
}

// MS3 returns m as a row-major [ms3.Mat4].
func (m Mat4) MS3() ms3.Mat4 {
	m.Transpose()
	return ms3.NewMat4(m[:])
}

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		0:  1,
		5:  1,
		10: 1,
		15: 1,
	}
}

// SetIdentity sets m to the identity matrix.
func (m *Mat4) SetIdentity() {
	*m = Identity()
}

// At returns the element at the given row and column.
func (m *Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Copy sets dst to the contents of src and returns dst.
func Copy(dst, src *Mat4) *Mat4 {
	*dst = *src
	return dst
}

// Mul sets r = a*b. Order matters.
//
// r may alias a, b or both: the operands are copied before r is written so
// the product is always computed from the original values.
func Mul(r, a, b *Mat4) {
	A, B := *a, *b
	for col := 0; col < 4; col++ {
		b0, b1, b2, b3 := B[col*4], B[col*4+1], B[col*4+2], B[col*4+3]
		r[col*4+0] = A[0]*b0 + A[4]*b1 + A[8]*b2 + A[12]*b3
		r[col*4+1] = A[1]*b0 + A[5]*b1 + A[9]*b2 + A[13]*b3
		r[col*4+2] = A[2]*b0 + A[6]*b1 + A[10]*b2 + A[14]*b3
		r[col*4+3] = A[3]*b0 + A[7]*b1 + A[11]*b2 + A[15]*b3
	}
}

// Mul returns the product m*b.
func (m Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	Mul(&r, &m, &b)
	return r
}

// MulSeries sets r to the ordered product ms[0]*ms[1]*...*ms[n-1].
// A single matrix is copied into r. r is left untouched when ms is empty.
// Any of ms may alias r.
func MulSeries(r *Mat4, ms ...*Mat4) {
	switch len(ms) {
	case 0:
		return
	case 1:
		*r = *ms[0]
		return
	}
	Mul(r, ms[0], ms[1])
	for _, m := range ms[2:] {
		Mul(r, r, m)
	}
}

// MulVec3 returns m*v where v is treated as a direction (w=0), so the
// translation column of m has no effect.
func MulVec3(m *Mat4, v ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulPoint returns m*p.
func MulPoint(m *Mat4, p Point4) Point4 {
	return Point4{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]*p[3],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]*p[3],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]*p[3],
		m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]*p[3],
	}
}

// Transpose transposes m in place.
func (m *Mat4) Transpose() {
	m[1], m[4] = m[4], m[1]
	m[2], m[8] = m[8], m[2]
	m[3], m[12] = m[12], m[3]
	m[6], m[9] = m[9], m[6]
	m[7], m[13] = m[13], m[7]
	m[11], m[14] = m[14], m[11]
}

// Inverse sets inv to the inverse of m using the cofactor expansion and
// returns the determinant of m. inv may alias m.
//
// When the determinant is exactly zero inv holds the unscaled cofactor
// (adjugate) matrix and is not an inverse. Callers must check the returned
// determinant before trusting inv.
func Inverse(inv, m *Mat4) (det float32) {
	M := *m
	t9_14_13_10 := M[9]*M[14] - M[13]*M[10]
	t13_6_5_14 := M[13]*M[6] - M[5]*M[14]
	t5_10_9_6 := M[5]*M[10] - M[9]*M[6]
	t12_10_8_14 := M[12]*M[10] - M[8]*M[14]
	t4_14_12_6 := M[4]*M[14] - M[12]*M[6]
	t8_6_4_10 := M[8]*M[6] - M[4]*M[10]
	t8_13_12_9 := M[8]*M[13] - M[12]*M[9]
	t12_5_4_13 := M[12]*M[5] - M[4]*M[13]
	t4_9_8_5 := M[4]*M[9] - M[8]*M[5]
	t1_14_13_2 := M[1]*M[14] - M[13]*M[2]
	t9_2_1_10 := M[9]*M[2] - M[1]*M[10]
	t12_2_0_14 := M[12]*M[2] - M[0]*M[14]
	t0_10_8_2 := M[0]*M[10] - M[8]*M[2]
	t0_13_12_1 := M[0]*M[13] - M[12]*M[1]
	t8_1_0_9 := M[8]*M[1] - M[0]*M[9]
	t1_6_5_2 := M[1]*M[6] - M[5]*M[2]
	t4_2_0_6 := M[4]*M[2] - M[0]*M[6]
	t0_5_4_1 := M[0]*M[5] - M[4]*M[1]

	inv[0] = M[7]*t9_14_13_10 + M[11]*t13_6_5_14 + M[15]*t5_10_9_6
	inv[4] = M[7]*t12_10_8_14 + M[11]*t4_14_12_6 + M[15]*t8_6_4_10
	inv[8] = M[7]*t8_13_12_9 + M[11]*t12_5_4_13 + M[15]*t4_9_8_5
	inv[12] = -M[6]*t8_13_12_9 - M[10]*t12_5_4_13 - M[14]*t4_9_8_5
	inv[1] = -M[3]*t9_14_13_10 + M[11]*t1_14_13_2 + M[15]*t9_2_1_10
	inv[5] = -M[3]*t12_10_8_14 + M[11]*t12_2_0_14 + M[15]*t0_10_8_2
	inv[9] = -M[3]*t8_13_12_9 + M[11]*t0_13_12_1 + M[15]*t8_1_0_9
	inv[13] = M[2]*t8_13_12_9 - M[10]*t0_13_12_1 - M[14]*t8_1_0_9
	inv[2] = -M[3]*t13_6_5_14 - M[7]*t1_14_13_2 + M[15]*t1_6_5_2
	inv[6] = -M[3]*t4_14_12_6 - M[7]*t12_2_0_14 + M[15]*t4_2_0_6
	inv[10] = -M[3]*t12_5_4_13 - M[7]*t0_13_12_1 + M[15]*t0_5_4_1
	inv[14] = M[2]*t12_5_4_13 + M[6]*t0_13_12_1 - M[14]*t0_5_4_1
	inv[3] = -M[3]*t5_10_9_6 - M[7]*t9_2_1_10 - M[11]*t1_6_5_2
	inv[7] = -M[3]*t8_6_4_10 - M[7]*t0_10_8_2 - M[11]*t4_2_0_6
	inv[11] = -M[3]*t4_9_8_5 - M[7]*t8_1_0_9 - M[11]*t0_5_4_1
	inv[15] = M[2]*t4_9_8_5 + M[6]*t8_1_0_9 + M[10]*t0_5_4_1

	det = M[3]*inv[12] + M[7]*inv[13] + M[11]*inv[14] + M[15]*inv[15]
	if det != 0 {
		scale := 1 / det
		for i := range inv {
			inv[i] *= scale
		}
	}
	return det
}

// Scaling returns a matrix that scales by sx, sy, sz along each axis.
func Scaling(sx, sy, sz float32) Mat4 {
	return Mat4{
		0:  sx,
		5:  sy,
		10: sz,
		15: 1,
	}
}

// Translation returns a matrix that translates by dx, dy, dz.
func Translation(dx, dy, dz float32) Mat4 {
	m := Identity()
	m[12] = dx
	m[13] = dy
	m[14] = dz
	return m
}

// Rotation returns a matrix that rotates angle degrees counter-clockwise about
// the axis (x,y,z). Rotations about a principal axis are built directly, the
// sign of the axis component selecting the rotation sense. Any other axis is
// normalized and the general axis-angle formula is used. A zero axis yields
// the identity.
func Rotation(angle, x, y, z float32) Mat4 {
	rad := Radians(angle)
	s, c := math32.Sin(rad), math32.Cos(rad)
	var m Mat4
	switch {
	case x != 0 && y == 0 && z == 0:
		if x < 0 {
			s = -s
		}
		m = Mat4{
			1, 0, 0, 0,
			0, c, s, 0,
			0, -s, c, 0,
			0, 0, 0, 1,
		}
	case x == 0 && y != 0 && z == 0:
		if y < 0 {
			s = -s
		}
		m = Mat4{
			c, 0, -s, 0,
			0, 1, 0, 0,
			s, 0, c, 0,
			0, 0, 0, 1,
		}
	case x == 0 && y == 0 && z != 0:
		if z < 0 {
			s = -s
		}
		m = Mat4{
			c, s, 0, 0,
			-s, c, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}
	default:
		axis, ok := Normalize(ms3.Vec{X: x, Y: y, Z: z})
		if !ok {
			Logger().Warn("rotation about zero length axis", slog.Float64("angle", float64(angle)))
			return Identity()
		}
		m = FromMS3(ms3.RotationMat4(rad, axis))
	}
	return m
}

// Orthographic returns an orthographic projection of the box bounded by the
// given planes. Degenerate spans (left==right, bottom==top, near==far) and
// NaN bounds are logged and the identity matrix is returned.
func Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	if left == right || bottom == top || near == far || anyNaN(left, right, bottom, top, near, far) {
		Logger().Warn("invalid orthographic parameters",
			slog.Any("lr", [2]float32{left, right}),
			slog.Any("bt", [2]float32{bottom, top}),
			slog.Any("nf", [2]float32{near, far}))
		return Identity()
	}
	wr := 1 / (right - left)
	hr := 1 / (top - bottom)
	dr := 1 / (far - near)
	return Mat4{
		0:  2 * wr,
		5:  2 * hr,
		10: -2 * dr,
		12: -(right + left) * wr,
		13: -(top + bottom) * hr,
		14: -(far + near) * dr,
		15: 1,
	}
}

// Perspective returns a perspective projection with vertical field of view
// fovy in degrees. fovy must be in (0,180), aspect positive and
// 0 < near < far. Invalid or NaN parameters are logged and the identity matrix is
// returned.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	if fovy <= 0 || fovy >= 180 || aspect <= 0 || near >= far || near <= 0 || anyNaN(fovy, aspect, near, far) {
		Logger().Warn("invalid perspective parameters",
			slog.Float64("fovy", float64(fovy)),
			slog.Float64("aspect", float64(aspect)),
			slog.Any("nf", [2]float32{near, far}))
		return Identity()
	}
	top := near * math32.Tan(Radians(fovy)/2)
	right := top * aspect
	return Frustum(-right, right, -top, top, near, far)
}

// Frustum returns a perspective projection of the frustum bounded by the
// given planes. Degenerate spans, NaN bounds and non-positive near or far
// distances are logged and the identity matrix is returned.
func Frustum(left, right, bottom, top, near, far float32) Mat4 {
	if left == right || bottom == top || near == far || anyNaN(left, right, bottom, top, near, far) {
		Logger().Warn("invalid frustum parameters",
			slog.Any("lr", [2]float32{left, right}),
			slog.Any("bt", [2]float32{bottom, top}),
			slog.Any("nf", [2]float32{near, far}))
		return Identity()
	} else if near <= 0 || far <= 0 {
		Logger().Warn("frustum near and far distances must be positive", slog.Any("nf", [2]float32{near, far}))
		return Identity()
	}
	return Mat4{
		0:  2 * near / (right - left),
		5:  2 * near / (top - bottom),
		10: -(far + near) / (far - near),
		11: -1,
		12: -near * (left + right) / (right - left),
		13: -near * (bottom + top) / (top - bottom),
		14: 2 * near * far / (near - far),
	}
}

func anyNaN(vs ...float32) bool {
	for _, v := range vs {
		if math32.IsNaN(v) {
			return true
		}
	}
	return false
}

// String returns m formatted as 4 rows of 4 columns.
func (m Mat4) String() string {
	var sb strings.Builder
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			fmt.Fprintf(&sb, "%11.4f", m[col*4+row])
		}
		if row != 3 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
