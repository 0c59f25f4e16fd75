package kmath

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Point4 is a point in homogeneous coordinates (x,y,z,w).
type Point4 [4]float32

// NewPoint4 returns the point (x,y,z,w).
func NewPoint4(x, y, z, w float32) Point4 {
	return Point4{x, y, z, w}
}

// Point3 returns the point (x,y,z,1).
func Point3(x, y, z float32) Point4 {
	return Point4{x, y, z, 1}
}

// PointFromVec returns v as a point with w=1.
func PointFromVec(v ms3.Vec) Point4 {
	return Point4{v.X, v.Y, v.Z, 1}
}

// Vec returns the x,y,z components of p. It does not divide by w.
func (p Point4) Vec() ms3.Vec {
	return ms3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// Normalize divides p by its homogeneous coordinate so that w becomes 1.
// Points at infinity (w==0) are left untouched.
func (p *Point4) Normalize() {
	if p[3] == 0 {
		return
	}
	p[0] /= p[3]
	p[1] /= p[3]
	p[2] /= p[3]
	p[3] = 1
}

// Distance returns the euclidean distance between the x,y,z components of p1 and p2.
func Distance(p1, p2 Point4) float32 {
	dx := p1[0] - p2[0]
	dy := p1[1] - p2[1]
	dz := p1[2] - p2[2]
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (p Point4) String() string {
	d := digits(math32.Max(math32.Max(p[0], p[1]), math32.Max(p[2], p[3])))
	return fmt.Sprintf("%.*f %.*f %.*f %.*f", d, p[0], d, p[1], d, p[2], d, p[3])
}
