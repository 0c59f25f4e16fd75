package kmath

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Vec returns the vector (x,y,z).
func Vec(x, y, z float32) ms3.Vec {
	return ms3.Vec{X: x, Y: y, Z: z}
}

// VecFrom2Points returns the vector pointing from tail to head. The
// homogeneous coordinates of the points are ignored.
func VecFrom2Points(tail, head Point4) ms3.Vec {
	return ms3.Sub(head.Vec(), tail.Vec())
}

// Cross returns the cross product a x b. Order matters.
func Cross(a, b ms3.Vec) ms3.Vec { return ms3.Cross(a, b) }

// Length returns the euclidean length of v.
func Length(v ms3.Vec) float32 { return ms3.Norm(v) }

// Normalize returns v scaled to unit length. If v is shorter than 1e-7 it has
// no meaningful direction and Normalize returns the zero vector and false;
// callers must handle that case.
func Normalize(v ms3.Vec) (ms3.Vec, bool) {
	l := Length(v)
	if math32.Abs(l) < normTol {
		return ms3.Vec{}, false
	}
	return ms3.Scale(1/l, v), true
}

// FormatVec formats v with a precision that depends on the magnitude of its
// largest component.
func FormatVec(v ms3.Vec) string {
	d := digits(math32.Max(v.X, math32.Max(v.Y, v.Z)))
	return fmt.Sprintf("%.*f %.*f %.*f", d, v.X, d, v.Y, d, v.Z)
}

func digits(maximum float32) int {
	if maximum <= 0 {
		return 5
	}
	order := int(math32.Floor(math32.Log10(maximum) + 1e-9))
	switch {
	case order <= 0:
		return 5
	case order > 5:
		return 0
	}
	return 5 - order
}
