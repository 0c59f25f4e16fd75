package k3daux

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/k3d"
	"github.com/soypat/k3d/glrender"
	"github.com/soypat/k3d/kmath"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// WriteBinarySTL writes model as a binary STL file to w. Facet normals are
// computed from the triangle winding.
func WriteBinarySTL(w io.Writer, model []ms3.Triangle) (int, error) {
	if uint64(len(model)) > math.MaxUint32 {
		return 0, errors.New("too many triangles for STL")
	}
	var buf [stlHeaderSize + 4]byte
	copy(buf[:], "k3d binary STL")
	binary.LittleEndian.PutUint32(buf[stlHeaderSize:], uint32(len(model)))
	n, err := w.Write(buf[:])
	if err != nil {
		return n, err
	}
	var tri [stlTriangleSize]byte
	for _, t := range model {
		putVec(tri[0:], k3d.FaceNormal(t))
		putVec(tri[12:], t[0])
		putVec(tri[24:], t[1])
		putVec(tri[36:], t[2])
		// Trailing attribute byte count is left zero.
		ngot, err := w.Write(tri[:])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteMeshSTL writes the triangles of m, with its scale, rotation and
// translation applied, as a binary STL file to w.
func WriteMeshSTL(w io.Writer, m *k3d.Mesh) (int, error) {
	if m == nil || m.Geometry == nil {
		return 0, errors.New("nil mesh or mesh geometry")
	}
	return WriteBinarySTL(w, MeshTriangles(m))
}

// MeshTriangles returns the triangles of m transformed to world space.
func MeshTriangles(m *k3d.Mesh) []ms3.Triangle {
	model := glrender.ModelMatrix(m)
	out := make([]ms3.Triangle, len(m.Geometry.Triangles))
	for i, t := range m.Geometry.Triangles {
		for j := range t {
			out[i][j] = kmath.MulPoint(&model, kmath.PointFromVec(t[j])).Vec()
		}
	}
	return out
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}
