package k3d

import (
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/k3d/kmath"
)

// FaceNormal returns the unit normal of triangle t following its winding,
// normalize((t1-t0) x (t2-t1)). Degenerate triangles have a zero normal.
func FaceNormal(t ms3.Triangle) ms3.Vec {
	n, _ := kmath.Normalize(faceCross(t))
	return n
}

// faceCross returns the unnormalized face normal of t. Its length is twice the triangle area.
func faceCross(t ms3.Triangle) ms3.Vec {
	return kmath.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[1]))
}

func buildFlatNormals(triangles []ms3.Triangle) []ms3.Vec {
	normals := make([]ms3.Vec, 0, 3*len(triangles))
	for _, t := range triangles {
		n := FaceNormal(t)
		normals = append(normals, n, n, n)
	}
	return normals
}

// buildRadialNormals uses the normalized position of each triangle vertex as
// its normal. This is only correct for shapes that are star-convex about the
// origin. Vertices at the origin get a zero normal.
func buildRadialNormals(triangles []ms3.Triangle) []ms3.Vec {
	normals := make([]ms3.Vec, 0, 3*len(triangles))
	for _, t := range triangles {
		for _, v := range t {
			n, _ := kmath.Normalize(v)
			normals = append(normals, n)
		}
	}
	return normals
}

// AveragedNormals returns one normal per triangle vertex computed as the
// area weighted average of the face normals of all triangles sharing the
// vertex position. It works for arbitrary closed or open meshes.
func AveragedNormals(triangles []ms3.Triangle) []ms3.Vec {
	sum := make(map[ms3.Vec]ms3.Vec, len(triangles))
	for _, t := range triangles {
		c := faceCross(t)
		for _, v := range t {
			sum[v] = ms3.Add(sum[v], c)
		}
	}
	normals := make([]ms3.Vec, 0, 3*len(triangles))
	for _, t := range triangles {
		for _, v := range t {
			n, _ := kmath.Normalize(sum[v])
			normals = append(normals, n)
		}
	}
	return normals
}
