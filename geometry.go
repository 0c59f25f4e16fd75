package k3d

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// GeometryKind identifies the constructor that generated a [Geometry].
type GeometryKind uint8

const (
	KindTriangle GeometryKind = iota + 1
	KindBox
	KindCone
	KindUVSphere
)

func (k GeometryKind) String() string {
	switch k {
	case KindTriangle:
		return "Triangle"
	case KindBox:
		return "BoxGeometry"
	case KindCone:
		return "ConeGeometry"
	case KindUVSphere:
		return "UVSphereGeometry"
	}
	return "GeometryKind(?)"
}

// StarConvex reports whether every surface point of geometries of this kind
// is visible from the origin, which is the condition under which a
// normalized vertex position is a usable smooth shading normal.
func (k GeometryKind) StarConvex() bool {
	return k == KindBox || k == KindCone || k == KindUVSphere
}

// Geometry is primitive geometry data of a shape. It is not modified after
// being generated.
type Geometry struct {
	Kind GeometryKind
	// Points are the unique vertices of the shape, used for point rendering.
	Points []ms3.Vec
	// Triangles in counter-clockwise winding when seen from outside the shape.
	Triangles []ms3.Triangle
	// Lines contains the 3 edges of every triangle. Edges shared between
	// triangles are repeated.
	Lines [][2]ms3.Vec
	// FlatNormals contains one normal per triangle vertex. All 3 vertices of a
	// triangle share the same face normal.
	FlatNormals []ms3.Vec
	// SmoothNormals contains one normal per triangle vertex.
	SmoothNormals []ms3.Vec
}

// NumVertices returns the number of triangle vertices in the geometry.
func (g *Geometry) NumVertices() int { return 3 * len(g.Triangles) }

// NewTriangle creates the geometry of a single triangle. Its smooth normals
// equal its flat normal since a lone triangle has no curvature.
func (bld *Builder) NewTriangle(a, b, c ms3.Vec) *Geometry {
	g := &Geometry{
		Kind:      KindTriangle,
		Points:    []ms3.Vec{a, b, c},
		Triangles: []ms3.Triangle{{a, b, c}},
	}
	g.finalize()
	return g
}

// NewBox creates the geometry of a box centered at the origin with dimensions w, h, d along x, y, z.
func (bld *Builder) NewBox(w, h, d float32) *Geometry {
	if w <= 0 || h <= 0 || d <= 0 {
		bld.shapeErrorf("zero or negative box dimension %g,%g,%g", w, h, d)
	}
	w, h, d = w/2, h/2, d/2
	v := []ms3.Vec{
		{X: -w, Y: h, Z: d},
		{X: -w, Y: -h, Z: d},
		{X: w, Y: h, Z: d},
		{X: w, Y: -h, Z: d},
		{X: w, Y: h, Z: -d},
		{X: w, Y: -h, Z: -d},
		{X: -w, Y: h, Z: -d},
		{X: -w, Y: -h, Z: -d},
	}
	g := &Geometry{
		Kind: KindBox,
		Triangles: []ms3.Triangle{
			{v[0], v[1], v[2]}, {v[2], v[1], v[3]}, // Front.
			{v[2], v[3], v[4]}, {v[4], v[3], v[5]}, // Right.
			{v[4], v[5], v[6]}, {v[6], v[5], v[7]}, // Back.
			{v[6], v[7], v[0]}, {v[0], v[7], v[1]}, // Left.
			{v[0], v[2], v[6]}, {v[6], v[2], v[4]}, // Top.
			{v[1], v[7], v[3]}, {v[3], v[7], v[5]}, // Bottom.
		},
	}
	g.Points = mergeByDistance(v, mergeDist)
	g.finalize()
	return g
}

// NewCone creates the geometry of a cone with its base of radius r centered at
// the origin on the z=0 plane and its apex at (0,0,h). The base circle is
// approximated by segments straight edges.
func (bld *Builder) NewCone(r, h float32, segments int) *Geometry {
	if r <= 0 || h <= 0 {
		bld.shapeErrorf("zero or negative cone dimension r=%g h=%g", r, h)
	}
	if segments < 3 {
		bld.shapeErrorf("cone requires at least 3 segments, got %d", segments)
		return &Geometry{Kind: KindCone}
	}
	step := 2 * math32.Pi / float32(segments)
	ring := make([]ms3.Vec, segments+1)
	for i := range ring {
		// Last point closes the ring on top of the first.
		sin, cos := sincos(float32(i%segments) * step)
		ring[i] = ms3.Vec{X: r * cos, Y: r * sin}
	}
	peak := ms3.Vec{Z: h}
	center := ms3.Vec{}
	g := &Geometry{
		Kind:      KindCone,
		Triangles: make([]ms3.Triangle, 0, 2*segments),
	}
	for i := 0; i < segments; i++ {
		g.Triangles = append(g.Triangles,
			ms3.Triangle{peak, ring[i], ring[i+1]},   // Side.
			ms3.Triangle{ring[i], center, ring[i+1]}, // Base.
		)
	}
	g.Points = append(mergeByDistance(ring, mergeDist), center, peak)
	g.finalize()
	return g
}

// NewUVSphere creates the geometry of a sphere of radius r centered at the
// origin built from rings latitude bands and segments longitude
// slices. The poles lie on the z axis and are each shared by a fan of
// segments triangles.
func (bld *Builder) NewUVSphere(r float32, rings, segments int) *Geometry {
	if r <= 0 {
		bld.shapeErrorf("zero or negative sphere radius %g", r)
	}
	if rings < 2 || segments < 3 {
		bld.shapeErrorf("sphere requires at least 2 rings and 3 segments, got %d, %d", rings, segments)
		return &Geometry{Kind: KindUVSphere}
	}
	latStep := math32.Pi / float32(rings)
	lonStep := 2 * math32.Pi / float32(segments)
	vertices := make([]ms3.Vec, 0, (rings+1)*segments)
	for i := 0; i <= rings; i++ {
		sinLat, cosLat := sincos(math32.Pi/2 - float32(i)*latStep)
		xy := r * cosLat
		z := r * sinLat
		if i == 0 || i == rings {
			// Pole rows collapse onto the z axis.
			xy = 0
			z = math32.Copysign(r, z)
		}
		for j := 0; j < segments; j++ {
			sinLon, cosLon := sincos(float32(j) * lonStep)
			vertices = append(vertices, ms3.Vec{X: xy * cosLon, Y: xy * sinLon, Z: z})
		}
	}
	g := &Geometry{
		Kind:      KindUVSphere,
		Triangles: make([]ms3.Triangle, 0, segments*(2*rings-2)),
	}
	for i := 0; i < rings; i++ {
		top := i * segments
		bot := top + segments
		for j := 0; j < segments; j++ {
			next := (j + 1) % segments
			k1, k1n := top+j, top+next
			k2, k2n := bot+j, bot+next
			if i != 0 {
				g.Triangles = append(g.Triangles, ms3.Triangle{vertices[k1], vertices[k2], vertices[k1n]})
			}
			if i != rings-1 {
				g.Triangles = append(g.Triangles, ms3.Triangle{vertices[k1n], vertices[k2], vertices[k2n]})
			}
		}
	}
	g.Points = mergeByDistance(vertices, mergeDist)
	g.finalize()
	return g
}

// finalize builds the line and normal data from the triangles of g.
func (g *Geometry) finalize() {
	g.Lines = buildLines(g.Triangles)
	g.FlatNormals = buildFlatNormals(g.Triangles)
	if g.Kind.StarConvex() {
		g.SmoothNormals = buildRadialNormals(g.Triangles)
	} else {
		g.SmoothNormals = AveragedNormals(g.Triangles)
	}
}

func buildLines(triangles []ms3.Triangle) [][2]ms3.Vec {
	lines := make([][2]ms3.Vec, 0, 3*len(triangles))
	for _, t := range triangles {
		lines = append(lines, [2]ms3.Vec{t[0], t[1]}, [2]ms3.Vec{t[1], t[2]}, [2]ms3.Vec{t[2], t[0]})
	}
	return lines
}

func sincos(rad float32) (sin, cos float32) {
	return math32.Sin(rad), math32.Cos(rad)
}
