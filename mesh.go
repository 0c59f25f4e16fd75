package k3d

import (
	"github.com/soypat/geometry/ms3"
)

// ShadeMode selects which normals are used when a mesh is lit.
type ShadeMode uint8

const (
	// ShadeFlat shades every triangle with its face normal.
	ShadeFlat ShadeMode = iota + 1
	// ShadeSmooth shades with per-vertex normals.
	ShadeSmooth
)

func (s ShadeMode) String() string {
	switch s {
	case ShadeFlat:
		return "flat"
	case ShadeSmooth:
		return "smooth"
	}
	return "ShadeMode(?)"
}

// Layout identifies one of the interleaved vertex buffers built for a mesh
// when it is added to a [Scene].
type Layout uint8

const (
	// LayoutUnlit interleaves position and color (stride 6).
	LayoutUnlit Layout = iota
	// LayoutFlat interleaves position, color and flat normal (stride 9).
	LayoutFlat
	// LayoutSmooth interleaves position, color and smooth normal (stride 9).
	LayoutSmooth
	numLayouts
)

// AttribSizes returns the number of scalars of each attribute of the layout in interleaving order.
func (l Layout) AttribSizes() []int {
	if l == LayoutUnlit {
		return []int{3, 3}
	}
	return []int{3, 3, 3}
}

// Stride returns the number of scalars per vertex in the layout.
func (l Layout) Stride() (stride int) {
	for _, sz := range l.AttribSizes() {
		stride += sz
	}
	return stride
}

func (l Layout) String() string {
	switch l {
	case LayoutUnlit:
		return "unlit"
	case LayoutFlat:
		return "flat"
	case LayoutSmooth:
		return "smooth"
	}
	return "Layout(?)"
}

// PointData holds the flattened positions of a mesh's points.
type PointData struct {
	// Vertices holds x,y,z for each point.
	Vertices []float32
	Color    [4]float32
	Size     float32
}

// LineData holds the flattened positions of a mesh's line segments.
type LineData struct {
	// Vertices holds x,y,z for both ends of each segment.
	Vertices []float32
	Color    [4]float32
}

// TriangleData holds flattened per-vertex attributes of a mesh's
// triangles. All slices have 3 scalars per triangle vertex.
type TriangleData struct {
	Vertices      []float32
	Colors        []float32
	FlatNormals   []float32
	SmoothNormals []float32
}

// Mesh is a drawable object made of a geometry and a material.
type Mesh struct {
	Geometry *Geometry
	Material Material
	Shade    ShadeMode

	DrawPoints    bool
	DrawLines     bool
	DrawTriangles bool

	// Scale, Translate and Rotate define the model transform of the mesh.
	// Rotate holds angles in degrees about the x, y and z axes.
	Scale     ms3.Vec
	Translate ms3.Vec
	Rotate    ms3.Vec

	Points    PointData
	Lines     LineData
	Triangles TriangleData

	interleaved [numLayouts][]float32
}

// NewMesh packs the geometry g with material m into a mesh ready to be added to a [Scene].
// Only triangles are drawn by default.
func NewMesh(g *Geometry, m Material, shade ShadeMode) *Mesh {
	if g == nil {
		panic("nil geometry argument to NewMesh")
	}
	return &Mesh{
		Geometry:      g,
		Material:      m,
		Shade:         shade,
		DrawTriangles: true,
		Scale:         ms3.Vec{X: 1, Y: 1, Z: 1},
		Points: PointData{
			Vertices: appendVecs(nil, g.Points),
			Color:    [4]float32{0, 0, 0, 1},
			Size:     2,
		},
		Lines: LineData{
			Vertices: appendLines(nil, g.Lines),
			Color:    [4]float32{1, 1, 1, 1},
		},
		Triangles: TriangleData{
			Vertices:      appendTriangles(nil, g.Triangles),
			Colors:        replicateColor(m.RGB(), g.NumVertices()),
			FlatNormals:   appendVecs(nil, g.FlatNormals),
			SmoothNormals: appendVecs(nil, g.SmoothNormals),
		},
	}
}

// NumVertices returns the number of triangle vertices drawn for the mesh.
func (m *Mesh) NumVertices() int {
	return len(m.Triangles.Vertices) / 3
}

// LitLayout returns the interleaved layout used when the mesh is lit, which depends on its shade mode.
func (m *Mesh) LitLayout() Layout {
	if m.Shade == ShadeSmooth {
		return LayoutSmooth
	}
	return LayoutFlat
}

// Interleaved returns the interleaved vertex buffer of layout l. It is nil
// until the mesh is added to a [Scene].
func (m *Mesh) Interleaved(l Layout) []float32 {
	if l >= numLayouts {
		return nil
	}
	return m.interleaved[l]
}

func (m *Mesh) buildInterleaved() {
	tri := &m.Triangles
	n := m.NumVertices()
	m.interleaved[LayoutUnlit] = Interleave(n, [][]float32{tri.Vertices, tri.Colors}, LayoutUnlit.AttribSizes())
	m.interleaved[LayoutFlat] = Interleave(n, [][]float32{tri.Vertices, tri.Colors, tri.FlatNormals}, LayoutFlat.AttribSizes())
	m.interleaved[LayoutSmooth] = Interleave(n, [][]float32{tri.Vertices, tri.Colors, tri.SmoothNormals}, LayoutSmooth.AttribSizes())
}

// Interleave builds a single buffer holding numVertex vertices where the
// attributes of each vertex are laid out contiguously in the order of arrays.
// sizes[i] is the number of scalars per vertex of arrays[i].
func Interleave(numVertex int, arrays [][]float32, sizes []int) []float32 {
	if len(arrays) != len(sizes) {
		panic("mismatched attribute arrays and sizes")
	}
	stride := 0
	for i, sz := range sizes {
		if len(arrays[i]) < numVertex*sz {
			panic("attribute array too short for vertex count")
		}
		stride += sz
	}
	dst := make([]float32, 0, numVertex*stride)
	for v := 0; v < numVertex; v++ {
		for i, sz := range sizes {
			dst = append(dst, arrays[i][v*sz:(v+1)*sz]...)
		}
	}
	return dst
}

func appendVecs(dst []float32, vs []ms3.Vec) []float32 {
	for _, v := range vs {
		dst = append(dst, v.X, v.Y, v.Z)
	}
	return dst
}

func appendLines(dst []float32, lines [][2]ms3.Vec) []float32 {
	for _, l := range lines {
		dst = appendVecs(dst, l[:])
	}
	return dst
}

func appendTriangles(dst []float32, triangles []ms3.Triangle) []float32 {
	for _, t := range triangles {
		dst = appendVecs(dst, t[:])
	}
	return dst
}

func replicateColor(c [3]float32, n int) []float32 {
	dst := make([]float32, 0, 3*n)
	for i := 0; i < n; i++ {
		dst = append(dst, c[:]...)
	}
	return dst
}
