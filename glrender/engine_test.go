package glrender

import (
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/k3d"
	"github.com/soypat/k3d/kmath"
)

func newTestScene(t *testing.T, shade k3d.ShadeMode) (*k3d.Scene, *k3d.Mesh, *k3d.Camera) {
	t.Helper()
	g, err := k3d.BoxGeometry(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	m := k3d.NewMesh(g, k3d.NewMaterial(1, 0, 0), shade)
	s := k3d.NewScene(nil)
	err = s.Add(m, k3d.NewPointLight(0, 5, 0, [3]float32{1, 1, 1}))
	if err != nil {
		t.Fatal(err)
	}
	cam := k3d.NewPerspectiveCamera(45, 1, 0.1, 100)
	cam.Eye = ms3.Vec{Z: 5}
	cam.LookAt(ms3.Vec{})
	return s, m, cam
}

func TestNewEngine(t *testing.T) {
	var rec Recorder
	e, err := NewEngine(&rec)
	if err != nil {
		t.Fatal(err)
	}
	for p := PipelineWireframe; p < numPipelines; p++ {
		prog := e.Program(p)
		if prog == 0 || rec.Pipeline(prog) != p {
			t.Errorf("pipeline %s compiled from wrong sources", p)
		}
	}
	if len(rec.Find("CreateBuffer", "")) != 1 {
		t.Error("want a single vertex buffer")
	}
}

func TestRenderPipelineSelection(t *testing.T) {
	for _, shade := range []k3d.ShadeMode{k3d.ShadeFlat, k3d.ShadeSmooth} {
		var rec Recorder
		e, err := NewEngine(&rec)
		if err != nil {
			t.Fatal(err)
		}
		s, m, cam := newTestScene(t, shade)
		rec.Reset()
		stats, err := e.Render(s, cam)
		if err != nil {
			t.Fatal(err)
		}
		wantLayout := k3d.LayoutFlat
		if shade == k3d.ShadeSmooth {
			wantLayout = k3d.LayoutSmooth
		}
		if len(stats.Meshes) != 1 || stats.Meshes[0].Pipeline != PipelineLit || stats.Meshes[0].Layout != wantLayout {
			t.Fatalf("%s: bad stats %+v", shade, stats)
		}
		draws := rec.Find("DrawArrays", "")
		if len(draws) != 1 || draws[0].Program != e.Program(PipelineLit) || draws[0].Topology != Triangles || draws[0].Args[1] != 36 {
			t.Fatalf("%s: bad draw calls %v", shade, draws)
		}
		uploads := rec.Find("BufferData", "")
		if len(uploads) != 1 || !equalFloats(uploads[0].Data, m.Interleaved(wantLayout)) {
			t.Fatalf("%s: uploaded buffer does not match %s layout", shade, wantLayout)
		}
		normal := rec.Find("VertexAttrib", attribNormal)
		if len(normal) != 1 || normal[0].Args != [3]int{3, 36, 24} {
			t.Errorf("%s: bad normal attribute %v", shade, normal)
		}
		for _, name := range []string{"u_VM_transform", "u_PVM_transform", "u_Light_position", "u_Light_color", "u_Light_intensity", "u_Ambient_color", "u_Ambient_intensity"} {
			if len(rec.Find("Uniform", name)) != 1 {
				t.Errorf("%s: uniform %s not set once", shade, name)
			}
		}
		amb := rec.Find("Uniform", "u_Ambient_intensity")[0]
		if amb.Data[0] != 0 {
			t.Error("want zero ambient intensity without ambient light")
		}

		// Removing the lights switches to the unlit pipeline.
		s.ClearLights()
		rec.Reset()
		stats, err = e.Render(s, cam)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Meshes[0].Pipeline != PipelineUnlit || stats.Meshes[0].Layout != k3d.LayoutUnlit {
			t.Fatalf("%s: bad unlit stats %+v", shade, stats.Meshes[0])
		}
		draws = rec.Find("DrawArrays", "")
		if len(draws) != 1 || draws[0].Program != e.Program(PipelineUnlit) {
			t.Fatalf("%s: bad unlit draw %v", shade, draws)
		}
		if len(rec.Find("Uniform", "u_Light_position")) != 0 {
			t.Error("light uniforms set on unlit pipeline")
		}
		if len(rec.Find("VertexAttrib", attribNormal)) != 0 {
			t.Error("normal attribute set on unlit pipeline")
		}
	}
}

func TestRenderWireframe(t *testing.T) {
	var rec Recorder
	e, err := NewEngine(&rec)
	if err != nil {
		t.Fatal(err)
	}
	s, m, cam := newTestScene(t, k3d.ShadeFlat)
	m.DrawTriangles = false
	m.DrawPoints = true
	m.DrawLines = true
	rec.Reset()
	stats, err := e.Render(s, cam)
	if err != nil {
		t.Fatal(err)
	}
	if stats.DrawCalls != 2 || stats.Vertices != 8+72 {
		t.Errorf("bad stats %+v", stats)
	}
	draws := rec.Find("DrawArrays", "")
	if len(draws) != 2 || draws[0].Topology != Points || draws[0].Args[1] != 8 || draws[1].Topology != Lines || draws[1].Args[1] != 72 {
		t.Fatalf("bad wireframe draws %v", draws)
	}
	colors := rec.Find("Uniform", "u_Color")
	if len(colors) != 2 || !equalFloats(colors[0].Data, []float32{0, 0, 0, 1}) || !equalFloats(colors[1].Data, []float32{1, 1, 1, 1}) {
		t.Errorf("bad wireframe colors %v", colors)
	}
	size := rec.Find("Uniform", "u_Point_size")
	if len(size) != 2 || size[0].Data[0] != 2 {
		t.Errorf("bad point size %v", size)
	}
	clears := rec.Find("Clear", "")
	if len(clears) != 1 || !equalFloats(clears[0].Data, s.Background[:]) {
		t.Error("frame not cleared to background")
	}
	if rec.Calls[0].Method != "EnableDepthTest" {
		t.Error("depth test must be enabled first")
	}
}

func TestRenderLightViewSpace(t *testing.T) {
	var rec Recorder
	e, err := NewEngine(&rec)
	if err != nil {
		t.Fatal(err)
	}
	s, _, cam := newTestScene(t, k3d.ShadeFlat)
	s.Add(k3d.NewAmbientLight(0.5, 0.5, 0.5))
	rec.Reset()
	if _, err = e.Render(s, cam); err != nil {
		t.Fatal(err)
	}
	lpos := rec.Find("Uniform", "u_Light_position")[0].Data
	if !equalFloats(lpos, []float32{0, 5, -5}) {
		t.Errorf("want light at 0,5,-5 in view space, got %v", lpos)
	}
	amb := rec.Find("Uniform", "u_Ambient_color")[0].Data
	if !equalFloats(amb, []float32{.5, .5, .5}) {
		t.Error("bad ambient color", amb)
	}
}

func TestModelMatrix(t *testing.T) {
	g := k3d.Triangle(ms3.Vec{}, ms3.Vec{X: 1}, ms3.Vec{Y: 1})
	m := k3d.NewMesh(g, k3d.NewMaterial(1, 1, 1), k3d.ShadeFlat)
	m.Translate = ms3.Vec{X: 1}
	m.Scale = ms3.Vec{X: 2, Y: 2, Z: 2}
	m.Rotate = ms3.Vec{Z: 90}
	model := ModelMatrix(m)
	got := kmath.MulPoint(&model, kmath.Point3(1, 0, 0))
	if !equalFloats(got[:], []float32{1, 2, 0, 1}) {
		t.Errorf("want rotation, then scale, then translation applied: got %v", got)
	}
	m.Rotate = ms3.Vec{X: 90, Z: 90}
	model = ModelMatrix(m)
	// Rz takes x to y, then Rx takes y to z.
	got = kmath.MulPoint(&model, kmath.Point3(1, 0, 0))
	if !equalFloats(got[:], []float32{1, 0, 2, 1}) {
		t.Errorf("want Rz applied before Rx: got %v", got)
	}
}

func TestRenderRejectedNilLight(t *testing.T) {
	var rec Recorder
	e, err := NewEngine(&rec)
	if err != nil {
		t.Fatal(err)
	}
	s, _, cam := newTestScene(t, k3d.ShadeFlat)
	s.ClearLights()
	if err := s.Add((*k3d.PointLight)(nil)); err == nil {
		t.Fatal("nil point light accepted by scene")
	}
	stats, err := e.Render(s, cam)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Meshes) != 1 || stats.Meshes[0].Pipeline != PipelineUnlit {
		t.Errorf("want unlit pipeline after rejected light, got %+v", stats.Meshes)
	}
}

func TestPipelineOf(t *testing.T) {
	for p := PipelineWireframe; p < numPipelines; p++ {
		v, f, err := ShaderSource(p)
		if err != nil {
			t.Fatal(err)
		}
		// Must match the OpenGL 4.6 core context created by glctx.
		const version = "#version 460 core\n"
		if !strings.HasPrefix(v, version) || !strings.HasPrefix(f, version) {
			t.Errorf("%s: shaders must start with %q", p, version)
		}
		pv, ok1 := PipelineOf(v)
		pf, ok2 := PipelineOf(f)
		if !ok1 || !ok2 || pv != p || pf != p {
			t.Errorf("%s: bad tags %s %s", p, pv, pf)
		}
	}
	if _, ok := PipelineOf("void main() {}"); ok {
		t.Error("untagged source should have no pipeline")
	}
}

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math32.Abs(a[i]-b[i]) > 1e-5 {
			return false
		}
	}
	return true
}
