package glrender

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soypat/k3d"
	"github.com/soypat/k3d/kmath"
)

// Engine renders scenes through a [Context]. It owns the compiled pipelines
// and a single streaming vertex buffer that every draw call uploads to.
type Engine struct {
	ctx   Context
	progs [numPipelines]Program
	buf   Buffer
	// Scratch storage reused across frames.
	lights lightUniforms
	stats  FrameStats
}

// MeshStats reports how a mesh was drawn in a frame.
type MeshStats struct {
	// Pipeline used to draw the mesh triangles. Zero if triangles were not drawn.
	Pipeline Pipeline
	// Layout of the vertex buffer the triangles were drawn from.
	Layout k3d.Layout
	// Points and Lines report whether the wireframe was drawn.
	Points, Lines bool
}

// FrameStats summarizes the work done by [Engine.Render].
type FrameStats struct {
	DrawCalls int
	// Vertices is the total number of vertices submitted in draw calls.
	Vertices int
	// Meshes holds one entry per scene mesh in drawing order. It is reused
	// by the next call to Render.
	Meshes []MeshStats
}

type lightUniforms struct {
	position  []float32
	color     []float32
	intensity []float32
	ambColor  [3]float32
	ambI      [1]float32
}

// NewEngine compiles the wireframe, unlit and lit pipelines on ctx.
func NewEngine(ctx Context) (*Engine, error) {
	if ctx == nil {
		return nil, errors.New("nil Context")
	}
	e := &Engine{ctx: ctx}
	for p := PipelineWireframe; p < numPipelines; p++ {
		vert, frag, err := ShaderSource(p)
		if err != nil {
			return nil, err
		}
		prog, err := ctx.CompileProgram(vert, frag)
		if err != nil {
			return nil, fmt.Errorf("compiling %s pipeline: %w", p, err)
		}
		Logger().Info("compiled pipeline", slog.String("pipeline", p.String()), slog.Uint64("program", uint64(prog)))
		e.progs[p] = prog
	}
	buf, err := ctx.CreateBuffer()
	if err != nil {
		return nil, fmt.Errorf("creating vertex buffer: %w", err)
	}
	e.buf = buf
	return e, nil
}

// Program returns the program handle of pipeline p.
func (e *Engine) Program(p Pipeline) Program {
	if p == 0 || p >= numPipelines {
		return 0
	}
	return e.progs[p]
}

// Render clears the frame to the scene background and draws every mesh of
// the scene as seen from camera cam. Triangles use the lit pipeline when the
// scene has lights and the unlit pipeline otherwise.
func (e *Engine) Render(s *k3d.Scene, cam *k3d.Camera) (FrameStats, error) {
	if s == nil || cam == nil {
		return FrameStats{}, errors.New("nil scene or camera")
	}
	ctx := e.ctx
	e.stats.DrawCalls = 0
	e.stats.Vertices = 0
	e.stats.Meshes = e.stats.Meshes[:0]
	ctx.EnableDepthTest()
	ctx.Clear(s.Background)

	view := cam.View()
	proj := cam.Projection()
	lit := s.HasLights()
	if lit {
		e.loadLights(s, &view)
	}
	for i, m := range s.Meshes() {
		model := ModelMatrix(m)
		var vm, pvm kmath.Mat4
		kmath.Mul(&vm, &view, &model)
		kmath.Mul(&pvm, &proj, &vm)
		var ms MeshStats
		var err error
		if m.DrawTriangles {
			err = e.drawTriangles(&ms, m, &vm, &pvm, lit)
		}
		if err == nil && m.DrawPoints {
			ms.Points = true
			err = e.drawWireframe(Points, m.Points.Vertices, m.Points.Color, m.Points.Size, &pvm)
		}
		if err == nil && m.DrawLines {
			ms.Lines = true
			err = e.drawWireframe(Lines, m.Lines.Vertices, m.Lines.Color, 1, &pvm)
		}
		if err != nil {
			return e.stats, fmt.Errorf("mesh %d: %w", i, err)
		}
		e.stats.Meshes = append(e.stats.Meshes, ms)
	}
	if err := ctx.Err(); err != nil {
		return e.stats, fmt.Errorf("rendering frame: %w", err)
	}
	Logger().Debug("rendered frame", slog.Int("meshes", len(e.stats.Meshes)), slog.Int("draws", e.stats.DrawCalls), slog.Int("vertices", e.stats.Vertices))
	return e.stats, nil
}

func (e *Engine) drawTriangles(ms *MeshStats, m *k3d.Mesh, vm, pvm *kmath.Mat4, lit bool) error {
	ms.Pipeline, ms.Layout = PipelineUnlit, k3d.LayoutUnlit
	if lit {
		ms.Pipeline, ms.Layout = PipelineLit, m.LitLayout()
	}
	buf := m.Interleaved(ms.Layout)
	if buf == nil {
		return errors.New("mesh was not added to scene")
	}
	prog := e.progs[ms.Pipeline]
	ctx := e.ctx
	ctx.BufferData(e.buf, buf)
	ctx.UseProgram(prog)
	err := setAttribs(ctx, prog, ms.Layout.AttribSizes())
	if err != nil {
		return err
	}
	err = e.uniforms(prog,
		uniform{"u_VM_transform", FMat4, vm[:]},
		uniform{"u_PVM_transform", FMat4, pvm[:]},
	)
	if err == nil && lit {
		l := &e.lights
		err = e.uniforms(prog,
			uniform{"u_Light_position", FVec3, l.position},
			uniform{"u_Light_color", FVec3, l.color},
			uniform{"u_Light_intensity", FVec1, l.intensity},
			uniform{"u_Ambient_color", FVec3, l.ambColor[:]},
			uniform{"u_Ambient_intensity", Float, l.ambI[:]},
		)
	}
	if err != nil {
		return err
	}
	e.draw(Triangles, m.NumVertices())
	return nil
}

func (e *Engine) drawWireframe(mode Topology, vertices []float32, color [4]float32, size float32, pvm *kmath.Mat4) error {
	prog := e.progs[PipelineWireframe]
	ctx := e.ctx
	ctx.BufferData(e.buf, vertices)
	ctx.UseProgram(prog)
	err := setAttribs(ctx, prog, []int{3})
	if err != nil {
		return err
	}
	err = e.uniforms(prog,
		uniform{"u_PVM_transform", FMat4, pvm[:]},
		uniform{"u_Color", FVec4, color[:]},
		uniform{"u_Point_size", Float, []float32{size}},
	)
	if err != nil {
		return err
	}
	e.draw(mode, len(vertices)/3)
	return nil
}

func (e *Engine) draw(mode Topology, count int) {
	if count == 0 {
		return
	}
	e.ctx.DrawArrays(mode, 0, count)
	e.stats.DrawCalls++
	e.stats.Vertices += count
}

// loadLights fills the light uniforms with the scene point lights
// transformed to view space. With no point lights a single black light is
// uploaded so the lit pipeline still shades ambient light.
func (e *Engine) loadLights(s *k3d.Scene, view *kmath.Mat4) {
	l := &e.lights
	l.position = l.position[:0]
	l.color = l.color[:0]
	l.intensity = l.intensity[:0]
	points := s.PointLights()
	if len(points) > MaxLights {
		Logger().Warn("too many point lights, extra lights ignored", slog.Int("lights", len(points)), slog.Int("max", MaxLights))
		points = points[:MaxLights]
	}
	for _, pl := range points {
		p := kmath.MulPoint(view, kmath.PointFromVec(pl.Position))
		l.position = append(l.position, p[0], p[1], p[2])
		l.color = append(l.color, pl.Color[:]...)
		l.intensity = append(l.intensity, pl.Intensity)
	}
	if len(points) == 0 {
		l.position = append(l.position, 0, 0, 0)
		l.color = append(l.color, 0, 0, 0)
		l.intensity = append(l.intensity, 0)
	}
	l.ambColor = [3]float32{}
	l.ambI[0] = 0
	if amb := s.Ambient(); amb != nil {
		l.ambColor = amb.Color
		l.ambI[0] = amb.Intensity
	}
}

type uniform struct {
	name  string
	typ   UniformType
	value []float32
}

func (e *Engine) uniforms(prog Program, us ...uniform) error {
	for _, u := range us {
		err := e.ctx.Uniform(prog, u.name, u.typ, u.value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", u.name, err)
		}
	}
	return nil
}

// setAttribs points the interleaved vertex attributes of sizes at the current buffer.
func setAttribs(ctx Context, prog Program, sizes []int) error {
	const sizeofFloat = 4
	stride := 0
	for _, sz := range sizes {
		stride += sz * sizeofFloat
	}
	offset := 0
	for i, sz := range sizes {
		err := ctx.VertexAttrib(prog, layoutAttribs[i], sz, stride, offset)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", layoutAttribs[i], err)
		}
		offset += sz * sizeofFloat
	}
	return nil
}

// ModelMatrix returns the model transform of m: translation, then scale,
// then rotations about x, y and z applied in that order to the left.
// In other words T*S*Rx*Ry*Rz.
func ModelMatrix(m *k3d.Mesh) kmath.Mat4 {
	t := kmath.Translation(m.Translate.X, m.Translate.Y, m.Translate.Z)
	s := kmath.Scaling(m.Scale.X, m.Scale.Y, m.Scale.Z)
	rx := kmath.Rotation(m.Rotate.X, 1, 0, 0)
	ry := kmath.Rotation(m.Rotate.Y, 0, 1, 0)
	rz := kmath.Rotation(m.Rotate.Z, 0, 0, 1)
	var model kmath.Mat4
	kmath.MulSeries(&model, &t, &s, &rx, &ry, &rz)
	return model
}
