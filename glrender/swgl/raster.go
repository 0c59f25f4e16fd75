package swgl

import (
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/k3d/glrender"
	"github.com/soypat/k3d/kmath"
)

// wireBias pulls points and lines towards the camera in depth so they win
// the depth test against the triangles they outline.
const wireBias = 1e-4

// vertex is the output of the vertex stage in screen space.
type vertex struct {
	visible bool
	// Screen position in framebuffer pixels and depth in 0..1.
	x, y, z float32
	invW    float32
	vary    varying
}

// varying holds the attributes interpolated across primitives.
type varying struct {
	color  ms3.Vec
	pos    ms3.Vec // View space.
	normal ms3.Vec // View space.
}

// drawState holds the uniforms of the program in use for a draw call.
type drawState struct {
	pipeline glrender.Pipeline
	pvm, vm  kmath.Mat4
	color    [4]float32
	light    glrender.ViewLight
	ambColor ms3.Vec
	ambI     float32
}

func (c *Context) loadState() drawState {
	prog := c.current
	st := drawState{
		pipeline: prog.pipeline,
		pvm:      c.mat4("u_PVM_transform"),
		vm:       c.mat4("u_VM_transform"),
	}
	copy(st.color[:], prog.uniforms["u_Color"])
	st.light = glrender.ViewLight{
		Position:  c.vec3("u_Light_position"),
		Color:     c.vec3("u_Light_color"),
		Intensity: c.uniform1("u_Light_intensity", 0),
	}
	st.ambColor = c.vec3("u_Ambient_color")
	st.ambI = c.uniform1("u_Ambient_intensity", 0)
	return st
}

func (c *Context) runVertexStage(first, count int) ([]vertex, error) {
	prog := c.current
	data := c.buffers[c.bound]
	posAttr, ok := prog.attribs["a_Vertex_position"]
	if !ok {
		return nil, fmt.Errorf("%s program has no position attribute", prog.pipeline)
	}
	colorAttr, hasColor := prog.attribs["a_Color"]
	normalAttr, hasNormal := prog.attribs["a_Vertex_normal"]
	st := c.loadState()
	w, h := float32(c.fb.Rect.Dx()), float32(c.fb.Rect.Dy())
	vs := make([]vertex, count)
	for i := range vs {
		idx := first + i
		pos, err := readVec(data, posAttr, idx)
		if err != nil {
			return nil, err
		}
		v := &vs[i]
		clip := kmath.MulPoint(&st.pvm, kmath.PointFromVec(pos))
		if hasColor && st.pipeline != glrender.PipelineWireframe {
			v.vary.color, err = readVec(data, colorAttr, idx)
			if err != nil {
				return nil, err
			}
		}
		if st.pipeline == glrender.PipelineLit {
			var n ms3.Vec
			if hasNormal {
				if n, err = readVec(data, normalAttr, idx); err != nil {
					return nil, err
				}
			}
			v.vary.normal = kmath.MulVec3(&st.vm, n)
			v.vary.pos = kmath.MulPoint(&st.vm, kmath.PointFromVec(pos)).Vec()
		}
		if clip[3] <= 0 {
			continue // Behind camera.
		}
		v.visible = true
		v.invW = 1 / clip[3]
		v.x = (clip[0]*v.invW + 1) / 2 * w
		v.y = (1 - clip[1]*v.invW) / 2 * h
		v.z = (clip[2]*v.invW + 1) / 2
	}
	c.state = st
	return vs, nil
}

func readVec(data []float32, a attrib, idx int) (v ms3.Vec, err error) {
	base := (idx*a.stride + a.offset) / 4
	if base < 0 || base+a.size > len(data) {
		return v, fmt.Errorf("vertex %d out of buffer range", idx)
	}
	var comps [3]float32
	copy(comps[:], data[base:base+min(a.size, 3)])
	return ms3.Vec{X: comps[0], Y: comps[1], Z: comps[2]}, nil
}

func (c *Context) fragment(v *varying) color.RGBA {
	st := &c.state
	switch st.pipeline {
	case glrender.PipelineUnlit:
		return toRGBA([4]float32{v.color.X, v.color.Y, v.color.Z, 1})
	case glrender.PipelineLit:
		return toRGBA(glrender.Shade(v.color, v.normal, v.pos, st.light, st.ambColor, st.ambI))
	}
	return toRGBA(st.color)
}

// edge returns twice the signed area of the triangle a, b, (px,py).
func edge(a, b *vertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (c *Context) drawTriangle(a, b, d *vertex) {
	if !a.visible || !b.visible || !d.visible {
		return
	}
	area := edge(a, b, d.x, d.y)
	if area == 0 {
		return
	}
	bounds := c.fb.Rect
	minX := max(bounds.Min.X, int(math32.Floor(min(a.x, b.x, d.x))))
	maxX := min(bounds.Max.X-1, int(math32.Ceil(max(a.x, b.x, d.x))))
	minY := max(bounds.Min.Y, int(math32.Floor(min(a.y, b.y, d.y))))
	maxY := min(bounds.Max.Y-1, int(math32.Ceil(max(a.y, b.y, d.y))))
	inv := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(b, d, px, py) * inv
			w1 := edge(d, a, px, py) * inv
			w2 := edge(a, b, px, py) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*d.z
			if !c.depthPass(x, y, z) {
				continue
			}
			// Perspective correct weights.
			p0, p1, p2 := w0*a.invW, w1*b.invW, w2*d.invW
			s := 1 / (p0 + p1 + p2)
			vary := interpVarying(&a.vary, &b.vary, &d.vary, p0*s, p1*s, p2*s)
			c.fb.SetRGBA(x, y, c.fragment(&vary))
		}
	}
}

func interpVarying(a, b, d *varying, w0, w1, w2 float32) varying {
	lerp := func(u, v, t ms3.Vec) ms3.Vec {
		return ms3.Add(ms3.Scale(w0, u), ms3.Add(ms3.Scale(w1, v), ms3.Scale(w2, t)))
	}
	return varying{
		color:  lerp(a.color, b.color, d.color),
		pos:    lerp(a.pos, b.pos, d.pos),
		normal: lerp(a.normal, b.normal, d.normal),
	}
}

func (c *Context) drawLine(a, b *vertex) {
	if !a.visible || !b.visible {
		return
	}
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math32.Ceil(max(math32.Abs(dx), math32.Abs(dy))))
	steps = max(steps, 1)
	col := c.fragment(&a.vary)
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		c.plot(a.x+t*dx, a.y+t*dy, a.z+t*(b.z-a.z)-wireBias, float32(c.supersample), col)
	}
}

func (c *Context) drawPoint(v *vertex, size float32) {
	if !v.visible {
		return
	}
	c.plot(v.x, v.y, v.z-wireBias, size*float32(c.supersample), c.fragment(&v.vary))
}

// plot fills a square of side size pixels centered at x,y.
func (c *Context) plot(x, y, z, size float32, col color.RGBA) {
	half := max(size, 1) / 2
	x0, x1 := int(math32.Floor(x-half+0.5)), int(math32.Floor(x+half-0.5))
	y0, y1 := int(math32.Floor(y-half+0.5)), int(math32.Floor(y+half-0.5))
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			if c.depthPass(px, py, z) {
				c.fb.SetRGBA(px, py, col)
			}
		}
	}
}

// depthPass reports whether a fragment at x,y with depth z is kept and
// stores its depth if so. Fragments outside the framebuffer or the 0..1
// depth range are discarded.
func (c *Context) depthPass(x, y int, z float32) bool {
	r := c.fb.Rect
	if x < r.Min.X || y < r.Min.Y || x >= r.Max.X || y >= r.Max.Y || z < 0 || z > 1 {
		return false
	}
	i := (y-r.Min.Y)*r.Dx() + (x - r.Min.X)
	if c.depthTest {
		if z >= c.depth[i] {
			return false
		}
		c.depth[i] = z
	}
	return true
}

func (c *Context) uniform1(name string, def float32) float32 {
	u := c.current.uniforms[name]
	if len(u) == 0 {
		return def
	}
	return u[0]
}

func (c *Context) vec3(name string) ms3.Vec {
	u := c.current.uniforms[name]
	if len(u) < 3 {
		return ms3.Vec{}
	}
	return ms3.Vec{X: u[0], Y: u[1], Z: u[2]}
}

func (c *Context) mat4(name string) kmath.Mat4 {
	u := c.current.uniforms[name]
	if len(u) != 16 {
		return kmath.Identity()
	}
	var m kmath.Mat4
	copy(m[:], u)
	return m
}
