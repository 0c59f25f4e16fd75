// Package swgl implements [glrender.Context] with a pure Go rasterizer so
// scenes can be rendered without a GPU or a window. Programs are bound to
// their pipeline through the tag in the shader source and the pipeline stages
// are evaluated in Go; the lit fragment stage is [glrender.Shade].
//
// Triangles are not clipped: those with a vertex on or behind the camera
// plane are discarded whole.
package swgl

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/soypat/k3d/glrender"
	"golang.org/x/image/draw"
)

type attrib struct {
	size, stride, offset int
}

type program struct {
	pipeline glrender.Pipeline
	attribs  map[string]attrib
	uniforms map[string][]float32
}

// Context is a software rendering context drawing into an in-memory framebuffer.
type Context struct {
	width, height int
	supersample   int
	fb            *image.RGBA
	depth         []float32
	depthTest     bool

	buffers  [][]float32
	bound    int // Index into buffers, -1 if none.
	programs []*program
	current  *program
	state    drawState
	err      error
}

var _ glrender.Context = (*Context)(nil)

// New returns a context for images of width x height pixels. Rendering is
// done at supersample times the resolution in each direction and downsampled
// by [Context.Image]. supersample values under 1 are treated as 1.
func New(width, height, supersample int) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	supersample = max(supersample, 1)
	w, h := width*supersample, height*supersample
	return &Context{
		width:       width,
		height:      height,
		supersample: supersample,
		fb:          image.NewRGBA(image.Rect(0, 0, w, h)),
		depth:       make([]float32, w*h),
		bound:       -1,
	}, nil
}

// Bounds returns the bounds of images returned by [Context.Image].
func (c *Context) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// Framebuffer returns the supersampled framebuffer drawn to. It is overwritten by subsequent draws.
func (c *Context) Framebuffer() *image.RGBA { return c.fb }

// Image returns a copy of the framebuffer downsampled to the context size.
func (c *Context) Image() *image.RGBA {
	dst := image.NewRGBA(c.Bounds())
	if c.supersample == 1 {
		copy(dst.Pix, c.fb.Pix)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), c.fb, c.fb.Bounds(), draw.Src, nil)
	return dst
}

func (c *Context) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Context) Err() error {
	err := c.err
	c.err = nil
	return err
}

func (c *Context) CreateBuffer() (glrender.Buffer, error) {
	c.buffers = append(c.buffers, nil)
	return glrender.Buffer(len(c.buffers)), nil
}

func (c *Context) BufferData(b glrender.Buffer, data []float32) {
	if b == 0 || int(b) > len(c.buffers) {
		c.fail(fmt.Errorf("invalid buffer %d", b))
		return
	}
	i := int(b) - 1
	c.buffers[i] = append(c.buffers[i][:0], data...)
	c.bound = i
}

func (c *Context) CompileProgram(vertex, fragment string) (glrender.Program, error) {
	pv, ok := glrender.PipelineOf(vertex)
	if !ok {
		return 0, errors.New("vertex shader is not a k3d pipeline shader")
	}
	pf, ok := glrender.PipelineOf(fragment)
	if !ok || pf != pv {
		return 0, fmt.Errorf("fragment shader does not belong to %s pipeline", pv)
	}
	c.programs = append(c.programs, &program{
		pipeline: pv,
		attribs:  make(map[string]attrib),
		uniforms: make(map[string][]float32),
	})
	return glrender.Program(len(c.programs)), nil
}

func (c *Context) program(p glrender.Program) (*program, error) {
	if p == 0 || int(p) > len(c.programs) {
		return nil, fmt.Errorf("invalid program %d", p)
	}
	return c.programs[p-1], nil
}

func (c *Context) UseProgram(p glrender.Program) {
	prog, err := c.program(p)
	if err != nil {
		c.fail(err)
		return
	}
	c.current = prog
}

func (c *Context) VertexAttrib(p glrender.Program, name string, size, stride, offset int) error {
	prog, err := c.program(p)
	if err != nil {
		return err
	}
	if size < 1 || size > 4 || stride < 0 || offset < 0 || stride%4 != 0 || offset%4 != 0 {
		return fmt.Errorf("invalid attribute layout size=%d stride=%d offset=%d", size, stride, offset)
	}
	if stride == 0 {
		stride = 4 * size
	}
	prog.attribs[name] = attrib{size: size, stride: stride, offset: offset}
	return nil
}

func (c *Context) Uniform(p glrender.Program, name string, typ glrender.UniformType, value []float32) error {
	prog, err := c.program(p)
	if err != nil {
		return err
	}
	if len(value) == 0 || len(value)%typ.Components() != 0 {
		return fmt.Errorf("bad %s value length %d", typ, len(value))
	}
	prog.uniforms[name] = append(prog.uniforms[name][:0], value...)
	return nil
}

func (c *Context) Clear(col [4]float32) {
	rgba := toRGBA(col)
	pix := c.fb.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = rgba.R, rgba.G, rgba.B, rgba.A
	}
	for i := range c.depth {
		c.depth[i] = 1
	}
}

func (c *Context) EnableDepthTest() { c.depthTest = true }

func (c *Context) DrawArrays(mode glrender.Topology, first, count int) {
	if c.current == nil {
		c.fail(errors.New("draw with no program in use"))
		return
	} else if c.bound < 0 {
		c.fail(errors.New("draw with no buffer bound"))
		return
	}
	vs, err := c.runVertexStage(first, count)
	if err != nil {
		c.fail(err)
		return
	}
	switch mode {
	case glrender.Triangles:
		for i := 0; i+2 < len(vs); i += 3 {
			c.drawTriangle(&vs[i], &vs[i+1], &vs[i+2])
		}
	case glrender.Lines:
		for i := 0; i+1 < len(vs); i += 2 {
			c.drawLine(&vs[i], &vs[i+1])
		}
	case glrender.Points:
		size := c.uniform1("u_Point_size", 1)
		for i := range vs {
			c.drawPoint(&vs[i], size)
		}
	default:
		c.fail(fmt.Errorf("unsupported topology %s", mode))
	}
}

func toRGBA(col [4]float32) color.RGBA {
	return color.RGBA{R: unorm8(col[0]), G: unorm8(col[1]), B: unorm8(col[2]), A: unorm8(col[3])}
}

func unorm8(f float32) uint8 {
	switch {
	case f <= 0 || f != f:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}
