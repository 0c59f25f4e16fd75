//go:build !tinygo && cgo

// Package glctx implements [glrender.Context] on OpenGL 4.6 core.
// All methods must be called from the goroutine that owns the current GL
// context, which is normally locked to the main OS thread.
package glctx

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/k3d/glrender"
)

// InitHeadless creates a hidden window of the given size with a current
// OpenGL 4.6 context so that a [Context] can be created without a visible
// window. The returned function terminates GLFW and must be called when done.
func InitHeadless(width, height int) (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "k3d",
		Version: [2]int{4, 6},
		Width:   width,
		Height:  height,
	})
	return terminate, err
}

type program struct {
	prog     glgl.Program
	uniforms map[string]int32
	attribs  map[string]int32
}

// Context draws with the OpenGL context current at the time of its creation.
type Context struct {
	vao      uint32
	buffers  []uint32
	programs []program
	// Attribute arrays enabled since the last program switch.
	enabled []uint32
}

var _ glrender.Context = (*Context)(nil)

// New returns a Context for the current OpenGL context. gl.Init must have been called.
func New() (*Context, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return nil, glErrOrMessage("creating vertex array object")
	}
	c := &Context{vao: vao}
	gl.BindVertexArray(vao)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	if err := glgl.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete releases the GL objects owned by the context.
func (c *Context) Delete() {
	for i := range c.programs {
		c.programs[i].prog.Delete()
	}
	if len(c.buffers) > 0 {
		gl.DeleteBuffers(int32(len(c.buffers)), &c.buffers[0])
	}
	gl.DeleteVertexArrays(1, &c.vao)
	c.programs, c.buffers, c.vao = nil, nil, 0
}

// Viewport sets the drawing area to the window region of width x height pixels.
func (c *Context) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (c *Context) CreateBuffer() (glrender.Buffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, glErrOrMessage("creating vertex buffer got zero id")
	}
	c.buffers = append(c.buffers, id)
	return glrender.Buffer(len(c.buffers)), nil
}

func (c *Context) CompileProgram(vertex, fragment string) (glrender.Program, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertex + "\x00",
		Fragment: fragment + "\x00",
	})
	if err != nil {
		return 0, err
	}
	c.programs = append(c.programs, program{
		prog:     prog,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	})
	return glrender.Program(len(c.programs)), nil
}

func (c *Context) program(p glrender.Program) (*program, error) {
	if p == 0 || int(p) > len(c.programs) {
		return nil, fmt.Errorf("invalid program %d", p)
	}
	return &c.programs[p-1], nil
}

func (c *Context) UseProgram(p glrender.Program) {
	for _, loc := range c.enabled {
		gl.DisableVertexAttribArray(loc)
	}
	c.enabled = c.enabled[:0]
	prog, err := c.program(p)
	if err != nil {
		gl.UseProgram(0)
		return
	}
	prog.prog.Bind()
}

func (c *Context) BufferData(b glrender.Buffer, data []float32) {
	if b == 0 || int(b) > len(c.buffers) {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, c.buffers[b-1])
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STREAM_DRAW)
}

func (c *Context) VertexAttrib(p glrender.Program, name string, size, stride, offset int) error {
	prog, err := c.program(p)
	if err != nil {
		return err
	}
	loc, ok := prog.attribs[name]
	if !ok {
		loc = gl.GetAttribLocation(prog.prog.ID(), gl.Str(name+"\x00"))
		prog.attribs[name] = loc
	}
	if loc < 0 {
		return nil // Unused by the program.
	}
	gl.EnableVertexAttribArray(uint32(loc))
	c.enabled = append(c.enabled, uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(size), gl.FLOAT, false, int32(stride), gl.PtrOffset(offset))
	return nil
}

func (c *Context) Uniform(p glrender.Program, name string, typ glrender.UniformType, value []float32) error {
	prog, err := c.program(p)
	if err != nil {
		return err
	}
	n := typ.Components()
	if len(value) == 0 || len(value)%n != 0 {
		return fmt.Errorf("bad %s value length %d", typ, len(value))
	}
	loc, ok := prog.uniforms[name]
	if !ok {
		loc = gl.GetUniformLocation(prog.prog.ID(), gl.Str(name+"\x00"))
		prog.uniforms[name] = loc
	}
	if loc < 0 {
		return nil // Optimized out or not declared.
	}
	count := int32(len(value) / n)
	ptr := &value[0]
	switch typ {
	case glrender.Float:
		gl.Uniform1f(loc, value[0])
	case glrender.Int:
		gl.Uniform1i(loc, int32(value[0]))
	case glrender.FVec1:
		gl.Uniform1fv(loc, count, ptr)
	case glrender.FVec3:
		gl.Uniform3fv(loc, count, ptr)
	case glrender.FVec4:
		gl.Uniform4fv(loc, count, ptr)
	case glrender.FMat4:
		gl.UniformMatrix4fv(loc, count, false, ptr)
	default:
		return fmt.Errorf("unsupported uniform type %s", typ)
	}
	return nil
}

func (c *Context) DrawArrays(mode glrender.Topology, first, count int) {
	var glmode uint32
	switch mode {
	case glrender.Points:
		glmode = gl.POINTS
	case glrender.Lines:
		glmode = gl.LINES
	case glrender.Triangles:
		glmode = gl.TRIANGLES
	default:
		return
	}
	gl.DrawArrays(glmode, int32(first), int32(count))
}

func (c *Context) Clear(color [4]float32) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (c *Context) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

func (c *Context) Err() error { return glgl.Err() }

// ReadImage reads back the lower-left width x height pixels of the
// framebuffer into an image with the top row first.
func (c *Context) ReadImage(width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	if err := glgl.Err(); err != nil {
		return nil, fmt.Errorf("reading framebuffer: %w", err)
	}
	// GL rows start at the bottom.
	stride := img.Stride
	tmp := make([]byte, stride)
	for y := 0; y < height/2; y++ {
		top := img.Pix[y*stride : (y+1)*stride]
		bot := img.Pix[(height-1-y)*stride : (height-y)*stride]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
	return img, nil
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}
