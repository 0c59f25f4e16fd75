package glrender

import (
	"errors"
	"fmt"
	"strings"
)

// Call is a single [Context] method call captured by a [Recorder].
type Call struct {
	// Method is the name of the Context method called.
	Method   string
	Program  Program
	Buffer   Buffer
	Name     string
	Uniform  UniformType
	Topology Topology
	// Args holds integer arguments: size, stride and offset for
	// VertexAttrib and first and count for DrawArrays.
	Args [3]int
	// Data is a copy of uploaded buffer data, uniform values or clear color.
	Data []float32
}

func (c Call) String() string {
	var b strings.Builder
	b.WriteString(c.Method)
	switch c.Method {
	case "VertexAttrib":
		fmt.Fprintf(&b, "(%d, %q, %d, %d, %d)", c.Program, c.Name, c.Args[0], c.Args[1], c.Args[2])
	case "Uniform":
		fmt.Fprintf(&b, "(%d, %q, %s, %v)", c.Program, c.Name, c.Uniform, c.Data)
	case "DrawArrays":
		fmt.Fprintf(&b, "(%s, %d, %d)", c.Topology, c.Args[0], c.Args[1])
	case "UseProgram", "CompileProgram":
		fmt.Fprintf(&b, "(%d)", c.Program)
	case "BufferData":
		fmt.Fprintf(&b, "(%d, len=%d)", c.Buffer, len(c.Data))
	}
	return b.String()
}

// Recorder is a [Context] that performs no drawing and records every call
// made to it. It checks that uniforms and attributes are set on the program in use.
type Recorder struct {
	Calls    []Call
	programs []Pipeline
	buffers  int
	current  Program
	err      error
}

var _ Context = (*Recorder)(nil)

// Reset discards recorded calls. Compiled programs and buffers remain valid.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.err = nil
}

// Pipeline returns the pipeline whose sources were used to compile program p.
func (r *Recorder) Pipeline(p Program) Pipeline {
	if p == 0 || int(p) > len(r.programs) {
		return 0
	}
	return r.programs[p-1]
}

// Find returns the recorded calls to method. If name is not empty only calls with that name are returned.
func (r *Recorder) Find(method, name string) []Call {
	var calls []Call
	for _, c := range r.Calls {
		if c.Method == method && (name == "" || c.Name == name) {
			calls = append(calls, c)
		}
	}
	return calls
}

func (r *Recorder) record(c Call) { r.Calls = append(r.Calls, c) }

func (r *Recorder) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Recorder) CreateBuffer() (Buffer, error) {
	r.buffers++
	b := Buffer(r.buffers)
	r.record(Call{Method: "CreateBuffer", Buffer: b})
	return b, nil
}

func (r *Recorder) CompileProgram(vertex, fragment string) (Program, error) {
	pv, ok := PipelineOf(vertex)
	pf, okf := PipelineOf(fragment)
	if !ok || !okf || pv != pf {
		return 0, errors.New("shader sources lack matching pipeline tags")
	}
	r.programs = append(r.programs, pv)
	p := Program(len(r.programs))
	r.record(Call{Method: "CompileProgram", Program: p})
	return p, nil
}

func (r *Recorder) UseProgram(p Program) {
	if p == 0 || int(p) > len(r.programs) {
		r.fail(fmt.Errorf("use of invalid program %d", p))
	}
	r.current = p
	r.record(Call{Method: "UseProgram", Program: p})
}

func (r *Recorder) BufferData(b Buffer, data []float32) {
	if b == 0 || int(b) > r.buffers {
		r.fail(fmt.Errorf("upload to invalid buffer %d", b))
	}
	r.record(Call{Method: "BufferData", Buffer: b, Data: append([]float32(nil), data...)})
}

func (r *Recorder) VertexAttrib(p Program, name string, size, stride, offset int) error {
	if p != r.current {
		return fmt.Errorf("attribute %s set on program %d not in use", name, p)
	}
	r.record(Call{Method: "VertexAttrib", Program: p, Name: name, Args: [3]int{size, stride, offset}})
	return nil
}

func (r *Recorder) Uniform(p Program, name string, typ UniformType, value []float32) error {
	if p != r.current {
		return fmt.Errorf("uniform %s set on program %d not in use", name, p)
	}
	n := typ.Components()
	if len(value) == 0 || len(value)%n != 0 || (typ != FVec1 && typ != FVec3 && typ != FVec4 && len(value) != n) {
		return fmt.Errorf("uniform %s: bad %s value length %d", name, typ, len(value))
	}
	r.record(Call{Method: "Uniform", Program: p, Name: name, Uniform: typ, Data: append([]float32(nil), value...)})
	return nil
}

func (r *Recorder) DrawArrays(mode Topology, first, count int) {
	if r.current == 0 {
		r.fail(errors.New("draw without program"))
	}
	r.record(Call{Method: "DrawArrays", Program: r.current, Topology: mode, Args: [3]int{first, count}})
}

func (r *Recorder) Clear(color [4]float32) {
	r.record(Call{Method: "Clear", Data: color[:]})
}

func (r *Recorder) EnableDepthTest() {
	r.record(Call{Method: "EnableDepthTest"})
}

func (r *Recorder) Err() error {
	err := r.err
	r.err = nil
	return err
}
