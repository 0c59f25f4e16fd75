package glrender

// Topology is the primitive assembly mode of a draw call.
type Topology uint8

const (
	Points Topology = iota + 1
	Lines
	Triangles
)

func (t Topology) String() string {
	switch t {
	case Points:
		return "POINTS"
	case Lines:
		return "LINES"
	case Triangles:
		return "TRIANGLES"
	}
	return "Topology(?)"
}

// UniformType is the GLSL type of a uniform as set by [Context.Uniform].
type UniformType uint8

const (
	// Float is a single float, value[0].
	Float UniformType = iota + 1
	// Int is a single int, int32(value[0]).
	Int
	// FVec1 is an array of floats.
	FVec1
	// FVec3 is an array of vec3, 3 scalars per element.
	FVec3
	// FVec4 is an array of vec4, 4 scalars per element.
	FVec4
	// FMat4 is a column-major 4x4 matrix.
	FMat4
)

func (u UniformType) String() string {
	switch u {
	case Float:
		return "float"
	case Int:
		return "int"
	case FVec1:
		return "vec1"
	case FVec3:
		return "vec3"
	case FVec4:
		return "vec4"
	case FMat4:
		return "mat4"
	}
	return "UniformType(?)"
}

// Components returns the number of scalars of one element of the uniform type.
func (u UniformType) Components() int {
	switch u {
	case FVec3:
		return 3
	case FVec4:
		return 4
	case FMat4:
		return 16
	}
	return 1
}

// Buffer is a vertex buffer handle. Zero is never a valid buffer.
type Buffer uint32

// Program is a linked shader program handle. Zero is never a valid program.
type Program uint32

// Context is the graphics device the [Engine] draws with. It mirrors the
// small subset of OpenGL the engine needs. Methods that cannot fail right away
// record errors to be returned by Err, like glGetError does.
type Context interface {
	// CreateBuffer allocates a new vertex buffer.
	CreateBuffer() (Buffer, error)
	// CompileProgram compiles and links a vertex and fragment shader.
	CompileProgram(vertex, fragment string) (Program, error)
	// UseProgram makes p the program used by subsequent draws.
	UseProgram(p Program)
	// BufferData binds b as the current vertex buffer and uploads data to it.
	BufferData(b Buffer, data []float32)
	// VertexAttrib points the attribute name of program p into the current
	// buffer. size is in scalars, stride and offset are in bytes.
	VertexAttrib(p Program, name string, size, stride, offset int) error
	// Uniform sets the uniform name of program p.
	Uniform(p Program, name string, typ UniformType, value []float32) error
	// DrawArrays draws count vertices of the current buffer starting at first.
	DrawArrays(mode Topology, first, count int)
	// Clear clears the color buffer to color and resets the depth buffer.
	Clear(color [4]float32)
	// EnableDepthTest enables depth testing for subsequent draws.
	EnableDepthTest()
	// Err returns and clears the first error recorded by the context.
	Err() error
}
