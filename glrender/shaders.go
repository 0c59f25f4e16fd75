package glrender

import (
	"embed"
	"strings"
)

//go:embed shaders/*.glsl
var shaderFS embed.FS

// Pipeline identifies one of the shader programs compiled by the [Engine].
type Pipeline uint8

const (
	// PipelineWireframe draws points and lines with a uniform color.
	PipelineWireframe Pipeline = iota + 1
	// PipelineUnlit draws triangles with their vertex colors.
	PipelineUnlit
	// PipelineLit draws triangles shaded by the scene lights.
	PipelineLit
	numPipelines
)

// pipelineTag is the comment prefix used to tag shader sources with their pipeline.
const pipelineTag = "// k3d:"

var pipelineNames = [numPipelines]string{
	PipelineWireframe: "wireframe",
	PipelineUnlit:     "unlit",
	PipelineLit:       "lit",
}

func (p Pipeline) String() string {
	if p == 0 || p >= numPipelines {
		return "Pipeline(?)"
	}
	return pipelineNames[p]
}

// ShaderSource returns the GLSL vertex and fragment shader sources of pipeline p.
func ShaderSource(p Pipeline) (vertex, fragment string, err error) {
	name := p.String()
	v, err := shaderFS.ReadFile("shaders/" + name + ".vert.glsl")
	if err != nil {
		return "", "", err
	}
	f, err := shaderFS.ReadFile("shaders/" + name + ".frag.glsl")
	if err != nil {
		return "", "", err
	}
	return string(v), string(f), nil
}

// PipelineOf returns the pipeline a shader source returned by [ShaderSource]
// belongs to by reading its "// k3d:" tag line.
func PipelineOf(source string) (Pipeline, bool) {
	for _, line := range strings.Split(source, "\n") {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), pipelineTag)
		if !ok {
			continue
		}
		for p := PipelineWireframe; p < numPipelines; p++ {
			if pipelineNames[p] == name {
				return p, true
			}
		}
		return 0, false
	}
	return 0, false
}

// Attribute names of the interleaved vertex data in shader sources.
const (
	attribPosition = "a_Vertex_position"
	attribColor    = "a_Color"
	attribNormal   = "a_Vertex_normal"
)

var layoutAttribs = [...]string{attribPosition, attribColor, attribNormal}
