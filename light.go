package k3d

import "github.com/soypat/geometry/ms3"

// Light is implemented by all light kinds that can be added to a [Scene].
type Light interface {
	Object
	isLight()
}

// PointLight emits light in all directions from a position.
type PointLight struct {
	Position  ms3.Vec
	Color     [3]float32
	Intensity float32
}

// NewPointLight returns a point light at (x,y,z) of the given color and unit intensity.
func NewPointLight(x, y, z float32, color [3]float32) *PointLight {
	return &PointLight{
		Position:  ms3.Vec{X: x, Y: y, Z: z},
		Color:     color,
		Intensity: 1,
	}
}

// AmbientLight lights all surfaces uniformly regardless of orientation.
// A scene holds at most one.
type AmbientLight struct {
	Color     [3]float32
	Intensity float32
}

// NewAmbientLight returns an ambient light of the given color and intensity 0.2.
func NewAmbientLight(r, g, b float32) *AmbientLight {
	return &AmbientLight{
		Color:     [3]float32{r, g, b},
		Intensity: 0.2,
	}
}

// SpotLight is a cone of light. It is stored by scenes and selects the lit
// pipeline but its parameters are not used in shading.
type SpotLight struct {
	Position  ms3.Vec
	Direction ms3.Vec
	Color     [3]float32
	Intensity float32
	// Angle is the cone half-angle in degrees.
	Angle float32
}

// AreaLight is a rectangular emitter. Like [SpotLight] it is not shaded.
type AreaLight struct {
	Position      ms3.Vec
	Normal        ms3.Vec
	Width, Height float32
	Color         [3]float32
	Intensity     float32
}

// SunLight is a directional light infinitely far away. Like [SpotLight] it is not shaded.
type SunLight struct {
	Direction ms3.Vec
	Color     [3]float32
	Intensity float32
}

func (*PointLight) sceneObject()   {}
func (*AmbientLight) sceneObject() {}
func (*SpotLight) sceneObject()    {}
func (*AreaLight) sceneObject()    {}
func (*SunLight) sceneObject()     {}

func (*PointLight) isLight()   {}
func (*AmbientLight) isLight() {}
func (*SpotLight) isLight()    {}
func (*AreaLight) isLight()    {}
func (*SunLight) isLight()     {}
