package glrender

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/k3d/kmath"
)

// shininess is the specular exponent of the lit pipeline.
const shininess = 128

// ViewLight is a point light with its position in view space.
type ViewLight struct {
	Position  ms3.Vec
	Color     ms3.Vec
	Intensity float32
}

// Shade evaluates the lighting equation of the lit pipeline for a fragment
// of color col with normal n at view space position pos, lit by light and an
// ambient light of color ambColor and intensity ambIntensity. n need not be normalized.
// The returned color has alpha 1 and is not clamped.
func Shade(col, n, pos ms3.Vec, light ViewLight, ambColor ms3.Vec, ambIntensity float32) [4]float32 {
	ambient := ms3.Scale(ambIntensity, ms3.MulElem(ambColor, col))

	toLight, _ := kmath.Normalize(ms3.Sub(light.Position, pos))
	normal, _ := kmath.Normalize(n)
	cosDiffuse := ms1.Clamp(ms3.Dot(toLight, normal), 0, 1)
	diffuse := ms3.Scale(cosDiffuse*light.Intensity, col)

	reflection := ms3.Sub(ms3.Scale(2*ms3.Dot(normal, toLight), normal), toLight)
	toCamera, _ := kmath.Normalize(ms3.Scale(-1, pos))
	cosSpecular := ms1.Clamp(ms3.Dot(reflection, toCamera), 0, 1)
	cosSpecular = math32.Pow(cosSpecular, shininess)
	var specular ms3.Vec
	if cosSpecular > 0 {
		specular = ms3.Scale(cosSpecular, light.Color)
		diffuse = ms3.Scale(1-cosSpecular, diffuse)
	}

	d := ms3.Norm(ms3.Sub(light.Position, pos))
	attenuation := ms1.Clamp(5/(1+0.1*d+0.01*d*d), 0, 1)
	c := ms3.Scale(attenuation, ms3.Add(diffuse, ms3.Add(specular, ambient)))
	return [4]float32{c.X, c.Y, c.Z, 1}
}
