package k3d

import "image/color"

// Material describes the surface appearance of a mesh.
type Material struct {
	// BaseColor is the RGBA surface color with components in 0..1.
	BaseColor [4]float32
}

// NewMaterial returns a material with an opaque base color.
func NewMaterial(r, g, b float32) Material {
	return Material{BaseColor: [4]float32{r, g, b, 1}}
}

// NewMaterialRGBA returns a material with the given base color and alpha.
func NewMaterialRGBA(r, g, b, a float32) Material {
	return Material{BaseColor: [4]float32{r, g, b, a}}
}

// MaterialFromColor returns a material whose base color is c.
func MaterialFromColor(c color.Color) Material {
	return Material{BaseColor: colorToFloats(c)}
}

// RGB returns the red, green and blue components of the base color.
func (m Material) RGB() [3]float32 {
	return [3]float32{m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]}
}

func colorToFloats(c color.Color) [4]float32 {
	// Non-alpha-premultiplied so translucent colors keep their hue.
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return [4]float32{
		float32(nc.R) / 255,
		float32(nc.G) / 255,
		float32(nc.B) / 255,
		float32(nc.A) / 255,
	}
}
