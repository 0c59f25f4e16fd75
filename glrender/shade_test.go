package glrender

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

var white = ms3.Vec{X: 1, Y: 1, Z: 1}

func TestShadeSpecularHighlight(t *testing.T) {
	// Light at the camera, facing surface: full highlight replaces diffuse.
	light := ViewLight{Color: white, Intensity: 1}
	got := Shade(ms3.Vec{X: 1}, ms3.Vec{Z: 1}, ms3.Vec{Z: -5}, light, ms3.Vec{}, 0)
	if !equalFloats(got[:], []float32{1, 1, 1, 1}) {
		t.Error("want specular white, got", got)
	}
}

func TestShadeAmbientOnly(t *testing.T) {
	pos := ms3.Vec{Z: -1}
	light := ViewLight{Position: pos}
	got := Shade(ms3.Vec{X: 1, Y: .5}, ms3.Vec{Z: 1}, pos, light, white, 0.2)
	if !equalFloats(got[:], []float32{.2, .1, 0, 1}) {
		t.Error("want ambient only, got", got)
	}
}

func TestShadeDiffuseAttenuation(t *testing.T) {
	for _, scale := range []float32{1, 10} {
		pos := ms3.Vec{Z: -10 * scale}
		light := ViewLight{Position: ms3.Vec{X: 10 * scale}, Color: white, Intensity: 1}
		got := Shade(white, ms3.Vec{Z: 3}, pos, light, ms3.Vec{}, 0)
		d := math32.Sqrt(2) * 10 * scale
		att := math32.Min(1, 5/(1+0.1*d+0.01*d*d))
		want := math32.Sqrt(2) / 2 * att
		for i := 0; i < 3; i++ {
			if math32.Abs(got[i]-want) > 1e-4 {
				t.Errorf("scale %g: want %g, got %v", scale, want, got)
				break
			}
		}
	}
}

func TestShadeBackface(t *testing.T) {
	light := ViewLight{Position: ms3.Vec{Z: 10}, Color: ms3.Vec{}, Intensity: 1}
	got := Shade(white, ms3.Vec{Z: -1}, ms3.Vec{Z: -1}, light, ms3.Vec{}, 0)
	if got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Error("surface facing away from light should be dark", got)
	}
}
