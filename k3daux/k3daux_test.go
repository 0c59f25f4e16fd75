package k3daux

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/k3d"
)

func TestLoadUIConfig(t *testing.T) {
	const doc = `
width = 1024
title = "viewer"
controller = "orbit"
center = [0.0, 1.0, 0.0]
turn_speed = 0.1
`
	cfg, err := LoadUIConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1024 || cfg.Height != 600 {
		t.Errorf("want 1024x600 window, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Title != "viewer" || cfg.Controller != ControllerOrbit || cfg.FPS != 60 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Center != [3]float32{0, 1, 0} {
		t.Error("bad center", cfg.Center)
	}
	if cfg.TurnSpeed != 0.1 || cfg.DollySpeed != k3d.DefaultDollySpeed || cfg.OrbitSpeed != k3d.DefaultOrbitSpeed {
		t.Error("bad sensitivities", cfg.TurnSpeed, cfg.DollySpeed, cfg.OrbitSpeed)
	}
}

func TestLoadUIConfigInvalid(t *testing.T) {
	for _, doc := range []string{
		`widht = 100`,
		`controller = "trackball"`,
		`fps = -1`,
		`width = "big"`,
		`dolly_speed = -1.0`,
	} {
		_, err := LoadUIConfig(strings.NewReader(doc))
		if err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestNewController(t *testing.T) {
	cam := k3d.NewPerspectiveCamera(45, 1, 0.1, 100)
	cam.Eye = ms3.Vec{Z: 5}
	cam.LookAt(ms3.Vec{})
	ctrl, err := NewController(cam, UIConfig{Controller: ControllerOrbit, OrbitSpeed: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	oc, ok := ctrl.(*k3d.OrbitControl)
	if !ok {
		t.Fatalf("want orbit control, got %T", ctrl)
	}
	if oc.Speed != 0.01 || oc.Radius() != 5 {
		t.Error("bad orbit control", oc.Speed, oc.Radius())
	}
	ctrl, err = NewController(cam, UIConfig{})
	if err != nil {
		t.Fatal(err)
	}
	ec, ok := ctrl.(*k3d.EasyCam)
	if !ok {
		t.Fatalf("want easycam by default, got %T", ctrl)
	}
	if ec.TurnSpeed != k3d.DefaultTurnSpeed {
		t.Error("bad turn speed", ec.TurnSpeed)
	}
	_, err = NewController(cam, UIConfig{Controller: "fly"})
	if err == nil {
		t.Error("expected error for unknown controller")
	}
}

func TestUINilScene(t *testing.T) {
	err := UI(nil, nil, UIConfig{Context: context.Background()})
	if err == nil {
		t.Error("expected error for nil scene")
	}
}

func testCamera() *k3d.Camera {
	cam := k3d.NewPerspectiveCamera(45, 1, 0.1, 100)
	cam.Eye = ms3.Vec{Z: 5}
	cam.LookAt(ms3.Vec{})
	return cam
}

func TestRenderPNG(t *testing.T) {
	g, err := k3d.BoxGeometry(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	s := k3d.NewScene(nil)
	err = s.Add(k3d.NewMesh(g, k3d.NewMaterial(0, 0, 1), k3d.ShadeFlat))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err = RenderPNG(&buf, s, testCamera(), RenderConfig{Width: 48, Height: 48, Supersample: 2})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 48, 48) {
		t.Fatal("bad bounds", img.Bounds())
	}
	r, g2, b, _ := img.At(24, 24).RGBA()
	if r>>8 > 10 || g2>>8 > 10 || b>>8 < 245 {
		t.Error("want blue center, got", img.At(24, 24))
	}
}

func TestRenderCaption(t *testing.T) {
	s := k3d.NewScene(nil)
	img, err := RenderImage(s, testCamera(), RenderConfig{Width: 64, Height: 64, Caption: "k3d"})
	if err != nil {
		t.Fatal(err)
	}
	var dark int
	for y := 40; y < 64; y++ {
		for x := 0; x < 40; x++ {
			if c := img.RGBAAt(x, y); c.R < 128 && c.G < 128 && c.B < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("caption not drawn")
	}
	if got := img.RGBAAt(60, 4); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("caption leaked outside lower left corner", got)
	}
}

func TestRenderImageInvalid(t *testing.T) {
	s := k3d.NewScene(nil)
	if _, err := RenderImage(s, testCamera(), RenderConfig{Width: 0, Height: 10}); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := RenderImage(nil, testCamera(), RenderConfig{Width: 10, Height: 10}); err == nil {
		t.Error("expected error for nil scene")
	}
}

func TestInterpColor(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	if got := InterpColor(red, blue, 0); got != red {
		t.Error("t=0 want red, got", got)
	}
	if got := InterpColor(red, blue, 1); got != blue {
		t.Error("t=1 want blue, got", got)
	}
	// Red to blue goes the short way through magenta.
	if got := InterpColor(red, blue, 0.5); got != (color.RGBA{R: 255, B: 255, A: 255}) {
		t.Error("t=0.5 want magenta, got", got)
	}
	if got := InterpColor(red, blue, 7); got != blue {
		t.Error("t is not clamped, got", got)
	}
}

func TestPalette(t *testing.T) {
	mats := Palette(3, color.White, color.Black)
	if len(mats) != 3 {
		t.Fatal("want 3 materials, got", len(mats))
	}
	if mats[0].BaseColor != [4]float32{1, 1, 1, 1} || mats[2].BaseColor != [4]float32{0, 0, 0, 1} {
		t.Error("bad palette ends", mats[0], mats[2])
	}
	if Palette(0, color.White, color.Black) != nil {
		t.Error("want nil palette for n=0")
	}
	green := HueMaterial(1.0 / 3).BaseColor
	if green[0] > 1e-4 || green[1] != 1 || green[2] > 1e-4 {
		t.Error("want green, got", green)
	}
}
