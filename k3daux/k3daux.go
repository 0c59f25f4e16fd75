// Package k3daux provides helpers to get a k3d scene on screen or into a
// PNG file quickly. Applications with specific needs should drive
// [glrender.Engine] directly.
package k3daux

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/k3d"
	"github.com/soypat/k3d/glctx"
	"github.com/soypat/k3d/glrender"
	"github.com/soypat/k3d/glrender/swgl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Controller turns pointer input into camera motion.
// It is implemented by [k3d.EasyCam] and [k3d.OrbitControl].
type Controller interface {
	Press(x, y float32)
	Move(x, y float32)
	Release()
	Scroll(delta float32)
}

var (
	_ Controller = (*k3d.EasyCam)(nil)
	_ Controller = (*k3d.OrbitControl)(nil)
)

// NewController returns the camera controller selected by cfg.Controller
// with the sensitivities of cfg.
func NewController(cam *k3d.Camera, cfg UIConfig) (Controller, error) {
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Controller {
	case ControllerOrbit:
		center := ms3.Vec{X: cfg.Center[0], Y: cfg.Center[1], Z: cfg.Center[2]}
		oc := k3d.NewOrbitControl(cam, center)
		oc.Speed = cfg.OrbitSpeed
		oc.DollySpeed = cfg.DollySpeed
		return oc, nil
	default:
		ec := k3d.NewEasyCam(cam)
		ec.TurnSpeed = cfg.TurnSpeed
		ec.DollySpeed = cfg.DollySpeed
		return ec, nil
	}
}

// UI opens a window and draws the scene through cam until the window is
// closed or cfg.Context is done. Pointer input moves the camera through the
// controller selected by cfg. UI must be called from the main OS thread.
func UI(s *k3d.Scene, cam *k3d.Camera, cfg UIConfig) error {
	if s == nil || cam == nil {
		return errors.New("UI requires scene and camera")
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	return ui(s, cam, cfg)
}

// RenderConfig configures [RenderPNG].
type RenderConfig struct {
	Width, Height int
	// Supersample renders at Supersample times the output resolution and
	// downscales for antialiasing. Zero means no supersampling. Ignored with UseGPU.
	Supersample int
	// UseGPU renders with OpenGL through a hidden window instead of the
	// software rasterizer. Requires cgo.
	UseGPU bool
	// Caption is drawn on the lower left corner of the image if not empty.
	Caption      string
	CaptionColor color.Color
	// Logger receives timing information. If nil nothing is logged.
	Logger *slog.Logger
}

// RenderPNG draws a single frame of the scene seen through cam and writes it
// to w as a PNG image.
func RenderPNG(w io.Writer, s *k3d.Scene, cam *k3d.Camera, cfg RenderConfig) error {
	img, err := RenderImage(s, cam, cfg)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage draws a single frame of the scene seen through cam.
func RenderImage(s *k3d.Scene, cam *k3d.Camera, cfg RenderConfig) (*image.RGBA, error) {
	if s == nil || cam == nil {
		return nil, errors.New("RenderImage requires scene and camera")
	} else if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	log := cfg.Logger
	if log == nil {
		log = glrender.Logger()
	}
	watch := stopwatch()
	var (
		img   *image.RGBA
		stats glrender.FrameStats
		err   error
	)
	if cfg.UseGPU {
		img, stats, err = renderGPU(s, cam, cfg.Width, cfg.Height)
	} else {
		img, stats, err = renderCPU(s, cam, cfg.Width, cfg.Height, max(cfg.Supersample, 1))
	}
	if err != nil {
		return nil, err
	}
	log.Info("rendered frame", slog.Bool("gpu", cfg.UseGPU), slog.Int("draws", stats.DrawCalls),
		slog.Int("vertices", stats.Vertices), slog.Duration("elapsed", watch()))
	if cfg.Caption != "" {
		col := cfg.CaptionColor
		if col == nil {
			col = color.Black
		}
		err = drawCaption(img, cfg.Caption, col)
		if err != nil {
			return nil, err
		}
	}
	return img, nil
}

func renderCPU(s *k3d.Scene, cam *k3d.Camera, width, height, supersample int) (*image.RGBA, glrender.FrameStats, error) {
	ctx, err := swgl.New(width, height, supersample)
	if err != nil {
		return nil, glrender.FrameStats{}, err
	}
	engine, err := glrender.NewEngine(ctx)
	if err != nil {
		return nil, glrender.FrameStats{}, err
	}
	stats, err := engine.Render(s, cam)
	if err != nil {
		return nil, stats, err
	}
	return ctx.Image(), stats, nil
}

func renderGPU(s *k3d.Scene, cam *k3d.Camera, width, height int) (*image.RGBA, glrender.FrameStats, error) {
	terminate, err := glctx.InitHeadless(width, height)
	if err != nil {
		return nil, glrender.FrameStats{}, err
	}
	defer terminate()
	ctx, err := glctx.New()
	if err != nil {
		return nil, glrender.FrameStats{}, err
	}
	defer ctx.Delete()
	ctx.Viewport(width, height)
	engine, err := glrender.NewEngine(ctx)
	if err != nil {
		return nil, glrender.FrameStats{}, err
	}
	stats, err := engine.Render(s, cam)
	if err != nil {
		return nil, stats, err
	}
	img, err := ctx.ReadImage(width, height)
	return img, stats, err
}

const captionSize = 14

func drawCaption(img draw.Image, text string, col color.Color) error {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: captionSize, Hinting: font.HintingFull})
	defer face.Close()
	bb := img.Bounds()
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(bb.Min.X+captionSize/2, bb.Max.Y-captionSize/2),
	}
	d.DrawString(text)
	return nil
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
