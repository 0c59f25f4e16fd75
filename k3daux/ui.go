//go:build !tinygo && cgo

package k3daux

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/k3d"
	"github.com/soypat/k3d/glctx"
	"github.com/soypat/k3d/glrender"
)

func ui(s *k3d.Scene, cam *k3d.Camera, cfg UIConfig) error {
	ctrl, err := NewController(cam, cfg)
	if err != nil {
		return err
	}
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer term()
	glc, err := glctx.New()
	if err != nil {
		return err
	}
	defer glc.Delete()
	engine, err := glrender.NewEngine(glc)
	if err != nil {
		return err
	}
	log := glrender.Logger()

	refresh := true
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		ctrl.Move(float32(xpos), float32(ypos))
		refresh = true
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		ctrl.Scroll(float32(-yoff) * 100)
		refresh = true
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			x, y := w.GetCursorPos()
			ctrl.Press(float32(x), float32(y))
		case glfw.Release:
			ctrl.Release()
		}
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		glc.Viewport(width, height)
		refresh = true
	})

	ctx := cfg.Context
	frame := time.Second / time.Duration(cfg.FPS)
	fbw, fbh := window.GetFramebufferSize()
	glc.Viewport(fbw, fbh)
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		if refresh {
			refresh = false
			stats, err := engine.Render(s, cam)
			if err != nil {
				return err
			}
			window.SwapBuffers()
			log.Debug("ui frame", "draws", stats.DrawCalls, "camera", cam.String())
		}
		time.Sleep(frame)
		glfw.PollEvents()
	}
	return nil
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, errors.Join(errors.New("initializing OpenGL"), err)
	}
	return window, glfw.Terminate, nil
}
