package k3daux

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/k3d"
)

// Controller names accepted by [UIConfig].
const (
	ControllerEasyCam = "easycam"
	ControllerOrbit   = "orbit"
)

// UIConfig configures the interactive viewer started by [UI].
// It may be loaded from a TOML document with [LoadUIConfig].
type UIConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	// FPS is the maximum number of frames drawn per second.
	FPS int `toml:"fps"`
	// Controller selects how mouse input moves the camera: "easycam" or "orbit".
	Controller string `toml:"controller"`
	// Center is the orbit center when Controller is "orbit".
	Center [3]float32 `toml:"center"`
	// Camera sensitivities. Zero values select package defaults.
	TurnSpeed  float32 `toml:"turn_speed"`
	DollySpeed float32 `toml:"dolly_speed"`
	OrbitSpeed float32 `toml:"orbit_speed"`
	// Context cancels the render loop when done.
	Context context.Context `toml:"-"`
}

// LoadUIConfig decodes a TOML document into a UIConfig. Unknown keys are an error.
// Fields missing from the document take their default values.
func LoadUIConfig(r io.Reader) (UIConfig, error) {
	var cfg UIConfig
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return UIConfig{}, fmt.Errorf("ui config: %s", strict.String())
		}
		return UIConfig{}, fmt.Errorf("ui config: %w", err)
	}
	cfg.defaults()
	return cfg, cfg.Validate()
}

func (cfg *UIConfig) defaults() {
	if cfg.Width == 0 {
		cfg.Width = 800
	}
	if cfg.Height == 0 {
		cfg.Height = 600
	}
	if cfg.Title == "" {
		cfg.Title = "k3d"
	}
	if cfg.FPS == 0 {
		cfg.FPS = 60
	}
	if cfg.Controller == "" {
		cfg.Controller = ControllerEasyCam
	}
	if cfg.TurnSpeed == 0 {
		cfg.TurnSpeed = k3d.DefaultTurnSpeed
	}
	if cfg.DollySpeed == 0 {
		cfg.DollySpeed = k3d.DefaultDollySpeed
	}
	if cfg.OrbitSpeed == 0 {
		cfg.OrbitSpeed = k3d.DefaultOrbitSpeed
	}
}

// Validate reports the first invalid field of cfg.
func (cfg *UIConfig) Validate() error {
	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	case cfg.FPS <= 0:
		return fmt.Errorf("invalid fps %d", cfg.FPS)
	case cfg.Controller != ControllerEasyCam && cfg.Controller != ControllerOrbit:
		return fmt.Errorf("unknown controller %q", cfg.Controller)
	case cfg.TurnSpeed < 0 || cfg.DollySpeed < 0 || cfg.OrbitSpeed < 0:
		return errors.New("negative camera sensitivity")
	}
	return nil
}
