// Package glrender draws k3d scenes through a [Context]. It selects between
// a wireframe, an unlit and a lit shader pipeline for every mesh and
// implements the lighting equation used by the lit pipeline in [Shade].
package glrender

import (
	"log/slog"

	"github.com/soypat/k3d/internal/logging"
)

// MaxLights is the maximum number of point lights uploaded to the lit pipeline.
const MaxLights = 8

var logger logging.Holder

// SetLogger sets the logger used by the package. Passing nil silences logging, which is the default.
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Logger returns the logger used by the package.
func Logger() *slog.Logger { return logger.Logger() }
