// Package kmath implements the vector, homogeneous point and 4x4 matrix
// operations used by k3d.
//
// Three-component vectors are [ms3.Vec] values; addition, subtraction,
// scaling and dot products are the ms3 functions ([ms3.Add], [ms3.Sub],
// [ms3.Scale], [ms3.Dot]). This package adds the operations with k3d
// specific contracts such as [Normalize] and the column-major [Mat4].
package kmath

import (
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/soypat/k3d/internal/logging"
)

const (
	deg2rad = math32.Pi / 180
	rad2deg = 180 / math32.Pi
	// normTol is the length under which a vector is considered to have no direction.
	normTol = 1e-7
)

// Radians converts an angle in degrees to radians.
func Radians(degrees float32) float32 { return degrees * deg2rad }

// Degrees converts an angle in radians to degrees.
func Degrees(radians float32) float32 { return radians * rad2deg }

var logger logging.Holder

// SetLogger sets the logger used to report degenerate inputs such as invalid
// projection parameters. By default kmath produces no log output.
// Passing nil restores the silent default.
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Logger returns the logger currently in use by kmath.
func Logger() *slog.Logger { return logger.Logger() }
