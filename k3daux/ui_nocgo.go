//go:build tinygo || !cgo

package k3daux

import (
	"errors"

	"github.com/soypat/k3d"
)

func ui(s *k3d.Scene, cam *k3d.Camera, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
