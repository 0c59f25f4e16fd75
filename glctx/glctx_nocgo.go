//go:build tinygo || !cgo

package glctx

import (
	"errors"
	"image"

	"github.com/soypat/k3d/glrender"
)

var errNoCGO = errors.New("OpenGL rendering requires CGo and is not supported on TinyGo")

// InitHeadless is not supported without cgo.
func InitHeadless(width, height int) (terminate func(), err error) {
	return nil, errNoCGO
}

// Context is unusable without cgo: [New] always fails.
type Context struct {
	glrender.Context
}

// New returns an error when built without cgo.
func New() (*Context, error) {
	return nil, errNoCGO
}

func (c *Context) Delete() {}

func (c *Context) Viewport(width, height int) {}

func (c *Context) ReadImage(width, height int) (*image.RGBA, error) {
	return nil, errNoCGO
}
