package k3d

import (
	"fmt"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/k3d/kmath"
)

var worldUp = ms3.Vec{Y: 1}

// Camera is a UVN camera. Its orientation is the orthonormal basis u (right),
// v (up) and n (pointing backwards, away from what is looked at). The view
// matrix is assembled directly from the basis and the eye position.
//
// Eye may be modified directly. The view matrix is updated on the next call
// to a method that moves or orients the camera.
type Camera struct {
	Eye ms3.Vec

	u, v, n ms3.Vec
	// t is the eye position expressed in camera coordinates, negated.
	t    ms3.Vec
	view kmath.Mat4
	proj kmath.Mat4
}

// NewPerspectiveCamera returns a camera at the origin looking down -z with a
// perspective projection. fovy is the vertical field of view in degrees.
func NewPerspectiveCamera(fovy, aspect, near, far float32) *Camera {
	return NewCamera(kmath.Perspective(fovy, aspect, near, far))
}

// NewCamera returns a camera at the origin looking down -z with the given projection matrix.
func NewCamera(projection kmath.Mat4) *Camera {
	c := &Camera{
		u:    ms3.Vec{X: 1},
		v:    ms3.Vec{Y: 1},
		n:    ms3.Vec{Z: 1},
		proj: projection,
	}
	c.updateT()
	c.updateView()
	return c
}

// U returns the camera's right axis.
func (c *Camera) U() ms3.Vec { return c.u }

// V returns the camera's up axis.
func (c *Camera) V() ms3.Vec { return c.v }

// N returns the camera's backward axis.
func (c *Camera) N() ms3.Vec { return c.n }

// T returns the translation components of the view matrix.
func (c *Camera) T() ms3.Vec { return c.t }

// View returns the view matrix which transforms world coordinates to camera coordinates.
func (c *Camera) View() kmath.Mat4 { return c.view }

// Projection returns the projection matrix.
func (c *Camera) Projection() kmath.Mat4 { return c.proj }

// SetProjection replaces the projection matrix of the camera.
func (c *Camera) SetProjection(p kmath.Mat4) { c.proj = p }

// LookAt orients the camera so that it looks at center from Eye keeping the
// world y axis up. If Eye and center coincide the orientation is unchanged.
func (c *Camera) LookAt(center ms3.Vec) {
	n, ok := kmath.Normalize(ms3.Sub(c.Eye, center))
	if ok {
		up := worldUp
		u, ok := kmath.Normalize(kmath.Cross(up, n))
		if !ok {
			// Looking straight up or down.
			up = ms3.Vec{Z: 1}
			if n.Y > 0 {
				up.Z = -1
			}
			u, _ = kmath.Normalize(kmath.Cross(up, n))
		}
		c.n = n
		c.u = u
		c.v, _ = kmath.Normalize(kmath.Cross(n, u))
	}
	c.updateT()
	c.updateView()
}

// Truck moves the camera along its right axis by distance.
func (c *Camera) Truck(distance float32) {
	c.Eye = ms3.Add(c.Eye, ms3.Scale(distance, c.u))
	c.updateT()
	c.updateView()
}

// Dolly moves the camera along its backward axis by distance. Positive
// distances move the camera away from what it looks at.
func (c *Camera) Dolly(distance float32) {
	c.Eye = ms3.Add(c.Eye, ms3.Scale(distance, c.n))
	c.updateT()
	c.updateView()
}

// Pan rotates the camera about its up axis by angle degrees.
func (c *Camera) Pan(angle float32) {
	rot := kmath.Rotation(angle, c.v.X, c.v.Y, c.v.Z)
	c.u = kmath.MulVec3(&rot, c.u)
	c.n = kmath.MulVec3(&rot, c.n)
	c.orthonormalize()
	c.t.X = -ms3.Dot(c.u, c.Eye)
	c.t.Z = -ms3.Dot(c.n, c.Eye)
	c.updateView()
}

// Tilt rotates the camera about its right axis by angle degrees.
func (c *Camera) Tilt(angle float32) {
	rot := kmath.Rotation(angle, c.u.X, c.u.Y, c.u.Z)
	c.v = kmath.MulVec3(&rot, c.v)
	c.n = kmath.MulVec3(&rot, c.n)
	c.orthonormalize()
	c.t.Y = -ms3.Dot(c.v, c.Eye)
	c.t.Z = -ms3.Dot(c.n, c.Eye)
	c.updateView()
}

// Orthonormalize removes accumulated rounding drift from the camera basis
// keeping the direction of n, then rebuilds the view matrix.
func (c *Camera) Orthonormalize() {
	c.orthonormalize()
	c.updateT()
	c.updateView()
}

func (c *Camera) orthonormalize() {
	n, ok := kmath.Normalize(c.n)
	if !ok {
		return
	}
	// Gram-Schmidt: remove the n component from u, then v is fully determined.
	u, ok := kmath.Normalize(ms3.Sub(c.u, ms3.Scale(ms3.Dot(c.u, n), n)))
	if !ok {
		return
	}
	c.n = n
	c.u = u
	c.v = kmath.Cross(n, u)
}

func (c *Camera) updateT() {
	c.t = ms3.Vec{
		X: -ms3.Dot(c.u, c.Eye),
		Y: -ms3.Dot(c.v, c.Eye),
		Z: -ms3.Dot(c.n, c.Eye),
	}
}

func (c *Camera) updateView() {
	u, v, n, t := c.u, c.v, c.n, c.t
	c.view = kmath.Mat4{
		u.X, v.X, n.X, 0,
		u.Y, v.Y, n.Y, 0,
		u.Z, v.Z, n.Z, 0,
		t.X, t.Y, t.Z, 1,
	}
}

func (c *Camera) String() string {
	return fmt.Sprintf("Camera{eye:%s u:%s v:%s n:%s}", kmath.FormatVec(c.Eye),
		kmath.FormatVec(c.u), kmath.FormatVec(c.v), kmath.FormatVec(c.n))
}
