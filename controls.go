package k3d

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Default controller sensitivities.
const (
	DefaultDollySpeed = 0.005
	DefaultTurnSpeed  = 0.05
	DefaultOrbitSpeed = 0.005
)

// pointer tracks the state of a pointing device between events.
type pointer struct {
	x, y    float32
	pressed bool
}

// press starts a drag at x,y.
func (p *pointer) press(x, y float32) {
	p.x, p.y = x, y
	p.pressed = true
}

// move returns the displacement since the last event and whether a drag is in progress.
func (p *pointer) move(x, y float32) (dx, dy float32, dragging bool) {
	if !p.pressed {
		return 0, 0, false
	}
	dx, dy = x-p.x, y-p.y
	p.x, p.y = x, y
	return dx, dy, true
}

func (p *pointer) release() { p.pressed = false }

// EasyCam turns pointer drags into camera pans and tilts and wheel scrolls
// into dollies. The zero value is not usable, use [NewEasyCam].
type EasyCam struct {
	Camera *Camera
	// DollySpeed scales wheel deltas to dolly distance.
	DollySpeed float32
	// TurnSpeed scales pointer displacement to pan and tilt degrees.
	TurnSpeed float32
	ptr       pointer
}

// NewEasyCam returns an EasyCam controlling c with default sensitivities.
func NewEasyCam(c *Camera) *EasyCam {
	return &EasyCam{Camera: c, DollySpeed: DefaultDollySpeed, TurnSpeed: DefaultTurnSpeed}
}

// Press begins a drag at pointer position x,y.
func (ec *EasyCam) Press(x, y float32) { ec.ptr.press(x, y) }

// Release ends a drag.
func (ec *EasyCam) Release() { ec.ptr.release() }

// Move updates the pointer position. While dragging, horizontal motion pans
// and vertical motion tilts the camera.
func (ec *EasyCam) Move(x, y float32) {
	dx, dy, ok := ec.ptr.move(x, y)
	if ok {
		ec.Drag(dx, dy)
	}
}

// Drag pans and tilts the camera by a pointer displacement of dx,dy.
func (ec *EasyCam) Drag(dx, dy float32) {
	ec.Camera.Pan(dx * ec.TurnSpeed)
	ec.Camera.Tilt(dy * ec.TurnSpeed)
}

// Scroll dollies the camera by a scroll wheel delta.
func (ec *EasyCam) Scroll(delta float32) {
	ec.Camera.Dolly(delta * ec.DollySpeed)
}

// OrbitControl keeps the camera on a sphere around Center, looking at it.
// Drags move the camera over the sphere and wheel scrolls change its radius.
type OrbitControl struct {
	Camera *Camera
	Center ms3.Vec
	// Speed scales pointer displacement to radians.
	Speed      float32
	DollySpeed float32

	// theta is the azimuth about z measured from x and phi the polar angle from +z.
	theta, phi float32
	radius     float32
	ptr        pointer
}

// NewOrbitControl returns an orbit controller for camera c around center
// starting from the camera's current eye position.
func NewOrbitControl(c *Camera, center ms3.Vec) *OrbitControl {
	oc := &OrbitControl{
		Camera:     c,
		Center:     center,
		Speed:      DefaultOrbitSpeed,
		DollySpeed: DefaultDollySpeed,
	}
	oc.Sync()
	return oc
}

// Sync recomputes the spherical coordinates of the controller from the
// camera eye. Call it after moving the camera by other means.
func (oc *OrbitControl) Sync() {
	d := ms3.Sub(oc.Camera.Eye, oc.Center)
	oc.radius = ms3.Norm(d)
	if oc.radius == 0 {
		oc.theta, oc.phi = 0, 0
		return
	}
	oc.phi = math32.Acos(clamp(d.Z/oc.radius, -1, 1))
	oc.theta = math32.Atan2(d.Y, d.X)
}

// Radius returns the distance from the camera to the orbit center.
func (oc *OrbitControl) Radius() float32 { return oc.radius }

// Angles returns the azimuth and polar angle of the camera in radians.
func (oc *OrbitControl) Angles() (theta, phi float32) { return oc.theta, oc.phi }

// Press begins a drag at pointer position x,y.
func (oc *OrbitControl) Press(x, y float32) { oc.ptr.press(x, y) }

// Release ends a drag.
func (oc *OrbitControl) Release() { oc.ptr.release() }

// Move updates the pointer position and orbits the camera while dragging.
func (oc *OrbitControl) Move(x, y float32) {
	dx, dy, ok := oc.ptr.move(x, y)
	if ok {
		oc.Drag(dx, dy)
	}
}

// Drag orbits the camera by a pointer displacement of dx,dy.
func (oc *OrbitControl) Drag(dx, dy float32) {
	oc.theta += dx * oc.Speed
	oc.phi += dy * oc.Speed
	sinPhi, cosPhi := math32.Sin(oc.phi), math32.Cos(oc.phi)
	sinTheta, cosTheta := math32.Sin(oc.theta), math32.Cos(oc.theta)
	oc.Camera.Eye = ms3.Add(oc.Center, ms3.Vec{
		X: oc.radius * sinPhi * cosTheta,
		Y: oc.radius * sinPhi * sinTheta,
		Z: oc.radius * cosPhi,
	})
	oc.Camera.LookAt(oc.Center)
}

// Scroll dollies the camera by a scroll wheel delta and updates the orbit radius.
func (oc *OrbitControl) Scroll(delta float32) {
	oc.Camera.Dolly(delta * oc.DollySpeed)
	oc.Sync()
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(hi, math32.Max(v, lo))
}
