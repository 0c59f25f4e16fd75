// Package k3d implements a small retained-mode 3D scene: procedurally
// generated geometry, meshes packed into render-ready vertex buffers, lights
// and a UVN camera. Rendering is done by package glrender.
package k3d

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms3"
)

const (
	// mergeDist is the distance under which two geometry points are considered the same vertex.
	mergeDist = 1e-5
)

// Builder wraps geometry generation logic.
// Provides error handling strategies with panics or error accumulation during geometry generation.
type Builder struct {
	NoDimensionPanic bool
	accumErrs        []error
}

// Err returns all errors accumulated by the builder since the last call to
// Err joined together, or nil if there were none.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	err := errors.Join(bld.accumErrs...)
	bld.accumErrs = bld.accumErrs[:0]
	return err
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if !bld.NoDimensionPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// Triangle returns the geometry of a single triangle with vertices a, b, c.
func Triangle(a, b, c ms3.Vec) *Geometry {
	var bld Builder
	return bld.NewTriangle(a, b, c)
}

// BoxGeometry returns the geometry of an axis aligned box centered at the
// origin of width w (x), height h (y) and depth d (z).
func BoxGeometry(w, h, d float32) (*Geometry, error) {
	bld := Builder{NoDimensionPanic: true}
	g := bld.NewBox(w, h, d)
	if err := bld.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// ConeGeometry returns the geometry of a cone with base of radius r on the
// z=0 plane centered at the origin and apex at (0,0,h).
func ConeGeometry(r, h float32, segments int) (*Geometry, error) {
	bld := Builder{NoDimensionPanic: true}
	g := bld.NewCone(r, h, segments)
	if err := bld.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// UVSphereGeometry returns the geometry of a latitude/longitude sphere of
// radius r centered at the origin with poles on the z axis.
func UVSphereGeometry(r float32, rings, segments int) (*Geometry, error) {
	bld := Builder{NoDimensionPanic: true}
	g := bld.NewUVSphere(r, rings, segments)
	if err := bld.Err(); err != nil {
		return nil, err
	}
	return g, nil
}
