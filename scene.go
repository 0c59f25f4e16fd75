package k3d

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	// ErrUnknownObject is returned by [Scene.Add] for objects it cannot store.
	ErrUnknownObject = errors.New("unknown scene object")
	// ErrNilObject is returned by [Scene.Add] for nil meshes and lights.
	ErrNilObject = errors.New("nil scene object")
)

// Object is implemented by everything that can be added to a [Scene]:
// meshes and lights.
type Object interface {
	sceneObject()
}

func (*Mesh) sceneObject() {}

// Scene aggregates meshes and lights to be rendered together.
// Meshes are drawn in insertion order.
type Scene struct {
	// Background is the RGBA color the frame is cleared to.
	Background [4]float32

	meshes  []*Mesh
	ambient *AmbientLight
	points  []*PointLight
	spots   []*SpotLight
	areas   []*AreaLight
	suns    []*SunLight
}

// NewScene returns an empty scene cleared to background color bg. A nil bg
// results in an opaque white background.
func NewScene(bg color.Color) *Scene {
	s := &Scene{Background: [4]float32{1, 1, 1, 1}}
	if bg != nil {
		s.Background = colorToFloats(bg)
	}
	return s
}

// Add adds objects to the scene. Meshes get their interleaved vertex buffers
// built on insertion. Adding an ambient light replaces the previous one.
// Objects preceding an unsupported one are still added.
func (s *Scene) Add(objs ...Object) error {
	for i, obj := range objs {
		switch o := obj.(type) {
		case *Mesh:
			if o == nil || o.Geometry == nil {
				return fmt.Errorf("object %d: nil mesh or mesh geometry: %w", i, ErrNilObject)
			}
			o.buildInterleaved()
			s.meshes = append(s.meshes, o)
		case Light:
			if err := s.addLight(o); err != nil {
				return fmt.Errorf("object %d of type %T: %w", i, obj, err)
			}
		default:
			return fmt.Errorf("object %d of type %T: %w", i, obj, ErrUnknownObject)
		}
	}
	return nil
}

func (s *Scene) addLight(l Light) error {
	switch o := l.(type) {
	case *AmbientLight:
		if o == nil {
			return ErrNilObject
		}
		s.ambient = o
	case *PointLight:
		if o == nil {
			return ErrNilObject
		}
		s.points = append(s.points, o)
	case *SpotLight:
		if o == nil {
			return ErrNilObject
		}
		s.spots = append(s.spots, o)
	case *AreaLight:
		if o == nil {
			return ErrNilObject
		}
		s.areas = append(s.areas, o)
	case *SunLight:
		if o == nil {
			return ErrNilObject
		}
		s.suns = append(s.suns, o)
	default:
		return ErrUnknownObject
	}
	return nil
}

// Meshes returns the meshes of the scene in insertion order. The returned slice must not be modified.
func (s *Scene) Meshes() []*Mesh { return s.meshes }

// Ambient returns the ambient light of the scene or nil if it has none.
func (s *Scene) Ambient() *AmbientLight { return s.ambient }

// PointLights returns the point lights of the scene in insertion order.
func (s *Scene) PointLights() []*PointLight { return s.points }

// SpotLights returns the spot lights of the scene in insertion order.
func (s *Scene) SpotLights() []*SpotLight { return s.spots }

// AreaLights returns the area lights of the scene in insertion order.
func (s *Scene) AreaLights() []*AreaLight { return s.areas }

// SunLights returns the sun lights of the scene in insertion order.
func (s *Scene) SunLights() []*SunLight { return s.suns }

// HasLights reports whether the scene contains any point, spot, area or sun
// light. An ambient light alone does not count.
func (s *Scene) HasLights() bool {
	return len(s.points)+len(s.spots)+len(s.areas)+len(s.suns) > 0
}

// ClearLights removes all lights from the scene, the ambient light included.
func (s *Scene) ClearLights() {
	s.ambient = nil
	s.points = s.points[:0]
	s.spots = s.spots[:0]
	s.areas = s.areas[:0]
	s.suns = s.suns[:0]
}
