package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/geometry"
)

var (
	// ErrEmptyScene is returned when a scene has no primitives to render
	ErrEmptyScene = errors.New("scene has no primitives")

	// ErrUnknownScene is returned when a scene name or path cannot be resolved
	ErrUnknownScene = errors.New("unknown scene")
)

// Light is a point light. Color and Intensity are only consumed when the
// integrator is configured to use them.
type Light struct {
	Position  core.Vec3
	Color     core.Vec3
	Intensity float64
}

// Scene is an immutable snapshot handed to the renderer for one frame.
// A primitive is identified by its index, which the shadow test relies on.
type Scene struct {
	Name       string
	Primitives []geometry.Primitive
	Light      Light
	Eye        core.Vec3
}

// DefaultLight returns the white point light used by the built-in scenes
func DefaultLight() Light {
	return Light{
		Position:  core.NewVec3(5, 5, -10),
		Color:     core.NewVec3(1, 1, 1),
		Intensity: 1,
	}
}

// DefaultEye returns the camera origin used by the built-in scenes
func DefaultEye() core.Vec3 {
	return core.NewVec3(0, 0.35, -1)
}

// Validate reports ErrEmptyScene or the first invalid primitive
func (s *Scene) Validate() error {
	if s == nil || len(s.Primitives) == 0 {
		return ErrEmptyScene
	}
	for i, p := range s.Primitives {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
	}
	return nil
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// Clone returns a copy with its own primitive slice
func (s *Scene) Clone() *Scene {
	c := *s
	c.Primitives = append([]geometry.Primitive(nil), s.Primitives...)
	return &c
}

// Transformed returns a new snapshot with every primitive moved by xf.
// The light and eye stay where they are.
func (s *Scene) Transformed(xf geometry.Transform) *Scene {
	c := *s
	c.Primitives = make([]geometry.Primitive, len(s.Primitives))
	for i, p := range s.Primitives {
		c.Primitives[i] = p.Transformed(xf)
	}
	return &c
}

// Shifted returns a new snapshot with every primitive moved along x by dx
func (s *Scene) Shifted(dx float64) *Scene {
	return s.Transformed(geometry.Translation{Offset: core.NewVec3(dx, 0, 0)})
}

// Rotated returns a new snapshot with every primitive rotated around an axis through pivot
func (s *Scene) Rotated(axis core.Vec3, angle float64, pivot core.Vec3) *Scene {
	return s.Transformed(geometry.NewRotation(axis, angle, pivot))
}
