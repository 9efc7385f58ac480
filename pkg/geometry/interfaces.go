package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-raytracing-kernels/pkg/core"
)

// Default mirror reflectivity per primitive kind
const (
	DefaultSphereMirror   = 0.5
	DefaultPlaneMirror    = 0.05
	DefaultTriangleMirror = 0.5
)

// ErrInvalidPrimitive is returned when a primitive violates its geometric invariants
var ErrInvalidPrimitive = errors.New("invalid primitive")

// ValidationError describes which field of a primitive is out of range
type ValidationError struct {
	Primitive string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Primitive, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPrimitive
}

// Primitive is a renderable shape. All methods operate on batches of rays or points,
// one row per ray, and never mutate the receiver.
type Primitive interface {
	// Intersect returns, per ray, the smallest positive distance along the
	// normalized direction at which the ray hits the primitive, or core.FarAway.
	Intersect(origins, directions core.Vec3s) []float64
	// NormalAt returns the surface normal at each hit point
	NormalAt(points core.Vec3s) core.Vec3s
	// DiffuseAt returns the diffuse color at each hit point
	DiffuseAt(points core.Vec3s) core.Vec3s
	// Reflectivity returns the mirror coefficient in [0,1]
	Reflectivity() float64
	// Transformed returns a moved copy of the primitive
	Transformed(xf Transform) Primitive
	Validate() error
	Kind() string
}

// Surface holds the material properties shared by every primitive
type Surface struct {
	Diffuse core.Vec3
	Mirror  float64
}

// Reflectivity returns the mirror coefficient
func (s Surface) Reflectivity() float64 {
	return s.Mirror
}

func (s Surface) validate(kind string) error {
	if s.Mirror < 0 || s.Mirror > 1 {
		return &ValidationError{Primitive: kind, Field: "mirror", Reason: fmt.Sprintf("must be in [0,1], got %g", s.Mirror)}
	}
	return nil
}

// constantColor fills a batch the size of points with the same color
func constantColor(c core.Vec3, points core.Vec3s) core.Vec3s {
	return core.Broadcast(c, points.Len())
}

// intersectEach applies a single-ray intersection to every row of the batch
func intersectEach(origins, directions core.Vec3s, hit func(o, d core.Vec3) float64) []float64 {
	out := make([]float64, origins.Len())
	for i := range out {
		out[i] = hit(origins.At(i), directions.At(i))
	}
	return out
}
