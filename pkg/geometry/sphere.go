package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-raytracing-kernels/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
	Surface
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, diffuse core.Vec3, mirror float64) *Sphere {
	return &Sphere{
		Center:  center,
		Radius:  radius,
		Surface: Surface{Diffuse: diffuse, Mirror: mirror},
	}
}

// Intersect solves |O + tD - C|² = r² for every ray
func (s *Sphere) Intersect(origins, directions core.Vec3s) []float64 {
	return intersectEach(origins, directions, s.hit)
}

func (s *Sphere) hit(origin, direction core.Vec3) float64 {
	// Vector from sphere center to ray origin
	oc := origin.Subtract(s.Center)

	// Quadratic with a = D·D = 1 for a normalized direction
	b := 2 * direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := b*b - 4*c
	if discriminant < 0 {
		return core.FarAway
	}

	sq := math.Sqrt(discriminant)
	h0 := (-b - sq) / 2
	h1 := (-b + sq) / 2

	// Prefer the near root unless it lies behind the origin
	h := h1
	if h0 > 0 && h0 < h1 {
		h = h0
	}
	if h <= 0 {
		return core.FarAway
	}
	return h
}

// NormalAt returns (M - C) / r
func (s *Sphere) NormalAt(points core.Vec3s) core.Vec3s {
	return points.SubtractVec(s.Center).Multiply(1.0 / s.Radius)
}

// DiffuseAt returns the sphere's flat diffuse color
func (s *Sphere) DiffuseAt(points core.Vec3s) core.Vec3s {
	return constantColor(s.Diffuse, points)
}

// Transformed returns a copy with the center moved
func (s *Sphere) Transformed(xf Transform) Primitive {
	moved := *s
	moved.Center = xf.Point(s.Center)
	return &moved
}

// Validate checks radius > 0 and mirror in [0,1]
func (s *Sphere) Validate() error {
	return validateSphere(s.Kind(), s.Radius, s.Surface)
}

func (s *Sphere) Kind() string { return "sphere" }

func validateSphere(kind string, radius float64, surface Surface) error {
	if !(radius > 0) {
		return &ValidationError{Primitive: kind, Field: "radius", Reason: fmt.Sprintf("must be positive, got %g", radius)}
	}
	return surface.validate(kind)
}

// CheckeredSphere is a sphere whose diffuse color is masked by a checkerboard
// computed from the hit point's x and z coordinates
type CheckeredSphere struct {
	Sphere
}

// NewCheckeredSphere creates a new checkered sphere
func NewCheckeredSphere(center core.Vec3, radius float64, diffuse core.Vec3, mirror float64) *CheckeredSphere {
	return &CheckeredSphere{Sphere: *NewSphere(center, radius, diffuse, mirror)}
}

// DiffuseAt returns the diffuse color on "white" squares and black elsewhere
func (c *CheckeredSphere) DiffuseAt(points core.Vec3s) core.Vec3s {
	return checkerColor(c.Diffuse, points, math.Trunc)
}

// Transformed returns a copy with the center moved
func (c *CheckeredSphere) Transformed(xf Transform) Primitive {
	moved := *c
	moved.Center = xf.Point(c.Center)
	return &moved
}

// Validate checks radius > 0 and mirror in [0,1]
func (c *CheckeredSphere) Validate() error {
	return validateSphere(c.Kind(), c.Radius, c.Surface)
}

func (c *CheckeredSphere) Kind() string { return "checkered-sphere" }
