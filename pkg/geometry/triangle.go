package geometry

import (
	"math"

	"github.com/df07/go-raytracing-kernels/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	A, B, C core.Vec3 // The three vertices
	Surface
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(a, b, c core.Vec3, diffuse core.Vec3, mirror float64) *Triangle {
	return &Triangle{
		A:       a,
		B:       b,
		C:       c,
		Surface: Surface{Diffuse: diffuse, Mirror: mirror},
	}
}

// Intersect solves for the barycentric coordinates with Cramer's rule
func (t *Triangle) Intersect(origins, directions core.Vec3s) []float64 {
	return intersectEach(origins, directions, t.hit)
}

func (t *Triangle) hit(origin, direction core.Vec3) float64 {
	u := t.B.Subtract(t.A)
	v := t.C.Subtract(t.A)
	w := origin.Subtract(t.A)

	dv := direction.Cross(v)
	denominator := dv.Dot(u)

	// Ray lies in the plane of the triangle, or the triangle is degenerate
	if math.Abs(denominator) < parallelEpsilon {
		return core.FarAway
	}

	wu := w.Cross(u)
	dist := wu.Dot(v) / denominator
	r := dv.Dot(w) / denominator
	s := wu.Dot(direction) / denominator

	if r < 0 || r > 1 || s < 0 || s > 1 || r+s > 1 {
		return core.FarAway
	}
	if dist <= 0 {
		return core.FarAway
	}
	return dist
}

// Normal returns normalize((a-b) × (c-b)), independent of which side the ray comes from
func (t *Triangle) Normal() core.Vec3 {
	return t.A.Subtract(t.B).Cross(t.C.Subtract(t.B)).Normalize()
}

// NormalAt returns the constant face normal
func (t *Triangle) NormalAt(points core.Vec3s) core.Vec3s {
	return core.Broadcast(t.Normal(), points.Len())
}

// DiffuseAt returns the triangle's flat diffuse color
func (t *Triangle) DiffuseAt(points core.Vec3s) core.Vec3s {
	return constantColor(t.Diffuse, points)
}

// Transformed returns a copy with all three vertices moved
func (t *Triangle) Transformed(xf Transform) Primitive {
	moved := *t
	moved.A = xf.Point(t.A)
	moved.B = xf.Point(t.B)
	moved.C = xf.Point(t.C)
	return &moved
}

// Validate checks the triangle has non-zero area and mirror is in [0,1]
func (t *Triangle) Validate() error {
	if t.B.Subtract(t.A).Cross(t.C.Subtract(t.A)).LengthSquared() == 0 {
		return &ValidationError{Primitive: t.Kind(), Field: "vertices", Reason: "must not be collinear"}
	}
	return t.Surface.validate(t.Kind())
}

func (t *Triangle) Kind() string { return "triangle" }
