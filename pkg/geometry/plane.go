package geometry

import (
	"math"

	"github.com/df07/go-raytracing-kernels/pkg/core"
)

// parallelEpsilon is the |n·d| below which a ray counts as parallel to a surface
const parallelEpsilon = 1e-12

// Plane represents an infinite checkered plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Unit normal
	Surface
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, diffuse core.Vec3, mirror float64) *Plane {
	return &Plane{
		Point:   point,
		Normal:  normal.Normalize(), // Ensure normal is normalized
		Surface: Surface{Diffuse: diffuse, Mirror: mirror},
	}
}

// Intersect solves n·(O + tD - P) = 0 for every ray, keeping only t > 0
func (p *Plane) Intersect(origins, directions core.Vec3s) []float64 {
	return intersectEach(origins, directions, p.hit)
}

func (p *Plane) hit(origin, direction core.Vec3) float64 {
	denominator := p.Normal.Dot(direction)

	// Parallel rays never reach the plane
	if math.Abs(denominator) < parallelEpsilon {
		return core.FarAway
	}

	t := -p.Normal.Dot(origin.Subtract(p.Point)) / denominator
	if t <= 0 {
		return core.FarAway
	}
	return t
}

// NormalAt returns the constant plane normal
func (p *Plane) NormalAt(points core.Vec3s) core.Vec3s {
	return core.Broadcast(p.Normal, points.Len())
}

// DiffuseAt returns the diffuse color masked by a checkerboard on x and z
func (p *Plane) DiffuseAt(points core.Vec3s) core.Vec3s {
	return checkerColor(p.Diffuse, points, math.Ceil)
}

// Transformed returns a copy with the point and normal moved
func (p *Plane) Transformed(xf Transform) Primitive {
	moved := *p
	moved.Point = xf.Point(p.Point)
	moved.Normal = xf.Direction(p.Normal).Normalize()
	return &moved
}

// Validate checks the normal is non-zero and mirror is in [0,1]
func (p *Plane) Validate() error {
	if p.Normal.LengthSquared() == 0 {
		return &ValidationError{Primitive: p.Kind(), Field: "normal", Reason: "must be non-zero"}
	}
	return p.Surface.validate(p.Kind())
}

func (p *Plane) Kind() string { return "plane" }
