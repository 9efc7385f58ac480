package geometry

import "github.com/df07/go-raytracing-kernels/pkg/core"

// Transform moves points and directions of a primitive
type Transform interface {
	Point(p core.Vec3) core.Vec3
	Direction(d core.Vec3) core.Vec3
}

// Translation shifts points by a fixed offset and leaves directions alone
type Translation struct {
	Offset core.Vec3
}

func (t Translation) Point(p core.Vec3) core.Vec3     { return p.Add(t.Offset) }
func (t Translation) Direction(d core.Vec3) core.Vec3 { return d }

// Rotation turns points around an axis through Pivot
type Rotation struct {
	Axis  core.Vec3 // unit length
	Angle float64   // radians
	Pivot core.Vec3
}

// NewRotation creates a rotation, normalizing the axis
func NewRotation(axis core.Vec3, angle float64, pivot core.Vec3) Rotation {
	return Rotation{Axis: axis.Normalize(), Angle: angle, Pivot: pivot}
}

func (r Rotation) Point(p core.Vec3) core.Vec3 {
	return p.Subtract(r.Pivot).Rotate(r.Axis, r.Angle).Add(r.Pivot)
}

func (r Rotation) Direction(d core.Vec3) core.Vec3 {
	return d.Rotate(r.Axis, r.Angle)
}
