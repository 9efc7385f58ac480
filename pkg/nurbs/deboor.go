package nurbs

import "github.com/df07/go-raytracing-kernels/pkg/core"

// deBoor evaluates the rational de Boor recursion at parameter t. Control points
// are lifted to homogeneous form (x*w, y*w, w) at the base case, so the result
// must be projected by dividing x and y by its Z component.
type deBoor struct {
	points []core.Vec3 // homogeneous control points (x*w, y*w, w)
	knots  []int
	order  int
}

func newDeBoor(c Curve, knots []int) *deBoor {
	points := make([]core.Vec3, len(c.ControlPoints))
	for i, p := range c.ControlPoints {
		w := c.Weights[i]
		points[i] = core.NewVec3(p.X*w, p.Y*w, w)
	}
	return &deBoor{points: points, knots: knots, order: c.Order}
}

// eval returns D(degree, index) at t
func (d *deBoor) eval(degree, index int, t float64) core.Vec3 {
	if degree == 0 {
		return d.points[index]
	}

	lo := float64(d.knots[index])
	span := float64(d.knots[index+d.order-degree]) - lo

	// Repeated knots collapse the span; take the left term alone
	alpha := 0.0
	if span != 0 {
		alpha = (t - lo) / span
	}

	left := d.eval(degree-1, index-1, t)
	right := d.eval(degree-1, index, t)
	return left.Multiply(1 - alpha).Add(right.Multiply(alpha))
}
