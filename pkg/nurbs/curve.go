package nurbs

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrTooFewControlPoints is returned when a curve has fewer than two control points
	ErrTooFewControlPoints = errors.New("at least two control points are required")

	// ErrInvalidOrder is returned when the order is below 2 or exceeds the number of control points
	ErrInvalidOrder = errors.New("invalid curve order")

	// ErrInvalidStep is returned for a non-positive step or one that yields more than MaxSamples samples
	ErrInvalidStep = errors.New("invalid sample step")

	// ErrWeightMismatch is returned when weights and control points differ in length
	ErrWeightMismatch = errors.New("one weight per control point is required")
)

// MaxSamples bounds the number of parameter values Evaluate visits
const MaxSamples = 1000000

// Curve is a rational B-spline over a clamped uniform knot vector
type Curve struct {
	ControlPoints []r2.Vec
	Weights       []float64 // parallel to ControlPoints
	Order         int       // degree + 1
	Step          float64   // parameter increment between samples
}

// Validate reports why the curve cannot be evaluated yet, or nil
func (c Curve) Validate() error {
	n := len(c.ControlPoints)
	if n < 2 {
		return fmt.Errorf("%w: have %d", ErrTooFewControlPoints, n)
	}
	if len(c.Weights) != n {
		return fmt.Errorf("%w: %d weights for %d points", ErrWeightMismatch, len(c.Weights), n)
	}
	if c.Order < 2 || c.Order > n {
		return fmt.Errorf("%w: order %d with %d control points", ErrInvalidOrder, c.Order, n)
	}
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidStep, c.Step)
	}
	if samples := c.Domain() / c.Step; samples > MaxSamples {
		return fmt.Errorf("%w: step %g gives %.3g samples, limit %d", ErrInvalidStep, c.Step, samples, MaxSamples)
	}
	return nil
}

// Knots returns the curve's knot vector, or nil when the order does not fit
func (c Curve) Knots() []int {
	return KnotVector(len(c.ControlPoints), c.Order)
}

// Domain returns the end of the parameter range [0, Domain)
func (c Curve) Domain() float64 {
	knots := c.Knots()
	if len(knots) == 0 {
		return 0
	}
	return float64(knots[len(knots)-1])
}

// Evaluate samples the curve at t = 0, Step, 2*Step, ... while t is below the last
// knot. An invalid curve yields an empty slice and the validation error. Samples
// whose homogeneous weight is zero are skipped.
func (c Curve) Evaluate() ([]r2.Vec, error) {
	if err := c.Validate(); err != nil {
		return []r2.Vec{}, err
	}

	knots := c.Knots()
	db := newDeBoor(c, knots)
	end := float64(knots[len(knots)-1])

	points := []r2.Vec{}
	for i := 0; ; i++ {
		t := float64(i) * c.Step
		if t >= end {
			break
		}
		if p, ok := c.project(db, knots, t); ok {
			points = append(points, p)
		}
	}
	return points, nil
}

// PointAt evaluates the curve at a single parameter t in [0, Domain).
// ok is false for an invalid curve, an out-of-range t or a zero weight.
func (c Curve) PointAt(t float64) (r2.Vec, bool) {
	if c.Validate() != nil {
		return r2.Vec{}, false
	}
	knots := c.Knots()
	if t < 0 || t >= float64(knots[len(knots)-1]) {
		return r2.Vec{}, false
	}
	return c.project(newDeBoor(c, knots), knots, t)
}

func (c Curve) project(db *deBoor, knots []int, t float64) (r2.Vec, bool) {
	span := findSpan(knots, t)
	if span < c.Order-1 {
		return r2.Vec{}, false
	}
	h := db.eval(c.Order-1, span, t)
	if h.Z == 0 {
		return r2.Vec{}, false
	}
	return r2.Vec{X: h.X / h.Z, Y: h.Y / h.Z}, true
}
