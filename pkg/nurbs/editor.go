package nurbs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Editor defaults and limits
const (
	DefaultOrder = 5
	DefaultStep  = 0.3

	MinStep   = 0.1
	MaxStep   = 0.6
	StepDelta = 0.05

	MinWeight = 1.0
	MaxWeight = 10.0

	// PickRadius is the distance within which Pick finds a control point
	PickRadius = 30.0
)

// Editor holds the interactive state of a curve being built point by point.
// It is not safe for concurrent use.
type Editor struct {
	points    []r2.Vec
	weights   []float64
	order     int
	step      float64
	showCurve bool
}

// NewEditor creates an empty editor with default order and step
func NewEditor() *Editor {
	e := &Editor{}
	e.Clear()
	return e
}

// Clear removes all points and restores the default order and step
func (e *Editor) Clear() {
	e.points = nil
	e.weights = nil
	e.order = DefaultOrder
	e.step = DefaultStep
	e.showCurve = true
}

// Load replaces the editor state with a curve
func (e *Editor) Load(c Curve) {
	e.points = append([]r2.Vec(nil), c.ControlPoints...)
	e.weights = append([]float64(nil), c.Weights...)
	e.order = c.Order
	e.step = c.Step
}

// AddPoint appends a control point with weight 1
func (e *Editor) AddPoint(p r2.Vec) {
	e.points = append(e.points, p)
	e.weights = append(e.weights, MinWeight)
}

// MovePoint replaces control point i
func (e *Editor) MovePoint(i int, p r2.Vec) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.points[i] = p
	return nil
}

// RemovePoint deletes control point i and its weight
func (e *Editor) RemovePoint(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.points = append(e.points[:i], e.points[i+1:]...)
	e.weights = append(e.weights[:i], e.weights[i+1:]...)
	return nil
}

// Pick returns the index of the control point nearest to p within PickRadius
func (e *Editor) Pick(p r2.Vec) (int, bool) {
	best, bestDist := -1, PickRadius
	for i, q := range e.points {
		if d := r2.Norm(r2.Sub(q, p)); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// RaiseWeight adds 1 to the weight of point i, up to MaxWeight
func (e *Editor) RaiseWeight(i int) (bool, error) {
	if err := e.checkIndex(i); err != nil {
		return false, err
	}
	if e.weights[i] >= MaxWeight {
		return false, nil
	}
	e.weights[i] = math.Min(e.weights[i]+1, MaxWeight)
	return true, nil
}

// LowerWeight subtracts 1 from the weight of point i, down to MinWeight
func (e *Editor) LowerWeight(i int) (bool, error) {
	if err := e.checkIndex(i); err != nil {
		return false, err
	}
	if e.weights[i] <= MinWeight {
		return false, nil
	}
	e.weights[i] = math.Max(e.weights[i]-1, MinWeight)
	return true, nil
}

// RaiseAllWeights adds 0.1 to every weight, capped at MaxWeight
func (e *Editor) RaiseAllWeights() {
	for i := range e.weights {
		e.weights[i] = math.Min(e.weights[i]+0.1, MaxWeight)
	}
}

// OrderUp raises the order while it stays below n - n/3
func (e *Editor) OrderUp() bool {
	n := len(e.points)
	if e.order >= n-n/3 {
		return false
	}
	e.order++
	return true
}

// OrderDown lowers the order, never below 2
func (e *Editor) OrderDown() bool {
	if e.order <= 2 {
		return false
	}
	e.order--
	return true
}

// StepUp increases the sample step by StepDelta while below MaxStep
func (e *Editor) StepUp() bool {
	if e.step >= MaxStep-1e-9 {
		return false
	}
	e.step = roundStep(e.step + StepDelta)
	return true
}

// StepDown decreases the sample step by StepDelta while above MinStep
func (e *Editor) StepDown() bool {
	if e.step <= MinStep+1e-9 {
		return false
	}
	e.step = roundStep(e.step - StepDelta)
	return true
}

// roundStep keeps repeated increments on the 0.05 grid
func roundStep(s float64) float64 {
	return math.Round(s*100) / 100
}

// ToggleCurve flips whether Points returns the evaluated curve
func (e *Editor) ToggleCurve() bool {
	e.showCurve = !e.showCurve
	return e.showCurve
}

// Order returns the current curve order
func (e *Editor) Order() int { return e.order }

// Step returns the current sample step
func (e *Editor) Step() float64 { return e.step }

// ShowCurve reports whether the curve is displayed
func (e *Editor) ShowCurve() bool { return e.showCurve }

// Curve returns a snapshot of the current state that shares no memory with the editor
func (e *Editor) Curve() Curve {
	return Curve{
		ControlPoints: append([]r2.Vec(nil), e.points...),
		Weights:       append([]float64(nil), e.weights...),
		Order:         e.order,
		Step:          e.step,
	}
}

// Points evaluates the current curve. It returns an empty slice while the curve is
// hidden or not yet renderable.
func (e *Editor) Points() []r2.Vec {
	if !e.showCurve {
		return []r2.Vec{}
	}
	points, err := e.Curve().Evaluate()
	if err != nil {
		return []r2.Vec{}
	}
	return points
}

func (e *Editor) checkIndex(i int) error {
	if i < 0 || i >= len(e.points) {
		return fmt.Errorf("control point %d out of range [0, %d)", i, len(e.points))
	}
	return nil
}
