package nurbs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
)

// CurveSpec is the JSON form of a curve used by curve files and the web API.
// Missing weights default to 1, a zero order to DefaultOrder and a zero step to DefaultStep.
type CurveSpec struct {
	Points  [][2]float64 `json:"points"`
	Weights []float64    `json:"weights,omitempty"`
	Order   int          `json:"order,omitempty"`
	Step    float64      `json:"step,omitempty"`
}

// Curve converts the spec into a Curve with defaults applied. It does not validate.
func (s CurveSpec) Curve() Curve {
	c := Curve{
		ControlPoints: make([]r2.Vec, len(s.Points)),
		Order:         s.Order,
		Step:          s.Step,
	}
	for i, p := range s.Points {
		c.ControlPoints[i] = r2.Vec{X: p[0], Y: p[1]}
	}

	if len(s.Weights) == 0 {
		c.Weights = make([]float64, len(s.Points))
		for i := range c.Weights {
			c.Weights[i] = MinWeight
		}
	} else {
		c.Weights = append([]float64(nil), s.Weights...)
	}

	if c.Order == 0 {
		c.Order = DefaultOrder
	}
	if c.Step == 0 {
		c.Step = DefaultStep
	}
	return c
}

// SpecFromCurve is the inverse of CurveSpec.Curve
func SpecFromCurve(c Curve) CurveSpec {
	s := CurveSpec{
		Points:  make([][2]float64, len(c.ControlPoints)),
		Weights: append([]float64(nil), c.Weights...),
		Order:   c.Order,
		Step:    c.Step,
	}
	for i, p := range c.ControlPoints {
		s.Points[i] = [2]float64{p.X, p.Y}
	}
	return s
}

// ParseSpec decodes a curve document
func ParseSpec(r io.Reader) (CurveSpec, error) {
	var s CurveSpec
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return CurveSpec{}, fmt.Errorf("failed to decode curve: %w", err)
	}
	return s, nil
}

// LoadSpec reads a curve document from disk
func LoadSpec(path string) (CurveSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return CurveSpec{}, fmt.Errorf("failed to open curve file: %w", err)
	}
	defer f.Close()

	s, err := ParseSpec(f)
	if err != nil {
		return CurveSpec{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// MarshalPoints converts curve samples to the [x, y] pair form used in JSON output
func MarshalPoints(points []r2.Vec) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}
