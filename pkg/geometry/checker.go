package geometry

import (
	"math"

	"github.com/df07/go-raytracing-kernels/pkg/core"
)

// checkerColor keeps diffuse where round(2x) and round(2z) share parity and
// returns black elsewhere
func checkerColor(diffuse core.Vec3, points core.Vec3s, round func(float64) float64) core.Vec3s {
	out := core.NewVec3s(points.Len())
	for i := 0; i < points.Len(); i++ {
		p := points.At(i)
		if parity(round(p.X*2)) == parity(round(p.Z*2)) {
			out.Set(i, diffuse)
		}
	}
	return out
}

// parity returns v mod 2 in {0, 1}, flooring so that negative cells alternate too
func parity(v float64) int {
	m := math.Mod(v, 2)
	if m < 0 {
		m += 2
	}
	return int(m)
}
