package integrator

import (
	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace computes one color per ray for a batch of rays. Rays that hit
	// nothing are black. bounce is the current reflection depth, 0 for camera rays.
	Trace(origins, directions core.Vec3s, sc *scene.Scene, bounce int) core.Vec3s
}

// Config holds the shading constants
type Config struct {
	MaxBounce        int     // mirror recursion happens only while bounce < MaxBounce
	Ambient          float64 // constant gray added to every hit
	SpecularExponent float64 // Blinn-Phong exponent
	ShadowBias       float64 // offset along the normal for shadow and reflection rays
	UseLightColor    bool    // scale diffuse and specular by Light.Color * Light.Intensity
}

// DefaultConfig returns the classic Whitted constants
func DefaultConfig() Config {
	return Config{
		MaxBounce:        2,
		Ambient:          0.05,
		SpecularExponent: 50,
		ShadowBias:       1e-4,
		UseLightColor:    false,
	}
}
