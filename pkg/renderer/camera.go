package renderer

import (
	"image"

	"gonum.org/v1/gonum/floats"

	"github.com/df07/go-raytracing-kernels/pkg/core"
)

// DefaultScreenOffsetY lifts the screen window so the ground plane sits low in the frame
const DefaultScreenOffsetY = 0.25

// Camera casts one ray per pixel from a fixed eye through a grid on the z=0 plane.
// The screen window is (-1, 1/r + offsetY) to (1, -1/r + offsetY) with r = width/height,
// so pixel row 0 is the top of the image.
type Camera struct {
	eye    core.Vec3
	width  int
	height int
	xs     []float64 // screen x per pixel column
	ys     []float64 // screen y per pixel row
}

// NewCamera creates a camera for the given image size
func NewCamera(eye core.Vec3, width, height int, offsetY float64) *Camera {
	r := float64(width) / float64(height)
	return &Camera{
		eye:    eye,
		width:  width,
		height: height,
		xs:     linspace(width, -1, 1),
		ys:     linspace(height, 1/r+offsetY, -1/r+offsetY),
	}
}

// linspace returns n evenly spaced values from lo to hi inclusive.
// A single sample sits at lo.
func linspace(n int, lo, hi float64) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// ScreenPoint returns the point on the z=0 screen plane for a pixel
func (c *Camera) ScreenPoint(x, y int) core.Vec3 {
	return core.NewVec3(c.xs[x], c.ys[y], 0)
}

// GetRay returns the primary ray for pixel (x, y)
func (c *Camera) GetRay(x, y int) core.Ray {
	return core.NewRay(c.eye, c.ScreenPoint(x, y).Subtract(c.eye).Normalize())
}

// Rays returns the primary rays of every pixel in bounds, row-major
func (c *Camera) Rays(bounds image.Rectangle) (origins, directions core.Vec3s) {
	n := bounds.Dx() * bounds.Dy()
	origins = core.Broadcast(c.eye, n)
	directions = core.NewVec3s(n)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			directions.Set(i, c.ScreenPoint(x, y).Subtract(c.eye).Normalize())
			i++
		}
	}
	return origins, directions
}
