package renderer

import (
	"image"
	"math"
	"testing"

	"github.com/df07/go-raytracing-kernels/pkg/core"
)

func TestCamera_ScreenWindow(t *testing.T) {
	// r = 2, so the window spans y from 1/2+0.25 down to -1/2+0.25
	camera := NewCamera(core.NewVec3(0, 0.35, -1), 4, 2, DefaultScreenOffsetY)

	tests := []struct {
		x, y int
		want core.Vec3
	}{
		{0, 0, core.NewVec3(-1, 0.75, 0)},
		{3, 0, core.NewVec3(1, 0.75, 0)},
		{1, 1, core.NewVec3(-1.0/3, -0.25, 0)},
		{2, 1, core.NewVec3(1.0/3, -0.25, 0)},
	}

	for _, tt := range tests {
		got := camera.ScreenPoint(tt.x, tt.y)
		if got.Subtract(tt.want).Length() > 1e-12 {
			t.Errorf("ScreenPoint(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCamera_SinglePixel(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, -1), 1, 1, 0)
	if got := camera.ScreenPoint(0, 0); got != core.NewVec3(-1, 1, 0) {
		t.Errorf("Expected the window corner for a 1x1 image, got %v", got)
	}
}

func TestCamera_Rays(t *testing.T) {
	eye := core.NewVec3(0, 0.35, -1)
	camera := NewCamera(eye, 8, 6, DefaultScreenOffsetY)
	bounds := image.Rect(2, 1, 5, 4)

	origins, directions := camera.Rays(bounds)
	if origins.Len() != 9 || directions.Len() != 9 {
		t.Fatalf("Expected 9 rays, got %d/%d", origins.Len(), directions.Len())
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ray := camera.GetRay(x, y)
			if origins.At(i) != eye || ray.Origin != eye {
				t.Errorf("pixel (%d,%d): origin should be the eye", x, y)
			}
			if directions.At(i) != ray.Direction {
				t.Errorf("pixel (%d,%d): batch direction %v, single %v", x, y, directions.At(i), ray.Direction)
			}
			if math.Abs(ray.Direction.Length()-1) > 1e-12 {
				t.Errorf("pixel (%d,%d): direction not normalized", x, y)
			}
			i++
		}
	}
}
