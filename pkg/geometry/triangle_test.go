package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-raytracing-kernels/pkg/core"
)

func newTestTriangle() *Triangle {
	return NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(1, 1, 0),
		DefaultTriangleMirror,
	)
}

func TestTriangle_Intersect(t *testing.T) {
	triangle := newTestTriangle()

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expected  float64
	}{
		{"center hit", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 5.0},
		{"hit from behind face", core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1), 2.0},
		{"outside edge", core.NewVec3(2, 2, 5), core.NewVec3(0, 0, -1), core.FarAway},
		{"parallel ray", core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.FarAway},
		{"triangle behind origin", core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1), core.FarAway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, d := singleRay(tt.origin, tt.direction)
			got := triangle.Intersect(o, d)[0]
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected distance %g, got %g", tt.expected, got)
			}
		})
	}
}

func TestTriangle_Normal(t *testing.T) {
	triangle := newTestTriangle()

	// (a-b) × (c-b) = (-2,0,0) × (-1,2,0) = (0,0,-4)
	expected := core.NewVec3(0, 0, -1)
	if got := triangle.Normal(); got != expected {
		t.Errorf("Expected normal %v, got %v", expected, got)
	}

	normals := triangle.NormalAt(core.NewVec3s(3))
	for i := 0; i < normals.Len(); i++ {
		if normals.At(i) != expected {
			t.Errorf("row %d: expected %v, got %v", i, expected, normals.At(i))
		}
	}
}

func TestTriangle_Validate(t *testing.T) {
	if err := newTestTriangle().Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	collinear := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2), core.NewVec3(1, 1, 1), 0.5)
	if err := collinear.Validate(); !errors.Is(err, ErrInvalidPrimitive) {
		t.Errorf("Expected ErrInvalidPrimitive for collinear vertices, got %v", err)
	}

	// Degenerate triangles never report a hit
	o, d := singleRay(core.NewVec3(1, 1, 5), core.NewVec3(0, 0, -1))
	if got := collinear.Intersect(o, d)[0]; got != core.FarAway {
		t.Errorf("Expected miss on degenerate triangle, got %g", got)
	}
}

func TestTransforms(t *testing.T) {
	t.Run("translation moves sphere center", func(t *testing.T) {
		sphere := NewSphere(core.NewVec3(0.65, 0.1, 2), 0.6, core.NewVec3(1, 0, 0), 0.5)
		moved := sphere.Transformed(Translation{Offset: core.NewVec3(math.Pi/10, 0, 0)}).(*Sphere)

		if math.Abs(moved.Center.X-(0.65+math.Pi/10)) > 1e-12 {
			t.Errorf("Expected shifted center, got %v", moved.Center)
		}
		if sphere.Center.X != 0.65 {
			t.Errorf("Original sphere was mutated: %v", sphere.Center)
		}
	})

	t.Run("rotation turns plane normal", func(t *testing.T) {
		plane := NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1), 0.05)
		rot := NewRotation(core.NewVec3(0, 0, 2), math.Pi/2, core.NewVec3(0, 0, 0))
		moved := plane.Transformed(rot).(*Plane)

		if moved.Normal.Subtract(core.NewVec3(-1, 0, 0)).Length() > 1e-9 {
			t.Errorf("Expected normal (-1, 0, 0), got %v", moved.Normal)
		}
		if moved.Point.Subtract(core.NewVec3(0.5, 0, 0)).Length() > 1e-9 {
			t.Errorf("Expected point (0.5, 0, 0), got %v", moved.Point)
		}
	})

	t.Run("rotation around pivot keeps triangle shape", func(t *testing.T) {
		triangle := newTestTriangle()
		rot := NewRotation(core.NewVec3(0, 1, 0), 0.7, core.NewVec3(0, 0, 2))
		moved := triangle.Transformed(rot).(*Triangle)

		before := triangle.B.Subtract(triangle.A).Length()
		after := moved.B.Subtract(moved.A).Length()
		if math.Abs(before-after) > 1e-12 {
			t.Errorf("Edge length changed from %g to %g", before, after)
		}
		if moved.Kind() != "triangle" {
			t.Errorf("Expected triangle kind, got %s", moved.Kind())
		}
	})
}
