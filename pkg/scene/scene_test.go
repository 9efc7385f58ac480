package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/geometry"
)

func TestBuiltinScenes(t *testing.T) {
	expected := []string{"checkered", "default", "mirrors", "shadow"}
	names := Names()
	if len(names) != len(expected) {
		t.Fatalf("Expected %d scenes, got %v", len(expected), names)
	}

	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}

		t.Run(name, func(t *testing.T) {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%q) error: %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Name = %q, want %q", s.Name, name)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}

	if _, err := New("cornell-box"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestDefaultScene_Layout(t *testing.T) {
	s := NewDefaultScene()
	if s.GetPrimitiveCount() != 5 {
		t.Fatalf("Expected 5 primitives, got %d", s.GetPrimitiveCount())
	}

	kinds := []string{"sphere", "sphere", "sphere", "plane", "triangle"}
	for i, want := range kinds {
		if got := s.Primitives[i].Kind(); got != want {
			t.Errorf("primitive %d: kind %q, want %q", i, got, want)
		}
	}
	if s.Light.Position != core.NewVec3(5, 5, -10) {
		t.Errorf("Unexpected light position %v", s.Light.Position)
	}
	if s.Eye != core.NewVec3(0, 0.35, -1) {
		t.Errorf("Unexpected eye %v", s.Eye)
	}
}

func TestScene_Validate(t *testing.T) {
	var nilScene *Scene
	if err := nilScene.Validate(); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("nil scene: expected ErrEmptyScene, got %v", err)
	}

	empty := &Scene{Light: DefaultLight(), Eye: DefaultEye()}
	if err := empty.Validate(); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("empty scene: expected ErrEmptyScene, got %v", err)
	}

	bad := NewDefaultScene()
	bad.Primitives = append(bad.Primitives, geometry.NewSphere(core.NewVec3(0, 0, 0), -1, core.NewVec3(1, 1, 1), 0.5))
	err := bad.Validate()
	if !errors.Is(err, geometry.ErrInvalidPrimitive) {
		t.Fatalf("Expected ErrInvalidPrimitive, got %v", err)
	}
	var verr *geometry.ValidationError
	if !errors.As(err, &verr) || verr.Field != "radius" {
		t.Errorf("Expected radius ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "primitive 5") {
		t.Errorf("Expected index in error, got %q", err.Error())
	}
}

func TestScene_ShiftedIsNewSnapshot(t *testing.T) {
	base := NewDefaultScene()
	shifted := base.Shifted(math.Pi / 10)

	before := base.Primitives[0].(*geometry.Sphere).Center
	after := shifted.Primitives[0].(*geometry.Sphere).Center
	if before != core.NewVec3(0.65, 0.1, 2) {
		t.Errorf("Base scene was mutated: %v", before)
	}
	if math.Abs(after.X-(0.65+math.Pi/10)) > 1e-12 || after.Y != before.Y || after.Z != before.Z {
		t.Errorf("Unexpected shifted center %v", after)
	}
	if shifted.Light != base.Light || shifted.Eye != base.Eye {
		t.Error("Light and eye should not move")
	}
}

func TestScene_RotatedFullTurn(t *testing.T) {
	base := NewDefaultScene()
	pivot := core.NewVec3(0, 0, 2)
	turned := base.Rotated(core.NewVec3(0, 1, 0), 2*math.Pi, pivot)

	for i, p := range turned.Primitives {
		if p.Kind() != base.Primitives[i].Kind() {
			t.Errorf("primitive %d changed kind", i)
		}
	}
	got := turned.Primitives[0].(*geometry.Sphere).Center
	want := base.Primitives[0].(*geometry.Sphere).Center
	if got.Subtract(want).Length() > 1e-9 {
		t.Errorf("Full turn should return to start: got %v, want %v", got, want)
	}
}

func TestScene_Clone(t *testing.T) {
	base := NewDefaultScene()
	c := base.Clone()
	c.Primitives[0] = geometry.NewSphere(core.NewVec3(9, 9, 9), 1, core.NewVec3(1, 1, 1), 0)
	if base.Primitives[0].(*geometry.Sphere).Center == core.NewVec3(9, 9, 9) {
		t.Error("Clone shares its primitive slice with the original")
	}
}

const testSceneJSON = `{
	"name": "json-test",
	"description": "one of each primitive",
	"eye": [0, 0.5, -2],
	"light": {"position": [1, 2, 3], "intensity": 0.5},
	"primitives": [
		{"type": "sphere", "center": [0, 0, 2], "radius": 0.5, "diffuse": [1, 0, 0]},
		{"type": "checkered-sphere", "center": [0, -100, 0], "radius": 99, "diffuse": [1, 1, 1], "mirror": 0.25},
		{"type": "plane", "point": [0, -1, 0], "normal": [0, 2, 0], "diffuse": [1, 1, 1]},
		{"type": "triangle", "a": [0, 0, 3], "b": [1, 0, 3], "c": [0, 1, 3], "diffuse": [1, 1, 0], "mirror": 0}
	]
}`

func TestParse_LightIntensity(t *testing.T) {
	tests := []struct {
		name  string
		light string
		want  float64
	}{
		{"missing", `{"position": [0, 5, 0]}`, 1},
		{"explicit zero", `{"position": [0, 5, 0], "intensity": 0}`, 0},
		{"bright", `{"position": [0, 5, 0], "intensity": 3}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"light": ` + tt.light + `, "primitives": [{"type": "sphere", "center": [0, 0, 2], "radius": 0.5, "diffuse": [1, 0, 0]}]}`
			s, err := Parse(strings.NewReader(doc))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if s.Light.Intensity != tt.want {
				t.Errorf("Intensity = %g, want %g", s.Light.Intensity, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(testSceneJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if s.Name != "json-test" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.Eye != core.NewVec3(0, 0.5, -2) {
		t.Errorf("Eye = %v", s.Eye)
	}
	if s.Light.Position != core.NewVec3(1, 2, 3) || s.Light.Intensity != 0.5 {
		t.Errorf("Light = %+v", s.Light)
	}
	if s.Light.Color != core.NewVec3(1, 1, 1) {
		t.Errorf("Light color should default to white, got %v", s.Light.Color)
	}

	mirrors := []float64{geometry.DefaultSphereMirror, 0.25, geometry.DefaultPlaneMirror, 0}
	kinds := []string{"sphere", "checkered-sphere", "plane", "triangle"}
	if len(s.Primitives) != len(kinds) {
		t.Fatalf("Expected %d primitives, got %d", len(kinds), len(s.Primitives))
	}
	for i, p := range s.Primitives {
		if p.Kind() != kinds[i] {
			t.Errorf("primitive %d: kind %q, want %q", i, p.Kind(), kinds[i])
		}
		if p.Reflectivity() != mirrors[i] {
			t.Errorf("primitive %d: mirror %g, want %g", i, p.Reflectivity(), mirrors[i])
		}
	}
	if n := s.Primitives[2].(*geometry.Plane).Normal; n != core.NewVec3(0, 1, 0) {
		t.Errorf("Plane normal should be normalized, got %v", n)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"malformed", `{"primitives": [`, nil},
		{"unknown field", `{"primitives": [], "camera": {}}`, nil},
		{"no primitives", `{"name": "empty", "primitives": []}`, ErrEmptyScene},
		{"unknown type", `{"primitives": [{"type": "cone", "diffuse": [1,1,1]}]}`, geometry.ErrInvalidPrimitive},
		{"missing center", `{"primitives": [{"type": "sphere", "radius": 1, "diffuse": [1,1,1]}]}`, geometry.ErrInvalidPrimitive},
		{"zero radius", `{"primitives": [{"type": "sphere", "center": [0,0,0], "diffuse": [1,1,1]}]}`, geometry.ErrInvalidPrimitive},
		{"mirror out of range", `{"primitives": [{"type": "plane", "point": [0,0,0], "normal": [0,1,0], "diffuse": [1,1,1], "mirror": 2}]}`, geometry.ErrInvalidPrimitive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	if err := os.WriteFile(path, []byte(testSceneJSON), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}
	if s.GetPrimitiveCount() != 4 {
		t.Errorf("Expected 4 primitives, got %d", s.GetPrimitiveCount())
	}

	if _, err := Load("shadow"); err != nil {
		t.Errorf("Load(shadow) error: %v", err)
	}
	if _, err := Load("missing.json"); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := Load("nothing"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}
