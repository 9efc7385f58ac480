package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-raytracing-kernels/pkg/nurbs"
	"github.com/df07/go-raytracing-kernels/pkg/renderer"
	"github.com/df07/go-raytracing-kernels/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "lone.json")
	doc := `{"name": "Lone", "primitives": [{"type": "sphere", "center": [0, 0, 3], "radius": 1, "diffuse": [1, 0, 0]}]}`
	if err := os.WriteFile(scenePath, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"checkered scene", "checkered", false},
		{"mirrors scene", "mirrors", false},
		{"shadow scene", "shadow", false},
		{"scene file", scenePath, false},

		{"unknown scene", "nonexistent", true},
		{"missing scene file", filepath.Join(dir, "missing.json"), true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := createScene(tt.sceneType)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.sceneType)
				}
				if sc != nil {
					t.Errorf("Expected nil scene for '%s'", tt.sceneType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneType, err)
			}
			if err := sc.Validate(); err != nil {
				t.Errorf("Scene '%s' does not validate: %v", tt.sceneType, err)
			}
		})
	}

	if _, err := createScene(""); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene for an empty name, got %v", err)
	}
}

func TestSceneDirName(t *testing.T) {
	tests := map[string]string{
		"default":               "default",
		"scenes/lone.json":      "lone",
		"/tmp/x/two-balls.json": "two-balls",
	}
	for in, want := range tests {
		if got := sceneDirName(in); got != want {
			t.Errorf("sceneDirName(%q) = %q, want %q", in, got, want)
		}
	}
}

func testRenderConfig(out string) Config {
	seq := renderer.DefaultSequence()
	return Config{
		SceneName: "default",
		Width:     24,
		Height:    18,
		Offset:    renderer.DefaultScreenOffsetY,
		Workers:   2,
		Frames:    1,
		Step:      seq.Step,
		Motion:    seq.Motion,
		OutputDir: out,
	}
}

func TestRunRender(t *testing.T) {
	out := t.TempDir()
	config := testRenderConfig(out)
	config.Frames = 3

	files, err := runRender(context.Background(), config, renderer.NopLogger)
	if err != nil {
		t.Fatalf("runRender error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %v", files)
	}

	for _, f := range files {
		if filepath.Dir(f) != out {
			t.Errorf("File %s written outside %s", f, out)
		}
		fh, err := os.Open(f)
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f, err)
		}
		img, err := png.Decode(fh)
		fh.Close()
		if err != nil {
			t.Fatalf("Failed to decode %s: %v", f, err)
		}
		if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 18 {
			t.Errorf("Expected 24x18, got %v", b)
		}
	}
}

func TestRunRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown scene", func(c *Config) { c.SceneName = "nope" }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero frames", func(c *Config) { c.Frames = 0 }},
		{"unknown motion", func(c *Config) { c.Motion = "spin" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testRenderConfig(t.TempDir())
			tt.modify(&config)
			if _, err := runRender(context.Background(), config, renderer.NopLogger); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRunCurve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curve.json")
	doc := `{"points": [[0, 0], [4, 2]], "order": 2, "step": 0.5}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write curve file: %v", err)
	}

	var buf bytes.Buffer
	if err := runCurve(path, &buf); err != nil {
		t.Fatalf("runCurve error: %v", err)
	}

	var out curveOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if len(out.Points) != 2 || out.Points[1] != [2]float64{2, 1} {
		t.Errorf("Unexpected points %v", out.Points)
	}
	if len(out.Knots) != 4 {
		t.Errorf("Unexpected knots %v", out.Knots)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"points": [[0, 0]]}`), 0644); err != nil {
		t.Fatalf("Failed to write curve file: %v", err)
	}
	if err := runCurve(bad, &buf); !errors.Is(err, nurbs.ErrTooFewControlPoints) {
		t.Errorf("Expected ErrTooFewControlPoints, got %v", err)
	}

	tiny := filepath.Join(dir, "tiny.json")
	if err := os.WriteFile(tiny, []byte(`{"points": [[0, 0], [4, 2]], "order": 2, "step": 1e-300}`), 0644); err != nil {
		t.Fatalf("Failed to write curve file: %v", err)
	}
	if err := runCurve(tiny, &buf); !errors.Is(err, nurbs.ErrInvalidStep) {
		t.Errorf("Expected ErrInvalidStep, got %v", err)
	}
}
