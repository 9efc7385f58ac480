package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/geometry"
)

// Vec is a JSON-friendly 3-vector: [x, y, z]
type Vec [3]float64

func (v Vec) vec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// LightCfg describes the point light
type LightCfg struct {
	Position  Vec      `json:"position"`
	Color     *Vec     `json:"color,omitempty"`     // defaults to white
	Intensity *float64 `json:"intensity,omitempty"` // defaults to 1
}

// PrimitiveCfg describes one primitive. Type selects which fields are read:
// "sphere" and "checkered-sphere" use center/radius, "plane" uses point/normal,
// "triangle" uses a/b/c.
type PrimitiveCfg struct {
	Type    string   `json:"type"`
	Center  *Vec     `json:"center,omitempty"`
	Radius  float64  `json:"radius,omitempty"`
	Point   *Vec     `json:"point,omitempty"`
	Normal  *Vec     `json:"normal,omitempty"`
	A       *Vec     `json:"a,omitempty"`
	B       *Vec     `json:"b,omitempty"`
	C       *Vec     `json:"c,omitempty"`
	Diffuse Vec      `json:"diffuse"`
	Mirror  *float64 `json:"mirror,omitempty"` // defaults per primitive type
}

// Config is the on-disk form of a scene
type Config struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Eye         *Vec           `json:"eye,omitempty"`   // defaults to DefaultEye
	Light       *LightCfg      `json:"light,omitempty"` // defaults to DefaultLight
	Primitives  []PrimitiveCfg `json:"primitives"`
}

// LoadFile reads and validates a JSON scene file
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a JSON scene and validates it
func Parse(r io.Reader) (*Scene, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return cfg.Build()
}

// Build converts the config into a validated scene snapshot
func (c Config) Build() (*Scene, error) {
	s := &Scene{
		Name:  c.Name,
		Light: DefaultLight(),
		Eye:   DefaultEye(),
	}
	if c.Eye != nil {
		s.Eye = c.Eye.vec3()
	}
	if c.Light != nil {
		s.Light.Position = c.Light.Position.vec3()
		if c.Light.Color != nil {
			s.Light.Color = c.Light.Color.vec3()
		}
		if c.Light.Intensity != nil {
			s.Light.Intensity = *c.Light.Intensity
		}
	}

	for i, pc := range c.Primitives {
		p, err := pc.Build()
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		s.Primitives = append(s.Primitives, p)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Build converts one primitive description
func (pc PrimitiveCfg) Build() (geometry.Primitive, error) {
	mirror := func(def float64) float64 {
		if pc.Mirror != nil {
			return *pc.Mirror
		}
		return def
	}
	diffuse := pc.Diffuse.vec3()

	switch pc.Type {
	case "sphere", "checkered-sphere":
		if pc.Center == nil {
			return nil, missingField(pc.Type, "center")
		}
		if pc.Type == "sphere" {
			return geometry.NewSphere(pc.Center.vec3(), pc.Radius, diffuse, mirror(geometry.DefaultSphereMirror)), nil
		}
		return geometry.NewCheckeredSphere(pc.Center.vec3(), pc.Radius, diffuse, mirror(geometry.DefaultSphereMirror)), nil
	case "plane":
		if pc.Point == nil || pc.Normal == nil {
			return nil, missingField(pc.Type, "point/normal")
		}
		return geometry.NewPlane(pc.Point.vec3(), pc.Normal.vec3(), diffuse, mirror(geometry.DefaultPlaneMirror)), nil
	case "triangle":
		if pc.A == nil || pc.B == nil || pc.C == nil {
			return nil, missingField(pc.Type, "a/b/c")
		}
		return geometry.NewTriangle(pc.A.vec3(), pc.B.vec3(), pc.C.vec3(), diffuse, mirror(geometry.DefaultTriangleMirror)), nil
	default:
		return nil, &geometry.ValidationError{Primitive: pc.Type, Field: "type", Reason: "is not a known primitive type"}
	}
}

func missingField(kind, field string) error {
	return &geometry.ValidationError{Primitive: kind, Field: field, Reason: "is required"}
}
