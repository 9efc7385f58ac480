package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/geometry"
)

// builtins maps scene names to their constructors
var builtins = map[string]func() *Scene{
	"default":   NewDefaultScene,
	"checkered": NewCheckeredScene,
	"mirrors":   NewMirrorScene,
	"shadow":    NewShadowScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a fresh built-in scene by name
func New(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return build(), nil
}

// Load resolves a built-in scene name first, then a path to a JSON scene file
func Load(nameOrPath string) (*Scene, error) {
	if _, ok := builtins[nameOrPath]; ok {
		return New(nameOrPath)
	}
	if strings.HasSuffix(nameOrPath, ".json") {
		return LoadFile(nameOrPath)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, nameOrPath)
}

// NewDefaultScene creates three spheres over a checkered plane with a yellow triangle
func NewDefaultScene() *Scene {
	return &Scene{
		Name: "default",
		Primitives: []geometry.Primitive{
			geometry.NewSphere(core.NewVec3(0.65, 0.1, 2), 0.6, core.NewVec3(1, 0.155, 0), geometry.DefaultSphereMirror),
			geometry.NewSphere(core.NewVec3(-0.65, 0.1, 2), 0.6, core.NewVec3(0, 0.255, 0), geometry.DefaultSphereMirror),
			geometry.NewSphere(core.NewVec3(0, 1.2, 2), 0.6, core.NewVec3(0, 0.153, 0.76), geometry.DefaultSphereMirror),
			geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1), geometry.DefaultPlaneMirror),
			geometry.NewTriangle(
				core.NewVec3(-0.5, 0.1, 2),
				core.NewVec3(0.75, 0.1, 2),
				core.NewVec3(0, 1.25, 2.25),
				core.NewVec3(1, 1, 0),
				0.25,
			),
		},
		Light: DefaultLight(),
		Eye:   DefaultEye(),
	}
}

// NewCheckeredScene replaces the ground plane with a huge checkered sphere
func NewCheckeredScene() *Scene {
	return &Scene{
		Name: "checkered",
		Primitives: []geometry.Primitive{
			geometry.NewSphere(core.NewVec3(0.75, 0.1, 1), 0.6, core.NewVec3(0, 0, 1), geometry.DefaultSphereMirror),
			geometry.NewSphere(core.NewVec3(-0.75, 0.1, 2.25), 0.6, core.NewVec3(0.5, 0.223, 0.5), geometry.DefaultSphereMirror),
			geometry.NewSphere(core.NewVec3(-2.75, 0.1, 3.5), 0.6, core.NewVec3(1, 0.572, 0.184), geometry.DefaultSphereMirror),
			geometry.NewCheckeredSphere(core.NewVec3(0, -99999.5, 0), 99999, core.NewVec3(1, 1, 1), 0.25),
		},
		Light: DefaultLight(),
		Eye:   DefaultEye(),
	}
}

// NewMirrorScene is the default layout with every surface a perfect mirror
func NewMirrorScene() *Scene {
	s := NewDefaultScene()
	s.Name = "mirrors"
	s.Primitives = []geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0.65, 0.1, 2), 0.6, core.NewVec3(1, 0.155, 0), 1),
		geometry.NewSphere(core.NewVec3(-0.65, 0.1, 2), 0.6, core.NewVec3(0, 0.255, 0), 1),
		geometry.NewSphere(core.NewVec3(0, 1.2, 2), 0.6, core.NewVec3(0, 0.153, 0.76), 1),
		geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1), 1),
	}
	return s
}

// NewShadowScene places a sphere directly between an overhead light and the ground
func NewShadowScene() *Scene {
	light := DefaultLight()
	light.Position = core.NewVec3(0, 5, 2)
	return &Scene{
		Name: "shadow",
		Primitives: []geometry.Primitive{
			geometry.NewSphere(core.NewVec3(0, 1, 2), 0.5, core.NewVec3(1, 0, 0), 0),
			geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1), 0),
		},
		Light: light,
		Eye:   DefaultEye(),
	}
}
