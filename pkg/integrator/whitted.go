package integrator

import (
	"math"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/geometry"
	"github.com/df07/go-raytracing-kernels/pkg/scene"
)

// Whitted implements recursive ray tracing with Lambert and Blinn-Phong shading,
// hard shadows from a single point light and mirror reflections
type Whitted struct {
	config Config
}

// NewWhitted creates a new Whitted integrator
func NewWhitted(config Config) *Whitted {
	return &Whitted{config: config}
}

// Trace shades a batch of rays. Every primitive whose distance equals the per-ray
// minimum contributes its local shading to that ray.
func (w *Whitted) Trace(origins, directions core.Vec3s, sc *scene.Scene, bounce int) core.Vec3s {
	color := core.NewVec3s(origins.Len())
	if sc == nil || len(sc.Primitives) == 0 || origins.Len() == 0 {
		return color
	}

	distances, nearest := intersectAll(sc.Primitives, origins, directions)

	for i := range sc.Primitives {
		mask := make([]bool, len(nearest))
		for j, d := range distances[i] {
			mask[j] = nearest[j] != core.FarAway && d == nearest[j]
		}
		if !core.Any(mask) {
			continue
		}

		shaded := w.shade(i, sc,
			origins.Extract(mask),
			directions.Extract(mask),
			core.ExtractFloats(mask, distances[i]),
			bounce,
		)
		color.AddPlaced(shaded, mask)
	}
	return color
}

// shade computes the local color of primitive idx for a compacted batch of rays that hit it
func (w *Whitted) shade(idx int, sc *scene.Scene, origins, directions core.Vec3s, dist []float64, bounce int) core.Vec3s {
	p := sc.Primitives[idx]
	n := origins.Len()

	hits := origins.Add(directions.MultiplyEach(dist))
	normals := p.NormalAt(hits)
	toLight := core.Broadcast(sc.Light.Position, n).Subtract(hits).Normalize()
	toEye := core.Broadcast(sc.Eye, n).Subtract(hits).Normalize()
	nudged := hits.Add(normals.Multiply(w.config.ShadowBias))

	seeLight := visibility(idx, sc.Primitives, nudged, toLight)

	lightColor := core.NewVec3(1, 1, 1)
	if w.config.UseLightColor {
		lightColor = sc.Light.Color.Multiply(sc.Light.Intensity)
	}

	color := core.Broadcast(core.NewVec3(w.config.Ambient, w.config.Ambient, w.config.Ambient), n)

	// Lambert
	lambert := normals.Dot(toLight)
	for j := range lambert {
		lambert[j] = math.Max(lambert[j], 0) * seeLight[j]
	}
	color = color.Add(p.DiffuseAt(hits).MultiplyVec(lightColor).MultiplyEach(lambert))

	// Reflection
	if bounce < w.config.MaxBounce && p.Reflectivity() > 0 {
		reflected := directions.Reflect(normals).Normalize()
		color = color.Add(w.Trace(nudged, reflected, sc, bounce+1).Multiply(p.Reflectivity()))
	}

	// Blinn-Phong
	phong := normals.Dot(toLight.Add(toEye).Normalize())
	for j := range phong {
		phong[j] = math.Pow(clamp01(phong[j]), w.config.SpecularExponent) * seeLight[j]
	}
	color = color.Add(core.Broadcast(lightColor, n).MultiplyEach(phong))

	return color
}

// visibility returns 1 where the shadow ray from each point toward the light hits
// primitive idx no later than any other primitive, 0 otherwise
func visibility(idx int, prims []geometry.Primitive, points, toLight core.Vec3s) []float64 {
	distances, nearest := intersectAll(prims, points, toLight)
	lit := make([]float64, len(nearest))
	for j, d := range distances[idx] {
		if d == nearest[j] {
			lit[j] = 1
		}
	}
	return lit
}

// intersectAll returns every primitive's distances and the per-ray minimum
func intersectAll(prims []geometry.Primitive, origins, directions core.Vec3s) ([][]float64, []float64) {
	distances := make([][]float64, len(prims))
	nearest := make([]float64, origins.Len())
	for j := range nearest {
		nearest[j] = core.FarAway
	}
	for i, p := range prims {
		distances[i] = p.Intersect(origins, directions)
		nearest = core.MinEach(nearest, distances[i])
	}
	return distances, nearest
}

func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}

// TraceRay shades a single ray from bounce depth 0
func (w *Whitted) TraceRay(ray core.Ray, sc *scene.Scene) core.Vec3 {
	origins := core.Broadcast(ray.Origin, 1)
	directions := core.Broadcast(ray.Direction, 1)
	return w.Trace(origins, directions, sc, 0).At(0)
}

// Hit describes the nearest primitive along a single ray
type Hit struct {
	Index     int
	Primitive geometry.Primitive
	Distance  float64
	Point     core.Vec3
	Normal    core.Vec3
	Diffuse   core.Vec3
	Lit       bool
}

// Nearest finds the first primitive in scene order whose distance equals the
// minimum along the ray. ok is false when nothing is hit.
func (w *Whitted) Nearest(ray core.Ray, sc *scene.Scene) (Hit, bool) {
	if sc == nil || len(sc.Primitives) == 0 {
		return Hit{}, false
	}
	origins := core.Broadcast(ray.Origin, 1)
	directions := core.Broadcast(ray.Direction, 1)
	distances, nearest := intersectAll(sc.Primitives, origins, directions)
	if nearest[0] == core.FarAway {
		return Hit{}, false
	}

	for i, d := range distances {
		if d[0] != nearest[0] {
			continue
		}
		p := sc.Primitives[i]
		point := ray.At(d[0])
		points := core.Broadcast(point, 1)
		normal := p.NormalAt(points).At(0)
		nudged := core.Broadcast(point.Add(normal.Multiply(w.config.ShadowBias)), 1)
		toLight := core.Broadcast(sc.Light.Position.Subtract(point).Normalize(), 1)

		return Hit{
			Index:     i,
			Primitive: p,
			Distance:  d[0],
			Point:     point,
			Normal:    normal,
			Diffuse:   p.DiffuseAt(points).At(0),
			Lit:       visibility(i, sc.Primitives, nudged, toLight)[0] == 1,
		}, true
	}
	return Hit{}, false
}
