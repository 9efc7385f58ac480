package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-raytracing-kernels/pkg/core"
	"github.com/df07/go-raytracing-kernels/pkg/geometry"
	"github.com/df07/go-raytracing-kernels/pkg/integrator"
	"github.com/df07/go-raytracing-kernels/pkg/renderer"
	"github.com/df07/go-raytracing-kernels/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Index        int                    `json:"index"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Lit          bool                   `json:"lit"`
	Color        [3]float64             `json:"color"` // Shaded color of the pixel
	Properties   map[string]interface{} `json:"properties"`
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	clamp := func(x float64) int {
		if x < 0 {
			return 0
		}
		if x > 1 {
			return 255
		}
		return int(x * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.X), clamp(c.Y), clamp(c.Z))
}

// extractSurfaceInfo describes the diffuse color at the hit point and the mirror coefficient
func (s *Server) extractSurfaceInfo(hit integrator.Hit) map[string]interface{} {
	return map[string]interface{}{
		"diffuse": toArray(hit.Diffuse),
		"color":   hexColor(hit.Diffuse),
		"mirror":  hit.Primitive.Reflectivity(),
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(p geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := p.(type) {
	case *geometry.Sphere:
		properties["center"] = toArray(geom.Center)
		properties["radius"] = geom.Radius
	case *geometry.CheckeredSphere:
		properties["center"] = toArray(geom.Center)
		properties["radius"] = geom.Radius
	case *geometry.Plane:
		properties["point"] = toArray(geom.Point)
		properties["normal"] = toArray(geom.Normal)
	case *geometry.Triangle:
		properties["a"] = toArray(geom.A)
		properties["b"] = toArray(geom.B)
		properties["c"] = toArray(geom.C)
	default:
		return "unknown", properties
	}
	return p.Kind(), properties
}

// inspectPixel casts the primary ray through a pixel and reports the nearest primitive
func inspectPixel(sc *scene.Scene, req *RenderRequest, pixelX, pixelY int) (integrator.Hit, core.Vec3, bool) {
	camera := renderer.NewCamera(sc.Eye, req.Width, req.Height, req.Offset)
	ray := camera.GetRay(pixelX, pixelY)

	whitted := integrator.NewWhitted(integrator.DefaultConfig())
	hit, ok := whitted.Nearest(ray, sc)
	if !ok {
		return integrator.Hit{}, core.Vec3{}, false
	}
	return hit, whitted.TraceRay(ray, sc), true
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(inspectReq.Scene)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	hit, shaded, ok := inspectPixel(sceneObj, inspectReq, pixelX, pixelY)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Index: -1})
		return
	}

	geometryType, geometryProps := s.extractGeometryInfo(hit.Primitive)
	response := InspectResponse{
		Hit:          true,
		Index:        hit.Index,
		GeometryType: geometryType,
		Point:        toArray(hit.Point),
		Normal:       toArray(hit.Normal),
		Distance:     hit.Distance,
		Lit:          hit.Lit,
		Color:        toArray(shaded),
		Properties: map[string]interface{}{
			"geometry": geometryProps,
			"surface":  s.extractSurfaceInfo(hit),
		},
	}
	writeJSON(w, http.StatusOK, response)
}
