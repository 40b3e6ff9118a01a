package server

import (
	"math"
	"net/http"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ObjectID     int                    `json:"objectId"`
	Name         string                 `json:"name,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        core.Vec3              `json:"point"`
	Normal       core.Vec3              `json:"normal"`
	Distance     float64                `json:"distance"`
	IsEntry      bool                   `json:"isEntry"`
	Material     *material.Material     `json:"material,omitempty"`
	Sky          *core.Vec3             `json:"sky,omitempty"` // Radiance seen on a miss
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// materialType names the dominant response of a material
func materialType(m material.Material) string {
	switch {
	case m.Emission.Sum() > 0:
		return "emissive"
	case m.Opacity < 1:
		return "dielectric"
	case m.Roughness == 0:
		return "mirror"
	case m.Roughness < 1:
		return "glossy"
	default:
		return "diffuse"
	}
}

// inspectPixel casts the unjittered ray through the center of a pixel
func inspectPixel(store *scene.Store, sc *scene.Scene, width, height, pixelX, pixelY int) InspectResponse {
	camera := renderer.NewCamera(renderer.FrameParams{
		Width:  width,
		Height: height,
		Camera: store.Camera.Transform(),
		VFov:   store.Camera.VFov * math.Pi / 180,
	})
	ray := camera.GetRayAt((float64(pixelX)+0.5)/float64(width), (float64(pixelY)+0.5)/float64(height))

	hit := sc.Intersect(ray)
	if !hit.IsHit() {
		sky := sc.Sky(ray.Direction)
		return InspectResponse{Hit: false, ObjectID: -1, Sky: &sky}
	}

	obj := store.Objects[hit.ObjectID]
	mat := hit.Material
	response := InspectResponse{
		Hit:          true,
		ObjectID:     hit.ObjectID,
		Name:         obj.Name,
		MaterialType: materialType(mat),
		GeometryType: string(obj.Kind),
		Point:        hit.Position,
		Normal:       hit.Normal,
		Distance:     hit.Distance,
		IsEntry:      hit.IsEntry,
		Material:     &mat,
	}
	if mesh, ok := sc.Shapes[hit.ObjectID].(*geometry.TriangleMesh); ok {
		response.Properties = map[string]interface{}{"triangleCount": mesh.GetTriangleCount()}
	}
	return response
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	query := r.URL.Query()

	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}
	width, err := parseIntParam(query, "width", 400, 1, 2000)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	height, err := parseIntParam(query, "height", 225, 1, 2000)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	pixelX, err := parseIntParam(query, "x", -1, 0, width-1)
	if err != nil || pixelX < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := parseIntParam(query, "y", -1, 0, height-1)
	if err != nil || pixelY < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	store, err := scene.Preset(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sc, err := scene.Build(store)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(store, sc, width, height, pixelX, pixelY))
}
