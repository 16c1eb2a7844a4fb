package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Outcome   string     `json:"outcome"` // "absorbed", "escaped" or "exhausted"
	Color     string     `json:"color"`   // final pixel color as #rrggbb
	DiskColor string     `json:"diskColor"`
	DiskAlpha float64    `json:"diskAlpha"` // accumulated disk opacity
	Crossings int        `json:"crossings"`
	Steps     int        `json:"steps"`
	Direction [3]float64 `json:"direction"` // initial unit direction
}

// inspectPixel traces a single photon through the centre of pixel (pixelX, pixelY)
func inspectPixel(sc *scene.Scene, pixelX, pixelY int) (integrator.Result, core.Vec3) {
	// With one sample per pixel the only sub-sample sits at the pixel centre
	p := sc.Params
	p.Samples = 1
	camera := scene.NewCamera(p)

	direction := camera.Direction(pixelX, pixelY, 0, 0)
	return sc.Integrator.Trace(integrator.NewPhoton(camera.Position, direction)), direction
}

// handleInspect traces the photon behind one pixel and reports what it met
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Parse scene parameters the same way as a render
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= req.Params.Width || pixelY < 0 || pixelY >= req.Params.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sc, err := scene.New(req.Params, s.textures)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, direction := inspectPixel(sc, pixelX, pixelY)

	writeJSON(w, http.StatusOK, InspectResponse{
		Outcome:   res.Outcome.String(),
		Color:     hexColor(res.Color),
		DiskColor: hexColor(res.Disk.Color),
		DiskAlpha: res.Disk.Alpha,
		Crossings: res.Crossings,
		Steps:     res.Steps,
		Direction: [3]float64{direction.X, direction.Y, direction.Z},
	})
}

func hexColor(c core.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
