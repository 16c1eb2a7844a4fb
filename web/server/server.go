package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/df07/go-blackhole-raytracer/pkg/texture"
)

// Request limits. Renders are streamed to a browser, so they are kept well
// below what the CLI accepts.
const (
	maxImageSize  = 2000
	maxSamples    = 16
	maxWorkers    = 1024
	maxStepsLimit = 50_000_000
)

// Server handles web requests for the black hole raytracer
type Server struct {
	port      int
	textures  *texture.Set
	staticDir string
	logger    *slog.Logger
}

// NewServer creates a new web server. textures are shared read-only by every
// render.
func NewServer(port int, textures *texture.Set, staticDir string, logger *slog.Logger) *Server {
	return &Server{
		port:      port,
		textures:  textures,
		staticDir: staticDir,
		logger:    core.LoggerOrNop(logger),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Params  scene.Params
	Workers int // pixel budget, 0 = default
}

// Handler returns the HTTP handler serving the API and static files
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/defaults", s.handleDefaults)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("Starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDefaults returns the default render parameters with validation limits
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	p := scene.DefaultParams()
	response := map[string]interface{}{
		"defaults": map[string]interface{}{
			"width":          p.Width,
			"height":         p.Height,
			"samples":        p.Samples,
			"cameraDistance": p.CameraDistance,
			"cameraHeight":   p.CameraHeight,
			"fov":            p.FOV,
			"diskScale":      p.DiskScale,
			"maxSteps":       p.MaxSteps,
		},
		"limits": map[string]interface{}{
			"width":          map[string]int{"min": 1, "max": maxImageSize},
			"height":         map[string]int{"min": 1, "max": maxImageSize},
			"samples":        map[string]int{"min": 1, "max": maxSamples},
			"workers":        map[string]int{"min": 0, "max": maxWorkers},
			"maxSteps":       map[string]int{"min": 0, "max": maxStepsLimit},
			"cameraDistance": map[string]float64{"min": 1, "max": 1000},
			"cameraHeight":   map[string]float64{"min": -1000, "max": 1000},
			"fov":            map[string]float64{"min": 1, "max": 359},
			"diskScale":      map[string]float64{"min": 1, "max": 10000},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses render parameters from the query string. Missing
// values take their defaults.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()
	d := scene.DefaultParams()
	req := &RenderRequest{}

	var err error
	if req.Params.Width, err = parseIntParam(q, "width", d.Width, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Params.Height, err = parseIntParam(q, "height", d.Height, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Params.Samples, err = parseIntParam(q, "samples", d.Samples, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Params.MaxSteps, err = parseIntParam(q, "maxSteps", d.MaxSteps, 0, maxStepsLimit); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(q, "workers", 0, 0, maxWorkers); err != nil {
		return nil, err
	}
	if req.Params.CameraDistance, err = parseFloatParam(q, "cameraDistance", d.CameraDistance, 1, 1000); err != nil {
		return nil, err
	}
	if req.Params.CameraHeight, err = parseFloatParam(q, "cameraHeight", d.CameraHeight, -1000, 1000); err != nil {
		return nil, err
	}
	if req.Params.FOV, err = parseFloatParam(q, "fov", d.FOV, 1, 359); err != nil {
		return nil, err
	}
	if req.Params.DiskScale, err = parseFloatParam(q, "diskScale", d.DiskScale, 1, 10000); err != nil {
		return nil, err
	}

	if err := req.Params.Validate(); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Params.Width*req.Params.Height > 800*600 && req.Params.Samples > 4 {
		s.logger.Warn("Large image with high samples may render slowly",
			"resolution", req.Params.Resolution(), "samples", req.Params.Samples)
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if math.IsNaN(parsed) || parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
