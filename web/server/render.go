package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/df07/go-blackhole-raytracer/pkg/renderer"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
)

const (
	previewWidth   = 256 // previews wider than this are downscaled
	previewUpdates = 20  // progress events per render
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// ProgressUpdate is sent as rows are dispatched
type ProgressUpdate struct {
	RenderID  string `json:"renderId"`
	Row       int    `json:"row"`
	Rows      int    `json:"rows"`
	ImageData string `json:"imageData"` // Base64 encoded PNG preview
	ElapsedMs int64  `json:"elapsedMs"`
}

// CompleteUpdate carries the final image
type CompleteUpdate struct {
	RenderID  string `json:"renderId"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Workers      int     `json:"workers"`
	Samples      int     `json:"samples"`
	Absorbed     int     `json:"absorbed"`
	Escaped      int     `json:"escaped"`
	Exhausted    int     `json:"exhausted"`
	Crossings    int     `json:"crossings"`
	AverageSteps float64 `json:"averageSteps"`
	MaxSteps     int     `json:"maxSteps"`
	Panics       int     `json:"panics"`
	Luminance    float64 `json:"luminance"`
}

// handleRender renders a black hole image and streams console output,
// row progress previews and the final image via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Every write to w happens on the writer goroutine, which must finish
	// before the handler returns
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sc, err := scene.New(req.Params, s.textures)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	// Setup console logging and streaming
	renderID := uuid.NewString()
	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	logger := slog.New(NewConsoleHandler(s.logger.Handler(), consoleChan))

	startTime := time.Now()
	rows := req.Params.Height
	every := max(1, rows/previewUpdates)

	rt := renderer.NewRenderer(sc, renderer.Options{
		Workers:  req.Workers,
		Logger:   logger,
		RenderID: renderID,
		OnRow: func(row, rows int, img *image.RGBA) {
			if (row+1)%every != 0 && row != rows-1 {
				return
			}
			s.handleRowProgress(ctx, sseEventChan, renderID, row, rows, img, startTime)
		},
	})

	img, stats, err := rt.Render(ctx)

	// The renderer no longer logs once Render has returned
	close(consoleChan)
	<-consoleDone

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	s.handleComplete(ctx, sseEventChan, renderID, img, stats, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until sseEventChan is closed. Events arriving
// after the client disconnected are drained without being written.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	disconnected := false

	for event := range sseEventChan {
		if disconnected || ctx.Err() != nil {
			disconnected = true
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			// Client disconnected during write
			disconnected = true
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events until
// consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			s.logger.Error("Error marshaling console message", "error", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		}
	}
}

// handleRowProgress sends a downscaled preview of the partially rendered image
func (s *Server) handleRowProgress(ctx context.Context, sseEventChan chan<- SSEEvent, renderID string, row, rows int, img *image.RGBA, startTime time.Time) {
	if ctx.Err() != nil {
		return
	}

	imageData, err := imageToBase64PNG(previewImage(img, previewWidth))
	if err != nil {
		s.logger.Error("Error encoding preview", "row", row, "error", err)
		return
	}

	data, err := json.Marshal(ProgressUpdate{
		RenderID:  renderID,
		Row:       row,
		Rows:      rows,
		ImageData: imageData,
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
	if err != nil {
		s.logger.Error("Error marshaling progress update", "error", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "progress", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleComplete sends the final image and statistics
func (s *Server) handleComplete(ctx context.Context, sseEventChan chan<- SSEEvent, renderID string, img *image.RGBA, stats renderer.RenderStats, startTime time.Time) {
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	data, err := json.Marshal(CompleteUpdate{
		RenderID:  renderID,
		ImageData: imageData,
		Stats: Stats{
			Width:        stats.Width,
			Height:       stats.Height,
			Workers:      stats.Workers,
			Samples:      stats.Samples,
			Absorbed:     stats.Absorbed,
			Escaped:      stats.Escaped,
			Exhausted:    stats.Exhausted,
			Crossings:    stats.Crossings,
			AverageSteps: stats.AverageSteps(),
			MaxSteps:     stats.MaxSteps,
			Panics:       stats.Panics,
			Luminance:    renderer.CalculateAverageLuminance(img),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode stats: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// previewImage returns img scaled down to at most width pixels across
func previewImage(img *image.RGBA, width int) image.Image {
	b := img.Bounds()
	if b.Dx() <= width {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
