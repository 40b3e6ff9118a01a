package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"math"
	"net/http"
	"time"

	"github.com/golang/glog"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string            // Built-in scene name
	Width      int               // Image width
	Height     int               // Image height
	Frames     int               // Frames to accumulate
	ImageEvery int               // Send an image every N frames
	Budget     integrator.Budget // Bounce budgets
	ToneMap    renderer.ToneMap  // Curve applied to sent images
}

// FrameUpdate is one progressive frame sent via SSE
type FrameUpdate struct {
	FrameNumber int        `json:"frameNumber"`
	TotalFrames int        `json:"totalFrames"`
	ImageData   string     `json:"imageData,omitempty"` // Base64 encoded PNG
	Stats       FrameStats `json:"stats"`
	IsComplete  bool       `json:"isComplete"`
	ElapsedMs   int64      `json:"elapsedMs"`
}

// FrameStats represents render statistics
type FrameStats struct {
	TotalPixels    int     `json:"totalPixels"`
	AverageBounces float64 `json:"averageBounces"`
	MaxBounces     int     `json:"maxBounces"`
	SkyPaths       int     `json:"skyPaths"`
	ExhaustedPaths int     `json:"exhaustedPaths"`
	AbsorbedPaths  int     `json:"absorbedPaths"`
	MeanLuminance  float64 `json:"meanLuminance"`
	FrameMs        float64 `json:"frameMs"`
}

// handleRender streams a progressive render via SSE. The render stops
// between frames when the client disconnects.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	s.setSSEHeaders(w)
	ctx := r.Context()

	send := func(event, data string) {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		send("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan)

	rdr, err := s.setupRenderer(req, logger)
	if err != nil {
		send("error", err.Error())
		return
	}

	startTime := time.Now()
	frameChan, errChan := rdr.RenderProgressive(ctx, renderer.RenderOptions{
		MaxFrames:  req.Frames,
		ToneMap:    req.ToneMap,
		ImageEvery: req.ImageEvery,
	})

	sendConsole := func(msg ConsoleMessage) {
		data, err := json.Marshal(msg)
		if err != nil {
			return
		}
		send("console", string(data))
	}

	for frameChan != nil {
		select {
		case msg := <-consoleChan:
			sendConsole(msg)
		case result, ok := <-frameChan:
			if !ok {
				frameChan = nil
				break
			}
			update, err := s.frameUpdate(result, req, startTime)
			if err != nil {
				send("error", err.Error())
				return
			}
			data, err := json.Marshal(update)
			if err != nil {
				send("error", err.Error())
				return
			}
			send("frame", string(data))
		}
	}

	// Flush console messages logged after the last frame
	for drained := false; !drained; {
		select {
		case msg := <-consoleChan:
			sendConsole(msg)
		default:
			drained = true
		}
	}

	if err := <-errChan; err != nil {
		if ctx.Err() != nil {
			glog.V(1).Infof("Render %s stopped: client disconnected", renderID)
			return
		}
		send("error", fmt.Sprintf("Render error: %v", err))
		return
	}
	send("complete", "Rendering completed")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) setupRenderer(req *RenderRequest, logger core.Logger) (*renderer.Renderer, error) {
	store, err := scene.Preset(req.Scene)
	if err != nil {
		return nil, err
	}
	sc, err := scene.Build(store)
	if err != nil {
		return nil, fmt.Errorf("while building scene: %w", err)
	}
	return renderer.NewRenderer(sc, renderer.Config{
		Width:  req.Width,
		Height: req.Height,
		Camera: store.Camera.Transform(),
		VFov:   store.Camera.VFov * math.Pi / 180,
		Budget: req.Budget,
	}, nil, logger)
}

func (s *Server) frameUpdate(result renderer.FrameResult, req *RenderRequest, startTime time.Time) (FrameUpdate, error) {
	update := FrameUpdate{
		FrameNumber: result.FrameNumber,
		TotalFrames: req.Frames,
		Stats: FrameStats{
			TotalPixels:    result.Stats.TotalPixels,
			AverageBounces: result.Stats.AverageBounces,
			MaxBounces:     result.Stats.MaxBounces,
			SkyPaths:       result.Stats.SkyPaths,
			ExhaustedPaths: result.Stats.ExhaustedPaths,
			AbsorbedPaths:  result.Stats.AbsorbedPaths,
			MeanLuminance:  result.Stats.MeanLuminance,
			FrameMs:        float64(result.Stats.Duration.Microseconds()) / 1000,
		},
		IsComplete: result.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}
	if result.Image != nil {
		data, err := imageToBase64PNG(result.Image)
		if err != nil {
			return FrameUpdate{}, fmt.Errorf("while encoding frame %d: %w", result.FrameNumber, err)
		}
		update.ImageData = data
	}
	return update, nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 225, 1, 2000); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(query, "frames", 64, 1, 100000); err != nil {
		return nil, err
	}
	if req.ImageEvery, err = parseIntParam(query, "imageEvery", 1, 0, 100000); err != nil {
		return nil, err
	}
	if req.Budget.MaxBounce, err = parseIntParam(query, "maxBounce", 8, 1, 1000); err != nil {
		return nil, err
	}
	if req.Budget.MaxReflect, err = parseIntParam(query, "maxReflect", 0, 0, 1000); err != nil {
		return nil, err
	}
	if req.Budget.MaxRefract, err = parseIntParam(query, "maxRefract", 0, 0, 1000); err != nil {
		return nil, err
	}
	if req.ToneMap, err = renderer.ParseToneMap(query.Get("tonemap")); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Frames > 1000 {
		glog.Warningf("Render warning: large image with many frames may render slowly")
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
