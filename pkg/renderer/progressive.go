package renderer

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
)

// DefaultLogger implements core.Logger on top of glog
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config contains the fixed configuration of a renderer
type Config struct {
	Width      int
	Height     int
	Camera     core.Transform
	VFov       float64 // Radians
	Budget     integrator.Budget
	TileSize   int // Pixels per tile side (0 = DefaultTileSize)
	NumWorkers int // Number of parallel workers (0 = use CPU count)

	// TracerProvider receives one span per frame (nil = global provider)
	TracerProvider trace.TracerProvider
}

// Validate checks the config by validating the frame it would render
func (c Config) Validate() error {
	return c.frame(1).Validate()
}

func (c Config) frame(counter uint32) FrameParams {
	return FrameParams{
		FrameCounter: counter,
		Width:        c.Width,
		Height:       c.Height,
		Camera:       c.Camera,
		VFov:         c.VFov,
		Budget:       c.Budget,
	}
}

// Renderer owns the accumulation buffer and renders frames into it. Frames
// are serialized; pixels within a frame run in parallel.
type Renderer struct {
	config     Config
	camera     *Camera
	tiles      []Tile
	buffer     *AccumBuffer
	workerPool *WorkerPool
	metrics    *Metrics
	logger     core.Logger
	tracer     trace.Tracer

	mu     sync.Mutex
	frames uint32 // Frames accumulated since the last reset
}

// NewRenderer creates a renderer for a scene. metrics may be nil.
func NewRenderer(scene integrator.Scene, config Config, metrics *Metrics, logger core.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	integ := integrator.NewPathTracingIntegrator(config.Budget)
	return &Renderer{
		config:     config,
		camera:     NewCamera(config.frame(1)),
		tiles:      NewTileGrid(config.Width, config.Height, config.TileSize),
		buffer:     NewAccumBuffer(config.Width, config.Height),
		workerPool: NewWorkerPool(NewTileRenderer(scene, integ), config.NumWorkers),
		metrics:    metrics,
		logger:     logger,
		tracer:     tp.Tracer(tracerName),
	}, nil
}

// Frames returns the number of frames accumulated since the last reset
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.frames)
}

// Buffer returns the accumulation buffer. It must not be read while a frame
// is rendering.
func (r *Renderer) Buffer() *AccumBuffer {
	return r.buffer
}

// Reset restarts accumulation; the next frame overwrites the buffer
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = 0
}

// RenderFrame renders and accumulates one frame. Once started the frame
// always completes so the buffer is never left partially written; ctx is
// only consulted before dispatch.
func (r *Renderer) RenderFrame(ctx context.Context) (FrameStats, error) {
	if err := ctx.Err(); err != nil {
		return FrameStats{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frames == math.MaxUint32 {
		return FrameStats{}, fmt.Errorf("%w: frame counter overflow", ErrInvalidFrame)
	}
	params := r.config.frame(r.frames + 1)

	stats, err := renderFrame(ctx, r.tracer, r.workerPool, params, r.camera, r.tiles, r.buffer)
	if err != nil {
		return FrameStats{}, err
	}
	r.frames = params.FrameCounter

	if r.metrics != nil {
		r.metrics.Record(ctx, stats)
	}
	return stats, nil
}

// RenderFrame renders one frame with explicit parameters into buf, which
// must match the frame size. The caller serializes frames on a buffer.
func RenderFrame(ctx context.Context, params FrameParams, scene integrator.Scene, buf *AccumBuffer, numWorkers int) (FrameStats, error) {
	if err := params.Validate(); err != nil {
		return FrameStats{}, err
	}
	if buf.Width != params.Width || buf.Height != params.Height {
		return FrameStats{}, fmt.Errorf("%w: buffer is %dx%d, frame is %dx%d",
			ErrInvalidFrame, buf.Width, buf.Height, params.Width, params.Height)
	}
	if err := ctx.Err(); err != nil {
		return FrameStats{}, err
	}

	pool := NewWorkerPool(NewTileRenderer(scene, integrator.NewPathTracingIntegrator(params.Budget)), numWorkers)
	tiles := NewTileGrid(params.Width, params.Height, DefaultTileSize)
	return renderFrame(ctx, otel.Tracer(tracerName), pool, params, NewCamera(params), tiles, buf)
}

const tracerName = "go-progressive-pathtracer/renderer"

func renderFrame(ctx context.Context, tracer trace.Tracer, pool *WorkerPool, params FrameParams, camera *Camera, tiles []Tile, buf *AccumBuffer) (FrameStats, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "renderer.renderFrame")
	defer span.End()

	start := time.Now()
	stats, err := pool.RenderTiles(context.WithoutCancel(ctx), params, camera, tiles, buf)
	if err != nil {
		return FrameStats{}, fmt.Errorf("while rendering frame %d: %w", params.FrameCounter, err)
	}
	stats.FrameNumber = params.FrameCounter
	stats.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int64("frame", int64(stats.FrameNumber)),
		attribute.Int64("pixels", int64(stats.TotalPixels)),
		attribute.Int64("bounces", int64(stats.TotalBounces)),
	)
	return stats, nil
}

// Image resolves the current accumulation to a displayable image
func (r *Renderer) Image(tm ToneMap) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Resolve(r.buffer, int(r.frames), tm)
}

// FrameResult contains the result of a single progressive frame
type FrameResult struct {
	FrameNumber int
	Image       *image.RGBA
	Stats       FrameStats
	IsLast      bool
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	MaxFrames   int     // Frames to accumulate; must be positive
	ToneMap     ToneMap // Curve used for the published images
	ImageEvery  int     // Publish an image every N frames (0 = only the last)
	ResetBefore bool    // Discard previous accumulation before the first frame
}

// RenderProgressive renders frames on a background goroutine and publishes
// results on the returned channels. Cancellation is checked between frames.
// Both channels are closed when rendering stops.
func (r *Renderer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		if options.MaxFrames <= 0 {
			errChan <- fmt.Errorf("%w: max frames %d", ErrInvalidFrame, options.MaxFrames)
			return
		}
		if options.ResetBefore {
			r.Reset()
		}

		r.logger.Printf("Starting progressive rendering with %d frames (using %d workers)...",
			options.MaxFrames, r.workerPool.GetNumWorkers())

		for frame := 1; frame <= options.MaxFrames; frame++ {
			// Check if caller cancelled before starting this frame
			select {
			case <-ctx.Done():
				r.logger.Printf("Rendering cancelled before frame %d", frame)
				errChan <- ctx.Err()
				return
			default:
			}

			stats, err := r.RenderFrame(ctx)
			if err != nil {
				errChan <- err
				return
			}

			glog.V(1).Infof("Frame %d completed in %v (%.2f bounces/path, %.3f mean luminance, %d sky, %d exhausted, %d absorbed)",
				stats.FrameNumber, stats.Duration, stats.AverageBounces, stats.MeanLuminance, stats.SkyPaths, stats.ExhaustedPaths, stats.AbsorbedPaths)

			isLast := frame == options.MaxFrames
			result := FrameResult{
				FrameNumber: int(stats.FrameNumber),
				Stats:       stats,
				IsLast:      isLast,
			}
			if isLast || (options.ImageEvery > 0 && frame%options.ImageEvery == 0) {
				result.Image = r.Image(options.ToneMap)
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}

		r.logger.Printf("Progressive rendering finished after %d frames", r.Frames())
	}()

	return frameChan, errChan
}
