package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"go.opencensus.io/stats/view"
	"go.opentelemetry.io/otel/oteltest"
	"go.opentelemetry.io/otel/trace"

	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

var (
	sceneName  = flag.String("scene", "default", "Built-in scene ("+strings.Join(scene.PresetNames(), ", ")+") or path to a .yaml/.json scene file")
	width      = flag.Int("width", 400, "Image width in pixels")
	height     = flag.Int("height", 225, "Image height in pixels")
	frames     = flag.Int("frames", 64, "Number of progressive frames to accumulate")
	maxBounce  = flag.Int("max-bounce", 8, "Maximum surfaces a path may scatter from")
	maxReflect = flag.Int("max-reflect", 0, "Separate reflection budget (0 = combined budget only)")
	maxRefract = flag.Int("max-refract", 0, "Separate refraction budget (0 = combined budget only)")
	fov        = flag.Float64("fov", 0, "Vertical field of view in degrees (0 = scene camera)")
	workers    = flag.Int("workers", 0, "Parallel tile workers (0 = CPU count)")
	toneMap    = flag.String("tonemap", "aces", "Tone map applied when resolving: none or aces")
	out        = flag.String("out", "", "Output PNG path (default output/<scene>/render.png)")
	saveEvery  = flag.Int("save-every", 0, "Also write the image every N frames (0 = only at the end)")
	logMetrics = flag.Bool("log-metrics", false, "Log frame metrics when rendering finishes")
	logSpans   = flag.Bool("log-spans", false, "Record a trace span per frame and log them when rendering finishes")
)

type options struct {
	Scene      string
	Width      int
	Height     int
	Frames     int
	Budget     integrator.Budget
	FOV        float64
	Workers    int
	ToneMap    string
	Out        string
	SaveEvery  int
	LogMetrics bool
	LogSpans   bool
}

func main() {
	flag.Parse()
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	opts := options{
		Scene:  *sceneName,
		Width:  *width,
		Height: *height,
		Frames: *frames,
		Budget: integrator.Budget{
			MaxBounce:  *maxBounce,
			MaxReflect: *maxReflect,
			MaxRefract: *maxRefract,
		},
		FOV:        *fov,
		Workers:    *workers,
		ToneMap:    *toneMap,
		Out:        *out,
		SaveEvery:  *saveEvery,
		LogMetrics: *logMetrics,
		LogSpans:   *logSpans,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		glog.Errorf("Error while rendering: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	// Stops the render goroutine on every return path
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := loadScene(opts.Scene)
	if err != nil {
		return err
	}
	sc, err := scene.Build(store)
	if err != nil {
		return fmt.Errorf("while building scene: %w", err)
	}
	glog.Infof("Loaded scene %q with %d objects", opts.Scene, sc.ObjectCount())

	tm, err := renderer.ParseToneMap(opts.ToneMap)
	if err != nil {
		return err
	}

	vfov := store.Camera.VFov
	if opts.FOV > 0 {
		vfov = opts.FOV
	}

	metrics := renderer.NewMetrics()
	if err := metrics.RegisterViews(); err != nil {
		return fmt.Errorf("while registering metric views: %w", err)
	}
	defer metrics.UnregisterViews()

	var (
		spans *oteltest.SpanRecorder
		tp    trace.TracerProvider
	)
	if opts.LogSpans {
		spans = &oteltest.SpanRecorder{}
		tp = oteltest.NewTracerProvider(oteltest.WithSpanRecorder(spans))
		defer logSpanRecords(spans)
	}

	r, err := renderer.NewRenderer(sc, renderer.Config{
		Width:          opts.Width,
		Height:         opts.Height,
		Camera:         store.Camera.Transform(),
		VFov:           vfov * math.Pi / 180,
		Budget:         opts.Budget,
		NumWorkers:     opts.Workers,
		TracerProvider: tp,
	}, metrics, renderer.NewDefaultLogger())
	if err != nil {
		return fmt.Errorf("while creating renderer: %w", err)
	}

	outPath := opts.Out
	if outPath == "" {
		outPath = filepath.Join("output", sceneLabel(opts.Scene), "render.png")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("while creating output directory: %w", err)
	}

	frameChan, errChan := r.RenderProgressive(ctx, renderer.RenderOptions{
		MaxFrames:  opts.Frames,
		ToneMap:    tm,
		ImageEvery: opts.SaveEvery,
	})

	var last *image.RGBA
	for result := range frameChan {
		if result.Image == nil {
			continue
		}
		last = result.Image
		if err := savePNG(outPath, result.Image); err != nil {
			return err
		}
		glog.Infof("Frame %d saved to %s", result.FrameNumber, outPath)
	}

	renderErr := <-errChan
	if errors.Is(renderErr, context.Canceled) && r.Frames() > 0 {
		// Keep whatever converged before the interrupt
		glog.Warningf("Rendering interrupted after %d frames", r.Frames())
		last = r.Image(tm)
		if err := savePNG(outPath, last); err != nil {
			return err
		}
		renderErr = nil
	}
	if renderErr != nil {
		return fmt.Errorf("while rendering progressively: %w", renderErr)
	}
	if last == nil {
		return fmt.Errorf("no frames were rendered")
	}

	if opts.LogMetrics {
		logViews()
	}
	return nil
}

// loadScene resolves a preset name or a scene file path
func loadScene(name string) (*scene.Store, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		store, err := scene.LoadFile(name)
		if err != nil {
			return nil, fmt.Errorf("while loading scene file %s: %w", name, err)
		}
		return store, nil
	}
	return scene.Preset(name)
}

func sceneLabel(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func savePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("while encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("while closing %s: %w", path, err)
	}
	return nil
}

// logSpanRecords logs every completed frame span with its duration and attributes
func logSpanRecords(rec *oteltest.SpanRecorder) {
	for _, span := range rec.Completed() {
		end, _ := span.EndTime()
		attrs := make([]string, 0, len(span.Attributes()))
		for k, v := range span.Attributes() {
			attrs = append(attrs, fmt.Sprintf("%s=%s", k, v.Emit()))
		}
		sort.Strings(attrs)
		glog.Infof("Span %s took %v: %s", span.Name(), end.Sub(span.StartTime()), strings.Join(attrs, " "))
	}
}

func logViews() {
	for _, name := range []string{renderer.FramesViewName, renderer.PathsViewName, renderer.FrameTimeViewName} {
		rows, err := view.RetrieveData(name)
		if err != nil {
			glog.Warningf("Could not retrieve view %s: %v", name, err)
			continue
		}
		for _, row := range rows {
			glog.Infof("%s %v: %v", name, row.Tags, row.Data)
		}
	}
}
