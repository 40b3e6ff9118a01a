package renderer

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
)

// Metric names exported through opencensus views
const (
	FramesViewName    = "pathtracer/frames"
	PathsViewName     = "pathtracer/paths"
	FrameTimeViewName = "pathtracer/frame_time"
)

var terminationKey = tag.MustNewKey("termination")

// Metrics records per-frame counters
type Metrics struct {
	frames    *stats.Int64Measure
	paths     *stats.Int64Measure
	frameTime *stats.Float64Measure

	views []*view.View
}

// NewMetrics creates the measures and their views. Views are not registered
// until RegisterViews is called.
func NewMetrics() *Metrics {
	m := &Metrics{}

	m.frames = stats.Int64("pathtracer/frames", "", stats.UnitDimensionless)
	m.paths = stats.Int64("pathtracer/paths", "", stats.UnitDimensionless)
	m.frameTime = stats.Float64("pathtracer/frame_time", "", stats.UnitMilliseconds)

	m.views = []*view.View{
		{
			Name:        FramesViewName,
			Description: "Counter of frames that have been accumulated",
			Measure:     m.frames,
			Aggregation: view.Count(),
		},
		{
			Name:        PathsViewName,
			Description: "Paths traced, by terminal state",
			TagKeys:     []tag.Key{terminationKey},
			Measure:     m.paths,
			Aggregation: view.Sum(),
		},
		{
			Name:        FrameTimeViewName,
			Description: "Wall time per frame",
			Measure:     m.frameTime,
			Aggregation: view.Distribution(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
		},
	}

	return m
}

// RegisterViews registers the views with the global opencensus registry
func (m *Metrics) RegisterViews() error {
	return view.Register(m.views...)
}

// UnregisterViews removes the views from the global registry
func (m *Metrics) UnregisterViews() {
	view.Unregister(m.views...)
}

// Record records one frame's counters
func (m *Metrics) Record(ctx context.Context, fs FrameStats) {
	stats.Record(ctx, m.frames.M(1), m.frameTime.M(float64(fs.Duration.Microseconds())/1000))

	byState := []struct {
		state integrator.State
		count int
	}{
		{integrator.HitSky, fs.SkyPaths},
		{integrator.Exhausted, fs.ExhaustedPaths},
		{integrator.Absorbed, fs.AbsorbedPaths},
	}
	for _, s := range byState {
		if s.count == 0 {
			continue
		}
		stats.RecordWithOptions(
			ctx,
			stats.WithTags(tag.Insert(terminationKey, s.state.String())),
			stats.WithMeasurements(m.paths.M(int64(s.count))))
	}
}
