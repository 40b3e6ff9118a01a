package renderer

import (
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
)

// FrameStats contains statistics about one rendered frame
type FrameStats struct {
	FrameNumber    uint32
	TotalPixels    int           // Pixels traced this frame
	TotalBounces   int           // Surfaces scattered from across all paths
	MaxBounces     int           // Longest path in bounces
	SkyPaths       int           // Paths that escaped to the sky
	ExhaustedPaths int           // Paths that ran out of budget
	AbsorbedPaths  int           // Paths whose throughput fell below threshold
	TotalLuminance float64       // Sum of per-path radiance luminance
	AverageBounces float64       // Mean bounces per path
	MeanLuminance  float64       // Mean per-path radiance luminance
	Duration       time.Duration // Wall time of the frame
}

func (s *FrameStats) addPath(result integrator.PathResult) {
	s.TotalPixels++
	s.TotalBounces += result.Bounces
	s.MaxBounces = max(s.MaxBounces, result.Bounces)
	s.TotalLuminance += result.Radiance.Luminance()
	switch result.State {
	case integrator.HitSky:
		s.SkyPaths++
	case integrator.Exhausted:
		s.ExhaustedPaths++
	case integrator.Absorbed:
		s.AbsorbedPaths++
	}
}

// Merge folds the counters of another tile's stats into s
func (s *FrameStats) Merge(other FrameStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalBounces += other.TotalBounces
	s.MaxBounces = max(s.MaxBounces, other.MaxBounces)
	s.SkyPaths += other.SkyPaths
	s.ExhaustedPaths += other.ExhaustedPaths
	s.AbsorbedPaths += other.AbsorbedPaths
	s.TotalLuminance += other.TotalLuminance
}

func (s *FrameStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageBounces = float64(s.TotalBounces) / float64(s.TotalPixels)
		s.MeanLuminance = s.TotalLuminance / float64(s.TotalPixels)
	}
}
