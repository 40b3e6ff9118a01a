package server

import (
	"net/http"

	"github.com/golang/glog"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var pathKey = tag.MustNewKey("path")

// RequestMetrics counts handled requests per path
type RequestMetrics struct {
	requestCount     *stats.Int64Measure
	requestCountView *view.View

	inner http.Handler
}

// NewRequestMetrics wraps inner with a request counter
func NewRequestMetrics(inner http.Handler) *RequestMetrics {
	m := &RequestMetrics{}

	m.requestCount = stats.Int64("pathtracer/requests", "", stats.UnitDimensionless)
	m.requestCountView = &view.View{
		Name:        "pathtracer/requests",
		Description: "Counter of requests that have been handled",

		TagKeys: []tag.Key{pathKey},

		Measure:     m.requestCount,
		Aggregation: view.Count(),
	}

	m.inner = inner

	return m
}

// RegisterMetrics registers the request view
func (h *RequestMetrics) RegisterMetrics() error {
	return view.Register(h.requestCountView)
}

func (h *RequestMetrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.inner.ServeHTTP(w, r)

	glog.V(1).Infof("Served path=%q remoteaddr=%q", r.URL.Path, r.RemoteAddr)

	stats.RecordWithOptions(
		r.Context(),
		stats.WithTags(tag.Insert(pathKey, r.URL.Path)),
		stats.WithMeasurements(h.requestCount.M(1)))
}
