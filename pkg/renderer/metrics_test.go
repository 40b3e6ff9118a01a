package renderer

import (
	"context"
	"testing"

	"go.opencensus.io/stats/view"
)

func TestMetrics_RecordFrame(t *testing.T) {
	m := NewMetrics()
	if err := m.RegisterViews(); err != nil {
		t.Fatalf("RegisterViews() error = %v", err)
	}
	defer m.UnregisterViews()

	m.Record(context.Background(), FrameStats{TotalPixels: 5, SkyPaths: 3, AbsorbedPaths: 2})
	m.Record(context.Background(), FrameStats{TotalPixels: 1, SkyPaths: 1})

	rows, err := view.RetrieveData(FramesViewName)
	if err != nil {
		t.Fatalf("RetrieveData(%s) error = %v", FramesViewName, err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected one frames row, got %d", len(rows))
	}
	if count := rows[0].Data.(*view.CountData).Value; count != 2 {
		t.Errorf("Expected 2 frames, got %d", count)
	}

	rows, err = view.RetrieveData(PathsViewName)
	if err != nil {
		t.Fatalf("RetrieveData(%s) error = %v", PathsViewName, err)
	}
	got := map[string]float64{}
	for _, row := range rows {
		for _, tg := range row.Tags {
			got[tg.Value] = row.Data.(*view.SumData).Value
		}
	}
	if got["sky"] != 4 || got["absorbed"] != 2 {
		t.Errorf("Unexpected paths by termination: %v", got)
	}
	if _, ok := got["exhausted"]; ok {
		t.Errorf("Zero counts should not be recorded: %v", got)
	}
}
