package main

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

func TestLoadScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneName   string
		expectError bool
	}{
		{"default preset", "default", false},
		{"cornell preset", "cornell", false},
		{"glass preset", "glass", false},
		{"yaml scene file", "scenes/pyramid.yaml", false},

		{"unknown preset", "nonexistent", true},
		{"missing scene file", "scenes/nonexistent.yaml", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := loadScene(tt.sceneName)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene %q, got none", tt.sceneName)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene %q: %v", tt.sceneName, err)
			}
			if len(store.Objects) == 0 {
				t.Errorf("Scene %q has no objects", tt.sceneName)
			}
		})
	}
}

func TestLoadScene_UnknownPresetSentinel(t *testing.T) {
	if _, err := loadScene("nonexistent"); !errors.Is(err, scene.ErrUnknownPreset) {
		t.Errorf("Expected ErrUnknownPreset, got %v", err)
	}
}

func TestRun_WritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "render.png")

	err := run(context.Background(), options{
		Scene:    "scenes/pyramid.yaml",
		Width:    16,
		Height:   9,
		Frames:   3,
		Budget:   integrator.Budget{MaxBounce: 4},
		Workers:  2,
		ToneMap:  "aces",
		Out:      out,
		LogSpans: true,
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	file, err := os.Open(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("Expected 16x9 image, got %v", b)
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	base := options{
		Scene:   "default",
		Width:   8,
		Height:  8,
		Frames:  1,
		Budget:  integrator.Budget{MaxBounce: 2},
		ToneMap: "none",
	}

	tests := []struct {
		name   string
		modify func(o *options)
	}{
		{"bad tonemap", func(o *options) { o.ToneMap = "reinhard" }},
		{"zero width", func(o *options) { o.Width = 0 }},
		{"zero frames", func(o *options) { o.Frames = 0 }},
		{"zero bounce budget", func(o *options) { o.Budget.MaxBounce = 0 }},
		{"unknown scene", func(o *options) { o.Scene = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			opts.Out = filepath.Join(t.TempDir(), "render.png")
			tt.modify(&opts)
			if err := run(context.Background(), opts); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestRun_SaveFailureStopsRender(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "render.png")
	// A directory at the output path makes every save fail
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}

	before := runtime.NumGoroutine()
	err := run(context.Background(), options{
		Scene:     "default",
		Width:     8,
		Height:    8,
		Frames:    50,
		SaveEvery: 1,
		Budget:    integrator.Budget{MaxBounce: 2},
		Workers:   2,
		ToneMap:   "none",
		Out:       out,
	})
	if err == nil {
		t.Fatal("Expected save error")
	}

	deadline := time.Now().Add(5 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("Render goroutine still running: %d goroutines, started with %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
