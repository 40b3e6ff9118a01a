package renderer

import (
	"image"

	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
)

// DefaultTileSize matches the 8x8 workgroup the kernel is dispatched in
const DefaultTileSize = 8

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []Tile {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}
	return tiles
}

// TileRenderer renders every pixel of a tile for one frame
type TileRenderer struct {
	scene      integrator.Scene
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene integrator.Scene, tracer integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: tracer,
	}
}

// RenderTile renders the pixels within bounds. Tiles never overlap, so
// concurrent calls on distinct tiles may share one buffer.
func (tr *TileRenderer) RenderTile(params FrameParams, camera *Camera, bounds image.Rectangle, buf *AccumBuffer) FrameStats {
	var stats FrameStats
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			result, ok := RenderPixel(params, camera, tr.scene, tr.integrator, buf, x, y)
			if !ok {
				continue
			}
			stats.addPath(result)
		}
	}
	return stats
}
