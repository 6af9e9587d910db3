package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"coursegen/internal/course"
)

const (
	// heights are shaded across this range
	shadeMinHeight = -0.5
	shadeMaxHeight = 2.0
	shadeAmbient   = 0.55
)

var zoneColors = map[course.Zone]color.NRGBA{
	course.ZoneFairway:    {R: 0x4c, G: 0xaf, B: 0x50, A: 255},
	course.ZoneRough:      {R: 0x38, G: 0x8e, B: 0x3c, A: 255},
	course.ZoneHeavyRough: {R: 0x1b, G: 0x5e, B: 0x20, A: 255},
	course.ZoneGreen:      {R: 0x8b, G: 0xe0, B: 0x7a, A: 255},
	course.ZoneBunker:     {R: 0xe8, G: 0xd5, B: 0x9e, A: 255},
	course.ZoneTee:        {R: 0x9e, G: 0x9d, B: 0x24, A: 255},
}

// Cells is the read side of a heightmap a preview can be drawn from.
type Cells interface {
	GridWidth() int
	GridDepth() int
	Snapshot() []course.Cell
}

// SaveZoneMap writes a top-down PNG with one cellPixels square per cell,
// colored by zone and shaded by height. Row 0 (the tee end) is at the bottom.
func SaveZoneMap(grid Cells, path string, cellPixels int) error {
	if grid == nil {
		return fmt.Errorf("grid is nil")
	}
	if cellPixels <= 0 {
		return fmt.Errorf("invalid cell pixel size: %d", cellPixels)
	}
	cols, rows := grid.GridWidth()+1, grid.GridDepth()+1
	cells := grid.Snapshot()
	if len(cells) != cols*rows {
		return fmt.Errorf("grid has %d cells, want %d", len(cells), cols*rows)
	}

	img := image.NewNRGBA(image.Rect(0, 0, cols*cellPixels, rows*cellPixels))
	for i, cell := range cells {
		col, row := i%cols, i/cols
		y := (rows - 1 - row) * cellPixels
		rect := image.Rect(col*cellPixels, y, (col+1)*cellPixels, y+cellPixels)
		draw.Draw(img, rect, &image.Uniform{cellColor(cell)}, image.Point{}, draw.Src)
	}

	return writePNG(img, path)
}

func cellColor(cell course.Cell) color.NRGBA {
	base, ok := zoneColors[cell.Zone]
	if !ok {
		base = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	}
	t := (cell.Height - shadeMinHeight) / (shadeMaxHeight - shadeMinHeight)
	return applyLighting(base, shadeAmbient+(1-shadeAmbient)*clamp(t, 0, 1))
}

func applyLighting(base color.NRGBA, factor float64) color.NRGBA {
	factor = clamp(factor, 0, 1)
	r := uint8(math.Round(float64(base.R) * factor))
	g := uint8(math.Round(float64(base.G) * factor))
	b := uint8(math.Round(float64(base.B) * factor))
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func writePNG(img image.Image, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preview directory: %w", err)
	}
	return nil
}
