package preview

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"coursegen/internal/config"
	"coursegen/internal/course"
	"coursegen/internal/terrain"
)

const centerlineSamples = 64

// Palette maps a template identifier to its hex color.
type Palette map[string]string

func NewPalette(defs []config.TemplateDefinition) Palette {
	palette := make(Palette, len(defs))
	for _, def := range defs {
		palette[def.ID] = def.Color
	}
	return palette
}

// SavePlacementPlot charts the sampled centerline and every placed root
// instance, one series per template kind, in world x/z.
func SavePlacementPlot(scene *course.Scene, curve terrain.Curve, palette Palette, path string) error {
	if scene == nil {
		return fmt.Errorf("scene is nil")
	}

	p := plot.New()
	p.Title.Text = "Hole layout"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "z (m)"
	p.Legend.Top = true

	centerline := make(plotter.XYs, 0, centerlineSamples+1)
	for _, pt := range curve.Sample(centerlineSamples) {
		centerline = append(centerline, plotter.XY{X: pt[0], Y: pt[1]})
	}
	line, err := plotter.NewLine(centerline)
	if err != nil {
		return fmt.Errorf("centerline: %w", err)
	}
	line.Width = vg.Points(1.5)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	line.Color = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	p.Add(line)
	p.Legend.Add("centerline", line)

	byKind := make(map[string]plotter.XYs)
	colors := make(map[string]color.NRGBA)
	for _, inst := range scene.Instances() {
		byKind[inst.Kind] = append(byKind[inst.Kind], plotter.XY{X: inst.Position[0], Y: inst.Position[2]})
		if _, ok := colors[inst.Kind]; !ok {
			if col, ok := parseHexColor(palette[inst.Template]); ok {
				colors[inst.Kind] = col
			}
		}
	}
	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		scatter, err := plotter.NewScatter(byKind[kind])
		if err != nil {
			return fmt.Errorf("%s series: %w", kind, err)
		}
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		if col, ok := colors[kind]; ok {
			scatter.GlyphStyle.Color = col
		}
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("%s (%d)", kind, len(byKind[kind])), scatter)
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("save placement plot: %w", err)
	}
	return nil
}

func parseHexColor(value string) (color.NRGBA, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(trimmed) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}
