package preview

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"coursegen/internal/config"
	"coursegen/internal/course"
	"coursegen/internal/terrain"
)

func TestSaveZoneMapDrawsTeeAtBottom(t *testing.T) {
	grid := course.NewGrid(2, 3, 1)
	grid.Init()
	grid.SetData(0, 0, 0.2, course.ZoneTee)
	grid.SetData(2, 3, -0.5, course.ZoneBunker)

	path := filepath.Join(t.TempDir(), "nested", "zones.png")
	if err := SaveZoneMap(grid, path, 4); err != nil {
		t.Fatalf("SaveZoneMap: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open preview: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 12 || got.Y != 16 {
		t.Fatalf("preview size = %v, want 12x16", got)
	}

	tee := color.NRGBAModel.Convert(img.At(1, 15)).(color.NRGBA)
	if want := cellColor(course.Cell{Height: 0.2, Zone: course.ZoneTee}); tee != want {
		t.Fatalf("bottom-left pixel = %v, want tee %v", tee, want)
	}
	bunker := color.NRGBAModel.Convert(img.At(10, 0)).(color.NRGBA)
	if want := cellColor(course.Cell{Height: -0.5, Zone: course.ZoneBunker}); bunker != want {
		t.Fatalf("top-right pixel = %v, want bunker %v", bunker, want)
	}
}

func TestSaveZoneMapRejectsBadInput(t *testing.T) {
	grid := course.NewGrid(2, 2, 1)
	path := filepath.Join(t.TempDir(), "zones.png")
	if err := SaveZoneMap(grid, path, 4); err == nil {
		t.Fatalf("expected error for uninitialised grid")
	}
	grid.Init()
	if err := SaveZoneMap(grid, path, 0); err == nil {
		t.Fatalf("expected error for zero cell pixels")
	}
}

func TestCellColorShadesByHeight(t *testing.T) {
	low := cellColor(course.Cell{Height: 0.5, Zone: course.ZoneFairway})
	high := cellColor(course.Cell{Height: 1.9, Zone: course.ZoneFairway})
	if high.G <= low.G {
		t.Fatalf("higher cells should render brighter: low=%v high=%v", low, high)
	}
}

func TestSavePlacementPlot(t *testing.T) {
	templates := course.NewTemplates(
		course.Template{ID: "pine_tall", Kind: config.KindTree},
		course.Template{ID: "tee_marker", Kind: config.KindMarker},
	)
	scene := course.NewScene()
	for i, pos := range []mgl64.Vec3{{10, 0, 40}, {150, 0, 90}, {30, 0, 200}} {
		inst, err := templates.Instantiate("pine_tall", pos, float64(i*90), 1)
		if err != nil {
			t.Fatalf("instantiate: %v", err)
		}
		scene.Add(inst)
	}
	tee, _ := templates.Instantiate("tee_marker", mgl64.Vec3{100, 0.5, 20}, 0, 1)
	scene.Add(tee)

	curve := terrain.NewCurve(mgl64.Vec2{100, 20}, mgl64.Vec2{80, 150}, mgl64.Vec2{60, 310})
	path := filepath.Join(t.TempDir(), "layout.png")
	if err := SavePlacementPlot(scene, curve, NewPalette(config.DefaultTemplates()), path); err != nil {
		t.Fatalf("SavePlacementPlot: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat plot: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file is empty")
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{in: "#3FA34D", want: color.NRGBA{R: 0x3f, G: 0xa3, B: 0x4d, A: 255}, ok: true},
		{in: "8b5a2b", want: color.NRGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 255}, ok: true},
		{in: "#abc"},
		{in: "#zzzzzz"},
		{in: ""},
	}
	for _, tc := range cases {
		got, ok := parseHexColor(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseHexColor(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
