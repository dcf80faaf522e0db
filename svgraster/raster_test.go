package svgraster

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/trace"
)

func lineScene(opts trace.Options) trace.Scene {
	return trace.NewScene(svgpath.FromStrings([]string{"M 0 0 L 100 0"}, svgpath.Options{}), opts)
}

func isInked(img image.Image, x, y int) bool {
	r, _, _, _ := img.At(x, y).RGBA()
	return r < 0x8000
}

func countInked(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isInked(img, x, y) {
				n++
			}
		}
	}
	return n
}

func TestFit(t *testing.T) {
	m := Fit(svgpath.Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}, 0, 0, 220, 120, 10)
	if x, y := m.Transform(0, 0); x != 10 || y != 10 {
		t.Errorf("expected (10,10), got (%g,%g)", x, y)
	}
	if x, y := m.Transform(100, 50); x != 210 || y != 110 {
		t.Errorf("expected (210,110), got (%g,%g)", x, y)
	}

	// centered on the short axis, shifted by the origin
	m = Fit(svgpath.Bounds{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}, 5, 5, 40, 20, 0)
	if x, y := m.Transform(10, 10); x != 15 || y != 5 {
		t.Errorf("expected (15,5), got (%g,%g)", x, y)
	}

	// a horizontal line only scales on x
	m = Fit(svgpath.Bounds{MaxX: 100}, 0, 0, 120, 20, 10)
	if x, y := m.Transform(100, 0); x != 110 || y != 10 {
		t.Errorf("expected (110,10), got (%g,%g)", x, y)
	}
}

func TestRenderFrame(t *testing.T) {
	style := DefaultStyle()
	style.Width, style.Height, style.Padding, style.StrokeWidth = 120, 20, 10, 4
	scene := lineScene(trace.DefaultOptions())

	img := RenderFrame(scene, []float64{0}, style, svgpath.Bounds{})
	if n := countInked(img); n != 0 {
		t.Errorf("nothing should be drawn at 0, got %d pixels", n)
	}

	img = RenderFrame(scene, []float64{0.5}, style, svgpath.Bounds{})
	for _, x := range []int{15, 35, 55} {
		if !isInked(img, x, 10) {
			t.Errorf("expected ink at (%d,10)", x)
		}
	}
	for _, x := range []int{70, 100} {
		if isInked(img, x, 10) {
			t.Errorf("expected background at (%d,10)", x)
		}
	}
	half := countInked(img)

	img = RenderFrame(scene, []float64{1}, style, svgpath.Bounds{})
	if !isInked(img, 100, 10) {
		t.Error("expected ink at the end of the line")
	}
	if full := countInked(img); full <= half {
		t.Errorf("full drawing should cover more than the half one: %d <= %d", full, half)
	}
}

func TestWritePNGSequence(t *testing.T) {
	opts := trace.DefaultOptions()
	opts.Duration = time.Second
	style := DefaultStyle()
	style.Width, style.Height = 60, 30

	dir := filepath.Join(t.TempDir(), "frames")
	names, err := WritePNGSequence(dir, lineScene(opts), 3, style, svgpath.Bounds{})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 || filepath.Base(names[2]) != "frame_0002.png" {
		t.Fatalf("unexpected files %v", names)
	}

	var inked []int
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 30 {
			t.Errorf("unexpected size %v", b)
		}
		inked = append(inked, countInked(img))
	}
	if !(inked[0] == 0 && inked[0] < inked[1] && inked[1] < inked[2]) {
		t.Errorf("frames should draw more and more: %v", inked)
	}
}
