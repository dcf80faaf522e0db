// Implements the raster surface of the animation,
// by wrapping rasterx.
package svgraster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/sicmundu/cli-trace/bezier"
	"github.com/sicmundu/cli-trace/internal/logging"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/trace"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ trace.Drawer = (*Renderer)(nil) // assert interface conformance

// Style configures the rendering of a frame.
type Style struct {
	Width, Height int
	// StrokeWidth is in output pixels.
	StrokeWidth float64
	Stroke      color.Color
	// Background is painted first, if not nil.
	Background color.Color
	// Padding is the margin around the view, in output pixels.
	Padding float64
}

// DefaultStyle returns a black stroke on a white 400x400 image.
func DefaultStyle() Style {
	return Style{
		Width:       400,
		Height:      400,
		StrokeWidth: 2,
		Stroke:      color.Black,
		Background:  color.White,
		Padding:     8,
	}
}

// Fit returns the transform mapping view onto the rectangle at (x, y) of
// size w x h, minus padding, preserving the aspect ratio and centering.
// Views with a zero width or height are scaled on the other axis only.
func Fit(view svgpath.Bounds, x, y, w, h, padding float64) rasterx.Matrix2D {
	availW, availH := math.Max(0, w-2*padding), math.Max(0, h-2*padding)
	scale := math.Inf(1)
	if vw := view.Width(); vw > 0 {
		scale = availW / vw
	}
	if vh := view.Height(); vh > 0 {
		scale = math.Min(scale, availH/vh)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	offX := x + padding + (availW-view.Width()*scale)/2
	offY := y + padding + (availH-view.Height()*scale)/2
	return rasterx.Identity.Translate(offX, offY).Scale(scale, scale).Translate(-view.MinX, -view.MinY)
}

// Renderer strokes paths into an image.
// It implements trace.Drawer: points are in path coordinates,
// mapped to pixels by the transform.
type Renderer struct {
	dasher *rasterx.Dasher
	m      rasterx.Matrix2D
	open   bool
}

// NewRenderer returns a renderer drawing into img, whose bounds origin
// must be (0, 0), with the given stroke and transform.
func NewRenderer(img draw.Image, style Style, m rasterx.Matrix2D) *Renderer {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	rd := &Renderer{dasher: rasterx.NewDasher(w, h, scanner), m: m}
	rd.dasher.SetStroke(fixed.Int26_6(style.StrokeWidth*64), 0, rasterx.RoundCap, rasterx.RoundCap,
		rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	stroke := style.Stroke
	if stroke == nil {
		stroke = color.Black
	}
	rd.dasher.SetColor(stroke)
	return rd
}

func (rd *Renderer) toFixed(p bezier.Point) fixed.Point26_6 {
	x, y := rd.m.Transform(p.X, p.Y)
	return rasterx.ToFixedP(x, y)
}

func (rd *Renderer) Start(a bezier.Point) {
	if rd.open {
		rd.dasher.Stop(false)
	}
	rd.dasher.Start(rd.toFixed(a))
	rd.open = true
}

func (rd *Renderer) Line(b bezier.Point) {
	rd.dasher.Line(rd.toFixed(b))
}

func (rd *Renderer) CubeBezier(b, c, d bezier.Point) {
	rd.dasher.CubeBezier(rd.toFixed(b), rd.toFixed(c), rd.toFixed(d))
}

func (rd *Renderer) Stop(closeLoop bool) {
	if !rd.open {
		return
	}
	rd.dasher.Stop(closeLoop)
	rd.open = false
}

// Stroke paints the pending paths and clears them.
func (rd *Renderer) Stroke() {
	rd.Stop(false)
	rd.dasher.Draw()
	rd.dasher.Clear()
}

// RenderFrame draws the paths of scene at the given progresses.
// An empty view defaults to the bounds of the scene.
func RenderFrame(scene trace.Scene, progresses []float64, style Style, view svgpath.Bounds) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, style.Width, style.Height))
	if style.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)
	}
	if view == (svgpath.Bounds{}) {
		view = scene.Bounds()
	}
	m := Fit(view, 0, 0, float64(style.Width), float64(style.Height), style.Padding)
	rd := NewRenderer(img, style, m)
	trace.DrawAll(rd, scene.Paths, progresses, nil)
	rd.Stroke()
	return img
}

// FrameName is the file name of the frame at index i.
func FrameName(i int) string { return fmt.Sprintf("frame_%04d.png", i) }

// WritePNGSequence renders frames images evenly spread over one run
// of the scene into dir, and returns the file paths.
func WritePNGSequence(dir string, scene trace.Scene, frames int, style Style, view svgpath.Bounds) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var names []string
	for i, at := range scene.Samples(frames) {
		img := RenderFrame(scene, scene.ProgressesAt(at), style, view)
		name := filepath.Join(dir, FrameName(i))
		if err := writePNG(name, img); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	logging.Logger().Info("png sequence written", "dir", dir, "frames", len(names))
	return names, nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return f.Close()
}
