// Package svgterm renders the animation in text terminals, with
// Braille characters: each cell shows a 2x4 grid of dots.
package svgterm

import (
	"image"
	"image/color"
	"strings"

	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/svgraster"
	"github.com/sicmundu/cli-trace/trace"
)

// braille is the first character of the Unicode Braille block,
// with no dot raised.
const braille = '⠀'

// dotBits[y][x] is the bit of the dot at (x, y) in a cell.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of cells, addressed by dots.
type Canvas struct {
	cols, rows int
	cells      []rune // dot bits of each cell
}

// NewCanvas returns an empty canvas of cols x rows characters,
// that is 2*cols x 4*rows dots.
func NewCanvas(cols, rows int) *Canvas {
	cols, rows = max(1, cols), max(1, rows)
	return &Canvas{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
}

// Size returns the dimensions in dots.
func (c *Canvas) Size() (w, h int) { return 2 * c.cols, 4 * c.rows }

// Clear lowers every dot.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = 0
	}
}

// Set raises the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.cols || y >= 4*c.rows {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= dotBits[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is raised.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= 2*c.cols || y >= 4*c.rows {
		return false
	}
	return c.cells[(y/4)*c.cols+x/2]&dotBits[y%4][x%2] != 0
}

// Threshold is the minimum alpha of a pixel raising a dot.
const Threshold = 0x4000

// Load raises the dots of the opaque enough pixels of img, which
// is read from its bounds origin.
func (c *Canvas) Load(img image.Image) {
	b := img.Bounds()
	w, h := c.Size()
	for y := 0; y < h && b.Min.Y+y < b.Max.Y; y++ {
		for x := 0; x < w && b.Min.X+x < b.Max.X; x++ {
			if _, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA(); a >= Threshold {
				c.Set(x, y)
			}
		}
	}
}

// Lines returns the rows of characters.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	var sb strings.Builder
	for r := range out {
		sb.Reset()
		for _, bits := range c.cells[r*c.cols : (r+1)*c.cols] {
			sb.WriteRune(braille + bits)
		}
		out[r] = sb.String()
	}
	return out
}

func (c *Canvas) String() string { return strings.Join(c.Lines(), "\n") }

// Rasterize draws the scene at the given progresses on c, through
// an intermediate image of one pixel per dot. strokeWidth is in dots.
func (c *Canvas) Rasterize(scene trace.Scene, progresses []float64, view svgpath.Bounds, strokeWidth float64) {
	w, h := c.Size()
	img := svgraster.RenderFrame(scene, progresses, svgraster.Style{
		Width:       w,
		Height:      h,
		StrokeWidth: strokeWidth,
		Stroke:      color.Black,
		Padding:     1,
	}, view)
	c.Clear()
	c.Load(img)
}
