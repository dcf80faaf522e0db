// Implements a PDF surface of the animation,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/sicmundu/cli-trace/bezier"
	"github.com/sicmundu/cli-trace/internal/logging"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/svgraster"
	"github.com/sicmundu/cli-trace/trace"
	"github.com/srwiley/rasterx"
)

var _ trace.Drawer = (*Renderer)(nil) // assert interface conformance

// Renderer writes path construction operators on the current page
// of a PDF document. Points are mapped to page units by the transform.
type Renderer struct {
	pdf *gofpdf.Fpdf
	m   rasterx.Matrix2D

	a      bezier.Point // current point, in page units
	extent bezier.Rect  // of the geometry drawn since the last Clear
	drawn  bool
}

// NewRenderer returns a renderer which will write to the given `pdf`.
func NewRenderer(pdf *gofpdf.Fpdf, m rasterx.Matrix2D) *Renderer {
	return &Renderer{pdf: pdf, m: m}
}

func (p *Renderer) apply(a bezier.Point) bezier.Point {
	x, y := p.m.Transform(a.X, a.Y)
	return bezier.Pt(x, y)
}

func (p *Renderer) extend(r bezier.Rect) {
	if !p.drawn {
		p.extent, p.drawn = r, true
		return
	}
	p.extent = p.extent.Union(r)
}

// Clear forgets the extent of the geometry drawn so far.
func (p *Renderer) Clear() {
	p.extent, p.drawn = bezier.Rect{}, false
}

// Extent returns the exact bounding box of the geometry drawn since the
// last Clear, in page units.
func (p *Renderer) Extent() (bezier.Rect, bool) { return p.extent, p.drawn }

func (p *Renderer) Start(a bezier.Point) {
	a = p.apply(a)
	p.pdf.MoveTo(a.X, a.Y)
	p.a = a
	p.extend(bezier.Rect{Min: a, Max: a}) // degenerate case
}

func (p *Renderer) Line(b bezier.Point) {
	b = p.apply(b)
	p.pdf.LineTo(b.X, b.Y)
	p.extend(bezier.Rect{Min: p.a, Max: p.a}.Extend(b))
	p.a = b
}

func (p *Renderer) CubeBezier(b, c, d bezier.Point) {
	b, c, d = p.apply(b), p.apply(c), p.apply(d)
	p.pdf.CurveBezierCubicTo(b.X, b.Y, c.X, c.Y, d.X, d.Y)
	p.extend(bezier.NewCubic(p.a, b, c, d).TightBounds())
	p.a = d
}

func (p *Renderer) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

// Stroke paints the current path, if anything was drawn.
func (p *Renderer) Stroke() {
	if p.drawn {
		p.pdf.DrawPath("D")
	}
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.Color) {
	r, g, b, _ := c.RGBA()
	pdf.SetDrawColor(int(r>>8), int(g>>8), int(b>>8))
}

// Sheet lays out frames of the animation in a grid,
// on A4 portrait pages.
type Sheet struct {
	Columns, Rows int
	Frames        int
	// StrokeWidth is in millimeters.
	StrokeWidth float64
	Stroke      color.Color
	Title       string
	// View is the region of the paths shown in each cell.
	// An empty view defaults to the bounds of the scene.
	View svgpath.Bounds
}

// DefaultSheet returns a 3x4 grid of 12 frames.
func DefaultSheet() Sheet {
	return Sheet{Columns: 3, Rows: 4, Frames: 12, StrokeWidth: 0.5, Stroke: color.Black}
}

const (
	margin     = 10.
	headerSize = 8.  // height of the title line
	labelSize  = 5.  // height of the caption of a cell
	cellMargin = 2.0 // padding of the drawing in a cell
)

type cell struct{ x, y, w, h float64 }

// cellAt returns the rectangle of the i-th cell of a page.
func (s Sheet) cellAt(i int, pageW, pageH float64) cell {
	w := (pageW - 2*margin) / float64(s.Columns)
	h := (pageH - 2*margin - headerSize) / float64(s.Rows)
	col, row := i%s.Columns, i/s.Columns
	return cell{x: margin + float64(col)*w, y: margin + headerSize + float64(row)*h, w: w, h: h}
}

// WriteContactSheet renders the sheet and writes the PDF document to w.
func WriteContactSheet(w io.Writer, scene trace.Scene, sheet Sheet) error {
	pdf, err := Render(scene, sheet)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// Render lays out sheet.Frames instants, evenly spread over one run
// of the scene, in a new document.
func Render(scene trace.Scene, sheet Sheet) (*gofpdf.Fpdf, error) {
	if sheet.Columns <= 0 || sheet.Rows <= 0 {
		return nil, fmt.Errorf("invalid grid %dx%d", sheet.Columns, sheet.Rows)
	}
	if sheet.Frames <= 0 {
		return nil, errors.New("no frame to render")
	}
	if sheet.Stroke == nil {
		sheet.Stroke = color.Black
	}
	if sheet.Title == "" {
		sheet.Title = "svgtrace"
	}
	view := sheet.View
	if view == (svgpath.Bounds{}) {
		view = scene.Bounds()
	}

	pdf := newDocument(sheet.Title)
	pageW, pageH := pdf.GetPageSize()
	perPage := sheet.Columns * sheet.Rows
	samples := scene.Samples(sheet.Frames)
	pages := (len(samples) + perPage - 1) / perPage
	for i, at := range samples {
		index := i % perPage
		if index == 0 {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(0, 0, 0)
			pdf.Text(margin, margin+headerSize/2, fmt.Sprintf("%s (%d/%d)", sheet.Title, i/perPage+1, pages))
		}
		c := sheet.cellAt(index, pageW, pageH)

		pdf.SetLineWidth(0.1)
		pdf.SetDrawColor(200, 200, 200)
		pdf.Rect(c.x, c.y, c.w, c.h, "D")
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(100, 100, 100)
		pdf.Text(c.x+1, c.y+c.h-1.5, fmt.Sprintf("#%d  %s", i, at))

		pdf.SetLineWidth(sheet.StrokeWidth)
		setDrawColor(pdf, sheet.Stroke)
		m := svgraster.Fit(view, c.x, c.y, c.w, c.h-labelSize, cellMargin)
		rd := NewRenderer(pdf, m)
		trace.DrawAll(rd, scene.Paths, scene.ProgressesAt(at), nil)
		rd.Stroke()
	}
	if err := pdf.Error(); err != nil {
		return nil, err
	}
	logging.Logger().Info("contact sheet rendered", "frames", len(samples), "pages", pages)
	return pdf, nil
}

func newDocument(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("svgtrace", true)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	return pdf
}
