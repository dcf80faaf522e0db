// Package svganim writes the SVG surface of the animation: static
// frames and standalone HTML pages animated with CSS.
//
// Both rely on the dash offset trick: each path is given a pathLength
// of 1 and a single dash as long as the path, shifted by one minus the
// progress, so that exactly the progress fraction of the arc length is
// visible.
package svganim

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/trace"
)

// Style is shared by the outputs.
type Style struct {
	// Width and Height are the attributes of the svg element.
	// They are omitted when empty.
	Width, Height string
	// View defaults to the bounds of the scene, with a margin of
	// the stroke width.
	View        svgpath.Bounds
	Stroke      string // CSS color
	StrokeWidth float64
	Background  string // CSS color, optional
	Title       string
}

// DefaultStyle returns a black stroke of width 2.
func DefaultStyle() Style {
	return Style{Stroke: "black", StrokeWidth: 2, Title: "svgtrace"}
}

// KeyframeCount is the number of intervals sampled on one cycle.
const KeyframeCount = 40

// num formats x for the attributes and CSS rules.
func num(x float64) string {
	x = math.Round(x*1e4) / 1e4
	if x == 0 {
		x = 0 // no negative zero
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func (s Style) viewBox(scene trace.Scene) string {
	v := s.View
	if v == (svgpath.Bounds{}) {
		v = scene.Bounds()
		m := s.StrokeWidth
		v = svgpath.Bounds{MinX: v.MinX - m, MinY: v.MinY - m, MaxX: v.MaxX + m, MaxY: v.MaxY + m}
	}
	return strings.Join([]string{num(v.MinX), num(v.MinY), num(v.Width()), num(v.Height())}, " ")
}

type pathElement struct {
	ID, Class string
	D         string
	Offset    string
	Hidden    bool
}

type svgData struct {
	ID            string
	Width, Height string
	ViewBox       string
	Stroke        string
	StrokeWidth   string
	Background    string
	Paths         []pathElement
}

const svgTemplate = `{{define "svg"}}<svg xmlns="http://www.w3.org/2000/svg"{{with .ID}} id="{{.}}"{{end}} viewBox="{{.ViewBox}}"{{with .Width}} width="{{.}}"{{end}}{{with .Height}} height="{{.}}"{{end}}>
{{- with .Background}}
<rect x="0" y="0" width="100%" height="100%" fill="{{.}}"/>{{end}}
<g fill="none" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}" stroke-linecap="round" stroke-linejoin="round">
{{- range .Paths}}
<path{{with .ID}} id="{{.}}"{{end}}{{with .Class}} class="{{.}}"{{end}} d="{{.D}}" pathLength="1" stroke-dasharray="1 1"{{with .Offset}} stroke-dashoffset="{{.}}"{{end}}{{if .Hidden}} visibility="hidden"{{end}}/>
{{- end}}
</g>
</svg>{{end}}`

var templates = template.Must(template.New("svganim").Parse(svgTemplate + `
{{define "frame"}}{{template "svg" .}}
{{end}}
{{define "html"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{.CSS}}
</style>
</head>
<body>
{{template "svg" .SVG}}
</body>
</html>
{{end}}`))

func (s Style) svg(scene trace.Scene) svgData {
	return svgData{
		Width:       s.Width,
		Height:      s.Height,
		ViewBox:     s.viewBox(scene),
		Stroke:      s.Stroke,
		StrokeWidth: num(s.StrokeWidth),
		Background:  s.Background,
	}
}

// WriteFrame writes a static SVG document showing each path of scene
// at its progress.
func WriteFrame(w io.Writer, scene trace.Scene, progresses []float64, style Style) error {
	data := style.svg(scene)
	for i, m := range scene.Paths {
		p := 0.
		if i < len(progresses) {
			p = progresses[i]
		}
		data.Paths = append(data.Paths, pathElement{
			D:      m.Data.Segments.ToSVGPath(),
			Offset: num(1 - math.Max(0, math.Min(1, p))),
			Hidden: !(p > 0),
		})
	}
	return templates.ExecuteTemplate(w, "frame", data)
}

type pageData struct {
	Title string
	CSS   template.CSS
	SVG   svgData
}

// timing is the CSS animation of the paths sharing one timeline.
type timing struct {
	name     string
	delay    time.Duration
	duration time.Duration
	loop     bool
	offsets  []float64 // dash offsets at each keyframe
}

func keyframes(scene trace.Scene, i int) timing {
	tl := scene.Timeline(i)
	t := timing{delay: tl.Delay, duration: tl.Duration, loop: tl.Loop}
	for k := 0; k <= KeyframeCount; k++ {
		t.offsets = append(t.offsets, 1-scene.CycleProgress(i, float64(k)/KeyframeCount))
	}
	return t
}

func (t timing) css(b *strings.Builder) {
	fmt.Fprintf(b, "@keyframes %s {\n", t.name)
	for k, offset := range t.offsets {
		// consecutive keyframes with the same value are kept: the
		// interpolation between them is constant
		fmt.Fprintf(b, "  %s%% { stroke-dashoffset: %s; }\n", num(100*float64(k)/KeyframeCount), num(offset))
	}
	b.WriteString("}\n")
	count := "1"
	if t.loop {
		count = "infinite"
	}
	fmt.Fprintf(b, ".%s {\n  stroke-dashoffset: %s;\n  animation-name: %s;\n  animation-duration: %dms;\n  animation-delay: %dms;\n  animation-timing-function: linear;\n  animation-iteration-count: %s;\n  animation-fill-mode: both;\n}\n",
		t.name, num(t.offsets[0]), t.name, t.duration.Milliseconds(), t.delay.Milliseconds(), count)
}

// WriteHTML writes a standalone HTML page playing the animation of
// scene with CSS keyframes. Easing and direction are baked into the
// keyframes, sampled from the timelines of the scene.
// Element ids are unique, so that several pages may be merged.
func WriteHTML(w io.Writer, scene trace.Scene, style Style) error {
	id := "trace-" + uuid.NewString()
	data := pageData{Title: style.Title, SVG: style.svg(scene)}
	data.SVG.ID = id

	var css strings.Builder
	timings := len(scene.Timelines())
	for i := 0; i < timings && i < max(1, len(scene.Paths)); i++ {
		t := keyframes(scene, i)
		t.name = fmt.Sprintf("%s-%d", id, i)
		t.css(&css)
	}
	for i, m := range scene.Paths {
		data.SVG.Paths = append(data.SVG.Paths, pathElement{
			ID:    fmt.Sprintf("%s-path-%d", id, i),
			Class: fmt.Sprintf("%s-%d", id, min(i, timings-1)),
			D:     m.Data.Segments.ToSVGPath(),
		})
	}
	data.CSS = template.CSS(css.String())
	return templates.ExecuteTemplate(w, "html", data)
}
