package cli

import (
	"flag"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/sicmundu/cli-trace/easing"
	"github.com/sicmundu/cli-trace/internal/config"
	"github.com/sicmundu/cli-trace/svgdoc"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/svgterm"
	"github.com/sicmundu/cli-trace/timeline"
	"github.com/sicmundu/cli-trace/trace"
)

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, " ") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

// input holds the flags common to all the commands.
type input struct {
	svg          string
	paths        stringList
	durationMS   int
	delayMS      int
	staggerMS    int
	loop         bool
	easing       string
	direction    string
	strokeWidth  float64
	color        string
	globalTiming bool
	arcs         string
	shapes       bool
	verbose      bool
}

func (in *input) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&in.svg, "svg", "", "SVG `file` to read the paths from")
	fs.Var(&in.paths, "path", "path `data`, may be repeated")
	fs.IntVar(&in.durationMS, "duration", cfg.DurationMS, "duration of one run, in `ms`")
	fs.IntVar(&in.delayMS, "delay", cfg.DelayMS, "delay before the animation starts, in `ms`")
	fs.IntVar(&in.staggerMS, "stagger", 0, "delay between the starts of consecutive paths, in `ms`, without global timing")
	fs.BoolVar(&in.loop, "loop", false, "repeat the animation")
	fs.StringVar(&in.easing, "easing", cfg.Easing, "easing name or cubic-bezier(x1, y1, x2, y2)")
	fs.StringVar(&in.direction, "direction", cfg.Direction, "forward, reverse or yoyo")
	fs.Float64Var(&in.strokeWidth, "stroke-width", cfg.StrokeWidth, "stroke width")
	fs.StringVar(&in.color, "color", cfg.Color, "stroke color, as #rrggbb or a name")
	fs.BoolVar(&in.globalTiming, "global-timing", true, "share one timeline between all the paths")
	fs.StringVar(&in.arcs, "arcs", "line", "conversion of elliptical arcs: line or curves")
	fs.BoolVar(&in.shapes, "shapes", false, "also trace rect, circle, ellipse, line, polyline and polygon elements")
	fs.BoolVar(&in.verbose, "verbose", false, "log debug information")
}

// loaded is the result of reading the input flags.
type loaded struct {
	doc   svgdoc.Document
	scene trace.Scene
	// view is the viewBox of the document, if any
	view   svgpath.Bounds
	stroke color.RGBA
	title  string
}

func (in *input) options() (trace.Options, error) {
	opts := trace.DefaultOptions()
	opts.Duration = time.Duration(in.durationMS) * time.Millisecond
	opts.Delay = time.Duration(in.delayMS) * time.Millisecond
	opts.Stagger = time.Duration(in.staggerMS) * time.Millisecond
	opts.Loop = in.loop
	opts.StrokeWidth = in.strokeWidth
	opts.GlobalTiming = in.globalTiming

	var err error
	if opts.Easing, err = easing.ParseSpec(in.easing); err != nil {
		return opts, err
	}
	if opts.Direction, err = timeline.ParseDirection(in.direction); err != nil {
		return opts, err
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

func (in *input) parseOptions() (svgpath.Options, error) {
	switch in.arcs {
	case "line":
		return svgpath.Options{Arcs: svgpath.ArcAsLine}, nil
	case "curves":
		return svgpath.Options{Arcs: svgpath.ArcAsCurves}, nil
	}
	return svgpath.Options{}, fmt.Errorf("invalid arcs mode %q (expected line or curves)", in.arcs)
}

func (in *input) extractor() svgdoc.Extractor {
	if in.shapes {
		return svgdoc.XMLExtractor{ErrorMode: svgdoc.WarnErrorMode, Shapes: true}
	}
	return svgdoc.RegexExtractor{}
}

// load reads the document and the path flags, and builds the scene.
// Finding no path at all is an error.
func (in *input) load() (loaded, error) {
	var out loaded
	opts, err := in.options()
	if err != nil {
		return out, err
	}
	parseOpts, err := in.parseOptions()
	if err != nil {
		return out, err
	}
	if out.stroke, err = svgterm.ParseColor(in.color); err != nil {
		return out, err
	}

	out.title = "svgtrace"
	if in.svg != "" {
		if out.doc, err = svgdoc.ReadFile(in.svg, in.extractor()); err != nil {
			return out, err
		}
		out.title = strings.TrimSuffix(filepath.Base(in.svg), filepath.Ext(in.svg))
		if out.doc.Title != "" {
			out.title = out.doc.Title
		}
		if !out.doc.ViewBox.Empty() {
			out.view = out.doc.ViewBox.Bounds()
		}
	}
	out.doc.Paths = append(out.doc.Paths, in.paths...)
	if err := out.doc.Validate(); err != nil {
		return out, err
	}

	out.scene = trace.NewScene(svgpath.FromStrings(out.doc.Paths, parseOpts), opts)
	return out, nil
}
