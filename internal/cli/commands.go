package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sicmundu/cli-trace/internal/logging"
	"github.com/sicmundu/cli-trace/internal/preview"
	"github.com/sicmundu/cli-trace/svganim"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/svgpdf"
	"github.com/sicmundu/cli-trace/svgraster"
	"github.com/sicmundu/cli-trace/svgterm"
	"github.com/sicmundu/cli-trace/trace"
)

// liveStrokeWidth is the width of the strokes in the terminal, in
// Braille dots.
const liveStrokeWidth = 2

func setupLive(fs *flag.FlagSet, e *env) func(context.Context) error {
	fps := fs.Int("fps", e.cfg.FPS, "frames per second")
	cols := fs.Int("cols", 0, "width in characters (default: terminal width)")
	rows := fs.Int("rows", 0, "height in lines (default: terminal height)")
	colorMode := fs.String("color-mode", e.cfg.ColorMode, "auto, none, 16, 256 or truecolor")

	return func(ctx context.Context) error {
		in, err := e.in.load()
		if err != nil {
			return err
		}
		mode, explicit, err := svgterm.ParseColorMode(*colorMode)
		if err != nil {
			return err
		}

		caps := svgterm.Capabilities{Cols: svgterm.DefaultCols, Rows: svgterm.DefaultRows}
		if f, ok := e.stdout.(*os.File); ok {
			caps = svgterm.Probe(f, os.Getenv)
		}
		switch {
		case !explicit:
			mode = caps.Color
		case caps.TTY:
			mode = mode.Limit(caps.Color)
		}
		if caps.TTY {
			caps.Rows-- // keep the prompt line
		}
		if *cols > 0 {
			caps.Cols = *cols
		}
		if *rows > 0 {
			caps.Rows = *rows
		}
		if caps.Cols <= 0 || caps.Rows <= 0 {
			return fmt.Errorf("invalid terminal size %dx%d", caps.Cols, caps.Rows)
		}

		canvas := svgterm.NewCanvas(caps.Cols, caps.Rows)
		term := svgterm.NewTerminal(e.stdout, mode, in.stroke, caps.TTY)
		_, err = trace.NewPlayer(*fps).Run(ctx, trace.TickerClock{}, in.scene, func(f trace.Frame) error {
			canvas.Rasterize(f.Scene, f.Progresses, in.view, liveStrokeWidth)
			return term.WriteFrame(canvas)
		})
		if cerr := term.Close(); err == nil {
			err = cerr
		}
		if errors.Is(err, context.Canceled) {
			return nil // interrupted by the user
		}
		return err
	}
}

func setupExport(fs *flag.FlagSet, e *env) func(context.Context) error {
	format := fs.String("format", "png", "png, svg or pdf")
	out := fs.String("out", "", "output directory for png and svg, file for pdf (default: frames or trace.pdf)")
	frames := fs.Int("frames", 12, "number of frames")
	width := fs.Int("width", e.cfg.Width, "image width, in pixels")
	height := fs.Int("height", e.cfg.Height, "image height, in pixels")

	return func(ctx context.Context) error {
		in, err := e.in.load()
		if err != nil {
			return err
		}
		if *frames <= 0 {
			return fmt.Errorf("invalid frame count %d", *frames)
		}
		if *width <= 0 || *height <= 0 {
			return fmt.Errorf("invalid size %dx%d", *width, *height)
		}

		switch *format {
		case "png":
			dir := *out
			if dir == "" {
				dir = "frames"
			}
			style := svgraster.DefaultStyle()
			style.Width, style.Height = *width, *height
			style.StrokeWidth = e.in.strokeWidth
			style.Stroke = in.stroke
			names, err := svgraster.WritePNGSequence(dir, in.scene, *frames, style, in.view)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "wrote %d frames to %s\n", len(names), dir)
		case "svg":
			dir := *out
			if dir == "" {
				dir = "frames"
			}
			n, err := writeSVGSequence(dir, in, e.in.color, *frames, *width, *height)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "wrote %d frames to %s\n", n, dir)
		case "pdf":
			name := *out
			if name == "" {
				name = "trace.pdf"
			}
			sheet := svgpdf.DefaultSheet()
			sheet.Frames = *frames
			sheet.Stroke = in.stroke
			sheet.Title = in.title
			sheet.View = in.view
			if err := writeFile(name, func(w io.Writer) error {
				return svgpdf.WriteContactSheet(w, in.scene, sheet)
			}); err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "wrote %d frames to %s\n", *frames, name)
		default:
			return fmt.Errorf("unknown format %q (expected png, svg or pdf)", *format)
		}
		return nil
	}
}

func svgStyle(in loaded, stroke string, width, height int) svganim.Style {
	style := svganim.DefaultStyle()
	style.Width, style.Height = strconv.Itoa(width), strconv.Itoa(height)
	style.View = in.view
	style.Stroke = stroke
	style.StrokeWidth = in.scene.Options.StrokeWidth
	style.Title = in.title
	return style
}

func writeSVGSequence(dir string, in loaded, stroke string, frames, width, height int) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	style := svgStyle(in, stroke, width, height)
	for i, at := range in.scene.Samples(frames) {
		name := filepath.Join(dir, fmt.Sprintf("frame_%04d.svg", i))
		err := writeFile(name, func(w io.Writer) error {
			return svganim.WriteFrame(w, in.scene, in.scene.ProgressesAt(at), style)
		})
		if err != nil {
			return i, err
		}
	}
	logging.Logger().Info("svg sequence written", "dir", dir, "frames", frames)
	return frames, nil
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

func setupHTML(fs *flag.FlagSet, e *env) func(context.Context) error {
	out := fs.String("out", "", "output `file` (default: standard output)")
	width := fs.Int("width", e.cfg.Width, "width of the drawing, in pixels")
	height := fs.Int("height", e.cfg.Height, "height of the drawing, in pixels")

	return func(ctx context.Context) error {
		in, err := e.in.load()
		if err != nil {
			return err
		}
		style := svgStyle(in, e.in.color, *width, *height)
		if *out == "" {
			return svganim.WriteHTML(e.stdout, in.scene, style)
		}
		return writeFile(*out, func(w io.Writer) error {
			return svganim.WriteHTML(w, in.scene, style)
		})
	}
}

var commandOrder = []svgpath.Command{svgpath.MoveTo, svgpath.LineTo, svgpath.CubicTo, svgpath.QuadTo, svgpath.Close}

func formatBounds(b svgpath.Bounds) string {
	return fmt.Sprintf("(%g, %g) - (%g, %g)", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

func setupInfo(fs *flag.FlagSet, e *env) func(context.Context) error {
	return func(ctx context.Context) error {
		in, err := e.in.load()
		if err != nil {
			return err
		}
		w := e.stdout
		fmt.Fprintf(w, "title: %s\n", in.title)
		fmt.Fprintf(w, "paths: %d\n", len(in.scene.Paths))
		for i, m := range in.scene.Paths {
			counts := m.Data.Counts()
			fmt.Fprintf(w, "path %d: %d segments (", i, m.Len())
			sep := ""
			for _, c := range commandOrder {
				if counts[c] != 0 {
					fmt.Fprintf(w, "%s%s %d", sep, c, counts[c])
					sep = ", "
				}
			}
			fmt.Fprintf(w, ")\n  length: %.3f (approximate %.3f)\n", m.Total, m.Data.TotalLength)
			fmt.Fprintf(w, "  bounds: %s (tight %s)\n", formatBounds(m.Data.Bounds), formatBounds(svgpath.TightBounds(m.Data.Segments)))
		}
		fmt.Fprintf(w, "bounds: %s\n", formatBounds(in.scene.Bounds()))
		if v := in.doc.ViewBox; !v.Empty() {
			fmt.Fprintf(w, "viewBox: %g %g %g %g\n", v.X, v.Y, v.W, v.H)
		}
		opts := in.scene.Options
		fmt.Fprintf(w, "timing: %s, total %s, easing %s, direction %s, loop %t\n",
			opts.Duration, opts.TotalDuration(len(in.scene.Paths)), opts.Easing, opts.Direction, opts.Loop)
		return nil
	}
}

func setupServe(fs *flag.FlagSet, e *env) func(context.Context) error {
	addr := fs.String("addr", e.cfg.Addr, "listen `address`")
	fps := fs.Int("fps", e.cfg.FPS, "frames per second of the preview")
	width := fs.Int("width", e.cfg.Width, "frame width, in pixels")
	height := fs.Int("height", e.cfg.Height, "frame height, in pixels")

	return func(ctx context.Context) error {
		in, err := e.in.load()
		if err != nil {
			return err
		}
		style := svgraster.DefaultStyle()
		style.Width, style.Height = *width, *height
		style.StrokeWidth = e.in.strokeWidth
		style.Stroke = in.stroke
		srv := &preview.Server{
			Scene: in.scene,
			Style: style,
			View:  in.view,
			Title: in.title,
			FPS:   *fps,
		}
		return srv.ListenAndServe(ctx, *addr)
	}
}
