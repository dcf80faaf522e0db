package svgterm

import (
	"bufio"
	"image/color"
	"io"
	"os"

	"github.com/sicmundu/cli-trace/internal/logging"
	"golang.org/x/term"
)

// Default dimensions, used when the size of the output is unknown.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// Capabilities describes an output stream.
type Capabilities struct {
	TTY        bool
	Cols, Rows int
	Color      ColorMode
}

// Probe inspects f, falling back to the default size and no color
// for outputs which are not terminals.
func Probe(f *os.File, getenv func(string) string) Capabilities {
	caps := Capabilities{Cols: DefaultCols, Rows: DefaultRows}
	fd := int(f.Fd())
	caps.TTY = term.IsTerminal(fd)
	if caps.TTY {
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
			caps.Cols, caps.Rows = w, h
		} else {
			logging.Logger().Debug("terminal size unavailable", "error", err)
		}
	}
	caps.Color = DetectColorMode(getenv, caps.TTY)
	return caps
}

// Terminal writes frames to a text output.
// Interactive terminals redraw each frame in place, other outputs
// get the frames one after the other.
type Terminal struct {
	w           *bufio.Writer
	Mode        ColorMode
	Color       color.Color
	Interactive bool
	frames      int
}

// NewTerminal returns a terminal writing to w.
func NewTerminal(w io.Writer, mode ColorMode, c color.Color, interactive bool) *Terminal {
	return &Terminal{w: bufio.NewWriter(w), Mode: mode, Color: c, Interactive: interactive}
}

const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// WriteFrame writes the content of c and flushes the output.
func (t *Terminal) WriteFrame(c *Canvas) error {
	switch {
	case t.Interactive && t.frames == 0:
		t.w.WriteString(hideCursor + clearScreen + cursorHome)
	case t.Interactive:
		t.w.WriteString(cursorHome)
	case t.frames > 0:
		t.w.WriteString("\n")
	}
	t.frames++

	t.w.WriteString(t.Mode.Foreground(t.Color))
	for i, line := range c.Lines() {
		if i > 0 {
			t.w.WriteString("\n")
		}
		t.w.WriteString(line)
	}
	t.w.WriteString(t.Mode.Reset())
	t.w.WriteString("\n")
	return t.w.Flush()
}

// Close restores the cursor of interactive terminals.
func (t *Terminal) Close() error {
	if t.Interactive && t.frames > 0 {
		t.w.WriteString(showCursor)
	}
	return t.w.Flush()
}
