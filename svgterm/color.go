package svgterm

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/sicmundu/cli-trace/internal/logging"
	"golang.org/x/image/colornames"
)

// ColorMode is the color capability of a terminal.
type ColorMode uint8

const (
	NoColor ColorMode = iota
	ANSI16
	ANSI256
	TrueColor
)

func (m ColorMode) String() string {
	switch m {
	case NoColor:
		return "none"
	case ANSI16:
		return "16"
	case ANSI256:
		return "256"
	case TrueColor:
		return "truecolor"
	default:
		return fmt.Sprintf("<unknown ColorMode %d>", m)
	}
}

// ErrUnknownColorMode is returned by ParseColorMode.
var ErrUnknownColorMode = errors.New("unknown color mode")

// ParseColorMode reads a mode name. "auto" and the empty string
// return ok == false: the mode should be detected.
func ParseColorMode(s string) (mode ColorMode, ok bool, err error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return NoColor, false, nil
	case "none", "no", "off":
		return NoColor, true, nil
	case "16", "ansi", "ansi16":
		return ANSI16, true, nil
	case "256", "ansi256":
		return ANSI256, true, nil
	case "truecolor", "24bit":
		return TrueColor, true, nil
	}
	return NoColor, false, fmt.Errorf("%w: %q", ErrUnknownColorMode, s)
}

// DetectColorMode guesses the capability of the terminal from the
// environment, read with getenv. Outputs which are not terminals get
// no color.
func DetectColorMode(getenv func(string) string, isTTY bool) ColorMode {
	switch {
	case !isTTY:
		return NoColor
	case getenv("NO_COLOR") != "":
		return NoColor
	}
	switch strings.ToLower(getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return TrueColor
	}
	term := getenv("TERM")
	switch {
	case term == "" || term == "dumb":
		return NoColor
	case strings.Contains(term, "256color"):
		return ANSI256
	}
	return ANSI16
}

// Limit returns m, downgraded to supported if needed.
func (m ColorMode) Limit(supported ColorMode) ColorMode {
	if m <= supported {
		return m
	}
	logging.Logger().Warn("color mode downgraded", "requested", m, "supported", supported)
	return supported
}

const reset = "\x1b[0m"

func scale(v uint32, levels float64) int {
	return int(math.Round(float64(v>>8) / 255 * levels))
}

// Foreground returns the escape sequence selecting c as text color,
// or the empty string with no color.
func (m ColorMode) Foreground(c color.Color) string {
	if c == nil {
		return ""
	}
	r, g, b, _ := c.RGBA()
	switch m {
	case TrueColor:
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r>>8, g>>8, b>>8)
	case ANSI256:
		return fmt.Sprintf("\x1b[38;5;%dm", 16+36*scale(r, 5)+6*scale(g, 5)+scale(b, 5))
	case ANSI16:
		code := scale(r, 1) | scale(g, 1)<<1 | scale(b, 1)<<2
		return fmt.Sprintf("\x1b[%dm", 30+code)
	}
	return ""
}

// Reset returns the sequence restoring the default colors.
func (m ColorMode) Reset() string {
	if m == NoColor {
		return ""
	}
	return reset
}

// ParseColor reads a #rgb or #rrggbb hexadecimal color, or one of
// the SVG 1.1 color names.
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if len(hex) != 6 || err != nil || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}
