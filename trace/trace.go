// Package trace animates the drawing of SVG paths.
//
// A path is first measured, then drawn up to a progress value in
// [0,1] through a Drawer: the visible length is always the progress
// times the true arc length of the path, whatever the surface.
// Scene and Player add the timing on top of it.
package trace

import (
	"log/slog"

	"github.com/sicmundu/cli-trace/internal/logging"
)

// SetLogger sets the logger used by the svgtrace packages.
// Logging is disabled by default. Pass nil to disable it again.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}
