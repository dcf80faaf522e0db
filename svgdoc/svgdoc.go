// Package svgdoc extracts path data, viewBox and dimensions out of SVG
// documents.
//
// Two extractors are provided: RegexExtractor is a permissive scan
// for <path d="..."> elements, while XMLExtractor decodes the document
// and can also convert basic shapes (rect, circle, ...) to path data.
package svgdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/sicmundu/cli-trace/svgpath"
)

var (
	// ErrNoPaths is returned by Document.Validate for documents
	// without any path.
	ErrNoPaths = errors.New("no path found in document")
	// ErrInvalidDocument is returned when the input is not an SVG document.
	ErrInvalidDocument = errors.New("invalid svg document")

	errParamMismatch = errors.New("param mismatch")
)

// ErrorMode is the strategy that determines how unsupported elements
// are handled.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements silently.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning for each unsupported element.
	WarnErrorMode
	// StrictErrorMode aborts on the first unsupported element.
	StrictErrorMode
)

// ViewBox is the user space rectangle of a document.
type ViewBox struct{ X, Y, W, H float64 }

// Empty reports whether the box has no area.
func (v ViewBox) Empty() bool { return v.W <= 0 || v.H <= 0 }

// Bounds returns the box in path coordinates.
func (v ViewBox) Bounds() svgpath.Bounds {
	return svgpath.Bounds{MinX: v.X, MinY: v.Y, MaxX: v.X + v.W, MaxY: v.Y + v.H}
}

// Document is what an extractor retrieves from an SVG document.
type Document struct {
	ViewBox       ViewBox
	Width, Height string // top level width and height attributes
	Title         string
	// Paths are the path data strings, in document order.
	Paths []string
}

// Validate returns ErrNoPaths if the document has no path.
func (d Document) Validate() error {
	if len(d.Paths) == 0 {
		return ErrNoPaths
	}
	return nil
}

// Size returns the dimensions of the document, from the width and
// height attributes, or the viewBox when they are missing or relative.
func (d Document) Size() (w, h float64) {
	w, h = d.ViewBox.W, d.ViewBox.H
	if v, ok := parseLength(d.Width); ok {
		w = v
	}
	if v, ok := parseLength(d.Height); ok {
		h = v
	}
	return w, h
}

// Extractor pulls the path data strings out of a document.
type Extractor interface {
	ExtractPathStrings(doc string) ([]string, error)
}

// DocumentExtractor also reads the document attributes.
type DocumentExtractor interface {
	Extractor
	ExtractDocument(doc string) (Document, error)
}

// Extract reads doc with ex. When ex only knows about paths, the
// document attributes are read with a RegexExtractor.
func Extract(doc string, ex Extractor) (Document, error) {
	if de, ok := ex.(DocumentExtractor); ok {
		return de.ExtractDocument(doc)
	}
	paths, err := ex.ExtractPathStrings(doc)
	if err != nil {
		return Document{}, err
	}
	out := RegexExtractor{}.header(doc)
	out.Paths = paths
	return out, nil
}

// Read reads the whole stream and extracts the document with ex.
func Read(r io.Reader, ex Extractor) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	return Extract(string(data), ex)
}

// ReadFile reads the named file and extracts the document with ex.
func ReadFile(name string, ex Extractor) (Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	doc, err := Read(f, ex)
	if err != nil {
		return doc, fmt.Errorf("reading %s: %w", name, err)
	}
	return doc, nil
}

func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
}

func parseNumbers(s string) ([]float64, error) {
	fields := splitOnCommaOrSpace(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParseViewBox reads the value of a viewBox attribute.
func ParseViewBox(s string) (ViewBox, error) {
	nums, err := parseNumbers(s)
	if err != nil {
		return ViewBox{}, fmt.Errorf("viewBox %q: %w", s, err)
	}
	if len(nums) != 4 {
		return ViewBox{}, fmt.Errorf("viewBox %q: %w", s, errParamMismatch)
	}
	return ViewBox{nums[0], nums[1], nums[2], nums[3]}, nil
}

// parseLength reads absolute lengths such as "24" or "24px".
// Relative lengths are rejected.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
