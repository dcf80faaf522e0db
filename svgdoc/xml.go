package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sicmundu/cli-trace/bezier"
	"github.com/sicmundu/cli-trace/internal/logging"
	"github.com/sicmundu/cli-trace/svgpath"
	"golang.org/x/net/html/charset"
)

// XMLExtractor decodes the document as XML. ErrorMode determines if
// the extraction ignores, errors out, or logs a warning when it finds
// an element it does not handle. When Shapes is true, basic shapes
// are converted to path data.
type XMLExtractor struct {
	ErrorMode ErrorMode
	Shapes    bool
}

func (x XMLExtractor) ExtractPathStrings(doc string) ([]string, error) {
	out, err := x.ExtractDocument(doc)
	return out.Paths, err
}

func (x XMLExtractor) ExtractDocument(doc string) (Document, error) {
	return x.Decode(strings.NewReader(doc))
}

type docCursor struct {
	XMLExtractor
	doc     Document
	seenSVG bool
	inTitle bool
}

type elementFunc func(c *docCursor, attrs []xml.Attr) error

var elementFuncs = map[string]elementFunc{
	"svg":      svgF,
	"path":     pathF,
	"title":    titleF,
	"rect":     rectF,
	"circle":   circleF,
	"ellipse":  circleF, // circleF handles ellipse also
	"line":     lineF,
	"polyline": polylineF,
	"polygon":  polygonF,
}

// elements without geometry, skipped silently
var containers = map[string]bool{
	"g": true, "defs": true, "desc": true, "metadata": true, "style": true,
	"symbol": true, "switch": true, "stop": true, "namedview": true,
	"linearGradient": true, "radialGradient": true, "clipPath": true, "mask": true,
}

// Decode reads the document from the stream. Encodings other than
// UTF-8 are supported when declared in the XML header.
func (x XMLExtractor) Decode(stream io.Reader) (Document, error) {
	cursor := &docCursor{XMLExtractor: x}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return cursor.doc, ErrInvalidDocument
				}
				break
			}
			return cursor.doc, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			if err := cursor.readStartElement(se); err != nil {
				return cursor.doc, err
			}
		case xml.EndElement:
			if se.Name.Local == "title" {
				cursor.inTitle = false
			}
		case xml.CharData:
			if cursor.inTitle {
				cursor.doc.Title += string(se)
			}
		}
	}
	cursor.doc.Title = strings.TrimSpace(cursor.doc.Title)
	if !cursor.seenSVG {
		return cursor.doc, fmt.Errorf("%w: missing svg element", ErrInvalidDocument)
	}
	return cursor.doc, nil
}

func (c *docCursor) readStartElement(se xml.StartElement) error {
	name := se.Name.Local
	df, ok := elementFuncs[name]
	if !ok {
		if containers[name] {
			return nil
		}
		return c.report(errors.New("cannot process svg element " + name))
	}
	if err := df(c, se.Attr); err != nil {
		return fmt.Errorf("element %s: %w", name, err)
	}
	return nil
}

// report applies the ErrorMode to a recoverable error: it is
// returned in strict mode, logged in warn mode, dropped otherwise.
func (c *docCursor) report(err error) error {
	switch c.ErrorMode {
	case StrictErrorMode:
		return err
	case WarnErrorMode:
		logging.Logger().Warn(err.Error())
	}
	return nil
}

func (c *docCursor) addShape(p svgpath.Path) {
	if len(p) == 0 {
		return
	}
	c.doc.Paths = append(c.doc.Paths, p.ToSVGPath())
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
}

// readFloats parses the named attributes in dst, in order.
func readFloats(attrs []xml.Attr, names []string, dst []*float64) error {
	for _, attr := range attrs {
		for i, name := range names {
			if attr.Name.Local != name {
				continue
			}
			v, err := parseFloat(attr.Value)
			if err != nil {
				return err
			}
			*dst[i] = v
		}
	}
	return nil
}

func svgF(c *docCursor, attrs []xml.Attr) error {
	if c.seenSVG { // nested documents keep the outer attributes
		return nil
	}
	c.seenSVG = true
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			vb, err := ParseViewBox(attr.Value)
			if err != nil {
				if err := c.report(fmt.Errorf("ignoring viewBox: %w", err)); err != nil {
					return err
				}
				continue
			}
			c.doc.ViewBox = vb
		case "width":
			c.doc.Width = attr.Value
		case "height":
			c.doc.Height = attr.Value
		}
	}
	return nil
}

func titleF(c *docCursor, _ []xml.Attr) error {
	c.inTitle = c.doc.Title == ""
	return nil
}

func pathF(c *docCursor, attrs []xml.Attr) error {
	for _, attr := range attrs {
		if attr.Name.Local == "d" {
			c.doc.Paths = append(c.doc.Paths, attr.Value)
			return nil
		}
	}
	return nil
}

func rectF(c *docCursor, attrs []xml.Attr) error {
	if !c.Shapes {
		return nil
	}
	var x, y, w, h, rx, ry float64
	err := readFloats(attrs, []string{"x", "y", "width", "height", "rx", "ry"}, []*float64{&x, &y, &w, &h, &rx, &ry})
	if err != nil {
		return err
	}
	if w == 0 || h == 0 {
		return nil
	}
	// a single radius applies to both axis
	if rx == 0 {
		rx = ry
	} else if ry == 0 {
		ry = rx
	}
	var p svgpath.Path
	p.AddRect(x, y, w, h, rx, ry)
	c.addShape(p)
	return nil
}

func circleF(c *docCursor, attrs []xml.Attr) error {
	if !c.Shapes {
		return nil
	}
	var cx, cy, r, rx, ry float64
	err := readFloats(attrs, []string{"cx", "cy", "r", "rx", "ry"}, []*float64{&cx, &cy, &r, &rx, &ry})
	if err != nil {
		return err
	}
	if r != 0 {
		rx, ry = r, r
	}
	if rx == 0 || ry == 0 { // not drawn, but not an error
		return nil
	}
	var p svgpath.Path
	p.AddEllipse(cx, cy, rx, ry)
	c.addShape(p)
	return nil
}

func lineF(c *docCursor, attrs []xml.Attr) error {
	if !c.Shapes {
		return nil
	}
	var x1, y1, x2, y2 float64
	err := readFloats(attrs, []string{"x1", "y1", "x2", "y2"}, []*float64{&x1, &y1, &x2, &y2})
	if err != nil {
		return err
	}
	var p svgpath.Path
	p.AddPolyline([]bezier.Point{{X: x1, Y: y1}, {X: x2, Y: y2}}, false)
	c.addShape(p)
	return nil
}

func readPoints(attrs []xml.Attr) ([]bezier.Point, error) {
	for _, attr := range attrs {
		if attr.Name.Local != "points" {
			continue
		}
		nums, err := parseNumbers(attr.Value)
		if err != nil {
			return nil, err
		}
		if len(nums)%2 != 0 {
			return nil, errors.New("polygon has odd number of points")
		}
		pts := make([]bezier.Point, len(nums)/2)
		for i := range pts {
			pts[i] = bezier.Pt(nums[2*i], nums[2*i+1])
		}
		return pts, nil
	}
	return nil, nil
}

func polyF(c *docCursor, attrs []xml.Attr, closed bool) error {
	if !c.Shapes {
		return nil
	}
	pts, err := readPoints(attrs)
	if err != nil {
		return err
	}
	if len(pts) < 2 {
		return nil
	}
	var p svgpath.Path
	p.AddPolyline(pts, closed)
	c.addShape(p)
	return nil
}

func polylineF(c *docCursor, attrs []xml.Attr) error { return polyF(c, attrs, false) }

func polygonF(c *docCursor, attrs []xml.Attr) error { return polyF(c, attrs, true) }
