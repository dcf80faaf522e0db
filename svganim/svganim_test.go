package svganim

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/sicmundu/cli-trace/easing"
	"github.com/sicmundu/cli-trace/svgpath"
	"github.com/sicmundu/cli-trace/timeline"
	"github.com/sicmundu/cli-trace/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func scene(opts trace.Options) trace.Scene {
	paths := svgpath.FromStrings([]string{"M 0 0 L 10 0", "M 0 0 Q 5 10 10 0"}, svgpath.Options{})
	return trace.NewScene(paths, opts)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// elements returns the elements named tag, in document order.
func elements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.Data == tag {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, elements(c, tag)...)
	}
	return out
}

func TestNum(t *testing.T) {
	for x, want := range map[float64]string{0.5: "0.5", 1: "1", -0.00001: "0", 0.123456: "0.1235", 12: "12"} {
		assert.Equal(t, want, num(x))
	}
}

func TestWriteFrame(t *testing.T) {
	s := scene(trace.DefaultOptions())
	style := DefaultStyle()
	style.Width, style.Background = "200", "#fff"

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, s, []float64{0.5, 0}, style))

	// a frame is a well formed SVG document
	var doc struct {
		XMLName xml.Name `xml:"svg"`
		ViewBox string   `xml:"viewBox,attr"`
		Width   string   `xml:"width,attr"`
		Paths   []struct {
			D          string `xml:"d,attr"`
			Offset     string `xml:"stroke-dashoffset,attr"`
			Visibility string `xml:"visibility,attr"`
			Length     string `xml:"pathLength,attr"`
		} `xml:"g>path"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc), buf.String())
	// the control points of the curve are included
	assert.Equal(t, "-2 -2 14 10.6667", doc.ViewBox)
	assert.Equal(t, "200", doc.Width)
	require.Len(t, doc.Paths, 2)

	assert.Equal(t, s.Paths[0].Data.Segments.ToSVGPath(), doc.Paths[0].D)
	assert.Equal(t, "1", doc.Paths[0].Length)
	assert.Equal(t, "0.5", doc.Paths[0].Offset)
	assert.Empty(t, doc.Paths[0].Visibility)

	// nothing is drawn at 0
	assert.Equal(t, "1", doc.Paths[1].Offset)
	assert.Equal(t, "hidden", doc.Paths[1].Visibility)
	// the quadratic is written as a cubic
	assert.True(t, strings.HasPrefix(doc.Paths[1].D, "M0.000,0.000 C"), doc.Paths[1].D)
}

func TestWriteFrameAfterClose(t *testing.T) {
	paths := svgpath.FromStrings([]string{"M0 0 L10 0 L10 10 Z L20 20"}, svgpath.Options{})
	s := trace.NewScene(paths, trace.DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, s, []float64{1}, DefaultStyle()))
	var doc struct {
		Paths []struct {
			D string `xml:"d,attr"`
		} `xml:"g>path"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc), buf.String())
	require.Len(t, doc.Paths, 1)
	// the line after the close starts where the core measures it from
	assert.Contains(t, doc.Paths[0].D, "Z M10.000,10.000 L20.000,20.000")
}

func TestWriteHTML(t *testing.T) {
	opts := trace.DefaultOptions()
	opts.Duration = 1500 * time.Millisecond
	opts.Loop = true
	opts.GlobalTiming = false
	opts.Stagger = 250 * time.Millisecond
	s := scene(opts)
	style := DefaultStyle()
	style.Title = "<b>logo</b>"

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, s, style))
	out := buf.String()

	assert.Contains(t, out, "<title>&lt;b&gt;logo&lt;/b&gt;</title>")
	assert.Contains(t, out, "animation-iteration-count: infinite;")
	assert.Contains(t, out, "animation-duration: 1500ms;")
	assert.Contains(t, out, "animation-delay: 250ms;")
	assert.Equal(t, 2, strings.Count(out, "@keyframes"))
	// linear forward: half drawn at half the cycle
	assert.Contains(t, out, "50% { stroke-dashoffset: 0.5; }")

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	svgs := elements(doc, "svg")
	require.Len(t, svgs, 1)
	id, _ := attr(svgs[0], "id")
	assert.True(t, strings.HasPrefix(id, "trace-"), id)

	paths := elements(doc, "path")
	require.Len(t, paths, 2)
	for i, p := range paths {
		class, _ := attr(p, "class")
		assert.Equal(t, id+"-"+string(rune('0'+i)), class)
		length, _ := attr(p, "pathLength")
		assert.Equal(t, "1", length)
	}

	// ids are unique per page
	var again bytes.Buffer
	require.NoError(t, WriteHTML(&again, s, style))
	assert.NotContains(t, again.String(), id)
}

func TestWriteHTMLKeyframes(t *testing.T) {
	opts := trace.DefaultOptions()
	opts.Direction = timeline.Yoyo
	opts.Easing = easing.Named("easeIn")
	s := scene(opts)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, s, DefaultStyle()))
	out := buf.String()

	// shared timeline
	assert.Equal(t, 1, strings.Count(out, "@keyframes"))
	assert.Contains(t, out, "animation-iteration-count: 1;")
	// yoyo: fully drawn at the middle, back at the start at the end,
	// eased on the way: easeIn(0.5) = 0.25
	assert.Contains(t, out, " 0% { stroke-dashoffset: 1; }")
	assert.Contains(t, out, "25% { stroke-dashoffset: 0.75; }")
	assert.Contains(t, out, "50% { stroke-dashoffset: 0; }")
	assert.Contains(t, out, "100% { stroke-dashoffset: 1; }")
}
