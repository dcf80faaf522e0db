package svgdoc

import (
	"regexp"

	"github.com/sicmundu/cli-trace/internal/logging"
)

var (
	pathElement = regexp.MustCompile(`(?is)<path\b[^>]*>`)
	svgElement  = regexp.MustCompile(`(?is)<svg\b[^>]*>`)
	titleText   = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title>`)
	// attrs holds one pattern per attribute read by the scan.
	attrs = map[string]*regexp.Regexp{}
)

func init() {
	for _, name := range []string{"d", "viewBox", "width", "height"} {
		attrs[name] = regexp.MustCompile(`(?is)\s` + name + `\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	}
}

// attrValue returns the first value of the attribute in the element text.
func attrValue(element, name string) (string, bool) {
	m := attrs[name].FindStringSubmatch(element)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// RegexExtractor scans the text for <path> elements and keeps the
// first d attribute of each. It does not understand XML: nested quotes,
// comments and shape elements are not handled. It never fails.
type RegexExtractor struct{}

func (RegexExtractor) ExtractPathStrings(doc string) ([]string, error) {
	var out []string
	for _, element := range pathElement.FindAllString(doc, -1) {
		if d, ok := attrValue(element, "d"); ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r RegexExtractor) ExtractDocument(doc string) (Document, error) {
	out := r.header(doc)
	out.Paths, _ = r.ExtractPathStrings(doc)
	return out, nil
}

// header reads the attributes of the first <svg> element.
func (RegexExtractor) header(doc string) Document {
	var out Document
	if m := titleText.FindStringSubmatch(doc); m != nil {
		out.Title = m[1]
	}
	root := svgElement.FindString(doc)
	if root == "" {
		return out
	}
	if v, ok := attrValue(root, "viewBox"); ok {
		vb, err := ParseViewBox(v)
		if err != nil {
			logging.Logger().Warn("ignoring viewBox", "error", err)
		} else {
			out.ViewBox = vb
		}
	}
	out.Width, _ = attrValue(root, "width")
	out.Height, _ = attrValue(root, "height")
	return out
}
