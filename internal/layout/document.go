// Package layout holds the positioned document tree produced by the render
// engine and the flow primitives used to build it. Coordinates are points
// with the origin at the top-left corner of the page.
package layout

import (
	"fmt"
	"strconv"
	"strings"
)

type Color struct{ R, G, B uint8 }

// Hex parses "#rrggbb". Invalid input yields black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// Font names one of the PDF core fonts. Style is "", "B", "I" or "BI".
type Font struct {
	Family string
	Style  string
	Size   float64
}

func (f Font) WithStyle(style string) Font { f.Style = style; return f }
func (f Font) WithSize(size float64) Font  { f.Size = size; return f }

// Element is one drawing primitive on a page.
type Element interface {
	isElement()
}

// Text is a single line of text. Y is the baseline.
type Text struct {
	X, Y  float64
	Value string
	Font  Font
	Color Color
}

// Rect is a filled rectangle, with rounded corners when Radius > 0.
type Rect struct {
	X, Y, W, H float64
	Radius     float64
	Fill       Color
}

type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          Color
}

func (*Text) isElement() {}
func (*Rect) isElement() {}
func (*Line) isElement() {}

// Page is drawn in element order; earlier elements sit underneath later ones.
type Page struct {
	Elements []Element
}

func (p *Page) Add(e Element) { p.Elements = append(p.Elements, e) }

func (p *Page) insert(at int, e Element) {
	if at >= len(p.Elements) {
		p.Elements = append(p.Elements, e)
		return
	}
	p.Elements = append(p.Elements, nil)
	copy(p.Elements[at+1:], p.Elements[at:])
	p.Elements[at] = e
}

type Size struct{ W, H float64 }

// A4 in points.
var A4 = Size{W: 595.28, H: 841.89}

type Margins struct {
	Top, Right, Bottom, Left float64
}

func UniformMargins(m float64) Margins { return Margins{Top: m, Right: m, Bottom: m, Left: m} }

// Document is the fully laid-out, paginated output of a render.
type Document struct {
	Size        Size
	Margins     Margins
	Title       string
	Author      string
	Template    string
	ColorScheme string
	Pages       []*Page
}

func NewDocument(size Size, margins Margins) *Document {
	return &Document{Size: size, Margins: margins, Pages: []*Page{{}}}
}

func (d *Document) ensurePage(i int) *Page {
	for len(d.Pages) <= i {
		d.Pages = append(d.Pages, &Page{})
	}
	return d.Pages[i]
}

// ContentWidth is the page width between the side margins.
func (d *Document) ContentWidth() float64 {
	return d.Size.W - d.Margins.Left - d.Margins.Right
}

// Text returns every text line in draw order, one per line, with pages
// separated by a form feed.
func (d *Document) Text() string {
	var b strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			b.WriteString("\f")
		}
		for _, e := range p.Elements {
			if t, ok := e.(*Text); ok {
				b.WriteString(t.Value)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// Measurer reports the rendered width of a string in points.
type Measurer interface {
	StringWidth(f Font, s string) float64
}
