package layout

import "strings"

const epsilon = 1e-6

// Flow is a vertical cursor over a horizontal frame of a Document. Content is
// placed one atomic line at a time; a line that would cross the bottom margin
// moves to the top of the next page, so no line is ever split.
type Flow struct {
	doc  *Document
	m    Measurer
	X    float64
	W    float64
	page int
	y    float64
}

// NewFlow starts a flow over the full content width of the first page.
func NewFlow(d *Document, m Measurer) *Flow {
	return &Flow{doc: d, m: m, X: d.Margins.Left, W: d.ContentWidth(), y: d.Margins.Top}
}

func (f *Flow) Document() *Document { return f.doc }
func (f *Flow) Measurer() Measurer  { return f.m }
func (f *Flow) Top() float64        { return f.doc.Margins.Top }
func (f *Flow) Bottom() float64     { return f.doc.Size.H - f.doc.Margins.Bottom }
func (f *Flow) PageIndex() int      { return f.page }
func (f *Flow) Y() float64          { return f.y }
func (f *Flow) Page() *Page         { return f.doc.ensurePage(f.page) }

// Remaining is the vertical space left on the current page.
func (f *Flow) Remaining() float64 { return f.Bottom() - f.y }

func (f *Flow) Fits(h float64) bool { return f.y+h <= f.Bottom()+epsilon }

// Break moves the cursor to the top of the next page, creating it if needed.
func (f *Flow) Break() {
	f.page++
	f.doc.ensurePage(f.page)
	f.y = f.Top()
}

// Reserve breaks the page unless h more points fit. A block taller than a
// whole page is left where it is to avoid an endless run of empty pages.
func (f *Flow) Reserve(h float64) {
	if !f.Fits(h) && f.y > f.Top()+epsilon {
		f.Break()
	}
}

// Place claims an atomic band of height h and returns its page and top edge.
func (f *Flow) Place(h float64) (*Page, float64) {
	f.Reserve(h)
	p := f.Page()
	top := f.y
	f.y += h
	return p, top
}

// Space adds vertical gap. Gap at the very top of a page is dropped.
func (f *Flow) Space(h float64) {
	if f.y <= f.Top()+epsilon {
		return
	}
	f.y += h
}

// Column returns a flow over a narrower frame that starts at the current
// cursor position.
func (f *Flow) Column(x, w float64) *Flow {
	return &Flow{doc: f.doc, m: f.m, X: x, W: w, page: f.page, y: f.y}
}

// Join moves the cursor below whichever column ended furthest down.
func (f *Flow) Join(cols ...*Flow) {
	for _, c := range cols {
		if c.page > f.page || (c.page == f.page && c.y > f.y) {
			f.page, f.y = c.page, c.y
		}
	}
}

// Indent narrows the frame from the left and returns a func restoring it.
func (f *Flow) Indent(left, right float64) func() {
	x, w := f.X, f.W
	f.X += left
	f.W -= left + right
	return func() { f.X, f.W = x, w }
}

// Align positions a line horizontally inside the frame.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

type TextStyle struct {
	Font       Font
	Color      Color
	LineHeight float64
	Align      Align
}

// Height is the band height of one line.
func (s TextStyle) Height() float64 {
	lh := s.LineHeight
	if lh <= 0 {
		lh = 1.3
	}
	return s.Font.Size * lh
}

// baseline centres the glyph box vertically in the line band.
func (s TextStyle) baseline(top float64) float64 {
	return top + (s.Height()-s.Font.Size)/2 + s.Font.Size*0.8
}

func (f *Flow) lineX(st TextStyle, line string, x, w float64) float64 {
	switch st.Align {
	case AlignCenter:
		return x + (w-f.m.StringWidth(st.Font, line))/2
	case AlignRight:
		return x + w - f.m.StringWidth(st.Font, line)
	default:
		return x
	}
}

// Paragraph wraps s to the frame and places each line. It returns the number
// of lines placed.
func (f *Flow) Paragraph(s string, st TextStyle) int {
	lines := Wrap(f.m, st.Font, s, f.W)
	for _, line := range lines {
		p, top := f.Place(st.Height())
		p.Add(&Text{X: f.lineX(st, line, f.X, f.W), Y: st.baseline(top), Value: line, Font: st.Font, Color: st.Color})
	}
	return len(lines)
}

// Marker is the glyph or shape drawn before a list item.
type Marker struct {
	Glyph  string
	Square bool
	Color  Color
	Indent float64
}

// Bullet places a list item with a hanging indent. The marker is drawn on the
// first wrapped line only.
func (f *Flow) Bullet(mk Marker, s string, st TextStyle) int {
	indent := mk.Indent
	if indent <= 0 {
		indent = st.Font.Size
	}
	lines := Wrap(f.m, st.Font, s, f.W-indent)
	for i, line := range lines {
		p, top := f.Place(st.Height())
		if i == 0 {
			if mk.Square {
				side := st.Font.Size * 0.35
				p.Add(&Rect{X: f.X + 1, Y: top + (st.Height()-side)/2, W: side, H: side, Fill: mk.Color})
			} else {
				p.Add(&Text{X: f.X, Y: st.baseline(top), Value: mk.Glyph, Font: st.Font, Color: mk.Color})
			}
		}
		p.Add(&Text{X: f.X + indent, Y: st.baseline(top), Value: line, Font: st.Font, Color: st.Color})
	}
	return len(lines)
}

// Row places left-wrapped text with right-aligned text on its first line,
// as used for "title ... dates" headings. When the right text would take more
// than half the frame it goes on its own line under the left text.
func (f *Flow) Row(left string, ls TextStyle, right string, rs TextStyle) int {
	rightW := 0.0
	if right != "" {
		rightW = f.m.StringWidth(rs.Font, right) + rs.Font.Size
	}
	if rightW > f.W/2 {
		rs.Align = AlignLeft
		return f.Paragraph(left, ls) + f.Paragraph(right, rs)
	}
	lines := Wrap(f.m, ls.Font, left, f.W-rightW)
	if len(lines) == 0 && right != "" {
		lines = []string{""}
	}
	h := ls.Height()
	if rs.Height() > h && right != "" {
		h = rs.Height()
	}
	var first *Page
	var firstTop float64
	for i, line := range lines {
		lh := ls.Height()
		if i == 0 {
			lh = h
		}
		p, top := f.Place(lh)
		if i == 0 {
			first, firstTop = p, top
		}
		if line != "" {
			p.Add(&Text{X: f.X, Y: ls.baseline(top) + (lh-ls.Height())/2, Value: line, Font: ls.Font, Color: ls.Color})
		}
	}
	// the right text follows the whole left block in draw order so wrapped
	// left text reads contiguously
	if first != nil && right != "" {
		x := f.X + f.W - f.m.StringWidth(rs.Font, right)
		first.Add(&Text{X: x, Y: rs.baseline(firstTop) + (h-rs.Height())/2, Value: right, Font: rs.Font, Color: rs.Color})
	}
	return len(lines)
}

// Rule places a horizontal line across the frame inside a band of height h.
func (f *Flow) Rule(h, width float64, c Color) {
	p, top := f.Place(h)
	y := top + h/2
	p.Add(&Line{X1: f.X, Y1: y, X2: f.X + f.W, Y2: y, Width: width, Color: c})
}

// ChipStyle describes inline badges. Fills alternate per chip.
type ChipStyle struct {
	Text   TextStyle
	Fills  []Color
	Colors []Color
	PadX   float64
	PadY   float64
	Gap    float64
	Radius float64
}

// Chips lays badges out left to right, starting a new row when the next chip
// would overflow the frame. Each row is one atomic band. A label wider than
// the frame wraps inside a full-width chip.
func (f *Flow) Chips(items []string, cs ChipStyle) int {
	type chip struct {
		lines []string
		w     float64
		idx   int
	}
	lineH := cs.Text.Font.Size * 1.2
	var rows [][]chip
	var row []chip
	x := 0.0
	for i, it := range items {
		label := strings.TrimSpace(it)
		if label == "" {
			continue
		}
		c := chip{lines: []string{label}, w: f.m.StringWidth(cs.Text.Font, label) + 2*cs.PadX, idx: i}
		if c.w > f.W {
			c.lines = Wrap(f.m, cs.Text.Font, label, f.W-2*cs.PadX)
			c.w = f.W
		}
		if len(row) > 0 && x+c.w > f.W+epsilon {
			rows = append(rows, row)
			row, x = nil, 0
		}
		row = append(row, c)
		x += c.w + cs.Gap
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	for _, r := range rows {
		n := 1
		for _, c := range r {
			if len(c.lines) > n {
				n = len(c.lines)
			}
		}
		chipH := float64(n-1)*lineH + cs.Text.Font.Size + 2*cs.PadY
		p, top := f.Place(chipH + cs.Gap)
		cx := f.X
		for _, c := range r {
			h := float64(len(c.lines)-1)*lineH + cs.Text.Font.Size + 2*cs.PadY
			p.Add(&Rect{X: cx, Y: top, W: c.w, H: h, Radius: cs.Radius, Fill: pick(cs.Fills, c.idx)})
			for li, line := range c.lines {
				p.Add(&Text{
					X:     cx + cs.PadX,
					Y:     top + cs.PadY + float64(li)*lineH + cs.Text.Font.Size*0.8,
					Value: line,
					Font:  cs.Text.Font,
					Color: pick(cs.Colors, c.idx),
				})
			}
			cx += c.w + cs.Gap
		}
	}
	return len(rows)
}

func pick(cs []Color, i int) Color {
	if len(cs) == 0 {
		return Black
	}
	return cs[i%len(cs)]
}

// BoxStyle paints a background behind a block of flowed content.
type BoxStyle struct {
	Fill     Color
	PadX     float64
	PadY     float64
	Radius   float64
	BarWidth float64
	Bar      Color
}

// Box runs fn inside padding and then paints the background behind whatever
// fn placed. A box that crosses pages gets one background segment per page.
func (f *Flow) Box(bs BoxStyle, minHeight float64, fn func()) {
	f.Reserve(2*bs.PadY + minHeight)
	startPage, startY := f.page, f.y
	startIdx := len(f.Page().Elements)

	f.y += bs.PadY
	restore := f.Indent(bs.PadX+bs.BarWidth, bs.PadX)
	fn()
	restore()
	f.y += bs.PadY
	if f.y > f.Bottom() {
		f.y = f.Bottom()
	}

	for pi := startPage; pi <= f.page; pi++ {
		top, bottom, at := f.Top(), f.Bottom(), 0
		if pi == startPage {
			top, at = startY, startIdx
		}
		if pi == f.page {
			bottom = f.y
		}
		if bottom-top < 1 {
			continue
		}
		p := f.doc.ensurePage(pi)
		if bs.BarWidth > 0 {
			p.insert(at, &Rect{X: f.X, Y: top, W: bs.BarWidth, H: bottom - top, Fill: bs.Bar})
		}
		p.insert(at, &Rect{X: f.X, Y: top, W: f.W, H: bottom - top, Radius: bs.Radius, Fill: bs.Fill})
	}
}

// Backdrop paints a full-bleed band from the top edge of the current page
// down to the cursor plus pad, underneath everything already placed.
func (f *Flow) Backdrop(fill Color, pad float64) {
	f.y += pad
	f.Page().insert(0, &Rect{X: 0, Y: 0, W: f.doc.Size.W, H: f.y, Fill: fill})
}
