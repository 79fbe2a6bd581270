// Package render lays a StructuredResume out as a paginated layout.Document.
// One engine serves every template; templates differ only by their Style
// descriptor and Palette.
package render

import (
	"errors"
	"fmt"
	"strings"

	"resume-optimizer/internal/layout"
	"resume-optimizer/internal/model"
)

// ErrInternal marks an invariant violation inside the engine, such as a
// resume that reached rendering without a contact name.
var ErrInternal = errors.New("internal render error")

type UnknownTemplateError struct {
	Requested string
	Valid     []string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q (valid: %s)", e.Requested, strings.Join(e.Valid, ", "))
}

// Builder renders one resume in stages: Header, then Sections, then
// Paginate. A Builder is single use.
type Builder struct {
	resume *model.StructuredResume
	style  *Style
	pal    Palette
	m      layout.Measurer
	doc    *layout.Document
	flow   *layout.Flow
	scale  float64

	body   layout.TextStyle
	small  layout.TextStyle
	entry  layout.TextStyle
	title  layout.TextStyle
	marker layout.Marker
}

// NewBuilder resolves the template, palette and option overrides. An
// unrecognized color scheme falls back to the template default.
func NewBuilder(resume *model.StructuredResume, templateID string, opts model.RenderOptions, m layout.Measurer) (*Builder, error) {
	info, ok := model.LookupTemplate(templateID)
	if !ok {
		return nil, &UnknownTemplateError{Requested: templateID, Valid: model.TemplateIDs()}
	}
	st, ok := LookupStyle(info.ID)
	if !ok {
		return nil, fmt.Errorf("%w: no style for template %q", ErrInternal, templateID)
	}
	if resume == nil || strings.TrimSpace(resume.Contact.Name) == "" {
		return nil, fmt.Errorf("%w: resume has no contact name", ErrInternal)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: no measurer", ErrInternal)
	}

	pal, scheme := ResolvePalette(info, opts.ColorScheme)
	scale := 1.0
	if opts.FontSize != nil && *opts.FontSize > 0 {
		scale = *opts.FontSize / st.BodySize
	}
	margin := st.Margin
	if opts.Margin != nil && *opts.Margin >= 0 {
		margin = *opts.Margin
	}

	doc := layout.NewDocument(layout.A4, layout.UniformMargins(margin))
	doc.Title = resume.Contact.Name + " - Resume"
	doc.Author = resume.Contact.Name
	doc.Template = string(info.ID)
	doc.ColorScheme = scheme

	b := &Builder{resume: resume, style: st, pal: pal, m: m, doc: doc, flow: layout.NewFlow(doc, m), scale: scale}
	font := layout.Font{Family: st.Family, Size: st.BodySize * scale}
	b.body = layout.TextStyle{Font: font, Color: pal.Text, LineHeight: st.LineHeight}
	b.small = layout.TextStyle{Font: font.WithSize((st.BodySize - 1) * scale), Color: pal.Muted, LineHeight: st.LineHeight}
	b.entry = layout.TextStyle{Font: font.WithStyle("B").WithSize(st.EntrySize * scale), Color: pal.Text, LineHeight: 1.3}
	b.title = layout.TextStyle{Font: font.WithStyle("B").WithSize(st.TitleSize * scale), Color: pal.Primary, LineHeight: 1.3}
	b.marker = layout.Marker{Glyph: st.Bullet, Square: st.SquareBullet, Color: pal.Primary, Indent: 12 * scale}
	return b, nil
}

// Document returns the tree built so far.
func (b *Builder) Document() *layout.Document { return b.doc }

// Paginate finishes the document: trailing empty pages are dropped and every
// text line is checked against the page's bottom margin.
func (b *Builder) Paginate() (*layout.Document, error) {
	for len(b.doc.Pages) > 1 && len(b.doc.Pages[len(b.doc.Pages)-1].Elements) == 0 {
		b.doc.Pages = b.doc.Pages[:len(b.doc.Pages)-1]
	}
	bottom := b.doc.Size.H - b.doc.Margins.Bottom
	for i, p := range b.doc.Pages {
		for _, e := range p.Elements {
			if t, ok := e.(*layout.Text); ok && t.Y > bottom+0.01 {
				return nil, fmt.Errorf("%w: line %q below the bottom margin on page %d", ErrInternal, t.Value, i+1)
			}
		}
	}
	return b.doc, nil
}

// Render runs every stage of a Builder. It does not modify resume and may be
// called concurrently.
func Render(resume *model.StructuredResume, templateID string, opts model.RenderOptions, m layout.Measurer) (*layout.Document, error) {
	b, err := NewBuilder(resume, templateID, opts, m)
	if err != nil {
		return nil, err
	}
	b.Header()
	b.Sections()
	return b.Paginate()
}

func (b *Builder) sz(v float64) float64 { return v * b.scale }

// Header draws the name block in the template's treatment.
func (b *Builder) Header() {
	f, st, c := b.flow, b.style, b.resume.Contact
	name := layout.TextStyle{Font: b.body.Font.WithStyle("B").WithSize(b.sz(st.NameSize)), Color: b.pal.Primary, LineHeight: 1.2}
	tagline := layout.TextStyle{Font: b.body.Font.WithSize(b.sz(st.BodySize + 2)), Color: b.pal.Secondary, LineHeight: 1.4}
	contact := b.small
	contact.LineHeight = 1.5

	switch st.Header {
	case HeaderCentered:
		name.Align, tagline.Align, contact.Align = layout.AlignCenter, layout.AlignCenter, layout.AlignCenter
		tagline.Color = b.pal.Muted
	case HeaderBanner:
		name.Color, tagline.Color, contact.Color = layout.White, b.pal.Accent, layout.White
	}

	f.Paragraph(c.Name, name)
	if st.Tagline != "" {
		text := st.Tagline
		if st.Header == HeaderCentered {
			text = strings.ToUpper(text)
		}
		f.Paragraph(text, tagline)
	}
	if items := contactItems(c); len(items) > 0 {
		f.Space(b.sz(4))
		f.Paragraph(strings.Join(items, "  |  "), contact)
	}

	switch {
	case st.Header == HeaderBanner:
		f.Backdrop(b.pal.Primary, b.sz(16))
		f.Space(b.sz(16))
	case st.TitleRule:
		f.Space(b.sz(6))
		f.Rule(b.sz(4), b.sz(st.Header.ruleWidth()), b.pal.Primary)
		f.Space(b.sz(8))
	default:
		f.Space(b.sz(14))
	}
}

func (h HeaderKind) ruleWidth() float64 {
	if h == HeaderCentered {
		return 2
	}
	return 1
}

func contactItems(c model.Contact) []string {
	var out []string
	for _, v := range []string{c.Email, c.Phone, c.Location, c.LinkedIn, c.Website, c.GitHub} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Sections emits every present section: the full-width ones first, then the
// two-column region. Each column paginates on its own and the flow resumes
// below whichever ends lower.
func (b *Builder) Sections() {
	st, f := b.style, b.flow
	for _, sec := range st.Main {
		b.section(f, sec)
	}
	if len(st.Left) == 0 && len(st.Right) == 0 {
		return
	}
	if !b.anyPresent(st.Left) && !b.anyPresent(st.Right) {
		return
	}
	gap := st.ColumnGap
	leftW := (f.W - gap) * st.ColumnRatio / (st.ColumnRatio + 1)
	left := f.Column(f.X, leftW)
	right := f.Column(f.X+leftW+gap, f.W-gap-leftW)
	for _, sec := range st.Left {
		b.section(left, sec)
	}
	for _, sec := range st.Right {
		b.section(right, sec)
	}
	f.Join(left, right)
}

func (b *Builder) anyPresent(secs []Section) bool {
	for _, s := range secs {
		if present(b.resume, s) {
			return true
		}
	}
	return false
}
