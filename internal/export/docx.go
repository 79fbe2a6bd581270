package export

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"resume-optimizer/internal/legacy"
)

//go:embed assets/base.docx
var baseDocx []byte

// bodyMarker is the placeholder paragraph in the base document.
const bodyMarker = "<w:p><w:r><w:t>RESUME_BODY</w:t></w:r></w:p>"

// DOCX writes legacy documents into a copy of the embedded base document.
// Sizes are in half-points.
type DOCX struct {
	TitleSize   int
	ContactSize int
	HeadingSize int
	BodySize    int
}

func NewDOCX() *DOCX {
	return &DOCX{TitleSize: 32, ContactSize: 20, HeadingSize: 24, BodySize: 22}
}

func (e *DOCX) Export(doc *legacy.Document, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrExport)
	}
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(baseDocx), int64(len(baseDocx)))
	if err != nil {
		return fmt.Errorf("%w: read base docx: %v", ErrExport, err)
	}
	defer r.Close()

	d := r.Editable()
	if !strings.Contains(d.GetContent(), bodyMarker) {
		return fmt.Errorf("%w: base docx has no body marker", ErrExport)
	}
	d.ReplaceRaw(bodyMarker, e.body(doc), 1)
	if err := d.Write(w); err != nil {
		return fmt.Errorf("%w: write docx: %v", ErrExport, err)
	}
	return nil
}

func (e *DOCX) Bytes(doc *legacy.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Export(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *DOCX) body(doc *legacy.Document) string {
	var b strings.Builder
	paragraph(&b, `<w:pStyle w:val="Title"/><w:spacing w:after="300"/><w:jc w:val="center"/>`, doc.Name, e.TitleSize, true)
	if len(doc.Contact) > 0 {
		paragraph(&b, `<w:spacing w:after="400"/><w:jc w:val="center"/>`, strings.Join(doc.Contact, " | "), e.ContactSize, false)
	}
	for _, s := range doc.Sections {
		paragraph(&b, `<w:pStyle w:val="Heading1"/><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="000000"/></w:pBdr><w:spacing w:before="300" w:after="200"/>`,
			strings.ToUpper(s.Title), e.HeadingSize, true)
		for _, c := range s.Content {
			paragraph(&b, `<w:spacing w:after="150"/>`, c, e.BodySize, false)
		}
	}
	return b.String()
}

func paragraph(b *strings.Builder, pPr, text string, size int, bold bool) {
	b.WriteString("<w:p><w:pPr>")
	b.WriteString(pPr)
	b.WriteString("</w:pPr><w:r><w:rPr>")
	if bold {
		b.WriteString("<w:b/>")
	}
	fmt.Fprintf(b, `<w:sz w:val="%d"/></w:rPr><w:t xml:space="preserve">`, size)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</w:t></w:r></w:p>")
}
