package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"resume-optimizer/internal/layout"
)

// ErrExport wraps every failure raised while producing an artifact.
var ErrExport = errors.New("export failed")

// Epoch is stamped as creation and modification date so identical trees
// produce identical bytes.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const producer = "resume-optimizer"

// PDF serializes layout documents with fpdf.
type PDF struct {
	Compress bool
	Date     time.Time
}

func NewPDF() *PDF { return &PDF{Compress: true, Date: Epoch} }

func (e *PDF) Export(doc *layout.Document, w io.Writer) error {
	if doc == nil || len(doc.Pages) == 0 {
		return fmt.Errorf("%w: empty document", ErrExport)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: doc.Size.W, Ht: doc.Size.H},
	})
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(e.Date)
	pdf.SetModificationDate(e.Date)
	pdf.SetCompression(e.Compress)
	pdf.SetProducer(producer, false)
	pdf.SetCreator(producer, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}
	if doc.Author != "" {
		pdf.SetAuthor(doc.Author, true)
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, el := range page.Elements {
			drawElement(pdf, tr, el)
		}
		if pdf.Err() {
			return fmt.Errorf("%w: %v", ErrExport, pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

// Bytes is Export into memory.
func (e *PDF) Bytes(doc *layout.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Export(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawElement(pdf *fpdf.Fpdf, tr func(string) string, el layout.Element) {
	switch v := el.(type) {
	case *layout.Rect:
		pdf.SetFillColor(int(v.Fill.R), int(v.Fill.G), int(v.Fill.B))
		if v.Radius > 0 {
			pdf.RoundedRect(v.X, v.Y, v.W, v.H, v.Radius, "1234", "F")
		} else {
			pdf.Rect(v.X, v.Y, v.W, v.H, "F")
		}
	case *layout.Line:
		pdf.SetDrawColor(int(v.Color.R), int(v.Color.G), int(v.Color.B))
		pdf.SetLineWidth(v.Width)
		pdf.Line(v.X1, v.Y1, v.X2, v.Y2)
	case *layout.Text:
		pdf.SetFont(v.Font.Family, v.Font.Style, v.Font.Size)
		pdf.SetTextColor(int(v.Color.R), int(v.Color.G), int(v.Color.B))
		pdf.Text(v.X, v.Y, tr(v.Value))
	}
}

// PDFMeasurer measures strings with the same core-font metrics the exporter
// embeds. It is not safe for concurrent use; create one per render.
type PDFMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	cur layout.Font
}

func NewPDFMeasurer() *PDFMeasurer {
	pdf := fpdf.New("P", "pt", "A4", "")
	return &PDFMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *PDFMeasurer) StringWidth(f layout.Font, s string) float64 {
	if f != m.cur {
		m.pdf.SetFont(f.Family, f.Style, f.Size)
		m.cur = f
	}
	return m.pdf.GetStringWidth(m.tr(s))
}
