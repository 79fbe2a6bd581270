package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"resume-optimizer/internal/layout"
)

// HTML renders a layout document as absolutely positioned pages, one element
// per primitive, for printing through a headless browser.
type HTML struct{}

func NewHTML() *HTML { return &HTML{} }

var pageTemplate = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: {{.W}}pt {{.H}}pt; margin: 0; }
html, body { margin: 0; padding: 0; }
.page { position: relative; width: {{.W}}pt; height: {{.H}}pt; overflow: hidden; page-break-after: always; }
.page:last-child { page-break-after: auto; }
.page > * { position: absolute; margin: 0; }
span { white-space: pre; line-height: 1; }
</style>
</head>
<body>
{{- range .Pages}}
<div class="page">
{{- range .}}
{{.}}
{{- end}}
</div>
{{- end}}
</body>
</html>
`))

type htmlDoc struct {
	Title string
	W, H  string
	Pages [][]template.HTML
}

func (e *HTML) Export(doc *layout.Document, w io.Writer) error {
	if doc == nil || len(doc.Pages) == 0 {
		return fmt.Errorf("%w: empty document", ErrExport)
	}
	data := htmlDoc{Title: doc.Title, W: num(doc.Size.W), H: num(doc.Size.H)}
	for _, p := range doc.Pages {
		els := make([]template.HTML, 0, len(p.Elements))
		for _, el := range p.Elements {
			els = append(els, htmlElement(el))
		}
		data.Pages = append(data.Pages, els)
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

// String is Export into a string.
func (e *HTML) String(doc *layout.Document) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(doc, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func htmlElement(el layout.Element) template.HTML {
	switch v := el.(type) {
	case *layout.Rect:
		return template.HTML(fmt.Sprintf(`<div style="left:%spt;top:%spt;width:%spt;height:%spt;border-radius:%spt;background:%s"></div>`,
			num(v.X), num(v.Y), num(v.W), num(v.H), num(v.Radius), v.Fill))
	case *layout.Line:
		return template.HTML(fmt.Sprintf(`<div style="left:%spt;top:%spt;width:%spt;height:0;border-top:%spt solid %s"></div>`,
			num(v.X1), num(v.Y1-v.Width/2), num(v.X2-v.X1), num(v.Width), v.Color))
	case *layout.Text:
		return template.HTML(fmt.Sprintf(`<span style="left:%spt;top:%spt;font:%s %s %spt %s;color:%s">%s</span>`,
			num(v.X), num(v.Y-v.Font.Size*0.8), fontStyle(v.Font), fontWeight(v.Font), num(v.Font.Size), fontFamily(v.Font), v.Color,
			template.HTMLEscapeString(v.Value)))
	}
	return ""
}

func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func fontStyle(f layout.Font) string {
	if strings.Contains(f.Style, "I") {
		return "italic"
	}
	return "normal"
}

func fontWeight(f layout.Font) string {
	if strings.Contains(f.Style, "B") {
		return "bold"
	}
	return "normal"
}

func fontFamily(f layout.Font) string {
	switch strings.ToLower(f.Family) {
	case "times":
		return `"Times New Roman", Times, serif`
	case "courier":
		return `"Courier New", Courier, monospace`
	default:
		return "Helvetica, Arial, sans-serif"
	}
}
