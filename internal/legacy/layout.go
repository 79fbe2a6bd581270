package legacy

import (
	"strings"

	"resume-optimizer/internal/layout"
)

const margin = 56.69 // 20mm

var (
	nameStyle    = layout.TextStyle{Font: layout.Font{Family: "Helvetica", Style: "B", Size: 24}, LineHeight: 1.3, Align: layout.AlignCenter}
	contactStyle = layout.TextStyle{Font: layout.Font{Family: "Helvetica", Size: 10}, LineHeight: 1.4, Align: layout.AlignCenter}
	titleStyle   = layout.TextStyle{Font: layout.Font{Family: "Helvetica", Style: "B", Size: 14}, LineHeight: 1.4}
	bodyStyle    = layout.TextStyle{Font: layout.Font{Family: "Helvetica", Size: 10}, LineHeight: 1.4}
)

// Layout lays a parsed rewrite out on A4: centered name and contact line,
// a rule, then upper-case section titles over wrapped body text.
func Layout(d *Document, m layout.Measurer) *layout.Document {
	out := layout.NewDocument(layout.A4, layout.UniformMargins(margin))
	out.Title = d.Name + " - Resume"
	out.Author = d.Name
	out.Template = "legacy"

	f := layout.NewFlow(out, m)
	f.Paragraph(d.Name, nameStyle)
	if len(d.Contact) > 0 {
		f.Space(4)
		f.Paragraph(strings.Join(d.Contact, " | "), contactStyle)
	}
	f.Space(8)
	f.Rule(6, 0.5, layout.Black)
	f.Space(8)

	for _, s := range d.Sections {
		f.Reserve(titleStyle.Height() + bodyStyle.Height())
		f.Paragraph(strings.ToUpper(s.Title), titleStyle)
		f.Space(3)
		for _, c := range s.Content {
			f.Paragraph(c, bodyStyle)
			f.Space(3)
		}
		f.Space(10)
	}
	return out
}
