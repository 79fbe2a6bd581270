package model

import "strings"

type TemplateID string

const (
	TemplateModern    TemplateID = "modern"
	TemplateCorporate TemplateID = "corporate"
	TemplateCreative  TemplateID = "creative"
	TemplateMinimal   TemplateID = "minimal"
	TemplateDummy     TemplateID = "dummy"
)

// TemplateInfo is one row of the template catalog. ColorSchemes[0] is the
// template's default scheme.
type TemplateInfo struct {
	ID           TemplateID `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	ColorSchemes []string   `json:"colorSchemes"`
	Features     []string   `json:"features"`
}

// catalog is the only place valid (template, colorScheme) pairs are declared.
var catalog = []TemplateInfo{
	{
		ID:           TemplateModern,
		Name:         "Modern",
		Description:  "Two-column layout with accent colors and skill chips",
		ColorSchemes: []string{"blue", "green", "purple", "black"},
		Features:     []string{"Two-column layout", "Accent summary box", "Skill chips", "Section rules"},
	},
	{
		ID:           TemplateCorporate,
		Name:         "Corporate",
		Description:  "Traditional single-column layout for conservative industries",
		ColorSchemes: []string{"navy", "charcoal", "burgundy", "forest"},
		Features:     []string{"Single-column layout", "Centered header", "Skills grouped by category", "Square bullets"},
	},
	{
		ID:           TemplateCreative,
		Name:         "Creative",
		Description:  "Bold banner header with colorful project and skill cards",
		ColorSchemes: []string{"coral", "teal", "violet", "rose"},
		Features:     []string{"Banner header", "Project cards", "Alternating skill chips", "Two-column lower section"},
	},
	{
		ID:           TemplateMinimal,
		Name:         "Minimal",
		Description:  "Clean typography with generous white space",
		ColorSchemes: []string{"blue", "green", "purple", "black"},
		Features:     []string{"Understated headings", "Two-column lower section", "Project links", "Compact skill list"},
	},
	{
		ID:           TemplateDummy,
		Name:         "Diagnostic",
		Description:  "Plain layout used to check PDF generation",
		ColorSchemes: []string{"black"},
		Features:     []string{"Single-column layout", "No decoration"},
	},
}

// Templates returns a copy of the catalog in listing order.
func Templates() []TemplateInfo {
	out := make([]TemplateInfo, len(catalog))
	for i, t := range catalog {
		t.ColorSchemes = append([]string(nil), t.ColorSchemes...)
		t.Features = append([]string(nil), t.Features...)
		out[i] = t
	}
	return out
}

func LookupTemplate(id string) (TemplateInfo, bool) {
	for _, t := range catalog {
		if string(t.ID) == id {
			return t, true
		}
	}
	return TemplateInfo{}, false
}

func TemplateIDs() []string {
	ids := make([]string, len(catalog))
	for i, t := range catalog {
		ids[i] = string(t.ID)
	}
	return ids
}

func (t TemplateInfo) DefaultColorScheme() string {
	if len(t.ColorSchemes) == 0 {
		return ""
	}
	return t.ColorSchemes[0]
}

func (t TemplateInfo) HasColorScheme(scheme string) bool {
	for _, s := range t.ColorSchemes {
		if s == scheme {
			return true
		}
	}
	return false
}

// FileName builds the download name for a resume, e.g. "resume-jane-doe.pdf".
func FileName(name, ext string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	if slug == "" {
		slug = "document"
	}
	return "resume-" + slug + "." + ext
}
