package render

import (
	"resume-optimizer/internal/layout"
	"resume-optimizer/internal/model"
)

// Palette is the resolved color set for one (template, color scheme) pair.
// Accent is the light tint used behind boxes and chips.
type Palette struct {
	Primary   layout.Color
	Secondary layout.Color
	Accent    layout.Color
	Text      layout.Color
	Muted     layout.Color
	Surface   layout.Color
}

func palette(primary, secondary, accent, text, muted, surface string) Palette {
	return Palette{
		Primary:   layout.Hex(primary),
		Secondary: layout.Hex(secondary),
		Accent:    layout.Hex(accent),
		Text:      layout.Hex(text),
		Muted:     layout.Hex(muted),
		Surface:   layout.Hex(surface),
	}
}

var cool = map[string]Palette{
	"blue":   palette("#2563eb", "#3b82f6", "#dbeafe", "#1e293b", "#64748b", "#f8fafc"),
	"green":  palette("#059669", "#10b981", "#dcfce7", "#1e293b", "#64748b", "#f8fafc"),
	"purple": palette("#7c3aed", "#8b5cf6", "#ede9fe", "#1e293b", "#64748b", "#f8fafc"),
	"black":  palette("#111827", "#374151", "#f3f4f6", "#1e293b", "#64748b", "#f8fafc"),
}

var palettes = map[model.TemplateID]map[string]Palette{
	model.TemplateModern:  cool,
	model.TemplateMinimal: cool,
	model.TemplateCorporate: {
		"navy":     palette("#1e3a8a", "#3b82f6", "#e0e7ff", "#1f2937", "#6b7280", "#f9fafb"),
		"charcoal": palette("#374151", "#6b7280", "#f3f4f6", "#111827", "#6b7280", "#f9fafb"),
		"burgundy": palette("#7f1d1d", "#dc2626", "#fee2e2", "#1f2937", "#6b7280", "#f9fafb"),
		"forest":   palette("#14532d", "#16a34a", "#dcfce7", "#1f2937", "#6b7280", "#f9fafb"),
	},
	model.TemplateCreative: {
		"coral":  palette("#ff6b6b", "#ff8e8e", "#fff5f5", "#2d3748", "#718096", "#f7fafc"),
		"teal":   palette("#14b8a6", "#5eead4", "#f0fdfa", "#1f2937", "#6b7280", "#f9fafb"),
		"violet": palette("#8b5cf6", "#a78bfa", "#f3f0ff", "#1f2937", "#6b7280", "#f9fafb"),
		"rose":   palette("#f43f5e", "#fb7185", "#fff1f2", "#1f2937", "#6b7280", "#f9fafb"),
	},
	model.TemplateDummy: {
		"black": palette("#000000", "#333333", "#eeeeee", "#000000", "#555555", "#ffffff"),
	},
}

// ResolvePalette returns the palette for scheme, or the template's default
// scheme's palette when scheme is not one of the template's schemes. The
// scheme actually used is returned alongside.
func ResolvePalette(t model.TemplateInfo, scheme string) (Palette, string) {
	set := palettes[t.ID]
	if p, ok := set[scheme]; ok && t.HasColorScheme(scheme) {
		return p, scheme
	}
	def := t.DefaultColorScheme()
	return set[def], def
}
