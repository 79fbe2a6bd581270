package render

import (
	"strings"

	"resume-optimizer/internal/layout"
	"resume-optimizer/internal/model"
)

// present reports whether sec has anything to show. Blank strings do not
// count.
func present(r *model.StructuredResume, sec Section) bool {
	switch sec {
	case Summary:
		return strings.TrimSpace(r.Summary) != ""
	case Experience:
		return len(r.Experience) > 0
	case Volunteer:
		return len(r.VolunteerWork) > 0
	case Education:
		return len(r.Education) > 0
	case Projects:
		return len(r.Projects) > 0
	case Skills:
		for _, s := range r.Skills {
			if strings.TrimSpace(s.Name) != "" {
				return true
			}
		}
	case Certifications:
		return len(r.Certifications) > 0
	case Languages:
		return len(nonBlank(r.Languages)) > 0
	case Awards:
		return len(nonBlank(r.Awards)) > 0
	case Publications:
		return len(nonBlank(r.Publications)) > 0
	}
	return false
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start + " - Present"
	default:
		return end
	}
}

func joinNonBlank(sep string, parts ...string) string {
	return strings.Join(nonBlank(parts), sep)
}

func (b *Builder) section(f *layout.Flow, sec Section) {
	if !present(b.resume, sec) {
		return
	}
	r := b.resume
	b.sectionTitle(f, b.style.title(sec))
	switch sec {
	case Summary:
		b.summary(f, r.Summary)
	case Experience:
		b.work(f, r.Experience)
	case Volunteer:
		b.work(f, r.VolunteerWork)
	case Education:
		b.education(f, r.Education)
	case Projects:
		b.projects(f, r.Projects)
	case Skills:
		b.skills(f, r.Skills)
	case Certifications:
		b.certifications(f, r.Certifications)
	case Languages:
		f.Paragraph(strings.Join(nonBlank(r.Languages), ", "), b.body)
	case Awards:
		b.bullets(f, r.Awards)
	case Publications:
		b.bullets(f, r.Publications)
	}
	f.Space(b.sz(12))
}

// sectionTitle keeps the title on the same page as the first line below it.
func (b *Builder) sectionTitle(f *layout.Flow, text string) {
	st := b.style
	if st.TitleUpper {
		text = strings.ToUpper(text)
	}
	ruleH := 0.0
	if st.TitleRule {
		ruleH = b.sz(5)
	}
	f.Reserve(b.title.Height() + ruleH + b.sz(4) + b.entry.Height())

	if st.TitleBar {
		bar := b.sz(4)
		p, top := f.Place(b.title.Height())
		p.Add(&layout.Rect{X: f.X, Y: top + b.title.Height()*0.15, W: bar, H: b.title.Height() * 0.7, Fill: b.pal.Primary})
		baseline := top + (b.title.Height()-b.title.Font.Size)/2 + b.title.Font.Size*0.8
		p.Add(&layout.Text{X: f.X + bar + b.sz(6), Y: baseline, Value: text, Font: b.title.Font, Color: b.title.Color})
	} else {
		f.Paragraph(text, b.title)
	}
	if st.TitleRule {
		f.Rule(ruleH, b.sz(0.75), b.pal.Accent)
	}
	f.Space(b.sz(4))
}

func (b *Builder) summary(f *layout.Flow, s string) {
	if !b.style.SummaryBox {
		f.Paragraph(s, b.body)
		return
	}
	box := layout.BoxStyle{Fill: b.pal.Surface, PadX: b.sz(10), PadY: b.sz(8), Radius: b.sz(3), BarWidth: b.sz(3), Bar: b.pal.Primary}
	f.Box(box, b.body.Height(), func() { f.Paragraph(s, b.body) })
}

func (b *Builder) work(f *layout.Flow, items []model.WorkExperience) {
	sub := b.body
	sub.Color = b.pal.Secondary
	for i, w := range items {
		if i > 0 {
			f.Space(b.sz(8))
		}
		f.Reserve(b.entry.Height() + b.body.Height()*2)
		f.Row(w.Position, b.entry, dateRange(w.StartDate, w.EndDate), b.small)
		f.Paragraph(joinNonBlank(" | ", w.Company, w.Location), sub)
		b.bullets(f, w.Responsibilities)
		if a := nonBlank(w.Achievements); len(a) > 0 {
			f.Space(b.sz(2))
			b.bullets(f, a)
		}
	}
}

func (b *Builder) education(f *layout.Flow, items []model.Education) {
	sub := b.body
	sub.Color = b.pal.Secondary
	for i, e := range items {
		if i > 0 {
			f.Space(b.sz(6))
		}
		degree := e.Degree
		if field := strings.TrimSpace(e.Field); field != "" {
			degree += " in " + field
		}
		f.Reserve(b.entry.Height() + b.body.Height())
		f.Row(degree, b.entry, dateRange(e.StartDate, e.EndDate), b.small)
		f.Paragraph(e.Institution, sub)
		if gpa := strings.TrimSpace(e.GPA); gpa != "" {
			f.Paragraph("GPA: "+gpa, b.small)
		}
		if h := nonBlank(e.Honors); len(h) > 0 {
			f.Paragraph("Honors: "+strings.Join(h, ", "), b.small)
		}
		if c := nonBlank(e.RelevantCourses); len(c) > 0 {
			f.Paragraph("Relevant coursework: "+strings.Join(c, ", "), b.small)
		}
	}
}

func (b *Builder) projects(f *layout.Flow, items []model.Project) {
	for i, p := range items {
		if i > 0 {
			f.Space(b.sz(8))
		}
		content := func() {
			f.Row(p.Name, b.entry, dateRange(p.StartDate, p.EndDate), b.small)
			f.Paragraph(p.Description, b.body)
			if t := nonBlank(p.Technologies); len(t) > 0 {
				tech := b.small
				tech.Color = b.pal.Secondary
				f.Paragraph("Technologies: "+strings.Join(t, ", "), tech)
			}
			if links := joinNonBlank(" | ", p.URL, p.GitHub); links != "" {
				f.Paragraph(links, b.small)
			}
			b.bullets(f, p.Highlights)
		}
		if !b.style.ProjectCards {
			f.Reserve(b.entry.Height() + b.body.Height())
			content()
			continue
		}
		card := layout.BoxStyle{Fill: b.pal.Surface, PadX: b.sz(8), PadY: b.sz(6), Radius: b.sz(4), BarWidth: b.sz(2), Bar: b.pal.Secondary}
		f.Box(card, b.entry.Height()+b.body.Height(), content)
	}
}

func (b *Builder) skills(f *layout.Flow, items []model.Skill) {
	switch b.style.Skills {
	case SkillChips:
		labels := make([]string, 0, len(items))
		for _, s := range items {
			labels = append(labels, skillLabel(s))
		}
		f.Chips(labels, b.chipStyle())
	case SkillGrouped:
		cat := b.entry
		cat.Font = b.body.Font.WithStyle("B")
		for i, g := range groupSkills(items) {
			if i > 0 {
				f.Space(b.sz(3))
			}
			if g.name != "" {
				f.Reserve(cat.Height() + b.body.Height())
				f.Paragraph(g.name, cat)
			}
			f.Paragraph(strings.Join(g.labels, ", "), b.body)
		}
	default:
		var labels []string
		for _, s := range items {
			if l := skillLabel(s); l != "" {
				labels = append(labels, l)
			}
		}
		f.Paragraph(strings.Join(labels, ", "), b.body)
	}
}

func (b *Builder) chipStyle() layout.ChipStyle {
	cs := layout.ChipStyle{
		Text:   layout.TextStyle{Font: b.small.Font},
		Fills:  []layout.Color{b.pal.Accent},
		Colors: []layout.Color{b.pal.Primary},
		PadX:   b.sz(6),
		PadY:   b.sz(3),
		Gap:    b.sz(4),
		Radius: b.sz(3),
	}
	if b.style.Header == HeaderBanner {
		cs.Fills = []layout.Color{b.pal.Primary, b.pal.Secondary}
		cs.Colors = []layout.Color{layout.White}
	}
	return cs
}

func skillLabel(s model.Skill) string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ""
	}
	if s.Level != "" {
		return name + " (" + string(s.Level) + ")"
	}
	return name
}

type skillGroup struct {
	name   string
	labels []string
}

// groupSkills groups by category in first-seen order. Uncategorized skills
// form a trailing unnamed group, or the only group when nothing has a
// category.
func groupSkills(items []model.Skill) []skillGroup {
	var groups []skillGroup
	idx := map[string]int{}
	var rest []string
	for _, s := range items {
		l := skillLabel(s)
		if l == "" {
			continue
		}
		c := strings.TrimSpace(s.Category)
		if c == "" {
			rest = append(rest, l)
			continue
		}
		i, ok := idx[c]
		if !ok {
			i = len(groups)
			idx[c] = i
			groups = append(groups, skillGroup{name: c})
		}
		groups[i].labels = append(groups[i].labels, l)
	}
	if len(rest) > 0 {
		name := ""
		if len(groups) > 0 {
			name = "Other"
		}
		groups = append(groups, skillGroup{name: name, labels: rest})
	}
	return groups
}

func (b *Builder) certifications(f *layout.Flow, items []model.Certification) {
	for i, c := range items {
		if i > 0 {
			f.Space(b.sz(5))
		}
		f.Reserve(b.entry.Height() + b.small.Height())
		name := b.entry
		name.Font = b.body.Font.WithStyle("B")
		f.Paragraph(c.Name, name)
		issued := ""
		if d := strings.TrimSpace(c.Date); d != "" {
			issued = "Issued: " + d
		}
		f.Paragraph(joinNonBlank(" | ", c.Issuer, issued), b.small)
		if e := strings.TrimSpace(c.ExpiryDate); e != "" {
			f.Paragraph("Expires: "+e, b.small)
		}
		if id := strings.TrimSpace(c.CredentialID); id != "" {
			f.Paragraph("Credential ID: "+id, b.small)
		}
	}
}

func (b *Builder) bullets(f *layout.Flow, items []string) {
	for _, it := range nonBlank(items) {
		f.Bullet(b.marker, it, b.body)
	}
}
