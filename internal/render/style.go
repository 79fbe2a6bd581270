package render

import "resume-optimizer/internal/model"

// Section identifies one resume section in canonical order.
type Section int

const (
	Summary Section = iota
	Experience
	Volunteer
	Education
	Projects
	Skills
	Certifications
	Languages
	Awards
	Publications
)

var defaultTitles = map[Section]string{
	Summary:        "Professional Summary",
	Experience:     "Experience",
	Volunteer:      "Volunteer Experience",
	Education:      "Education",
	Projects:       "Projects",
	Skills:         "Skills",
	Certifications: "Certifications",
	Languages:      "Languages",
	Awards:         "Awards",
	Publications:   "Publications",
}

type HeaderKind int

const (
	HeaderLeft HeaderKind = iota
	HeaderCentered
	HeaderBanner
)

type SkillMode int

const (
	SkillChips SkillMode = iota
	SkillGrouped
	SkillList
)

// Style is the static descriptor one template renders with. Sizes are
// points at the template's default body size; a fontSize option scales them
// all proportionally.
type Style struct {
	Family     string
	Margin     float64
	BodySize   float64
	LineHeight float64
	NameSize   float64
	TitleSize  float64
	EntrySize  float64

	Header  HeaderKind
	Tagline string

	TitleUpper bool
	TitleRule  bool
	TitleBar   bool

	Bullet       string
	SquareBullet bool
	SummaryBox   bool
	ProjectCards bool
	Skills       SkillMode

	Titles map[Section]string

	// Main sections flow across the full width before the column region;
	// Left and Right fill the columns. A template without columns lists
	// everything in Main.
	Main        []Section
	Left        []Section
	Right       []Section
	ColumnRatio float64
	ColumnGap   float64
}

func (s *Style) title(sec Section) string {
	if t, ok := s.Titles[sec]; ok {
		return t
	}
	return defaultTitles[sec]
}

var canonical = []Section{Summary, Experience, Volunteer, Education, Projects, Skills, Certifications, Languages, Awards, Publications}

var sidebar = []Section{Skills, Education, Certifications, Languages, Awards, Publications}

var styles = map[model.TemplateID]*Style{
	model.TemplateModern: {
		Family: "Helvetica", Margin: 48, BodySize: 10, LineHeight: 1.4, NameSize: 28, TitleSize: 13, EntrySize: 11.5,
		Header:     HeaderLeft,
		TitleUpper: true, TitleRule: true,
		Bullet:     "•",
		SummaryBox: true, ProjectCards: true, Skills: SkillChips,
		Main:        []Section{Summary},
		Left:        []Section{Experience, Volunteer, Projects},
		Right:       sidebar,
		ColumnRatio: 2.2, ColumnGap: 24,
	},
	model.TemplateCorporate: {
		Family: "Times", Margin: 50, BodySize: 10.5, LineHeight: 1.4, NameSize: 30, TitleSize: 13, EntrySize: 12,
		Header: HeaderCentered, Tagline: "Professional Resume",
		TitleUpper: true, TitleRule: true,
		Bullet: "•", SquareBullet: true, Skills: SkillGrouped,
		Titles: map[Section]string{
			Experience: "Professional Experience",
			Skills:     "Core Competencies",
			Projects:   "Notable Projects",
		},
		Main: canonical,
	},
	model.TemplateCreative: {
		Family: "Helvetica", Margin: 40, BodySize: 10, LineHeight: 1.4, NameSize: 30, TitleSize: 14, EntrySize: 12,
		Header: HeaderBanner, Tagline: "Creative Professional",
		TitleUpper: true, TitleBar: true,
		Bullet: "•", SquareBullet: true, ProjectCards: true, Skills: SkillChips,
		Titles: map[Section]string{
			Summary: "About",
		},
		Main:        []Section{Summary, Experience, Volunteer},
		Left:        []Section{Projects},
		Right:       sidebar,
		ColumnRatio: 2.2, ColumnGap: 24,
	},
	model.TemplateMinimal: {
		Family: "Helvetica", Margin: 50, BodySize: 10, LineHeight: 1.45, NameSize: 26, TitleSize: 12, EntrySize: 11,
		Header:     HeaderLeft,
		TitleUpper: true,
		Bullet:     "-",
		Skills:     SkillList,
		Titles: map[Section]string{
			Summary: "Summary",
		},
		Main:        []Section{Summary, Experience, Volunteer},
		Left:        []Section{Education, Projects},
		Right:       []Section{Skills, Certifications, Languages, Awards, Publications},
		ColumnRatio: 2.2, ColumnGap: 24,
	},
	model.TemplateDummy: {
		Family: "Helvetica", Margin: 30, BodySize: 10, LineHeight: 1.3, NameSize: 18, TitleSize: 12, EntrySize: 10,
		Header: HeaderLeft,
		Bullet: "-",
		Skills: SkillList,
		Main:   canonical,
	},
}

// LookupStyle returns the descriptor for a catalog template.
func LookupStyle(id model.TemplateID) (*Style, bool) {
	s, ok := styles[id]
	return s, ok
}
