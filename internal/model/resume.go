package model

import "strings"

// StructuredResume is the canonical resume shape shared by generation and
// rendering. Optional scalars use the empty string for "absent"; list order is
// render order.
type StructuredResume struct {
	Contact        Contact          `json:"contact"`
	Summary        string           `json:"summary,omitempty"`
	Experience     []WorkExperience `json:"experience,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	Skills         []Skill          `json:"skills,omitempty"`
	Projects       []Project        `json:"projects,omitempty"`
	Certifications []Certification  `json:"certifications,omitempty"`
	Languages      []string         `json:"languages,omitempty"`
	Awards         []string         `json:"awards,omitempty"`
	Publications   []string         `json:"publications,omitempty"`
	VolunteerWork  []WorkExperience `json:"volunteerWork,omitempty"`
}

type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type WorkExperience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	StartDate        string   `json:"startDate,omitempty"`
	EndDate          string   `json:"endDate,omitempty"`
	Location         string   `json:"location,omitempty"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements,omitempty"`
}

type Education struct {
	Institution     string   `json:"institution"`
	Degree          string   `json:"degree"`
	Field           string   `json:"field,omitempty"`
	StartDate       string   `json:"startDate,omitempty"`
	EndDate         string   `json:"endDate,omitempty"`
	GPA             string   `json:"gpa,omitempty"`
	Honors          []string `json:"honors,omitempty"`
	RelevantCourses []string `json:"relevantCourses,omitempty"`
}

// SkillLevel is restricted to the values in SkillLevels.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "Beginner"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelAdvanced     SkillLevel = "Advanced"
	LevelExpert       SkillLevel = "Expert"
)

var SkillLevels = []SkillLevel{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

type Skill struct {
	Name     string     `json:"name"`
	Level    SkillLevel `json:"level,omitempty"`
	Category string     `json:"category,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	URL          string   `json:"url,omitempty"`
	GitHub       string   `json:"github,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

// RenderOptions mirrors the optional block of a render request. Nil and empty
// values mean "use the template default".
type RenderOptions struct {
	ColorScheme string   `json:"colorScheme,omitempty"`
	FontSize    *float64 `json:"fontSize,omitempty"`
	Margin      *float64 `json:"margin,omitempty"`
}

type RenderRequest struct {
	Resume   StructuredResume `json:"resume"`
	Template TemplateID       `json:"template"`
	Options  RenderOptions    `json:"options,omitzero"`
}

// ParseSkillLevel matches a level case-insensitively.
func ParseSkillLevel(s string) (SkillLevel, bool) {
	for _, l := range SkillLevels {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, true
		}
	}
	return "", false
}
