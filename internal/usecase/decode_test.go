package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-optimizer/internal/model"
)

func TestDecodeStructuredResume_StrictShape(t *testing.T) {
	raw := `{
		"contact": {"name": "Jane Doe", "email": "jane@example.com", "linkedin": null},
		"summary": "Backend engineer.",
		"experience": [{"company": "Acme", "position": "Engineer", "startDate": "2020-01", "endDate": null,
			"responsibilities": ["Built APIs"], "achievements": ["Cut latency 40%"]}],
		"education": [{"institution": "MIT", "degree": "BSc", "field": "CS", "gpa": 3.80}],
		"skills": [{"name": "Go", "level": "Expert", "category": "Languages"}],
		"projects": [{"name": "pdfkit", "description": "PDF toolkit", "technologies": ["Go"], "startDate": "2021-01", "endDate": "2021-06"}],
		"certifications": [{"name": "CKA", "issuer": "CNCF", "date": "2022-03"}],
		"languages": ["English"],
		"awards": [], "publications": null
	}`
	res, issues, err := DecodeStructuredResume(raw)
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.Equal(t, model.Contact{Name: "Jane Doe", Email: "jane@example.com"}, res.Contact)
	require.Len(t, res.Experience, 1)
	assert.Equal(t, "", res.Experience[0].EndDate)
	assert.Equal(t, []string{"Cut latency 40%"}, res.Experience[0].Achievements)
	require.Len(t, res.Education, 1)
	assert.Equal(t, "3.80", res.Education[0].GPA)
	assert.Equal(t, []model.Skill{{Name: "Go", Level: model.LevelExpert, Category: "Languages"}}, res.Skills)
	assert.Len(t, res.Projects, 1)
	assert.Len(t, res.Certifications, 1)
	assert.Equal(t, []string{"English"}, res.Languages)
	assert.Empty(t, res.Awards)
	assert.Empty(t, res.Publications)
}

func TestDecodeStructuredResume_StripsFencesAndProse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "json fence", raw: "```json\n{\"contact\":{\"name\":\"Jane\"}}\n```"},
		{name: "bare fence", raw: "```\n{\"contact\":{\"name\":\"Jane\"}}\n```"},
		{name: "prose around", raw: "Here is the resume:\n{\"contact\":{\"name\":\"Jane\"}}\nLet me know!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := DecodeStructuredResume(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "Jane", res.Contact.Name)
		})
	}
}

func TestDecodeStructuredResume_CoercesLooseShapes(t *testing.T) {
	raw := `{
		"Contact": {"Name": "Jane Doe", "Phone": 5550100},
		"Experience": {"Company": "Acme", "Title": "Engineer", "Responsibilities": "Built APIs\n- Ran on-call"},
		"volunteerWork": [{"company": "Food Bank", "position": "Driver", "achievements": ["Delivered meals"]}],
		"skills": ["Go", "SQL"],
		"languages": [{"language": "Spanish", "proficiency": "Native"}, "English"],
		"education": [{"institution": "MIT", "degree": "BSc", "relevantCourses": "Algorithms, Databases"}],
		"projects": [{"name": "x", "description": "y", "technologies": "Go, Postgres"}]
	}`
	res, issues, err := DecodeStructuredResume(raw)
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.Equal(t, "Jane Doe", res.Contact.Name)
	assert.Equal(t, "5550100", res.Contact.Phone)
	require.Len(t, res.Experience, 1)
	assert.Equal(t, "Engineer", res.Experience[0].Position)
	assert.Equal(t, []string{"Built APIs", "Ran on-call"}, res.Experience[0].Responsibilities)
	require.Len(t, res.VolunteerWork, 1)
	assert.Equal(t, []string{"Delivered meals"}, res.VolunteerWork[0].Responsibilities)
	assert.Empty(t, res.VolunteerWork[0].Achievements)
	assert.Equal(t, []model.Skill{{Name: "Go"}, {Name: "SQL"}}, res.Skills)
	assert.Equal(t, []string{"Spanish (Native)", "English"}, res.Languages)
	assert.Equal(t, []string{"Algorithms", "Databases"}, res.Education[0].RelevantCourses)
	assert.Equal(t, []string{"Go", "Postgres"}, res.Projects[0].Technologies)
}

func TestDecodeStructuredResume_SkillLevels(t *testing.T) {
	raw := `{"contact":{"name":"J"},"skills":[
		{"name":"Go","level":"expert"},
		{"name":"SQL","level":"ADVANCED"},
		{"name":"Rust","level":"guru"},
		{"level":"Beginner"}
	]}`
	res, issues, err := DecodeStructuredResume(raw)
	require.NoError(t, err)
	assert.Equal(t, []model.Skill{
		{Name: "Go", Level: model.LevelExpert},
		{Name: "SQL", Level: model.LevelAdvanced},
		{Name: "Rust"},
	}, res.Skills)
	assert.Equal(t, []DecodeIssue{
		{Path: "skills[2].level", Reason: `unknown level "guru"`},
		{Path: "skills[3]", Reason: "missing name"},
	}, issues)
}

func TestDecodeStructuredResume_SkillsByCategory(t *testing.T) {
	raw := `{"contact":{"name":"J"},"skills":{"Languages":["Go","Python"],"Cloud":"AWS, GCP"}}`
	res, _, err := DecodeStructuredResume(raw)
	require.NoError(t, err)
	assert.Equal(t, []model.Skill{
		{Name: "AWS", Category: "Cloud"},
		{Name: "GCP", Category: "Cloud"},
		{Name: "Go", Category: "Languages"},
		{Name: "Python", Category: "Languages"},
	}, res.Skills)
}

func TestDecodeStructuredResume_DropsIncompleteEntries(t *testing.T) {
	raw := `{
		"contact": {"name": "Jane"},
		"experience": [
			{"company": "Acme", "position": "Engineer", "responsibilities": ["a"]},
			{"position": "Ghost", "responsibilities": ["b"]},
			{"company": "Beta", "position": "Lead"},
			"not an object"
		],
		"education": [{"institution": "MIT"}],
		"certifications": [{"name": "CKA"}]
	}`
	res, issues, err := DecodeStructuredResume(raw)
	require.NoError(t, err)
	require.Len(t, res.Experience, 1)
	assert.Equal(t, "Acme", res.Experience[0].Company)
	assert.Empty(t, res.Education)
	assert.Empty(t, res.Certifications)

	var paths []string
	for _, is := range issues {
		paths = append(paths, is.Path)
	}
	assert.ElementsMatch(t, []string{
		"experience[3]",
		"experience[1]",
		"experience[2]",
		"education[0]",
		"certifications[0]",
	}, paths)
}

func TestDecodeStructuredResume_Failures(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		paths []string
	}{
		{name: "empty", raw: "   ", paths: []string{"$"}},
		{name: "not json", raw: "I cannot help with that.", paths: []string{"$"}},
		{name: "truncated", raw: `{"contact": {"name": "Jane"`, paths: []string{"$"}},
		{name: "array", raw: `[{"contact": {}}]`, paths: []string{"$"}},
		{name: "contact not an object", raw: `{"contact": "Jane Doe"}`, paths: []string{"contact"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := DecodeStructuredResume(tt.raw)
			require.Error(t, err)
			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.paths, de.Paths)
			assert.Equal(t, model.StructuredResume{}, res)
		})
	}
}

func TestDecodeStructuredResume_MissingNameIsReported(t *testing.T) {
	res, issues, err := DecodeStructuredResume(`{"summary": "hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "", res.Contact.Name)
	assert.Equal(t, "hello", res.Summary)
	assert.Contains(t, issues, DecodeIssue{Path: "contact.name", Reason: "missing"})
}
