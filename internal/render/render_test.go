package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-optimizer/internal/export"
	"resume-optimizer/internal/layout"
	"resume-optimizer/internal/model"
)

type mono struct{}

func (mono) StringWidth(f layout.Font, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * f.Size / 2
}

func scenarioA() *model.StructuredResume {
	return &model.StructuredResume{
		Contact:    model.Contact{Name: "Jane Doe"},
		Experience: []model.WorkExperience{{Company: "Acme", Position: "Engineer", Responsibilities: []string{"Built X"}}},
		Education:  []model.Education{{Institution: "State University", Degree: "BSc"}},
		Skills:     []model.Skill{{Name: "Go"}},
	}
}

func fullResume() *model.StructuredResume {
	return &model.StructuredResume{
		Contact: model.Contact{
			Name: "Jane Doe", Email: "jane@example.com", Phone: "+1 555 0100", Location: "Berlin",
			LinkedIn: "linkedin.com/in/janedoe", Website: "janedoe.dev", GitHub: "github.com/janedoe",
		},
		Summary: "Backend engineer focused on reliable distributed systems and developer tooling.",
		Experience: []model.WorkExperience{{
			Company: "Acme", Position: "Staff Engineer", StartDate: "2020-01", Location: "Remote",
			Responsibilities: []string{"Led the billing platform rewrite", "Mentored four engineers"},
			Achievements:     []string{"Cut invoice latency by half"},
		}},
		Education: []model.Education{{
			Institution: "State University", Degree: "BSc", Field: "Computer Science", StartDate: "2012-09", EndDate: "2016-06",
			GPA: "3.8", Honors: []string{"Dean's List"}, RelevantCourses: []string{"Distributed Systems"},
		}},
		Skills: []model.Skill{
			{Name: "Go", Level: model.LevelExpert, Category: "Languages"},
			{Name: "PostgreSQL", Category: "Data"},
			{Name: "Kubernetes"},
		},
		Projects: []model.Project{{
			Name: "Ledger", Description: "Double-entry ledger service", Technologies: []string{"Go", "gRPC"},
			StartDate: "2021-03", EndDate: "2021-09", URL: "ledger.example.com", GitHub: "github.com/janedoe/ledger",
			Highlights: []string{"Processed a million entries daily"},
		}},
		Certifications: []model.Certification{{
			Name: "CKA", Issuer: "CNCF", Date: "2022-05", ExpiryDate: "2025-05", CredentialID: "CKA-123",
		}},
		Languages:     []string{"English", "German"},
		Awards:        []string{"Hackathon winner"},
		Publications:  []string{"Scaling ledgers in practice"},
		VolunteerWork: []model.WorkExperience{{Company: "Code Club", Position: "Mentor", Responsibilities: []string{"Taught weekly classes"}}},
	}
}

func lines(doc *layout.Document) []string {
	return strings.FieldsFunc(doc.Text(), func(r rune) bool { return r == '\n' || r == '\f' })
}

func flat(doc *layout.Document) string {
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func headingFor(st *Style, sec Section) string {
	t := st.title(sec)
	if st.TitleUpper {
		t = strings.ToUpper(t)
	}
	return t
}

func TestRender_ScenarioA_OnePageWithoutOptionalSections(t *testing.T) {
	absent := []Section{Summary, Volunteer, Projects, Certifications, Languages, Awards, Publications}
	for _, id := range model.TemplateIDs() {
		t.Run(id, func(t *testing.T) {
			doc, err := Render(scenarioA(), id, model.RenderOptions{}, mono{})
			require.NoError(t, err)
			assert.Len(t, doc.Pages, 1)

			st, _ := LookupStyle(model.TemplateID(id))
			got := lines(doc)
			for _, sec := range absent {
				assert.NotContains(t, got, headingFor(st, sec))
			}
			for _, sec := range []Section{Experience, Education, Skills} {
				assert.Contains(t, got, headingFor(st, sec))
			}
			assert.Contains(t, flat(doc), "Built X")
		})
	}
}

func TestRender_BlankOptionalValuesProduceNoHeadings(t *testing.T) {
	r := scenarioA()
	r.Summary = "   "
	r.Languages = []string{"", " "}
	r.Awards = []string{}
	doc, err := Render(r, "corporate", model.RenderOptions{}, mono{})
	require.NoError(t, err)

	st, _ := LookupStyle(model.TemplateCorporate)
	got := lines(doc)
	for _, sec := range []Section{Summary, Languages, Awards} {
		assert.NotContains(t, got, headingFor(st, sec))
	}
}

func TestRender_EveryCatalogPairSelectsItsPalette(t *testing.T) {
	for _, info := range model.Templates() {
		for _, scheme := range info.ColorSchemes {
			t.Run(string(info.ID)+"/"+scheme, func(t *testing.T) {
				pal, used := ResolvePalette(info, scheme)
				assert.Equal(t, scheme, used)
				assert.Equal(t, palettes[info.ID][scheme], pal)
				assert.NotEqual(t, Palette{}, pal)

				doc, err := Render(scenarioA(), string(info.ID), model.RenderOptions{ColorScheme: scheme}, mono{})
				require.NoError(t, err)
				assert.Equal(t, scheme, doc.ColorScheme)
			})
		}
	}
}

func TestRender_ForeignSchemeFallsBackToDefault(t *testing.T) {
	doc, err := Render(scenarioA(), "modern", model.RenderOptions{ColorScheme: "navy"}, mono{})
	require.NoError(t, err)
	assert.Equal(t, "blue", doc.ColorScheme)

	info, _ := model.LookupTemplate("modern")
	pal, used := ResolvePalette(info, "navy")
	assert.Equal(t, "blue", used)
	assert.Equal(t, layout.Hex("#2563eb"), pal.Primary)
}

func TestValidationRejectsWhatRenderingDefaults(t *testing.T) {
	req := model.RenderRequest{Resume: *scenarioA(), Template: model.TemplateModern, Options: model.RenderOptions{ColorScheme: "navy"}}
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	_, err = model.ValidateRenderRequest(raw)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), `unknown color scheme "navy"`)

	_, err = Render(&req.Resume, string(req.Template), req.Options, mono{})
	assert.NoError(t, err)
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(scenarioA(), "fancy", model.RenderOptions{}, mono{})

	var ute *UnknownTemplateError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "fancy", ute.Requested)
	assert.Equal(t, model.TemplateIDs(), ute.Valid)
	assert.Equal(t, `unknown template "fancy" (valid: modern, corporate, creative, minimal, dummy)`, err.Error())
}

func TestRender_MissingNameIsInternal(t *testing.T) {
	r := scenarioA()
	r.Contact.Name = " "
	_, err := Render(r, "modern", model.RenderOptions{}, mono{})
	assert.ErrorIs(t, err, ErrInternal)

	_, err = Render(nil, "modern", model.RenderOptions{}, mono{})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestRender_IdenticalInputsExportIdenticalBytes(t *testing.T) {
	for _, id := range model.TemplateIDs() {
		t.Run(id, func(t *testing.T) {
			render := func() []byte {
				doc, err := Render(fullResume(), id, model.RenderOptions{}, export.NewPDFMeasurer())
				require.NoError(t, err)
				b, err := export.NewPDF().Bytes(doc)
				require.NoError(t, err)
				return b
			}
			assert.Equal(t, render(), render())
		})
	}
}

func TestRender_PaginatesWholeLines(t *testing.T) {
	const n = 200
	r := scenarioA()
	r.Experience[0].Responsibilities = nil
	for i := 0; i < n; i++ {
		r.Experience[0].Responsibilities = append(r.Experience[0].Responsibilities, fmt.Sprintf("Responsibility %03d", i))
	}

	for _, id := range []string{"dummy", "corporate", "modern"} {
		t.Run(id, func(t *testing.T) {
			doc, err := Render(r, id, model.RenderOptions{}, mono{})
			require.NoError(t, err)
			require.Greater(t, len(doc.Pages), 2)

			st, _ := LookupStyle(model.TemplateID(id))
			body := st.BodySize * st.LineHeight
			bottom := doc.Size.H - doc.Margins.Bottom

			lowest := make([]float64, len(doc.Pages))
			seen := 0
			for pi, p := range doc.Pages {
				for _, e := range p.Elements {
					tx, ok := e.(*layout.Text)
					if !ok || !strings.HasPrefix(tx.Value, "Responsibility ") {
						continue
					}
					seen++
					assert.Len(t, tx.Value, len("Responsibility 000"), "line split")
					assert.LessOrEqual(t, tx.Y, bottom)
					if tx.Y > lowest[pi] {
						lowest[pi] = tx.Y
					}
				}
			}
			assert.Equal(t, n, seen)

			// a page followed by more bullets is full: one more line would not fit
			for pi := 0; pi+1 < len(doc.Pages); pi++ {
				if lowest[pi] == 0 || lowest[pi+1] == 0 {
					continue
				}
				bandBottom := lowest[pi] - (body-st.BodySize)/2 - st.BodySize*0.8 + body
				assert.Greater(t, bandBottom+body, bottom, "page %d left room for another line", pi)
			}
		})
	}
}

func TestRender_RoundTripKeepsEveryField(t *testing.T) {
	for _, id := range model.TemplateIDs() {
		t.Run(id, func(t *testing.T) {
			info, _ := model.LookupTemplate(id)
			raw, err := json.Marshal(model.RenderRequest{
				Resume:   *fullResume(),
				Template: model.TemplateID(id),
				Options:  model.RenderOptions{ColorScheme: info.DefaultColorScheme()},
			})
			require.NoError(t, err)
			req, err := model.ValidateRenderRequest(raw)
			require.NoError(t, err)

			doc, err := Render(&req.Resume, string(req.Template), req.Options, mono{})
			require.NoError(t, err)
			text := flat(doc)

			r := fullResume()
			c := r.Contact
			want := []string{
				c.Name, c.Email, c.Phone, c.Location, c.LinkedIn, c.Website, c.GitHub, r.Summary,
				"Acme", "Staff Engineer", "2020-01 - Present", "Remote", "Led the billing platform rewrite",
				"Mentored four engineers", "Cut invoice latency by half",
				"State University", "BSc in Computer Science", "2012-09 - 2016-06", "3.8", "Dean's List", "Distributed Systems",
				"Go (Expert)", "PostgreSQL", "Kubernetes",
				"Ledger", "Double-entry ledger service", "gRPC", "2021-03 - 2021-09", "ledger.example.com",
				"github.com/janedoe/ledger", "Processed a million entries daily",
				"CKA", "CNCF", "Issued: 2022-05", "Expires: 2025-05", "Credential ID: CKA-123",
				"English", "German", "Hackathon winner", "Scaling ledgers in practice",
				"Code Club", "Mentor", "Taught weekly classes",
			}
			for _, w := range want {
				assert.Contains(t, text, w)
			}
		})
	}
}

func TestRender_CorporateGroupsSkillsByCategory(t *testing.T) {
	doc, err := Render(fullResume(), "corporate", model.RenderOptions{}, mono{})
	require.NoError(t, err)

	got := lines(doc)
	assert.Contains(t, got, "Languages")
	assert.Contains(t, got, "Go (Expert)")
	assert.Contains(t, got, "Other")
	assert.Contains(t, got, "PROFESSIONAL RESUME")
}

func TestRender_Options(t *testing.T) {
	size, margin := 12.0, 20.0
	doc, err := Render(scenarioA(), "dummy", model.RenderOptions{FontSize: &size, Margin: &margin}, mono{})
	require.NoError(t, err)

	assert.Equal(t, layout.UniformMargins(20), doc.Margins)
	var found bool
	for _, e := range doc.Pages[0].Elements {
		if tx, ok := e.(*layout.Text); ok && tx.Value == "Built X" {
			found = true
			assert.InDelta(t, 12, tx.Font.Size, 1e-9)
			assert.InDelta(t, 20+12*1.2, tx.X, 1e-9)
		}
	}
	assert.True(t, found)

	zero := 0.0
	doc, err = Render(scenarioA(), "dummy", model.RenderOptions{Margin: &zero}, mono{})
	require.NoError(t, err)
	assert.Equal(t, layout.Margins{}, doc.Margins)
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	r := fullResume()
	before, err := json.Marshal(r)
	require.NoError(t, err)

	_, err = Render(r, "creative", model.RenderOptions{}, mono{})
	require.NoError(t, err)

	after, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestRender_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := Render(fullResume(), id, model.RenderOptions{}, export.NewPDFMeasurer()); err != nil {
				errs <- err
			}
		}(model.TemplateIDs()[i%5])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestRender_NarrowSidebarStacksEducationDates(t *testing.T) {
	size, margin := 16.0, 120.0
	doc, err := Render(fullResume(), "modern", model.RenderOptions{FontSize: &size, Margin: &margin}, mono{})
	require.NoError(t, err)

	var degree *layout.Text
	var dates []*layout.Text
	for _, p := range doc.Pages {
		for _, e := range p.Elements {
			tx, ok := e.(*layout.Text)
			if !ok {
				continue
			}
			if strings.HasPrefix(tx.Value, "BSc") {
				degree = tx
			}
			if strings.Contains(tx.Value, "2012-09") || strings.Contains(tx.Value, "2016-06") {
				dates = append(dates, tx)
			}
		}
	}
	require.NotNil(t, degree)
	require.NotEmpty(t, dates)

	assert.Greater(t, utf8.RuneCountInString(degree.Value), 1, "degree wrapped rune by rune")
	right := doc.Size.W - doc.Margins.Right
	for _, d := range dates {
		assert.GreaterOrEqual(t, d.X, degree.X, "date %q starts left of its column", d.Value)
		assert.LessOrEqual(t, d.X+mono{}.StringWidth(d.Font, d.Value), right+1e-9)
	}
}
