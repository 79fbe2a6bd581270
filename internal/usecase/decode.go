package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"resume-optimizer/internal/model"
)

// DecodeIssue records one entry dropped or altered while decoding model
// output. Path uses the JSON field names, e.g. "experience[2]".
type DecodeIssue struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (i DecodeIssue) String() string { return i.Path + ": " + i.Reason }

// DecodeError means the model output could not be read as a resume at all.
type DecodeError struct {
	Paths []string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := "decode structured resume"
	if len(e.Paths) > 0 {
		msg += " at " + strings.Join(e.Paths, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// extractJSON strips markdown fences and surrounding prose from a model
// reply, keeping the outermost object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}
	if json.Valid([]byte(s)) {
		return s
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// DecodeStructuredResume reads a model reply into a StructuredResume. Loose
// shapes are coerced, entries missing required fields are dropped and
// reported as issues, and anything that is not a JSON object yields a
// *DecodeError. It never panics.
func DecodeStructuredResume(raw string) (res model.StructuredResume, issues []DecodeIssue, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, issues = model.StructuredResume{}, nil
			err = &DecodeError{Paths: []string{"$"}, Err: fmt.Errorf("unexpected shape: %v", r)}
		}
	}()

	body := extractJSON(raw)
	if body == "" {
		return model.StructuredResume{}, nil, &DecodeError{Paths: []string{"$"}, Err: fmt.Errorf("empty response")}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var top interface{}
	if err := dec.Decode(&top); err != nil {
		return model.StructuredResume{}, nil, &DecodeError{Paths: []string{"$"}, Err: err}
	}
	root, ok := top.(map[string]interface{})
	if !ok {
		return model.StructuredResume{}, nil, &DecodeError{Paths: []string{"$"}, Err: fmt.Errorf("expected an object, got %s", typeName(top))}
	}

	d := &decoder{}
	res = d.resume(root)
	if len(d.fatal) > 0 {
		return model.StructuredResume{}, d.issues, &DecodeError{Paths: d.fatal}
	}
	return res, d.issues, nil
}

type decoder struct {
	issues []DecodeIssue
	fatal  []string
}

func (d *decoder) drop(path, reason string) {
	d.issues = append(d.issues, DecodeIssue{Path: path, Reason: reason})
}

func (d *decoder) list(o object, field string, names ...string) []object {
	v, _ := o.get(append([]string{field}, names...)...)
	return objList(v, func(i int, got interface{}) {
		if i < 0 {
			d.drop(field, "expected a list, got "+typeName(got))
			return
		}
		d.drop(fmt.Sprintf("%s[%d]", field, i), "expected an object, got "+typeName(got))
	})
}

func (d *decoder) resume(root object) model.StructuredResume {
	var r model.StructuredResume

	cv, _ := root.get("contact", "contactInfo", "personalInfo")
	switch c := cv.(type) {
	case map[string]interface{}:
		r.Contact = contact(c)
	case nil:
	default:
		d.fatal = append(d.fatal, "contact")
	}
	if r.Contact.Name == "" {
		r.Contact.Name = root.str("name", "fullName")
	}
	if r.Contact.Name == "" {
		d.drop("contact.name", "missing")
	}

	r.Summary = strings.Join(strList(mustGet(root, "summary", "profile", "objective"), false), " ")
	r.Experience = d.work(root, "experience", "workExperience")
	r.VolunteerWork = d.work(root, "volunteerWork", "volunteer")
	r.Education = d.education(root)
	r.Skills = d.skills(root)
	r.Projects = d.projects(root)
	r.Certifications = d.certifications(root)
	r.Languages = strList(mustGet(root, "languages"), true)
	r.Awards = strList(mustGet(root, "awards", "honors"), false)
	r.Publications = strList(mustGet(root, "publications"), false)
	return r
}

func mustGet(o object, names ...string) interface{} {
	v, _ := o.get(names...)
	return v
}

func contact(c object) model.Contact {
	return model.Contact{
		Name:     c.str("name", "fullName"),
		Email:    c.str("email"),
		Phone:    c.str("phone", "phoneNumber"),
		Location: c.str("location", "address"),
		LinkedIn: c.str("linkedin", "linkedIn", "linkedinUrl"),
		Website:  c.str("website", "portfolio", "url"),
		GitHub:   c.str("github", "gitHub", "githubUrl"),
	}
}

func (d *decoder) work(root object, field string, aliases ...string) []model.WorkExperience {
	var out []model.WorkExperience
	for i, o := range d.list(root, field, aliases...) {
		if o == nil {
			continue
		}
		path := fmt.Sprintf("%s[%d]", field, i)
		w := model.WorkExperience{
			Company:          o.str("company", "organization", "employer"),
			Position:         o.str("position", "title", "role"),
			StartDate:        o.str("startDate", "start"),
			EndDate:          o.str("endDate", "end"),
			Location:         o.str("location"),
			Responsibilities: strList(mustGet(o, "responsibilities", "bullets", "duties", "description"), false),
			Achievements:     strList(mustGet(o, "achievements"), false),
		}
		if len(w.Responsibilities) == 0 && len(w.Achievements) > 0 {
			w.Responsibilities, w.Achievements = w.Achievements, nil
		}
		switch {
		case w.Company == "":
			d.drop(path, "missing company")
		case w.Position == "":
			d.drop(path, "missing position")
		case len(w.Responsibilities) == 0:
			d.drop(path, "missing responsibilities")
		default:
			out = append(out, w)
		}
	}
	return out
}

func (d *decoder) education(root object) []model.Education {
	var out []model.Education
	for i, o := range d.list(root, "education") {
		if o == nil {
			continue
		}
		path := fmt.Sprintf("education[%d]", i)
		e := model.Education{
			Institution:     o.str("institution", "school", "university"),
			Degree:          o.str("degree"),
			Field:           o.str("field", "fieldOfStudy", "major"),
			StartDate:       o.str("startDate", "start"),
			EndDate:         o.str("endDate", "end", "graduationDate"),
			GPA:             o.str("gpa"),
			Honors:          strList(mustGet(o, "honors"), false),
			RelevantCourses: strList(mustGet(o, "relevantCourses", "courses", "coursework"), true),
		}
		switch {
		case e.Institution == "":
			d.drop(path, "missing institution")
		case e.Degree == "":
			d.drop(path, "missing degree")
		default:
			out = append(out, e)
		}
	}
	return out
}

// skills accepts a list of objects, a list of names, a comma-separated
// string, or an object mapping category to names.
func (d *decoder) skills(root object) []model.Skill {
	v, _ := root.get("skills")
	var out []model.Skill
	add := func(path string, s model.Skill, level string) {
		if s.Name == "" {
			d.drop(path, "missing name")
			return
		}
		if level != "" {
			if l, ok := model.ParseSkillLevel(level); ok {
				s.Level = l
			} else {
				d.drop(path+".level", fmt.Sprintf("unknown level %q", level))
			}
		}
		out = append(out, s)
	}

	switch t := v.(type) {
	case nil:
	case string:
		for _, name := range strList(t, true) {
			out = append(out, model.Skill{Name: name})
		}
	case []interface{}:
		for i, it := range t {
			path := fmt.Sprintf("skills[%d]", i)
			switch sv := it.(type) {
			case map[string]interface{}:
				o := object(sv)
				add(path, model.Skill{Name: o.str("name", "skill"), Category: o.str("category")}, o.str("level", "proficiency"))
			case string:
				add(path, model.Skill{Name: strings.TrimSpace(sv)}, "")
			default:
				d.drop(path, "expected an object, got "+typeName(it))
			}
		}
	case map[string]interface{}:
		for _, cat := range sortedKeys(t) {
			for _, name := range strList(t[cat], true) {
				out = append(out, model.Skill{Name: name, Category: cat})
			}
		}
	default:
		d.drop("skills", "expected a list, got "+typeName(t))
	}
	return out
}

func (d *decoder) projects(root object) []model.Project {
	var out []model.Project
	for i, o := range d.list(root, "projects") {
		if o == nil {
			continue
		}
		path := fmt.Sprintf("projects[%d]", i)
		p := model.Project{
			Name:         o.str("name", "title"),
			Description:  o.str("description", "summary"),
			Technologies: strList(mustGet(o, "technologies", "techStack", "stack"), true),
			StartDate:    o.str("startDate", "start"),
			EndDate:      o.str("endDate", "end"),
			URL:          o.str("url", "link"),
			GitHub:       o.str("github", "repository"),
			Highlights:   strList(mustGet(o, "highlights"), false),
		}
		switch {
		case p.Name == "":
			d.drop(path, "missing name")
		case p.Description == "":
			d.drop(path, "missing description")
		case len(p.Technologies) == 0:
			d.drop(path, "missing technologies")
		default:
			out = append(out, p)
		}
	}
	return out
}

func (d *decoder) certifications(root object) []model.Certification {
	var out []model.Certification
	for i, o := range d.list(root, "certifications", "certificates") {
		if o == nil {
			continue
		}
		path := fmt.Sprintf("certifications[%d]", i)
		c := model.Certification{
			Name:         o.str("name", "title"),
			Issuer:       o.str("issuer", "organization", "authority"),
			Date:         o.str("date", "issueDate", "issued"),
			ExpiryDate:   o.str("expiryDate", "expirationDate", "expires"),
			CredentialID: o.str("credentialId", "credentialID", "id"),
		}
		switch {
		case c.Name == "":
			d.drop(path, "missing name")
		case c.Issuer == "":
			d.drop(path, "missing issuer")
		default:
			out = append(out, c)
		}
	}
	return out
}
