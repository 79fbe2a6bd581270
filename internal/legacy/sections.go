// Package legacy implements the raw-text resume mode: a free-form rewrite,
// heuristic section splitting and a plain document layout.
package legacy

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
)

// DefaultSections is reported when a rewrite has no recognizable headers.
var DefaultSections = []string{"Professional Summary", "Experience", "Skills", "Education"}

// ExtractSections lists single-word header lines ending in a colon, in order.
func ExtractSections(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(line)
		if len(l) > 3 && strings.HasSuffix(l, ":") && !strings.Contains(l, " ") {
			out = append(out, strings.TrimRight(l, ":"))
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultSections...)
	}
	return out
}

type Section struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// Document is a rewrite split into name, contact lines and sections.
type Document struct {
	Name     string    `json:"name"`
	Contact  []string  `json:"contact"`
	Sections []Section `json:"sections"`
}

var commonHeaders = []string{
	"experience", "education", "skills", "summary", "objective",
	"certifications", "projects", "achievements", "awards",
	"professional experience", "work experience", "employment",
	"qualifications", "technical skills", "core competencies",
}

var (
	emailRe    = regexp.MustCompile(`\S+@\S+\.\S+`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s\-().]{6,14}\d`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com`)
	githubRe   = regexp.MustCompile(`(?i)github\.com`)
)

// Parse splits free-form resume text. The first short line without contact
// markers is the name; contact lines follow within the first five lines;
// every header line opens a new section. Text before the first header goes
// into a "Summary" section.
func Parse(text string) *Document {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	doc := &Document{Name: "Resume"}
	if len(lines) > 0 {
		first := lines[0]
		if !strings.Contains(first, "@") && !strings.Contains(first, "Phone") && len([]rune(first)) < 50 {
			doc.Name = first
			lines = lines[1:]
		}
	}

	for i := 0; i < len(lines) && i < 5; i++ {
		if !IsContactLine(lines[i]) {
			break
		}
		doc.Contact = append(doc.Contact, lines[i])
	}
	lines = lines[len(doc.Contact):]

	var cur *Section
	for _, l := range lines {
		if IsSectionHeader(l) {
			if cur != nil {
				doc.Sections = append(doc.Sections, *cur)
			}
			cur = &Section{Title: cleanTitle(l)}
			continue
		}
		if cur == nil {
			cur = &Section{Title: "Summary"}
		}
		cur.Content = append(cur.Content, l)
	}
	if cur != nil {
		doc.Sections = append(doc.Sections, *cur)
	}
	return doc
}

// IsSectionHeader reports lines that look like headers: short upper-case
// lines, lines ending in a colon, or short lines naming a common section.
func IsSectionHeader(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if len([]rune(line)) < 30 && hasLetter(line) && line == strings.ToUpper(line) {
		return true
	}
	if strings.HasSuffix(line, ":") {
		return true
	}
	lower := strings.ToLower(line)
	if len([]rune(lower)) >= 50 {
		return false
	}
	for _, h := range commonHeaders {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

// IsContactLine reports lines carrying an email, phone, profile link or a
// bare website.
func IsContactLine(line string) bool {
	lower := strings.ToLower(line)
	if emailRe.MatchString(line) || phoneRe.MatchString(line) ||
		linkedinRe.MatchString(line) || githubRe.MatchString(line) ||
		strings.Contains(lower, "phone") || strings.Contains(lower, "email") {
		return true
	}
	for _, tok := range strings.FieldsFunc(line, func(r rune) bool { return unicode.IsSpace(r) || r == '|' || r == ',' }) {
		if isWebsite(tok) {
			return true
		}
	}
	return false
}

// isWebsite accepts tokens whose host ends in an ICANN public suffix, so
// "jane.dev" matches and "Node.js" does not.
func isWebsite(tok string) bool {
	tok = strings.Trim(tok, "()[]<>.;")
	if !strings.Contains(tok, ".") || strings.Contains(tok, "@") {
		return false
	}
	host := tok
	if u, err := url.Parse(tok); err == nil && u.Host != "" {
		host = u.Host
	} else if i := strings.IndexByte(tok, '/'); i >= 0 {
		host = tok[:i]
	}
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return false
	}
	_, icann := publicsuffix.PublicSuffix(host)
	return icann
}

func cleanTitle(s string) string {
	s = strings.NewReplacer(":", "", "-", "", "_", "").Replace(s)
	return strings.TrimSpace(s)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
