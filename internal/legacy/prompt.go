package legacy

import (
	"fmt"
	"strings"
)

// BuildRewritePrompt asks the model for a plain-text rewrite of resume that
// targets jobDescription.
func BuildRewritePrompt(resume, jobDescription string) string {
	return fmt.Sprintf(`You are an expert resume writer and career coach. Please rewrite the following resume to better align with the job description provided.

Job Description:
%s

Current Resume:
%s

Instructions:
1. Rewrite the resume content to better match the job requirements
2. Include relevant keywords from the job description
3. Enhance the professional summary and experience descriptions
4. Maintain the original structure but improve the content
5. Focus on quantifiable achievements where possible
6. Ensure the tone is professional and ATS-friendly
7. Put each section header on its own line, ending with a colon

Please provide only the rewritten resume content without any additional commentary.`,
		strings.TrimSpace(jobDescription), strings.TrimSpace(resume))
}

// Suggestions is returned with every successful rewrite.
const Suggestions = "Resume optimized for the provided job description with enhanced keywords and formatting."

// Keywords returns up to five words longer than four characters, in order.
func Keywords(jobDescription string) []string {
	var out []string
	for _, w := range strings.Fields(jobDescription) {
		if len([]rune(w)) <= 4 {
			continue
		}
		out = append(out, w)
		if len(out) == 5 {
			break
		}
	}
	return out
}

// MockRewrite produces a canned rewrite used when no model is configured.
func MockRewrite(resume, jobDescription string) string {
	kw := "No job description provided"
	if k := Keywords(jobDescription); len(k) > 0 {
		kw = strings.Join(k, ", ")
	}
	return fmt.Sprintf(`Professional Summary:
Experienced professional with skills aligned to the target role. This section has been optimized based on the job requirements.

Experience:
- Enhanced previous role descriptions with relevant keywords from job posting
- Quantified achievements with specific metrics and results
- Highlighted transferable skills and accomplishments

Skills:
- Technical skills matching job requirements
- Soft skills relevant to the position

Education:
- Relevant educational background
- Certifications and training

Notes:
Original resume length: %d characters
Job description keywords: %s
`, len([]rune(resume)), kw)
}
