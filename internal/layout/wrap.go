package layout

import "strings"

// Wrap breaks s into lines no wider than width. Explicit newlines start a new
// line, runs of whitespace collapse to one space, and a word wider than the
// whole line is split between runes. Blank input yields no lines.
func Wrap(m Measurer, f Font, s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		lines = append(lines, wrapWords(m, f, words, width)...)
	}
	return lines
}

func wrapWords(m Measurer, f Font, words []string, width float64) []string {
	var lines []string
	cur := ""
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if m.StringWidth(f, candidate) <= width {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		if m.StringWidth(f, w) <= width {
			cur = w
			continue
		}
		pieces := splitWord(m, f, w, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		cur = pieces[len(pieces)-1]
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func splitWord(m Measurer, f Font, w string, width float64) []string {
	var out []string
	runes := []rune(w)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && m.StringWidth(f, string(runes[start:end+1])) <= width {
			end++
		}
		out = append(out, string(runes[start:end]))
		start = end
	}
	return out
}
