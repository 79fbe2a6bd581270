package usecase

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// object is one decoded JSON object with case-insensitive key lookup. Model
// output drifts between "startDate", "StartDate" and "startdate", so every
// field is read through get.
type object map[string]interface{}

// get returns the value of the first key matching any of names, ignoring
// case. An exact match wins over a case-folded one.
func (o object) get(names ...string) (interface{}, bool) {
	for _, n := range names {
		if v, ok := o[n]; ok {
			return v, true
		}
	}
	for _, n := range names {
		for k, v := range o {
			if strings.EqualFold(k, n) {
				return v, true
			}
		}
	}
	return nil, false
}

// str reads a scalar as a trimmed string. Numbers keep their JSON spelling
// ("3.80" stays "3.80"), null and missing keys yield "".
func (o object) str(names ...string) string {
	v, _ := o.get(names...)
	return scalar(v)
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(t)
		if strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") {
			return ""
		}
		return s
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// strList normalizes the shapes a model uses for a list of strings: a real
// array, a single string, or an array of objects carrying a name or text.
// With split set a single string is also broken on commas and newlines.
func strList(v interface{}, split bool) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "-•*·"))
		if s != "" {
			out = append(out, s)
		}
	}
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if !split {
			for _, line := range strings.Split(t, "\n") {
				add(line)
			}
			return out
		}
		for _, part := range strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == '\n' || r == ';' }) {
			add(part)
		}
	case []interface{}:
		for _, it := range t {
			switch iv := it.(type) {
			case map[string]interface{}:
				o := object(iv)
				s := o.str("name", "title", "text", "language", "value")
				if lvl := o.str("proficiency", "level", "fluency"); s != "" && lvl != "" {
					s = fmt.Sprintf("%s (%s)", s, lvl)
				}
				add(s)
			default:
				add(scalar(iv))
			}
		}
	case map[string]interface{}:
		add(object(t).str("name", "title", "text", "language", "value"))
	default:
		add(scalar(t))
	}
	return out
}

// objList returns the elements of a list, keeping their positions. A lone
// object is treated as a one-element list. Elements that are not objects are
// reported through bad and left nil.
func objList(v interface{}, bad func(i int, got interface{})) []object {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		return []object{t}
	case []interface{}:
		out := make([]object, len(t))
		for i, it := range t {
			if m, ok := it.(map[string]interface{}); ok {
				out[i] = m
				continue
			}
			bad(i, it)
		}
		return out
	default:
		bad(-1, t)
		return nil
	}
}

// sortedKeys gives map iteration a stable order.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
