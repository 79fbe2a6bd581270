package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/render_request.schema.json
var renderRequestSchema []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(renderRequestSchema))
})

// FieldError is a single itemized validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationError carries every problem found in a render request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return "Validation error: " + strings.Join(parts, ", ")
}

// ValidateRenderRequest checks raw JSON against the embedded request schema
// and the template catalog. Either a complete RenderRequest or a
// *ValidationError listing all failures is returned, never both.
func ValidateRenderRequest(raw []byte) (RenderRequest, error) {
	if !json.Valid(raw) {
		return RenderRequest{}, &ValidationError{Errors: []FieldError{{Message: "request body is not valid JSON"}}}
	}

	schema, err := compiledSchema()
	if err != nil {
		return RenderRequest{}, fmt.Errorf("compile render request schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return RenderRequest{}, fmt.Errorf("validate render request: %w", err)
	}

	var errs []FieldError
	for _, e := range res.Errors() {
		msg := e.Description()
		if e.Type() == "pattern" {
			// the schema's only pattern rejects blank required strings
			msg = "must not be blank"
		}
		errs = append(errs, FieldError{Field: errorField(e), Message: msg})
	}
	errs = append(errs, catalogErrors(raw)...)
	if len(errs) > 0 {
		return RenderRequest{}, &ValidationError{Errors: errs}
	}

	var req RenderRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return RenderRequest{}, &ValidationError{Errors: []FieldError{{Message: err.Error()}}}
	}
	return req, nil
}

// errorField turns a gojsonschema context into a dotted path. Required-field
// errors are reported against the missing property itself.
func errorField(e gojsonschema.ResultError) string {
	field := e.Field()
	if field == gojsonschema.STRING_CONTEXT_ROOT {
		field = ""
	}
	if e.Type() == "required" {
		if prop, ok := e.Details()["property"].(string); ok {
			if field == "" {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}

func catalogErrors(raw []byte) []FieldError {
	var probe struct {
		Template json.RawMessage `json:"template"`
		Options  *struct {
			ColorScheme json.RawMessage `json:"colorScheme"`
		} `json:"options"`
	}
	// type mismatches are already reported by the schema
	_ = json.Unmarshal(raw, &probe)

	var id string
	if len(probe.Template) == 0 || json.Unmarshal(probe.Template, &id) != nil {
		return nil
	}
	info, ok := LookupTemplate(id)
	if !ok {
		return []FieldError{{
			Field:   "template",
			Message: fmt.Sprintf("unknown template %q (valid: %s)", id, strings.Join(TemplateIDs(), ", ")),
		}}
	}

	if probe.Options == nil || len(probe.Options.ColorScheme) == 0 {
		return nil
	}
	var scheme *string
	if json.Unmarshal(probe.Options.ColorScheme, &scheme) != nil || scheme == nil || *scheme == "" {
		return nil
	}
	if !info.HasColorScheme(*scheme) {
		return []FieldError{{
			Field: "options.colorScheme",
			Message: fmt.Sprintf("unknown color scheme %q for template %q (valid: %s)",
				*scheme, id, strings.Join(info.ColorSchemes, ", ")),
		}}
	}
	return nil
}
