package eval

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/abhimana06/llmapp04/internal/analysis"
)

var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	DoNotReference:             true,
}

// SchemaDescription renders the JSON schema of v as a sentence a judge can
// check output against, e.g. "The JSON object must have the keys:
// summary (string), wordCount (integer, minimum 0)."
func SchemaDescription(v any) string {
	s := reflector.Reflect(v)
	if s == nil || s.Properties == nil {
		return ""
	}

	var fields []string
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, fmt.Sprintf("%s (%s)", pair.Key, describe(pair.Value)))
	}
	if len(fields) == 0 {
		return ""
	}

	desc := "The JSON object must have the keys: " + strings.Join(fields, ", ") + "."
	if len(s.Required) > 0 {
		desc += " Required keys: " + strings.Join(s.Required, ", ") + "."
	}
	return desc
}

// SchemaFor returns the schema sentence for the response of t, or "" when t
// has no known response shape.
func SchemaFor(t analysis.Type) string {
	v := analysis.ResponseFor(t)
	if v == nil {
		return ""
	}
	return SchemaDescription(v)
}

func describe(s *jsonschema.Schema) string {
	parts := []string{typeName(s)}
	if len(s.Enum) > 0 {
		vals := make([]string, 0, len(s.Enum))
		for _, e := range s.Enum {
			vals = append(vals, fmt.Sprint(e))
		}
		parts = append(parts, "one of "+strings.Join(vals, "/"))
	}
	switch {
	case s.Minimum != "" && s.Maximum != "":
		parts = append(parts, fmt.Sprintf("between %s and %s", s.Minimum, s.Maximum))
	case s.Minimum != "":
		parts = append(parts, "minimum "+string(s.Minimum))
	case s.Maximum != "":
		parts = append(parts, "maximum "+string(s.Maximum))
	}
	return strings.Join(parts, ", ")
}

func typeName(s *jsonschema.Schema) string {
	if s.Type == "array" && s.Items != nil {
		return "array of " + s.Items.Type
	}
	if s.Type == "" {
		return "any"
	}
	return s.Type
}
