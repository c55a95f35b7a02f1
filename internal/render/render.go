// Package render substitutes named placeholders in email templates with
// per-recipient field values.
package render

import (
	"strings"
)

// Render replaces every occurrence of {{key}} in tmpl with the value of
// key from fields, for every key present in fields (including keys whose
// value is the empty string). Tokens whose name is not a key of fields are
// left as literal text. Rendering never fails.
func Render(tmpl string, fields map[string]string) string {
	if len(fields) == 0 || !strings.Contains(tmpl, "{{") {
		return tmpl
	}

	pairs := make([]string, 0, len(fields)*2)
	for key, value := range fields {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
