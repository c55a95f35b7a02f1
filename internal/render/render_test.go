package render

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRender_Basic(t *testing.T) {
	fields := map[string]string{
		"name":    "Ada",
		"company": "Initech",
	}

	got := Render("Application for {{company}} - {{name}}", fields)
	want := "Application for Initech - Ada"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_UnknownTokenLeftLiteral(t *testing.T) {
	got := Render("Hi {{name}}, re {{position}}", map[string]string{"name": "Ada"})
	want := "Hi Ada, re {{position}}"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_EmptyValueSubstituted(t *testing.T) {
	got := Render("[{{notes}}]", map[string]string{"notes": ""})
	if got != "[]" {
		t.Errorf("Render() = %q, want %q", got, "[]")
	}
}

func TestRender_NoFields(t *testing.T) {
	tmpl := "Hi {{name}}"
	if got := Render(tmpl, nil); got != tmpl {
		t.Errorf("Render() = %q, want unchanged %q", got, tmpl)
	}
}

// Property: for any template built from known and unknown tokens, every
// known token is replaced with its value and every unknown token survives
// verbatim.
func TestProperty_Render_Substitution(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	identifier := gen.RegexMatch(`[a-z][a-z0-9_]{0,9}`)

	properties.Property("known_tokens_substituted", prop.ForAll(
		func(key, value, prefix, suffix string) bool {
			fields := map[string]string{key: value}
			got := Render(prefix+"{{"+key+"}}"+suffix, fields)
			// The prefix/suffix are placeholder-free, so the result must
			// be an exact concatenation.
			return got == prefix+value+suffix
		},
		identifier,
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("unknown_tokens_left_literal", prop.ForAll(
		func(known, unknown, value string) bool {
			if known == unknown {
				return true
			}
			fields := map[string]string{known: value}
			tmpl := "{{" + unknown + "}}"
			return Render(tmpl, fields) == tmpl
		},
		identifier,
		identifier,
		gen.AlphaString(),
	))

	properties.Property("empty_value_still_substituted", prop.ForAll(
		func(key string) bool {
			got := Render("a{{"+key+"}}b", map[string]string{key: ""})
			return got == "ab" && !strings.Contains(got, key)
		},
		identifier,
	))

	properties.TestingRun(t)
}
