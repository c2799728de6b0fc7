// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"reflect"
	"testing"
)

func TestVariables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"None", "plain text", nil},
		{"Single", "Summarize {{text}}.", []string{"text"}},
		{"OrderOfFirstAppearance", "{{b}} {{a}} {{b}}", []string{"b", "a"}},
		{"Underscore", "{{user_name}} {{_private}}", []string{"user_name", "_private"}},
		{"DigitsAfterFirst", "{{v2}}", []string{"v2"}},
		{"LeadingDigitIgnored", "{{2v}}", nil},
		{"SpacesInsideIgnored", "{{ spaced }}", nil},
		{"SingleBracesIgnored", "{not_a_var}", nil},
		{"HyphenIgnored", "{{a-b}}", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Variables(tt.content); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Variables(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	rendered, missing := Render("Hello {{name}}, meet {{other}}.", map[string]string{"name": "Ada"})
	if rendered != "Hello Ada, meet {{other}}." {
		t.Errorf("rendered = %q", rendered)
	}
	if len(missing) != 1 || missing[0] != "other" {
		t.Errorf("missing = %v", missing)
	}

	rendered, missing = Render("{{a}}{{a}}", map[string]string{"a": "x"})
	if rendered != "xx" || len(missing) != 0 {
		t.Errorf("repeat substitution: %q, missing %v", rendered, missing)
	}
}
