// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package template handles {{variable}} placeholders in prompt content.
package template

import (
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// Variables extracts the unique variable names from a template, in order of
// first appearance. Placeholders use the {{variable_name}} syntax; names must
// be identifiers (letter or underscore first, then letters, digits or
// underscores).
func Variables(content string) []string {
	matches := variablePattern.FindAllStringSubmatch(content, -1)

	seen := make(map[string]bool, len(matches))
	var result []string
	for _, match := range matches {
		if len(match) > 1 && !seen[match[1]] {
			seen[match[1]] = true
			result = append(result, match[1])
		}
	}
	return result
}

// Render substitutes the given values into a template. Placeholders without
// a value are left intact; the second return value lists their names.
func Render(content string, values map[string]string) (string, []string) {
	result := content
	for key, value := range values {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}

	var missing []string
	for _, name := range Variables(result) {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return result, missing
}
