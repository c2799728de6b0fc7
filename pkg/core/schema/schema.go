// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the request and response types of the PromptLab
// API, together with their validation rules. Validation happens here, before
// a request ever reaches the store.
package schema

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Field length bounds, counted in runes.
const (
	MaxTitleLen          = 200
	MaxDescriptionLen    = 500
	MaxCollectionNameLen = 100
	MaxTagNameLen        = 50
	MaxChangeSummaryLen  = 500
)

// ValidationError reports a request field that fails a structural
// constraint. Handlers map it to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func checkRequired(field, value string, max int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return invalidf(field, "must not be empty")
	}
	if max > 0 && n > max {
		return invalidf(field, "must be at most %d characters", max)
	}
	return nil
}

func checkOptional(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalidf(field, "must be at most %d characters", max)
	}
	return nil
}

// OptionalString distinguishes an absent JSON field from an explicit value.
// Absent fields never reach UnmarshalJSON so Set stays false; an explicit
// null counts as set-to-empty.
type OptionalString struct {
	Set   bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
