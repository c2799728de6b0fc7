// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/promptlab/promptlab/pkg/storage"
)

func makeVersion(title, content, description, collectionID string) *storage.PromptVersion {
	return &storage.PromptVersion{
		Title:        title,
		Content:      content,
		Description:  description,
		CollectionID: collectionID,
	}
}

func TestNormalizeTagName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"code-review", "code-review", false},
		{"  Code-Review  ", "code-review", false},
		{"UPPER_case_1", "upper_case_1", false},
		{"has space", "", true},
		{"émoji", "", true},
		{"", "", true},
		{"   ", "", true},
		{strings.Repeat("a", 50), strings.Repeat("a", 50), false},
		{strings.Repeat("a", 51), "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeTagName(tt.in)
		if tt.wantErr {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("NormalizeTagName(%q): expected ValidationError, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeTagName(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeTagName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTagNameIdempotent(t *testing.T) {
	for _, in := range []string{"code-review", "  Mixed_Case-3 "} {
		once, err := NormalizeTagName(in)
		if err != nil {
			t.Fatalf("NormalizeTagName(%q): %v", in, err)
		}
		twice, err := NormalizeTagName(once)
		if err != nil {
			t.Fatalf("NormalizeTagName(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestOptionalString(t *testing.T) {
	var req struct {
		Description OptionalString `json:"description"`
	}

	if err := json.Unmarshal([]byte(`{}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Description.Set {
		t.Error("absent field must not be Set")
	}

	if err := json.Unmarshal([]byte(`{"description":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.Description.Set || req.Description.Value != "" {
		t.Errorf("null must set-to-empty, got %+v", req.Description)
	}

	if err := json.Unmarshal([]byte(`{"description":"hi"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.Description.Set || req.Description.Value != "hi" {
		t.Errorf("string must be captured, got %+v", req.Description)
	}
}

func TestCreatePromptRequestValidate(t *testing.T) {
	valid := CreatePromptRequest{Title: "t", Content: "c"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	tests := []struct {
		name string
		req  CreatePromptRequest
	}{
		{"EmptyTitle", CreatePromptRequest{Title: "", Content: "c"}},
		{"LongTitle", CreatePromptRequest{Title: strings.Repeat("t", 201), Content: "c"}},
		{"EmptyContent", CreatePromptRequest{Title: "t", Content: ""}},
		{"LongDescription", CreatePromptRequest{Title: "t", Content: "c", Description: strings.Repeat("d", 501)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			if err := tt.req.Validate(); !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestUpdatePromptRequestUpdate(t *testing.T) {
	var req UpdatePromptRequest
	if err := json.Unmarshal([]byte(`{"description":null,"tag_ids":[]}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	upd := req.Update()
	if upd.Title != nil || upd.Content != nil {
		t.Error("absent title/content must stay nil")
	}
	if upd.Description == nil || *upd.Description != "" {
		t.Error("null description must clear")
	}
	if upd.CollectionID != nil {
		t.Error("absent collection_id must stay nil")
	}
	if upd.TagIDs == nil || len(upd.TagIDs) != 0 {
		t.Error("explicit [] must clear tags")
	}

	var empty UpdatePromptRequest
	if err := json.Unmarshal([]byte(`{}`), &empty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !empty.Update().IsZero() {
		t.Error("empty body must produce a zero update")
	}
}

func TestChangedFields(t *testing.T) {
	from := makeVersion("a", "c", "d", "col_1")
	to := makeVersion("b", "c", "", "col_1")
	got := ChangedFields(from, to)
	if len(got) != 2 || got[0] != "title" || got[1] != "description" {
		t.Errorf("ChangedFields = %v", got)
	}
	if got := ChangedFields(from, from); len(got) != 0 {
		t.Errorf("identical snapshots must yield no fields, got %v", got)
	}
}
