// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"testing"
	"time"

	"github.com/promptlab/promptlab/pkg/storage"
)

func prompt(id, title, desc, collectionID string, created time.Time, tagNames ...string) *storage.Prompt {
	tags := make([]*storage.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tags = append(tags, &storage.Tag{ID: "tag_" + name, Name: name})
	}
	return &storage.Prompt{
		ID:           id,
		Title:        title,
		Description:  desc,
		CollectionID: collectionID,
		Tags:         tags,
		CreatedAt:    created,
	}
}

func ids(prompts []*storage.Prompt) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, p.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestByCollection(t *testing.T) {
	now := time.Now()
	prompts := []*storage.Prompt{
		prompt("p1", "a", "", "col_1", now),
		prompt("p2", "b", "", "col_2", now),
		prompt("p3", "c", "", "col_1", now),
		prompt("p4", "d", "", "", now),
	}

	got := ByCollection(prompts, "col_1")
	if !equal(ids(got), []string{"p1", "p3"}) {
		t.Errorf("ByCollection(col_1) = %v", ids(got))
	}
	if got := ByCollection(prompts, "col_nope"); len(got) != 0 {
		t.Errorf("unknown collection must yield empty, got %v", ids(got))
	}
}

func TestByTags(t *testing.T) {
	now := time.Now()
	prompts := []*storage.Prompt{
		prompt("p1", "a", "", "", now, "alpha", "beta"),
		prompt("p2", "b", "", "", now, "alpha"),
		prompt("p3", "c", "", "", now, "beta"),
		prompt("p4", "d", "", "", now),
	}

	tests := []struct {
		name  string
		names []string
		match TagMatch
		want  []string
	}{
		{"AllBoth", []string{"alpha", "beta"}, MatchAll, []string{"p1"}},
		{"AllSingle", []string{"alpha"}, MatchAll, []string{"p1", "p2"}},
		{"AnyBoth", []string{"alpha", "beta"}, MatchAny, []string{"p1", "p2", "p3"}},
		{"AllUnknownName", []string{"alpha", "nope"}, MatchAll, nil},
		{"AnyUnknownName", []string{"alpha", "nope"}, MatchAny, []string{"p1", "p2"}},
		{"EmptyKeepsAll", nil, MatchAll, []string{"p1", "p2", "p3", "p4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByTags(prompts, tt.names, tt.match)
			if !equal(ids(got), tt.want) {
				t.Errorf("ByTags(%v, %s) = %v, want %v", tt.names, tt.match, ids(got), tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	now := time.Now()
	prompts := []*storage.Prompt{
		prompt("p1", "Email Summarizer", "", "", now),
		prompt("p2", "Reviewer", "summarizes code diffs", "", now),
		prompt("p3", "Translator", "", "", now),
	}
	// Content never matches.
	prompts[2].Content = "summarize everything"

	got := Search(prompts, "SUMMAR")
	if !equal(ids(got), []string{"p1", "p2"}) {
		t.Errorf("Search(SUMMAR) = %v", ids(got))
	}
	if got := Search(prompts, ""); len(got) != 3 {
		t.Errorf("empty term must keep all, got %v", ids(got))
	}
}

func TestSortByCreatedAt(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	prompts := []*storage.Prompt{
		prompt("p2", "b", "", "", t0.Add(time.Hour)),
		prompt("p1", "a", "", "", t0),
		prompt("p3", "c", "", "", t0.Add(time.Hour)), // same instant as p2
	}

	SortByCreatedAt(prompts, OrderDesc)
	if !equal(ids(prompts), []string{"p3", "p2", "p1"}) {
		t.Errorf("desc order = %v", ids(prompts))
	}

	SortByCreatedAt(prompts, OrderAsc)
	if !equal(ids(prompts), []string{"p1", "p2", "p3"}) {
		t.Errorf("asc order = %v", ids(prompts))
	}
}
