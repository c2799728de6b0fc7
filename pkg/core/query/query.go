// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package query filters and sorts prompt lists in memory. Backends return
// unordered candidate sets; every list endpoint runs them through this
// pipeline so all backends behave identically.
package query

import (
	"sort"
	"strings"

	"github.com/promptlab/promptlab/pkg/storage"
)

// TagMatch selects how multiple tag filters combine.
type TagMatch string

const (
	// MatchAll keeps prompts carrying every requested tag.
	MatchAll TagMatch = "all"
	// MatchAny keeps prompts carrying at least one requested tag.
	MatchAny TagMatch = "any"
)

// Order selects the sort direction for creation timestamps.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ByCollection keeps prompts belonging to the given collection id.
func ByCollection(prompts []*storage.Prompt, collectionID string) []*storage.Prompt {
	var out []*storage.Prompt
	for _, p := range prompts {
		if p.CollectionID == collectionID {
			out = append(out, p)
		}
	}
	return out
}

// ByTags keeps prompts matching the given normalized tag names. With MatchAll
// a prompt needs every name; with MatchAny one suffices. An empty name list
// keeps everything.
func ByTags(prompts []*storage.Prompt, names []string, match TagMatch) []*storage.Prompt {
	if len(names) == 0 {
		return prompts
	}
	var out []*storage.Prompt
	for _, p := range prompts {
		have := make(map[string]struct{}, len(p.Tags))
		for _, t := range p.Tags {
			have[t.Name] = struct{}{}
		}
		hits := 0
		for _, name := range names {
			if _, ok := have[name]; ok {
				hits++
			}
		}
		switch match {
		case MatchAny:
			if hits > 0 {
				out = append(out, p)
			}
		default:
			if hits == len(names) {
				out = append(out, p)
			}
		}
	}
	return out
}

// Search keeps prompts whose title or description contains the term,
// case-insensitively. Content is deliberately not searched. An empty term
// keeps everything.
func Search(prompts []*storage.Prompt, term string) []*storage.Prompt {
	if term == "" {
		return prompts
	}
	needle := strings.ToLower(term)
	var out []*storage.Prompt
	for _, p := range prompts {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

// SortByCreatedAt orders prompts by creation time, ties broken by id in the
// same direction so the order is deterministic.
func SortByCreatedAt(prompts []*storage.Prompt, order Order) {
	asc := order == OrderAsc
	sort.SliceStable(prompts, func(i, j int) bool {
		a, b := prompts[i], prompts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if asc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
}
