// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory is the default in-memory Store backend. All state lives in
// maps guarded by a single RWMutex; every compound operation (versioned
// update, restore, cascade delete) runs under one lock hold so callers never
// observe an intermediate state.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/promptlab/promptlab/pkg/storage"
)

func init() {
	storage.Providers.Register("memory", func(ctx context.Context, params map[string]string) (storage.Store, error) {
		return New(), nil
	})
}

// compile-time check
var _ storage.Store = (*Store)(nil)

// Store holds the four entity maps plus the prompt->tag association index.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*storage.Collection
	prompts     map[string]*storage.Prompt
	tags        map[string]*storage.Tag
	tagNames    map[string]string              // normalized name -> tag id
	promptTags  map[string]map[string]struct{} // prompt id -> set of tag ids
	versions    map[string][]*storage.PromptVersion // prompt id -> ascending by number
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		collections: make(map[string]*storage.Collection),
		prompts:     make(map[string]*storage.Prompt),
		tags:        make(map[string]*storage.Tag),
		tagNames:    make(map[string]string),
		promptTags:  make(map[string]map[string]struct{}),
		versions:    make(map[string][]*storage.PromptVersion),
	}
}

// Close is a no-op for the memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}

// clonePrompt returns a copy of p with Tags materialized from the
// association index, so callers can never mutate stored state.
// Must be called with the lock held.
func (s *Store) clonePromptLocked(p *storage.Prompt) *storage.Prompt {
	c := *p
	c.Variables = append([]string(nil), p.Variables...)
	c.Tags = s.tagsForPromptLocked(p.ID)
	return &c
}

// tagsForPromptLocked materializes the prompt's tags sorted by name.
// Each tag is copied so the store's own records stay unreachable.
func (s *Store) tagsForPromptLocked(promptID string) []*storage.Tag {
	set := s.promptTags[promptID]
	tags := make([]*storage.Tag, 0, len(set))
	for tagID := range set {
		if t, ok := s.tags[tagID]; ok {
			c := *t
			tags = append(tags, &c)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}

// resolveTagIDsLocked deduplicates ids and verifies every one exists.
// Returns the deduplicated list, or a ReferenceError naming all unknowns.
func (s *Store) resolveTagIDsLocked(tagIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tagIDs))
	var deduped []string
	var missing []string
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := s.tags[id]; !ok {
			missing = append(missing, id)
			continue
		}
		deduped = append(deduped, id)
	}
	if len(missing) > 0 {
		return nil, &storage.ReferenceError{Entity: "tag", IDs: missing}
	}
	return deduped, nil
}

// checkCollectionLocked verifies a non-empty collection id exists.
func (s *Store) checkCollectionLocked(collectionID string) error {
	if collectionID == "" {
		return nil
	}
	if _, ok := s.collections[collectionID]; !ok {
		return &storage.ReferenceError{Entity: "collection", IDs: []string{collectionID}}
	}
	return nil
}

// deletePromptLocked removes a prompt together with its tag associations
// and version history. Innermost relations go first.
func (s *Store) deletePromptLocked(promptID string) {
	delete(s.versions, promptID)
	delete(s.promptTags, promptID)
	delete(s.prompts, promptID)
}
