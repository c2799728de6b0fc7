// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"

	"github.com/promptlab/promptlab/pkg/core/template"
	"github.com/promptlab/promptlab/pkg/storage"
)

// CreatePrompt stores a new prompt, optionally attaching tags. The collection
// reference and every tag id are validated before anything is written; on
// failure no state changes.
func (s *Store) CreatePrompt(ctx context.Context, p *storage.Prompt, tagIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCollectionLocked(p.CollectionID); err != nil {
		return err
	}
	deduped, err := s.resolveTagIDsLocked(tagIDs)
	if err != nil {
		return err
	}

	p.Variables = template.Variables(p.Content)

	stored := *p
	s.prompts[p.ID] = &stored

	if len(deduped) > 0 {
		set := make(map[string]struct{}, len(deduped))
		for _, tagID := range deduped {
			set[tagID] = struct{}{}
		}
		s.promptTags[p.ID] = set
	}

	p.Tags = s.tagsForPromptLocked(p.ID)
	return nil
}

// GetPrompt retrieves a prompt by id with its tags materialized.
func (s *Store) GetPrompt(ctx context.Context, id string) (*storage.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prompts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.clonePromptLocked(p), nil
}

// ListPrompts returns every prompt with tags materialized. Order is not
// guaranteed; callers sort via the query package.
func (s *Store) ListPrompts(ctx context.Context) ([]*storage.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*storage.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		out = append(out, s.clonePromptLocked(p))
	}
	return out, nil
}

// ListPromptsByCollection returns the prompts belonging to one collection.
// An unknown collection id yields an empty result, not an error.
func (s *Store) ListPromptsByCollection(ctx context.Context, collectionID string) ([]*storage.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*storage.Prompt
	for _, p := range s.prompts {
		if p.CollectionID == collectionID {
			out = append(out, s.clonePromptLocked(p))
		}
	}
	return out, nil
}

// UpdatePrompt applies a full or partial update as one atomic transition:
// validate references, snapshot the pre-update state as a new version, apply
// the new field values, bump the version counter and refresh UpdatedAt.
// A snapshot is taken even when the new values equal the old ones.
func (s *Store) UpdatePrompt(ctx context.Context, id string, upd storage.PromptUpdate) (*storage.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if upd.CollectionID != nil {
		if err := s.checkCollectionLocked(*upd.CollectionID); err != nil {
			return nil, err
		}
	}
	var newTagSet []string
	if upd.TagIDs != nil {
		deduped, err := s.resolveTagIDsLocked(upd.TagIDs)
		if err != nil {
			return nil, err
		}
		newTagSet = deduped
	}

	s.snapshotLocked(p, upd.ChangeSummary)

	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
		p.Variables = template.Variables(p.Content)
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.CollectionID != nil {
		p.CollectionID = *upd.CollectionID
	}
	if upd.TagIDs != nil {
		set := make(map[string]struct{}, len(newTagSet))
		for _, tagID := range newTagSet {
			set[tagID] = struct{}{}
		}
		s.promptTags[id] = set
	}

	p.Version++
	p.UpdatedAt = storage.Now()

	return s.clonePromptLocked(p), nil
}

// DeletePrompt removes a prompt along with its tag associations and version
// history. Returns false when no prompt existed.
func (s *Store) DeletePrompt(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[id]; !ok {
		return false, nil
	}
	s.deletePromptLocked(id)
	return true, nil
}
