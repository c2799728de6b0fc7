// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"

	"github.com/promptlab/promptlab/pkg/storage"
)

// CreateTag stores a new tag. The name is expected to be normalized already;
// a duplicate name yields ErrTagNameConflict.
func (s *Store) CreateTag(ctx context.Context, t *storage.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tagNames[t.Name]; exists {
		return storage.ErrTagNameConflict
	}

	stored := *t
	s.tags[t.ID] = &stored
	s.tagNames[t.Name] = t.ID
	return nil
}

// GetTag retrieves a tag by id.
func (s *Store) GetTag(ctx context.Context, id string) (*storage.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tags[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *t
	return &copy, nil
}

// ListTags returns every tag.
func (s *Store) ListTags(ctx context.Context) ([]*storage.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*storage.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		copy := *t
		out = append(out, &copy)
	}
	return out, nil
}

// DeleteTag removes a tag and prunes its associations from every prompt.
// Prompts themselves are untouched; in particular UpdatedAt does not change.
func (s *Store) DeleteTag(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[id]
	if !ok {
		return false, nil
	}

	for _, set := range s.promptTags {
		delete(set, id)
	}
	delete(s.tagNames, t.Name)
	delete(s.tags, id)
	return true, nil
}

// PromptCountForTag returns how many prompts currently carry the tag.
func (s *Store) PromptCountForTag(ctx context.Context, tagID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tags[tagID]; !ok {
		return 0, storage.ErrNotFound
	}

	count := 0
	for _, set := range s.promptTags {
		if _, attached := set[tagID]; attached {
			count++
		}
	}
	return count, nil
}

// AttachTags adds the given tags to a prompt. Input is deduplicated and
// validated all-or-nothing; attaching an already-attached tag is a no-op.
func (s *Store) AttachTags(ctx context.Context, promptID string, tagIDs []string) ([]*storage.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[promptID]; !ok {
		return nil, storage.ErrNotFound
	}
	deduped, err := s.resolveTagIDsLocked(tagIDs)
	if err != nil {
		return nil, err
	}

	set := s.promptTags[promptID]
	if set == nil {
		set = make(map[string]struct{}, len(deduped))
		s.promptTags[promptID] = set
	}
	for _, tagID := range deduped {
		set[tagID] = struct{}{}
	}

	return s.tagsForPromptLocked(promptID), nil
}

// DetachTags removes the given tags from a prompt. Detaching a tag that is
// not attached is a no-op, but every referenced tag id must still exist.
func (s *Store) DetachTags(ctx context.Context, promptID string, tagIDs []string) ([]*storage.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[promptID]; !ok {
		return nil, storage.ErrNotFound
	}
	deduped, err := s.resolveTagIDsLocked(tagIDs)
	if err != nil {
		return nil, err
	}

	set := s.promptTags[promptID]
	for _, tagID := range deduped {
		delete(set, tagID)
	}

	return s.tagsForPromptLocked(promptID), nil
}

// TagsForPrompt returns a prompt's tags sorted by name.
func (s *Store) TagsForPrompt(ctx context.Context, promptID string) ([]*storage.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.prompts[promptID]; !ok {
		return nil, storage.ErrNotFound
	}
	return s.tagsForPromptLocked(promptID), nil
}
