// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"

	"github.com/promptlab/promptlab/pkg/core/template"
	"github.com/promptlab/promptlab/pkg/storage"
)

// snapshotLocked records the prompt's current mutable fields as an immutable
// version numbered with the prompt's current version counter. Must be called
// with the write lock held, before the update is applied.
func (s *Store) snapshotLocked(p *storage.Prompt, changeSummary string) {
	v := &storage.PromptVersion{
		ID:            storage.NewID("pver_"),
		PromptID:      p.ID,
		VersionNumber: p.Version,
		Title:         p.Title,
		Content:       p.Content,
		Description:   p.Description,
		CollectionID:  p.CollectionID,
		ChangeSummary: changeSummary,
		CreatedAt:     storage.Now(),
	}
	s.versions[p.ID] = append(s.versions[p.ID], v)
}

// ListPromptVersions returns a prompt's version history, newest first.
func (s *Store) ListPromptVersions(ctx context.Context, promptID string) ([]*storage.PromptVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.prompts[promptID]; !ok {
		return nil, storage.ErrNotFound
	}

	history := s.versions[promptID]
	out := make([]*storage.PromptVersion, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		copy := *history[i]
		out = append(out, &copy)
	}
	return out, nil
}

// GetPromptVersion retrieves one snapshot by version number.
func (s *Store) GetPromptVersion(ctx context.Context, promptID string, number int) (*storage.PromptVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.prompts[promptID]; !ok {
		return nil, storage.ErrNotFound
	}
	for _, v := range s.versions[promptID] {
		if v.VersionNumber == number {
			copy := *v
			return &copy, nil
		}
	}
	return nil, storage.ErrNotFound
}

// RestorePromptVersion rolls a prompt back to a previous snapshot. The
// current state is snapshotted first, then the target's fields are applied
// and the version counter incremented; restoring never rewrites history.
// The snapshot's collection must still exist; a collection deleted since the
// snapshot was taken fails the restore with a ReferenceError.
func (s *Store) RestorePromptVersion(ctx context.Context, promptID string, number int, changeSummary string) (*storage.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[promptID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	var target *storage.PromptVersion
	for _, v := range s.versions[promptID] {
		if v.VersionNumber == number {
			target = v
			break
		}
	}
	if target == nil {
		return nil, storage.ErrNotFound
	}
	if err := s.checkCollectionLocked(target.CollectionID); err != nil {
		return nil, err
	}

	s.snapshotLocked(p, changeSummary)

	p.Title = target.Title
	p.Content = target.Content
	p.Description = target.Description
	p.CollectionID = target.CollectionID
	p.Variables = template.Variables(p.Content)
	p.Version++
	p.UpdatedAt = storage.Now()

	return s.clonePromptLocked(p), nil
}
