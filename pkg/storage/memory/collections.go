// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"

	"github.com/promptlab/promptlab/pkg/storage"
)

// CreateCollection stores a new collection.
func (s *Store) CreateCollection(ctx context.Context, c *storage.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	s.collections[c.ID] = &stored
	return nil
}

// GetCollection retrieves a collection by id.
func (s *Store) GetCollection(ctx context.Context, id string) (*storage.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

// ListCollections returns every collection.
func (s *Store) ListCollections(ctx context.Context) ([]*storage.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*storage.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		copy := *c
		out = append(out, &copy)
	}
	return out, nil
}

// DeleteCollection removes a collection and cascades to every prompt that
// belongs to it, including their tag associations and version history.
func (s *Store) DeleteCollection(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[id]; !ok {
		return false, nil
	}

	for promptID, p := range s.prompts {
		if p.CollectionID == id {
			s.deletePromptLocked(promptID)
		}
	}
	delete(s.collections, id)
	return true, nil
}
