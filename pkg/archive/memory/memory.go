// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory is the default in-memory archive backend. Exports live for
// the lifetime of the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/promptlab/promptlab/pkg/archive"
)

func init() {
	archive.Providers.Register("memory", func(ctx context.Context, params map[string]string) (archive.Archive, error) {
		return New(), nil
	})
}

// compile-time check
var _ archive.Archive = (*Store)(nil)

// Store keeps exports in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	exports map[string]*archive.Export
}

// New creates an empty in-memory archive.
func New() *Store {
	return &Store{exports: make(map[string]*archive.Export)}
}

func metaOf(e *archive.Export) *archive.Export {
	meta := *e
	meta.Content = nil
	return &meta
}

func (s *Store) PutExport(_ context.Context, e *archive.Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *e
	stored.Content = append([]byte(nil), e.Content...)
	s.exports[e.ID] = &stored
	return nil
}

func (s *Store) GetExport(_ context.Context, id string) (*archive.Export, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exports[id]
	if !ok {
		return nil, archive.ErrExportNotFound
	}
	return metaOf(e), nil
}

func (s *Store) GetExportContent(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exports[id]
	if !ok {
		return nil, archive.ErrExportNotFound
	}
	return append([]byte(nil), e.Content...), nil
}

func (s *Store) ListExports(_ context.Context) ([]*archive.Export, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*archive.Export, 0, len(s.exports))
	for _, e := range s.exports {
		out = append(out, metaOf(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteExport(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exports[id]; !ok {
		return archive.ErrExportNotFound
	}
	delete(s.exports, id)
	return nil
}

// Close is a no-op for the memory archive.
func (s *Store) Close(_ context.Context) error {
	return nil
}
