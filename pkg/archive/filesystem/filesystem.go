// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/promptlab/promptlab/pkg/archive"
)

func init() {
	archive.Providers.Register("filesystem", func(_ context.Context, params map[string]string) (archive.Archive, error) {
		return New(params["dir"])
	})
}

// compile-time check
var _ archive.Archive = (*Store)(nil)

// exportMetadata is the on-disk representation stored in metadata.json.
type exportMetadata struct {
	ID          string    `json:"id"`
	Bytes       int64     `json:"bytes"`
	Collections int       `json:"collections"`
	Prompts     int       `json:"prompts"`
	Tags        int       `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store implements archive.Archive backed by a local filesystem.
//
// Layout:
//
//	<baseDir>/<export_id>/content.json   — the export document
//	<baseDir>/<export_id>/metadata.json  — JSON metadata sidecar
type Store struct {
	baseDir string
}

// New creates a filesystem-backed archive, creating baseDir if it does not
// exist.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("filesystem archive: dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) contentPath(id string) string {
	return filepath.Join(s.baseDir, id, "content.json")
}

func (s *Store) metadataPath(id string) string {
	return filepath.Join(s.baseDir, id, "metadata.json")
}

// PutExport writes content and metadata to disk, content atomically via
// temp file + rename.
func (s *Store) PutExport(_ context.Context, e *archive.Export) error {
	dir := filepath.Join(s.baseDir, e.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	contentPath := s.contentPath(e.ID)
	tmpContent := contentPath + ".tmp"
	if err := os.WriteFile(tmpContent, e.Content, 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	if err := os.Rename(tmpContent, contentPath); err != nil {
		return fmt.Errorf("rename content: %w", err)
	}

	meta := exportMetadata{
		ID:          e.ID,
		Bytes:       e.Bytes,
		Collections: e.Collections,
		Prompts:     e.Prompts,
		Tags:        e.Tags,
		CreatedAt:   e.CreatedAt,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(s.metadataPath(e.ID), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func (s *Store) readMetadata(id string) (*archive.Export, error) {
	data, err := os.ReadFile(s.metadataPath(id))
	if os.IsNotExist(err) {
		return nil, archive.ErrExportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var meta exportMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &archive.Export{
		ID:          meta.ID,
		Bytes:       meta.Bytes,
		Collections: meta.Collections,
		Prompts:     meta.Prompts,
		Tags:        meta.Tags,
		CreatedAt:   meta.CreatedAt,
	}, nil
}

func (s *Store) GetExport(_ context.Context, id string) (*archive.Export, error) {
	return s.readMetadata(id)
}

func (s *Store) GetExportContent(_ context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.contentPath(id))
	if os.IsNotExist(err) {
		return nil, archive.ErrExportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}

func (s *Store) ListExports(_ context.Context) ([]*archive.Export, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read base dir: %w", err)
	}

	var out []*archive.Export
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			// Skip directories without a readable sidecar.
			continue
		}
		out = append(out, meta)
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
	dir := filepath.Join(s.baseDir, id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return archive.ErrExportNotFound
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove export dir: %w", err)
	}
	return nil
}

// Close is a no-op for the filesystem archive.
func (s *Store) Close(_ context.Context) error {
	return nil
}
