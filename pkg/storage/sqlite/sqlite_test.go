// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/promptlab/promptlab/pkg/storage"
	"github.com/promptlab/promptlab/pkg/storage/storagetest"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "promptlab.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storagetest.RunConformanceTests(t, newTestStore)
}

func TestProviderRegistered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptlab.db")
	s, err := storage.Providers.New(context.Background(), "sqlite", map[string]string{"path": path})
	if err != nil {
		t.Fatalf("Providers.New: %v", err)
	}
	defer s.Close(context.Background())
	if _, ok := s.(*Store); !ok {
		t.Fatalf("expected *sqlite.Store, got %T", s)
	}
}

func TestProviderRequiresPath(t *testing.T) {
	if _, err := storage.Providers.New(context.Background(), "sqlite", nil); err == nil {
		t.Fatal("expected an error for a missing path param")
	}
}

// Data written through one handle must be visible through a fresh one.
func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "promptlab.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := storage.Now()
	p := &storage.Prompt{
		ID:        storage.NewID("prompt_"),
		Title:     "durable",
		Content:   "{{x}}",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreatePrompt(ctx, p, nil); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close(ctx)
	got, err := s.GetPrompt(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPrompt after reopen: %v", err)
	}
	if got.Title != "durable" || len(got.Variables) != 1 || got.Variables[0] != "x" {
		t.Errorf("unexpected prompt after reopen: %+v", got)
	}
}
