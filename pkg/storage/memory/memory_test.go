// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/promptlab/promptlab/pkg/storage"
	"github.com/promptlab/promptlab/pkg/storage/storagetest"
)

func TestConformance(t *testing.T) {
	storagetest.RunConformanceTests(t, func(t *testing.T) storage.Store {
		return New()
	})
}

func TestProviderRegistered(t *testing.T) {
	s, err := storage.Providers.New(context.Background(), "memory", nil)
	if err != nil {
		t.Fatalf("Providers.New: %v", err)
	}
	defer s.Close(context.Background())
	if _, ok := s.(*Store); !ok {
		t.Fatalf("expected *memory.Store, got %T", s)
	}
}

// Concurrent updates against one prompt must leave the version counter equal
// to 1 plus the number of updates, with a gapless history.
func TestConcurrentUpdates(t *testing.T) {
	s := New()
	ctx := context.Background()

	now := storage.Now()
	p := &storage.Prompt{
		ID:        storage.NewID("prompt_"),
		Title:     "race",
		Content:   "body",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreatePrompt(ctx, p, nil); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := fmt.Sprintf("race %d", i)
			if _, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: &title}); err != nil {
				t.Errorf("UpdatePrompt: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.GetPrompt(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if got.Version != workers+1 {
		t.Errorf("expected version %d, got %d", workers+1, got.Version)
	}
	history, err := s.ListPromptVersions(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListPromptVersions: %v", err)
	}
	if len(history) != workers {
		t.Fatalf("expected %d versions, got %d", workers, len(history))
	}
	for i, v := range history {
		if want := workers - i; v.VersionNumber != want {
			t.Errorf("history[%d].VersionNumber = %d, want %d", i, v.VersionNumber, want)
		}
	}
}

// Mutating a returned prompt must not leak into stored state.
func TestReturnedPromptIsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	now := storage.Now()
	p := &storage.Prompt{
		ID:        storage.NewID("prompt_"),
		Title:     "immutable",
		Content:   "{{a}}",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tag := &storage.Tag{ID: storage.NewID("tag_"), Name: "safe", CreatedAt: now}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.CreatePrompt(ctx, p, []string{tag.ID}); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	got, err := s.GetPrompt(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	got.Title = "mutated"
	got.Variables[0] = "mutated"
	got.Tags[0].Name = "mutated"

	again, err := s.GetPrompt(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if again.Title != "immutable" || again.Variables[0] != "a" {
		t.Errorf("stored state was mutated through a returned copy: %+v", again)
	}
	if again.Tags[0].Name != "safe" {
		t.Errorf("stored tag mutated through a returned prompt: name = %q", again.Tags[0].Name)
	}
	storedTag, err := s.GetTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if storedTag.Name != "safe" {
		t.Errorf("stored tag mutated through a returned prompt: name = %q", storedTag.Name)
	}
}
