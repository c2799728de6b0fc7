// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/promptlab/promptlab/pkg/storage"
	storagememory "github.com/promptlab/promptlab/pkg/storage/memory"
)

func TestBuildExport(t *testing.T) {
	ctx := context.Background()
	store := storagememory.New()

	c := &storage.Collection{ID: storage.NewID("col_"), Name: "writing", CreatedAt: storage.Now()}
	if err := store.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	tag := &storage.Tag{ID: storage.NewID("tag_"), Name: "drafts", CreatedAt: storage.Now()}
	if err := store.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	now := storage.Now()
	p := &storage.Prompt{
		ID:           storage.NewID("prompt_"),
		Title:        "Summarizer",
		Content:      "Summarize {{text}}",
		CollectionID: c.ID,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreatePrompt(ctx, p, []string{tag.ID}); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	title := "Summarizer v2"
	if _, err := store.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdatePrompt: %v", err)
	}

	e, err := BuildExport(ctx, store)
	if err != nil {
		t.Fatalf("BuildExport: %v", err)
	}
	if e.Collections != 1 || e.Prompts != 1 || e.Tags != 1 {
		t.Errorf("counts = %d/%d/%d", e.Collections, e.Prompts, e.Tags)
	}
	if e.Bytes != int64(len(e.Content)) {
		t.Errorf("Bytes = %d, content length = %d", e.Bytes, len(e.Content))
	}

	var doc exportDocument
	if err := json.Unmarshal(e.Content, &doc); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if len(doc.Prompts) != 1 {
		t.Fatalf("expected 1 prompt in document, got %d", len(doc.Prompts))
	}
	got := doc.Prompts[0]
	if got.Title != "Summarizer v2" || got.Version != 2 {
		t.Errorf("unexpected prompt: %+v", got.PromptResponse)
	}
	if len(got.Versions) != 1 || got.Versions[0].Title != "Summarizer" {
		t.Errorf("expected the original snapshot in history, got %+v", got.Versions)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "drafts" {
		t.Errorf("expected tag drafts, got %+v", got.Tags)
	}
}
