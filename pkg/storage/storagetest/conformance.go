// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package storagetest provides a shared conformance test suite for
// storage.Store implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promptlab/promptlab/pkg/storage"
)

func strptr(s string) *string { return &s }

func makeCollection(name string) *storage.Collection {
	return &storage.Collection{
		ID:        storage.NewID("col_"),
		Name:      name,
		CreatedAt: storage.Now(),
	}
}

func makePrompt(title, content, collectionID string) *storage.Prompt {
	now := storage.Now()
	return &storage.Prompt{
		ID:           storage.NewID("prompt_"),
		Title:        title,
		Content:      content,
		CollectionID: collectionID,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func makeTag(name string) *storage.Tag {
	return &storage.Tag{
		ID:        storage.NewID("tag_"),
		Name:      name,
		CreatedAt: storage.Now(),
	}
}

func tagNames(tags []*storage.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// RunConformanceTests exercises a Store implementation against the shared
// contract. The newStore function is called once per sub-test to provide an
// isolated store instance.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()

	t.Run("CollectionLifecycle", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		c := makeCollection("writing")
		c.Description = "writing helpers"
		if err := s.CreateCollection(ctx, c); err != nil {
			t.Fatalf("CreateCollection: %v", err)
		}

		got, err := s.GetCollection(ctx, c.ID)
		if err != nil {
			t.Fatalf("GetCollection: %v", err)
		}
		if got.Name != "writing" || got.Description != "writing helpers" {
			t.Errorf("unexpected collection: %+v", got)
		}

		all, err := s.ListCollections(ctx)
		if err != nil {
			t.Fatalf("ListCollections: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected 1 collection, got %d", len(all))
		}

		deleted, err := s.DeleteCollection(ctx, c.ID)
		if err != nil {
			t.Fatalf("DeleteCollection: %v", err)
		}
		if !deleted {
			t.Error("expected deleted=true")
		}
		if _, err := s.GetCollection(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got: %v", err)
		}

		deleted, err = s.DeleteCollection(ctx, c.ID)
		if err != nil {
			t.Fatalf("second DeleteCollection: %v", err)
		}
		if deleted {
			t.Error("expected deleted=false for missing collection")
		}
	})

	t.Run("PromptLifecycle", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("Summarizer", "Summarize {{text}} in {{style}} style.", "")
		p.Description = "condenses articles"
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}

		got, err := s.GetPrompt(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPrompt: %v", err)
		}
		if got.Title != "Summarizer" || got.Version != 1 {
			t.Errorf("unexpected prompt: %+v", got)
		}
		if len(got.Variables) != 2 || got.Variables[0] != "text" || got.Variables[1] != "style" {
			t.Errorf("expected variables [text style], got %v", got.Variables)
		}
		if len(got.Tags) != 0 {
			t.Errorf("expected no tags, got %v", tagNames(got.Tags))
		}

		deleted, err := s.DeletePrompt(ctx, p.ID)
		if err != nil {
			t.Fatalf("DeletePrompt: %v", err)
		}
		if !deleted {
			t.Error("expected deleted=true")
		}
		deleted, err = s.DeletePrompt(ctx, p.ID)
		if err != nil {
			t.Fatalf("second DeletePrompt: %v", err)
		}
		if deleted {
			t.Error("expected deleted=false for missing prompt")
		}
	})

	t.Run("CreatePromptUnknownCollection", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("Orphan", "text", "col_missing")
		err := s.CreatePrompt(ctx, p, nil)
		var refErr *storage.ReferenceError
		if !errors.As(err, &refErr) {
			t.Fatalf("expected ReferenceError, got: %v", err)
		}
		if refErr.Entity != "collection" {
			t.Errorf("expected entity=collection, got %q", refErr.Entity)
		}
		if _, err := s.GetPrompt(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("prompt must not be persisted after failed create, got: %v", err)
		}
	})

	t.Run("CreatePromptUnknownTagsAtomic", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		tag := makeTag("code-review")
		if err := s.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag: %v", err)
		}

		p := makePrompt("Reviewer", "Review {{diff}}", "")
		err := s.CreatePrompt(ctx, p, []string{tag.ID, "tag_missing"})
		var refErr *storage.ReferenceError
		if !errors.As(err, &refErr) {
			t.Fatalf("expected ReferenceError, got: %v", err)
		}
		if refErr.Entity != "tag" || len(refErr.IDs) != 1 || refErr.IDs[0] != "tag_missing" {
			t.Errorf("expected offending id [tag_missing], got %+v", refErr)
		}
		// Nothing persisted: neither the prompt nor any association.
		if _, err := s.GetPrompt(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("prompt must not be persisted, got: %v", err)
		}
		count, err := s.PromptCountForTag(ctx, tag.ID)
		if err != nil {
			t.Fatalf("PromptCountForTag: %v", err)
		}
		if count != 0 {
			t.Errorf("expected prompt_count=0, got %d", count)
		}
	})

	t.Run("TagUniqueness", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		if err := s.CreateTag(ctx, makeTag("code-review")); err != nil {
			t.Fatalf("first CreateTag: %v", err)
		}
		err := s.CreateTag(ctx, makeTag("code-review"))
		if !errors.Is(err, storage.ErrTagNameConflict) {
			t.Errorf("expected ErrTagNameConflict, got: %v", err)
		}
	})

	t.Run("AttachDetachIdempotence", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("Tagged", "text", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
		t1 := makeTag("alpha")
		t2 := makeTag("beta")
		for _, tag := range []*storage.Tag{t1, t2} {
			if err := s.CreateTag(ctx, tag); err != nil {
				t.Fatalf("CreateTag: %v", err)
			}
		}

		// Duplicate ids in the request collapse to one attachment.
		tags, err := s.AttachTags(ctx, p.ID, []string{t1.ID, t1.ID})
		if err != nil {
			t.Fatalf("AttachTags: %v", err)
		}
		if len(tags) != 1 || tags[0].Name != "alpha" {
			t.Errorf("expected [alpha], got %v", tagNames(tags))
		}

		// Attaching the same set twice yields the same final set.
		if _, err := s.AttachTags(ctx, p.ID, []string{t1.ID, t2.ID}); err != nil {
			t.Fatalf("AttachTags: %v", err)
		}
		tags, err = s.AttachTags(ctx, p.ID, []string{t1.ID, t2.ID})
		if err != nil {
			t.Fatalf("repeat AttachTags: %v", err)
		}
		if len(tags) != 2 || tags[0].Name != "alpha" || tags[1].Name != "beta" {
			t.Errorf("expected [alpha beta] sorted, got %v", tagNames(tags))
		}

		// Detaching an absent tag is a no-op.
		t3 := makeTag("gamma")
		if err := s.CreateTag(ctx, t3); err != nil {
			t.Fatalf("CreateTag: %v", err)
		}
		tags, err = s.DetachTags(ctx, p.ID, []string{t3.ID})
		if err != nil {
			t.Fatalf("DetachTags: %v", err)
		}
		if len(tags) != 2 {
			t.Errorf("detach of absent tag must not change the set, got %v", tagNames(tags))
		}

		tags, err = s.DetachTags(ctx, p.ID, []string{t1.ID})
		if err != nil {
			t.Fatalf("DetachTags: %v", err)
		}
		if len(tags) != 1 || tags[0].Name != "beta" {
			t.Errorf("expected [beta], got %v", tagNames(tags))
		}
	})

	t.Run("AttachTagsAllOrNothing", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("Tagged", "text", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
		t1 := makeTag("alpha")
		if err := s.CreateTag(ctx, t1); err != nil {
			t.Fatalf("CreateTag: %v", err)
		}

		_, err := s.AttachTags(ctx, p.ID, []string{t1.ID, "tag_nope"})
		var refErr *storage.ReferenceError
		if !errors.As(err, &refErr) {
			t.Fatalf("expected ReferenceError, got: %v", err)
		}
		tags, err := s.TagsForPrompt(ctx, p.ID)
		if err != nil {
			t.Fatalf("TagsForPrompt: %v", err)
		}
		if len(tags) != 0 {
			t.Errorf("no tag may be attached after a failed attach, got %v", tagNames(tags))
		}
	})

	t.Run("DeleteTagPrunesAssociations", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("Tagged", "text", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
		tag := makeTag("doomed")
		if err := s.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag: %v", err)
		}
		if _, err := s.AttachTags(ctx, p.ID, []string{tag.ID}); err != nil {
			t.Fatalf("AttachTags: %v", err)
		}

		before, err := s.GetPrompt(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPrompt: %v", err)
		}

		deleted, err := s.DeleteTag(ctx, tag.ID)
		if err != nil {
			t.Fatalf("DeleteTag: %v", err)
		}
		if !deleted {
			t.Error("expected deleted=true")
		}

		after, err := s.GetPrompt(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPrompt after tag delete: %v", err)
		}
		if len(after.Tags) != 0 {
			t.Errorf("expected no tags after delete, got %v", tagNames(after.Tags))
		}
		if !after.UpdatedAt.Equal(before.UpdatedAt) {
			t.Errorf("deleting a tag must not touch UpdatedAt: %v -> %v", before.UpdatedAt, after.UpdatedAt)
		}
		if after.Version != before.Version {
			t.Errorf("deleting a tag must not bump Version: %d -> %d", before.Version, after.Version)
		}
	})

	t.Run("CascadeDeleteCollection", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		c := makeCollection("doomed")
		if err := s.CreateCollection(ctx, c); err != nil {
			t.Fatalf("CreateCollection: %v", err)
		}
		tag := makeTag("exclusive")
		if err := s.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag: %v", err)
		}

		var promptIDs []string
		for i := 0; i < 3; i++ {
			p := makePrompt("p", "text", c.ID)
			if err := s.CreatePrompt(ctx, p, []string{tag.ID}); err != nil {
				t.Fatalf("CreatePrompt[%d]: %v", i, err)
			}
			// Put some history on each prompt so version cascade is exercised.
			if _, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: strptr("p2")}); err != nil {
				t.Fatalf("UpdatePrompt[%d]: %v", i, err)
			}
			promptIDs = append(promptIDs, p.ID)
		}
		// A prompt outside the collection survives.
		outside := makePrompt("outsider", "text", "")
		if err := s.CreatePrompt(ctx, outside, nil); err != nil {
			t.Fatalf("CreatePrompt outside: %v", err)
		}

		deleted, err := s.DeleteCollection(ctx, c.ID)
		if err != nil {
			t.Fatalf("DeleteCollection: %v", err)
		}
		if !deleted {
			t.Error("expected deleted=true")
		}

		members, err := s.ListPromptsByCollection(ctx, c.ID)
		if err != nil {
			t.Fatalf("ListPromptsByCollection: %v", err)
		}
		if len(members) != 0 {
			t.Errorf("expected empty collection after cascade, got %d prompts", len(members))
		}
		for _, id := range promptIDs {
			if _, err := s.GetPrompt(ctx, id); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("prompt %s must be gone, got: %v", id, err)
			}
		}
		count, err := s.PromptCountForTag(ctx, tag.ID)
		if err != nil {
			t.Fatalf("PromptCountForTag: %v", err)
		}
		if count != 0 {
			t.Errorf("expected prompt_count=0 after cascade, got %d", count)
		}
		if _, err := s.GetPrompt(ctx, outside.ID); err != nil {
			t.Errorf("prompt outside the collection must survive: %v", err)
		}
	})

	t.Run("UpdateSnapshotsAndBumps", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("v1 title", "v1 content", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}

		// No history on create.
		history, err := s.ListPromptVersions(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListPromptVersions: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history after create, got %d", len(history))
		}

		got, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{
			Title:         strptr("v2 title"),
			ChangeSummary: "retitled",
		})
		if err != nil {
			t.Fatalf("UpdatePrompt: %v", err)
		}
		if got.Title != "v2 title" || got.Content != "v1 content" {
			t.Errorf("partial update applied wrong fields: %+v", got)
		}
		if got.Version != 2 {
			t.Errorf("expected version 2, got %d", got.Version)
		}

		history, err = s.ListPromptVersions(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListPromptVersions: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("expected 1 snapshot, got %d", len(history))
		}
		v1 := history[0]
		if v1.VersionNumber != 1 || v1.Title != "v1 title" || v1.ChangeSummary != "retitled" {
			t.Errorf("snapshot must capture pre-update state: %+v", v1)
		}

		// A value-identical update still snapshots.
		got, err = s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: strptr("v2 title")})
		if err != nil {
			t.Fatalf("no-op UpdatePrompt: %v", err)
		}
		if got.Version != 3 {
			t.Errorf("expected version 3 after identical update, got %d", got.Version)
		}
		history, _ = s.ListPromptVersions(ctx, p.ID)
		if len(history) != 2 {
			t.Errorf("expected 2 snapshots, got %d", len(history))
		}
	})

	t.Run("UpdateClearsAndReplacesTags", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		c := makeCollection("home")
		if err := s.CreateCollection(ctx, c); err != nil {
			t.Fatalf("CreateCollection: %v", err)
		}
		t1, t2 := makeTag("alpha"), makeTag("beta")
		for _, tag := range []*storage.Tag{t1, t2} {
			if err := s.CreateTag(ctx, tag); err != nil {
				t.Fatalf("CreateTag: %v", err)
			}
		}

		p := makePrompt("p", "text", c.ID)
		p.Description = "desc"
		if err := s.CreatePrompt(ctx, p, []string{t1.ID}); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}

		// nil TagIDs leaves tags untouched.
		got, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: strptr("p2")})
		if err != nil {
			t.Fatalf("UpdatePrompt: %v", err)
		}
		if len(got.Tags) != 1 || got.Tags[0].Name != "alpha" {
			t.Errorf("nil TagIDs must keep tags, got %v", tagNames(got.Tags))
		}

		// Non-nil TagIDs replaces the whole set.
		got, err = s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{TagIDs: []string{t2.ID}})
		if err != nil {
			t.Fatalf("UpdatePrompt replace tags: %v", err)
		}
		if len(got.Tags) != 1 || got.Tags[0].Name != "beta" {
			t.Errorf("expected [beta], got %v", tagNames(got.Tags))
		}

		// Empty non-nil clears; empty-string pointers clear description and
		// collection.
		got, err = s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{
			TagIDs:       []string{},
			Description:  strptr(""),
			CollectionID: strptr(""),
		})
		if err != nil {
			t.Fatalf("UpdatePrompt clear: %v", err)
		}
		if len(got.Tags) != 0 {
			t.Errorf("expected no tags, got %v", tagNames(got.Tags))
		}
		if got.Description != "" || got.CollectionID != "" {
			t.Errorf("expected cleared description and collection, got %+v", got)
		}
	})

	t.Run("UpdateUnknownReferencesRejected", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("p", "text", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}

		_, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{CollectionID: strptr("col_nope")})
		var refErr *storage.ReferenceError
		if !errors.As(err, &refErr) || refErr.Entity != "collection" {
			t.Errorf("expected collection ReferenceError, got: %v", err)
		}

		_, err = s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{TagIDs: []string{"tag_nope"}})
		if !errors.As(err, &refErr) || refErr.Entity != "tag" {
			t.Errorf("expected tag ReferenceError, got: %v", err)
		}

		// Failed updates must not snapshot or bump.
		got, err := s.GetPrompt(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPrompt: %v", err)
		}
		if got.Version != 1 {
			t.Errorf("failed update must not bump version, got %d", got.Version)
		}
		history, _ := s.ListPromptVersions(ctx, p.ID)
		if len(history) != 0 {
			t.Errorf("failed update must not snapshot, got %d versions", len(history))
		}
	})

	t.Run("VersionMonotonicity", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("t0", "c0", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}

		const k = 5
		for i := 0; i < k; i++ {
			title := "t" + string(rune('1'+i))
			if _, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: &title}); err != nil {
				t.Fatalf("UpdatePrompt[%d]: %v", i, err)
			}
		}

		history, err := s.ListPromptVersions(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListPromptVersions: %v", err)
		}
		if len(history) != k {
			t.Fatalf("expected %d versions, got %d", k, len(history))
		}
		// Newest first: k, k-1, ..., 1 with no gaps.
		for i, v := range history {
			if want := k - i; v.VersionNumber != want {
				t.Errorf("history[%d].VersionNumber = %d, want %d", i, v.VersionNumber, want)
			}
		}
		got, _ := s.GetPrompt(ctx, p.ID)
		if got.Version != k+1 {
			t.Errorf("expected prompt version %d, got %d", k+1, got.Version)
		}
	})

	t.Run("RestoreAuditCompleteness", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("original title", "original content", "")
		p.Description = "original desc"
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
		if _, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: strptr("second title")}); err != nil {
			t.Fatalf("UpdatePrompt: %v", err)
		}
		if _, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Content: strptr("third content")}); err != nil {
			t.Fatalf("UpdatePrompt: %v", err)
		}
		// Current version is 3; history is [2, 1].

		got, err := s.RestorePromptVersion(ctx, p.ID, 1, "roll back")
		if err != nil {
			t.Fatalf("RestorePromptVersion: %v", err)
		}
		if got.Title != "original title" || got.Content != "original content" || got.Description != "original desc" {
			t.Errorf("restored fields must equal version 1 snapshot: %+v", got)
		}
		if got.Version != 4 {
			t.Errorf("expected version 4 after restore, got %d", got.Version)
		}

		history, err := s.ListPromptVersions(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListPromptVersions: %v", err)
		}
		if len(history) != 3 {
			t.Fatalf("expected 3 versions after restore, got %d", len(history))
		}
		// The newest snapshot (number 3) captures the pre-restore state.
		newest := history[0]
		if newest.VersionNumber != 3 || newest.Title != "second title" || newest.Content != "third content" {
			t.Errorf("pre-restore snapshot wrong: %+v", newest)
		}
		if newest.ChangeSummary != "roll back" {
			t.Errorf("expected change summary on restore snapshot, got %q", newest.ChangeSummary)
		}
	})

	t.Run("RestoreUnknownVersion", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("p", "c", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}

		if _, err := s.RestorePromptVersion(ctx, p.ID, 7, ""); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown version, got: %v", err)
		}
		if _, err := s.RestorePromptVersion(ctx, "prompt_nope", 1, ""); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown prompt, got: %v", err)
		}
	})

	t.Run("RestoreIntoDeletedCollection", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		c := makeCollection("short-lived")
		if err := s.CreateCollection(ctx, c); err != nil {
			t.Fatalf("CreateCollection: %v", err)
		}
		p := makePrompt("p", "c", c.ID)
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
		// Move the prompt out, then delete the collection. The version 1
		// snapshot still references it.
		if _, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{CollectionID: strptr("")}); err != nil {
			t.Fatalf("UpdatePrompt: %v", err)
		}
		if _, err := s.DeleteCollection(ctx, c.ID); err != nil {
			t.Fatalf("DeleteCollection: %v", err)
		}

		_, err := s.RestorePromptVersion(ctx, p.ID, 1, "")
		var refErr *storage.ReferenceError
		if !errors.As(err, &refErr) || refErr.Entity != "collection" {
			t.Errorf("expected collection ReferenceError, got: %v", err)
		}
	})

	t.Run("GetPromptVersion", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("a", "b", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
		if _, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: strptr("a2")}); err != nil {
			t.Fatalf("UpdatePrompt: %v", err)
		}

		v, err := s.GetPromptVersion(ctx, p.ID, 1)
		if err != nil {
			t.Fatalf("GetPromptVersion: %v", err)
		}
		if v.Title != "a" || v.PromptID != p.ID {
			t.Errorf("unexpected snapshot: %+v", v)
		}
		if _, err := s.GetPromptVersion(ctx, p.ID, 2); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("current state has no snapshot yet, want ErrNotFound, got: %v", err)
		}
	})

	t.Run("DeletePromptDropsHistory", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		p := makePrompt("a", "b", "")
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
		if _, err := s.UpdatePrompt(ctx, p.ID, storage.PromptUpdate{Title: strptr("a2")}); err != nil {
			t.Fatalf("UpdatePrompt: %v", err)
		}
		if _, err := s.DeletePrompt(ctx, p.ID); err != nil {
			t.Fatalf("DeletePrompt: %v", err)
		}
		if _, err := s.ListPromptVersions(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for deleted prompt's versions, got: %v", err)
		}
	})

	t.Run("NotFoundPaths", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		if _, err := s.GetPrompt(ctx, "prompt_nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetPrompt: want ErrNotFound, got %v", err)
		}
		if _, err := s.GetCollection(ctx, "col_nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetCollection: want ErrNotFound, got %v", err)
		}
		if _, err := s.GetTag(ctx, "tag_nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetTag: want ErrNotFound, got %v", err)
		}
		if _, err := s.TagsForPrompt(ctx, "prompt_nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("TagsForPrompt: want ErrNotFound, got %v", err)
		}
		if _, err := s.AttachTags(ctx, "prompt_nope", []string{"x"}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("AttachTags: want ErrNotFound, got %v", err)
		}
		if _, err := s.PromptCountForTag(ctx, "tag_nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("PromptCountForTag: want ErrNotFound, got %v", err)
		}
		if _, err := s.UpdatePrompt(ctx, "prompt_nope", storage.PromptUpdate{Title: strptr("x")}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdatePrompt: want ErrNotFound, got %v", err)
		}
	})

	t.Run("TimestampsSurviveRoundTrip", func(t *testing.T) {
		s := newStore(t)
		defer s.Close(context.Background())
		ctx := context.Background()

		created := time.Date(2025, 6, 1, 12, 30, 45, 123000000, time.UTC)
		p := makePrompt("ts", "c", "")
		p.CreatedAt = created
		p.UpdatedAt = created
		if err := s.CreatePrompt(ctx, p, nil); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
		got, err := s.GetPrompt(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPrompt: %v", err)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt changed across round trip: %v != %v", got.CreatedAt, created)
		}
	})
}
