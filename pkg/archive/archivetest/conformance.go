// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package archivetest provides a shared conformance test suite for
// archive.Archive implementations.
package archivetest

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promptlab/promptlab/pkg/archive"
	"github.com/promptlab/promptlab/pkg/storage"
)

func makeExport(content string, createdAt time.Time) *archive.Export {
	return &archive.Export{
		ID:          storage.NewID("export_"),
		Bytes:       int64(len(content)),
		Collections: 1,
		Prompts:     2,
		Tags:        3,
		Content:     []byte(content),
		CreatedAt:   createdAt,
	}
}

// RunConformanceTests exercises an Archive implementation against the shared
// contract. The newArchive function is called once per sub-test.
func RunConformanceTests(t *testing.T, newArchive func(t *testing.T) archive.Archive) {
	t.Helper()

	t.Run("PutGetContent", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())
		ctx := context.Background()

		e := makeExport(`{"prompts":[]}`, storage.Now())
		if err := a.PutExport(ctx, e); err != nil {
			t.Fatalf("PutExport: %v", err)
		}

		got, err := a.GetExport(ctx, e.ID)
		if err != nil {
			t.Fatalf("GetExport: %v", err)
		}
		if got.Bytes != e.Bytes || got.Collections != 1 || got.Prompts != 2 || got.Tags != 3 {
			t.Errorf("unexpected metadata: %+v", got)
		}
		if got.Content != nil {
			t.Error("GetExport must not return content")
		}
		if !got.CreatedAt.Equal(e.CreatedAt) {
			t.Errorf("CreatedAt changed: %v != %v", got.CreatedAt, e.CreatedAt)
		}

		content, err := a.GetExportContent(ctx, e.ID)
		if err != nil {
			t.Fatalf("GetExportContent: %v", err)
		}
		if !bytes.Equal(content, e.Content) {
			t.Errorf("content = %q, want %q", content, e.Content)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())
		ctx := context.Background()

		t0 := storage.Now()
		old := makeExport("{}", t0.Add(-time.Hour))
		recent := makeExport("{}", t0)
		for _, e := range []*archive.Export{old, recent} {
			if err := a.PutExport(ctx, e); err != nil {
				t.Fatalf("PutExport: %v", err)
			}
		}

		list, err := a.ListExports(ctx)
		if err != nil {
			t.Fatalf("ListExports: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 exports, got %d", len(list))
		}
		if list[0].ID != recent.ID || list[1].ID != old.ID {
			t.Errorf("expected newest first, got [%s %s]", list[0].ID, list[1].ID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())
		ctx := context.Background()

		e := makeExport("{}", storage.Now())
		if err := a.PutExport(ctx, e); err != nil {
			t.Fatalf("PutExport: %v", err)
		}
		if err := a.DeleteExport(ctx, e.ID); err != nil {
			t.Fatalf("DeleteExport: %v", err)
		}
		if _, err := a.GetExport(ctx, e.ID); !errors.Is(err, archive.ErrExportNotFound) {
			t.Errorf("expected ErrExportNotFound after delete, got: %v", err)
		}
		if err := a.DeleteExport(ctx, e.ID); !errors.Is(err, archive.ErrExportNotFound) {
			t.Errorf("second delete must fail with ErrExportNotFound, got: %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())
		ctx := context.Background()

		if _, err := a.GetExport(ctx, "export_nope"); !errors.Is(err, archive.ErrExportNotFound) {
			t.Errorf("GetExport: want ErrExportNotFound, got %v", err)
		}
		if _, err := a.GetExportContent(ctx, "export_nope"); !errors.Is(err, archive.ErrExportNotFound) {
			t.Errorf("GetExportContent: want ErrExportNotFound, got %v", err)
		}
	})
}
