// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/promptlab/promptlab/pkg/core/schema"
	"github.com/promptlab/promptlab/pkg/storage"
)

type exportPrompt struct {
	schema.PromptResponse
	Versions []schema.VersionResponse `json:"versions"`
}

type exportDocument struct {
	ExportedAt  time.Time                   `json:"exported_at"`
	Collections []schema.CollectionResponse `json:"collections"`
	Tags        []schema.TagResponse        `json:"tags"`
	Prompts     []exportPrompt              `json:"prompts"`
}

// BuildExport dumps the whole library, version history included, into one
// JSON document ready for PutExport. The snapshot is not transactional:
// it reads the store in several calls, so writes racing the export can
// leave a prompt's version out of step with its embedded history.
func BuildExport(ctx context.Context, store storage.Store) (*Export, error) {
	collections, err := store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("export collections: %w", err)
	}
	tags, err := store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("export tags: %w", err)
	}
	prompts, err := store.ListPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("export prompts: %w", err)
	}

	doc := exportDocument{
		ExportedAt:  storage.Now(),
		Collections: make([]schema.CollectionResponse, 0, len(collections)),
		Tags:        schema.TagsFromStorage(tags),
		Prompts:     make([]exportPrompt, 0, len(prompts)),
	}
	for _, c := range collections {
		doc.Collections = append(doc.Collections, schema.CollectionFromStorage(c))
	}
	for _, p := range prompts {
		versions, err := store.ListPromptVersions(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("export versions for %s: %w", p.ID, err)
		}
		doc.Prompts = append(doc.Prompts, exportPrompt{
			PromptResponse: schema.PromptFromStorage(p),
			Versions:       schema.VersionsFromStorage(versions),
		})
	}

	content, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	return &Export{
		ID:          storage.NewID("export_"),
		Bytes:       int64(len(content)),
		Collections: len(collections),
		Prompts:     len(prompts),
		Tags:        len(tags),
		Content:     content,
		CreatedAt:   doc.ExportedAt,
	}, nil
}
