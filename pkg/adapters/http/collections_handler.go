// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"
	"sort"

	"github.com/promptlab/promptlab/pkg/core/query"
	"github.com/promptlab/promptlab/pkg/core/schema"
	"github.com/promptlab/promptlab/pkg/storage"
)

func (h *Handler) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req schema.CreateCollectionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeStoreError(w, err)
		return
	}

	c := &storage.Collection{
		ID:          storage.NewID("col_"),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   storage.Now(),
	}
	if err := h.store.CreateCollection(r.Context(), c); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, schema.CollectionFromStorage(c))
}

func (h *Handler) handleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.store.ListCollections(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	// Backends return no particular order.
	sort.Slice(collections, func(i, j int) bool {
		if !collections[i].CreatedAt.Equal(collections[j].CreatedAt) {
			return collections[i].CreatedAt.After(collections[j].CreatedAt)
		}
		return collections[i].ID > collections[j].ID
	})

	out := make([]schema.CollectionResponse, 0, len(collections))
	for _, c := range collections {
		out = append(out, schema.CollectionFromStorage(c))
	}
	h.writeJSON(w, http.StatusOK, schema.CollectionListResponse{Collections: out, Total: len(out)})
}

func (h *Handler) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCollection(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schema.CollectionFromStorage(c))
}

func (h *Handler) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeleteCollection(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "not_found", "collection not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListCollectionPrompts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.GetCollection(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	prompts, err := h.store.ListPromptsByCollection(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	query.SortByCreatedAt(prompts, query.OrderDesc)
	h.writeJSON(w, http.StatusOK, schema.PromptListResponse{
		Prompts: schema.PromptsFromStorage(prompts),
		Total:   len(prompts),
	})
}
