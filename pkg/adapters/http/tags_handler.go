// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"
	"sort"

	"github.com/promptlab/promptlab/pkg/core/schema"
	"github.com/promptlab/promptlab/pkg/storage"
)

func (h *Handler) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req schema.CreateTagRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	name, err := schema.NormalizeTagName(req.Name)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	t := &storage.Tag{
		ID:        storage.NewID("tag_"),
		Name:      name,
		CreatedAt: storage.Now(),
	}
	if err := h.store.CreateTag(r.Context(), t); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, schema.TagFromStorage(t))
}

func (h *Handler) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })

	out := make([]schema.TagWithCountResponse, 0, len(tags))
	for _, t := range tags {
		count, err := h.store.PromptCountForTag(r.Context(), t.ID)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		out = append(out, schema.TagWithCountResponse{
			TagResponse: schema.TagFromStorage(t),
			PromptCount: count,
		})
	}
	h.writeJSON(w, http.StatusOK, schema.TagListResponse{Tags: out, Total: len(out)})
}

func (h *Handler) handleGetTag(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTag(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	count, err := h.store.PromptCountForTag(r.Context(), t.ID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schema.TagWithCountResponse{
		TagResponse: schema.TagFromStorage(t),
		PromptCount: count,
	})
}

func (h *Handler) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeleteTag(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "not_found", "tag not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListPromptTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.TagsForPrompt(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tags":  schema.TagsFromStorage(tags),
		"total": len(tags),
	})
}

func (h *Handler) handleAttachTags(w http.ResponseWriter, r *http.Request) {
	var req schema.TagIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeStoreError(w, err)
		return
	}

	tags, err := h.store.AttachTags(r.Context(), r.PathValue("id"), req.TagIDs)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tags":  schema.TagsFromStorage(tags),
		"total": len(tags),
	})
}

func (h *Handler) handleDetachTags(w http.ResponseWriter, r *http.Request) {
	var req schema.TagIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeStoreError(w, err)
		return
	}

	tags, err := h.store.DetachTags(r.Context(), r.PathValue("id"), req.TagIDs)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tags":  schema.TagsFromStorage(tags),
		"total": len(tags),
	})
}
