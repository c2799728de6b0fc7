// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/promptlab/promptlab/pkg/core/query"
	"github.com/promptlab/promptlab/pkg/core/schema"
	"github.com/promptlab/promptlab/pkg/core/template"
	"github.com/promptlab/promptlab/pkg/storage"
)

func (h *Handler) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req schema.CreatePromptRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeStoreError(w, err)
		return
	}

	now := storage.Now()
	p := &storage.Prompt{
		ID:           storage.NewID("prompt_"),
		Title:        req.Title,
		Content:      req.Content,
		Description:  req.Description,
		CollectionID: req.CollectionID,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.store.CreatePrompt(r.Context(), p, req.TagIDs); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, schema.PromptFromStorage(p))
}

// promptFilters parses the list query parameters. The zero value filters
// nothing.
type promptFilters struct {
	collectionID string
	tagNames     []string
	tagMatch     query.TagMatch
	search       string
	order        query.Order
}

func parsePromptFilters(r *http.Request) (promptFilters, error) {
	f := promptFilters{
		collectionID: r.URL.Query().Get("collection_id"),
		search:       r.URL.Query().Get("search"),
		tagMatch:     query.MatchAll,
		order:        query.OrderDesc,
	}

	if raw := r.URL.Query().Get("tags"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			normalized, err := schema.NormalizeTagName(name)
			if err != nil {
				return f, err
			}
			f.tagNames = append(f.tagNames, normalized)
		}
	}
	switch r.URL.Query().Get("tag_match") {
	case "", "all":
	case "any":
		f.tagMatch = query.MatchAny
	default:
		return f, fmt.Errorf("tag_match must be %q or %q", "all", "any")
	}
	switch r.URL.Query().Get("order") {
	case "", "desc":
	case "asc":
		f.order = query.OrderAsc
	default:
		return f, fmt.Errorf("order must be %q or %q", "asc", "desc")
	}
	return f, nil
}

func (h *Handler) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	f, err := parsePromptFilters(r)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			h.writeError(w, http.StatusBadRequest, "validation_error", verr.Error())
			return
		}
		h.writeError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	prompts, err := h.store.ListPrompts(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	// Filter precedence: collection, then tags, then search.
	if f.collectionID != "" {
		prompts = query.ByCollection(prompts, f.collectionID)
	}
	prompts = query.ByTags(prompts, f.tagNames, f.tagMatch)
	prompts = query.Search(prompts, f.search)
	query.SortByCreatedAt(prompts, f.order)

	h.writeJSON(w, http.StatusOK, schema.PromptListResponse{
		Prompts: schema.PromptsFromStorage(prompts),
		Total:   len(prompts),
	})
}

func (h *Handler) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPrompt(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schema.PromptFromStorage(p))
}

// handleReplacePrompt is full replacement: absent description and
// collection_id clear the stored values.
func (h *Handler) handleReplacePrompt(w http.ResponseWriter, r *http.Request) {
	var req schema.ReplacePromptRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeStoreError(w, err)
		return
	}

	p, err := h.store.UpdatePrompt(r.Context(), r.PathValue("id"), req.Update())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schema.PromptFromStorage(p))
}

// handleUpdatePrompt is partial: absent fields stay untouched, and an empty
// body returns the prompt unchanged without creating a version.
func (h *Handler) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var req schema.UpdatePromptRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeStoreError(w, err)
		return
	}

	upd := req.Update()
	if upd.IsZero() {
		p, err := h.store.GetPrompt(r.Context(), r.PathValue("id"))
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, schema.PromptFromStorage(p))
		return
	}

	p, err := h.store.UpdatePrompt(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schema.PromptFromStorage(p))
}

func (h *Handler) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeletePrompt(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "not_found", "prompt not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRenderPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPrompt(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	var req schema.RenderPromptRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	rendered, missing := template.Render(p.Content, req.Variables)
	if missing == nil {
		missing = []string{}
	}
	h.writeJSON(w, http.StatusOK, schema.RenderPromptResponse{
		Rendered:         rendered,
		MissingVariables: missing,
	})
}

func (h *Handler) handleTestPrompt(w http.ResponseWriter, r *http.Request) {
	if h.completions == nil {
		h.writeError(w, http.StatusServiceUnavailable, "llm_unavailable",
			"no completion endpoint configured")
		return
	}

	p, err := h.store.GetPrompt(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	var req schema.TestPromptRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	rendered, missing := template.Render(p.Content, req.Variables)
	if len(missing) > 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_argument",
			fmt.Sprintf("unfilled variables: %s", strings.Join(missing, ", ")))
		return
	}

	model := req.Model
	if model == "" {
		model = h.model
	}
	output, err := h.completions.Complete(r.Context(), model, rendered)
	if err != nil {
		h.logger.Error("Completion failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "llm_error", "completion request failed")
		return
	}
	h.writeJSON(w, http.StatusOK, schema.TestPromptResponse{
		Rendered: rendered,
		Model:    model,
		Output:   output,
	})
}
