// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package http is the HTTP adapter: route registration, request decoding and
// the mapping from store errors to status codes. All domain behavior lives
// below it in the schema, query and storage packages.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/promptlab/promptlab/pkg/archive"
	"github.com/promptlab/promptlab/pkg/core/api"
	"github.com/promptlab/promptlab/pkg/core/schema"
	"github.com/promptlab/promptlab/pkg/observability/logging"
	"github.com/promptlab/promptlab/pkg/storage"
)

// Config wires the handler's collaborators.
type Config struct {
	Store       storage.Store
	Archive     archive.Archive
	Completions api.CompletionClient // nil disables /v1/prompts/{id}/test
	Model       string               // default model for prompt test-drives
	Version     string               // reported by /health
	Logger      *logging.Logger
}

// Handler implements the HTTP adapter
type Handler struct {
	store       storage.Store
	archive     archive.Archive
	completions api.CompletionClient
	model       string
	version     string
	logger      *logging.Logger
	mux         *http.ServeMux
}

// New creates a new HTTP handler
func New(cfg Config) *Handler {
	h := &Handler{
		store:       cfg.Store,
		archive:     cfg.Archive,
		completions: cfg.Completions,
		model:       cfg.Model,
		version:     cfg.Version,
		logger:      cfg.Logger,
		mux:         http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Collections API
	h.mux.HandleFunc("POST /v1/collections", h.handleCreateCollection)
	h.mux.HandleFunc("GET /v1/collections", h.handleListCollections)
	h.mux.HandleFunc("GET /v1/collections/{id}", h.handleGetCollection)
	h.mux.HandleFunc("DELETE /v1/collections/{id}", h.handleDeleteCollection)
	h.mux.HandleFunc("GET /v1/collections/{id}/prompts", h.handleListCollectionPrompts)

	// Prompts API
	h.mux.HandleFunc("POST /v1/prompts", h.handleCreatePrompt)
	h.mux.HandleFunc("GET /v1/prompts", h.handleListPrompts)
	h.mux.HandleFunc("GET /v1/prompts/{id}", h.handleGetPrompt)
	h.mux.HandleFunc("PUT /v1/prompts/{id}", h.handleReplacePrompt)
	h.mux.HandleFunc("PATCH /v1/prompts/{id}", h.handleUpdatePrompt)
	h.mux.HandleFunc("DELETE /v1/prompts/{id}", h.handleDeletePrompt)
	h.mux.HandleFunc("POST /v1/prompts/{id}/render", h.handleRenderPrompt)
	h.mux.HandleFunc("POST /v1/prompts/{id}/test", h.handleTestPrompt)

	// Prompt-tag associations
	h.mux.HandleFunc("GET /v1/prompts/{id}/tags", h.handleListPromptTags)
	h.mux.HandleFunc("POST /v1/prompts/{id}/tags", h.handleAttachTags)
	h.mux.HandleFunc("DELETE /v1/prompts/{id}/tags", h.handleDetachTags)

	// Tags API
	h.mux.HandleFunc("POST /v1/tags", h.handleCreateTag)
	h.mux.HandleFunc("GET /v1/tags", h.handleListTags)
	h.mux.HandleFunc("GET /v1/tags/{id}", h.handleGetTag)
	h.mux.HandleFunc("DELETE /v1/tags/{id}", h.handleDeleteTag)

	// Versions API
	h.mux.HandleFunc("GET /v1/prompts/{id}/versions", h.handleListVersions)
	h.mux.HandleFunc("GET /v1/prompts/{id}/versions/compare", h.handleCompareVersions)
	h.mux.HandleFunc("GET /v1/prompts/{id}/versions/{number}", h.handleGetVersion)
	h.mux.HandleFunc("POST /v1/prompts/{id}/versions/{number}/restore", h.handleRestoreVersion)

	// Exports API
	h.mux.HandleFunc("POST /v1/exports", h.handleCreateExport)
	h.mux.HandleFunc("GET /v1/exports", h.handleListExports)
	h.mux.HandleFunc("GET /v1/exports/{id}", h.handleGetExport)
	h.mux.HandleFunc("GET /v1/exports/{id}/content", h.handleGetExportContent)
	h.mux.HandleFunc("DELETE /v1/exports/{id}", h.handleDeleteExport)

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	h.mux.ServeHTTP(w, r)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.version,
	})
}

// decodeJSON parses the request body into v. An empty body leaves v at its
// zero value; requests that need fields reject it during validation.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, errType, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"type":    errType,
			"message": message,
		},
	})
}

// writeStoreError maps the typed store and validation errors to statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	var verr *schema.ValidationError
	var refErr *storage.ReferenceError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, storage.ErrTagNameConflict):
		h.writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &verr):
		h.writeError(w, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.As(err, &refErr):
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"type":    "invalid_reference",
				"message": refErr.Error(),
				"ids":     refErr.IDs,
			},
		})
	default:
		h.logger.Error("Request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
