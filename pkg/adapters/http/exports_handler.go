// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/promptlab/promptlab/pkg/archive"
)

// exportResponse is the wire form of export metadata.
type exportResponse struct {
	ID          string    `json:"id"`
	Bytes       int64     `json:"bytes"`
	Collections int       `json:"collections"`
	Prompts     int       `json:"prompts"`
	Tags        int       `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

type exportListResponse struct {
	Exports []exportResponse `json:"exports"`
	Total   int              `json:"total"`
}

func exportFromArchive(e *archive.Export) exportResponse {
	return exportResponse{
		ID:          e.ID,
		Bytes:       e.Bytes,
		Collections: e.Collections,
		Prompts:     e.Prompts,
		Tags:        e.Tags,
		CreatedAt:   e.CreatedAt,
	}
}

func (h *Handler) writeArchiveError(w http.ResponseWriter, err error) {
	if errors.Is(err, archive.ErrExportNotFound) {
		h.writeError(w, http.StatusNotFound, "not_found", "export not found")
		return
	}
	h.logger.Error("Archive operation failed", "error", err)
	h.writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// handleCreateExport snapshots the whole library into the archive backend.
func (h *Handler) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	e, err := archive.BuildExport(r.Context(), h.store)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if err := h.archive.PutExport(r.Context(), e); err != nil {
		h.writeArchiveError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, exportFromArchive(e))
}

func (h *Handler) handleListExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.archive.ListExports(r.Context())
	if err != nil {
		h.writeArchiveError(w, err)
		return
	}
	out := make([]exportResponse, 0, len(exports))
	for _, e := range exports {
		out = append(out, exportFromArchive(e))
	}
	h.writeJSON(w, http.StatusOK, exportListResponse{Exports: out, Total: len(out)})
}

func (h *Handler) handleGetExport(w http.ResponseWriter, r *http.Request) {
	e, err := h.archive.GetExport(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeArchiveError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, exportFromArchive(e))
}

func (h *Handler) handleGetExportContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.archive.GetExportContent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeArchiveError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (h *Handler) handleDeleteExport(w http.ResponseWriter, r *http.Request) {
	if err := h.archive.DeleteExport(r.Context(), r.PathValue("id")); err != nil {
		h.writeArchiveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
