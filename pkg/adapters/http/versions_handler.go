// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/promptlab/promptlab/pkg/core/schema"
)

func (h *Handler) handleListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.store.ListPromptVersions(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schema.VersionListResponse{
		Versions: schema.VersionsFromStorage(versions),
		Total:    len(versions),
	})
}

func (h *Handler) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		h.writeError(w, http.StatusBadRequest, "invalid_argument", "version number must be a positive integer")
		return
	}
	v, err := h.store.GetPromptVersion(r.Context(), r.PathValue("id"), number)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schema.VersionFromStorage(v))
}

func (h *Handler) handleCompareVersions(w http.ResponseWriter, r *http.Request) {
	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil || from < 1 {
		h.writeError(w, http.StatusBadRequest, "invalid_argument", "from must be a positive integer")
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil || to < 1 {
		h.writeError(w, http.StatusBadRequest, "invalid_argument", "to must be a positive integer")
		return
	}
	if from == to {
		h.writeError(w, http.StatusBadRequest, "invalid_argument", "cannot compare a version to itself")
		return
	}

	id := r.PathValue("id")
	fromVersion, err := h.store.GetPromptVersion(r.Context(), id, from)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	toVersion, err := h.store.GetPromptVersion(r.Context(), id, to)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, schema.VersionCompareResponse{
		From:          schema.VersionFromStorage(fromVersion),
		To:            schema.VersionFromStorage(toVersion),
		ChangedFields: schema.ChangedFields(fromVersion, toVersion),
	})
}

func (h *Handler) handleRestoreVersion(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		h.writeError(w, http.StatusBadRequest, "invalid_argument", "version number must be a positive integer")
		return
	}

	var req schema.RestoreVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeStoreError(w, err)
		return
	}
	summary := req.ChangeSummary
	if summary == "" {
		summary = fmt.Sprintf("restored from version %d", number)
	}

	p, err := h.store.RestorePromptVersion(r.Context(), r.PathValue("id"), number, summary)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schema.PromptFromStorage(p))
}
