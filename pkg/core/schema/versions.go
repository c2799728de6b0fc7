// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"time"

	"github.com/promptlab/promptlab/pkg/storage"
)

// RestoreVersionRequest rolls a prompt back to a stored snapshot.
type RestoreVersionRequest struct {
	ChangeSummary string `json:"change_summary"`
}

func (r *RestoreVersionRequest) Validate() error {
	return checkOptional("change_summary", r.ChangeSummary, MaxChangeSummaryLen)
}

// VersionResponse is the wire form of a prompt version snapshot.
type VersionResponse struct {
	ID            string    `json:"id"`
	PromptID      string    `json:"prompt_id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Description   string    `json:"description,omitempty"`
	CollectionID  string    `json:"collection_id,omitempty"`
	ChangeSummary string    `json:"change_summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// VersionListResponse is the wire form of a version history listing.
type VersionListResponse struct {
	Versions []VersionResponse `json:"versions"`
	Total    int               `json:"total"`
}

// VersionCompareResponse pairs two snapshots with the names of the fields
// whose values differ between them.
type VersionCompareResponse struct {
	From          VersionResponse `json:"from"`
	To            VersionResponse `json:"to"`
	ChangedFields []string        `json:"changed_fields"`
}

// VersionFromStorage converts a stored snapshot to its wire form.
func VersionFromStorage(v *storage.PromptVersion) VersionResponse {
	return VersionResponse{
		ID:            v.ID,
		PromptID:      v.PromptID,
		VersionNumber: v.VersionNumber,
		Title:         v.Title,
		Content:       v.Content,
		Description:   v.Description,
		CollectionID:  v.CollectionID,
		ChangeSummary: v.ChangeSummary,
		CreatedAt:     v.CreatedAt,
	}
}

// VersionsFromStorage converts a snapshot list, yielding [] rather than null.
func VersionsFromStorage(versions []*storage.PromptVersion) []VersionResponse {
	out := make([]VersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionFromStorage(v))
	}
	return out
}

// ChangedFields lists the mutable fields whose values differ between two
// snapshots, in a fixed field order.
func ChangedFields(from, to *storage.PromptVersion) []string {
	changed := []string{}
	if from.Title != to.Title {
		changed = append(changed, "title")
	}
	if from.Content != to.Content {
		changed = append(changed, "content")
	}
	if from.Description != to.Description {
		changed = append(changed, "description")
	}
	if from.CollectionID != to.CollectionID {
		changed = append(changed, "collection_id")
	}
	return changed
}
