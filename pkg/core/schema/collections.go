// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"time"

	"github.com/promptlab/promptlab/pkg/storage"
)

// CreateCollectionRequest creates a collection.
type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CreateCollectionRequest) Validate() error {
	if err := checkRequired("name", r.Name, MaxCollectionNameLen); err != nil {
		return err
	}
	return checkOptional("description", r.Description, MaxDescriptionLen)
}

// CollectionResponse is the wire form of a collection.
type CollectionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CollectionListResponse is the wire form of a collection listing.
type CollectionListResponse struct {
	Collections []CollectionResponse `json:"collections"`
	Total       int                  `json:"total"`
}

// CollectionFromStorage converts a stored collection to its wire form.
func CollectionFromStorage(c *storage.Collection) CollectionResponse {
	return CollectionResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
