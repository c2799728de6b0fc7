// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"time"

	"github.com/promptlab/promptlab/pkg/storage"
)

// CreatePromptRequest creates a prompt, optionally placing it in a
// collection and attaching existing tags in the same operation.
type CreatePromptRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Description  string   `json:"description"`
	CollectionID string   `json:"collection_id"`
	TagIDs       []string `json:"tag_ids"`
}

func (r *CreatePromptRequest) Validate() error {
	if err := checkRequired("title", r.Title, MaxTitleLen); err != nil {
		return err
	}
	if err := checkRequired("content", r.Content, 0); err != nil {
		return err
	}
	return checkOptional("description", r.Description, MaxDescriptionLen)
}

// ReplacePromptRequest is a full replacement (PUT): absent description and
// collection_id clear the stored values. A nil tag_ids leaves the tag set
// unchanged; a present list replaces it.
type ReplacePromptRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Description   string   `json:"description"`
	CollectionID  string   `json:"collection_id"`
	TagIDs        []string `json:"tag_ids"`
	ChangeSummary string   `json:"change_summary"`
}

func (r *ReplacePromptRequest) Validate() error {
	if err := checkRequired("title", r.Title, MaxTitleLen); err != nil {
		return err
	}
	if err := checkRequired("content", r.Content, 0); err != nil {
		return err
	}
	if err := checkOptional("description", r.Description, MaxDescriptionLen); err != nil {
		return err
	}
	return checkOptional("change_summary", r.ChangeSummary, MaxChangeSummaryLen)
}

// Update builds the store-level update. Every replaceable field is set;
// tags are only touched when tag_ids was present.
func (r *ReplacePromptRequest) Update() storage.PromptUpdate {
	return storage.PromptUpdate{
		Title:         &r.Title,
		Content:       &r.Content,
		Description:   &r.Description,
		CollectionID:  &r.CollectionID,
		TagIDs:        r.TagIDs,
		ChangeSummary: r.ChangeSummary,
	}
}

// UpdatePromptRequest is a partial update (PATCH): absent fields are left
// unchanged. Description and collection_id distinguish absent from an
// explicit null, which clears. An empty request is a no-op that creates no
// version.
type UpdatePromptRequest struct {
	Title         *string        `json:"title"`
	Content       *string        `json:"content"`
	Description   OptionalString `json:"description"`
	CollectionID  OptionalString `json:"collection_id"`
	TagIDs        []string       `json:"tag_ids"`
	ChangeSummary string         `json:"change_summary"`
}

func (r *UpdatePromptRequest) Validate() error {
	if r.Title != nil {
		if err := checkRequired("title", *r.Title, MaxTitleLen); err != nil {
			return err
		}
	}
	if r.Content != nil {
		if err := checkRequired("content", *r.Content, 0); err != nil {
			return err
		}
	}
	if r.Description.Set {
		if err := checkOptional("description", r.Description.Value, MaxDescriptionLen); err != nil {
			return err
		}
	}
	return checkOptional("change_summary", r.ChangeSummary, MaxChangeSummaryLen)
}

// Update builds the store-level update from the fields that were present.
func (r *UpdatePromptRequest) Update() storage.PromptUpdate {
	upd := storage.PromptUpdate{
		Title:         r.Title,
		Content:       r.Content,
		TagIDs:        r.TagIDs,
		ChangeSummary: r.ChangeSummary,
	}
	if r.Description.Set {
		upd.Description = &r.Description.Value
	}
	if r.CollectionID.Set {
		upd.CollectionID = &r.CollectionID.Value
	}
	return upd
}

// RenderPromptRequest fills a prompt's {{variable}} placeholders.
type RenderPromptRequest struct {
	Variables map[string]string `json:"variables"`
}

// TestPromptRequest renders a prompt and runs it against the configured
// completion endpoint. Model overrides the configured default when set.
type TestPromptRequest struct {
	Variables map[string]string `json:"variables"`
	Model     string            `json:"model"`
}

// PromptResponse is the wire form of a prompt.
type PromptResponse struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Description  string        `json:"description,omitempty"`
	CollectionID string        `json:"collection_id,omitempty"`
	Variables    []string      `json:"variables"`
	Tags         []TagResponse `json:"tags"`
	Version      int           `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// PromptListResponse is the wire form of a prompt listing.
type PromptListResponse struct {
	Prompts []PromptResponse `json:"prompts"`
	Total   int              `json:"total"`
}

// RenderPromptResponse carries the rendered text plus the placeholders that
// had no value supplied.
type RenderPromptResponse struct {
	Rendered         string   `json:"rendered"`
	MissingVariables []string `json:"missing_variables"`
}

// TestPromptResponse carries the rendered text and the completion produced
// for it.
type TestPromptResponse struct {
	Rendered string `json:"rendered"`
	Model    string `json:"model"`
	Output   string `json:"output"`
}

// PromptFromStorage converts a stored prompt to its wire form.
func PromptFromStorage(p *storage.Prompt) PromptResponse {
	variables := p.Variables
	if variables == nil {
		variables = []string{}
	}
	return PromptResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Description:  p.Description,
		CollectionID: p.CollectionID,
		Variables:    variables,
		Tags:         TagsFromStorage(p.Tags),
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// PromptsFromStorage converts a prompt list, yielding [] rather than null.
func PromptsFromStorage(prompts []*storage.Prompt) []PromptResponse {
	out := make([]PromptResponse, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, PromptFromStorage(p))
	}
	return out
}
