// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/promptlab/promptlab/pkg/storage"
)

var tagNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// NormalizeTagName trims and lowercases a tag name, then validates the
// result against ^[a-z0-9_-]+$ and the 1-50 length bound. Normalization is
// idempotent: normalizing an already-normalized name returns it unchanged.
func NormalizeTagName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	n := utf8.RuneCountInString(normalized)
	if n == 0 {
		return "", invalidf("name", "must not be empty")
	}
	if n > MaxTagNameLen {
		return "", invalidf("name", "must be at most %d characters", MaxTagNameLen)
	}
	if !tagNamePattern.MatchString(normalized) {
		return "", invalidf("name", "may only contain lowercase letters, digits, hyphens and underscores")
	}
	return normalized, nil
}

// CreateTagRequest creates a tag. The name is normalized before uniqueness
// checking and storage.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// TagIDsRequest attaches or detaches tags by id.
type TagIDsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

// Validate requires at least one tag id.
func (r *TagIDsRequest) Validate() error {
	if len(r.TagIDs) == 0 {
		return invalidf("tag_ids", "must not be empty")
	}
	return nil
}

// TagResponse is the wire form of a tag.
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TagWithCountResponse adds the number of prompts carrying the tag.
type TagWithCountResponse struct {
	TagResponse
	PromptCount int `json:"prompt_count"`
}

// TagListResponse is the wire form of a tag listing.
type TagListResponse struct {
	Tags  []TagWithCountResponse `json:"tags"`
	Total int                    `json:"total"`
}

// TagFromStorage converts a stored tag to its wire form.
func TagFromStorage(t *storage.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

// TagsFromStorage converts a tag list, yielding [] rather than null.
func TagsFromStorage(tags []*storage.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagFromStorage(t))
	}
	return out
}
