// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the entity model and the Store contract that every
// PromptLab backend implements. Backends register themselves in Providers;
// blank-import an implementation package to activate it:
//
//	import _ "github.com/promptlab/promptlab/pkg/storage/memory"
//	import _ "github.com/promptlab/promptlab/pkg/storage/sqlite"
//	import _ "github.com/promptlab/promptlab/pkg/storage/postgres"
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptlab/promptlab/pkg/provider"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrTagNameConflict is returned when creating a tag whose normalized name
// is already taken.
var ErrTagNameConflict = errors.New("tag name already exists")

// ReferenceError reports foreign ids supplied in a write that do not resolve
// to existing entities. The write is rejected as a whole; no state changes.
type ReferenceError struct {
	Entity string   // "collection" or "tag"
	IDs    []string // the offending ids
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s id(s): %s", e.Entity, strings.Join(e.IDs, ", "))
}

// Providers is the registry of store backend implementations.
var Providers = provider.NewRegistry[Store]("store")

// Collection is a named, flat grouping of prompts.
type Collection struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Tag is a normalized, globally unique label attachable to many prompts.
type Tag struct {
	ID        string
	Name      string // stored normalized: lowercase, trimmed, [a-z0-9_-]+
	CreatedAt time.Time
}

// Prompt is a reusable text template with {{variable}} placeholders.
//
// CollectionID is empty for uncategorized prompts. Variables is derived from
// Content on every write. Tags is materialized from the association set on
// read: deduplicated and sorted by name, never stored on the prompt itself.
type Prompt struct {
	ID           string
	Title        string
	Content      string
	Description  string
	CollectionID string
	Variables    []string
	Tags         []*Tag
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PromptVersion is an immutable snapshot of a prompt's mutable fields taken
// just before an update or restore. VersionNumber values for one prompt are
// exactly 1..N with no gaps and are never reused.
type PromptVersion struct {
	ID            string
	PromptID      string
	VersionNumber int
	Title         string
	Content       string
	Description   string
	CollectionID  string
	ChangeSummary string
	CreatedAt     time.Time
}

// PromptUpdate describes a full or partial prompt update.
//
// Title and Content: nil leaves the field unchanged (neither can be cleared).
// Description and CollectionID: nil leaves the field unchanged, a pointer to
// the empty string clears it. TagIDs: nil leaves the tag set unchanged, an
// empty non-nil slice clears it, otherwise the whole set is replaced.
type PromptUpdate struct {
	Title         *string
	Content       *string
	Description   *string
	CollectionID  *string
	TagIDs        []string
	ChangeSummary string
}

// IsZero reports whether the update carries no field changes at all.
func (u PromptUpdate) IsZero() bool {
	return u.Title == nil && u.Content == nil && u.Description == nil &&
		u.CollectionID == nil && u.TagIDs == nil
}

// Store is the contract every backend implements.
//
// Expected conditions are typed: a missing entity is ErrNotFound, a duplicate
// normalized tag name is ErrTagNameConflict, and unresolved foreign ids are
// *ReferenceError. Deletes return (false, nil) when nothing existed, letting
// the handler layer choose between 404 and 204. Compound operations (update
// with snapshot, restore, cascade delete) are atomic: no caller ever observes
// an intermediate state.
type Store interface {
	// Collections
	CreateCollection(ctx context.Context, c *Collection) error
	GetCollection(ctx context.Context, id string) (*Collection, error)
	ListCollections(ctx context.Context) ([]*Collection, error)
	// DeleteCollection cascades: every prompt in the collection is deleted
	// along with its tag associations and version history.
	DeleteCollection(ctx context.Context, id string) (bool, error)

	// Prompts
	// CreatePrompt validates p.CollectionID (if set) and every tagID before
	// committing anything; on failure nothing is persisted.
	CreatePrompt(ctx context.Context, p *Prompt, tagIDs []string) error
	GetPrompt(ctx context.Context, id string) (*Prompt, error)
	ListPrompts(ctx context.Context) ([]*Prompt, error)
	ListPromptsByCollection(ctx context.Context, collectionID string) ([]*Prompt, error)
	// UpdatePrompt snapshots the pre-update state as a new version, applies
	// the update, increments the version counter and refreshes UpdatedAt,
	// all in one critical section. A snapshot is taken even when the new
	// values equal the old ones.
	UpdatePrompt(ctx context.Context, id string, upd PromptUpdate) (*Prompt, error)
	DeletePrompt(ctx context.Context, id string) (bool, error)

	// Tags
	CreateTag(ctx context.Context, t *Tag) error
	GetTag(ctx context.Context, id string) (*Tag, error)
	ListTags(ctx context.Context) ([]*Tag, error)
	// DeleteTag removes the tag and all its associations without touching
	// any prompt's UpdatedAt.
	DeleteTag(ctx context.Context, id string) (bool, error)
	PromptCountForTag(ctx context.Context, tagID string) (int, error)
	// AttachTags and DetachTags deduplicate their input and are idempotent:
	// attaching an attached tag or detaching an absent one is a no-op. All
	// referenced tag ids must exist or the whole call is rejected. Both
	// return the prompt's resulting tag list sorted by name.
	AttachTags(ctx context.Context, promptID string, tagIDs []string) ([]*Tag, error)
	DetachTags(ctx context.Context, promptID string, tagIDs []string) ([]*Tag, error)
	TagsForPrompt(ctx context.Context, promptID string) ([]*Tag, error)

	// Versions
	ListPromptVersions(ctx context.Context, promptID string) ([]*PromptVersion, error) // newest first
	GetPromptVersion(ctx context.Context, promptID string, number int) (*PromptVersion, error)
	// RestorePromptVersion snapshots the current state, then overwrites the
	// prompt's mutable fields from the target snapshot and increments the
	// version counter. Restoring the version whose values match the current
	// state still creates a new version record.
	RestorePromptVersion(ctx context.Context, promptID string, number int, changeSummary string) (*Prompt, error)

	Close(ctx context.Context) error
}

// NewID generates a unique opaque identifier with a resource prefix,
// e.g. NewID("prompt_") -> "prompt_6f1e...".
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Now returns the current UTC timestamp, truncated to millisecond precision
// so round-trips through SQL backends compare equal.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
