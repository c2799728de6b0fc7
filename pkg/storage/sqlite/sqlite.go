// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlite is a SQLite-backed Store using the modernc.org/sqlite
// driver, so no cgo is required. Compound operations run in a transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/promptlab/promptlab/pkg/core/template"
	"github.com/promptlab/promptlab/pkg/storage"

	_ "modernc.org/sqlite"
)

func init() {
	storage.Providers.Register("sqlite", func(ctx context.Context, params map[string]string) (storage.Store, error) {
		path := params["path"]
		if path == "" {
			return nil, fmt.Errorf("sqlite: missing required param %q", "path")
		}
		return New(path)
	})
}

var _ storage.Store = (*Store)(nil)

// Store is a SQLite-backed implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and ensures the schema exists.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// modernc's driver serializes access per connection; a single connection
	// avoids SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS prompts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			collection_id TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prompts_collection ON prompts(collection_id)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS prompt_tags (
			prompt_id TEXT NOT NULL,
			tag_id TEXT NOT NULL,
			PRIMARY KEY (prompt_id, tag_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_tags_tag ON prompt_tags(tag_id)`,
		`CREATE TABLE IF NOT EXISTS prompt_versions (
			id TEXT PRIMARY KEY,
			prompt_id TEXT NOT NULL,
			version_number INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			collection_id TEXT NOT NULL DEFAULT '',
			change_summary TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			UNIQUE (prompt_id, version_number)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite create tables: %w", err)
		}
	}
	return nil
}

// --- helpers ---

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite parse time %q: %w", s, err)
	}
	return t, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// checkCollection verifies a non-empty collection id exists.
func checkCollection(ctx context.Context, q querier, id string) error {
	if id == "" {
		return nil
	}
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM collections WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &storage.ReferenceError{Entity: "collection", IDs: []string{id}}
	}
	if err != nil {
		return fmt.Errorf("sqlite check collection: %w", err)
	}
	return nil
}

// resolveTagIDs deduplicates ids and verifies every one exists, returning a
// ReferenceError naming all unknowns.
func resolveTagIDs(ctx context.Context, q querier, tagIDs []string) ([]string, error) {
	deduped := dedupe(tagIDs)
	var missing []string
	for _, id := range deduped {
		var one int
		err := q.QueryRowContext(ctx, `SELECT 1 FROM tags WHERE id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sqlite check tag: %w", err)
		}
	}
	if len(missing) > 0 {
		return nil, &storage.ReferenceError{Entity: "tag", IDs: missing}
	}
	return deduped, nil
}

func tagsForPrompt(ctx context.Context, q querier, promptID string) ([]*storage.Tag, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.id, t.name, t.created_at
		FROM prompt_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.prompt_id = ?
		ORDER BY t.name`, promptID)
	if err != nil {
		return nil, fmt.Errorf("sqlite tags for prompt: %w", err)
	}
	defer rows.Close()

	tags := []*storage.Tag{}
	for rows.Next() {
		var t storage.Tag
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite scan tag: %w", err)
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

func scanPrompt(row *sql.Row) (*storage.Prompt, error) {
	var p storage.Prompt
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Description, &p.CollectionID,
		&p.Version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite scan prompt: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	p.Variables = template.Variables(p.Content)
	return &p, nil
}

const promptColumns = `id, title, content, description, collection_id, version, created_at, updated_at`

func getPrompt(ctx context.Context, q querier, id string) (*storage.Prompt, error) {
	p, err := scanPrompt(q.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if p.Tags, err = tagsForPrompt(ctx, q, id); err != nil {
		return nil, err
	}
	return p, nil
}

func promptExists(ctx context.Context, q querier, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM prompts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite check prompt: %w", err)
	}
	return true, nil
}

// deletePromptTx removes a prompt with its associations and history.
func deletePromptTx(ctx context.Context, tx *sql.Tx, id string) error {
	for _, stmt := range []string{
		`DELETE FROM prompt_versions WHERE prompt_id = ?`,
		`DELETE FROM prompt_tags WHERE prompt_id = ?`,
		`DELETE FROM prompts WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("sqlite delete prompt: %w", err)
		}
	}
	return nil
}

// snapshotTx records the prompt's current fields as version p.Version.
func snapshotTx(ctx context.Context, tx *sql.Tx, p *storage.Prompt, changeSummary string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO prompt_versions (id, prompt_id, version_number, title, content, description, collection_id, change_summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		storage.NewID("pver_"), p.ID, p.Version, p.Title, p.Content, p.Description,
		p.CollectionID, changeSummary, fmtTime(storage.Now()))
	if err != nil {
		return fmt.Errorf("sqlite snapshot: %w", err)
	}
	return nil
}

// --- collections ---

func (s *Store) CreateCollection(ctx context.Context, c *storage.Collection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, description, created_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, fmtTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite create collection: %w", err)
	}
	return nil
}

func (s *Store) GetCollection(ctx context.Context, id string) (*storage.Collection, error) {
	var c storage.Collection
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at FROM collections WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get collection: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCollections(ctx context.Context) ([]*storage.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, created_at FROM collections ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite list collections: %w", err)
	}
	defer rows.Close()

	var out []*storage.Collection
	for rows.Next() {
		var c storage.Collection
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite scan collection: %w", err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteCollection(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM collections WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite check collection: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT id FROM prompts WHERE collection_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sqlite list collection prompts: %w", err)
	}
	var promptIDs []string
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			rows.Close()
			return false, fmt.Errorf("sqlite scan prompt id: %w", err)
		}
		promptIDs = append(promptIDs, pid)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return false, err
	}
	rows.Close()

	for _, pid := range promptIDs {
		if err := deletePromptTx(ctx, tx, pid); err != nil {
			return false, err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("sqlite delete collection: %w", err)
	}
	return true, tx.Commit()
}

// --- prompts ---

func (s *Store) CreatePrompt(ctx context.Context, p *storage.Prompt, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	if err := checkCollection(ctx, tx, p.CollectionID); err != nil {
		return err
	}
	deduped, err := resolveTagIDs(ctx, tx, tagIDs)
	if err != nil {
		return err
	}

	p.Variables = template.Variables(p.Content)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO prompts (id, title, content, description, collection_id, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.Description, p.CollectionID, p.Version,
		fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("sqlite create prompt: %w", err)
	}
	for _, tagID := range deduped {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)`, p.ID, tagID); err != nil {
			return fmt.Errorf("sqlite attach tag: %w", err)
		}
	}

	if p.Tags, err = tagsForPrompt(ctx, tx, p.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetPrompt(ctx context.Context, id string) (*storage.Prompt, error) {
	return getPrompt(ctx, s.db, id)
}

func (s *Store) ListPrompts(ctx context.Context) ([]*storage.Prompt, error) {
	return s.listPrompts(ctx, `SELECT `+promptColumns+` FROM prompts`)
}

func (s *Store) ListPromptsByCollection(ctx context.Context, collectionID string) ([]*storage.Prompt, error) {
	return s.listPrompts(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE collection_id = ?`, collectionID)
}

func (s *Store) listPrompts(ctx context.Context, query string, args ...any) ([]*storage.Prompt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite list prompts: %w", err)
	}
	defer rows.Close()

	var out []*storage.Prompt
	byID := make(map[string]*storage.Prompt)
	for rows.Next() {
		var p storage.Prompt
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Description, &p.CollectionID,
			&p.Version, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite scan prompt: %w", err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		p.Variables = template.Variables(p.Content)
		p.Tags = []*storage.Tag{}
		out = append(out, &p)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One pass over the join table instead of a query per prompt.
	tagRows, err := s.db.QueryContext(ctx, `
		SELECT pt.prompt_id, t.id, t.name, t.created_at
		FROM prompt_tags pt JOIN tags t ON t.id = pt.tag_id
		ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite list prompt tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var promptID string
		var t storage.Tag
		var createdAt string
		if err := tagRows.Scan(&promptID, &t.ID, &t.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite scan tag: %w", err)
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if p, ok := byID[promptID]; ok {
			p.Tags = append(p.Tags, &t)
		}
	}
	return out, tagRows.Err()
}

func (s *Store) UpdatePrompt(ctx context.Context, id string, upd storage.PromptUpdate) (*storage.Prompt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	p, err := scanPrompt(tx.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if upd.CollectionID != nil {
		if err := checkCollection(ctx, tx, *upd.CollectionID); err != nil {
			return nil, err
		}
	}
	var newTagSet []string
	if upd.TagIDs != nil {
		if newTagSet, err = resolveTagIDs(ctx, tx, upd.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := snapshotTx(ctx, tx, p, upd.ChangeSummary); err != nil {
		return nil, err
	}

	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.CollectionID != nil {
		p.CollectionID = *upd.CollectionID
	}
	p.Version++
	p.UpdatedAt = storage.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE prompts SET title = ?, content = ?, description = ?, collection_id = ?, version = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Content, p.Description, p.CollectionID, p.Version, fmtTime(p.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("sqlite update prompt: %w", err)
	}

	if upd.TagIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM prompt_tags WHERE prompt_id = ?`, id); err != nil {
			return nil, fmt.Errorf("sqlite clear tags: %w", err)
		}
		for _, tagID := range newTagSet {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)`, id, tagID); err != nil {
				return nil, fmt.Errorf("sqlite attach tag: %w", err)
			}
		}
	}

	out, err := getPrompt(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}

func (s *Store) DeletePrompt(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	exists, err := promptExists(ctx, tx, id)
	if err != nil || !exists {
		return false, err
	}
	if err := deletePromptTx(ctx, tx, id); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// --- tags ---

func (s *Store) CreateTag(ctx context.Context, t *storage.Tag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM tags WHERE name = ?`, t.Name).Scan(&one)
	if err == nil {
		return storage.ErrTagNameConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sqlite check tag name: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, fmtTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite create tag: %w", err)
	}
	return tx.Commit()
}

func (s *Store) GetTag(ctx context.Context, id string) (*storage.Tag, error) {
	var t storage.Tag
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get tag: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTags(ctx context.Context) ([]*storage.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite list tags: %w", err)
	}
	defer rows.Close()

	var out []*storage.Tag
	for rows.Next() {
		var t storage.Tag
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite scan tag: %w", err)
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTag(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM tags WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite check tag: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM prompt_tags WHERE tag_id = ?`, id); err != nil {
		return false, fmt.Errorf("sqlite prune tag associations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("sqlite delete tag: %w", err)
	}
	return true, tx.Commit()
}

func (s *Store) PromptCountForTag(ctx context.Context, tagID string) (int, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tags WHERE id = ?`, tagID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite check tag: %w", err)
	}

	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prompt_tags WHERE tag_id = ?`, tagID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite count prompts for tag: %w", err)
	}
	return count, nil
}

func (s *Store) AttachTags(ctx context.Context, promptID string, tagIDs []string) ([]*storage.Tag, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	exists, err := promptExists(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrNotFound
	}
	deduped, err := resolveTagIDs(ctx, tx, tagIDs)
	if err != nil {
		return nil, err
	}

	for _, tagID := range deduped {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)
			ON CONFLICT (prompt_id, tag_id) DO NOTHING`, promptID, tagID); err != nil {
			return nil, fmt.Errorf("sqlite attach tag: %w", err)
		}
	}

	tags, err := tagsForPrompt(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}
	return tags, tx.Commit()
}

func (s *Store) DetachTags(ctx context.Context, promptID string, tagIDs []string) ([]*storage.Tag, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	exists, err := promptExists(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrNotFound
	}
	deduped, err := resolveTagIDs(ctx, tx, tagIDs)
	if err != nil {
		return nil, err
	}

	for _, tagID := range deduped {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM prompt_tags WHERE prompt_id = ? AND tag_id = ?`, promptID, tagID); err != nil {
			return nil, fmt.Errorf("sqlite detach tag: %w", err)
		}
	}

	tags, err := tagsForPrompt(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}
	return tags, tx.Commit()
}

func (s *Store) TagsForPrompt(ctx context.Context, promptID string) ([]*storage.Tag, error) {
	exists, err := promptExists(ctx, s.db, promptID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrNotFound
	}
	return tagsForPrompt(ctx, s.db, promptID)
}

// --- versions ---

func (s *Store) ListPromptVersions(ctx context.Context, promptID string) ([]*storage.PromptVersion, error) {
	exists, err := promptExists(ctx, s.db, promptID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prompt_id, version_number, title, content, description, collection_id, change_summary, created_at
		FROM prompt_versions WHERE prompt_id = ? ORDER BY version_number DESC`, promptID)
	if err != nil {
		return nil, fmt.Errorf("sqlite list versions: %w", err)
	}
	defer rows.Close()

	var out []*storage.PromptVersion
	for rows.Next() {
		var v storage.PromptVersion
		var createdAt string
		if err := rows.Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Title, &v.Content,
			&v.Description, &v.CollectionID, &v.ChangeSummary, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite scan version: %w", err)
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (s *Store) GetPromptVersion(ctx context.Context, promptID string, number int) (*storage.PromptVersion, error) {
	exists, err := promptExists(ctx, s.db, promptID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrNotFound
	}
	return getPromptVersion(ctx, s.db, promptID, number)
}

func getPromptVersion(ctx context.Context, q querier, promptID string, number int) (*storage.PromptVersion, error) {
	var v storage.PromptVersion
	var createdAt string
	err := q.QueryRowContext(ctx, `
		SELECT id, prompt_id, version_number, title, content, description, collection_id, change_summary, created_at
		FROM prompt_versions WHERE prompt_id = ? AND version_number = ?`, promptID, number).
		Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Title, &v.Content,
			&v.Description, &v.CollectionID, &v.ChangeSummary, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get version: %w", err)
	}
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) RestorePromptVersion(ctx context.Context, promptID string, number int, changeSummary string) (*storage.Prompt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	p, err := scanPrompt(tx.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, promptID))
	if err != nil {
		return nil, err
	}
	target, err := getPromptVersion(ctx, tx, promptID, number)
	if err != nil {
		return nil, err
	}
	if err := checkCollection(ctx, tx, target.CollectionID); err != nil {
		return nil, err
	}

	if err := snapshotTx(ctx, tx, p, changeSummary); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE prompts SET title = ?, content = ?, description = ?, collection_id = ?, version = ?, updated_at = ?
		WHERE id = ?`,
		target.Title, target.Content, target.Description, target.CollectionID,
		p.Version+1, fmtTime(storage.Now()), promptID)
	if err != nil {
		return nil, fmt.Errorf("sqlite restore prompt: %w", err)
	}

	out, err := getPrompt(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}
