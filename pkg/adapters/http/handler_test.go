// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	archivememory "github.com/promptlab/promptlab/pkg/archive/memory"
	"github.com/promptlab/promptlab/pkg/observability/logging"
	storagememory "github.com/promptlab/promptlab/pkg/storage/memory"
)

type fakeCompletion struct {
	lastModel  string
	lastPrompt string
	output     string
	err        error
}

func (f *fakeCompletion) Complete(_ context.Context, model, prompt string) (string, error) {
	f.lastModel = model
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return New(Config{
		Store:       storagememory.New(),
		Archive:     archivememory.New(),
		Completions: &fakeCompletion{output: "fine"},
		Model:       "test-model",
		Version:     "test",
		Logger:      logging.Nop(),
	})
}

func doJSON(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func errType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Type string `json:"type"`
			IDs  []string
		} `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error.Type
}

func createCollection(t *testing.T, h *Handler, name string) string {
	t.Helper()
	rec := doJSON(t, h, "POST", "/v1/collections", map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create collection: %d %s", rec.Code, rec.Body.String())
	}
	var c struct {
		ID string `json:"id"`
	}
	decode(t, rec, &c)
	return c.ID
}

func createPrompt(t *testing.T, h *Handler, body map[string]any) string {
	t.Helper()
	rec := doJSON(t, h, "POST", "/v1/prompts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create prompt: %d %s", rec.Code, rec.Body.String())
	}
	var p struct {
		ID string `json:"id"`
	}
	decode(t, rec, &p)
	return p.ID
}

func createTag(t *testing.T, h *Handler, name string) string {
	t.Helper()
	rec := doJSON(t, h, "POST", "/v1/tags", map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tag: %d %s", rec.Code, rec.Body.String())
	}
	var tag struct {
		ID string `json:"id"`
	}
	decode(t, rec, &tag)
	return tag.ID
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "healthy" || body["version"] != "test" {
		t.Errorf("health body = %v", body)
	}
}

func TestCollectionLifecycle(t *testing.T) {
	h := newTestHandler(t)

	id := createCollection(t, h, "writing")

	rec := doJSON(t, h, "GET", "/v1/collections/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get collection: %d", rec.Code)
	}

	rec = doJSON(t, h, "GET", "/v1/collections", nil)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 1 {
		t.Errorf("total = %d", list.Total)
	}

	rec = doJSON(t, h, "DELETE", "/v1/collections/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete collection: %d", rec.Code)
	}
	rec = doJSON(t, h, "DELETE", "/v1/collections/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: %d, want 404", rec.Code)
	}
}

func TestCreateCollectionValidation(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, "POST", "/v1/collections", map[string]string{"name": ""})
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "validation_error" {
		t.Errorf("empty name: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreatePrompt(t *testing.T) {
	h := newTestHandler(t)
	colID := createCollection(t, h, "home")
	tagID := createTag(t, h, "alpha")

	rec := doJSON(t, h, "POST", "/v1/prompts", map[string]any{
		"title":         "Summarizer",
		"content":       "Summarize {{text}} as {{style}}",
		"collection_id": colID,
		"tag_ids":       []string{tagID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create prompt: %d %s", rec.Code, rec.Body.String())
	}
	var p struct {
		Variables []string `json:"variables"`
		Tags      []struct {
			Name string `json:"name"`
		} `json:"tags"`
		Version int `json:"version"`
	}
	decode(t, rec, &p)
	if len(p.Variables) != 2 || p.Variables[0] != "text" || p.Variables[1] != "style" {
		t.Errorf("variables = %v", p.Variables)
	}
	if len(p.Tags) != 1 || p.Tags[0].Name != "alpha" {
		t.Errorf("tags = %v", p.Tags)
	}
	if p.Version != 1 {
		t.Errorf("version = %d", p.Version)
	}
}

func TestCreatePromptUnknownReferences(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, "POST", "/v1/prompts", map[string]any{
		"title": "t", "content": "c", "collection_id": "col_nope",
	})
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "invalid_reference" {
		t.Errorf("unknown collection: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "POST", "/v1/prompts", map[string]any{
		"title": "t", "content": "c", "tag_ids": []string{"tag_nope"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown tag: %d", rec.Code)
	}
	var body struct {
		Error struct {
			Type string   `json:"type"`
			IDs  []string `json:"ids"`
		} `json:"error"`
	}
	decode(t, rec, &body)
	if body.Error.Type != "invalid_reference" || len(body.Error.IDs) != 1 || body.Error.IDs[0] != "tag_nope" {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestListPromptsFiltering(t *testing.T) {
	h := newTestHandler(t)
	colID := createCollection(t, h, "home")
	alpha := createTag(t, h, "alpha")
	beta := createTag(t, h, "beta")

	createPrompt(t, h, map[string]any{
		"title": "Email Summarizer", "content": "c", "collection_id": colID,
		"tag_ids": []string{alpha, beta},
	})
	createPrompt(t, h, map[string]any{
		"title": "Reviewer", "description": "summarizes diffs", "content": "c",
		"tag_ids": []string{alpha},
	})
	createPrompt(t, h, map[string]any{"title": "Translator", "content": "summarize"})

	listTotal := func(path string) int {
		rec := doJSON(t, h, "GET", path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: %d %s", path, rec.Code, rec.Body.String())
		}
		var list struct {
			Total int `json:"total"`
		}
		decode(t, rec, &list)
		return list.Total
	}

	if got := listTotal("/v1/prompts"); got != 3 {
		t.Errorf("no filter: %d", got)
	}
	if got := listTotal("/v1/prompts?collection_id=" + colID); got != 1 {
		t.Errorf("collection filter: %d", got)
	}
	if got := listTotal("/v1/prompts?tags=alpha,beta"); got != 1 {
		t.Errorf("tags all: %d", got)
	}
	if got := listTotal("/v1/prompts?tags=alpha,beta&tag_match=any"); got != 2 {
		t.Errorf("tags any: %d", got)
	}
	// Search covers title and description but not content.
	if got := listTotal("/v1/prompts?search=summar"); got != 2 {
		t.Errorf("search: %d", got)
	}
	// Filters combine with AND.
	if got := listTotal("/v1/prompts?tags=alpha&search=summar"); got != 2 {
		t.Errorf("tags+search: %d", got)
	}

	rec := doJSON(t, h, "GET", "/v1/prompts?tag_match=bogus", nil)
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "invalid_argument" {
		t.Errorf("bad tag_match: %d %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, "GET", "/v1/prompts?order=sideways", nil)
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "invalid_argument" {
		t.Errorf("bad order: %d %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, "GET", "/v1/prompts?tags=no%20good", nil)
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "validation_error" {
		t.Errorf("bad tag name: %d %s", rec.Code, rec.Body.String())
	}
}

func TestReplacePromptClearsAbsentFields(t *testing.T) {
	h := newTestHandler(t)
	colID := createCollection(t, h, "home")
	id := createPrompt(t, h, map[string]any{
		"title": "t", "content": "c", "description": "d", "collection_id": colID,
	})

	rec := doJSON(t, h, "PUT", "/v1/prompts/"+id, map[string]any{
		"title": "t2", "content": "c2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put: %d %s", rec.Code, rec.Body.String())
	}
	var p struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		CollectionID string `json:"collection_id"`
		Version      int    `json:"version"`
	}
	decode(t, rec, &p)
	if p.Title != "t2" || p.Description != "" || p.CollectionID != "" {
		t.Errorf("put result = %+v", p)
	}
	if p.Version != 2 {
		t.Errorf("version = %d", p.Version)
	}
}

func TestUpdatePromptPartial(t *testing.T) {
	h := newTestHandler(t)
	id := createPrompt(t, h, map[string]any{
		"title": "t", "content": "c", "description": "d",
	})

	// Absent fields stay untouched; null clears.
	rec := doJSON(t, h, "PATCH", "/v1/prompts/"+id, map[string]any{
		"title": "t2", "description": nil,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", rec.Code, rec.Body.String())
	}
	var p struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		Description string `json:"description"`
		Version     int    `json:"version"`
	}
	decode(t, rec, &p)
	if p.Title != "t2" || p.Content != "c" || p.Description != "" || p.Version != 2 {
		t.Errorf("patch result = %+v", p)
	}

	// Empty body is a no-op and creates no version.
	rec = doJSON(t, h, "PATCH", "/v1/prompts/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty patch: %d %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &p)
	if p.Version != 2 {
		t.Errorf("empty patch bumped version to %d", p.Version)
	}

	rec = doJSON(t, h, "PATCH", "/v1/prompts/"+id, map[string]any{"title": ""})
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "validation_error" {
		t.Errorf("empty title: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRenderPrompt(t *testing.T) {
	h := newTestHandler(t)
	id := createPrompt(t, h, map[string]any{
		"title": "t", "content": "Hello {{name}}, from {{place}}",
	})

	rec := doJSON(t, h, "POST", "/v1/prompts/"+id+"/render", map[string]any{
		"variables": map[string]string{"name": "Ada"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("render: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Rendered         string   `json:"rendered"`
		MissingVariables []string `json:"missing_variables"`
	}
	decode(t, rec, &out)
	if out.Rendered != "Hello Ada, from {{place}}" {
		t.Errorf("rendered = %q", out.Rendered)
	}
	if len(out.MissingVariables) != 1 || out.MissingVariables[0] != "place" {
		t.Errorf("missing = %v", out.MissingVariables)
	}
}

func TestTestPrompt(t *testing.T) {
	h := newTestHandler(t)
	fake := &fakeCompletion{output: "a fine haiku"}
	h.completions = fake
	id := createPrompt(t, h, map[string]any{
		"title": "t", "content": "Write a haiku about {{topic}}",
	})

	rec := doJSON(t, h, "POST", "/v1/prompts/"+id+"/test", map[string]any{
		"variables": map[string]string{"topic": "rain"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("test: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Rendered string `json:"rendered"`
		Model    string `json:"model"`
		Output   string `json:"output"`
	}
	decode(t, rec, &out)
	if out.Output != "a fine haiku" || out.Model != "test-model" {
		t.Errorf("test result = %+v", out)
	}
	if fake.lastPrompt != "Write a haiku about rain" {
		t.Errorf("prompt sent = %q", fake.lastPrompt)
	}

	// Unfilled variables are rejected before any upstream call.
	rec = doJSON(t, h, "POST", "/v1/prompts/"+id+"/test", nil)
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "invalid_argument" {
		t.Errorf("unfilled variables: %d %s", rec.Code, rec.Body.String())
	}
}

func TestTestPromptUnconfigured(t *testing.T) {
	h := newTestHandler(t)
	h.completions = nil
	id := createPrompt(t, h, map[string]any{"title": "t", "content": "c"})

	rec := doJSON(t, h, "POST", "/v1/prompts/"+id+"/test", nil)
	if rec.Code != http.StatusServiceUnavailable || errType(t, rec) != "llm_unavailable" {
		t.Errorf("unconfigured test: %d %s", rec.Code, rec.Body.String())
	}
}

func TestTagLifecycle(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, "POST", "/v1/tags", map[string]string{"name": "  Code-Review "})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tag: %d %s", rec.Code, rec.Body.String())
	}
	var tag struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decode(t, rec, &tag)
	if tag.Name != "code-review" {
		t.Errorf("name = %q, want normalized", tag.Name)
	}

	// Same name after normalization conflicts.
	rec = doJSON(t, h, "POST", "/v1/tags", map[string]string{"name": "CODE-REVIEW"})
	if rec.Code != http.StatusConflict || errType(t, rec) != "conflict" {
		t.Errorf("duplicate: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "POST", "/v1/tags", map[string]string{"name": "ill egal"})
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "validation_error" {
		t.Errorf("invalid name: %d %s", rec.Code, rec.Body.String())
	}

	id := createPrompt(t, h, map[string]any{
		"title": "t", "content": "c", "tag_ids": []string{tag.ID},
	})

	rec = doJSON(t, h, "GET", "/v1/tags", nil)
	var list struct {
		Tags []struct {
			Name        string `json:"name"`
			PromptCount int    `json:"prompt_count"`
		} `json:"tags"`
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 1 || list.Tags[0].PromptCount != 1 {
		t.Errorf("list = %+v", list)
	}

	rec = doJSON(t, h, "DELETE", "/v1/tags/"+tag.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete tag: %d", rec.Code)
	}

	// The prompt survives with an empty tag set.
	rec = doJSON(t, h, "GET", "/v1/prompts/"+id, nil)
	var p struct {
		Tags []any `json:"tags"`
	}
	decode(t, rec, &p)
	if len(p.Tags) != 0 {
		t.Errorf("tags after delete = %v", p.Tags)
	}
}

func TestAttachDetachTags(t *testing.T) {
	h := newTestHandler(t)
	id := createPrompt(t, h, map[string]any{"title": "t", "content": "c"})
	alpha := createTag(t, h, "alpha")
	beta := createTag(t, h, "beta")

	rec := doJSON(t, h, "POST", "/v1/prompts/"+id+"/tags", map[string]any{
		"tag_ids": []string{alpha, beta},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("attach: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
		Total int `json:"total"`
	}
	decode(t, rec, &out)
	if out.Total != 2 || out.Tags[0].Name != "alpha" || out.Tags[1].Name != "beta" {
		t.Errorf("attach result = %+v", out)
	}

	// Attaching a mix of known and unknown ids changes nothing.
	rec = doJSON(t, h, "POST", "/v1/prompts/"+id+"/tags", map[string]any{
		"tag_ids": []string{alpha, "tag_nope"},
	})
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "invalid_reference" {
		t.Errorf("partial attach: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "DELETE", "/v1/prompts/"+id+"/tags", map[string]any{
		"tag_ids": []string{alpha},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("detach: %d %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &out)
	if out.Total != 1 || out.Tags[0].Name != "beta" {
		t.Errorf("detach result = %+v", out)
	}

	rec = doJSON(t, h, "POST", "/v1/prompts/"+id+"/tags", map[string]any{"tag_ids": []string{}})
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "validation_error" {
		t.Errorf("empty tag_ids: %d %s", rec.Code, rec.Body.String())
	}
}

func TestVersionEndpoints(t *testing.T) {
	h := newTestHandler(t)
	id := createPrompt(t, h, map[string]any{"title": "v1", "content": "c1"})

	doJSON(t, h, "PATCH", "/v1/prompts/"+id, map[string]any{
		"title": "v2", "change_summary": "retitle",
	})
	doJSON(t, h, "PATCH", "/v1/prompts/"+id, map[string]any{"content": "c3"})

	rec := doJSON(t, h, "GET", "/v1/prompts/"+id+"/versions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list versions: %d %s", rec.Code, rec.Body.String())
	}
	var list struct {
		Versions []struct {
			VersionNumber int    `json:"version_number"`
			Title         string `json:"title"`
			ChangeSummary string `json:"change_summary"`
		} `json:"versions"`
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 2 || list.Versions[0].VersionNumber != 2 || list.Versions[1].VersionNumber != 1 {
		t.Fatalf("versions = %+v", list)
	}
	if list.Versions[1].ChangeSummary != "retitle" {
		t.Errorf("change summary = %q", list.Versions[1].ChangeSummary)
	}

	rec = doJSON(t, h, "GET", "/v1/prompts/"+id+"/versions/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get version: %d", rec.Code)
	}
	rec = doJSON(t, h, "GET", "/v1/prompts/"+id+"/versions/9", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing version: %d", rec.Code)
	}
	rec = doJSON(t, h, "GET", "/v1/prompts/"+id+"/versions/zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric version: %d", rec.Code)
	}

	rec = doJSON(t, h, "GET", "/v1/prompts/"+id+"/versions/compare?from=1&to=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare: %d %s", rec.Code, rec.Body.String())
	}
	var cmp struct {
		ChangedFields []string `json:"changed_fields"`
	}
	decode(t, rec, &cmp)
	if len(cmp.ChangedFields) != 1 || cmp.ChangedFields[0] != "title" {
		t.Errorf("changed_fields = %v", cmp.ChangedFields)
	}

	rec = doJSON(t, h, "GET", "/v1/prompts/"+id+"/versions/compare?from=1&to=1", nil)
	if rec.Code != http.StatusBadRequest || errType(t, rec) != "invalid_argument" {
		t.Errorf("self compare: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRestoreVersion(t *testing.T) {
	h := newTestHandler(t)
	id := createPrompt(t, h, map[string]any{"title": "original", "content": "c1"})
	doJSON(t, h, "PATCH", "/v1/prompts/"+id, map[string]any{"title": "changed"})

	rec := doJSON(t, h, "POST", "/v1/prompts/"+id+"/versions/1/restore", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: %d %s", rec.Code, rec.Body.String())
	}
	var p struct {
		Title   string `json:"title"`
		Version int    `json:"version"`
	}
	decode(t, rec, &p)
	if p.Title != "original" || p.Version != 3 {
		t.Errorf("restore result = %+v", p)
	}

	rec = doJSON(t, h, "POST", "/v1/prompts/"+id+"/versions/9/restore", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing version restore: %d", rec.Code)
	}
}

func TestCascadeDeleteThroughAPI(t *testing.T) {
	h := newTestHandler(t)
	colID := createCollection(t, h, "doomed")
	tagID := createTag(t, h, "exclusive")
	var promptIDs []string
	for i := 0; i < 3; i++ {
		promptIDs = append(promptIDs, createPrompt(t, h, map[string]any{
			"title": fmt.Sprintf("p%d", i), "content": "c",
			"collection_id": colID, "tag_ids": []string{tagID},
		}))
	}

	rec := doJSON(t, h, "DELETE", "/v1/collections/"+colID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete collection: %d", rec.Code)
	}
	for _, id := range promptIDs {
		if rec := doJSON(t, h, "GET", "/v1/prompts/"+id, nil); rec.Code != http.StatusNotFound {
			t.Errorf("prompt %s survived cascade: %d", id, rec.Code)
		}
	}
	rec = doJSON(t, h, "GET", "/v1/tags/"+tagID, nil)
	var tag struct {
		PromptCount int `json:"prompt_count"`
	}
	decode(t, rec, &tag)
	if tag.PromptCount != 0 {
		t.Errorf("prompt_count = %d after cascade", tag.PromptCount)
	}
}

func TestExportEndpoints(t *testing.T) {
	h := newTestHandler(t)
	createCollection(t, h, "home")
	createPrompt(t, h, map[string]any{"title": "t", "content": "c"})
	createTag(t, h, "alpha")

	rec := doJSON(t, h, "POST", "/v1/exports", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create export: %d %s", rec.Code, rec.Body.String())
	}
	var e struct {
		ID          string `json:"id"`
		Bytes       int64  `json:"bytes"`
		Collections int    `json:"collections"`
		Prompts     int    `json:"prompts"`
		Tags        int    `json:"tags"`
	}
	decode(t, rec, &e)
	if e.Collections != 1 || e.Prompts != 1 || e.Tags != 1 || e.Bytes == 0 {
		t.Errorf("export = %+v", e)
	}

	rec = doJSON(t, h, "GET", "/v1/exports", nil)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 1 {
		t.Errorf("export list total = %d", list.Total)
	}

	rec = doJSON(t, h, "GET", "/v1/exports/"+e.ID+"/content", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export content: %d", rec.Code)
	}
	var doc struct {
		Prompts []any `json:"prompts"`
	}
	decode(t, rec, &doc)
	if len(doc.Prompts) != 1 {
		t.Errorf("document prompts = %d", len(doc.Prompts))
	}

	rec = doJSON(t, h, "DELETE", "/v1/exports/"+e.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete export: %d", rec.Code)
	}
	rec = doJSON(t, h, "GET", "/v1/exports/"+e.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted export: %d", rec.Code)
	}
}

func TestListPromptsOrdering(t *testing.T) {
	h := newTestHandler(t)
	for i := 0; i < 3; i++ {
		createPrompt(t, h, map[string]any{"title": fmt.Sprintf("p%d", i), "content": "c"})
	}

	titles := func(path string) []string {
		rec := doJSON(t, h, "GET", path, nil)
		var list struct {
			Prompts []struct {
				Title string `json:"title"`
			} `json:"prompts"`
		}
		decode(t, rec, &list)
		out := make([]string, 0, len(list.Prompts))
		for _, p := range list.Prompts {
			out = append(out, p.Title)
		}
		return out
	}

	asc := titles("/v1/prompts?order=asc")
	desc := titles("/v1/prompts")
	if len(asc) != 3 || len(desc) != 3 {
		t.Fatalf("asc=%v desc=%v", asc, desc)
	}
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Errorf("desc is not the reverse of asc: asc=%v desc=%v", asc, desc)
			break
		}
	}
}
