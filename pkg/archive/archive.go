// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive stores point-in-time JSON exports of the prompt library in
// pluggable backends.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/promptlab/promptlab/pkg/provider"
)

// ErrExportNotFound is returned when an export does not exist.
var ErrExportNotFound = errors.New("export not found")

// Providers is the registry of archive backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/promptlab/promptlab/pkg/archive/memory"
//	import _ "github.com/promptlab/promptlab/pkg/archive/filesystem"
//	import _ "github.com/promptlab/promptlab/pkg/archive/s3"
var Providers = provider.NewRegistry[Archive]("archive")

// Export is one snapshot of the whole library as a JSON document.
type Export struct {
	ID          string
	Bytes       int64
	Collections int
	Prompts     int
	Tags        int
	Content     []byte // populated for PutExport input; nil on list/get output
	CreatedAt   time.Time
}

// Archive defines the interface for pluggable export storage backends.
type Archive interface {
	PutExport(ctx context.Context, e *Export) error
	// GetExport returns metadata only; content comes from GetExportContent.
	GetExport(ctx context.Context, id string) (*Export, error)
	GetExportContent(ctx context.Context, id string) ([]byte, error)
	// ListExports returns metadata for all exports, newest first.
	ListExports(ctx context.Context) ([]*Export, error)
	DeleteExport(ctx context.Context, id string) error
	Close(ctx context.Context) error
}
