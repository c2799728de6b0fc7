// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/promptlab/promptlab/pkg/archive"
)

func init() {
	archive.Providers.Register("s3", func(ctx context.Context, params map[string]string) (archive.Archive, error) {
		return New(ctx, Options{
			Bucket:   params["bucket"],
			Region:   params["region"],
			Prefix:   params["prefix"],
			Endpoint: params["endpoint"],
		})
	})
}

// compile-time check
var _ archive.Archive = (*Store)(nil)

// Options configures the S3 backend.
type Options struct {
	Bucket   string // required
	Region   string // e.g. "us-east-1"
	Prefix   string // key prefix, e.g. "exports/"
	Endpoint string // custom endpoint for MinIO compatibility
}

// exportMetadata is the JSON sidecar stored alongside each export in S3.
type exportMetadata struct {
	ID          string    `json:"id"`
	Bytes       int64     `json:"bytes"`
	Collections int       `json:"collections"`
	Prompts     int       `json:"prompts"`
	Tags        int       `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store implements archive.Archive backed by S3 (or MinIO).
//
// Object layout:
//
//	<prefix><export_id>/content.json
//	<prefix><export_id>/metadata.json
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3-backed archive.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 archive: bucket is required")
	}

	optFns := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	return &Store{
		client: s3.NewFromConfig(cfg, s3Opts...),
		bucket: opts.Bucket,
		prefix: opts.Prefix,
	}, nil
}

func (s *Store) contentKey(id string) string {
	return s.prefix + id + "/content.json"
}

func (s *Store) metadataKey(id string) string {
	return s.prefix + id + "/metadata.json"
}

// PutExport uploads both the export document and its metadata sidecar.
func (s *Store) PutExport(ctx context.Context, e *archive.Export) error {
	meta := exportMetadata{
		ID:          e.ID,
		Bytes:       e.Bytes,
		Collections: e.Collections,
		Prompts:     e.Prompts,
		Tags:        e.Tags,
		CreatedAt:   e.CreatedAt,
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.contentKey(e.ID)),
		Body:        bytes.NewReader(e.Content),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put content: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.metadataKey(e.ID)),
		Body:        bytes.NewReader(metaBytes),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put metadata: %w", err)
	}
	return nil
}

// GetExport returns export metadata (Content is nil).
func (s *Store) GetExport(ctx context.Context, id string) (*archive.Export, error) {
	meta, err := s.readMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	return &archive.Export{
		ID:          meta.ID,
		Bytes:       meta.Bytes,
		Collections: meta.Collections,
		Prompts:     meta.Prompts,
		Tags:        meta.Tags,
		CreatedAt:   meta.CreatedAt,
	}, nil
}

// GetExportContent returns the raw export document from S3.
func (s *Store) GetExportContent(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.contentKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("export %s: %w", id, archive.ErrExportNotFound)
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read content body: %w", err)
	}
	return data, nil
}

// ListExports lists export metadata, newest first.
func (s *Store) ListExports(ctx context.Context) ([]*archive.Export, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, cp := range page.CommonPrefixes {
			// Extract the export id from "<prefix><export_id>/".
			dir := aws.ToString(cp.Prefix)
			dir = strings.TrimPrefix(dir, s.prefix)
			dir = strings.TrimSuffix(dir, "/")
			if dir != "" {
				ids = append(ids, dir)
			}
		}
	}

	var out []*archive.Export
	for _, id := range ids {
		e, err := s.GetExport(ctx, id)
		if err != nil {
			if errors.Is(err, archive.ErrExportNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// DeleteExport removes both the content and metadata objects.
func (s *Store) DeleteExport(ctx context.Context, id string) error {
	if _, err := s.readMetadata(ctx, id); err != nil {
		return err
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3types.Delete{
			Objects: []s3types.ObjectIdentifier{
				{Key: aws.String(s.contentKey(id))},
				{Key: aws.String(s.metadataKey(id))},
			},
			Quiet: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	return nil
}

// Close is a no-op for the S3 archive.
func (s *Store) Close(_ context.Context) error {
	return nil
}

// readMetadata fetches and unmarshals metadata.json from S3.
func (s *Store) readMetadata(ctx context.Context, id string) (*exportMetadata, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.metadataKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("export %s: %w", id, archive.ErrExportNotFound)
		}
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	defer out.Body.Close()

	var meta exportMetadata
	if err := json.NewDecoder(out.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", id, err)
	}
	return &meta, nil
}

// isNotFound checks whether the error indicates a missing S3 object.
func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	// Some S3-compatible services return a generic "NotFound" status.
	return strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "NotFound")
}
