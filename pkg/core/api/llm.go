// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

// Package api holds the outbound completion client used by the prompt
// test-drive endpoint.
package api

import "context"

// CompletionClient runs a rendered prompt against a language model and
// returns the completion text.
type CompletionClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}
