// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem

import (
	"testing"

	"github.com/promptlab/promptlab/pkg/archive"
	"github.com/promptlab/promptlab/pkg/archive/archivetest"
)

func TestConformance(t *testing.T) {
	archivetest.RunConformanceTests(t, func(t *testing.T) archive.Archive {
		a, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return a
	})
}

func TestNewRequiresDir(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected an error for an empty dir")
	}
}
