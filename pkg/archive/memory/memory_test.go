// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"testing"

	"github.com/promptlab/promptlab/pkg/archive"
	"github.com/promptlab/promptlab/pkg/archive/archivetest"
)

func TestConformance(t *testing.T) {
	archivetest.RunConformanceTests(t, func(t *testing.T) archive.Archive {
		return New()
	})
}
