//go:build integration

package itest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestModuleRoot_FromOtherWorkingDir(t *testing.T) {
	t.Chdir(t.TempDir())

	root := mustRepoRoot(t)
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Fatalf("expected go.mod under %s: %v", root, err)
	}
}
