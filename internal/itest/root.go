//go:build integration

package itest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// moduleRoot resolves the vid2article checkout from this file's location,
// so CLI tests can `go run ./cmd/vid2article` from any working directory.
func moduleRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("itest: cannot resolve source location")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	if _, err := os.Stat(filepath.Join(root, "cmd", "vid2article")); err != nil {
		return "", fmt.Errorf("itest: %s is not the vid2article module: %w", root, err)
	}
	return root, nil
}
