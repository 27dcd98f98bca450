// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// InstallFakeRuntime lays out a store entry
// <root>/<runtime>/<version>/bin/<runtime> with an executable stub and
// returns the executable path.
func InstallFakeRuntime(t *testing.T, storeRoot string, runtime string, version string) string {
	t.Helper()
	binDir := filepath.Join(storeRoot, runtime, version, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	exe := filepath.Join(binDir, runtime)
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return exe
}

// WriteProjectConfig creates a vx.toml in dir with the given content.
func WriteProjectConfig(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "vx.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
