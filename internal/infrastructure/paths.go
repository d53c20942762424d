package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveOutputDir resolves a user-supplied subfolder against the configured
// base directory and creates it, parents included. All output stays below
// the base: absolute input is rejected outright, and relative input may not
// climb out of the base with "..".
func ResolveOutputDir(baseDir, sub string) (string, error) {
	base := ExpandPath(baseDir)
	if base == "" {
		return "", fmt.Errorf("download base directory not configured")
	}

	sub = strings.TrimSpace(sub)
	if filepath.IsAbs(sub) {
		return "", fmt.Errorf("absolute paths are not allowed, use a subfolder of %s", base)
	}

	outDir := base
	if sub != "" {
		outDir = filepath.Join(base, sub)
		rel, err := filepath.Rel(base, outDir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("subfolder %q escapes the base directory", sub)
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return outDir, nil
}

// ExpandPath expands environment variables and ~ in paths
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if strings.Contains(path, "$HOME") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return path
}
