package scanner_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codelens/internal/scanner"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan_FiltersByExtensionAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.go"), "package b")
	writeFile(t, filepath.Join(root, "a.go"), "package a")
	writeFile(t, filepath.Join(root, "readme.md"), "hello")

	files, err := scanner.Scan(root, map[string]bool{"go": true})
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "a.go", files[0].RelPath)
	require.Equal(t, "b.go", files[1].RelPath)
}

func TestScan_PrunesIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.go"), "package dep")

	files, err := scanner.Scan(root, map[string]bool{"go": true})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "src/main.go", files[0].RelPath)
}

func TestScan_HonorsIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, scanner.IgnoreFileName), "vendor/**\n*.gen.go\n")
	writeFile(t, filepath.Join(root, "vendor", "lib.go"), "package lib")
	writeFile(t, filepath.Join(root, "models.gen.go"), "package models")
	writeFile(t, filepath.Join(root, "main.go"), "package main")

	files, err := scanner.Scan(root, map[string]bool{"go": true})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "main.go", files[0].RelPath)
}

func TestScan_SkipsEmptyAndOversizeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty.go"), "")
	writeFile(t, filepath.Join(root, "huge.go"), strings.Repeat("a", scanner.MaxFileSize+1))
	writeFile(t, filepath.Join(root, "ok.go"), "package ok")

	files, err := scanner.Scan(root, map[string]bool{"go": true})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "ok.go", files[0].RelPath)
}
