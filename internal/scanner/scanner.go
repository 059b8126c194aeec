// Package scanner implements the filesystem-scanner contract referenced
// by spec §1: "an ordered list of candidate paths honoring ignore
// rules". It is adapted from the teacher's internal/walker package,
// swapping the ad hoc prefix/filepath.Match ignore matching for proper
// gitignore-style globs via doublestar.
package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileInfo holds metadata about one discovered candidate file.
type FileInfo struct {
	Path    string // absolute filesystem path
	RelPath string // root-relative, forward-slash
	Size    int64
}

// MaxFileSize is the largest file the scanner will admit (1 MiB).
const MaxFileSize = 1 << 20

// IgnoreFileName is the project-local ignore-pattern file, one
// doublestar glob per line.
const IgnoreFileName = ".codelensignore"

// DefaultIgnores seed a fresh IgnoreFileName when none exists yet.
var DefaultIgnores = []string{
	".git/**",
	".svn/**",
	".hg/**",
	"node_modules/**",
	"vendor/**",
	"__pycache__/**",
	".idea/**",
	".vscode/**",
	".cache/**",
	"dist/**",
	"build/**",
}

// Scan walks the directory tree rooted at root and returns every
// candidate file whose extension is in allowedExts, in deterministic
// (sorted by RelPath) order. Directories matching an ignore pattern are
// pruned entirely rather than merely filtered, so a deny rule on a huge
// subtree (e.g. node_modules) short-circuits the walk into it.
func Scan(root string, allowedExts map[string]bool) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	ignores := loadIgnorePatterns(absRoot)

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == absRoot {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matchesIgnore(rel, ignores) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if matchesIgnore(rel, ignores) {
			return nil
		}

		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if !allowedExts[ext] {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if info.Size() > MaxFileSize || info.Size() == 0 {
			return nil
		}

		files = append(files, FileInfo{Path: path, RelPath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func loadIgnorePatterns(root string) []string {
	ignorePath := filepath.Join(root, IgnoreFileName)

	f, err := os.Open(ignorePath)
	if err != nil {
		createDefaultIgnoreFile(ignorePath)
		return DefaultIgnores
	}
	defer f.Close()

	var patterns []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return DefaultIgnores
	}
	return patterns
}

func createDefaultIgnoreFile(path string) {
	var b strings.Builder
	b.WriteString("# Directories and globs excluded from indexing, one doublestar pattern per line.\n\n")
	for _, p := range DefaultIgnores {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	os.WriteFile(path, []byte(b.String()), 0o644)
}

// matchesIgnore reports whether relPath (or, for a bare directory name
// pattern, its final component) matches any ignore glob.
func matchesIgnore(relPath string, patterns []string) bool {
	name := filepath.Base(relPath)
	for _, p := range patterns {
		p = strings.TrimSuffix(p, "/")
		if name == p {
			return true
		}
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
		if strings.HasPrefix(relPath, p+"/") {
			return true
		}
	}
	return false
}
