// Package merkle builds a directory-tree hash summary from per-file
// content hashes and diffs two such summaries into added/removed/modified
// file sets. It is the Go counterpart of the original native addon's
// merkle.rs: same parent-path derivation (last '/', "." as the root
// sentinel), same deepest-first directory hashing, same file-hash
// projection before diffing.
package merkle

import (
	"sort"
	"strings"

	"codelens/internal/hashutil"
)

// RootPath is the sentinel path of the root directory node.
const RootPath = "."

// Node is one node of a Merkle summary: a file (leaf) or a directory
// (internal node whose hash is derived from its children).
type Node struct {
	Path     string   `json:"path"`
	Hash     string   `json:"hash"`
	IsFile   bool     `json:"is_file"`
	Children []string `json:"children"`
}

// FileHash is one (path, content-hash) input to Build.
type FileHash struct {
	Path string
	Hash string
}

// Diff is the result of comparing two summaries: file paths only.
type Diff struct {
	Added    []string
	Removed  []string
	Modified []string
}

// Empty reports whether a diff carries no changes at all.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// Build constructs a full summary (file nodes + directory nodes + root)
// from a list of (path, content-hash) pairs. Paths must be root-relative
// and forward-slash separated.
func Build(files []FileHash) []Node {
	nodes := make(map[string]Node, len(files)*2)
	dirChildren := make(map[string][]string)
	childSeen := make(map[string]map[string]bool)

	addChild := func(parent, child string) {
		if childSeen[parent] == nil {
			childSeen[parent] = make(map[string]bool)
		}
		if childSeen[parent][child] {
			return
		}
		childSeen[parent][child] = true
		dirChildren[parent] = append(dirChildren[parent], child)
	}

	for _, fh := range files {
		nodes[fh.Path] = Node{Path: fh.Path, Hash: fh.Hash, IsFile: true, Children: nil}

		parent := parentPath(fh.Path)
		addChild(parent, fh.Path)

		current := parent
		for {
			grandparent := parentPath(current)
			if grandparent == current {
				break
			}
			if _, ok := dirChildren[grandparent]; !ok {
				dirChildren[grandparent] = nil
			}
			addChild(grandparent, current)
			current = grandparent
		}
	}

	// Process directories deepest-first so a directory's children already
	// have final hashes when the directory itself is hashed.
	dirPaths := make([]string, 0, len(dirChildren))
	for p := range dirChildren {
		dirPaths = append(dirPaths, p)
	}
	sort.Slice(dirPaths, func(i, j int) bool {
		di, dj := depth(dirPaths[i]), depth(dirPaths[j])
		if di != dj {
			return di > dj
		}
		return dirPaths[i] < dirPaths[j]
	})

	for _, dir := range dirPaths {
		children := append([]string(nil), dirChildren[dir]...)
		sort.Strings(children)

		childHashes := make([]string, 0, len(children))
		for _, c := range children {
			if n, ok := nodes[c]; ok {
				childHashes = append(childHashes, n.Hash)
			}
		}
		sort.Strings(childHashes)

		nodes[dir] = Node{
			Path:     dir,
			Hash:     hashutil.SHA256Hex(childHashes),
			IsFile:   false,
			Children: children,
		}
	}

	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// DiffSummaries compares two summaries and returns the file paths that
// were added, removed, or modified. A missing or empty old summary yields
// every file in new as added.
func DiffSummaries(old, new []Node) Diff {
	oldFiles := fileHashes(old)
	newFiles := fileHashes(new)

	var d Diff
	for path, newHash := range newFiles {
		oldHash, existed := oldFiles[path]
		switch {
		case !existed:
			d.Added = append(d.Added, path)
		case oldHash != newHash:
			d.Modified = append(d.Modified, path)
		}
	}
	for path := range oldFiles {
		if _, ok := newFiles[path]; !ok {
			d.Removed = append(d.Removed, path)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Modified)
	return d
}

// RootHash returns the hash of the shortest-path node, which is the root
// summary hash, or "" if nodes is empty.
func RootHash(nodes []Node) string {
	if len(nodes) == 0 {
		return ""
	}
	best := nodes[0]
	for _, n := range nodes[1:] {
		if len(n.Path) < len(best.Path) {
			best = n
		}
	}
	return best.Hash
}

func fileHashes(nodes []Node) map[string]string {
	m := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if n.IsFile {
			m[n.Path] = n.Hash
		}
	}
	return m
}

func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return RootPath
	}
	return path[:idx]
}

func depth(path string) int {
	if path == RootPath {
		return 0
	}
	return strings.Count(path, "/") + 1
}
