package merkle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RelPath is the summary file's location relative to the indexed root.
const RelPath = ".cache/merkle-state.json"

// Load reads the saved summary from path. A missing or unparseable file is
// treated as "no prior index": it returns an empty, non-nil slice and no
// error. This must never raise.
func Load(path string) []Node {
	data, err := os.ReadFile(path)
	if err != nil {
		return []Node{}
	}
	var nodes []Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return []Node{}
	}
	return nodes
}

// Save atomically writes the summary to path, creating its parent
// directory if needed.
func Save(path string, nodes []Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create merkle summary directory: %w", err)
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("marshal merkle summary: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write merkle summary: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename merkle summary: %w", err)
	}
	return nil
}

// Delete removes the saved summary file, ignoring a not-exist error.
func Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete merkle summary: %w", err)
	}
	return nil
}
