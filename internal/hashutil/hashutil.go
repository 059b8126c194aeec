// Package hashutil provides the content-addressing primitives used
// throughout the index: streaming SHA-256 over file bytes and over
// in-memory text. Line endings are never normalized — a CRLF/LF flip is a
// content change by design.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// SHA256File streams the file at path through SHA-256 and returns the
// lowercase hex digest.
func SHA256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SHA256Text hashes a byte slice (typically chunk text) and returns the
// lowercase hex digest.
func SHA256Text(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// SHA256Hex hashes an arbitrary set of hex-encoded hash strings, in the
// order given, after concatenating their raw hex digits. Used by the
// Merkle summary to combine child hashes into a directory hash.
func SHA256Hex(hexDigests []string) string {
	h := sha256.New()
	for _, d := range hexDigests {
		io.WriteString(h, d)
	}
	return hex.EncodeToString(h.Sum(nil))
}
