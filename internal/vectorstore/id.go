package vectorstore

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// DeriveID derives a record id from a chunk's content hash per spec §6:
// take the first 32 hex characters, force the version nibble (byte 6's
// high nibble) to 5, force the variant nibble (byte 8's top two bits) to
// 10, and format as a canonical dashed UUID.
func DeriveID(contentHash string) string {
	raw := contentHash
	if len(raw) > 32 {
		raw = raw[:32]
	}
	for len(raw) < 32 {
		raw += "0"
	}

	b, err := hex.DecodeString(raw)
	if err != nil || len(b) != 16 {
		// contentHash is always a hex SHA-256 digest in practice; this
		// path only guards against malformed callers (e.g. in tests).
		b = make([]byte, 16)
		copy(b, []byte(raw))
	}

	b[6] = (b[6] & 0x0f) | 0x50 // version nibble -> 5
	b[8] = (b[8] & 0x3f) | 0x80 // variant bits -> 10

	var id uuid.UUID
	copy(id[:], b)
	return id.String()
}
