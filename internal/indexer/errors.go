package indexer

import "errors"

// Sentinel errors per spec §7, wrapped with context via fmt.Errorf's
// %w so callers can branch with errors.Is while still seeing the
// offending path or batch in the message.
var (
	// ErrScanFailure means the root could not be walked (unreadable
	// root, symlink cycle). The run aborts.
	ErrScanFailure = errors.New("scan failure")

	// ErrEmbeddingProvider means a batch failed to embed. The run
	// aborts before any vector-store mutation the batch was destined
	// for; the previously-committed Merkle summary is left untouched.
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrVectorStore covers both delete and upsert failures against
	// the vector store. Both are fatal: a failed delete would leave
	// stale records for a modified file, and a failed upsert must not
	// be followed by a Merkle summary write.
	ErrVectorStore = errors.New("vector store failure")
)
