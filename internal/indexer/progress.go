package indexer

// Stage names reported to a ProgressFunc.
const (
	StageScan     = "scan"
	StageHash     = "hash"
	StageChunk    = "chunk"
	StageEmbed    = "embed"
	StageUpsert   = "upsert"
	StageNoChange = "no_changes"
)

// ProgressFunc receives a coarse stage label plus a best-effort
// (done, total) counter pair. total may be 0 when not yet known.
type ProgressFunc func(stage string, done, total int)

// ErrorFunc receives a non-fatal per-file failure (read, parse) so the
// caller can surface it without aborting the run.
type ErrorFunc func(path string, err error)

func noopProgress(string, int, int) {}
func noopError(string, error)       {}

// Stats reports the outcome of one index run, per spec §4.5 step 13.
type Stats struct {
	TotalFiles   int
	TotalChunks  int
	NewChunks    int
	CachedChunks int
	ElapsedMs    int64
	NoChanges    bool
}
