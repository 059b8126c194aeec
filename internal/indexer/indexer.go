// Package indexer composes the Chunker, Content Hasher, Merkle Summary,
// Embedding Cache, Embedding Provider, and Vector Store into the
// incremental-indexing pipeline of spec §4.5: scan, hash, diff, chunk
// changed files, cache-lookup, embed misses, upsert, persist.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"codelens/internal/cache"
	"codelens/internal/chunker"
	"codelens/internal/embedding"
	"codelens/internal/hashutil"
	"codelens/internal/merkle"
	"codelens/internal/scanner"
	"codelens/internal/vectorstore"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Indexer owns the Merkle summary and cache files for one configured
// root, and composes the opaque embedding provider and vector store
// collaborators.
type Indexer struct {
	cfg    Config
	deps   Deps
	logger *zap.SugaredLogger
	cache  *cache.Cache
}

// New builds an Indexer over cfg and deps. It loads the cache file
// eagerly, starting from an empty cache when the file is missing or
// corrupt; the file itself is only written by a later save.
func New(cfg Config, deps Deps, logger *zap.SugaredLogger) *Indexer {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Indexer{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		cache:  cache.Open(filepath.Join(cfg.RootDir, cfg.CachePath)),
	}
}

func (idx *Indexer) merkleStatePath() string {
	return filepath.Join(idx.cfg.RootDir, merkle.RelPath)
}

// Run executes one incremental index pass. onProgress and onError may
// be nil.
func (idx *Indexer) Run(ctx context.Context, onProgress ProgressFunc, onError ErrorFunc) (*Stats, error) {
	start := time.Now()
	if onProgress == nil {
		onProgress = noopProgress
	}
	if onError == nil {
		onError = noopError
	}

	// Step 1: scan.
	onProgress(StageScan, 0, 0)
	files, err := scanner.Scan(idx.cfg.RootDir, idx.deps.Registry.Extensions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailure, err)
	}

	// Step 2: hash every path, concurrently — one of the two
	// embarrassingly-parallel phases (spec §5).
	onProgress(StageHash, 0, len(files))
	fileHashes, err := idx.hashAll(ctx, files, onProgress, onError)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailure, err)
	}

	// Step 3: build the new Merkle summary.
	newSummary := merkle.Build(fileHashes)

	// Step 4: load the previous summary and diff.
	prevSummary := merkle.Load(idx.merkleStatePath())
	diff := merkle.DiffSummaries(prevSummary, newSummary)

	// Step 5: short-circuit if nothing changed.
	if len(prevSummary) > 0 && diff.Empty() {
		onProgress(StageNoChange, len(files), len(files))
		return &Stats{TotalFiles: len(files), ElapsedMs: time.Since(start).Milliseconds(), NoChanges: true}, nil
	}

	// Step 6: invalidate removed and modified files by path, before any
	// re-embedding — a delete failure is fatal.
	toInvalidate := append(append([]string{}, diff.Removed...), diff.Modified...)
	sort.Strings(toInvalidate)
	if len(toInvalidate) > 0 {
		if err := idx.deps.Store.DeleteByPaths(ctx, toInvalidate); err != nil {
			return nil, fmt.Errorf("%w: delete by path: %v", ErrVectorStore, err)
		}
	}

	// Step 7: select files to (re-)process.
	var selected []scanner.FileInfo
	if len(prevSummary) == 0 {
		selected = files
	} else {
		want := make(map[string]bool, len(diff.Added)+len(diff.Modified))
		for _, p := range diff.Added {
			want[p] = true
		}
		for _, p := range diff.Modified {
			want[p] = true
		}
		for _, f := range files {
			if want[f.RelPath] {
				selected = append(selected, f)
			}
		}
	}

	// Step 8: chunk each selected file. Failures are logged and skipped.
	onProgress(StageChunk, 0, len(selected))
	type chunkedFile struct {
		relPath string
		chunks  []chunkRecord
	}
	var chunkedFiles []chunkedFile
	for i, f := range selected {
		src, err := os.ReadFile(f.Path)
		if err != nil {
			onError(f.RelPath, fmt.Errorf("read file: %w", err))
			continue
		}
		raw, err := idx.deps.Registry.Chunk(f.RelPath, src, idx.cfg.chunkerOptions())
		if err != nil {
			onError(f.RelPath, fmt.Errorf("chunk file: %w", err))
			continue
		}
		recs := make([]chunkRecord, len(raw))
		for j, c := range raw {
			recs[j] = chunkRecord{chunk: c}
		}
		chunkedFiles = append(chunkedFiles, chunkedFile{relPath: f.RelPath, chunks: recs})
		onProgress(StageChunk, i+1, len(selected))
	}

	var allChunks []*chunkRecord
	for fi := range chunkedFiles {
		for ci := range chunkedFiles[fi].chunks {
			allChunks = append(allChunks, &chunkedFiles[fi].chunks[ci])
		}
	}

	// Step 9: cache partition.
	var uncached []*chunkRecord
	cachedCount := 0
	for _, c := range allChunks {
		if v, ok := idx.cache.Get(c.chunk.ID); ok {
			c.vector = v
			cachedCount++
		} else {
			uncached = append(uncached, c)
		}
	}

	// Step 10: embed misses in batches — the other embarrassingly
	// parallel phase.
	if len(uncached) > 0 {
		onProgress(StageEmbed, 0, len(uncached))
		if err := idx.embedMissing(ctx, uncached, onProgress); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingProvider, err)
		}
		now := time.Now().UnixMilli()
		for _, c := range uncached {
			idx.cache.SetAt(c.chunk.ID, c.vector, now)
		}
	}

	// Step 11: upsert cached ∪ newly-embedded into the vector store.
	if len(allChunks) > 0 {
		if err := idx.deps.Store.EnsureCollection(ctx, idx.deps.Provider.Dimension()); err != nil {
			return nil, fmt.Errorf("%w: ensure collection: %v", ErrVectorStore, err)
		}
		records := make([]vectorstore.Record, len(allChunks))
		for i, c := range allChunks {
			records[i] = vectorstore.Record{
				ID:     vectorstore.DeriveID(c.chunk.ID),
				Vector: c.vector,
				Payload: vectorstore.Payload{
					Path:        c.chunk.Path,
					StartLine:   c.chunk.StartLine,
					EndLine:     c.chunk.EndLine,
					ContentHash: c.chunk.ID,
					NodeType:    c.chunk.NodeKind,
					SymbolName:  c.chunk.Symbol,
				},
			}
		}
		onProgress(StageUpsert, 0, len(records))
		if err := idx.deps.Store.Upsert(ctx, records); err != nil {
			return nil, fmt.Errorf("%w: upsert: %v", ErrVectorStore, err)
		}
		onProgress(StageUpsert, len(records), len(records))
	}

	// Step 12: persist the new Merkle summary, then save the cache.
	if err := merkle.Save(idx.merkleStatePath(), newSummary); err != nil {
		return nil, fmt.Errorf("persist merkle summary: %w", err)
	}
	if err := idx.cache.Save(); err != nil {
		idx.logger.Warnw("cache persist failed; next run will re-embed any lost entries", "error", err)
	}

	return &Stats{
		TotalFiles:   len(files),
		TotalChunks:  len(allChunks),
		NewChunks:    len(uncached),
		CachedChunks: cachedCount,
		ElapsedMs:    time.Since(start).Milliseconds(),
	}, nil
}

// chunkRecord pairs an extracted chunk with its (eventually filled-in)
// embedding vector.
type chunkRecord struct {
	chunk  chunker.Chunk
	vector []float32
}

func (idx *Indexer) hashAll(ctx context.Context, files []scanner.FileInfo, onProgress ProgressFunc, onError ErrorFunc) ([]merkle.FileHash, error) {
	results := make([]merkle.FileHash, len(files))

	var mu sync.Mutex
	var done int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			hash, err := hashutil.SHA256File(f.Path)
			if err != nil {
				onError(f.RelPath, fmt.Errorf("hash file: %w", err))
				hash = ""
			}
			results[i] = merkle.FileHash{Path: f.RelPath, Hash: hash}
			mu.Lock()
			done++
			onProgress(StageHash, done, len(files))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, r := range results {
		if r.Hash != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (idx *Indexer) embedMissing(ctx context.Context, uncached []*chunkRecord, onProgress ProgressFunc) error {
	texts := make([]string, len(uncached))
	for i, c := range uncached {
		texts[i] = c.chunk.Text
	}
	batches := embedding.Batch(texts, idx.deps.Provider.MaxBatchCount(), idx.deps.Provider.MaxBatchTokens())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	var doneCount int
	offset := 0
	for _, batch := range batches {
		batch := batch
		start := offset
		offset += len(batch)
		g.Go(func() error {
			vectors, err := idx.deps.Provider.EmbedBatch(gctx, batch)
			if err != nil {
				return fmt.Errorf("embed batch: %w", err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embed batch: expected %d vectors, got %d", len(batch), len(vectors))
			}
			for j, v := range vectors {
				uncached[start+j].vector = v
			}
			mu.Lock()
			doneCount += len(batch)
			onProgress(StageEmbed, doneCount, len(uncached))
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// Reset deletes the vector-store collection (a "not found" is not an
// error), clears and saves the cache, and deletes the Merkle summary
// file if present, per spec §4.5.
func (idx *Indexer) Reset(ctx context.Context) error {
	if err := idx.deps.Store.DeleteCollection(ctx); err != nil {
		return fmt.Errorf("%w: delete collection: %v", ErrVectorStore, err)
	}
	idx.cache.Clear()
	if err := idx.cache.Save(); err != nil {
		idx.logger.Warnw("cache save failed during reset", "error", err)
	}
	return merkle.Delete(idx.merkleStatePath())
}

// CacheStats exposes the embedding cache's current size for the `cache
// stats` CLI surface.
func (idx *Indexer) CacheStats() cache.Stats {
	return idx.cache.Stats()
}

// PruneCache removes cache entries older than maxAge and persists the
// result.
func (idx *Indexer) PruneCache(maxAge time.Duration) (int, error) {
	removed := idx.cache.Prune(time.Now().UnixMilli(), maxAge.Milliseconds())
	if err := idx.cache.Save(); err != nil {
		return removed, fmt.Errorf("save cache: %w", err)
	}
	return removed, nil
}
