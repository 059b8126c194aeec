package indexer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codelens/internal/chunker"
	"codelens/internal/chunker/languages"
	"codelens/internal/indexer"
	"codelens/internal/vectorstore"

	"github.com/stretchr/testify/require"
)

const dimension = 4

type fakeProvider struct{ calls int }

func (p *fakeProvider) Dimension() int { return dimension }

func (p *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (p *fakeProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	p.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, dimension)
		for j, c := range []byte(t) {
			v[j%dimension] += float32(c)
		}
		out[i] = v
	}
	return out, nil
}

func (p *fakeProvider) MaxBatchTokens() int { return 0 }
func (p *fakeProvider) MaxBatchCount() int  { return 8 }

type fakeStore struct {
	records map[string]vectorstore.Record
	deleted []string
}

func newFakeStore() *fakeStore { return &fakeStore{records: map[string]vectorstore.Record{}} }

func (s *fakeStore) EnsureCollection(ctx context.Context, dimension int) error { return nil }

func (s *fakeStore) Upsert(ctx context.Context, records []vectorstore.Record) error {
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

func (s *fakeStore) DeleteByPaths(ctx context.Context, paths []string) error {
	s.deleted = append(s.deleted, paths...)
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}
	for id, r := range s.records {
		if want[r.Payload.Path] {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *fakeStore) Search(ctx context.Context, query []float32, k int) ([]vectorstore.Hit, error) {
	return nil, nil
}

func (s *fakeStore) DeleteCollection(ctx context.Context) error {
	s.records = map[string]vectorstore.Record{}
	return nil
}

func (s *fakeStore) Close() error { return nil }

func newTestDeps() (*chunker.Registry, *fakeProvider, *fakeStore) {
	reg := chunker.NewRegistry()
	languages.RegisterGo(reg)
	return reg, &fakeProvider{}, newFakeStore()
}

func TestRun_InitialBuildIndexesAllFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"), 0o644))

	reg, provider, store := newTestDeps()
	idx := indexer.New(indexer.Config{RootDir: root}, indexer.Deps{Registry: reg, Provider: provider, Store: store}, nil)

	stats, err := idx.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.False(t, stats.NoChanges)
	require.Equal(t, 1, stats.TotalFiles)
	require.Greater(t, stats.TotalChunks, 0)
	require.Equal(t, stats.TotalChunks, stats.NewChunks)
	require.Len(t, store.records, stats.TotalChunks)
}

func TestRun_SecondRunWithNoChangesShortCircuits(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))

	reg, provider, store := newTestDeps()
	idx := indexer.New(indexer.Config{RootDir: root}, indexer.Deps{Registry: reg, Provider: provider, Store: store}, nil)

	_, err := idx.Run(context.Background(), nil, nil)
	require.NoError(t, err)

	stats, err := idx.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.True(t, stats.NoChanges)
}

func TestRun_ModifiedFileInvalidatesAndReembeds(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o644))

	reg, provider, store := newTestDeps()
	idx := indexer.New(indexer.Config{RootDir: root}, indexer.Deps{Registry: reg, Provider: provider, Store: store}, nil)

	_, err := idx.Run(context.Background(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {\n\tprintln(\"changed\")\n}\n"), 0o644))

	stats, err := idx.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.False(t, stats.NoChanges)
	require.Greater(t, stats.NewChunks, 0)
	require.Contains(t, store.deleted, "main.go")
}

func TestRun_SecondRunReusesCache(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc A() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.go"), []byte("package a\n\nfunc B() {}\n"), 0o644))

	reg, provider, store := newTestDeps()
	idx := indexer.New(indexer.Config{RootDir: root}, indexer.Deps{Registry: reg, Provider: provider, Store: store}, nil)

	_, err := idx.Run(context.Background(), nil, nil)
	require.NoError(t, err)

	// touch b.go only — a.go's chunks stay cache hits if re-processed.
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.go"), []byte("package a\n\nfunc B() {\n\treturn\n}\n"), 0o644))

	stats, err := idx.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, stats.NewChunks)
}

func TestReset_ClearsStoreCacheAndSummary(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))

	reg, provider, store := newTestDeps()
	idx := indexer.New(indexer.Config{RootDir: root}, indexer.Deps{Registry: reg, Provider: provider, Store: store}, nil)

	_, err := idx.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, store.records)

	require.NoError(t, idx.Reset(context.Background()))
	require.Empty(t, store.records)
	require.Equal(t, 0, idx.CacheStats().Entries)
}
