package retriever_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codelens/internal/retriever"
	"codelens/internal/vectorstore"

	"github.com/stretchr/testify/require"
)

type fakeProvider struct{ vec []float32 }

func (p *fakeProvider) Dimension() int { return len(p.vec) }
func (p *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.vec, nil
}
func (p *fakeProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = p.vec
	}
	return out, nil
}
func (p *fakeProvider) MaxBatchTokens() int { return 0 }
func (p *fakeProvider) MaxBatchCount() int  { return 0 }

type fakeStore struct{ hits []vectorstore.Hit }

func (s *fakeStore) EnsureCollection(ctx context.Context, dimension int) error   { return nil }
func (s *fakeStore) Upsert(ctx context.Context, records []vectorstore.Record) error { return nil }
func (s *fakeStore) DeleteByPaths(ctx context.Context, paths []string) error     { return nil }
func (s *fakeStore) Search(ctx context.Context, query []float32, k int) ([]vectorstore.Hit, error) {
	return s.hits, nil
}
func (s *fakeStore) DeleteCollection(ctx context.Context) error { return nil }
func (s *fakeStore) Close() error                               { return nil }

func TestSearch_ReadsLiveTextForHit(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("line1\nline2\nline3\nline4\n"), 0o644))

	store := &fakeStore{hits: []vectorstore.Hit{
		{ID: "x", Score: 0.9, Payload: vectorstore.Payload{Path: "a.go", StartLine: 2, EndLine: 3}},
	}}
	r := retriever.New(root, &fakeProvider{vec: []float32{1, 0}}, store)

	results, err := r.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "line2\nline3", results[0].Text)
}

func TestSearch_MissingFileYieldsPlaceholder(t *testing.T) {
	root := t.TempDir()
	store := &fakeStore{hits: []vectorstore.Hit{
		{ID: "x", Score: 0.5, Payload: vectorstore.Payload{Path: "gone.go", StartLine: 1, EndLine: 1}},
	}}
	r := retriever.New(root, &fakeProvider{vec: []float32{1, 0}}, store)

	results, err := r.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Equal(t, "[file not found: gone.go]", results[0].Text)
}

func TestSearch_ClampsEndLineToFileLength(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("only\n"), 0o644))

	store := &fakeStore{hits: []vectorstore.Hit{
		{ID: "x", Score: 0.5, Payload: vectorstore.Payload{Path: "a.go", StartLine: 1, EndLine: 50}},
	}}
	r := retriever.New(root, &fakeProvider{vec: []float32{1, 0}}, store)

	results, err := r.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Equal(t, "only", results[0].Text)
}
