package benchmark

import (
	"context"
	"fmt"
	"sort"

	"codelens/internal/embedding"
)

// RunOptions configures one benchmark pass.
type RunOptions struct {
	CorpusCap  int // 0 = unbounded
	MaxQueries int // 0 = unbounded
	TopN       int // brute-force candidate pool per query; spec default 100
}

// Runner embeds a dataset's corpus and queries through a fixed provider
// and evaluates exact brute-force retrieval against its qrels.
type Runner struct {
	provider     embedding.Provider
	providerName string
	cacheDir     string
}

// NewRunner builds a Runner. providerName is only used to key the
// on-disk embedding-matrix cache; it does not affect retrieval.
func NewRunner(provider embedding.Provider, providerName, cacheDir string) *Runner {
	return &Runner{provider: provider, providerName: providerName, cacheDir: cacheDir}
}

// Run embeds ds's (capped) corpus and (filtered) queries, computes
// brute-force cosine top-N per query, and evaluates against ds.Qrels.
func (r *Runner) Run(ctx context.Context, ds Dataset, opts RunOptions) (Metrics, error) {
	if opts.TopN <= 0 {
		opts.TopN = 100
	}

	corpus := CapCorpus(ds.Corpus, ds.Qrels, opts.CorpusCap)
	queries := FilterQueries(ds.Queries, ds.Qrels, corpus, opts.MaxQueries)

	corpusTexts := make([]string, len(corpus))
	for i, c := range corpus {
		corpusTexts[i] = corpusText(c)
	}
	corpusVecs, err := r.embedCached(ctx, ds.Name, "corpus", corpusTexts)
	if err != nil {
		return Metrics{}, fmt.Errorf("embed corpus: %w", err)
	}

	queryTexts := make([]string, len(queries))
	for i, q := range queries {
		queryTexts[i] = q.Text
	}
	queryVecs, err := r.embedCached(ctx, ds.Name, "queries", queryTexts)
	if err != nil {
		return Metrics{}, fmt.Errorf("embed queries: %w", err)
	}

	rankings := make([]Ranking, len(queries))
	for i, q := range queries {
		rankings[i] = Ranking{
			QueryID:    q.ID,
			RankedIDs:  bruteForceTopN(queryVecs[i], corpus, corpusVecs, opts.TopN),
			Relevances: ds.Qrels[q.ID],
		}
	}

	return Evaluate(rankings), nil
}

func corpusText(c CorpusItem) string {
	if c.Title == "" {
		return c.Text
	}
	return c.Title + "\n\n" + c.Text
}

// embedCached loads a cached embedding matrix for (dataset, split,
// provider, len(texts)) if present, otherwise embeds texts through the
// provider in batches and persists the result.
func (r *Runner) embedCached(ctx context.Context, dataset, split string, texts []string) ([][]float32, error) {
	path := matrixCachePath(r.cacheDir, dataset, split, r.providerName, len(texts))
	if r.cacheDir != "" {
		if cached, ok := loadMatrix(path, r.provider.Dimension(), len(texts)); ok {
			return cached, nil
		}
	}

	vectors := make([][]float32, 0, len(texts))
	for _, batch := range embedding.Batch(texts, r.provider.MaxBatchCount(), r.provider.MaxBatchTokens()) {
		embedded, err := r.provider.EmbedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, embedded...)
	}

	if r.cacheDir != "" {
		if err := saveMatrix(path, vectors); err != nil {
			return nil, fmt.Errorf("save embedding matrix: %w", err)
		}
	}
	return vectors, nil
}

// bruteForceTopN returns the n corpus ids with the highest dot product
// against query, descending. Embeddings are unit-norm, so dot product
// equals cosine similarity.
func bruteForceTopN(query []float32, corpus []CorpusItem, corpusVecs [][]float32, n int) []string {
	type scored struct {
		id    string
		score float32
	}
	scores := make([]scored, len(corpus))
	for i, c := range corpus {
		scores[i] = scored{id: c.ID, score: dot(query, corpusVecs[i])}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if n > len(scores) {
		n = len(scores)
	}
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = scores[i].id
	}
	return ids
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
