package benchmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider embeds text deterministically as a one-hot vector keyed
// by the text's first byte, so exact matches score highest.
type fakeProvider struct{ dim int }

func (p *fakeProvider) Dimension() int { return p.dim }

func (p *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vs, err := p.EmbedBatch(ctx, []string{text})
	return vs[0], err
}

func (p *fakeProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, p.dim)
		if len(t) > 0 {
			v[int(t[0])%p.dim] = 1
		}
		out[i] = v
	}
	return out, nil
}

func (p *fakeProvider) MaxBatchTokens() int { return 0 }
func (p *fakeProvider) MaxBatchCount() int  { return 0 }

func TestRunner_Run_RanksExactMatchFirst(t *testing.T) {
	ds := Dataset{
		Name: "toy",
		Corpus: []CorpusItem{
			{ID: "c1", Text: "a"},
			{ID: "c2", Text: "b"},
			{ID: "c3", Text: "c"},
		},
		Queries: []Query{
			{ID: "q1", Text: "a"},
		},
		Qrels: Qrels{"q1": {"c1": 1}},
	}

	r := NewRunner(&fakeProvider{dim: 8}, "fake", "")
	m, err := r.Run(context.Background(), ds, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.MRR[1])
	assert.Equal(t, 1.0, m.Recall[1])
}
