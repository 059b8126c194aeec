package benchmark

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_WorkedExample(t *testing.T) {
	// q1 finds its one positive (c1) first; q2 finds c3 first (rank 1,
	// relevance 1) then c2 (rank 2, relevance 1).
	rankings := []Ranking{
		{
			QueryID:    "q1",
			RankedIDs:  []string{"c1", "c4", "c5"},
			Relevances: map[string]float64{"c1": 1},
		},
		{
			QueryID:    "q2",
			RankedIDs:  []string{"c3", "c2", "c4"},
			Relevances: map[string]float64{"c2": 1, "c3": 1},
		},
	}

	m := Evaluate(rankings)

	// q1: MRR@1 = 1 (hit at rank 1). q2: MRR@1 = 1 (c3 at rank 1).
	require.InDelta(t, 1.0, m.MRR[1], 1e-9)
	require.InDelta(t, 1.0, m.MRR[5], 1e-9)

	// Recall@1: q1 finds its only positive -> 1. q2 finds 1 of 2 -> 0.5.
	assert.InDelta(t, (1.0+0.5)/2, m.Recall[1], 1e-9)
	// Recall@5: both queries find all their positives.
	assert.InDelta(t, 1.0, m.Recall[5], 1e-9)

	// NDCG@1 for q1 is perfect (1.0). For q2, DCG@1 uses only c3 (rel 1,
	// rank 1) = 1/log2(2) = 1; IDCG@1 also uses the single best
	// relevance (1) at rank 1 = 1, so NDCG@1 = 1 for both queries.
	assert.InDelta(t, 1.0, m.NDCG[1], 1e-9)
}

func TestEvaluate_NoHitYieldsZeroMRRAndNDCG(t *testing.T) {
	rankings := []Ranking{
		{QueryID: "q1", RankedIDs: []string{"c9", "c8"}, Relevances: map[string]float64{"c1": 1}},
	}
	m := Evaluate(rankings)
	assert.Equal(t, 0.0, m.MRR[5])
	assert.Equal(t, 0.0, m.NDCG[5])
	assert.Equal(t, 0.0, m.Recall[5])
}

func TestEvaluate_SkipsQueriesWithoutQrels(t *testing.T) {
	rankings := []Ranking{
		{QueryID: "q1", RankedIDs: []string{"c1"}, Relevances: nil},
	}
	m := Evaluate(rankings)
	assert.Empty(t, m.MRR)
}

func TestNdcgAt_MatchesHandComputedValue(t *testing.T) {
	r := Ranking{
		RankedIDs:  []string{"a", "b", "c"},
		Relevances: map[string]float64{"a": 0, "b": 1, "c": 2},
	}
	got := ndcgAt(r, 3)
	dcg := (math.Pow(2, 1) - 1) / math.Log2(3) // b at rank 2
	dcg += (math.Pow(2, 2) - 1) / math.Log2(4) // c at rank 3
	idcg := (math.Pow(2, 2) - 1) / math.Log2(2)
	idcg += (math.Pow(2, 1) - 1) / math.Log2(3)
	assert.InDelta(t, dcg/idcg, got, 1e-9)
}
