package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapCorpus_PreservesGroundTruth(t *testing.T) {
	corpus := []CorpusItem{
		{ID: "c1", Text: "a"}, {ID: "c2", Text: "b"}, {ID: "c3", Text: "c"},
		{ID: "c4", Text: "d"}, {ID: "c5", Text: "e"},
	}
	qrels := Qrels{"q1": {"c5": 1}}

	capped := CapCorpus(corpus, qrels, 2)
	require.Len(t, capped, 2)

	ids := make(map[string]bool)
	for _, c := range capped {
		ids[c.ID] = true
	}
	assert.True(t, ids["c5"], "ground-truth corpus id must survive the cap")
}

func TestCapCorpus_NoOpWhenUnderLimit(t *testing.T) {
	corpus := []CorpusItem{{ID: "c1"}, {ID: "c2"}}
	assert.Equal(t, corpus, CapCorpus(corpus, Qrels{}, 10))
}

func TestFilterQueries_DropsQueriesWithNoSurvivingPositive(t *testing.T) {
	corpus := []CorpusItem{{ID: "c1"}, {ID: "c2"}}
	qrels := Qrels{
		"q1": {"c1": 1},
		"q2": {"c9": 1}, // c9 was capped out
		"q3": {"c2": 0},
	}
	queries := []Query{{ID: "q1"}, {ID: "q2"}, {ID: "q3"}}

	kept := FilterQueries(queries, qrels, corpus, 0)
	require.Len(t, kept, 1)
	assert.Equal(t, "q1", kept[0].ID)
}

func TestFilterQueries_AppliesMaxAfterFiltering(t *testing.T) {
	corpus := []CorpusItem{{ID: "c1"}}
	qrels := Qrels{"q1": {"c1": 1}, "q2": {"c1": 1}, "q3": {"c1": 1}}
	queries := []Query{{ID: "q1"}, {ID: "q2"}, {ID: "q3"}}

	kept := FilterQueries(queries, qrels, corpus, 2)
	assert.Len(t, kept, 2)
}
