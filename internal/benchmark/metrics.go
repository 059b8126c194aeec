package benchmark

import (
	"math"
	"sort"
)

// Ks are the cutoffs reported per spec §4.7.
var Ks = []int{1, 5, 10, 100}

// Metrics holds MRR/NDCG/Recall at every k in Ks.
type Metrics struct {
	MRR    map[int]float64
	NDCG   map[int]float64
	Recall map[int]float64
}

// Ranking is one query's ranked corpus ids, best first, alongside its
// qrel relevances.
type Ranking struct {
	QueryID  string
	RankedIDs []string
	Relevances map[string]float64 // corpus id -> relevance, this query's qrels
}

// Evaluate computes MRR@k, NDCG@k, and Recall@k for every k in Ks,
// averaged over rankings that have at least one qrel entry (Recall is
// additionally skipped, per-query, when the query has zero positives).
func Evaluate(rankings []Ranking) Metrics {
	m := Metrics{MRR: map[int]float64{}, NDCG: map[int]float64{}, Recall: map[int]float64{}}

	var withQrels []Ranking
	for _, r := range rankings {
		if len(r.Relevances) > 0 {
			withQrels = append(withQrels, r)
		}
	}
	if len(withQrels) == 0 {
		return m
	}

	for _, k := range Ks {
		var mrrSum, ndcgSum, recallSum float64
		recallCount := 0

		for _, r := range withQrels {
			mrrSum += mrrAt(r, k)
			ndcgSum += ndcgAt(r, k)

			positives := countPositive(r.Relevances)
			if positives > 0 {
				recallSum += recallAt(r, k, positives)
				recallCount++
			}
		}

		m.MRR[k] = mrrSum / float64(len(withQrels))
		m.NDCG[k] = ndcgSum / float64(len(withQrels))
		if recallCount > 0 {
			m.Recall[k] = recallSum / float64(recallCount)
		}
	}

	return m
}

func countPositive(rel map[string]float64) int {
	n := 0
	for _, v := range rel {
		if v > 0 {
			n++
		}
	}
	return n
}

func mrrAt(r Ranking, k int) float64 {
	for i, id := range topK(r.RankedIDs, k) {
		if r.Relevances[id] > 0 {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

func ndcgAt(r Ranking, k int) float64 {
	ranked := topK(r.RankedIDs, k)
	dcg := 0.0
	for i, id := range ranked {
		rel := r.Relevances[id]
		if rel <= 0 {
			continue
		}
		dcg += (math.Pow(2, rel) - 1) / math.Log2(float64(i+2))
	}

	ideal := make([]float64, 0, len(r.Relevances))
	for _, rel := range r.Relevances {
		ideal = append(ideal, rel)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))
	if len(ideal) > k {
		ideal = ideal[:k]
	}
	idcg := 0.0
	for i, rel := range ideal {
		idcg += (math.Pow(2, rel) - 1) / math.Log2(float64(i+2))
	}

	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func recallAt(r Ranking, k, positives int) float64 {
	hit := 0
	for _, id := range topK(r.RankedIDs, k) {
		if r.Relevances[id] > 0 {
			hit++
		}
	}
	return float64(hit) / float64(positives)
}

func topK(ids []string, k int) []string {
	if k > len(ids) {
		k = len(ids)
	}
	return ids[:k]
}
