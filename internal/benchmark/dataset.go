// Package benchmark implements spec §4.7: load a labeled retrieval
// dataset, embed its corpus and queries through the same provider the
// index uses, compute exact brute-force cosine top-k, and report
// MRR/NDCG/Recall at k ∈ {1, 5, 10, 100}. Dataset download plumbing is
// out of scope (spec §1); this package only consumes an already-present
// on-disk dataset.
package benchmark

// CorpusItem is one retrievable document.
type CorpusItem struct {
	ID    string
	Text  string
	Title string
}

// Query is one search query.
type Query struct {
	ID   string
	Text string
}

// Qrels maps query id -> corpus id -> relevance (>= 0).
type Qrels map[string]map[string]float64

// Dataset is a loaded benchmark corpus/queries/qrels triple.
type Dataset struct {
	Name    string
	Corpus  []CorpusItem
	Queries []Query
	Qrels   Qrels
}

// CapCorpus shrinks corpus to n items, preserving every item referenced
// by a positive-relevance qrel (ground-truth preservation), then filling
// remaining slots with non-relevant entries in dataset order. When more
// than n items are relevant, all of them are kept and the result is
// longer than n. If n <= 0 or the corpus already fits, it is returned
// unchanged.
func CapCorpus(corpus []CorpusItem, qrels Qrels, n int) []CorpusItem {
	if n <= 0 || len(corpus) <= n {
		return corpus
	}

	relevant := make(map[string]bool)
	for _, byCorpus := range qrels {
		for id, rel := range byCorpus {
			if rel > 0 {
				relevant[id] = true
			}
		}
	}

	var kept, rest []CorpusItem
	for _, c := range corpus {
		if relevant[c.ID] {
			kept = append(kept, c)
		} else {
			rest = append(rest, c)
		}
	}

	out := kept
	for _, c := range rest {
		if len(out) >= n {
			break
		}
		out = append(out, c)
	}
	return out
}

// FilterQueries keeps only queries with at least one positive-relevance
// corpus id still present in corpus, then truncates to maxQueries (0 =
// unbounded). Filtering happens before truncation, per spec §4.7.
func FilterQueries(queries []Query, qrels Qrels, corpus []CorpusItem, maxQueries int) []Query {
	present := make(map[string]bool, len(corpus))
	for _, c := range corpus {
		present[c.ID] = true
	}

	var kept []Query
	for _, q := range queries {
		hasPositive := false
		for id, rel := range qrels[q.ID] {
			if rel > 0 && present[id] {
				hasPositive = true
				break
			}
		}
		if hasPositive {
			kept = append(kept, q)
		}
	}

	if maxQueries > 0 && len(kept) > maxQueries {
		kept = kept[:maxQueries]
	}
	return kept
}
