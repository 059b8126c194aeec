package benchmark

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadDataset reads a dataset laid out in the common BEIR-style shape:
// <dir>/corpus.jsonl (lines of {"_id","title","text"}), <dir>/queries.jsonl
// (lines of {"_id","text"}), and <dir>/qrels/test.tsv (tab-separated
// "query-id\tcorpus-id\tscore", with an optional header row). Fetching
// or converting an arbitrary dataset into this shape is out of scope
// (spec §1); this only reads one already present on disk.
func LoadDataset(dir, name string) (Dataset, error) {
	corpus, err := loadCorpus(filepath.Join(dir, "corpus.jsonl"))
	if err != nil {
		return Dataset{}, fmt.Errorf("load corpus: %w", err)
	}
	queries, err := loadQueries(filepath.Join(dir, "queries.jsonl"))
	if err != nil {
		return Dataset{}, fmt.Errorf("load queries: %w", err)
	}
	qrels, err := loadQrels(filepath.Join(dir, "qrels", "test.tsv"))
	if err != nil {
		return Dataset{}, fmt.Errorf("load qrels: %w", err)
	}
	return Dataset{Name: name, Corpus: corpus, Queries: queries, Qrels: qrels}, nil
}

type jsonlDoc struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func loadCorpus(path string) ([]CorpusItem, error) {
	var out []CorpusItem
	err := scanLines(path, func(line string) error {
		var d jsonlDoc
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			return err
		}
		out = append(out, CorpusItem{ID: d.ID, Text: d.Text, Title: d.Title})
		return nil
	})
	return out, err
}

func loadQueries(path string) ([]Query, error) {
	var out []Query
	err := scanLines(path, func(line string) error {
		var d jsonlDoc
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			return err
		}
		out = append(out, Query{ID: d.ID, Text: d.Text})
		return nil
	})
	return out, err
}

func loadQrels(path string) (Qrels, error) {
	qrels := Qrels{}
	first := true
	err := scanLines(path, func(line string) error {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return fmt.Errorf("malformed qrels line: %q", line)
		}
		if first {
			first = false
			if _, err := strconv.ParseFloat(fields[2], 64); err != nil {
				return nil // header row, skip
			}
		}
		rel, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil
		}
		if qrels[fields[0]] == nil {
			qrels[fields[0]] = map[string]float64{}
		}
		qrels[fields[0]][fields[1]] = rel
		return nil
	})
	return qrels, err
}

func scanLines(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return s.Err()
}
