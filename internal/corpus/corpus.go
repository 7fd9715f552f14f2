// Package corpus loads the read-only movie collection used by the retrieval playground.
package corpus

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"playground/internal/domain"
)

//go:embed data/movies.yaml
var sampleMovies []byte

// Sample returns the built-in movie collection.
func Sample() ([]domain.Document, error) {
	return Parse(sampleMovies)
}

// Load reads a corpus file. YAML and JSON arrays are both accepted.
// An empty path yields the built-in sample.
func Load(path string) ([]domain.Document, error) {
	if path == "" {
		return Sample()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	docs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	return docs, nil
}

// Parse decodes and validates a list of documents.
func Parse(data []byte) ([]domain.Document, error) {
	var docs []domain.Document
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New("corpus is empty")
	}
	seen := make(map[string]struct{}, len(docs))
	for i, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("document %d has no id", i)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("duplicate document id %q", d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return docs, nil
}

// Filter keeps documents whose title, genres or tags contain term (case-insensitive).
func Filter(docs []domain.Document, term string) []domain.Document {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return docs
	}
	var out []domain.Document
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Title), term) ||
			containsFold(d.Genres, term) ||
			containsFold(d.Tags, term) {
			out = append(out, d)
		}
	}
	return out
}

func containsFold(values []string, term string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// GenreCount is one bucket of GenreDistribution.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// GenreDistribution counts documents per genre, most frequent first.
// Ties keep first-seen order. n <= 0 returns every genre.
func GenreDistribution(docs []domain.Document, n int) []GenreCount {
	var out []GenreCount
	pos := map[string]int{}
	for _, d := range docs {
		for _, g := range d.Genres {
			if i, ok := pos[g]; ok {
				out[i].Count++
				continue
			}
			pos[g] = len(out)
			out = append(out, GenreCount{Genre: g, Count: 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Index maps document ids to documents.
func Index(docs []domain.Document) map[string]domain.Document {
	m := make(map[string]domain.Document, len(docs))
	for _, d := range docs {
		m[d.ID] = d
	}
	return m
}
