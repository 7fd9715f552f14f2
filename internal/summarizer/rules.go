package summarizer

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"playground/internal/domain"
)

// DefaultMaxRecommendations is how many documents a summary keeps.
const DefaultMaxRecommendations = 4

type reasonRule struct {
	keyword string
	tag     string
	reason  string
}

var reasonRules = []reasonRule{
	{keyword: "witty", tag: "witty", reason: "Features witty dialogue and humor"},
	{keyword: "friend", tag: "friends-to-lovers", reason: "Friends-to-lovers storyline"},
	{keyword: "space", tag: "space", reason: "Space exploration setting"},
	{keyword: "heist", tag: "heist", reason: "Clever heist plot"},
	{keyword: "hopeful", tag: "hopeful", reason: "Hopeful and uplifting tone"},
	{keyword: "family", tag: "found-family", reason: "Found family theme"},
	{keyword: "twist", tag: "clever-twists", reason: "Clever plot twists"},
}

// RuleSummarizer groups retrieved chunks per document and explains each match
// with keyword/tag rules. It never calls a model.
type RuleSummarizer struct {
	maxRecommendations int
}

// NewRuleSummarizer creates a summarizer keeping at most maxRecommendations documents.
func NewRuleSummarizer(maxRecommendations int) *RuleSummarizer {
	if maxRecommendations <= 0 {
		maxRecommendations = DefaultMaxRecommendations
	}
	return &RuleSummarizer{maxRecommendations: maxRecommendations}
}

type docScore struct {
	doc     domain.Document
	maxSim  float64
	avgSim  float64
	count   int
	indices []int
}

// Summarize ranks documents by max+average similarity of their retrieved chunks.
func (s *RuleSummarizer) Summarize(positive string, chunks []domain.RetrievedChunk) []domain.Recommendation {
	var order []*docScore
	byID := make(map[string]*docScore)
	for _, ch := range chunks {
		ds, ok := byID[ch.Chunk.DocumentID]
		if !ok {
			ds = &docScore{doc: ch.Document, maxSim: ch.Score, avgSim: ch.Score, count: 1, indices: []int{ch.Chunk.Index}}
			byID[ch.Chunk.DocumentID] = ds
			order = append(order, ds)
			continue
		}
		ds.maxSim = max(ds.maxSim, ch.Score)
		ds.avgSim = (ds.avgSim*float64(ds.count) + ch.Score) / float64(ds.count+1)
		ds.count++
		ds.indices = append(ds.indices, ch.Chunk.Index)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].maxSim+order[i].avgSim > order[j].maxSim+order[j].avgSim
	})
	if len(order) > s.maxRecommendations {
		order = order[:s.maxRecommendations]
	}

	out := make([]domain.Recommendation, 0, len(order))
	for _, ds := range order {
		out = append(out, domain.Recommendation{
			Document:      ds.doc,
			Reasons:       Reasons(positive, ds.doc.Tags),
			Sources:       fmt.Sprintf("%s, chunks: %s", ds.doc.ID, joinInts(ds.indices)),
			ChunkIndices:  ds.indices,
			MaxSimilarity: ds.maxSim,
			AvgSimilarity: ds.avgSim,
		})
	}
	return out
}

// Reasons explains why a document with the given tags matches the positive text.
func Reasons(positive string, tags []string) []string {
	lower := strings.ToLower(positive)
	var reasons []string
	for _, r := range reasonRules {
		if strings.Contains(lower, r.keyword) && slices.Contains(tags, r.tag) {
			reasons = append(reasons, r.reason)
		}
	}
	if len(reasons) > 0 {
		return reasons
	}

	queryWords := strings.Fields(lower)
	var matched []string
	for _, tag := range tags {
		for _, w := range queryWords {
			if strings.Contains(tag, w) || strings.Contains(w, tag) {
				matched = append(matched, tag)
				break
			}
		}
	}
	if len(matched) == 0 {
		return []string{"High relevance to your preferences"}
	}
	if len(matched) > 2 {
		matched = matched[:2]
	}
	return []string{"Matches themes: " + strings.Join(matched, ", ")}
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
