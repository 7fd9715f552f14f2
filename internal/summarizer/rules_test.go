package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playground/internal/domain"
)

func retrieved(doc domain.Document, index int, score float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		SearchResult: domain.SearchResult{
			Chunk: domain.Chunk{DocumentID: doc.ID, Index: index},
			Score: score,
		},
		Document: doc,
	}
}

func TestSummarize_RankingAndAggregation(t *testing.T) {
	a := domain.Document{ID: "a", Tags: []string{"heist"}}
	b := domain.Document{ID: "b", Tags: []string{"space"}}
	c := domain.Document{ID: "c"}

	chunks := []domain.RetrievedChunk{
		retrieved(a, 0, 0.9),
		retrieved(b, 2, 0.8),
		retrieved(b, 0, 0.7),
		retrieved(a, 1, 0.1),
		retrieved(c, 0, 0.6),
	}
	recs := NewRuleSummarizer(0).Summarize("space heist", chunks)
	require.Len(t, recs, 3)

	// b: 0.8 + 0.75 = 1.55, a: 0.9 + 0.5 = 1.4, c: 1.2
	assert.Equal(t, "b", recs[0].Document.ID)
	assert.Equal(t, "a", recs[1].Document.ID)
	assert.Equal(t, "c", recs[2].Document.ID)

	assert.InDelta(t, 0.8, recs[0].MaxSimilarity, 1e-12)
	assert.InDelta(t, 0.75, recs[0].AvgSimilarity, 1e-12)
	assert.Equal(t, []int{2, 0}, recs[0].ChunkIndices)
	assert.Equal(t, "b, chunks: 2, 0", recs[0].Sources)
	assert.Equal(t, []string{"Space exploration setting"}, recs[0].Reasons)
	assert.Equal(t, []string{"Clever heist plot"}, recs[1].Reasons)
}

func TestSummarize_KeepsTopFour(t *testing.T) {
	var chunks []domain.RetrievedChunk
	for i, id := range []string{"a", "b", "c", "d", "e", "f"} {
		chunks = append(chunks, retrieved(domain.Document{ID: id}, 0, 1-float64(i)*0.1))
	}
	recs := NewRuleSummarizer(DefaultMaxRecommendations).Summarize("anything", chunks)
	require.Len(t, recs, 4)
	assert.Equal(t, "d", recs[3].Document.ID)
}

func TestReasons(t *testing.T) {
	tests := []struct {
		name     string
		positive string
		tags     []string
		want     []string
	}{
		{
			name:     "several rules fire in order",
			positive: "Witty romcom with friends and a twist",
			tags:     []string{"clever-twists", "friends-to-lovers", "witty"},
			want:     []string{"Features witty dialogue and humor", "Friends-to-lovers storyline", "Clever plot twists"},
		},
		{
			name:     "keyword without tag does not fire",
			positive: "a hopeful story",
			tags:     []string{"bleak"},
			want:     []string{"High relevance to your preferences"},
		},
		{
			name:     "tag overlap fallback keeps two",
			positive: "dark noir revenge thriller",
			tags:     []string{"noir", "revenge", "dark-humor", "thriller"},
			want:     []string{"Matches themes: noir, revenge"},
		},
		{
			name:     "found family",
			positive: "Family adventure",
			tags:     []string{"found-family"},
			want:     []string{"Found family theme"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reasons(tt.positive, tt.tags))
		})
	}
}
