package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"playground/internal/chunker"
	"playground/internal/corpus"
	"playground/internal/domain"
	"playground/internal/embedding"
	"playground/internal/summarizer"
	"playground/internal/vectorstore/memory"
)

var fixture = []domain.Document{
	{ID: "a", Title: "Vault", Year: 2001, Genres: []string{"Crime", "Comedy"}, Synopsis: "a daring heist in a casino vault", Tags: []string{"heist"}},
	{ID: "b", Title: "Farm", Year: 1999, Genres: []string{"Drama"}, Synopsis: "a quiet drama about a family farm", Tags: []string{"found-family"}},
	{ID: "c", Title: "Station", Year: 2020, Genres: []string{"Science Fiction"}, Synopsis: "a heist crew hides on a space station", Tags: []string{"space", "heist"}},
}

func newService(t *testing.T, docs []domain.Document) *RetrievalService {
	t.Helper()
	return NewRetrievalService(
		docs,
		chunker.NewWordChunker(chunker.DefaultMinWords, chunker.DefaultMaxWords),
		embedding.NewHashEmbedder(),
		memory.NewStorage(),
		summarizer.NewRuleSummarizer(0),
		zap.NewNop(),
		Options{},
	)
}

func ids(chunks []domain.RetrievedChunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Document.ID
	}
	return out
}

func TestRetrieve_Ranking(t *testing.T) {
	svc := newService(t, fixture)
	n, err := svc.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := svc.Retrieve(context.Background(), "heist", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(got))
	assert.InDelta(t, 1.0/3.0, got[0].Score, 1e-9)
	assert.Zero(t, got[2].Score)
}

func TestRetrieve_NegativePushesAway(t *testing.T) {
	svc := newService(t, fixture)
	plain, err := svc.Retrieve(context.Background(), "heist", "", 2)
	require.NoError(t, err)
	pushed, err := svc.Retrieve(context.Background(), "heist", "space", 2)
	require.NoError(t, err)

	require.Len(t, pushed, 2)
	assert.Equal(t, "c", plain[1].Document.ID)
	assert.Equal(t, "c", pushed[1].Document.ID)
	assert.Less(t, pushed[1].Score, plain[1].Score)
}

func TestRetrieve_EmptyQueryKeepsCorpusOrder(t *testing.T) {
	svc := newService(t, fixture)
	got, err := svc.Retrieve(context.Background(), "", "", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	for _, c := range got {
		assert.Zero(t, c.Score)
	}
}

func TestRetrieve_SampleCorpus(t *testing.T) {
	docs, err := corpus.Sample()
	require.NoError(t, err)
	svc := newService(t, docs)

	got, err := svc.Retrieve(context.Background(), "a witty heist with clever twists", "horror", 6)
	require.NoError(t, err)
	require.Len(t, got, 6)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}

	recs := svc.Summarize("a witty heist with clever twists", got)
	assert.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), summarizer.DefaultMaxRecommendations)
}

func TestAssembleContext(t *testing.T) {
	chunks := []domain.RetrievedChunk{
		{SearchResult: domain.SearchResult{Chunk: domain.Chunk{Index: 0, Text: "first"}}, Document: fixture[0]},
		{SearchResult: domain.SearchResult{Chunk: domain.Chunk{Index: 1, Text: "second"}}, Document: fixture[2]},
	}
	want := "[Movie: Vault (2001) | Genres: Crime, Comedy | Chunk #1]\nfirst\n" +
		"\n" +
		"[Movie: Station (2020) | Genres: Science Fiction | Chunk #2]\nsecond\n"
	assert.Equal(t, want, AssembleContext(chunks))
	assert.Empty(t, AssembleContext(nil))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("space", "", "ctx")
	assert.Equal(t, SystemPrompt, p.System)
	assert.Equal(t, "Positive: space", p.User)
	assert.Equal(t, "ctx", p.Context)

	p = BuildPrompt("space", "horror", "ctx")
	assert.Equal(t, "Positive: space\nNegative: horror", p.User)
}

func TestRun(t *testing.T) {
	svc := newService(t, fixture)
	res, err := svc.Run(context.Background(), "heist", "")
	require.NoError(t, err)

	assert.Equal(t, 3, res.DatasetSize)
	assert.Equal(t, "a", res.SampleDocument.ID)
	assert.Equal(t, []string{"a daring heist in a casino vault"}, res.SampleChunks)
	assert.Len(t, res.SampleEmbedding, embedding.HashDimension)
	assert.Len(t, res.Retrieved, 3)
	assert.Equal(t, AssembleContext(res.Retrieved), res.Context)
	assert.Equal(t, "Positive: heist", res.Prompt.User)
	require.NotEmpty(t, res.Recommendations)
	assert.Equal(t, "a", res.Recommendations[0].Document.ID)
	assert.Equal(t, []string{"Clever heist plot"}, res.Recommendations[0].Reasons)
}
