package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playground/internal/domain"
)

func seeded(t *testing.T) *Storage {
	t.Helper()
	s := NewStorage()
	ctx := context.Background()
	require.NoError(t, s.Init(ctx, 2))
	chunks := []domain.Chunk{
		{DocumentID: "a", ChunkID: "a:0", Index: 0},
		{DocumentID: "a", ChunkID: "a:1", Index: 1},
		{DocumentID: "b", ChunkID: "b:0", Index: 0},
		{DocumentID: "c", ChunkID: "c:0", Index: 0},
	}
	vectors := [][]float64{{1, 0}, {0, 1}, {1, 0}, {0.6, 0.8}}
	require.NoError(t, s.Upsert(ctx, chunks, vectors))
	return s
}

func TestSearch_OrderAndTies(t *testing.T) {
	s := seeded(t)
	res, err := s.Search(context.Background(), []float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)

	// a:0 and b:0 tie at 1.0 and keep insertion order.
	assert.Equal(t, "a:0", res[0].Chunk.ChunkID)
	assert.Equal(t, "b:0", res[1].Chunk.ChunkID)
	assert.Equal(t, "c:0", res[2].Chunk.ChunkID)
	assert.InDelta(t, 0.6, res[2].Score, 1e-12)
}

func TestSearch_TopKLargerThanStore(t *testing.T) {
	s := seeded(t)
	res, err := s.Search(context.Background(), []float64{0, 1}, 50)
	require.NoError(t, err)
	require.Len(t, res, 4)

	seen := map[string]bool{}
	for i, r := range res {
		assert.False(t, seen[r.Chunk.ChunkID], "duplicate %s", r.Chunk.ChunkID)
		seen[r.Chunk.ChunkID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, res[i-1].Score, r.Score)
		}
	}
}

func TestUpsert_Validation(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	assert.Error(t, s.Init(ctx, 0))
	require.NoError(t, s.Init(ctx, 3))
	assert.Error(t, s.Upsert(ctx, []domain.Chunk{{}}, nil))
	assert.Error(t, s.Upsert(ctx, []domain.Chunk{{}}, [][]float64{{1}}))
}

func TestClear(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Clear(context.Background()))
	assert.Zero(t, s.Len())
	res, err := s.Search(context.Background(), []float64{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}
