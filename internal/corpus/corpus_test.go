package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playground/internal/domain"
)

func TestSample(t *testing.T) {
	docs, err := Sample()
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	for _, d := range docs {
		assert.NotEmpty(t, d.Title, d.ID)
		assert.NotEmpty(t, d.Synopsis, d.ID)
		assert.NotZero(t, d.Year, d.ID)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	raw := `[{"id":"x1","title":"One","year":2000,"genres":["Drama"],"synopsis":"a b c","tags":["hopeful"]}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	docs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.Document{
		ID: "x1", Title: "One", Year: 2000, Genres: []string{"Drama"}, Synopsis: "a b c", Tags: []string{"hopeful"},
	}, docs[0])
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":        `[]`,
		"missing id":   `[{"title":"x"}]`,
		"duplicate id": `[{"id":"a"},{"id":"a"}]`,
		"not a list":   `{"id":"a"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

var fixture = []domain.Document{
	{ID: "a", Title: "Space Cats", Genres: []string{"Comedy", "Science Fiction"}, Tags: []string{"witty"}},
	{ID: "b", Title: "Quiet", Genres: []string{"Drama"}, Tags: []string{"space"}},
	{ID: "c", Title: "Loud", Genres: []string{"Drama", "Comedy"}, Tags: []string{"heist"}},
	{ID: "d", Title: "Other", Genres: []string{"Horror"}},
}

func TestFilter(t *testing.T) {
	ids := func(docs []domain.Document) []string {
		var out []string
		for _, d := range docs {
			out = append(out, d.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "b"}, ids(Filter(fixture, "SPACE")))
	assert.Equal(t, []string{"b", "c"}, ids(Filter(fixture, "drama")))
	assert.Equal(t, []string{"c"}, ids(Filter(fixture, "heist")))
	assert.Len(t, Filter(fixture, "  "), len(fixture))
	assert.Empty(t, Filter(fixture, "western"))
}

func TestGenreDistribution(t *testing.T) {
	got := GenreDistribution(fixture, 0)
	assert.Equal(t, []GenreCount{
		{Genre: "Comedy", Count: 2},
		{Genre: "Drama", Count: 2},
		{Genre: "Science Fiction", Count: 1},
		{Genre: "Horror", Count: 1},
	}, got)

	assert.Len(t, GenreDistribution(fixture, 3), 3)
}

func TestIndex(t *testing.T) {
	idx := Index(fixture)
	assert.Len(t, idx, 4)
	assert.Equal(t, "Loud", idx["c"].Title)
}
