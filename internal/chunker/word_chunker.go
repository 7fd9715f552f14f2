package chunker

import (
	"strconv"
	"strings"

	"playground/internal/domain"
)

const (
	DefaultMinWords = 80
	DefaultMaxWords = 120
)

// WordChunker splits a synopsis into greedy word-count windows.
type WordChunker struct {
	minWords int
	maxWords int
}

func NewWordChunker(minWords, maxWords int) *WordChunker {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	if maxWords < minWords {
		maxWords = max(minWords, DefaultMaxWords)
	}
	return &WordChunker{minWords: minWords, maxWords: maxWords}
}

// Chunk splits the document synopsis. A whitespace-only synopsis yields no chunks.
func (c *WordChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	texts := SplitWords(document.Synopsis, c.minWords, c.maxWords)
	chunks := make([]domain.Chunk, 0, len(texts))
	for idx, text := range texts {
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Text:       text,
			Index:      idx,
		})
	}
	return chunks, nil
}

// SplitWords takes between minWords and maxWords words per window, bounded by
// what is left. Joining the result with single spaces reproduces the
// whitespace-normalised input.
func SplitWords(text string, minWords, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var out []string
	for i := 0; i < len(words); {
		size := min(maxWords, max(minWords, len(words)-i))
		end := min(i+size, len(words))
		out = append(out, strings.Join(words[i:end], " "))
		i = end
	}
	return out
}
