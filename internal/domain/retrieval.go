package domain

// Document is a single movie record of the retrieval corpus.
type Document struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Year     int      `json:"year" yaml:"year"`
	Genres   []string `json:"genres" yaml:"genres"`
	Synopsis string   `json:"synopsis" yaml:"synopsis"`
	Tags     []string `json:"tags" yaml:"tags"`
}

// Chunk is a word-bounded slice of a document synopsis used for indexing.
type Chunk struct {
	DocumentID string `json:"document_id"`
	ChunkID    string `json:"chunk_id"`
	Text       string `json:"text"`
	Index      int    `json:"index"`
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// RetrievedChunk is a search result joined with its parent document.
type RetrievedChunk struct {
	SearchResult
	Document Document `json:"document"`
}

// Recommendation is one document surfaced by the summarizer.
type Recommendation struct {
	Document      Document `json:"document"`
	Reasons       []string `json:"reasons"`
	Sources       string   `json:"sources"`
	ChunkIndices  []int    `json:"chunks"`
	MaxSimilarity float64  `json:"max_similarity"`
	AvgSimilarity float64  `json:"avg_similarity"`
}
