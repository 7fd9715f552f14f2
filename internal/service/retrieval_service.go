package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"playground/internal/corpus"
	"playground/internal/domain"
	"playground/internal/embedding"
)

const (
	DefaultTopK = 6

	SystemPrompt = "You are a movie recommender. Use ONLY the provided context. If context is insufficient, say so."
)

// Options tunes retrieval. Zero values fall back to the defaults.
type Options struct {
	TopK           int
	NegativeWeight float64
}

// RetrievalService indexes a fixed movie corpus and answers positive/negative
// preference queries against it.
type RetrievalService struct {
	docs       []domain.Document
	byID       map[string]domain.Document
	chunker    domain.Chunker
	embedder   domain.Embedder
	store      domain.VectorStore
	summarizer domain.Summarizer
	logger     *zap.Logger
	topK       int
	negWeight  float64

	mu       sync.Mutex
	ingested bool
	chunks   int
}

func NewRetrievalService(docs []domain.Document, chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, summarizer domain.Summarizer, logger *zap.Logger, opts Options) *RetrievalService {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.NegativeWeight <= 0 {
		opts.NegativeWeight = embedding.NegativeWeight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetrievalService{
		docs:       docs,
		byID:       corpus.Index(docs),
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		summarizer: summarizer,
		logger:     logger.Named("retrieval"),
		topK:       opts.TopK,
		negWeight:  opts.NegativeWeight,
	}
}

// Documents returns the corpus in load order.
func (s *RetrievalService) Documents() []domain.Document { return s.docs }

// Ingest chunks and embeds every document and replaces the vector store contents.
// It returns the number of indexed chunks.
func (s *RetrievalService) Ingest(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingestLocked(ctx)
}

func (s *RetrievalService) ingestLocked(ctx context.Context) (int, error) {
	var allChunks []domain.Chunk
	for _, d := range s.docs {
		chunks, err := s.chunker.Chunk(d)
		if err != nil {
			return 0, fmt.Errorf("chunk %s: %w", d.ID, err)
		}
		allChunks = append(allChunks, chunks...)
	}
	vectors := make([][]float64, len(allChunks))
	for i := range allChunks {
		vec, err := s.embedder.Embed(allChunks[i].Text)
		if err != nil {
			return 0, fmt.Errorf("embed %s: %w", allChunks[i].ChunkID, err)
		}
		vectors[i] = vec
	}
	if err := s.store.Init(ctx, s.embedder.Dimension()); err != nil {
		return 0, fmt.Errorf("init vector store: %w", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear vector store: %w", err)
	}
	if err := s.store.Upsert(ctx, allChunks, vectors); err != nil {
		return 0, fmt.Errorf("upsert chunks: %w", err)
	}
	s.ingested = true
	s.chunks = len(allChunks)
	s.logger.Info("corpus indexed",
		zap.Int("documents", len(s.docs)),
		zap.Int("chunks", len(allChunks)),
		zap.String("embedder", s.embedder.Name()),
	)
	return len(allChunks), nil
}

func (s *RetrievalService) ensureIngested(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ingested {
		return nil
	}
	_, err := s.ingestLocked(ctx)
	return err
}

// Retrieve returns the k chunks most similar to positive, pushed away from negative.
// Results are ordered by descending similarity; equal scores keep corpus order.
func (s *RetrievalService) Retrieve(ctx context.Context, positive, negative string, k int) ([]domain.RetrievedChunk, error) {
	if err := s.ensureIngested(ctx); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = s.topK
	}
	pos, err := s.embedder.Embed(positive)
	if err != nil {
		return nil, err
	}
	neg, err := s.embedder.Embed(negative)
	if err != nil {
		return nil, err
	}
	query := embedding.QueryVector(pos, neg, s.negWeight)
	if embedding.IsZero(query) {
		s.logger.Debug("query has no indexable tokens", zap.String("positive", positive))
	}

	results, err := s.store.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	out := make([]domain.RetrievedChunk, 0, len(results))
	for _, r := range results {
		doc, ok := s.byID[r.Chunk.DocumentID]
		if !ok {
			s.logger.Warn("search hit for unknown document", zap.String("chunk_id", r.Chunk.ChunkID))
			continue
		}
		out = append(out, domain.RetrievedChunk{SearchResult: r, Document: doc})
	}
	return out, nil
}

// Summarize groups retrieved chunks into recommendations.
func (s *RetrievalService) Summarize(positive string, chunks []domain.RetrievedChunk) []domain.Recommendation {
	return s.summarizer.Summarize(positive, chunks)
}

// AssembleContext renders retrieved chunks as the context block of a prompt.
func AssembleContext(chunks []domain.RetrievedChunk) string {
	blocks := make([]string, len(chunks))
	for i, ch := range chunks {
		blocks[i] = fmt.Sprintf("[Movie: %s (%d) | Genres: %s | Chunk #%d]\n%s\n",
			ch.Document.Title, ch.Document.Year, strings.Join(ch.Document.Genres, ", "), ch.Chunk.Index+1, ch.Chunk.Text)
	}
	return strings.Join(blocks, "\n")
}

// Prompt is what would be sent to a language model.
type Prompt struct {
	System  string `json:"system"`
	User    string `json:"user"`
	Context string `json:"context"`
}

func BuildPrompt(positive, negative, context string) Prompt {
	user := "Positive: " + positive
	if negative != "" {
		user += "\nNegative: " + negative
	}
	return Prompt{System: SystemPrompt, User: user, Context: context}
}

// PipelineResult exposes every stage of a playground run.
type PipelineResult struct {
	DatasetSize     int                     `json:"dataset_size"`
	SampleDocument  domain.Document         `json:"sample_document"`
	SampleChunks    []string                `json:"sample_chunks"`
	SampleEmbedding []float64               `json:"sample_embedding"`
	Retrieved       []domain.RetrievedChunk `json:"retrieved"`
	Context         string                  `json:"context"`
	Prompt          Prompt                  `json:"prompt"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// Run executes the whole pipeline for one query.
func (s *RetrievalService) Run(ctx context.Context, positive, negative string) (*PipelineResult, error) {
	res := &PipelineResult{DatasetSize: len(s.docs)}
	if len(s.docs) > 0 {
		res.SampleDocument = s.docs[0]
		chunks, err := s.chunker.Chunk(s.docs[0])
		if err != nil {
			return nil, err
		}
		for _, ch := range chunks {
			res.SampleChunks = append(res.SampleChunks, ch.Text)
		}
		if len(chunks) > 0 {
			if res.SampleEmbedding, err = s.embedder.Embed(chunks[0].Text); err != nil {
				return nil, err
			}
		}
	}

	retrieved, err := s.Retrieve(ctx, positive, negative, s.topK)
	if err != nil {
		return nil, err
	}
	res.Retrieved = retrieved
	res.Context = AssembleContext(retrieved)
	res.Prompt = BuildPrompt(positive, negative, res.Context)
	res.Recommendations = s.Summarize(positive, retrieved)
	return res, nil
}
