package embedding

import (
	"regexp"
	"strings"
)

// HashDimension is the fixed length of every hash embedding.
const HashDimension = 256

// HashEmbedder implements a deterministic bag-of-words sketch. Each token is
// hashed with a 32-bit rolling hash and scattered into two buckets. It needs
// no corpus preparation and no model.
type HashEmbedder struct {
	tokenPattern *regexp.Regexp
}

// NewHashEmbedder creates a hash embedder.
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{tokenPattern: regexp.MustCompile(`[0-9a-z_]+`)}
}

// Name returns the identifier of this embedder implementation.
func (e *HashEmbedder) Name() string { return "hash" }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *HashEmbedder) Dimension() int { return HashDimension }

// Embed returns the L2-normalised sketch of text. Text without tokens maps to
// the zero vector.
func (e *HashEmbedder) Embed(text string) ([]float64, error) {
	vec := make([]float64, HashDimension)
	for _, tok := range e.tokenPattern.FindAllString(strings.ToLower(text), -1) {
		first, second := buckets(tokenHash(tok))
		vec[first] += 1.0
		vec[second] += 0.5
	}
	Normalize(vec)
	return vec, nil
}

// tokenHash is h = h*31 + c over the token bytes with int32 wraparound.
// Tokens are ASCII, so bytes and UTF-16 code units coincide.
func tokenHash(tok string) int32 {
	var h int32
	for i := 0; i < len(tok); i++ {
		h = (h << 5) - h + int32(tok[i])
	}
	return h
}

func buckets(h int32) (int, int) {
	return int(abs64(int64(h)) % HashDimension), int(abs64(int64(h>>8)) % HashDimension)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
