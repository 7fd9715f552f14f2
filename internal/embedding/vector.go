package embedding

import "math"

// NegativeWeight is how strongly the "avoid" text pushes the query away.
const NegativeWeight = 0.75

// Dot is cosine similarity for L2-normalised operands.
func Dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Normalize scales vec to unit length in place. A zero vector is left as is.
func Normalize(vec []float64) {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}

// QueryVector returns normalize(positive - weight*negative).
func QueryVector(positive, negative []float64, weight float64) []float64 {
	out := make([]float64, len(positive))
	copy(out, positive)
	for i := 0; i < len(out) && i < len(negative); i++ {
		out[i] -= weight * negative[i]
	}
	Normalize(out)
	return out
}

// IsZero reports whether every component of vec is zero.
func IsZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
