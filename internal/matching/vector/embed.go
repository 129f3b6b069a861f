// Package vector provides deterministic text embeddings and an in-memory
// similarity index used for semantic profile search. The hashing embedder
// needs no model or external service, which keeps the matching pipeline
// self-contained; a served embedding model can replace it behind the same
// vector shape.
package vector

import (
	"crypto/sha256"
	"math"
	"strings"
	"unicode"
)

const DefaultDim = 256

// HashingEmbedder maps text to a fixed-size bag-of-tokens vector. Each token
// increments the bucket selected by its SHA-256 digest and the result is
// L2-normalized, so identical texts always embed identically.
type HashingEmbedder struct {
	dim int
}

func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &HashingEmbedder{dim: dim}
}

func (e *HashingEmbedder) Dim() int {
	return e.dim
}

// Embed returns the normalized token-bucket vector for text. Text with no
// tokens embeds to the zero vector.
func (e *HashingEmbedder) Embed(text string) []float64 {
	vec := make([]float64, e.dim)
	for _, tok := range tokenize(text) {
		vec[e.bucket(tok)]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// bucket reduces the full 256-bit digest modulo the dimension, byte by byte,
// so any dimension works without big-integer math.
func (e *HashingEmbedder) bucket(token string) int {
	sum := sha256.Sum256([]byte(token))
	r := 0
	for _, b := range sum {
		r = (r*256 + int(b)) % e.dim
	}
	return r
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Cosine is the similarity between two vectors, 0 when either has no
// magnitude or the lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
