// internal/matching/vector/vector_test.go
package vector

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Embedder Tests
// ==========================

func TestEmbed_Deterministic(t *testing.T) {
	e := NewHashingEmbedder(DefaultDim)

	first := e.Embed("Python backend developer")
	second := e.Embed("Python backend developer")

	assert.Equal(t, first, second)
	assert.Len(t, first, DefaultDim)
}

func TestEmbed_Normalized(t *testing.T) {
	e := NewHashingEmbedder(DefaultDim)

	vec := e.Embed("Python backend developer with Docker")

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	e := NewHashingEmbedder(DefaultDim)

	vec := e.Embed("   ")

	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbed_CaseAndPunctuationInsensitive(t *testing.T) {
	e := NewHashingEmbedder(DefaultDim)

	assert.Equal(t, e.Embed("Python, Docker!"), e.Embed("python docker"))
}

func TestEmbed_SharedTokensScoreCloser(t *testing.T) {
	e := NewHashingEmbedder(DefaultDim)

	base := e.Embed("python backend developer with docker kubernetes")
	near := e.Embed("python backend engineer with docker kubernetes")
	far := e.Embed("watercolor painting and pastry baking")

	assert.Greater(t, Cosine(base, near), Cosine(base, far))
}

func TestNewHashingEmbedder_DefaultsDim(t *testing.T) {
	assert.Equal(t, DefaultDim, NewHashingEmbedder(0).Dim())
	assert.Equal(t, 64, NewHashingEmbedder(64).Dim())
}

// ==========================
// Cosine Tests
// ==========================

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{name: "identical", a: []float64{1, 0}, b: []float64{1, 0}, expected: 1.0},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, expected: 0.0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, expected: -1.0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 0}, expected: 0.0},
		{name: "length mismatch", a: []float64{1}, b: []float64{1, 0}, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

// ==========================
// Index Tests
// ==========================

func TestIndex_UpsertAndSearch(t *testing.T) {
	ix := NewIndex()
	ix.Upsert("profiles", "resume-1", []float64{1, 0, 0}, nil)
	ix.Upsert("profiles", "resume-2", []float64{0, 1, 0}, nil)
	ix.Upsert("profiles", "resume-3", []float64{0.9, 0.1, 0}, nil)

	hits := ix.Search("profiles", []float64{1, 0, 0}, 2, nil)

	assert.Len(t, hits, 2)
	assert.Equal(t, "resume-1", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.Equal(t, "resume-3", hits[1].ID)
}

func TestIndex_UpsertReplaces(t *testing.T) {
	ix := NewIndex()
	ix.Upsert("profiles", "resume-1", []float64{1, 0}, nil)
	ix.Upsert("profiles", "resume-1", []float64{0, 1}, nil)

	assert.Equal(t, 1, ix.Len("profiles"))

	hits := ix.Search("profiles", []float64{0, 1}, 1, nil)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestIndex_FilterRequiresAllPairs(t *testing.T) {
	ix := NewIndex()
	ix.Upsert("profiles", "resume-1", []float64{1, 0}, map[string]string{"status": "active", "level": "senior"})
	ix.Upsert("profiles", "resume-2", []float64{1, 0}, map[string]string{"status": "archived", "level": "senior"})
	ix.Upsert("profiles", "resume-3", []float64{1, 0}, map[string]string{"status": "active", "level": "junior"})

	hits := ix.Search("profiles", []float64{1, 0}, 10, map[string]string{"status": "active", "level": "senior"})

	assert.Len(t, hits, 1)
	assert.Equal(t, "resume-1", hits[0].ID)
	assert.Equal(t, "active", hits[0].Metadata["status"])
}

func TestIndex_NamespacesAreIsolated(t *testing.T) {
	ix := NewIndex()
	ix.Upsert("profiles", "resume-1", []float64{1, 0}, nil)
	ix.Upsert("jobs", "job-1", []float64{1, 0}, nil)

	assert.Len(t, ix.Search("profiles", []float64{1, 0}, 10, nil), 1)
	assert.Len(t, ix.Search("jobs", []float64{1, 0}, 10, nil), 1)
	assert.Empty(t, ix.Search("unknown", []float64{1, 0}, 10, nil))
}

func TestIndex_Delete(t *testing.T) {
	ix := NewIndex()
	ix.Upsert("profiles", "resume-1", []float64{1, 0}, nil)

	assert.True(t, ix.Delete("profiles", "resume-1"))
	assert.False(t, ix.Delete("profiles", "resume-1"))
	assert.False(t, ix.Delete("missing", "resume-1"))
	assert.Zero(t, ix.Len("profiles"))
}

func TestIndex_DefaultTopK(t *testing.T) {
	ix := NewIndex()
	for i := 0; i < 15; i++ {
		ix.Upsert("profiles", string(rune('a'+i)), []float64{1, 0}, nil)
	}

	hits := ix.Search("profiles", []float64{1, 0}, 0, nil)

	assert.Len(t, hits, 10)
}

func TestIndex_TiesOrderedByID(t *testing.T) {
	ix := NewIndex()
	ix.Upsert("profiles", "resume-b", []float64{1, 0}, nil)
	ix.Upsert("profiles", "resume-a", []float64{1, 0}, nil)

	hits := ix.Search("profiles", []float64{1, 0}, 10, nil)

	assert.Equal(t, "resume-a", hits[0].ID)
	assert.Equal(t, "resume-b", hits[1].ID)
}

func TestIndex_MetadataIsCopied(t *testing.T) {
	ix := NewIndex()
	metadata := map[string]string{"status": "active"}
	ix.Upsert("profiles", "resume-1", []float64{1, 0}, metadata)

	metadata["status"] = "mutated"

	hits := ix.Search("profiles", []float64{1, 0}, 1, nil)
	assert.Equal(t, "active", hits[0].Metadata["status"])
}

func TestIndex_VectorReturnsCopy(t *testing.T) {
	ix := NewIndex()
	ix.Upsert("profiles", "resume-1", []float64{1, 0}, nil)

	vec := ix.Vector("profiles", "resume-1")
	assert.Equal(t, []float64{1, 0}, vec)

	vec[0] = 42
	assert.Equal(t, []float64{1, 0}, ix.Vector("profiles", "resume-1"))

	assert.Nil(t, ix.Vector("profiles", "missing"))
	assert.Nil(t, ix.Vector("unknown", "resume-1"))
}

// ==========================
// ProfileSimilarity Tests
// ==========================

func TestProfileSimilarity_IdenticalTextScoresOne(t *testing.T) {
	e := NewHashingEmbedder(DefaultDim)
	ps := NewProfileSimilarity(e, NewIndex(), "profiles")

	text := "Senior Python developer with Docker experience"
	sim, err := ps.Similarity(context.Background(), "", text, text)

	assert.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestProfileSimilarity_PrefersIndexedVector(t *testing.T) {
	e := NewHashingEmbedder(DefaultDim)
	ix := NewIndex()
	indexed := e.Embed("python docker kubernetes backend")
	ix.Upsert("profiles", "resume-1", indexed, nil)
	ps := NewProfileSimilarity(e, ix, "profiles")

	jobText := "python docker backend services"
	sim, err := ps.Similarity(context.Background(), "resume-1", "watercolor painting", jobText)

	assert.NoError(t, err)
	assert.InDelta(t, Cosine(indexed, e.Embed(jobText)), sim, 1e-9)
}

func TestProfileSimilarity_FallsBackToProfileText(t *testing.T) {
	e := NewHashingEmbedder(DefaultDim)
	ps := NewProfileSimilarity(e, NewIndex(), "profiles")

	profileText := "python backend developer"
	jobText := "python backend engineer"
	sim, err := ps.Similarity(context.Background(), "resume-unindexed", profileText, jobText)

	assert.NoError(t, err)
	assert.InDelta(t, Cosine(e.Embed(profileText), e.Embed(jobText)), sim, 1e-9)
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.LessOrEqual(t, sim, 1.0)
}

func TestProfileSimilarity_EmptyJobText(t *testing.T) {
	ps := NewProfileSimilarity(NewHashingEmbedder(DefaultDim), NewIndex(), "profiles")

	_, err := ps.Similarity(context.Background(), "resume-1", "some profile", "")

	assert.Error(t, err)
}

func TestProfileSimilarity_NoVectorAndNoText(t *testing.T) {
	ps := NewProfileSimilarity(NewHashingEmbedder(DefaultDim), NewIndex(), "profiles")

	_, err := ps.Similarity(context.Background(), "resume-1", "", "python developer")

	assert.Error(t, err)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkEmbed(b *testing.B) {
	e := NewHashingEmbedder(DefaultDim)
	text := "Senior Python developer with Docker, Kubernetes and AWS experience"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Embed(text)
	}
}

func BenchmarkSearch(b *testing.B) {
	ix := NewIndex()
	e := NewHashingEmbedder(DefaultDim)
	for i := 0; i < 500; i++ {
		ix.Upsert("profiles", string(rune(i)), e.Embed("profile text varies"), nil)
	}
	query := e.Embed("query text")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Search("profiles", query, 10, nil)
	}
}
