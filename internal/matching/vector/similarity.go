package vector

import (
	"context"
	"fmt"
)

// ProfileSimilarity scores how close a resume reads to a job description
// using the hashing embedder. The indexed profile vector is preferred when
// one exists; otherwise the profile text is embedded on the fly, which
// yields the identical vector because the embedder is deterministic.
type ProfileSimilarity struct {
	embedder  *HashingEmbedder
	index     *Index
	namespace string
}

func NewProfileSimilarity(embedder *HashingEmbedder, index *Index, namespace string) *ProfileSimilarity {
	return &ProfileSimilarity{
		embedder:  embedder,
		index:     index,
		namespace: namespace,
	}
}

// Similarity returns the cosine similarity between the resume and the job
// text. Embedding vectors are non-negative, so the result is always in
// [0, 1].
func (s *ProfileSimilarity) Similarity(ctx context.Context, resumeID, profileText, jobText string) (float64, error) {
	if jobText == "" {
		return 0, fmt.Errorf("job text is empty")
	}

	var profileVec []float64
	if s.index != nil && resumeID != "" {
		profileVec = s.index.Vector(s.namespace, resumeID)
	}
	if profileVec == nil {
		if profileText == "" {
			return 0, fmt.Errorf("no indexed vector and no profile text for resume %q", resumeID)
		}
		profileVec = s.embedder.Embed(profileText)
	}

	return Cosine(profileVec, s.embedder.Embed(jobText)), nil
}
