package vector

import (
	"sort"
	"sync"
)

const defaultTopK = 10

// Hit is one search result, most similar first.
type Hit struct {
	ID         string            `json:"id"`
	Similarity float64           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type entry struct {
	vector   []float64
	metadata map[string]string
}

// Index is an in-memory vector store partitioned by namespace. Safe for
// concurrent use.
type Index struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]entry
}

func NewIndex() *Index {
	return &Index{namespaces: make(map[string]map[string]entry)}
}

// Upsert stores or replaces a vector under the given namespace and id.
func (ix *Index) Upsert(namespace, id string, vec []float64, metadata map[string]string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ns, ok := ix.namespaces[namespace]
	if !ok {
		ns = make(map[string]entry)
		ix.namespaces[namespace] = ns
	}
	ns[id] = entry{
		vector:   append([]float64(nil), vec...),
		metadata: copyMetadata(metadata),
	}
}

// Delete removes an entry and reports whether it existed.
func (ix *Index) Delete(namespace, id string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ns, ok := ix.namespaces[namespace]
	if !ok {
		return false
	}
	if _, ok := ns[id]; !ok {
		return false
	}
	delete(ns, id)
	return true
}

// Len reports how many entries a namespace holds.
func (ix *Index) Len(namespace string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.namespaces[namespace])
}

// Vector returns a copy of the stored vector, or nil when the id is unknown.
func (ix *Index) Vector(namespace, id string) []float64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	ent, ok := ix.namespaces[namespace][id]
	if !ok {
		return nil
	}
	return append([]float64(nil), ent.vector...)
}

// Search returns the topK entries most similar to the query vector. Entries
// must carry every filter key with the exact value to qualify. Results are
// ordered by similarity, then by id so equal scores stay deterministic.
func (ix *Index) Search(namespace string, query []float64, topK int, filter map[string]string) []Hit {
	if topK <= 0 {
		topK = defaultTopK
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]Hit, 0, len(ix.namespaces[namespace]))
	for id, ent := range ix.namespaces[namespace] {
		if !matchesFilter(ent.metadata, filter) {
			continue
		}
		hits = append(hits, Hit{
			ID:         id,
			Similarity: Cosine(query, ent.vector),
			Metadata:   copyMetadata(ent.metadata),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

func matchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func copyMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
