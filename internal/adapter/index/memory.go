package index

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"pdfchat/internal/domain"
	"pdfchat/internal/port"
)

// Factory builds in-memory vector indexes over a shared embedder.
type Factory struct {
	embedder port.Embedder
}

func NewFactory(embedder port.Embedder) *Factory {
	return &Factory{embedder: embedder}
}

func (f *Factory) Build(chunks []domain.Chunk) (port.VectorIndex, error) {
	idx := &Memory{embedder: f.embedder}
	if err := idx.Add(chunks); err != nil {
		return nil, err
	}
	return idx, nil
}

// Memory is a brute-force vector index. Scores are cosine distances
// (1 - cosine similarity), so lower is better. Good enough for
// interactive document counts; swap for HNSW if corpora grow.
type Memory struct {
	embedder port.Embedder

	mu      sync.RWMutex
	chunks  []domain.Chunk
	vectors [][]float32
}

// Add embeds and appends chunks. On failure the index is left exactly
// as it was.
func (m *Memory) Add(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			return &domain.EmbeddingError{Op: "add", Err: fmt.Errorf("chunk %d from %s has empty text", i, c.Source)}
		}
		texts[i] = c.Text
	}

	vectors, err := m.embedder.Embed(texts)
	if err != nil {
		return &domain.EmbeddingError{Op: "add", Err: err}
	}
	if len(vectors) != len(chunks) {
		return &domain.EmbeddingError{Op: "add", Err: fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

// Query returns the k nearest chunks to the text, best (lowest
// distance) first. k larger than the index size returns every entry.
func (m *Memory) Query(text string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	vectors, err := m.embedder.Embed([]string{text})
	if err != nil {
		return nil, &domain.EmbeddingError{Op: "query", Err: err}
	}
	if len(vectors) == 0 {
		return nil, &domain.EmbeddingError{Op: "query", Err: fmt.Errorf("embedder returned no vector")}
	}
	query := vectors[0]

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]domain.ScoredChunk, 0, len(m.chunks))
	for i, vec := range m.vectors {
		results = append(results, domain.ScoredChunk{
			Chunk: m.chunks[i],
			Score: 1 - cosineSimilarity(query, vec),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
