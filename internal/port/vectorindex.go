package port

import "pdfchat/internal/domain"

// VectorIndex is a nearest-neighbor structure over embedded chunks.
// There is no delete-by-id; removal is realized by building a fresh
// index over the retained chunks.
type VectorIndex interface {
	// Add embeds and appends chunks to the index.
	Add(chunks []domain.Chunk) error

	// Query returns the k chunks nearest to the text, best first, each
	// with a cosine distance (lower is better). k larger than the index
	// returns every entry.
	Query(text string, k int) ([]domain.ScoredChunk, error)

	// Count returns the number of indexed chunks.
	Count() int
}

// IndexFactory builds a VectorIndex from an initial batch.
type IndexFactory interface {
	Build(chunks []domain.Chunk) (VectorIndex, error)
}
