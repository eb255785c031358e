package port

import "pdfchat/internal/domain"

// Splitter divides page-sized text units into overlapping chunks
// suitable for embedding. Deterministic for identical inputs.
type Splitter interface {
	Split(units []domain.Chunk) []domain.Chunk
}
