package port

import "pdfchat/internal/domain"

// Extractor turns a file on disk into page-tagged text units. Each
// returned chunk covers one page, with Source set to the file's
// basename.
type Extractor interface {
	Extract(path string) ([]domain.Chunk, error)
}
