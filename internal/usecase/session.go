package usecase

import (
	"sort"
	"time"

	"pdfchat/internal/adapter/cache"
	"pdfchat/internal/domain"
	"pdfchat/internal/port"
)

// Session holds the mutable state of one document conversation: the
// file cache, the active file set and the vector index. Sync and
// Answer both operate on it; callers must not run them concurrently
// (single-writer, single-reader-at-a-time).
type Session struct {
	files   map[string]domain.FileRecord
	active  map[string]bool
	index   port.VectorIndex
	queries *cache.QueryCache
}

func NewSession() *Session {
	return &Session{
		files:   make(map[string]domain.FileRecord),
		active:  make(map[string]bool),
		queries: cache.NewQueryCache(100, 5*time.Minute),
	}
}

// HasIndex reports whether any chunks are currently indexed.
func (s *Session) HasIndex() bool {
	return s.index != nil && s.index.Count() > 0
}

// ActiveFiles returns the active file set, sorted by filename.
func (s *Session) ActiveFiles() []string {
	names := make([]string, 0, len(s.active))
	for name := range s.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Query runs a raw similarity search against the index, bypassing the
// answer engine's distance filter and query cache. Diagnostic use.
func (s *Session) Query(text string, k int) ([]domain.ScoredChunk, error) {
	if s.index == nil {
		return nil, nil
	}
	return s.index.Query(text, k)
}

// ChunkCount returns the number of indexed chunks.
func (s *Session) ChunkCount() int {
	if s.index == nil {
		return 0
	}
	return s.index.Count()
}

// allChunks returns every cached chunk, grouped by filename in sorted
// order so the summarization context is deterministic.
func (s *Session) allChunks() []domain.Chunk {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)

	var chunks []domain.Chunk
	for _, name := range names {
		chunks = append(chunks, s.files[name].Chunks...)
	}
	return chunks
}
