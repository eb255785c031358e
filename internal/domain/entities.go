package domain

// PageUnknown marks a chunk whose originating page could not be
// determined. It is rendered in context blocks but never counted in
// citations.
const PageUnknown = "?"

// Chunk is the unit of embedding and retrieval: a bounded span of
// document text tagged with its source file and page. Chunks are
// immutable; re-ingesting a file produces fresh chunks.
type Chunk struct {
	Text   string
	Source string
	Page   string
}

// FileRecord is the cached result of ingesting one file.
type FileRecord struct {
	Filename    string
	ContentHash string
	Chunks      []Chunk
}

type ScoredChunk struct {
	Chunk Chunk
	// Score is a cosine distance; lower is better.
	Score float64
}

// SyncSummary reports what a Sync call did to the index.
type SyncSummary struct {
	FilesProcessed int
	FilesReused    int
	FilesRemoved   int
	ChunksAdded    int
	Failed         []string
}
