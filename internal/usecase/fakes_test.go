package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"pdfchat/internal/domain"
	"pdfchat/internal/port"
)

// fakeExtractor serves canned page units by basename and counts calls.
type fakeExtractor struct {
	mu    sync.Mutex
	calls map[string]int
	units map[string][]domain.Chunk
	fail  map[string]bool
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		calls: make(map[string]int),
		units: make(map[string][]domain.Chunk),
		fail:  make(map[string]bool),
	}
}

func (e *fakeExtractor) Extract(path string) ([]domain.Chunk, error) {
	name := filepath.Base(path)
	e.mu.Lock()
	e.calls[name]++
	e.mu.Unlock()

	if e.fail[name] {
		return nil, &domain.ExtractionError{File: name, Err: errors.New("damaged file")}
	}
	return e.units[name], nil
}

func (e *fakeExtractor) callCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[name]
}

// identitySplitter passes page units through unchanged.
type identitySplitter struct{}

func (identitySplitter) Split(units []domain.Chunk) []domain.Chunk { return units }

// fakeIndex scores chunks with a pluggable function; lower is better.
type fakeIndex struct {
	chunks     []domain.Chunk
	score      func(query string, c domain.Chunk) float64
	addErr     error
	queryCalls int
}

func (f *fakeIndex) Add(chunks []domain.Chunk) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeIndex) Query(text string, k int) ([]domain.ScoredChunk, error) {
	f.queryCalls++

	results := make([]domain.ScoredChunk, 0, len(f.chunks))
	for _, c := range f.chunks {
		score := 1.0
		if f.score != nil {
			score = f.score(text, c)
		}
		results = append(results, domain.ScoredChunk{Chunk: c, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score < results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (f *fakeIndex) Count() int { return len(f.chunks) }

func (f *fakeIndex) texts() []string {
	out := make([]string, len(f.chunks))
	for i, c := range f.chunks {
		out[i] = c.Text
	}
	sort.Strings(out)
	return out
}

// fakeFactory builds fakeIndexes sharing one score function.
type fakeFactory struct {
	score    func(query string, c domain.Chunk) float64
	buildErr error
	builds   int
}

func (f *fakeFactory) Build(chunks []domain.Chunk) (port.VectorIndex, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	f.builds++
	idx := &fakeIndex{score: f.score}
	idx.chunks = append(idx.chunks, chunks...)
	return idx, nil
}

// fakeGenerator streams a scripted sequence of cumulative strings.
type fakeGenerator struct {
	script     []string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (g *fakeGenerator) Stream(_ context.Context, system, user string, yield func(string)) error {
	g.calls++
	g.lastSystem = system
	g.lastUser = user
	for _, s := range g.script {
		yield(s)
	}
	return g.err
}

func (g *fakeGenerator) ModelName() string { return "fake" }

// collect drains an answer channel.
func collect(ch <-chan string) []string {
	var out []string
	for s := range ch {
		out = append(out, s)
	}
	return out
}
