package usecase

import (
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"pdfchat/internal/adapter/fs"
	"pdfchat/internal/domain"
	"pdfchat/internal/logger"
	"pdfchat/internal/port"
)

// SyncUseCase keeps a session's vector index exactly synchronized with
// the currently uploaded file set, re-extracting and re-embedding as
// little as possible.
type SyncUseCase struct {
	extractor port.Extractor
	splitter  port.Splitter
	factory   port.IndexFactory
	workers   int
}

func NewSyncUseCase(extractor port.Extractor, splitter port.Splitter, factory port.IndexFactory, workers int) *SyncUseCase {
	if workers <= 0 {
		workers = 4
	}
	return &SyncUseCase{
		extractor: extractor,
		splitter:  splitter,
		factory:   factory,
		workers:   workers,
	}
}

// ProgressFunc reports extraction progress during a sync.
type ProgressFunc func(done, total int, file string)

// Sync reconciles the session with uploadedPaths. Removed files' chunks
// are purged by rebuilding the index from the retained chunks; files
// already cached with unchanged content are reused without extraction;
// genuinely new or edited files are extracted in parallel, split and
// merged into the index. Per-file extraction failures are isolated and
// reported in the summary. An index build or extend failure aborts the
// sync with the session left exactly as it was.
func (u *SyncUseCase) Sync(sess *Session, uploadedPaths []string, progress ProgressFunc) (*domain.SyncSummary, error) {
	summary := &domain.SyncSummary{}

	current := make(map[string]string, len(uploadedPaths))
	for _, path := range uploadedPaths {
		current[filepath.Base(path)] = path
	}

	// Detect edited files: cached under the same name, different bytes.
	changed := make(map[string]bool)
	for name, path := range current {
		rec, ok := sess.files[name]
		if !ok {
			continue
		}
		hash, err := fs.HashFile(path)
		if err != nil {
			logger.Warn("cannot hash %s: %v", name, err)
			summary.Failed = append(summary.Failed, name)
			delete(current, name)
			continue
		}
		if hash != rec.ContentHash {
			changed[name] = true
		}
	}

	// Everything that must leave the index: files no longer uploaded,
	// plus edited files (their stale chunks are replaced wholesale).
	toRemove := make(map[string]bool)
	for name := range sess.active {
		if _, ok := current[name]; !ok {
			toRemove[name] = true
			summary.FilesRemoved++
		}
	}
	for name := range changed {
		toRemove[name] = true
	}

	newIndex := sess.index
	rebuilt := false
	if len(toRemove) > 0 && sess.index != nil {
		var retained []domain.Chunk
		for name, rec := range sess.files {
			if toRemove[name] {
				continue
			}
			retained = append(retained, rec.Chunks...)
		}

		if len(retained) > 0 {
			idx, err := u.factory.Build(retained)
			if err != nil {
				return nil, err
			}
			newIndex = idx
		} else {
			newIndex = nil
		}
		rebuilt = true
	}

	// Files needing extraction, in deterministic order.
	var newNames []string
	for name := range current {
		if _, ok := sess.files[name]; !ok || changed[name] {
			newNames = append(newNames, name)
		} else {
			summary.FilesReused++
		}
	}
	sort.Strings(newNames)

	type extractResult struct {
		units []domain.Chunk
		hash  string
		err   error
	}
	results := make([]extractResult, len(newNames))

	var mu sync.Mutex
	done := 0

	g := new(errgroup.Group)
	g.SetLimit(u.workers)
	for i, name := range newNames {
		i, name := i, name
		path := current[name]
		g.Go(func() error {
			hash, err := fs.HashFile(path)
			if err == nil {
				var units []domain.Chunk
				units, err = u.extractor.Extract(path)
				results[i] = extractResult{units: units, hash: hash, err: err}
			} else {
				results[i] = extractResult{err: err}
			}

			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(newNames), name)
				mu.Unlock()
			}
			// Per-file failures are reported, never propagated.
			return nil
		})
	}
	g.Wait()

	// Reduce in input order, not completion order.
	pending := make(map[string]domain.FileRecord)
	var newUnits []domain.Chunk
	for i, name := range newNames {
		r := results[i]
		if r.err != nil {
			logger.Warn("extraction failed for %s: %v", name, r.err)
			summary.Failed = append(summary.Failed, name)
			continue
		}
		newUnits = append(newUnits, r.units...)
		pending[name] = domain.FileRecord{
			Filename:    name,
			ContentHash: r.hash,
		}
	}

	splitDocs := u.splitter.Split(newUnits)
	for _, chunk := range splitDocs {
		rec, ok := pending[chunk.Source]
		if !ok {
			continue
		}
		rec.Chunks = append(rec.Chunks, chunk)
		pending[chunk.Source] = rec
	}

	switch {
	case newIndex == nil && len(splitDocs) > 0:
		idx, err := u.factory.Build(splitDocs)
		if err != nil {
			return nil, err
		}
		newIndex = idx
	case newIndex != nil && len(splitDocs) > 0:
		if err := newIndex.Add(splitDocs); err != nil {
			return nil, err
		}
	}

	// Commit. Nothing above mutated the session, so a failed sync left
	// it untouched.
	for name := range toRemove {
		delete(sess.files, name)
	}
	for name, rec := range pending {
		sess.files[name] = rec
	}
	sess.index = newIndex

	sess.active = make(map[string]bool, len(current))
	failed := make(map[string]bool, len(summary.Failed))
	for _, name := range summary.Failed {
		failed[name] = true
	}
	for name := range current {
		if !failed[name] {
			sess.active[name] = true
		}
	}

	if rebuilt || len(splitDocs) > 0 {
		sess.queries.Invalidate()
	}

	summary.FilesProcessed = len(pending)
	summary.ChunksAdded = len(splitDocs)
	return summary, nil
}
