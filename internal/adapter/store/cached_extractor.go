package store

import (
	"path/filepath"

	"pdfchat/internal/adapter/fs"
	"pdfchat/internal/domain"
	"pdfchat/internal/logger"
	"pdfchat/internal/port"
)

// CachedExtractor fronts another extractor with the persistent
// extraction cache. The cache key is the file's content hash, so a file
// edited under the same name misses and is re-extracted.
type CachedExtractor struct {
	inner port.Extractor
	cache *ExtractCache
}

func NewCachedExtractor(inner port.Extractor, cache *ExtractCache) *CachedExtractor {
	return &CachedExtractor{inner: inner, cache: cache}
}

func (e *CachedExtractor) Extract(path string) ([]domain.Chunk, error) {
	hash, err := fs.HashFile(path)
	if err != nil {
		return nil, &domain.ExtractionError{File: filepath.Base(path), Err: err}
	}

	if units, ok, err := e.cache.Get(hash); err == nil && ok {
		logger.Debug("extraction cache hit for %s", filepath.Base(path))
		return units, nil
	}

	units, err := e.inner.Extract(path)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Put(hash, units); err != nil {
		// A write failure costs a future re-extraction, nothing else.
		logger.Warn("failed to cache extraction for %s: %v", filepath.Base(path), err)
	}
	return units, nil
}
