package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"pdfchat/config"
	"pdfchat/internal/adapter/embedding"
	"pdfchat/internal/adapter/index"
	"pdfchat/internal/adapter/ollama"
	"pdfchat/internal/adapter/pdf"
	"pdfchat/internal/adapter/splitter"
	"pdfchat/internal/adapter/store"
	"pdfchat/internal/logger"
	"pdfchat/internal/port"
	"pdfchat/internal/usecase"
)

// pipeline bundles the wired use cases plus the resources a command
// must close when it finishes.
type pipeline struct {
	sync      *usecase.SyncUseCase
	answer    *usecase.AnswerUseCase
	generator port.Generator
	cache     *store.ExtractCache
}

func (p *pipeline) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}

func newPipeline(cfg *config.Config, dir string) (*pipeline, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	p := &pipeline{
		generator: ollama.NewClient(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.ConnectTimeout),
	}

	var extractor port.Extractor = pdf.NewExtractor()
	if cfg.Cache.Enabled {
		dbPath := config.CacheDBPath(dir)
		err := config.EnsureStateDir(dir)
		if cfg.Cache.Dir != "" {
			dbPath = filepath.Join(cfg.Cache.Dir, "cache.db")
			err = os.MkdirAll(cfg.Cache.Dir, 0755)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}

		cache, err := store.NewExtractCache(dbPath)
		if err != nil {
			// The cache is an optimization; a locked or corrupt
			// database must not block answering.
			logger.Warn("extraction cache unavailable, continuing without it: %v", err)
		} else {
			p.cache = cache
			extractor = store.NewCachedExtractor(extractor, cache)
		}
	}

	split := splitter.NewRecursive(cfg.Chunking.Size, cfg.Chunking.Overlap)
	factory := index.NewFactory(embedder)

	p.sync = usecase.NewSyncUseCase(extractor, split, factory, 0)
	p.answer = usecase.NewAnswerUseCase(
		p.generator,
		cfg.Retrieval.TopK,
		cfg.Retrieval.MaxDistance,
		cfg.Summary.MaxContextChars,
	)
	return p, nil
}

func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	e := cfg.Embedding
	switch e.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(e.APIKeyEnv, e.Model, e.BaseURL, e.BatchSize)
	case "mock":
		return embedding.NewMockEmbedder(e.Dimension), nil
	case "", "ollama":
		baseURL := e.BaseURL
		if baseURL == "" && cfg.LLM.BaseURL != "" {
			baseURL = cfg.LLM.BaseURL + "/v1"
		}
		return embedding.NewOllamaEmbedder(e.Model, baseURL, e.BatchSize)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", e.Provider)
	}
}
