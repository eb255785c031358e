package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"pdfchat/config"
	"pdfchat/internal/adapter/embedding"
	"pdfchat/internal/adapter/fs"
	"pdfchat/internal/adapter/index"
	"pdfchat/internal/adapter/pdf"
	"pdfchat/internal/adapter/splitter"
	"pdfchat/internal/port"
	"pdfchat/internal/usecase"
)

// Retrieval smoke test: index the given PDFs with the configured
// embedder, run a query and print the scored results so threshold and
// model choices can be judged against real documents.
func main() {
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 10, "Number of results")
	flag.Parse()

	if *query == "" || flag.NArg() == 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -q \"query\" file.pdf [more files...]")
		fmt.Println("\nTests:")
		fmt.Println("  1. Embedding infrastructure (model connection, index build)")
		fmt.Println("  2. Semantic similarity (query vs chunks, cosine distance)")
		fmt.Println("  3. Threshold fit (how many results clear max_distance)")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Semantic search not available: %v\n", err)
		os.Exit(1)
	}

	paths, err := fs.Collect(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error collecting files: %v\n", err)
		os.Exit(1)
	}

	sess := usecase.NewSession()
	sync := usecase.NewSyncUseCase(
		pdf.NewExtractor(),
		splitter.NewRecursive(cfg.Chunking.Size, cfg.Chunking.Overlap),
		index.NewFactory(embedder),
		0,
	)
	summary, err := sync.Sync(sess, paths, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error indexing: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SEMANTIC SEARCH BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Chunks indexed: %d (%d file(s), %d failed)\n",
		sess.ChunkCount(), summary.FilesProcessed, len(summary.Failed))
	fmt.Printf("Model: %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", embedder.Dimension())
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	results, err := sess.Query(*query, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying: %v\n", err)
		os.Exit(1)
	}

	kept := 0
	for i, r := range results {
		marker := " "
		if r.Score <= cfg.Retrieval.MaxDistance {
			marker = "*"
			kept++
		}
		text := strings.ReplaceAll(strings.TrimSpace(r.Chunk.Text), "\n", " ")
		if len(text) > 120 {
			text = text[:120] + "..."
		}
		fmt.Printf("%s [%d] %s p.%s (distance: %.4f)\n      %s\n",
			marker, i+1, r.Chunk.Source, r.Chunk.Page, r.Score, text)
	}
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("%d of %d results clear max_distance %.2f\n", kept, len(results), cfg.Retrieval.MaxDistance)
}

func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	e := cfg.Embedding
	switch e.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(e.APIKeyEnv, e.Model, e.BaseURL, e.BatchSize)
	case "mock":
		return embedding.NewMockEmbedder(e.Dimension), nil
	default:
		return embedding.NewOllamaEmbedder(e.Model, e.BaseURL, e.BatchSize)
	}
}
