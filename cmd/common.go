package cmd

import (
	"fmt"
	"path/filepath"

	"codelens/internal/chunker"
	"codelens/internal/chunker/languages"
	"codelens/internal/embedding"
	"codelens/internal/indexer"
	"codelens/internal/logging"
	"codelens/internal/vectorstore"
)

// embeddingDimensions holds the known vector length for the embedding
// models this CLI ships defaults for. Unlisted models fall back to
// defaultDimension; the Ollama/OpenAI APIs don't report dimension up
// front, so it must be known out of band.
var embeddingDimensions = map[string]int{
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
}

const defaultDimension = 768

func dimensionFor(model string) int {
	if d, ok := embeddingDimensions[model]; ok {
		return d
	}
	return defaultDimension
}

func newRegistry() *chunker.Registry {
	reg := chunker.NewRegistry()
	languages.RegisterGo(reg)
	languages.RegisterJavaScript(reg)
	languages.RegisterTypeScript(reg)
	languages.RegisterPython(reg)
	return reg
}

func newProvider() embedding.Provider {
	dim := dimensionFor(flagModel)
	if flagOpenAIKey != "" {
		return embedding.NewOpenAIProvider("", flagOpenAIKey, flagModel, dim)
	}
	return embedding.NewOllamaProvider(flagOllamaURL, flagModel, dim)
}

func newStore(dbDir string) (vectorstore.Store, error) {
	if flagQdrantURL != "" {
		return vectorstore.NewQdrantStore(flagQdrantURL, flagCollection), nil
	}
	dbPath := filepath.Join(dbDir, ".cache", "vectors.db")
	store, err := vectorstore.OpenSQLiteVec(dbPath, flagCollection)
	if err != nil {
		return nil, fmt.Errorf("open embedded vector store: %w", err)
	}
	return store, nil
}

func newIndexer() (*indexer.Indexer, vectorstore.Store, error) {
	root, err := filepath.Abs(flagRootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve root: %w", err)
	}

	store, err := newStore(root)
	if err != nil {
		return nil, nil, err
	}

	deps := indexer.Deps{Registry: newRegistry(), Provider: newProvider(), Store: store}
	idx := indexer.New(indexer.Config{RootDir: root}, deps, logging.Default())
	return idx, store, nil
}
