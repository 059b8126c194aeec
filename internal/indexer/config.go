package indexer

import (
	"codelens/internal/chunker"
	"codelens/internal/embedding"
	"codelens/internal/vectorstore"
)

// Config is the indexer's configuration surface, per spec §6.
type Config struct {
	RootDir        string
	Extensions     map[string]bool
	MaxChunkTokens int
	MinChunkTokens int
	CachePath      string // relative to RootDir
	TopK           int
}

// WithDefaults fills in the spec's default token bounds and cache path
// when left zero.
func (c Config) WithDefaults() Config {
	if c.MaxChunkTokens <= 0 {
		c.MaxChunkTokens = 512
	}
	if c.MinChunkTokens <= 0 {
		c.MinChunkTokens = 30
	}
	if c.CachePath == "" {
		c.CachePath = ".cache/embeddings.json"
	}
	if c.TopK <= 0 {
		c.TopK = 10
	}
	return c
}

func (c Config) chunkerOptions() chunker.Options {
	return chunker.Options{MaxChunkTokens: c.MaxChunkTokens, MinChunkTokens: c.MinChunkTokens}
}

// Deps bundles the collaborators the Indexer composes: a chunker
// registry, an embedding provider, and a vector store. All three are
// opaque external contracts per spec §1.
type Deps struct {
	Registry *chunker.Registry
	Provider embedding.Provider
	Store    vectorstore.Store
}
