package cmd

import (
	"os"

	"codelens/internal/logging"

	"github.com/spf13/cobra"
)

var (
	flagRootDir    string
	flagOllamaURL  string
	flagQdrantURL  string
	flagCollection string
	flagModel      string
	flagOpenAIKey  string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "codelens",
	Short: "Incremental semantic code search over a local codebase",
}

// Execute runs the CLI, printing any returned error and exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRootDir, "root", envOr("INDEX_DIR", "."), "codebase root to index/search")
	rootCmd.PersistentFlags().StringVar(&flagOllamaURL, "ollama", "http://localhost:11434", "ollama base URL, used when no OpenAI key is set")
	rootCmd.PersistentFlags().StringVar(&flagQdrantURL, "qdrant-url", os.Getenv("QDRANT_URL"), "Qdrant base URL; empty uses the embedded sqlite-vec store")
	rootCmd.PersistentFlags().StringVar(&flagCollection, "collection", envOr("QDRANT_COLLECTION", "codelens"), "vector store collection name")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", envOr("EMBEDDING_MODEL", "nomic-embed-text"), "embedding model name")
	rootCmd.PersistentFlags().StringVar(&flagOpenAIKey, "openai-api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key; selects the OpenAI-compatible provider when set")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	cobra.OnInitialize(func() {
		logging.SetDefault(logging.New(flagVerbose))
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
