package cmd

import (
	"fmt"
	"path/filepath"

	"codelens/internal/benchmark"

	"github.com/spf13/cobra"
)

var (
	flagDatasetDir string
	flagCorpusCap  int
	flagMaxQueries int
	flagBenchCache string
)

var benchCmd = &cobra.Command{
	Use:   "bench <dataset-name>",
	Short: "Evaluate retrieval quality against a labeled dataset (MRR/NDCG/Recall @ 1,5,10,100)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir := flagDatasetDir
		if dir == "" {
			dir = filepath.Join(flagRootDir, "benchmarks", name)
		}

		ds, err := benchmark.LoadDataset(dir, name)
		if err != nil {
			return err
		}

		cacheDir := flagBenchCache
		if cacheDir == "" {
			cacheDir = filepath.Join(flagRootDir, ".cache", "benchmark")
		}

		r := benchmark.NewRunner(newProvider(), flagModel, cacheDir)
		metrics, err := r.Run(cmd.Context(), ds, benchmark.RunOptions{
			CorpusCap:  flagCorpusCap,
			MaxQueries: flagMaxQueries,
		})
		if err != nil {
			return err
		}

		fmt.Printf("%-6s  %8s  %8s  %8s\n", "k", "MRR", "NDCG", "Recall")
		for _, k := range benchmark.Ks {
			fmt.Printf("%-6d  %8.4f  %8.4f  %8.4f\n", k, metrics.MRR[k], metrics.NDCG[k], metrics.Recall[k])
		}
		return nil
	},
}

func init() {
	benchCmd.Flags().StringVar(&flagDatasetDir, "dataset-dir", "", "dataset directory (default <root>/benchmarks/<name>)")
	benchCmd.Flags().IntVar(&flagCorpusCap, "corpus-cap", 0, "cap corpus size, preserving ground truth (0 = unbounded)")
	benchCmd.Flags().IntVar(&flagMaxQueries, "max-queries", 0, "limit evaluated queries after filtering (0 = unbounded)")
	benchCmd.Flags().StringVar(&flagBenchCache, "embedding-cache-dir", "", "embedding matrix cache directory (default <root>/.cache/benchmark)")
	rootCmd.AddCommand(benchCmd)
}
