package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flagMaxAge time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the embedding cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print embedding cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, store, err := newIndexer()
		if err != nil {
			return err
		}
		defer store.Close()

		s := idx.CacheStats()
		fmt.Printf("entries:  %d\n", s.Entries)
		fmt.Printf("on disk:  %d bytes\n", s.OnDiskSize)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cache entries older than --max-age",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, store, err := newIndexer()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := idx.PruneCache(flagMaxAge)
		if err != nil {
			return err
		}
		fmt.Printf("pruned %d entries\n", removed)
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().DurationVar(&flagMaxAge, "max-age", 30*24*time.Hour, "maximum entry age to keep")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
