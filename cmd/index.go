package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Incrementally index the codebase at --root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, store, err := newIndexer()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("Indexing %s...\n", flagRootDir)
		start := time.Now()

		stats, err := idx.Run(cmd.Context(), func(stage string, done, total int) {
			if total > 0 {
				fmt.Printf("\r%s: %d/%d", stage, done, total)
			}
		}, func(path string, err error) {
			fmt.Printf("\n  skipped %s: %v\n", path, err)
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nDone in %s\n", time.Since(start).Round(time.Millisecond))
		if stats.NoChanges {
			fmt.Println("  no changes since last index")
			return nil
		}
		fmt.Printf("  files:   %d\n", stats.TotalFiles)
		fmt.Printf("  chunks:  %d total, %d new, %d cached\n", stats.TotalChunks, stats.NewChunks, stats.CachedChunks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
