package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the vector-store collection, cache, and Merkle summary for --root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, store, err := newIndexer()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := idx.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("index reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
