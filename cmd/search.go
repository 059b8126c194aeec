package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"codelens/internal/retriever"

	"github.com/spf13/cobra"
)

var flagTopK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the index and print matching code",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(flagRootDir)
		if err != nil {
			return err
		}

		store, err := newStore(root)
		if err != nil {
			return err
		}
		defer store.Close()

		r := retriever.New(root, newProvider(), store)
		results, err := r.Search(cmd.Context(), strings.Join(args, " "), flagTopK)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("no results")
			return nil
		}
		for i, res := range results {
			fmt.Printf("%d. %s:%d-%d  [%s %s]  score=%.3f\n", i+1, res.Path, res.StartLine, res.EndLine, res.NodeType, res.SymbolName, res.Score)
			fmt.Println(res.Text)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagTopK, "top-k", 10, "number of results to return")
	rootCmd.AddCommand(searchCmd)
}
