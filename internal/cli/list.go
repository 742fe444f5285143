package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries",
	Long: `List entries in the knowledge base, newest first.

Examples:
  noteblocks list
  noteblocks list -n 10`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "max results")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	entries, err := store.ListEntries(ctx, listLimit)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	fmt.Printf("Entries (%d):\n\n", len(entries))
	for _, entry := range entries {
		state := "flat text"
		if entry.IsConverted {
			state = "blocks"
		}
		fmt.Printf("- %s [%s] (%s)\n", entry.Title, state, entry.ID.ID)
		if verbose {
			fmt.Printf("  modified: %s\n", entry.ModifiedAt.Format("2006-01-02 15:04"))
		}
	}

	return nil
}
