package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback <id>",
	Short: "Revert an entry to flat text",
	Long: `Revert a converted entry back to its original flat text.

The original text is kept through conversion, so rollback is lossless with
respect to it. Any edits made to individual blocks since conversion are
discarded. Rolling back an unconverted entry is a no-op.

Examples:
  noteblocks rollback 0b9af3…`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

func runRollback(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	entry, err := store.Entry(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	if !entry.IsConverted {
		fmt.Printf("Entry %q is not converted, nothing to roll back.\n", entry.Title)
		return nil
	}

	if err := migrator.Rollback(ctx, entry); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	fmt.Printf("Rolled back: %s\n", entry.Title)
	return nil
}
