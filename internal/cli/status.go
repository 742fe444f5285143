package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show conversion status",
	Long: `Show how many entries are converted to blocks and how many still
hold flat text, and whether a migration run is needed.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	converted, unconverted, err := store.EntryCounts(ctx)
	if err != nil {
		return fmt.Errorf("entry counts: %w", err)
	}

	fmt.Printf("Entries: %d total\n", converted+unconverted)
	fmt.Printf("  converted:   %d\n", converted)
	fmt.Printf("  flat text:   %d\n", unconverted)

	if migrator.NeedsMigration(ctx) {
		fmt.Println("\nMigration needed. Run 'noteblocks migrate'.")
	} else {
		fmt.Println("\nNothing to migrate.")
	}
	return nil
}
