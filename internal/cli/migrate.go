package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	migrateID    string
	migratePlain bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert flat-text entries into blocks",
	Long: `Convert all unconverted entries into their block representation.

The run checkpoints its progress with an intermediate commit every few
entries (NOTEBLOCKS_CHECKPOINT_EVERY, default 10), so an interrupted run
loses at most one checkpoint interval of work and can simply be re-run.
Entries that fail to convert are skipped and retried on the next run.

Examples:
  noteblocks migrate
  noteblocks migrate --id 0b9af3…
  noteblocks migrate --plain`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateID, "id", "", "migrate a single entry by id")
	migrateCmd.Flags().BoolVar(&migratePlain, "plain", false, "disable the interactive progress display")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if migrateID != "" {
		if err := migrator.MigrateByID(ctx, migrateID); err != nil {
			return err
		}
		fmt.Printf("Migrated entry %s\n", migrateID)
		return nil
	}

	if !migrator.NeedsMigration(ctx) {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	if migratePlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := migrator.MigrateAll(ctx); err != nil {
			return err
		}
		snap := migrator.Snapshot()
		fmt.Printf("Migrated %d entries.\n", snap.Processed)
		return nil
	}

	return runMigrationProgress(ctx, migrator)
}
