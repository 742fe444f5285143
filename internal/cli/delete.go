package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry",
	Long: `Delete an entry together with its owned blocks.

Requires confirmation unless --force is used.

Examples:
  noteblocks delete 0b9af3…
  noteblocks delete 0b9af3… --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	entry, err := store.Entry(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	if !deleteForce {
		fmt.Printf("About to delete: %s (%s)\n", entry.Title, entry.ID.ID)
		fmt.Print("\nContinue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "y" && response != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.DeleteEntry(ctx, args[0]); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	fmt.Printf("Deleted: %s\n", entry.Title)
	return nil
}
