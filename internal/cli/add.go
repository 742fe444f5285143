package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/noteblocks/internal/models"
	"github.com/raphaelgruber/noteblocks/internal/parser"
)

var (
	addTitle string
	addFile  string
)

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a new entry to the knowledge base",
	Long: `Add a new flat-text entry to the knowledge base.

Content comes from the argument, --file, or stdin. A YAML frontmatter
block in the file may supply the title; otherwise the first heading or the
filename is used. New entries start unconverted; run 'noteblocks migrate'
to convert them into blocks.

Examples:
  noteblocks add "# Standup\n- [ ] review PRs"
  noteblocks add --file notes/standup.md
  cat notes.md | noteblocks add --title "Imported notes"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "entry title (overrides frontmatter)")
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "read content from file")
}

func runAdd(cmd *cobra.Command, args []string) error {
	var raw string
	switch {
	case addFile != "":
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		raw = string(data)
	case len(args) == 1:
		raw = args[0]
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		raw = string(data)
	}

	doc := parser.SplitFrontmatter(raw)

	title := addTitle
	if title == "" {
		title = doc.Title()
	}
	if title == "" && addFile != "" {
		title = strings.TrimSuffix(filepath.Base(addFile), filepath.Ext(addFile))
	}
	if title == "" {
		// Fall back to the first line of content, truncated
		title = strings.TrimSpace(doc.Body)
		if i := strings.IndexByte(title, '\n'); i >= 0 {
			title = title[:i]
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}
	}

	entry := models.NewEntry(title, doc.Body)
	if err := store.CreateEntry(context.Background(), entry); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	fmt.Printf("Created entry: %s (%s)\n", entry.Title, entry.ID.ID)
	return nil
}
