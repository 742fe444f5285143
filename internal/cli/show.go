package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/noteblocks/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	quoteStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#6C6C6C"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an entry",
	Long: `Show one entry. Converted entries are rendered block by block;
unconverted entries print their raw text.

Examples:
  noteblocks show 0b9af3…
  noteblocks show 0b9af3… --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	entry, err := store.Entry(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	fmt.Printf("%s\n\n", headingStyle.Render(entry.Title))

	if !entry.IsConverted {
		fmt.Println(entry.Content)
		return nil
	}

	// Ordinals restart whenever a numbered run is interrupted
	ordinal := 0
	for _, block := range entry.Blocks {
		if block.Type == models.BlockTypeNumbered {
			ordinal++
		} else {
			ordinal = 0
		}
		fmt.Println(renderBlock(block, ordinal))
	}
	return nil
}

func renderBlock(b models.Block, ordinal int) string {
	switch b.Type {
	case models.BlockTypeHeading1, models.BlockTypeHeading2, models.BlockTypeHeading3,
		models.BlockTypeHeading4, models.BlockTypeHeading5, models.BlockTypeHeading6:
		return headingStyle.Render(b.Content)

	case models.BlockTypeCode:
		label := ""
		if b.Language != nil {
			label = dividerStyle.Render("["+*b.Language+"]") + "\n"
		}
		indented := "    " + strings.ReplaceAll(b.Content, "\n", "\n    ")
		return label + codeStyle.Render(indented)

	case models.BlockTypeBulleted:
		return "  • " + b.Content

	case models.BlockTypeNumbered:
		return fmt.Sprintf("  %d. %s", ordinal, b.Content)

	case models.BlockTypeChecklist:
		mark := "[ ]"
		if b.Checked != nil && *b.Checked {
			mark = "[x]"
		}
		return "  " + mark + " " + b.Content

	case models.BlockTypeQuote:
		return quoteStyle.Render("  > " + b.Content)

	case models.BlockTypeDivider:
		return dividerStyle.Render(strings.Repeat("─", 40))

	default:
		return b.Content
	}
}
