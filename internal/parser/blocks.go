// Package parser converts flat entry text into ordered content blocks.
package parser

import (
	"regexp"
	"strings"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/raphaelgruber/noteblocks/internal/models"
)

var (
	checklistRe = regexp.MustCompile(`^-\s\[[xX\s]\]\s`)
	numberedRe  = regexp.MustCompile(`^\d+\.\s`)
)

// ParseBlocks converts one text document into its block representation.
// It is total: every input, including the empty string, yields at least one
// block, and positions are assigned 0..n-1 in document order.
//
// The grammar is a small line-oriented Markdown subset. Each non-blank line
// becomes one block, except fenced code which consumes lines verbatim until
// the closing fence or end of input. Blank lines are skipped and take no
// position slot.
func ParseBlocks(text string, entry surrealmodels.RecordID) []models.Block {
	lines := strings.Split(text, "\n")

	var blocks []models.Block
	next := func(t models.BlockType, content string) *models.Block {
		blocks = append(blocks, models.Block{
			ID:        models.NewBlockID(),
			Entry:     entry,
			Type:      t,
			Content:   content,
			Position:  len(blocks),
			CreatedAt: time.Now().UTC(),
		})
		return &blocks[len(blocks)-1]
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#"):
			level := 0
			for level < len(line) && line[level] == '#' {
				level++
			}
			content := strings.TrimSpace(line[level:])
			// More than six '#' falls back to plain text. The heading
			// prefix is still stripped; content extraction is shared
			// with the heading branch.
			if t, ok := models.HeadingType(level); ok {
				next(t, content)
			} else {
				next(models.BlockTypeText, content)
			}

		case strings.HasPrefix(line, "```"):
			var language *string
			if lang := strings.TrimSpace(line[3:]); lang != "" {
				language = &lang
			}
			// Consume verbatim, blank lines included, until the closing
			// fence. An unterminated fence runs to end of input.
			var body []string
			j := i + 1
			for ; j < len(lines); j++ {
				if strings.TrimSpace(lines[j]) == "```" {
					break
				}
				body = append(body, lines[j])
			}
			i = j
			b := next(models.BlockTypeCode, strings.Join(body, "\n"))
			b.Language = language

		case checklistRe.MatchString(line):
			marker := checklistRe.FindString(line)
			checked := strings.ContainsAny(marker, "xX")
			b := next(models.BlockTypeChecklist, checklistRe.ReplaceAllString(line, ""))
			b.Checked = &checked

		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			next(models.BlockTypeBulleted, line[2:])

		case numberedRe.MatchString(line):
			next(models.BlockTypeNumbered, numberedRe.ReplaceAllString(line, ""))

		case strings.HasPrefix(line, "> "):
			next(models.BlockTypeQuote, line[2:])

		case line == "---" || line == "***" || line == "___":
			next(models.BlockTypeDivider, "")

		default:
			next(models.BlockTypeText, line)
		}
	}

	// Empty or all-whitespace input still yields one block, holding the
	// original untrimmed text.
	if len(blocks) == 0 {
		next(models.BlockTypeText, text)
	}

	return blocks
}
