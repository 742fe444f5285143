package models

import (
	"time"

	"github.com/google/uuid"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// BlockType identifies the kind of content a block holds.
// The set is closed; the parser never emits anything outside it.
type BlockType string

const (
	BlockTypeText      BlockType = "text"
	BlockTypeHeading1  BlockType = "heading1"
	BlockTypeHeading2  BlockType = "heading2"
	BlockTypeHeading3  BlockType = "heading3"
	BlockTypeHeading4  BlockType = "heading4"
	BlockTypeHeading5  BlockType = "heading5"
	BlockTypeHeading6  BlockType = "heading6"
	BlockTypeCode      BlockType = "code"
	BlockTypeBulleted  BlockType = "bulleted"
	BlockTypeNumbered  BlockType = "numbered"
	BlockTypeChecklist BlockType = "checklist"
	BlockTypeQuote     BlockType = "quote"
	BlockTypeDivider   BlockType = "divider"
)

// headingTypes maps heading depth to its block type, 1-indexed.
var headingTypes = [...]BlockType{
	BlockTypeHeading1,
	BlockTypeHeading2,
	BlockTypeHeading3,
	BlockTypeHeading4,
	BlockTypeHeading5,
	BlockTypeHeading6,
}

// HeadingType returns the heading block type for the given level.
// Levels outside 1..6 report ok=false and the caller falls back to text.
func HeadingType(level int) (BlockType, bool) {
	if level < 1 || level > len(headingTypes) {
		return BlockTypeText, false
	}
	return headingTypes[level-1], true
}

// Block is one typed, ordered unit of a converted entry. Blocks have no
// independent lifecycle: they are created by the parser and only ever
// attached to or removed from their owning entry.
type Block struct {
	ID surrealmodels.RecordID `json:"id"`

	// Owning entry. Informational back-reference; ownership lives in the
	// entry's block collection.
	Entry surrealmodels.RecordID `json:"entry"`

	Type    BlockType `json:"type"`
	Content string    `json:"content"`

	// Language is set only for code blocks with a fence annotation.
	Language *string `json:"language,omitempty"`

	// Checked is set only for checklist blocks.
	Checked *bool `json:"checked,omitempty"`

	// Position is the zero-based order within the owning entry.
	Position int `json:"position"`

	CreatedAt time.Time `json:"created_at"`
}

// NewBlockID generates a fresh block record ID.
func NewBlockID() surrealmodels.RecordID {
	return surrealmodels.NewRecordID("block", uuid.New().String())
}
