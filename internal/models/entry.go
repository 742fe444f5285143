package models

import (
	"time"

	"github.com/google/uuid"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Entry is one knowledge-base record. Content always keeps the original
// flat text, even after conversion, which is what makes rollback lossless.
type Entry struct {
	ID      surrealmodels.RecordID `json:"id"`
	Title   string                 `json:"title"`
	Content string                 `json:"content"`

	// IsConverted is true iff Blocks is non-empty and was produced by the
	// parser from Content.
	IsConverted bool `json:"is_converted"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`

	// Blocks is the ordered owned collection, loaded alongside the entry
	// for converted entries. Not a stored field on the entry table.
	Blocks []Block `json:"-"`
}

// NewEntry builds an unconverted entry from raw text.
func NewEntry(title, content string) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:         surrealmodels.NewRecordID("entry", uuid.New().String()),
		Title:      title,
		Content:    content,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Touch bumps the modification timestamp.
func (e *Entry) Touch() {
	e.ModifiedAt = time.Now().UTC()
}
