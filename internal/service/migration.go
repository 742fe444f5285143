// Package service provides business logic for noteblocks operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/raphaelgruber/noteblocks/internal/models"
	"github.com/raphaelgruber/noteblocks/internal/parser"
)

// DefaultCheckpointEvery is the number of completed entries between
// intermediate checkpoint commits during a batch run.
const DefaultCheckpointEvery = 10

// ErrEntryNotFound is returned by MigrateByID when no unconverted entry
// matches the requested id.
var ErrEntryNotFound = errors.New("no unconverted entry found")

// Store is the slice of the record store the migrator consumes. Mutations
// are expected to be staged until Commit makes them durable; everything
// staged after the last successful Commit may be lost on a crash.
type Store interface {
	// Unconverted returns all entries with is_converted == false.
	Unconverted(ctx context.Context) ([]*models.Entry, error)
	// UnconvertedByID returns the matching unconverted entry, or nil if
	// there is none.
	UnconvertedByID(ctx context.Context, id string) (*models.Entry, error)
	// InsertBlock attaches a newly created block to its entry.
	InsertBlock(ctx context.Context, b *models.Block) error
	// DeleteBlock removes a previously attached block.
	DeleteBlock(ctx context.Context, b *models.Block) error
	// SaveEntry records the entry's mutated fields.
	SaveEntry(ctx context.Context, e *models.Entry) error
	// Commit durably persists all pending mutations.
	Commit(ctx context.Context) error
}

// RunState is an observable snapshot of a migration run.
type RunState struct {
	Running      bool
	Processed    int
	Total        int
	Progress     float64
	CurrentTitle string
}

// Migrator converts legacy flat-text entries into their block
// representation, checkpointing as it goes, and can reverse a conversion.
// All state transitions are idempotent: converting a converted entry and
// rolling back an unconverted one are both no-ops.
type Migrator struct {
	store           Store
	checkpointEvery int
	logger          *slog.Logger

	mu           sync.Mutex
	running      bool
	processed    int
	total        int
	progress     float64
	currentTitle string
}

// NewMigrator creates a migrator. checkpointEvery <= 0 selects the default
// cadence of one commit per ten completed entries.
func NewMigrator(store Store, checkpointEvery int, log *slog.Logger) *Migrator {
	if checkpointEvery <= 0 {
		checkpointEvery = DefaultCheckpointEvery
	}
	if log == nil {
		log = slog.Default()
	}
	return &Migrator{
		store:           store,
		checkpointEvery: checkpointEvery,
		logger:          log,
	}
}

// Snapshot returns a copy of the current run state.
func (m *Migrator) Snapshot() RunState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return RunState{
		Running:      m.running,
		Processed:    m.processed,
		Total:        m.total,
		Progress:     m.progress,
		CurrentTitle: m.currentTitle,
	}
}

// NeedsMigration reports whether any entry still awaits conversion. A
// store failure here is treated as "nothing to do" rather than surfaced;
// this is a non-destructive pre-flight check.
func (m *Migrator) NeedsMigration(ctx context.Context) bool {
	entries, err := m.store.Unconverted(ctx)
	if err != nil {
		m.logger.Warn("needs-migration check failed", "error", err)
		return false
	}
	return len(entries) > 0
}

// MigrateAll converts every currently unconverted entry. The set is
// fetched once up front; entries becoming unconverted mid-run wait for the
// next call. A call while a run is already in progress is a no-op.
//
// Per-entry failures are logged and skipped. Store-level failures (the
// initial fetch, any commit) abort the run and propagate to the caller,
// leaving the store in its last-committed, re-runnable state.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.logger.Info("migration already in progress, ignoring request")
		return nil
	}
	m.running = true
	m.processed = 0
	m.total = 0
	m.progress = 0
	m.currentTitle = ""
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.currentTitle = ""
		m.mu.Unlock()
	}()

	entries, err := m.store.Unconverted(ctx)
	if err != nil {
		return fmt.Errorf("fetch unconverted entries: %w", err)
	}

	m.mu.Lock()
	m.total = len(entries)
	m.mu.Unlock()

	if len(entries) == 0 {
		m.mu.Lock()
		m.progress = 1
		m.mu.Unlock()
		m.logger.Info("no entries need migration")
		return nil
	}

	m.logger.Info("starting migration", "entries", len(entries), "checkpoint_every", m.checkpointEvery)

	for i, entry := range entries {
		// Cooperative cancellation between entries. Uncommitted work is
		// discarded and the affected entries stay re-runnable.
		if err := ctx.Err(); err != nil {
			return err
		}

		m.mu.Lock()
		m.currentTitle = entry.Title
		m.mu.Unlock()

		if err := m.MigrateOne(ctx, entry); err != nil {
			// One bad entry must not abort the batch; it stays
			// unconverted and is retried on the next run.
			m.logger.Warn("entry migration failed, skipping",
				"entry", entry.Title, "error", err)
		}

		done := i + 1
		m.mu.Lock()
		m.processed = done
		m.progress = float64(done) / float64(len(entries))
		m.mu.Unlock()

		if done%m.checkpointEvery == 0 {
			if err := m.store.Commit(ctx); err != nil {
				return fmt.Errorf("checkpoint commit: %w", err)
			}
			m.logger.Debug("checkpoint committed", "processed", done)
		}
	}

	// Final commit covers the tail that did not land on a checkpoint.
	if err := m.store.Commit(ctx); err != nil {
		return fmt.Errorf("final commit: %w", err)
	}

	m.mu.Lock()
	m.progress = 1
	m.mu.Unlock()

	m.logger.Info("migration complete", "entries", len(entries))
	return nil
}

// MigrateOne converts a single entry in place. Already-converted entries
// are left untouched. The conversion is durable only once a subsequent
// Commit succeeds.
func (m *Migrator) MigrateOne(ctx context.Context, entry *models.Entry) error {
	if entry.IsConverted {
		return nil
	}

	blocks := parser.ParseBlocks(entry.Content, entry.ID)
	for i := range blocks {
		if err := m.store.InsertBlock(ctx, &blocks[i]); err != nil {
			return fmt.Errorf("insert block %d: %w", i, err)
		}
	}

	entry.Blocks = blocks
	entry.IsConverted = true
	entry.Touch()

	if err := m.store.SaveEntry(ctx, entry); err != nil {
		// Keep the in-memory entry consistent with the store: it stays
		// unconverted and is picked up by the next run.
		entry.Blocks = nil
		entry.IsConverted = false
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// MigrateByID converts one specific unconverted entry and commits
// immediately. Returns ErrEntryNotFound when no unconverted entry matches.
func (m *Migrator) MigrateByID(ctx context.Context, id string) error {
	entry, err := m.store.UnconvertedByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch entry %s: %w", id, err)
	}
	if entry == nil {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}

	if err := m.MigrateOne(ctx, entry); err != nil {
		return err
	}
	if err := m.store.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	m.logger.Info("entry migrated", "entry", entry.Title)
	return nil
}

// Rollback reverses a conversion: the owned blocks are deleted, the flag
// is cleared and the change committed immediately. The raw content was
// never discarded, so rollback is lossless with respect to the original
// text; edits made to individual blocks since conversion are dropped.
// Rolling back an unconverted entry is a no-op.
func (m *Migrator) Rollback(ctx context.Context, entry *models.Entry) error {
	if !entry.IsConverted {
		return nil
	}

	for i := range entry.Blocks {
		if err := m.store.DeleteBlock(ctx, &entry.Blocks[i]); err != nil {
			return fmt.Errorf("delete block %d: %w", i, err)
		}
	}

	entry.Blocks = nil
	entry.IsConverted = false
	entry.Touch()

	if err := m.store.SaveEntry(ctx, entry); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	if err := m.store.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	m.logger.Info("entry rolled back", "entry", entry.Title)
	return nil
}
