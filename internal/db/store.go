package db

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/surrealdb/surrealdb.go"

	"github.com/raphaelgruber/noteblocks/internal/models"
)

// Store is the record store consumed by the migration engine. Reads go
// straight to the database; mutations are staged in memory and flushed as a
// single transactional batch by Commit. A checkpoint commit is therefore a
// real durability boundary: staged work that never reaches Commit is lost,
// which is exactly the crash contract the engine is built around.
type Store struct {
	client *Client

	mu    sync.Mutex
	stmts []string
	vars  map[string]any
	seq   int
}

// NewStore creates a store on top of an established client connection.
func NewStore(client *Client) *Store {
	return &Store{
		client: client,
		vars:   make(map[string]any),
	}
}

// nextPrefix reserves a unique variable namespace for one staged statement.
// Must be called with s.mu held.
func (s *Store) nextPrefix() string {
	p := fmt.Sprintf("v%d", s.seq)
	s.seq++
	return p
}

// Pending reports the number of staged, uncommitted statements.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stmts)
}

// InsertBlock stages the creation of a newly parsed block.
func (s *Store) InsertBlock(ctx context.Context, b *models.Block) error {
	data := map[string]any{
		"entry":      b.Entry,
		"type":       string(b.Type),
		"content":    b.Content,
		"position":   b.Position,
		"created_at": b.CreatedAt,
	}
	if b.Language != nil {
		data["language"] = *b.Language
	}
	if b.Checked != nil {
		data["checked"] = *b.Checked
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.nextPrefix()
	s.stmts = append(s.stmts, fmt.Sprintf("CREATE $%[1]s_id CONTENT $%[1]s_data;", p))
	s.vars[p+"_id"] = b.ID
	s.vars[p+"_data"] = data
	return nil
}

// DeleteBlock stages the removal of a previously attached block.
func (s *Store) DeleteBlock(ctx context.Context, b *models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.nextPrefix()
	s.stmts = append(s.stmts, fmt.Sprintf("DELETE $%s_id;", p))
	s.vars[p+"_id"] = b.ID
	return nil
}

// SaveEntry stages an update of the entry's mutable fields.
func (s *Store) SaveEntry(ctx context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.nextPrefix()
	s.stmts = append(s.stmts, fmt.Sprintf("UPDATE $%[1]s_id MERGE $%[1]s_data;", p))
	s.vars[p+"_id"] = e.ID
	s.vars[p+"_data"] = map[string]any{
		"title":        e.Title,
		"content":      e.Content,
		"is_converted": e.IsConverted,
		"modified_at":  e.ModifiedAt,
	}
	return nil
}

// Commit durably persists all staged mutations in one transaction. A
// commit with nothing staged is a no-op. The buffer is discarded either
// way; on failure the staged work is simply lost and the affected entries
// remain re-runnable.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	if len(s.stmts) == 0 {
		s.mu.Unlock()
		return nil
	}
	sql := "BEGIN TRANSACTION;\n" + strings.Join(s.stmts, "\n") + "\nCOMMIT TRANSACTION;"
	vars := s.vars
	s.stmts = nil
	s.vars = make(map[string]any)
	s.mu.Unlock()

	if _, err := s.client.Query(ctx, sql, vars); err != nil {
		return fmt.Errorf("commit: %w", wrapQueryError(err))
	}
	return nil
}

// Unconverted returns all entries still awaiting conversion, in store
// default order. Blocks are not loaded; unconverted entries have none.
func (s *Store) Unconverted(ctx context.Context) ([]*models.Entry, error) {
	results, err := surrealdb.Query[[]*models.Entry](ctx, s.client.db, `
		SELECT * FROM entry WHERE is_converted = false
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch unconverted: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []*models.Entry{}, nil
	}
	return (*results)[0].Result, nil
}

// UnconvertedByID returns the unconverted entry with the given id, or nil
// if no such entry exists (missing or already converted).
func (s *Store) UnconvertedByID(ctx context.Context, id string) (*models.Entry, error) {
	results, err := surrealdb.Query[[]*models.Entry](ctx, s.client.db, `
		SELECT * FROM type::record("entry", $id) WHERE is_converted = false
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("fetch unconverted by id: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return (*results)[0].Result[0], nil
}

// Entry loads one entry with its block collection in position order.
// Returns ErrNotFound if the entry does not exist.
func (s *Store) Entry(ctx context.Context, id string) (*models.Entry, error) {
	results, err := surrealdb.Query[[]*models.Entry](ctx, s.client.db, `
		SELECT * FROM type::record("entry", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("fetch entry: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, ErrNotFound
	}
	entry := (*results)[0].Result[0]

	blocks, err := s.Blocks(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Blocks = blocks
	return entry, nil
}

// Blocks returns an entry's blocks ordered by position.
func (s *Store) Blocks(ctx context.Context, entryID string) ([]models.Block, error) {
	results, err := surrealdb.Query[[]models.Block](ctx, s.client.db, `
		SELECT * FROM block WHERE entry = type::record("entry", $id) ORDER BY position
	`, map[string]any{"id": entryID})
	if err != nil {
		return nil, fmt.Errorf("fetch blocks: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Block{}, nil
	}
	return (*results)[0].Result, nil
}

// ListEntries returns entries ordered by creation time, newest first.
func (s *Store) ListEntries(ctx context.Context, limit int) ([]models.Entry, error) {
	results, err := surrealdb.Query[[]models.Entry](ctx, s.client.db, `
		SELECT * FROM entry ORDER BY created_at DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Entry{}, nil
	}
	return (*results)[0].Result, nil
}

// EntryCounts returns how many entries are converted and unconverted.
func (s *Store) EntryCounts(ctx context.Context) (converted, unconverted int, err error) {
	type stateCount struct {
		IsConverted bool `json:"is_converted"`
		Count       int  `json:"count"`
	}
	results, err := surrealdb.Query[[]stateCount](ctx, s.client.db, `
		SELECT is_converted, count() AS count FROM entry GROUP BY is_converted
	`, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("entry counts: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return 0, 0, nil
	}
	for _, c := range (*results)[0].Result {
		if c.IsConverted {
			converted = c.Count
		} else {
			unconverted = c.Count
		}
	}
	return converted, unconverted, nil
}

// CreateEntry persists a new entry immediately, outside the staged batch.
// Used by interactive ingestion, not by the migration engine.
func (s *Store) CreateEntry(ctx context.Context, e *models.Entry) error {
	_, err := s.client.Query(ctx, `CREATE $id CONTENT $data`, map[string]any{
		"id": e.ID,
		"data": map[string]any{
			"title":        e.Title,
			"content":      e.Content,
			"is_converted": e.IsConverted,
			"created_at":   e.CreatedAt,
			"modified_at":  e.ModifiedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("create entry: %w", wrapQueryError(err))
	}
	return nil
}

// DeleteEntry removes an entry together with its owned blocks.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	_, err := s.client.Query(ctx, `
		BEGIN TRANSACTION;
		DELETE block WHERE entry = type::record("entry", $id);
		DELETE type::record("entry", $id);
		COMMIT TRANSACTION;
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete entry: %w", wrapQueryError(err))
	}
	return nil
}
