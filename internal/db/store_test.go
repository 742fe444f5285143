// Package db provides integration tests for the SurrealDB-backed store.
package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/raphaelgruber/noteblocks/internal/models"
	"github.com/raphaelgruber/noteblocks/internal/parser"
)

var testClient *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testClient, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testClient.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testClient.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if err := testClient.WipeData(context.Background()); err != nil {
		t.Fatalf("wipe data: %v", err)
	}
	return NewStore(testClient)
}

func mustCreate(t *testing.T, s *Store, title, content string) *models.Entry {
	t.Helper()
	entry := models.NewEntry(title, content)
	if err := s.CreateEntry(context.Background(), entry); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return entry
}

func TestUnconverted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	mustCreate(t, store, "first", "# One")
	mustCreate(t, store, "second", "# Two")

	entries, err := store.Unconverted(ctx)
	if err != nil {
		t.Fatalf("Unconverted failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 unconverted entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.IsConverted {
			t.Errorf("Entry %q unexpectedly converted", e.Title)
		}
	}
}

func TestStagedMutationsAreInvisibleUntilCommit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := mustCreate(t, store, "note", "# Title\n\nbody")

	blocks := parser.ParseBlocks(entry.Content, entry.ID)
	for i := range blocks {
		if err := store.InsertBlock(ctx, &blocks[i]); err != nil {
			t.Fatalf("InsertBlock failed: %v", err)
		}
	}
	entry.IsConverted = true
	entry.Touch()
	if err := store.SaveEntry(ctx, entry); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	// Nothing is durable yet
	id := models.MustRecordIDString(entry.ID)
	fetched, err := store.Entry(ctx, id)
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if fetched.IsConverted {
		t.Error("Entry converted before commit")
	}
	if len(fetched.Blocks) != 0 {
		t.Errorf("Entry has %d blocks before commit, want 0", len(fetched.Blocks))
	}

	if err := store.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	fetched, err = store.Entry(ctx, id)
	if err != nil {
		t.Fatalf("Entry after commit failed: %v", err)
	}
	if !fetched.IsConverted {
		t.Error("Entry not converted after commit")
	}
	if len(fetched.Blocks) != len(blocks) {
		t.Fatalf("Entry has %d blocks after commit, want %d", len(fetched.Blocks), len(blocks))
	}

	// Blocks come back in position order with their payloads intact
	for i, b := range fetched.Blocks {
		if b.Position != i {
			t.Errorf("block[%d].position = %d", i, b.Position)
		}
		if b.Type != blocks[i].Type || b.Content != blocks[i].Content {
			t.Errorf("block[%d] = {%s %q}, want {%s %q}",
				i, b.Type, b.Content, blocks[i].Type, blocks[i].Content)
		}
	}
}

func TestBlockMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := mustCreate(t, store, "code note", "```go\nx := 1\n```\n- [x] done")

	blocks := parser.ParseBlocks(entry.Content, entry.ID)
	for i := range blocks {
		if err := store.InsertBlock(ctx, &blocks[i]); err != nil {
			t.Fatalf("InsertBlock failed: %v", err)
		}
	}
	if err := store.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	got, err := store.Blocks(ctx, models.MustRecordIDString(entry.ID))
	if err != nil {
		t.Fatalf("Blocks failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(got))
	}

	if got[0].Type != models.BlockTypeCode {
		t.Errorf("block[0].type = %s, want code", got[0].Type)
	}
	if got[0].Language == nil || *got[0].Language != "go" {
		t.Errorf("block[0].language = %v, want go", got[0].Language)
	}
	if got[1].Type != models.BlockTypeChecklist {
		t.Errorf("block[1].type = %s, want checklist", got[1].Type)
	}
	if got[1].Checked == nil || !*got[1].Checked {
		t.Errorf("block[1].checked = %v, want true", got[1].Checked)
	}
	// Metadata that does not apply stays absent
	if got[1].Language != nil {
		t.Errorf("checklist block has language %q", *got[1].Language)
	}
	if got[0].Checked != nil {
		t.Errorf("code block has checked %v", *got[0].Checked)
	}
}

func TestUnconvertedByID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := mustCreate(t, store, "target", "text")
	id := models.MustRecordIDString(entry.ID)

	got, err := store.UnconvertedByID(ctx, id)
	if err != nil {
		t.Fatalf("UnconvertedByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected entry, got nil")
	}
	if got.Title != "target" {
		t.Errorf("title = %q, want target", got.Title)
	}

	// Converted entries no longer match
	entry.IsConverted = true
	if err := store.SaveEntry(ctx, entry); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	if err := store.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	got, err = store.UnconvertedByID(ctx, id)
	if err != nil {
		t.Fatalf("UnconvertedByID after convert failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for converted entry, got %v", got.Title)
	}

	got, err = store.UnconvertedByID(ctx, "missing-id")
	if err != nil {
		t.Fatalf("UnconvertedByID(missing) failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing id")
	}
}

func TestEntryCounts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	mustCreate(t, store, "a", "x")
	b := mustCreate(t, store, "b", "y")

	b.IsConverted = true
	if err := store.SaveEntry(ctx, b); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	if err := store.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	converted, unconverted, err := store.EntryCounts(ctx)
	if err != nil {
		t.Fatalf("EntryCounts failed: %v", err)
	}
	if converted != 1 || unconverted != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", converted, unconverted)
	}
}

func TestDeleteEntryCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := mustCreate(t, store, "doomed", "# gone\ntext")
	id := models.MustRecordIDString(entry.ID)

	blocks := parser.ParseBlocks(entry.Content, entry.ID)
	for i := range blocks {
		if err := store.InsertBlock(ctx, &blocks[i]); err != nil {
			t.Fatalf("InsertBlock failed: %v", err)
		}
	}
	if err := store.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if err := store.DeleteEntry(ctx, id); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	if _, err := store.Entry(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Entry after delete = %v, want ErrNotFound", err)
	}
	remaining, err := store.Blocks(ctx, id)
	if err != nil {
		t.Fatalf("Blocks failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("%d blocks survived entry deletion", len(remaining))
	}
}

func TestCommitWithNothingStagedIsNoop(t *testing.T) {
	store := newTestStore(t)
	if err := store.Commit(context.Background()); err != nil {
		t.Fatalf("empty Commit failed: %v", err)
	}
	if store.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", store.Pending())
	}
}
