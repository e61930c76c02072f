package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cirovladimir/ral-color-mix/internal/db"
	"github.com/cirovladimir/ral-color-mix/internal/kv"
	"github.com/cirovladimir/ral-color-mix/internal/migrations"
	"github.com/cirovladimir/ral-color-mix/internal/mixes"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	store := kv.NewSQLite(database)

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, store)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 3 {
				t.Fatalf("expected 3 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM kv_entries`).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestRunKeepsExistingData(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	if err := store.Set(ctx, mixes.CostsKey, `{"Negro":"120"}`); err != nil {
		t.Fatalf("prime costs: %v", err)
	}

	stats, err := Run(ctx, store)
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 2 {
		t.Fatalf("expected 2 inserts, got %d", stats.Inserts)
	}

	costs := mixes.NewDraftStore(store, nil).LoadCosts(ctx)
	if costs["Negro"] != "120" {
		t.Fatalf("existing costs were overwritten: %v", costs)
	}
}
