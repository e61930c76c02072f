package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cirovladimir/ral-color-mix/internal/db"
)

func TestUpCreatesKVTableAndIsRepeatable(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Up(ctx, database); err != nil {
			t.Fatalf("run migrations (iteration=%d): %v", i, err)
		}
	}

	if _, err := database.Exec(`INSERT INTO kv_entries (key, value) VALUES ('k', 'v')`); err != nil {
		t.Fatalf("insert into kv_entries: %v", err)
	}
}
