package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/yumelog/yumelog/internal/store"
	"github.com/yumelog/yumelog/internal/store/storetest"
)

// TestStoreCompliance runs against a real Postgres when
// YUMELOG_POSTGRES_TEST_DSN is set; the database is truncated per subtest.
func TestStoreCompliance(t *testing.T) {
	dsn := os.Getenv("YUMELOG_POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("YUMELOG_POSTGRES_TEST_DSN not set; skipping postgres integration test")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		t.Helper()
		ctx := context.Background()
		db, err := Open(dsn)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := Migrate(ctx, db); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		if _, err := db.ExecContext(ctx, `TRUNCATE dreams, tags, dream_tags RESTART IDENTITY CASCADE`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return NewWithDB(db)
	})
}
