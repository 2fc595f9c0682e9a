package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yumelog/yumelog/internal/model"
	"github.com/yumelog/yumelog/internal/store"
	"github.com/yumelog/yumelog/internal/store/storetest"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewWithDB(db)
}

func TestStoreCompliance(t *testing.T) {
	storetest.Run(t, newTestStore)
}

// Deleting an entry removes its tag links but keeps the tag vocabulary rows.
func TestDeleteKeepsTagRows(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := NewWithDB(db)
	defer st.Close()

	created, err := st.Dreams().Create(ctx, &model.Dream{
		Date:  "2025-03-10",
		Title: "t",
		Body:  "b",
		Tags:  model.TagSet{"location": {"lake"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Dreams().Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var links int
	if err := db.QueryRow(`SELECT COUNT(*) FROM dream_tags`).Scan(&links); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Fatalf("want 0 dream_tags rows after delete, got %d", links)
	}
	var vocab int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&vocab); err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if vocab != 1 {
		t.Fatalf("want orphan tag row retained, got %d rows", vocab)
	}
}

// Migrations are versioned; applying them twice is a no-op.
func TestMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
