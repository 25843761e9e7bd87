package sqlite

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/retcal/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSlots(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.ReadSlot("missing"); !errors.Is(err, storage.ErrSlotEmpty) {
		t.Fatalf("ReadSlot() on missing key error = %v, want ErrSlotEmpty", err)
	}

	if err := store.WriteSlot("k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteSlot() error = %v", err)
	}
	if err := store.WriteSlot("k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("WriteSlot() overwrite error = %v", err)
	}

	got, err := store.ReadSlot("k")
	if err != nil {
		t.Fatalf("ReadSlot() error = %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Errorf("ReadSlot() = %s, want {\"a\":2}", got)
	}

	var rows int
	if err := store.GetDB().QueryRow("SELECT count(*) FROM slots").Scan(&rows); err != nil {
		t.Fatalf("count slots: %v", err)
	}
	if rows != 1 {
		t.Errorf("slots has %d rows, want 1", rows)
	}
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first := NewStore(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := first.WriteSlot("k", []byte(`[]`)); err != nil {
		t.Fatalf("WriteSlot() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second := NewStore(dbPath)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer second.Close()

	got, err := second.ReadSlot("k")
	if err != nil {
		t.Fatalf("ReadSlot() error = %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("ReadSlot() = %s, want []", got)
	}

	applied, err := second.Migrate(func(string) {})
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("Migrate() applied %d migrations on an up-to-date database, want 0", applied)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestSlotsRequireLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if _, err := store.ReadSlot("k"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("ReadSlot() error = %v, want ErrNotLoaded", err)
	}
	if err := store.WriteSlot("k", []byte("{}")); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("WriteSlot() error = %v, want ErrNotLoaded", err)
	}
	if _, err := store.Migrate(nil); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("Migrate() error = %v, want ErrNotLoaded", err)
	}
}

func TestFailedOpenReleasesHandle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corrupt.db")
	if err := os.WriteFile(dbPath, bytes.Repeat([]byte("not a database "), 512), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dbPath)
	if err := store.Init(); err == nil {
		t.Fatal("Init() on a corrupt file should fail")
	}
	if store.GetDB() != nil {
		t.Error("Init() kept the database handle after failing")
	}

	if err := store.Load(); err == nil {
		t.Fatal("Load() on a corrupt file should fail")
	}
	if store.GetDB() != nil {
		t.Error("Load() kept the database handle after failing")
	}
	if err := store.Load(); err == nil {
		t.Error("second Load() reported success on a corrupt file")
	}
}
