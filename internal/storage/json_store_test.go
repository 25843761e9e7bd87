package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONStoreLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "retcal.json")

	store := NewJSONStore(path)
	if err := store.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Load() before Init error = %v, want ErrNotInitialized", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.WriteSlot("keep", []byte(`true`)); err != nil {
		t.Fatalf("WriteSlot() error = %v", err)
	}
	if err := NewJSONStore(path).Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || !strings.Contains(string(data), "keep") {
		t.Fatalf("second Init() discarded existing slots: %s, %v", data, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("storage file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("storage file mode = %v, want 0600", info.Mode().Perm())
	}

	if _, err := store.ReadSlot("k"); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("ReadSlot() error = %v, want ErrSlotEmpty", err)
	}
	if err := store.WriteSlot("k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteSlot() error = %v", err)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := reopened.ReadSlot("k")
	if err != nil {
		t.Fatalf("ReadSlot() error = %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("ReadSlot() = %s, want {\"a\":1}", got)
	}
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", reopened.GetConfigPath(), path)
	}
}

func TestJSONStoreRejectsInvalidJSON(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "retcal.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.WriteSlot("k", []byte(`{"a":`)); err == nil {
		t.Fatal("WriteSlot() expected error for invalid JSON")
	}
	if _, err := store.ReadSlot("k"); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("rejected write left slot populated: %v", err)
	}
}

func TestJSONStoreWriteFailureRestoresSlot(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONStore(filepath.Join(dir, "retcal.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.WriteSlot("k", []byte(`1`)); err != nil {
		t.Fatalf("WriteSlot() error = %v", err)
	}

	// Point the store at a directory that no longer exists.
	store.path = filepath.Join(dir, "gone", "retcal.json")
	if err := store.WriteSlot("k", []byte(`2`)); err == nil {
		t.Fatal("WriteSlot() expected error")
	}
	got, err := store.ReadSlot("k")
	if err != nil {
		t.Fatalf("ReadSlot() error = %v", err)
	}
	if string(got) != "1" {
		t.Errorf("slot = %s after failed write, want 1", got)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retcal.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONStore(path).Load(); err == nil {
		t.Error("Load() expected error for corrupt file")
	}
}

func TestJSONStoreNotLoaded(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "retcal.json"))
	if _, err := store.ReadSlot("k"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("ReadSlot() error = %v, want ErrNotLoaded", err)
	}
	if err := store.WriteSlot("k", []byte("1")); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("WriteSlot() error = %v, want ErrNotLoaded", err)
	}
}
