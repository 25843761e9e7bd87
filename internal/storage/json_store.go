package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore keeps every slot in one JSON object on disk, the file-backed
// counterpart of browser local storage.
type JSONStore struct {
	path  string
	slots map[string]json.RawMessage
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Re-running init keeps existing data, as the database stores do
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.slots = make(map[string]json.RawMessage)
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	slots := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &slots); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.slots = slots

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) ReadSlot(key string) ([]byte, error) {
	if s.slots == nil {
		return nil, ErrNotLoaded
	}
	raw, ok := s.slots[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, ErrSlotEmpty
	}
	return []byte(raw), nil
}

func (s *JSONStore) WriteSlot(key string, value []byte) error {
	if s.slots == nil {
		return ErrNotLoaded
	}
	if !json.Valid(value) {
		return fmt.Errorf("slot %q value is not valid JSON", key)
	}

	previous, had := s.slots[key]
	s.slots[key] = json.RawMessage(value)
	if err := s.save(); err != nil {
		// Keep memory in step with what is on disk
		if had {
			s.slots[key] = previous
		} else {
			delete(s.slots, key)
		}
		return err
	}
	return nil
}

// save writes to a temp file in the same directory and renames it over the
// target so a failed write never truncates existing data.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.slots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".retcal-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the underlying storage file.
//
// Running multiple retcal processes against the same file at the same time is
// not supported; the last writer wins.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
