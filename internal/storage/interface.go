package storage

import "errors"

var (
	// ErrNotInitialized is returned by Load when the backing store does not exist yet
	ErrNotInitialized = errors.New("storage not initialized, run 'retcal init' first")
	// ErrNotLoaded is returned when a slot is accessed before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrSlotEmpty is returned when a slot has never been written
	ErrSlotEmpty = errors.New("slot is empty")
)

// Provider is a named-slot key-value store. Each slot holds one serialized
// document that is read whole and rewritten whole.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slots
	ReadSlot(key string) ([]byte, error)
	WriteSlot(key string, value []byte) error

	// Utils
	GetConfigPath() string
}
