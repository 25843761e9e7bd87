package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/retcal/internal/constants"
	"github.com/julianstephens/retcal/internal/logger"
	"github.com/julianstephens/retcal/internal/models"
)

// DecodeDocument parses a persisted goal collection. A bare JSON array is the
// unversioned browser format and is read as version 0. Records without a
// groupId fall back to their own id as group key.
func DecodeDocument(data []byte) (models.GoalDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return models.GoalDocument{Version: constants.SchemaVersion}, nil
	}

	var doc models.GoalDocument
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc.Goals); err != nil {
			return models.GoalDocument{}, fmt.Errorf("failed to parse legacy goal list: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &doc); err != nil {
		return models.GoalDocument{}, fmt.Errorf("failed to parse goal document: %w", err)
	}

	if doc.Version > constants.SchemaVersion {
		return models.GoalDocument{}, fmt.Errorf("goal document version (%d) is newer than supported version (%d) - please upgrade the application", doc.Version, constants.SchemaVersion)
	}

	backfilled := 0
	for i := range doc.Goals {
		if doc.Goals[i].GroupID == "" {
			doc.Goals[i].GroupID = doc.Goals[i].ID
			backfilled++
		}
	}
	if backfilled > 0 {
		logger.Info("Backfilled group ids on legacy goal records", "count", backfilled)
	}

	return doc, nil
}

// EncodeDocument serializes goals at the current schema version.
func EncodeDocument(goals []models.GoalInstance) ([]byte, error) {
	if goals == nil {
		goals = []models.GoalInstance{}
	}
	data, err := json.Marshal(models.GoalDocument{
		Version: constants.SchemaVersion,
		Goals:   goals,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize goals: %w", err)
	}
	return data, nil
}

// LoadGoals reads the goal slot. An empty slot yields an empty collection.
func LoadGoals(p Provider) ([]models.GoalInstance, error) {
	data, err := p.ReadSlot(constants.StorageKey)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return []models.GoalInstance{}, nil
		}
		return nil, fmt.Errorf("failed to read goals: %w", err)
	}

	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.Goals == nil {
		doc.Goals = []models.GoalInstance{}
	}
	return doc.Goals, nil
}

// SaveGoals rewrites the goal slot with the full collection.
func SaveGoals(p Provider, goals []models.GoalInstance) error {
	data, err := EncodeDocument(goals)
	if err != nil {
		return err
	}
	if err := p.WriteSlot(constants.StorageKey, data); err != nil {
		return fmt.Errorf("failed to write goals: %w", err)
	}
	return nil
}
