package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"focusclock/internal/core/model"

	"gopkg.in/yaml.v3"
)

const positionFileName = "position.yaml"

// PositionStore persists the companion window position to a YAML file.
type PositionStore struct {
	mu   sync.Mutex
	path string
}

// NewPositionStore creates a store backed by position.yaml inside dir.
func NewPositionStore(dir string) *PositionStore {
	return &PositionStore{path: filepath.Join(dir, positionFileName)}
}

// Path returns the backing file.
func (store *PositionStore) Path() string {
	return store.path
}

// Load reads the last saved position.
// A missing file yields the default position and no error; an unreadable or
// malformed file yields the default position and the cause.
func (store *PositionStore) Load() (model.WindowPosition, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	position := model.DefaultWindowPosition()
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return position, nil
		}
		return position, fmt.Errorf("read position file: %w", err)
	}

	var fileData struct {
		X *int `yaml:"x"`
		Y *int `yaml:"y"`
	}
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return position, fmt.Errorf("parse position yaml: %w", err)
	}
	if fileData.X == nil || fileData.Y == nil {
		return position, fmt.Errorf("parse position yaml: missing coordinate in %s", store.path)
	}

	return model.WindowPosition{X: *fileData.X, Y: *fileData.Y}, nil
}

// Save writes the position, replacing the previous file atomically.
func (store *PositionStore) Save(position model.WindowPosition) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create position directory: %w", err)
	}

	serialized, err := yaml.Marshal(position)
	if err != nil {
		return fmt.Errorf("marshal position yaml: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write position file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace position file: %w", err)
	}

	return nil
}
