package webhookcache

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileData is the on-disk shape, kept compatible with the data files
// written by earlier deployments of the bridge.
type fileData struct {
	Webhooks map[string]map[string]string `json:"webhooks"`
}

// FileStore persists the cache as a single JSON file with whole-file
// overwrite semantics. No partial-write durability is promised.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (map[string]map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return data.Webhooks, nil
}

func (s *FileStore) Save(hooks map[string]map[string]string) error {
	raw, err := json.Marshal(fileData{Webhooks: hooks})
	if err != nil {
		return fmt.Errorf("serialize webhook cache: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
