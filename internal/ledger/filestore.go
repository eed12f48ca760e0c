package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileStore keeps the key set in a single JSON document:
//
//	{"notified_slots": ["...", ...]}
//
// Writes go to a sibling temp file first and are moved into place with an
// atomic rename, so a crash mid-write never leaves a truncated document.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

type fileDoc struct {
	NotifiedSlots []string `json:"notified_slots"`
}

func (s *FileStore) Load(_ context.Context) ([]string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	var doc fileDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return doc.NotifiedSlots, nil
}

func (s *FileStore) Save(_ context.Context, keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	b, err := json.MarshalIndent(fileDoc{NotifiedSlots: keys}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
