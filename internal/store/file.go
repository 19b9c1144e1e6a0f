package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hilite-dev/hilite/internal/anchor"
)

// FileStore keeps one JSON file per slot under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	// Keys are document IDs; path components are stripped.
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

func (s *FileStore) Save(ctx context.Context, key string, pair anchor.Pair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}
	// Temp file + rename: the slot file is replaced atomically.
	tmp, err := os.CreateTemp(s.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close slot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace slot: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, key string) (anchor.Pair, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return anchor.Pair{}, false, nil
	}
	if err != nil {
		return anchor.Pair{}, false, fmt.Errorf("read slot: %w", err)
	}
	var pair anchor.Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return anchor.Pair{}, false, fmt.Errorf("decode slot: %w", err)
	}
	return pair, true, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
