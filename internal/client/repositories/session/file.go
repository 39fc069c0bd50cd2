package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository keeps session records in a small JSON file. It is a
// lightweight way to survive process restarts without a database. Writes go
// through a temp file and rename so a crash never leaves a half-written
// store behind. Stored values must themselves be valid JSON; they are
// embedded verbatim in the store file.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

type fileSnapshot struct {
	Session map[string]json.RawMessage `json:"session"`
}

func (r *FileRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load()
	if err != nil {
		return nil, err
	}
	v, ok := snap.Session[key]
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (r *FileRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load()
	if err != nil {
		return err
	}
	if snap.Session == nil {
		snap.Session = map[string]json.RawMessage{}
	}
	snap.Session[key] = json.RawMessage(value)
	return r.save(snap)
}

func (r *FileRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := snap.Session[key]; !ok {
		return nil
	}
	delete(snap.Session, key)
	return r.save(snap)
}

func (r *FileRepository) load() (fileSnapshot, error) {
	var snap fileSnapshot
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snap, nil
		}
		return snap, fmt.Errorf("read session store: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse session store: %w", err)
	}
	return snap, nil
}

func (r *FileRepository) save(snap fileSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create session store dir: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session store: %w", err)
	}
	return os.Rename(tmp, r.path)
}
