package save

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per slot in a directory.
// Writes go to a temporary file which is synced and renamed over the slot
// file, so a failed write never leaves a partial save behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file a slot is stored in.
func (s *FileStore) Path(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

// Write atomically replaces the slot's file with data.
func (s *FileStore) Write(_ context.Context, slot string, data []byte) (err error) {
	if err := validSlot(slot); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp save file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync save: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close save: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.Path(slot)); err != nil {
		return fmt.Errorf("failed to move save into place: %w", err)
	}
	return nil
}

// Read returns the slot's contents.
func (s *FileStore) Read(_ context.Context, slot string) ([]byte, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return data, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
