// Package file persists the registry as a JSON snapshot on the local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vadimbarashkov/shortlink-registry/internal/adapter/repository/snapshot"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

const filePerm = 0o644

type Backend struct {
	path string
}

func New(path string) *Backend {
	return &Backend{path: path}
}

// Load reads the snapshot. A missing file is an empty registry.
func (b *Backend) Load(ctx context.Context) ([]*entity.URLRecord, error) {
	const op = "adapter.repository.file.Backend.Load"

	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*entity.URLRecord{}, nil
		}

		return nil, fmt.Errorf("%s: failed to read %s: %w", op, b.path, err)
	}

	records, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// Save replaces the snapshot atomically by writing a temporary file and renaming it.
func (b *Backend) Save(ctx context.Context, records []*entity.URLRecord) error {
	const op = "adapter.repository.file.Backend.Save"

	data, err := snapshot.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: failed to create %s: %w", op, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: failed to write temp file: %w", op, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: failed to sync temp file: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: failed to close temp file: %w", op, err)
	}

	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return fmt.Errorf("%s: failed to chmod temp file: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("%s: failed to replace %s: %w", op, b.path, err)
	}

	return nil
}
