package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileAdapter stores string values by key in a single JSON document on disk, much like a
// browser's local storage. Other keys in the document are preserved on save.
type FileAdapter struct {
	mu     sync.Mutex
	path   string
	key    string
	logger *zap.Logger
}

func NewFileAdapter(path, key string, logger *zap.Logger) *FileAdapter {
	return &FileAdapter{path: path, key: key, logger: logger.Named("file")}
}

func (f *FileAdapter) Path() string { return f.path }

func (f *FileAdapter) Load(_ context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	value, ok := entries[f.key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

func (f *FileAdapter) Save(_ context.Context, blob []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		// missing or unreadable documents are replaced wholesale
		if !errors.Is(err, ErrNotFound) {
			f.logger.Warn("Storage file is unreadable, replacing it and any other keys it held",
				zap.String("path", f.path), zap.Error(err))
		}
		entries = map[string]string{}
	}
	entries[f.key] = string(blob)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}
	return writeAtomic(f.path, data)
}

func (f *FileAdapter) Close() error { return nil }

func (f *FileAdapter) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse storage file %s: %w", f.path, err)
	}
	if entries == nil {
		return nil, ErrNotFound
	}
	return entries, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
