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
)

var _ Storage = (*File)(nil)

// File keeps every key in a single JSON object on disk. Writes go to a
// temporary file in the same directory and are renamed into place.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) GetItem(_ context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return "", false, err
	}

	value, ok := items[key]
	return value, ok, nil
}

func (f *File) SetItem(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}
	items[key] = value

	return f.write(items)
}

func (f *File) RemoveItem(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)

	return f.write(items)
}

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	if err = json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}
	return items, nil
}

func (f *File) write(items map[string]string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
