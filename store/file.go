package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotJSON = errors.New("file store only holds JSON documents")

// File keeps every key in a single JSON document on disk. Values must be
// valid JSON so the file stays human-readable.
type File struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]json.RawMessage
}

// NewFile loads the store from filePath, or starts empty if the file does not
// exist. Returns an error only on unexpected I/O failures or a corrupt file.
func NewFile(filePath string) (*File, error) {
	f := &File{filePath: filePath, data: map[string]json.RawMessage{}}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	if f.data == nil {
		f.data = map[string]json.RawMessage{}
	}
	return f, nil
}

func (f *File) Load(key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Save writes the whole document atomically, then updates in-memory state.
func (f *File) Save(key string, value []byte) error {
	if !json.Valid(value) {
		return ErrNotJSON
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.copyData()
	next[key] = append(json.RawMessage(nil), value...)
	if err := f.writeAtomic(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	next := f.copyData()
	delete(next, key)
	if err := f.writeAtomic(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *File) Close() error { return nil }

// writeAtomic writes to a temp file then renames it over filePath.
// Caller must hold f.mu.
func (f *File) writeAtomic(data map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(f.filePath), 0755); err != nil {
		return err
	}

	tmp := f.filePath + ".tmp"
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.filePath)
}

func (f *File) copyData() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(f.data)+1)
	for k, v := range f.data {
		out[k] = v
	}
	return out
}
