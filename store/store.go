// Package store provides the string-keyed blob stores that back presets and
// display settings.
package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrClosed   = errors.New("store closed")
)

// Store is a synchronous key-value blob store. Load returns ErrNotFound for a
// missing key.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Open constructs the store for backend at path. path is a file for the file
// and sqlite backends and a directory for badger; memory ignores it.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendFile, "":
		return NewFile(path)
	case BackendMemory:
		return NewMemory(), nil
	case BackendBadger:
		return NewBadger(path)
	case BackendSQLite:
		return NewSQLite(path)
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

type namespaced struct {
	prefix string
	inner  Store
}

// Namespace scopes every key of s under prefix. Closing the returned store
// does not close s.
func Namespace(s Store, prefix string) Store {
	return &namespaced{prefix: prefix, inner: s}
}

func (n *namespaced) Load(key string) ([]byte, error) { return n.inner.Load(n.prefix + key) }

func (n *namespaced) Save(key string, value []byte) error { return n.inner.Save(n.prefix+key, value) }

func (n *namespaced) Delete(key string) error { return n.inner.Delete(n.prefix + key) }

func (n *namespaced) Close() error { return nil }
