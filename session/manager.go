package session

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"datatable/store"
)

// Manager holds one Session per table. Each table gets its own store
// namespace, so two tables never share presets or display settings.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    store.Store
	opts     Options
}

// NewManager returns a Manager whose sessions persist in s and are built with
// opts.
func NewManager(s store.Store, opts Options) *Manager {
	return &Manager{sessions: make(map[string]*Session), store: s, opts: opts}
}

// Open returns the session for tableID, creating it on first use. An empty
// tableID creates a session under a fresh id.
func (m *Manager) Open(tableID string) (*Session, error) {
	if tableID == "" {
		tableID = uuid.NewString()
	}
	if !validTableID(tableID) {
		return nil, ErrInvalidTableID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[tableID]; ok {
		return s, nil
	}
	s := New(tableID, store.Namespace(m.store, "tables/"+tableID+"/"), m.opts)
	m.sessions[tableID] = s
	m.opts.Metrics.SessionOpened()
	return s, nil
}

func (m *Manager) Get(tableID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[tableID]
	return s, ok
}

// List returns the open sessions ordered by table id.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Close forgets the session for tableID. Its persisted data is kept.
func (m *Manager) Close(tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[tableID]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, tableID)
	m.opts.Metrics.SessionClosed()
	return nil
}

func validTableID(id string) bool {
	return len(id) <= 128 && strings.TrimSpace(id) == id && !strings.ContainsAny(id, "/\\")
}
