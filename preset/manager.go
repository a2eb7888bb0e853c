package preset

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"datatable/store"
	"datatable/tableconfig"
)

// Store keys used by a Manager.
const (
	KeyPresets = "presets"
	KeyDisplay = "display"
	KeyRecent  = "recent"
)

const maxRecent = 10

// Manager reads and writes the persisted part of a table's presets: the
// custom preset list, the display-settings snapshot and the recently applied
// ids. Stored data that cannot be decoded is treated as absent.
type Manager struct {
	store store.Store
	log   logrus.FieldLogger
}

// NewManager returns a Manager over s. A nil logger discards output.
func NewManager(s store.Store, log logrus.FieldLogger) *Manager {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Manager{store: s, log: log}
}

// LoadCustom returns the persisted custom presets. Entries whose id is
// reserved are dropped: built-ins are never loaded from storage.
func (m *Manager) LoadCustom(reserved tableconfig.KeySet) []Preset {
	var list []Preset
	if !m.load(KeyPresets, &list) {
		return nil
	}
	system, custom := Identify(list, reserved)
	if len(system) > 0 {
		m.log.WithField("count", len(system)).Warn("Ignoring stored presets with reserved ids.")
	}
	return custom
}

// SaveCustom persists the custom entries of list.
func (m *Manager) SaveCustom(list []Preset) error {
	custom := Custom(list)
	if custom == nil {
		custom = []Preset{}
	}
	return m.save(KeyPresets, custom)
}

// ClearCustom removes every persisted custom preset.
func (m *Manager) ClearCustom() error {
	if err := m.store.Delete(KeyPresets); err != nil {
		return err
	}
	return m.store.Delete(KeyRecent)
}

// Snapshot is the committed display state of a table.
type Snapshot struct {
	PresetID string             `json:"presetId"`
	Config   tableconfig.Config `json:"config"`
}

// LoadDisplay returns the persisted display-settings snapshot.
func (m *Manager) LoadDisplay() (Snapshot, bool) {
	var snap Snapshot
	if !m.load(KeyDisplay, &snap) || snap.Config == nil {
		return Snapshot{}, false
	}
	return snap, true
}

// SaveDisplay persists the display-settings snapshot.
func (m *Manager) SaveDisplay(snap Snapshot) error {
	return m.save(KeyDisplay, snap)
}

// ClearDisplay removes the display-settings snapshot.
func (m *Manager) ClearDisplay() error {
	return m.store.Delete(KeyDisplay)
}

// Recent returns the recently applied preset ids, most recent first.
func (m *Manager) Recent() []string {
	var ids []string
	m.load(KeyRecent, &ids)
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// MarkUsed prepends id to the recently applied list, deduplicating, capping
// at 10 and dropping ids for which exists reports false. An id that does not
// exist itself is silently ignored.
func (m *Manager) MarkUsed(id string, exists func(id string) bool) error {
	if !exists(id) {
		return nil
	}
	seen := map[string]bool{id: true}
	next := []string{id}
	for _, eid := range m.Recent() {
		if seen[eid] || !exists(eid) {
			continue
		}
		seen[eid] = true
		next = append(next, eid)
		if len(next) == maxRecent {
			break
		}
	}
	return m.save(KeyRecent, next)
}

func (m *Manager) load(key string, dst any) bool {
	raw, err := m.store.Load(key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.log.WithError(err).WithField("key", key).Warn("Failed to read stored presets, using defaults.")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		m.log.WithError(err).WithField("key", key).Warn("Discarding unparseable stored data.")
		return false
	}
	return true
}

func (m *Manager) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.store.Save(key, data)
}
