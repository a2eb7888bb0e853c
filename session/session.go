package session

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"datatable/metrics"
	"datatable/pipeline"
	"datatable/preset"
	"datatable/store"
	"datatable/tableconfig"
)

// State is the lifecycle state of a Session.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Options configures sessions. Zero values select the embedded catalog, the
// default sticky fields, no renderer and a discarding logger.
type Options struct {
	Catalog *preset.Catalog
	Sticky  *tableconfig.KeySet
	// External presets are merged ahead of the presets loaded from storage.
	External []preset.Preset
	Renderer Renderer
	Logger   logrus.FieldLogger
	Metrics  *metrics.Metrics
	// Locale is the BCP 47 tag used to collate sorted strings.
	Locale string
}

// Session owns the configuration of one table: the active configuration, the
// active preset id, the factory default and the preset list. Operations are
// serialised, so each one runs to completion (merge, commit, emit, persist)
// before the next is observed.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu         sync.Mutex
	state      State
	active     tableconfig.Config
	activeID   string
	factory    tableconfig.Config
	presets    []preset.Preset
	lastActive time.Time

	catalog  preset.Catalog
	sticky   tableconfig.KeySet
	external []preset.Preset
	pm       *preset.Manager
	renderer Renderer
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	locale   string
}

// New creates an uninitialized session for tableID whose presets persist in s.
func New(tableID string, s store.Store, opts Options) *Session {
	catalog := preset.BuiltinCatalog()
	if opts.Catalog != nil {
		catalog = *opts.Catalog
	}
	sticky := tableconfig.DefaultStickyFields()
	if opts.Sticky != nil {
		sticky = *opts.Sticky
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = nopRenderer{}
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	log = log.WithField("table", tableID)

	now := time.Now()
	sess := &Session{
		ID:         tableID,
		CreatedAt:  now,
		lastActive: now,
		activeID:   preset.DefaultID,
		catalog:    catalog,
		sticky:     sticky,
		external:   opts.External,
		pm:         preset.NewManager(s, log),
		renderer:   renderer,
		log:        log,
		metrics:    opts.Metrics,
		locale:     opts.Locale,
	}
	sess.reload()
	return sess
}

// reload rebuilds the preset list: catalog, then external, then stored
// presets, deduplicated by id and reordered system-first.
// Caller must hold s.mu or own s exclusively.
func (s *Session) reload() {
	reserved := s.catalog.IDs()
	all := preset.Union(s.catalog.Presets(), s.external)
	all = preset.Union(all, s.pm.LoadCustom(reserved))
	system, custom := preset.Identify(all, reserved)
	s.presets = append(system, custom...)
}

// Reload re-reads presets the way a fresh process would. Session-only renames
// of system presets are lost; the active configuration is kept.
func (s *Session) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reload()
	s.touch()
}

// Supply hands the session an external configuration. The first call moves
// the session to Ready and freezes a copy as the factory default; if a
// committed display snapshot exists it becomes the active configuration.
// Later calls replace the active configuration only.
func (s *Session) Supply(cfg tableconfig.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()

	if s.state == Ready {
		s.active = cloneOrEmpty(cfg)
		return
	}
	s.state = Ready
	s.factory = cloneOrEmpty(cfg)
	s.active = cloneOrEmpty(cfg)
	if snap, ok := s.pm.LoadDisplay(); ok {
		s.active = snap.Config
		if snap.PresetID != "" {
			s.activeID = snap.PresetID
		}
		s.log.WithField("preset", s.activeID).Debug("Restored committed display settings.")
	}
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveConfig returns a copy of the active configuration.
func (s *Session) ActiveConfig() tableconfig.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tableconfig.Clone(s.active)
}

// Display returns the typed view of the active configuration.
func (s *Session) Display() tableconfig.Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tableconfig.Resolve(s.active)
}

// ActivePresetID returns the id of the selected preset. It may name a preset
// that no longer exists.
func (s *Session) ActivePresetID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// FactoryDefault returns a copy of the configuration captured on the first
// Supply, or nil before that.
func (s *Session) FactoryDefault() tableconfig.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tableconfig.Clone(s.factory)
}

// Presets returns copies of the system and custom presets, system first.
func (s *Session) Presets() []preset.Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]preset.Preset, len(s.presets))
	for i, p := range s.presets {
		out[i] = p.Clone()
	}
	return out
}

// Recent returns the recently applied preset ids, most recent first.
func (s *Session) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pm.Recent()
}

// Field returns the active value of key.
func (s *Session) Field(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.active[key]
	if !ok {
		return nil, false
	}
	return tableconfig.Clone(tableconfig.Config{key: v})[key], true
}

// SetField assigns one option of the active configuration. Nothing is
// emitted or persisted.
func (s *Session) SetField(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return &ValidationError{Field: "key", Reason: "option name is required"}
	}
	s.active[key] = tableconfig.Clone(tableconfig.Config{key: value})[key]
	s.touch()
	return nil
}

// View derives the displayed rows. The query stored in the active
// configuration is used unless override is non-nil.
func (s *Session) View(rows []pipeline.Row, override *pipeline.Query) pipeline.Result {
	s.mu.Lock()
	q := pipeline.QueryFromConfig(s.active)
	s.mu.Unlock()
	if override != nil {
		q = *override
	}
	if q.Locale == "" {
		q.Locale = s.locale
	}
	res := pipeline.Apply(rows, q)
	s.metrics.Pipeline(len(rows), len(res.Groups))
	return res
}

// Summary is the listing form of a session.
type Summary struct {
	ID             string    `json:"id"`
	State          string    `json:"state"`
	ActivePresetID string    `json:"activePresetId"`
	Presets        int       `json:"presets"`
	CreatedAt      time.Time `json:"created_at"`
	LastActive     time.Time `json:"last_active"`
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:             s.ID,
		State:          s.state.String(),
		ActivePresetID: s.activeID,
		Presets:        len(s.presets),
		CreatedAt:      s.CreatedAt,
		LastActive:     s.lastActive,
	}
}

func (s *Session) ready() error {
	if s.state != Ready {
		return ErrNotReady
	}
	return nil
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

// emit hands a copy of the active configuration to the renderer.
func (s *Session) emit() {
	s.renderer.Render(s.ID, tableconfig.Clone(s.active))
}

func (s *Session) exists(id string) bool {
	_, ok := preset.Find(s.presets, id)
	return ok
}

func (s *Session) persistErr(key string, err error) error {
	if err == nil {
		return nil
	}
	s.log.WithError(err).WithField("key", key).Error("Failed to persist, in-memory change kept.")
	return &PersistenceError{Key: key, Err: err}
}

func cloneOrEmpty(c tableconfig.Config) tableconfig.Config {
	if c == nil {
		return tableconfig.Config{}
	}
	return tableconfig.Clone(c)
}

func describe(p preset.Preset) string {
	if p.Name == "" {
		return p.ID
	}
	return fmt.Sprintf("%q", p.Name)
}
