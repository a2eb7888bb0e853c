package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"datatable/metrics"
	"datatable/preset"
	"datatable/tableconfig"
)

// ApplyPreset makes the preset with id active. Its configuration is merged
// over the active one, sticky fields kept, and the result is emitted.
//
// An id that resolves to nothing is still selected: the active configuration
// is left alone, nothing is emitted and a *NotFoundError is returned.
func (s *Session) ApplyPreset(id string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("apply", err) }()
	if err := s.ready(); err != nil {
		return err
	}
	s.touch()

	p, ok := preset.Find(s.presets, id)
	s.activeID = id
	if !ok {
		s.log.WithField("preset", id).Warn("Selected preset does not exist, configuration unchanged.")
		return &NotFoundError{ID: id}
	}
	s.active = tableconfig.Merge(s.active, p.Config, s.sticky)
	s.emit()
	s.log.WithField("preset", id).Debug("Applied preset.")
	return s.persistErr(preset.KeyRecent, s.pm.MarkUsed(id, s.exists))
}

// SaveCurrentAsPreset stores a snapshot of the active configuration as a new
// custom preset named by prompt and makes it active. A name already in use
// is only replaced if confirm agrees.
func (s *Session) SaveCurrentAsPreset(prompt NamePrompter, confirm Confirmer) (p preset.Preset, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("save", err) }()
	if err := s.ready(); err != nil {
		return preset.Preset{}, err
	}
	name, ok := "", false
	if prompt != nil {
		name, ok = prompt.PromptName()
	}
	if !ok || strings.TrimSpace(name) == "" {
		return preset.Preset{}, &ValidationError{Field: "name", Reason: "preset name is required"}
	}
	return s.saveAs(name, tableconfig.Clone(s.active), confirm)
}

// SaveJSONEdit stores raw, a JSON object edited by hand, as a new custom
// preset named name and applies it.
func (s *Session) SaveJSONEdit(name string, raw []byte, confirm Confirmer) (p preset.Preset, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("save_json", err) }()
	if err := s.ready(); err != nil {
		return preset.Preset{}, err
	}
	if strings.TrimSpace(name) == "" {
		return preset.Preset{}, &ValidationError{Field: "name", Reason: "preset name is required"}
	}
	cfg, err := tableconfig.Parse(raw)
	if err != nil {
		return preset.Preset{}, &ValidationError{Field: "config", Reason: err.Error()}
	}
	return s.saveAs(name, cfg, confirm)
}

func (s *Session) saveAs(name string, cfg tableconfig.Config, confirm Confirmer) (preset.Preset, error) {
	name = strings.TrimSpace(name)
	list, added, ok := preset.UpsertByName(s.presets, preset.Preset{Name: name, Config: cfg}, func(existing preset.Preset) bool {
		return confirmed(confirm, fmt.Sprintf("A preset named %s already exists. Overwrite it?", describe(existing)))
	})
	if !ok {
		return preset.Preset{}, ErrAborted
	}
	s.touch()
	s.presets = list
	s.activeID = added.ID
	s.active = tableconfig.Merge(s.active, added.Config, s.sticky)
	s.emit()
	s.log.WithFields(logrus.Fields{"preset": added.ID, "name": name}).Info("Saved preset.")

	err := s.persistErr(preset.KeyPresets, s.pm.SaveCustom(s.presets))
	if rerr := s.pm.MarkUsed(added.ID, s.exists); err == nil {
		err = s.persistErr(preset.KeyRecent, rerr)
	}
	return added.Clone(), err
}

// RenamePreset changes the name of the preset with id. Renames of system
// presets last for this session only.
func (s *Session) RenamePreset(id, name string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("rename", err) }()
	if err := s.ready(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "preset name is required"}
	}
	p, ok := preset.Find(s.presets, id)
	if !ok {
		return &NotFoundError{ID: id}
	}
	s.touch()
	s.presets = preset.Rename(s.presets, id, name)
	if p.IsSystem {
		return nil
	}
	return s.persistErr(preset.KeyPresets, s.pm.SaveCustom(s.presets))
}

// DeletePreset removes the custom preset with id after confirm agrees. System
// presets are refused without error and report false. Deleting the active
// preset selects the default one.
func (s *Session) DeletePreset(id string, confirm Confirmer) (deleted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		s.record("delete", err)
		return false, err
	}
	p, ok := preset.Find(s.presets, id)
	if !ok {
		err := &NotFoundError{ID: id}
		s.record("delete", err)
		return false, err
	}
	if p.IsSystem || s.catalog.IDs().Has(id) {
		s.metrics.Op("delete", metrics.ResultRefused)
		return false, nil
	}
	if !confirmed(confirm, fmt.Sprintf("Delete preset %s?", describe(p))) {
		s.record("delete", ErrAborted)
		return false, ErrAborted
	}

	s.touch()
	s.presets = preset.Remove(s.presets, id, s.catalog.IDs())
	if s.activeID == id {
		s.activeID = preset.DefaultID
	}
	s.log.WithField("preset", id).Info("Deleted preset.")
	err = s.persistErr(preset.KeyPresets, s.pm.SaveCustom(s.presets))
	s.record("delete", err)
	return true, err
}

// FactoryReset restores the factory default configuration, drops every
// custom preset in memory and in storage, selects the default preset and
// emits the result. It does nothing unless confirm agrees.
func (s *Session) FactoryReset(confirm Confirmer) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("reset", err) }()
	if err := s.ready(); err != nil {
		return err
	}
	if !confirmed(confirm, "Reset all table settings and delete every custom preset?") {
		return ErrAborted
	}

	s.touch()
	s.active = cloneOrEmpty(s.factory)
	s.activeID = preset.DefaultID
	s.presets, _ = preset.Identify(s.catalog.Presets(), s.catalog.IDs())
	s.emit()
	s.log.Info("Reset table settings to factory defaults.")

	err = s.persistErr(preset.KeyPresets, s.pm.ClearCustom())
	if derr := s.pm.ClearDisplay(); err == nil {
		err = s.persistErr(preset.KeyDisplay, derr)
	}
	return err
}

// CommitAndClose emits the active configuration and stores it, together with
// the active preset id, as the table's display-settings snapshot.
func (s *Session) CommitAndClose() (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("commit", err) }()
	if err := s.ready(); err != nil {
		return err
	}
	s.touch()
	s.emit()
	snap := preset.Snapshot{PresetID: s.activeID, Config: tableconfig.Clone(s.active)}
	return s.persistErr(preset.KeyDisplay, s.pm.SaveDisplay(snap))
}

func (s *Session) record(op string, err error) {
	s.metrics.Op(op, resultOf(err))
}

func resultOf(err error) string {
	var (
		verr *ValidationError
		nerr *NotFoundError
		perr *PersistenceError
	)
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ErrAborted):
		return metrics.ResultAborted
	case errors.As(err, &nerr):
		return metrics.ResultNotFound
	case errors.As(err, &perr):
		return metrics.ResultPersistError
	case errors.As(err, &verr), errors.Is(err, ErrNotReady):
		return metrics.ResultInvalid
	default:
		return metrics.ResultPersistError
	}
}
