package preset

import (
	"errors"

	"github.com/google/uuid"

	"datatable/tableconfig"
)

// DefaultID is the canonical system preset selected after a delete of the
// active preset or a factory reset.
const DefaultID = "default"

// Preset is a named, reusable bundle of table configuration options.
type Preset struct {
	ID       string             `json:"id" yaml:"id"`
	Name     string             `json:"name" yaml:"name"`
	Config   tableconfig.Config `json:"config" yaml:"config"`
	IsSystem bool               `json:"isSystem" yaml:"-"`
}

var ErrNotFound = errors.New("preset not found")

// NewID returns a fresh preset id.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a copy of p whose configuration shares no state with p.
func (p Preset) Clone() Preset {
	p.Config = tableconfig.Clone(p.Config)
	return p
}

func cloneAll(list []Preset) []Preset {
	out := make([]Preset, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}
