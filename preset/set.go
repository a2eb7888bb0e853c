package preset

import (
	"strings"

	"datatable/tableconfig"
)

// Identify partitions all by membership in reserved. A preset whose id is
// reserved is always system, whatever channel it arrived through, so a custom
// entry can never shadow a built-in. IsSystem is normalised on the results.
func Identify(all []Preset, reserved tableconfig.KeySet) (system, custom []Preset) {
	for _, p := range all {
		p.IsSystem = reserved.Has(p.ID)
		if p.IsSystem {
			system = append(system, p)
		} else {
			custom = append(custom, p)
		}
	}
	return system, custom
}

// Union concatenates a and b and drops repeated ids. The first occurrence
// wins and the order a-then-b is preserved.
func Union(a, b []Preset) []Preset {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]Preset, 0, len(a)+len(b))
	for _, list := range [][]Preset{a, b} {
		for _, p := range list {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}

// Find returns the preset with id.
func Find(list []Preset, id string) (Preset, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// FindByName returns the first preset whose name matches, ignoring case and
// surrounding whitespace.
func FindByName(list []Preset, name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range list {
		if strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return p, true
		}
	}
	return Preset{}, false
}

// UpsertByName appends p under a freshly generated id. When a preset with the
// same name exists, confirm decides: false leaves list untouched and reports
// ok=false; true removes the existing custom entry before appending. System
// presets are never removed, so overwriting a built-in's name adds a custom
// preset beside it.
func UpsertByName(list []Preset, p Preset, confirm func(existing Preset) bool) (out []Preset, added Preset, ok bool) {
	p.ID = NewID()
	p.IsSystem = false
	out = list
	if existing, found := FindByName(list, p.Name); found {
		if confirm == nil || !confirm(existing) {
			return list, Preset{}, false
		}
		if !existing.IsSystem {
			out = without(list, existing.ID)
		}
	}
	out = append(append(make([]Preset, 0, len(out)+1), out...), p)
	return out, p, true
}

// Rename sets the name of the preset with id. Other entries are unchanged.
func Rename(list []Preset, id, name string) []Preset {
	out := make([]Preset, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i].Name = name
		}
	}
	return out
}

// Remove drops the preset with id. Reserved ids are refused silently: the
// returned list has the same content as list.
func Remove(list []Preset, id string, reserved tableconfig.KeySet) []Preset {
	if reserved.Has(id) {
		return list
	}
	return without(list, id)
}

// Custom returns the non-system entries of list.
func Custom(list []Preset) []Preset {
	var out []Preset
	for _, p := range list {
		if !p.IsSystem {
			out = append(out, p)
		}
	}
	return out
}

func without(list []Preset, id string) []Preset {
	out := make([]Preset, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
