package tableconfig

import "sort"

// Well-known option keys.
const (
	KeyTitle          = "title"
	KeyShowTitle      = "showTitle"
	KeyToolbarStyle   = "toolbarStyle" // icon|button
	KeyToolbarAlign   = "toolbarAlign" // left|right
	KeyToolbarActions = "toolbarActions"
	KeyShowSearch     = "showSearch"
	KeyStriped        = "striped"
	KeyBordered       = "bordered"
	KeyDense          = "dense"
	KeyStickyHeader   = "stickyHeader"
	KeySelectable     = "selectable"
	KeyPageSize       = "pageSize"
	KeyHeaderColor    = "headerColor"
	KeyColumns        = "columns"

	// Tab layout. Every one of these is sticky.
	KeyTabHeight        = "tabHeight"
	KeyTabAlign         = "tabAlign"
	KeyTabOrientation   = "tabOrientation"
	KeyTabLabelWidth    = "tabLabelWidth"
	KeyUseSelectedColor = "useSelectedColor"
	KeySelectedColor    = "selectedColor"
	KeyUseHoverColor    = "useHoverColor"
	KeyHoverColor       = "hoverColor"
	KeyPanelBackground  = "panelBackground"
	KeyTabs             = "tabs"

	// View state consumed by the row pipeline.
	KeySearch  = "search"
	KeyFilters = "filters"
	KeySorts   = "sorts"
	KeyGroupBy = "groupBy"
)

// KeySet is an immutable set of strings: option keys, or reserved preset ids.
type KeySet struct {
	keys map[string]struct{}
}

// NewKeySet builds a KeySet from keys.
func NewKeySet(keys ...string) KeySet {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return KeySet{keys: m}
}

// Has reports whether key is a member.
func (s KeySet) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of members.
func (s KeySet) Len() int { return len(s.keys) }

// Keys returns the members in sorted order.
func (s KeySet) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultStickyFields returns the tab-layout and panel keys that survive a
// preset switch.
func DefaultStickyFields() KeySet {
	return NewKeySet(
		KeyTabHeight,
		KeyTabAlign,
		KeyTabOrientation,
		KeyTabLabelWidth,
		KeyUseSelectedColor,
		KeySelectedColor,
		KeyUseHoverColor,
		KeyHoverColor,
		KeyPanelBackground,
		KeyTabs,
	)
}
