package tableconfig

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Tab is one entry of the tab list.
type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TabLayout is the typed view of the sticky tab and panel options.
type TabLayout struct {
	Height           float64 `json:"height"`
	Align            string  `json:"align"`
	Orientation      string  `json:"orientation"`
	LabelWidth       float64 `json:"labelWidth"`
	UseSelectedColor bool    `json:"useSelectedColor"`
	SelectedColor    string  `json:"selectedColor"`
	UseHoverColor    bool    `json:"useHoverColor"`
	HoverColor       string  `json:"hoverColor"`
	PanelBackground  string  `json:"panelBackground"`
	Tabs             []Tab   `json:"tabs"`
}

// Display is the validated view of a Config handed to rendering. Every field
// has a defined value; invalid or mistyped options fall back to defaults.
type Display struct {
	Title          string    `json:"title"`
	ShowTitle      bool      `json:"showTitle"`
	ToolbarStyle   string    `json:"toolbarStyle"`
	ToolbarAlign   string    `json:"toolbarAlign"`
	ToolbarActions []string  `json:"toolbarActions"`
	ShowSearch     bool      `json:"showSearch"`
	Striped        bool      `json:"striped"`
	Bordered       bool      `json:"bordered"`
	Dense          bool      `json:"dense"`
	StickyHeader   bool      `json:"stickyHeader"`
	Selectable     bool      `json:"selectable"`
	PageSize       int       `json:"pageSize"`
	HeaderColor    string    `json:"headerColor"`
	Columns        []string  `json:"columns"`
	Tabs           TabLayout `json:"tabs"`
}

// Resolve builds the typed view of c.
func Resolve(c Config) Display {
	return Display{
		Title:          String(c, KeyTitle, ""),
		ShowTitle:      Bool(c, KeyShowTitle, true),
		ToolbarStyle:   Enum(c, KeyToolbarStyle, []string{"icon", "button"}, "icon"),
		ToolbarAlign:   Enum(c, KeyToolbarAlign, []string{"left", "right"}, "right"),
		ToolbarActions: Strings(c, KeyToolbarActions, []string{"search", "filter", "sort", "group", "settings"}),
		ShowSearch:     Bool(c, KeyShowSearch, true),
		Striped:        Bool(c, KeyStriped, false),
		Bordered:       Bool(c, KeyBordered, true),
		Dense:          Bool(c, KeyDense, false),
		StickyHeader:   Bool(c, KeyStickyHeader, true),
		Selectable:     Bool(c, KeySelectable, false),
		PageSize:       int(Number(c, KeyPageSize, 25)),
		HeaderColor:    Color(c, KeyHeaderColor, "#f5f5f5"),
		Columns:        Strings(c, KeyColumns, nil),
		Tabs: TabLayout{
			Height:           Number(c, KeyTabHeight, 40),
			Align:            Enum(c, KeyTabAlign, []string{"left", "center", "right"}, "left"),
			Orientation:      Enum(c, KeyTabOrientation, []string{"horizontal", "vertical"}, "horizontal"),
			LabelWidth:       Number(c, KeyTabLabelWidth, 120),
			UseSelectedColor: Bool(c, KeyUseSelectedColor, false),
			SelectedColor:    Color(c, KeySelectedColor, "#1976d2"),
			UseHoverColor:    Bool(c, KeyUseHoverColor, false),
			HoverColor:       Color(c, KeyHoverColor, "#e3f2fd"),
			PanelBackground:  Color(c, KeyPanelBackground, "#ffffff"),
			Tabs:             tabs(c[KeyTabs]),
		},
	}
}

// Bool returns the boolean at key, or def when unset or not a bool.
func Bool(c Config, key string, def bool) bool {
	if b, ok := c[key].(bool); ok {
		return b
	}
	return def
}

// String returns the string at key, or def when unset or not a string.
func String(c Config, key, def string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return def
}

// Number returns the numeric value at key, or def when unset or not a number.
func Number(c Config, key string, def float64) float64 {
	if f, ok := toFloat(c[key]); ok {
		return f
	}
	return def
}

// Enum returns the string at key when it is one of allowed, else def.
func Enum(c Config, key string, allowed []string, def string) string {
	s, ok := c[key].(string)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return a
		}
	}
	return def
}

// Color returns the hex color at key, or def when unset or malformed.
func Color(c Config, key, def string) string {
	s, ok := c[key].(string)
	if !ok || !hexColor.MatchString(s) {
		return def
	}
	return strings.ToLower(s)
}

// Strings returns the list of strings at key. Non-string elements are
// rendered with fmt; a missing or non-list value yields def.
func Strings(c Config, key string, def []string) []string {
	switch v := c[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if e == nil {
				continue
			}
			if s, ok := e.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return def
}

func tabs(v any) []Tab {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Tab, 0, len(list))
	for i, e := range list {
		switch t := e.(type) {
		case string:
			out = append(out, Tab{ID: fmt.Sprintf("tab-%d", i), Label: t})
		case map[string]any:
			tab := Tab{ID: fmt.Sprintf("tab-%d", i)}
			if id, ok := t["id"].(string); ok && id != "" {
				tab.ID = id
			}
			if label, ok := t["label"].(string); ok {
				tab.Label = label
			}
			out = append(out, tab)
		}
	}
	return out
}
