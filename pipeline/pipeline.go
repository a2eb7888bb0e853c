// Package pipeline derives the displayed view of a table from its raw rows.
//
// Apply runs four stages in a fixed order: search, filter, sort and group.
// Every stage is a total function over arbitrary row shapes: missing or
// mistyped fields degrade to empty strings or zero instead of failing.
package pipeline

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UngroupedKey is the bucket for rows whose group value is nil or missing.
const UngroupedKey = "Ungrouped"

// Row is a single structured record.
type Row map[string]any

// Query describes one derivation of the view.
type Query struct {
	Search string `json:"search,omitempty"`
	// SearchFields limits the search stage to these fields. When empty every
	// field of the row is searched.
	SearchFields []string          `json:"searchFields,omitempty"`
	Filters      []FilterCriterion `json:"filters,omitempty"`
	Sorts        []SortCriterion   `json:"sorts,omitempty"`
	GroupBy      string            `json:"groupBy,omitempty"`
	// NumericColumns are sorted numerically even when their values are
	// strings. Columns whose values are both Go numbers always are.
	NumericColumns []string `json:"numericColumns,omitempty"`
	// Locale is a BCP 47 tag used for string collation. Defaults to English.
	Locale string `json:"locale,omitempty"`
}

// Group is one partition of the sorted rows.
type Group struct {
	Key  string `json:"key"`
	Rows []Row  `json:"rows"`
}

// Result is the derived view.
type Result struct {
	Rows    []Row   `json:"rows"`
	Groups  []Group `json:"groups,omitempty"`
	Total   int     `json:"total"`
	Matched int     `json:"matched"`
}

// Group returns the rows of the group with the given key.
func (r Result) Group(key string) ([]Row, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g.Rows, true
		}
	}
	return nil, false
}

// GroupKeys returns the group keys in first-seen order.
func (r Result) GroupKeys() []string {
	keys := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		keys[i] = g.Key
	}
	return keys
}

// Apply derives the view of rows described by q. The input slice is not
// modified.
func Apply(rows []Row, q Query) Result {
	out := search(rows, q.Search, q.SearchFields)
	out = filter(out, q.Filters)
	out = sortRows(out, q.Sorts, q.NumericColumns, collatorFor(q.Locale))

	res := Result{Rows: out, Total: len(rows), Matched: len(out)}
	if q.GroupBy != "" {
		res.Groups = group(out, q.GroupBy)
	}
	return res
}

func search(rows []Row, term string, fields []string) []Row {
	out := make([]Row, 0, len(rows))
	if term == "" {
		return append(out, rows...)
	}
	needle := strings.ToLower(term)
	for _, row := range rows {
		if rowMatches(row, needle, fields) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row Row, needle string, fields []string) bool {
	if len(fields) == 0 {
		for _, v := range row {
			if strings.Contains(strings.ToLower(stringOf(v)), needle) {
				return true
			}
		}
		return false
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(stringOf(row[f])), needle) {
			return true
		}
	}
	return false
}

func group(rows []Row, key string) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, row := range rows {
		k := UngroupedKey
		if v, ok := row[key]; ok && v != nil {
			k = stringOf(v)
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

func collatorFor(locale string) *collate.Collator {
	tag := language.English
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return collate.New(tag)
}

func sortRows(rows []Row, sorts []SortCriterion, numeric []string, coll *collate.Collator) []Row {
	if len(sorts) == 0 {
		return rows
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		for _, s := range sorts {
			c := compareValues(a[s.Column], b[s.Column], slices.Contains(numeric, s.Column), coll)
			if s.Order == Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return rows
}
