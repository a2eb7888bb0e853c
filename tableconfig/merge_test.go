package tableconfig_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"datatable/tableconfig"
)

func currentConfig() tableconfig.Config {
	return tableconfig.Config{
		tableconfig.KeyTitle:         "Orders",
		tableconfig.KeyStriped:       false,
		tableconfig.KeyTabHeight:     48.0,
		tableconfig.KeyTabAlign:      "center",
		tableconfig.KeySelectedColor: "#ff0000",
		tableconfig.KeyTabs: []any{
			map[string]any{"id": "open", "label": "Open"},
			map[string]any{"id": "closed", "label": "Closed"},
		},
	}
}

func TestMergeNonStickyTakesIncoming(t *testing.T) {
	incoming := tableconfig.Config{
		tableconfig.KeyTitle:   "Compact",
		tableconfig.KeyStriped: true,
		tableconfig.KeyDense:   true,
	}
	got := tableconfig.Merge(currentConfig(), incoming, tableconfig.DefaultStickyFields())

	if got[tableconfig.KeyTitle] != "Compact" {
		t.Fatalf("title: expected incoming value, got %v", got[tableconfig.KeyTitle])
	}
	if got[tableconfig.KeyStriped] != true || got[tableconfig.KeyDense] != true {
		t.Fatalf("expected incoming flags, got %+v", got)
	}
}

func TestMergeStickyKeepsCurrent(t *testing.T) {
	current := currentConfig()
	incoming := tableconfig.Config{
		tableconfig.KeyTabHeight: 20.0,
		tableconfig.KeyTabs:      []any{"Only"},
		tableconfig.KeyTitle:     "Other",
	}
	got := tableconfig.Merge(current, incoming, tableconfig.DefaultStickyFields())

	for _, key := range tableconfig.DefaultStickyFields().Keys() {
		want, ok := current[key]
		if !ok {
			continue
		}
		if diff := cmp.Diff(want, got[key]); diff != "" {
			t.Errorf("sticky key %q changed (-want +got):\n%s", key, diff)
		}
	}
}

func TestMergeStickyAbsentInCurrentTakesIncoming(t *testing.T) {
	incoming := tableconfig.Config{tableconfig.KeyHoverColor: "#00ff00"}
	got := tableconfig.Merge(tableconfig.Config{}, incoming, tableconfig.DefaultStickyFields())
	if got[tableconfig.KeyHoverColor] != "#00ff00" {
		t.Fatalf("expected incoming hover color, got %v", got[tableconfig.KeyHoverColor])
	}
}

func TestMergeDropsKeysMissingFromIncoming(t *testing.T) {
	current := tableconfig.Config{tableconfig.KeyBordered: false}
	got := tableconfig.Merge(current, tableconfig.Config{}, tableconfig.DefaultStickyFields())
	if _, ok := got[tableconfig.KeyBordered]; ok {
		t.Fatalf("non-sticky key should not survive a preset switch: %+v", got)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	preset := tableconfig.Config{
		tableconfig.KeyTitle:     "Compact",
		tableconfig.KeyTabHeight: 10.0,
		tableconfig.KeyPageSize:  50.0,
	}
	sticky := tableconfig.DefaultStickyFields()
	once := tableconfig.Merge(currentConfig(), preset, sticky)
	twice := tableconfig.Merge(once, preset, sticky)
	if !tableconfig.Equal(once, twice) {
		t.Fatalf("second application changed the result:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	current := currentConfig()
	incoming := tableconfig.Config{tableconfig.KeyColumns: []any{"a", "b"}}
	got := tableconfig.Merge(current, incoming, tableconfig.DefaultStickyFields())

	got[tableconfig.KeyColumns].([]any)[0] = "changed"
	got[tableconfig.KeyTabs].([]any)[0].(map[string]any)["label"] = "changed"

	if incoming[tableconfig.KeyColumns].([]any)[0] != "a" {
		t.Fatal("merge result aliases the incoming preset")
	}
	if current[tableconfig.KeyTabs].([]any)[0].(map[string]any)["label"] != "Open" {
		t.Fatal("merge result aliases the current configuration")
	}
}

func TestMergeNilIncoming(t *testing.T) {
	got := tableconfig.Merge(currentConfig(), nil, tableconfig.DefaultStickyFields())
	if got == nil {
		t.Fatal("expected non-nil result")
	}
	if got[tableconfig.KeyTabAlign] != "center" {
		t.Fatalf("expected sticky tab align, got %v", got[tableconfig.KeyTabAlign])
	}
}
