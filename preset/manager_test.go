package preset_test

import (
	"path/filepath"
	"testing"

	"datatable/preset"
	"datatable/store"
	"datatable/tableconfig"
)

func existsIn(ids ...string) func(string) bool {
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestManagerEmptyStore(t *testing.T) {
	pm := preset.NewManager(store.NewMemory(), nil)
	if got := pm.LoadCustom(preset.BuiltinCatalog().IDs()); len(got) != 0 {
		t.Fatalf("expected no custom presets, got %d", len(got))
	}
	if _, ok := pm.LoadDisplay(); ok {
		t.Fatal("expected no display snapshot")
	}
	if got := pm.Recent(); len(got) != 0 {
		t.Fatalf("expected empty recent list, got %v", got)
	}
}

func TestManagerSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	s, err := store.NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	pm := preset.NewManager(s, nil)
	list := []preset.Preset{
		{ID: "default", Name: "Default", IsSystem: true},
		{ID: "abc", Name: "Mine", Config: tableconfig.Config{"dense": true}},
	}
	if err := pm.SaveCustom(list); err != nil {
		t.Fatalf("SaveCustom: %v", err)
	}

	s2, err := store.NewFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := preset.NewManager(s2, nil).LoadCustom(preset.BuiltinCatalog().IDs())
	if len(got) != 1 || got[0].ID != "abc" || got[0].Config["dense"] != true {
		t.Fatalf("expected only custom preset 'abc', got %+v", got)
	}
}

func TestManagerDropsReservedIDs(t *testing.T) {
	s := store.NewMemory()
	s.Save(preset.KeyPresets, []byte(`[{"id":"default","name":"Hijack"},{"id":"x","name":"X"}]`))
	got := preset.NewManager(s, nil).LoadCustom(preset.BuiltinCatalog().IDs())
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("expected reserved id to be dropped, got %+v", got)
	}
}

func TestManagerUnparseableIsAbsent(t *testing.T) {
	s := store.NewMemory()
	s.Save(preset.KeyPresets, []byte(`{not json`))
	s.Save(preset.KeyDisplay, []byte(`{"presetId":"x"}`))
	pm := preset.NewManager(s, nil)
	if got := pm.LoadCustom(preset.BuiltinCatalog().IDs()); got != nil {
		t.Fatalf("expected nil for corrupt preset list, got %+v", got)
	}
	if _, ok := pm.LoadDisplay(); ok {
		t.Fatal("expected corrupt display snapshot to be absent")
	}
}

func TestManagerDisplayRoundTrip(t *testing.T) {
	pm := preset.NewManager(store.NewMemory(), nil)
	snap := preset.Snapshot{PresetID: "compact", Config: tableconfig.Config{"dense": true}}
	if err := pm.SaveDisplay(snap); err != nil {
		t.Fatalf("SaveDisplay: %v", err)
	}
	got, ok := pm.LoadDisplay()
	if !ok || got.PresetID != "compact" || got.Config["dense"] != true {
		t.Fatalf("unexpected display snapshot %+v", got)
	}
	if err := pm.ClearDisplay(); err != nil {
		t.Fatalf("ClearDisplay: %v", err)
	}
	if _, ok := pm.LoadDisplay(); ok {
		t.Fatal("expected snapshot to be gone after ClearDisplay")
	}
}

func TestManagerClearCustom(t *testing.T) {
	pm := preset.NewManager(store.NewMemory(), nil)
	pm.SaveCustom([]preset.Preset{{ID: "a", Name: "A"}})
	pm.MarkUsed("a", existsIn("a"))
	if err := pm.ClearCustom(); err != nil {
		t.Fatalf("ClearCustom: %v", err)
	}
	if got := pm.LoadCustom(tableconfig.NewKeySet()); len(got) != 0 {
		t.Fatalf("expected no presets after clear, got %+v", got)
	}
	if got := pm.Recent(); len(got) != 0 {
		t.Fatalf("expected empty recent list after clear, got %v", got)
	}
}

func TestMarkUsedMRUOrder(t *testing.T) {
	pm := preset.NewManager(store.NewMemory(), nil)
	exists := existsIn("a", "b", "c")

	pm.MarkUsed("a", exists)
	pm.MarkUsed("b", exists)
	pm.MarkUsed("c", exists)

	got := pm.Recent()
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, id := range want {
		if got[i] != id {
			t.Fatalf("position %d: expected %q, got %q", i, id, got[i])
		}
	}
}

func TestMarkUsedDeduplication(t *testing.T) {
	pm := preset.NewManager(store.NewMemory(), nil)
	exists := existsIn("x", "y")

	pm.MarkUsed("x", exists)
	pm.MarkUsed("y", exists)
	pm.MarkUsed("x", exists) // should move x to front, no duplicate

	got := pm.Recent()
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestMarkUsedCap10(t *testing.T) {
	pm := preset.NewManager(store.NewMemory(), nil)
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	exists := existsIn(ids...)
	for _, id := range ids {
		pm.MarkUsed(id, exists)
	}
	if got := pm.Recent(); len(got) != 10 {
		t.Fatalf("expected cap of 10, got %d: %v", len(got), got)
	}
}

func TestMarkUsedNonExistentID(t *testing.T) {
	pm := preset.NewManager(store.NewMemory(), nil)
	if err := pm.MarkUsed("doesnotexist", existsIn()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := pm.Recent(); len(got) != 0 {
		t.Fatalf("expected empty recent list, got %v", got)
	}
}

func TestMarkUsedFiltersRemovedIDs(t *testing.T) {
	pm := preset.NewManager(store.NewMemory(), nil)
	pm.MarkUsed("a", existsIn("a", "b"))
	pm.MarkUsed("b", existsIn("a", "b"))

	// "b" has since been deleted.
	pm.MarkUsed("a", existsIn("a"))
	for _, id := range pm.Recent() {
		if id == "b" {
			t.Fatalf("stale ID 'b' should have been filtered out: %v", pm.Recent())
		}
	}
}
