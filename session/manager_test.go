package session_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"datatable/metrics"
	"datatable/preset"
	"datatable/session"
	"datatable/store"
)

func TestOpenAndGet(t *testing.T) {
	m := session.NewManager(store.NewMemory(), session.Options{})
	s, err := m.Open("orders")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.ID != "orders" {
		t.Fatalf("expected id 'orders', got %q", s.ID)
	}
	again, err := m.Open("orders")
	if err != nil || again != s {
		t.Fatal("second Open returned a different session")
	}
	got, ok := m.Get("orders")
	if !ok || got != s {
		t.Fatal("Get returned wrong session")
	}
}

func TestOpenGeneratesID(t *testing.T) {
	m := session.NewManager(store.NewMemory(), session.Options{})
	a, err := m.Open("")
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Open("")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct generated ids, got %q and %q", a.ID, b.ID)
	}
}

func TestOpenRejectsBadID(t *testing.T) {
	m := session.NewManager(store.NewMemory(), session.Options{})
	for _, id := range []string{"a/b", `a\b`, " padded "} {
		if _, err := m.Open(id); !errors.Is(err, session.ErrInvalidTableID) {
			t.Fatalf("Open(%q): expected ErrInvalidTableID, got %v", id, err)
		}
	}
}

func TestList(t *testing.T) {
	m := session.NewManager(store.NewMemory(), session.Options{})
	m.Open("b")
	m.Open("a")
	list := m.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("unexpected list order")
	}
}

func TestClose(t *testing.T) {
	m := session.NewManager(store.NewMemory(), session.Options{})
	if _, err := m.Open("orders"); err != nil {
		t.Fatal(err)
	}
	if err := m.Close("orders"); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := m.Get("orders"); ok {
		t.Fatal("session still exists after Close")
	}
	if err := m.Close("orders"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTablesDoNotSharePresets(t *testing.T) {
	st := store.NewMemory()
	m := session.NewManager(st, session.Options{})
	orders, _ := m.Open("orders")
	users, _ := m.Open("users")
	orders.Supply(initial())
	users.Supply(initial())

	p, err := orders.SaveCurrentAsPreset(session.StaticName("Mine"), session.Always)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := preset.Find(users.Presets(), p.ID); ok {
		t.Fatal("preset leaked into another table")
	}
	users.Reload()
	if _, ok := preset.Find(users.Presets(), p.ID); ok {
		t.Fatal("preset leaked into another table's store namespace")
	}

	// The same table reopened by a new manager sees its own presets.
	fresh, _ := session.NewManager(st, session.Options{}).Open("orders")
	if _, ok := preset.Find(fresh.Presets(), p.ID); !ok {
		t.Fatal("preset not found after reopening the table")
	}
}

func TestConcurrentApply(t *testing.T) {
	m := session.NewManager(store.NewMemory(), session.Options{})
	s, _ := m.Open("orders")
	s.Supply(initial())

	ids := []string{"default", "compact", "spreadsheet", "minimal"}
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.ApplyPreset(id); err != nil {
				t.Errorf("ApplyPreset(%s): %v", id, err)
			}
		}(ids[i%len(ids)])
	}
	wg.Wait()

	if got := s.ActiveConfig()["tabHeight"]; got != 64 {
		t.Fatalf("sticky field lost under concurrent applies: %v", got)
	}
}

func TestManagerRecordsMetrics(t *testing.T) {
	met := metrics.New(prometheus.NewRegistry())
	m := session.NewManager(store.NewMemory(), session.Options{Metrics: met})
	s, _ := m.Open("orders")
	s.Supply(initial())

	s.ApplyPreset("compact")
	s.ApplyPreset("missing")
	s.FactoryReset(session.Never)
	s.DeletePreset(preset.DefaultID, session.Always)

	for _, c := range []struct {
		op, result string
	}{
		{"apply", metrics.ResultOK},
		{"apply", metrics.ResultNotFound},
		{"reset", metrics.ResultAborted},
		{"delete", metrics.ResultRefused},
	} {
		if got := testutil.ToFloat64(met.OpCount(c.op, c.result)); got != 1 {
			t.Errorf("%s/%s: expected 1, got %v", c.op, c.result, got)
		}
	}
}
