package notify_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"datatable/notify"
	"datatable/session"
	"datatable/tableconfig"
)

func newHubServer(t *testing.T) (*httptest.Server, *notify.Hub) {
	t.Helper()
	hub := notify.NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "orders", tableconfig.Config{"dense": true})
	}))
	t.Cleanup(srv.Close)
	return srv, hub
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubSendsCurrentThenUpdates(t *testing.T) {
	srv, hub := newHubServer(t)
	conn := dial(t, srv)

	var msg notify.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != notify.TypeConfig || msg.Config["dense"] != true {
		t.Fatalf("unexpected first frame %+v", msg)
	}

	waitFor(t, func() bool { return hub.Clients("orders") == 1 })
	hub.Render("orders", tableconfig.Config{"striped": true})
	hub.Render("users", tableconfig.Config{"ignored": true})

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Table != "orders" || msg.Config["striped"] != true {
		t.Fatalf("unexpected update %+v", msg)
	}
}

func TestHubPingPong(t *testing.T) {
	srv, _ := newHubServer(t)
	conn := dial(t, srv)
	var msg notify.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(notify.Message{Type: notify.TypePing}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != notify.TypePong {
		t.Fatalf("expected pong, got %q", msg.Type)
	}
}

func TestHubForgetsClosedClients(t *testing.T) {
	srv, hub := newHubServer(t)
	conn := dial(t, srv)
	var msg notify.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return hub.Clients("orders") == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Clients("orders") == 0 })

	// Rendering with no clients must not block or panic.
	hub.Render("orders", tableconfig.Config{})
}

func TestMultiAndLogRenderer(t *testing.T) {
	logger, hook := test.NewNullLogger()
	var got []string
	m := notify.Multi{
		notify.LogRenderer{Log: logger},
		session.RenderFunc(func(id string, _ tableconfig.Config) { got = append(got, id) }),
		nil,
	}
	m.Render("orders", tableconfig.Config{"pageSize": 50, "tabs": []any{"A", "B"}})

	if len(got) != 1 || got[0] != "orders" {
		t.Fatalf("func renderer not called: %v", got)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.InfoLevel {
		t.Fatalf("expected info entry, got %+v", entry)
	}
	if entry.Data["table"] != "orders" || entry.Data["pageSize"] != 50 || entry.Data["tabs"] != 2 {
		t.Fatalf("unexpected fields %v", entry.Data)
	}
}
