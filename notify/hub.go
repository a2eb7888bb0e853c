// Package notify delivers committed table configurations to whoever renders
// the table.
package notify

import (
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"datatable/tableconfig"
)

// Message is the JSON frame pushed to websocket clients.
type Message struct {
	Type   string             `json:"type"`
	Table  string             `json:"table"`
	Config tableconfig.Config `json:"config,omitempty"`
}

const (
	TypeConfig = "config"
	TypePing   = "ping"
	TypePong   = "pong"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans committed configurations out to the websocket clients watching
// each table. Slow clients drop frames rather than block the session.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*client]struct{}
	log     logrus.FieldLogger
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	out     chan Message
}

// send serialises writes; gorilla/websocket forbids concurrent writers.
func (c *client) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Hub{clients: make(map[string]map[*client]struct{}), log: log}
}

// Render queues cfg for every client of tableID.
func (h *Hub) Render(tableID string, cfg tableconfig.Config) {
	msg := Message{Type: TypeConfig, Table: tableID, Config: tableconfig.Clone(cfg)}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[tableID] {
		select {
		case c.out <- msg:
		default:
			h.log.WithField("table", tableID).Warn("Websocket client too slow, dropping config frame.")
		}
	}
}

// Clients returns the number of clients watching tableID.
func (h *Hub) Clients(tableID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[tableID])
}

// Serve upgrades the request, sends current as the first frame and then
// streams every configuration rendered for tableID until the client goes
// away. It blocks for the lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, tableID string, current tableconfig.Config) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("Websocket upgrade failed.")
		return
	}
	defer conn.Close()

	// Register before the first frame so nothing rendered after it is missed;
	// frames queued meanwhile go out once the pump starts.
	c := &client{conn: conn, out: make(chan Message, 256)}
	h.add(tableID, c)
	defer h.remove(tableID, c)
	if err := c.send(Message{Type: TypeConfig, Table: tableID, Config: current}); err != nil {
		return
	}

	// Pump queued frames; exits when remove closes c.out.
	go func() {
		for msg := range c.out {
			if err := c.send(msg); err != nil {
				conn.Close()
				return
			}
		}
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == TypePing {
			if err := c.send(Message{Type: TypePong, Table: tableID}); err != nil {
				return
			}
		}
	}
}

func (h *Hub) add(tableID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[tableID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[tableID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) remove(tableID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[tableID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.out)
	if len(set) == 0 {
		delete(h.clients, tableID)
	}
}
