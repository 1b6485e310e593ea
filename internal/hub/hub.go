// Package hub fans change notifications out to live connections.
package hub

import (
	"encoding/json"
	"sync"
)

const (
	StoreFiles    = "files"
	StoreMessages = "messages"
)

// Event tells subscribers that a collection changed and should be re-read.
type Event struct {
	Type  string `json:"type"`
	Store string `json:"store"`
}

type Writer interface {
	Write(message []byte) error
	Close() error
}

type Connection struct {
	IdentityID string
	Writer     Writer
}

type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*Connection]struct{}
}

func New() *Hub {
	return &Hub{connections: make(map[string]map[*Connection]struct{})}
}

func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[conn.IdentityID] == nil {
		h.connections[conn.IdentityID] = make(map[*Connection]struct{})
	}
	h.connections[conn.IdentityID][conn] = struct{}{}
}

func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.connections[conn.IdentityID]
	if set == nil {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.connections, conn.IdentityID)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, set := range h.connections {
		n += len(set)
	}
	return n
}

// Publish sends a change event for store to every connection.
func (h *Hub) Publish(store string) {
	out, err := json.Marshal(Event{Type: "changed", Store: store})
	if err != nil {
		return
	}
	h.BroadcastAll(out)
}

func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	var conns []*Connection
	for _, set := range h.connections {
		for c := range set {
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()

	h.deliver(conns, message)
}

// Disconnect closes every connection opened by identityID.
func (h *Hub) Disconnect(identityID string) {
	h.mu.Lock()
	set := h.connections[identityID]
	delete(h.connections, identityID)
	h.mu.Unlock()

	for c := range set {
		_ = c.Writer.Close()
	}
}

func (h *Hub) deliver(conns []*Connection, message []byte) {
	var failed []*Connection
	for _, c := range conns {
		if err := c.Writer.Write(message); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		_ = c.Writer.Close()
		h.Unregister(c)
	}
}
