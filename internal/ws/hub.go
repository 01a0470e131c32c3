package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub owns the channel abstraction: a private channel per user (every
// connection that user holds) and a channel per topic room. All maps
// are guarded by one RWMutex; writes to the underlying sockets happen
// outside it.
type Hub struct {
	mu        sync.RWMutex
	userConns map[int]map[*websocket.Conn]ConnInfo
	roomConns map[int]map[*websocket.Conn]bool
	connRooms map[*websocket.Conn]map[int]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		userConns: make(map[int]map[*websocket.Conn]ConnInfo),
		roomConns: make(map[int]map[*websocket.Conn]bool),
		connRooms: make(map[*websocket.Conn]map[int]bool),
	}
}

// AddClient binds a connection to its owner's private channel.
func (h *Hub) AddClient(userID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userConns[userID]; !ok {
		h.userConns[userID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.userConns[userID][conn] = info
}

// RemoveClient detaches a connection from its private channel and from
// every room it joined.
func (h *Hub) RemoveClient(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.userConns[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userConns, userID)
		}
	}
	for roomID := range h.connRooms[conn] {
		if conns, ok := h.roomConns[roomID]; ok {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(h.roomConns, roomID)
			}
		}
	}
	delete(h.connRooms, conn)
}

// JoinRoom binds a connection to a room channel.
func (h *Hub) JoinRoom(roomID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.roomConns[roomID]; !ok {
		h.roomConns[roomID] = make(map[*websocket.Conn]bool)
	}
	h.roomConns[roomID][conn] = true
	if _, ok := h.connRooms[conn]; !ok {
		h.connRooms[conn] = make(map[int]bool)
	}
	h.connRooms[conn][roomID] = true
}

// LeaveRoom detaches a connection from a room channel.
func (h *Hub) LeaveRoom(roomID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.roomConns[roomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.roomConns, roomID)
		}
	}
	if rooms, ok := h.connRooms[conn]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(h.connRooms, conn)
		}
	}
}

// PushToUser emits an event to every connection of one user. A user
// with no connections is not an error; write failures close and detach
// the broken connection.
func (h *Hub) PushToUser(userID int, event string, data any) error {
	payload, err := json.Marshal(outEvent{Event: event, Data: data})
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.userConns[userID]))
	for conn := range h.userConns[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		h.write(userID, conn, payload)
	}
	return nil
}

// EmitToRoom emits an event to every connection in a room channel.
func (h *Hub) EmitToRoom(roomID int, event string, data any) {
	payload, err := json.Marshal(outEvent{Event: event, Data: data})
	if err != nil {
		log.Printf("room event marshal error: %v", err)
		return
	}

	h.mu.RLock()
	type target struct {
		userID int
		conn   *websocket.Conn
	}
	targets := make([]target, 0, len(h.roomConns[roomID]))
	for conn := range h.roomConns[roomID] {
		targets = append(targets, target{userID: h.ownerLocked(conn), conn: conn})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		h.write(t.userID, t.conn, payload)
	}
}

// EmitToConn emits an event to a single connection. Used for handshake
// acknowledgments and for error events that must only reach the origin.
func (h *Hub) EmitToConn(conn *websocket.Conn, event string, data any) {
	payload, err := json.Marshal(outEvent{Event: event, Data: data})
	if err != nil {
		log.Printf("event marshal error: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}

// BroadcastPresence sends the presence snapshot to every connection.
func (h *Hub) BroadcastPresence(onlineUserIDs []int) {
	payload, err := json.Marshal(outEvent{
		Event: EventPresenceUpdate,
		Data:  PresencePayload{OnlineUserIDs: onlineUserIDs},
	})
	if err != nil {
		log.Printf("presence marshal error: %v", err)
		return
	}

	h.mu.RLock()
	type target struct {
		userID int
		conn   *websocket.Conn
	}
	var targets []target
	for userID, conns := range h.userConns {
		for conn := range conns {
			targets = append(targets, target{userID: userID, conn: conn})
		}
	}
	h.mu.RUnlock()

	for _, t := range targets {
		h.write(t.userID, t.conn, payload)
	}
}

// Info returns the handshake metadata recorded for a connection.
func (h *Hub) Info(userID int, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	info, ok := h.userConns[userID][conn]
	return info, ok
}

func (h *Hub) write(userID int, conn *websocket.Conn, payload []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("websocket write error: %v", err)
		conn.Close()
		h.RemoveClient(userID, conn)
	}
}

// ownerLocked resolves which user owns a connection. Callers must hold
// at least the read lock.
func (h *Hub) ownerLocked(conn *websocket.Conn) int {
	for userID, conns := range h.userConns {
		if _, ok := conns[conn]; ok {
			return userID
		}
	}
	return 0
}
