package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// socket is the subset of *websocket.Conn the hub writes to.
type socket interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Connection is a single subscriber socket. Writes are serialized because
// gorilla/websocket allows only one concurrent writer.
type Connection struct {
	mu      sync.Mutex
	ownerID int64
	conn    socket
}

// NewConnection wraps an upgraded socket for the given owner.
func NewConnection(ownerID int64, conn socket) *Connection {
	return &Connection{ownerID: ownerID, conn: conn}
}

// OwnerID returns the owner this connection belongs to.
func (c *Connection) OwnerID() int64 {
	return c.ownerID
}

// Send writes one event to the socket.
func (c *Connection) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Ping sends a control ping to keep the connection alive.
func (c *Connection) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Close shuts the underlying socket.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
