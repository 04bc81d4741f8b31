package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readTimeout   = 60 * time.Second
	writeTimeout  = 10 * time.Second
	pingInterval  = 54 * time.Second
	sendBufferLen = 256
)

// client is one websocket connection. playerID is empty until the
// connection announces itself by entering a room.
type client struct {
	playerID string
	conn     *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan Message
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan Message, sendBufferLen),
	}
}

// trySend queues a message without blocking. Reports false if the
// connection is gone or its buffer is full.
func (that *client) trySend(msg Message) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return false
	}

	select {
	case that.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend stops the write pump. Safe to call once the connection is done.
func (that *client) closeSend() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings. It owns all writes to the connection.
func (that *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
