package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Client is one websocket connection following a session's trial timer.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	timer     *TimerManager

	closed bool
	mu     sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, tick TickFunc, interval time.Duration) *Client {
	c := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 64),
		sessionID: sessionID,
	}
	c.timer = NewTimerManager(interval, tick, c)
	return c
}

// Start registers the client and runs its pumps and timer feed. A hub that
// has shut down closes the client on registration, and then no feed starts.
func (c *Client) Start() {
	c.hub.Register(c)
	go c.WritePump()
	go c.ReadPump()

	// Close takes the write lock, so it cannot land between the check and
	// the timer starting.
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	c.timer.Start()
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(ErrCodeInvalidPayload, "Invalid message")
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeSyncState:
		c.timer.TickNow()
	default:
		c.sendError(ErrCodeInvalidPayload, "Unknown message type")
	}
}

func (c *Client) sendError(code, message string) {
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
	c.Send(msg)
}

// Send queues msg for delivery. Messages to a closed or backed-up client are
// dropped.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal message: %v", err)
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Finish ends the feed after the pending messages are flushed.
func (c *Client) Finish() {
	c.hub.Unregister(c)
}

// Close stops the timer feed and closes the send channel, which makes
// WritePump send a close frame.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	c.timer.Stop()
}

// SessionID returns the session the client follows.
func (c *Client) SessionID() string {
	return c.sessionID
}
