// Package server manages individual WebSocket clients, handling read/write
// pumps and lifecycle control for each connection.
package server

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Tyrowin/matrix-relay/internal/chat"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Client is one WebSocket connection. It implements chat.Peer: Send only
// enqueues, the write pump does the network I/O.
type Client struct {
	conn           *websocket.Conn
	send           chan []byte
	relay          *chat.Relay
	log            *slog.Logger
	addr           string
	maxMessageSize int64

	mu     sync.Mutex
	closed bool
}

// NewClient creates a new Client for conn. The outbound queue holds up to
// cfg.SendBufferSize payloads.
func NewClient(conn *websocket.Conn, relay *chat.Relay, log *slog.Logger, addr string, cfg Config) *Client {
	cfg = sanitizeConfig(cfg)
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	return &Client{
		conn:           conn,
		send:           make(chan []byte, cfg.SendBufferSize),
		relay:          relay,
		log:            log.With("addr", addr),
		addr:           addr,
		maxMessageSize: cfg.MaxMessageSize,
	}
}

// Send queues payload for delivery without blocking.
func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrPeerClosed
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// GetSendChan returns the client's send channel for reading outgoing messages.
func (c *Client) GetSendChan() <-chan []byte {
	return c.send
}

// markClosed stops further sends and releases the write pump. Safe to call
// more than once.
func (c *Client) markClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// setupReadConnection configures read deadlines and pong handler for the WebSocket connection
func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn("Error setting initial read deadline", "error", err)
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.Warn("Error setting read deadline in pong handler", "error", err)
		}
		return nil
	})
}

// classifyReadError returns nil when err is an ordinary disconnect and err
// itself when the connection failed unexpectedly.
func (c *Client) classifyReadError(err error) error {
	if errors.Is(err, websocket.ErrReadLimit) {
		c.log.Info("Message exceeded maximum size", "limit", c.maxMessageSize)
		return err
	}

	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived) {
		c.log.Debug("Client disconnected", "error", err)
		return nil
	}

	if errors.Is(err, io.EOF) || isExpectedCloseError(err) {
		c.log.Debug("Client connection closed", "error", err)
		return nil
	}

	c.log.Warn("WebSocket read error", "error", err)
	return err
}

// readPump feeds every inbound frame to the relay, in order, until the
// connection ends. It is the only goroutine reporting this client's lifecycle.
func (c *Client) readPump() {
	var readErr error
	defer func() {
		if readErr != nil {
			c.relay.Error(c, readErr)
		} else {
			c.relay.Close(c)
		}
		c.markClosed()
		c.closeConnection()
	}()

	c.setupReadConnection()

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			readErr = c.classifyReadError(err)
			return
		}

		if err := c.relay.Message(c, rawMessage); err != nil {
			c.log.Debug("Message rejected", "error", err)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for c.processWriteEvent(ticker) {
	}
}

// processWriteEvent waits for the next write event and returns false when the
// pump should stop processing.
func (c *Client) processWriteEvent(ticker *time.Ticker) bool {
	select {
	case message, ok := <-c.send:
		return c.handleMessage(message, ok)
	case <-ticker.C:
		return c.handlePing()
	}
}

// closeConnection safely closes the WebSocket connection with proper error handling
func (c *Client) closeConnection() {
	if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
		c.log.Warn("Error closing connection", "error", err)
	}
}

// handleMessage writes one outgoing event per text frame and returns false if
// the connection should be closed
func (c *Client) handleMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.Warn("Error setting write deadline", "error", err)
		return false
	}

	if !ok {
		return c.writeCloseMessage()
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		if !isExpectedCloseError(err) {
			c.log.Warn("Error writing message", "error", err)
		}
		return false
	}
	return true
}

// writeCloseMessage sends a close message to the client
func (c *Client) writeCloseMessage() bool {
	err := c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil && !isExpectedCloseError(err) {
		c.log.Debug("Error writing close message", "error", err)
	}
	return false
}

// handlePing sends a ping message to keep the connection alive
func (c *Client) handlePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.Warn("Error setting write deadline for ping", "error", err)
		return false
	}
	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.log.Warn("Error writing ping message", "error", err)
		return false
	}
	return true
}
