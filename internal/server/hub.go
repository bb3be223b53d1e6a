// Package server coordinates connection pumps and graceful shutdown for the
// relay's WebSocket clients via the Hub type.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Tyrowin/matrix-relay/internal/chat"
)

// Hub owns the goroutines of every WebSocket client attached to one relay.
// Membership itself lives in the relay's registry.
type Hub struct {
	relay *chat.Relay
	log   *slog.Logger
	wg    sync.WaitGroup

	mu      sync.Mutex
	closing bool
}

// NewHub creates a hub serving clients of relay.
func NewHub(log *slog.Logger, relay *chat.Relay) *Hub {
	return &Hub{relay: relay, log: log}
}

// Attach opens client on the relay and launches its pumps. It returns false,
// closing the connection, once shutdown has started.
func (h *Hub) Attach(client *Client) bool {
	if client == nil {
		h.log.Warn("Received nil client registration; skipping")
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		client.markClosed()
		client.closeConnection()
		return false
	}

	h.wg.Add(2)
	h.relay.Open(client)
	h.log.Info("Client registered", "addr", client.addr, "total", h.relay.Count())

	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
	return true
}

// shutdownClients closes every connection still registered on the relay.
func (h *Hub) shutdownClients() int {
	closed := 0
	for _, p := range h.relay.Participants() {
		client, ok := p.Peer.(*Client)
		if !ok || client.conn == nil {
			continue
		}
		client.closeConnection()
		closed++
	}
	return closed
}

// Shutdown stops accepting clients, closes the open ones and waits for their
// goroutines, or until timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("Initiating hub shutdown...")

	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()

	h.log.Info("Closed client connections", "count", h.shutdownClients())

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		h.log.Warn("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
