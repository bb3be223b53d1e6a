// Package server wires a chat relay to HTTP: WebSocket upgrades, origin
// checks and client lifecycle.
package server

import (
	"log/slog"
	"time"

	"github.com/Tyrowin/matrix-relay/internal/chat"
	"github.com/gorilla/websocket"
)

// Server exposes one relay over WebSocket.
type Server struct {
	cfg      Config
	log      *slog.Logger
	relay    *chat.Relay
	hub      *Hub
	upgrader websocket.Upgrader
}

// New creates a Server for relay using cfg, after sanitising it.
func New(cfg Config, log *slog.Logger, relay *chat.Relay) *Server {
	cfg = sanitizeConfig(cfg)
	origins := newOriginPolicy(log, cfg.AllowedOrigins)

	return &Server{
		cfg:   cfg,
		log:   log,
		relay: relay,
		hub:   NewHub(log, relay),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.check,
		},
	}
}

// Relay returns the relay served by s.
func (s *Server) Relay() *chat.Relay {
	return s.relay
}

// Shutdown closes every WebSocket client and waits for their goroutines.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.hub.Shutdown(timeout)
}
