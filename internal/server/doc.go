// Package server implements the HTTP and WebSocket transport for the chat relay.
//
// The implementation is organized into specialized files for configuration,
// origin checks, hub management, clients, routing, and HTTP handlers. The
// relay logic itself lives in package chat; this package only moves frames.
package server
