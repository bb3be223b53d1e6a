// Package server defines transport errors and utility helpers that are
// reused across client and hub logic.
package server

import (
	"errors"
	"strings"
)

var (
	// ErrSendBufferFull is returned by Client.Send when the peer is not
	// draining its outbound queue fast enough.
	ErrSendBufferFull = errors.New("client send buffer full")
	// ErrPeerClosed is returned by Client.Send after the connection closed.
	ErrPeerClosed = errors.New("client connection closed")
)

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
