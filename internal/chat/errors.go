package chat

import "errors"

var (
	ErrMalformedEvent = errors.New("malformed chat event")
	ErrUnknownPeer    = errors.New("peer is not registered")
)
