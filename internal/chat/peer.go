//go:generate go run go.uber.org/mock/mockgen -source=peer.go -destination=../../mocks/mock_peer.go -package=mocks
package chat

// Peer is the send side of a single transport connection.
// Implementations must be comparable: the registry identifies a peer with ==.
type Peer interface {
	Send(payload []byte) error
}
