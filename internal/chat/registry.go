package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const displayNamePrefix = "user_"

// Participant is one connected client.
type Participant struct {
	ID          string
	DisplayName string
	Peer        Peer
}

// Registry holds the participants of one relay. It is safe for concurrent
// use; snapshots returned by All reflect a single point in time.
type Registry struct {
	mu           sync.RWMutex
	participants map[string]Participant
}

func NewRegistry() *Registry {
	return &Registry{participants: make(map[string]Participant)}
}

// Add registers a peer under a fresh random id and derives its display name
// from the first 8 characters of that id.
func (r *Registry) Add(peer Peer) Participant {
	id := uuid.NewString()
	p := Participant{
		ID:          id,
		DisplayName: displayNamePrefix + id[:8],
		Peer:        peer,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[id] = p
	return p
}

// Remove unregisters the participant owning peer. Removing an unknown or
// already removed peer reports false.
func (r *Registry) Remove(peer Peer) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.find(peer)
	if !ok {
		return Participant{}, false
	}
	delete(r.participants, p.ID)
	return p, true
}

// Lookup returns the participant owning peer.
func (r *Registry) Lookup(peer Peer) (Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(peer)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// All returns a copy of the current participants in no particular order.
func (r *Registry) All() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.participants)
}

// find must be called with r.mu held.
func (r *Registry) find(peer Peer) (Participant, bool) {
	for _, p := range r.participants {
		if p.Peer == peer {
			return p, true
		}
	}
	return Participant{}, false
}
