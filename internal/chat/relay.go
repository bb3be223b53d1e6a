package chat

import (
	"fmt"
	"log/slog"
	"time"
)

const malformedReply = "Error processing message"

// Relay is the connection handler a transport drives. Each connection reports
// Open once, then Message for every inbound frame in order, then Close or
// Error. Calls for different connections may run concurrently.
type Relay struct {
	log         *slog.Logger
	registry    *Registry
	broadcaster *Broadcaster
	commands    *Interpreter
	now         func() time.Time
}

// Option customises a Relay.
type Option func(*Relay)

// WithClock replaces the wall clock used for timestamps and /time.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

// NewRelay builds a relay with its own empty registry.
func NewRelay(log *slog.Logger, opts ...Option) *Relay {
	r := &Relay{log: log, registry: NewRegistry(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	r.broadcaster = NewBroadcaster(log, r.registry, r.now)
	r.commands = NewInterpreter(r.registry.Count, r.now)
	return r
}

// Participants returns a snapshot of the connected participants.
func (r *Relay) Participants() []Participant {
	return r.registry.All()
}

// Count returns the number of connected participants.
func (r *Relay) Count() int {
	return r.registry.Count()
}

// Open registers peer, greets it and tells everyone else it joined.
func (r *Relay) Open(peer Peer) Participant {
	p := r.registry.Add(peer)
	r.log.Info("Participant joined", "participant", p.DisplayName, "online", r.registry.Count())

	welcome := fmt.Sprintf("Welcome %s! Type /help for commands.", p.DisplayName)
	_ = r.broadcaster.Unicast(peer, NewSystemEvent(welcome, r.now()))

	r.broadcaster.Announce(NewSystemEvent(p.DisplayName+" joined the chat", r.now()), p.ID)
	r.broadcaster.AnnounceUserCount()
	return p
}

// Message dispatches one inbound payload from peer. Malformed payloads and
// command replies only ever reach the sender.
func (r *Relay) Message(peer Peer, raw []byte) error {
	sender, ok := r.registry.Lookup(peer)
	if !ok {
		r.log.Warn("Dropping message from unregistered peer")
		return ErrUnknownPeer
	}

	req, err := ParseEvent(raw)
	if err != nil {
		r.log.Info("Invalid message", "participant", sender.DisplayName, "error", err)
		_ = r.broadcaster.Unicast(peer, NewSystemEvent(malformedReply, r.now()))
		return err
	}

	if req.Kind == KindCommand {
		reply := r.commands.Interpret(req.Body)
		r.log.Debug("Command handled", "participant", sender.DisplayName, "command", req.Body)
		return r.broadcaster.Unicast(peer, NewSystemEvent(reply, r.now()))
	}

	r.broadcaster.Announce(ChatEvent{
		Kind:   KindMessage,
		Sender: sender.DisplayName,
		Body:   req.Body,
		SentAt: r.now(),
	}, sender.ID)
	return nil
}

// Close unregisters peer and announces the departure. A second Close for the
// same peer does nothing.
func (r *Relay) Close(peer Peer) {
	p, ok := r.registry.Remove(peer)
	if !ok {
		return
	}
	r.log.Info("Participant left", "participant", p.DisplayName, "online", r.registry.Count())

	r.broadcaster.Announce(NewSystemEvent(p.DisplayName+" left the chat", r.now()), "")
	r.broadcaster.AnnounceUserCount()
}

// Error records a transport failure for peer and closes it.
func (r *Relay) Error(peer Peer, err error) {
	if p, ok := r.registry.Lookup(peer); ok {
		r.log.Warn("Connection error", "participant", p.DisplayName, "error", err)
	}
	r.Close(peer)
}
