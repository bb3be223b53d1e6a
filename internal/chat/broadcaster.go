package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

const onlineUsersPrefix = "ONLINE_USERS:"

// Broadcaster serialises events and delivers them to registry members.
// A failed send is logged and skipped; removal is left to the transport.
type Broadcaster struct {
	log      *slog.Logger
	registry *Registry
	now      func() time.Time
}

func NewBroadcaster(log *slog.Logger, registry *Registry, now func() time.Time) *Broadcaster {
	if now == nil {
		now = time.Now
	}
	return &Broadcaster{log: log, registry: registry, now: now}
}

// Announce sends evt to every participant except excludeID (empty excludes
// nobody) and returns the number of successful deliveries.
func (b *Broadcaster) Announce(evt ChatEvent, excludeID string) int {
	payload, err := json.Marshal(evt)
	if err != nil {
		b.log.Error("Unable to encode event", "kind", evt.Kind, "error", err)
		return 0
	}

	recipients := lo.Reject(b.registry.All(), func(p Participant, _ int) bool {
		return excludeID != "" && p.ID == excludeID
	})
	b.log.Debug("Broadcasting event", "kind", evt.Kind, "recipients", len(recipients))

	delivered := 0
	for _, p := range recipients {
		if err := p.Peer.Send(payload); err != nil {
			b.log.Warn("Unable to deliver event", "participant", p.DisplayName, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// AnnounceUserCount sends ONLINE_USERS:<n> to every participant.
func (b *Broadcaster) AnnounceUserCount() int {
	body := fmt.Sprintf("%s%d", onlineUsersPrefix, b.registry.Count())
	return b.Announce(NewSystemEvent(body, b.now()), "")
}

// Unicast sends evt to a single peer.
func (b *Broadcaster) Unicast(peer Peer, evt ChatEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", evt.Kind, err)
	}
	if err := peer.Send(payload); err != nil {
		b.log.Warn("Unable to deliver event", "kind", evt.Kind, "error", err)
		return err
	}
	return nil
}
