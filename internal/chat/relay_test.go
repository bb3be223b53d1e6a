package chat

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRelay() *Relay {
	return NewRelay(testLogger(), WithClock(fixedClock))
}

// openAll connects every peer then discards the join traffic.
func openAll(relay *Relay, peers ...*recordingPeer) []Participant {
	participants := make([]Participant, 0, len(peers))
	for _, peer := range peers {
		participants = append(participants, relay.Open(peer))
	}
	for _, peer := range peers {
		peer.reset()
	}
	return participants
}

func TestRelay_Open_Greets_And_Announces(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	first := &recordingPeer{}
	relay.Open(first)
	first.reset()

	// When a second participant connects
	second := &recordingPeer{}
	joined := relay.Open(second)

	// Then it is welcomed and counted
	events := second.events(t)
	req.Len(events, 2)
	req.Equal("Welcome "+joined.DisplayName+"! Type /help for commands.", events[0].Body)
	req.Equal("ONLINE_USERS:2", events[1].Body)

	// And the first participant learns about it
	events = first.events(t)
	req.Len(events, 2)
	req.Equal(KindSystem, events[0].Kind)
	req.Equal(joined.DisplayName+" joined the chat", events[0].Body)
	req.Equal("ONLINE_USERS:2", events[1].Body)
}

func TestRelay_Message_Broadcasts_To_Others(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1, p2, p3 := &recordingPeer{}, &recordingPeer{}, &recordingPeer{}
	participants := openAll(relay, p1, p2, p3)

	// When P1 sends a chat message
	err := relay.Message(p1, []byte(`{"type":"message","content":"hi"}`))
	req.NoError(err)

	// Then P2 and P3 receive it stamped with P1's name, P1 gets nothing
	req.Empty(p1.events(t))
	for _, peer := range []*recordingPeer{p2, p3} {
		events := peer.events(t)
		req.Len(events, 1)
		req.Equal(KindMessage, events[0].Kind)
		req.Equal("hi", events[0].Body)
		req.Equal(participants[0].DisplayName, events[0].Sender)
		req.True(fixedClock().Equal(events[0].SentAt))
		req.False(events[0].Encrypted)
	}
}

func TestRelay_Message_Restamps_Sender_Fields(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1, p2 := &recordingPeer{}, &recordingPeer{}
	participants := openAll(relay, p1, p2)

	raw := mustJSON(t, map[string]any{
		"type":      "system",
		"username":  "SYSTEM",
		"content":   "spoof",
		"timestamp": "1999-01-01T00:00:00.000Z",
		"encrypted": true,
	})
	req.NoError(relay.Message(p1, raw))

	events := p2.events(t)
	req.Len(events, 1)
	req.Equal(KindMessage, events[0].Kind)
	req.Equal(participants[0].DisplayName, events[0].Sender)
	req.True(fixedClock().Equal(events[0].SentAt))
	req.False(events[0].Encrypted)
}

func TestRelay_Malformed_Message_Only_Reaches_Sender(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1, p2 := &recordingPeer{}, &recordingPeer{}
	openAll(relay, p1, p2)

	err := relay.Message(p1, []byte("not json"))

	req.ErrorIs(err, ErrMalformedEvent)
	events := p1.events(t)
	req.Len(events, 1)
	req.Equal(KindSystem, events[0].Kind)
	req.Equal("Error processing message", events[0].Body)
	req.Empty(p2.events(t))
	req.Equal(2, relay.Count())
}

func TestRelay_Command_Replies_To_Sender_Only(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1, p2, p3 := &recordingPeer{}, &recordingPeer{}, &recordingPeer{}
	openAll(relay, p1, p2, p3)

	req.NoError(relay.Message(p1, []byte(`{"type":"command","content":"/USERS"}`)))

	events := p1.events(t)
	req.Len(events, 1)
	req.Equal(KindSystem, events[0].Kind)
	req.Equal(SystemSender, events[0].Sender)
	req.Equal("Online users: 3", events[0].Body)
	req.Empty(p2.events(t))
	req.Empty(p3.events(t))
}

func TestRelay_Message_From_Unknown_Peer(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1 := &recordingPeer{}
	openAll(relay, p1)

	stranger := &recordingPeer{}
	err := relay.Message(stranger, []byte(`{"type":"message","content":"hi"}`))

	req.ErrorIs(err, ErrUnknownPeer)
	req.Empty(p1.events(t))
	req.Empty(stranger.events(t))
}

func TestRelay_Close_Announces_Leave_Once(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1, p2, p3 := &recordingPeer{}, &recordingPeer{}, &recordingPeer{}
	participants := openAll(relay, p1, p2, p3)

	// When P2 disconnects twice
	relay.Close(p2)
	relay.Close(p2)

	// Then P1 and P3 get exactly one leave and one count event
	for _, peer := range []*recordingPeer{p1, p3} {
		events := peer.events(t)
		req.Len(events, 2)
		req.Equal(participants[1].DisplayName+" left the chat", events[0].Body)
		req.Equal("ONLINE_USERS:2", events[1].Body)
	}
	req.Empty(p2.events(t))
	req.Equal(2, relay.Count())
}

func TestRelay_Error_Closes_Once(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1, p2 := &recordingPeer{}, &recordingPeer{}
	openAll(relay, p1, p2)

	relay.Error(p2, errors.New("connection reset"))
	relay.Close(p2)

	req.Len(p1.events(t), 2)
	req.Equal(1, relay.Count())
}

func TestRelay_Failing_Peer_Stays_Registered(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1, p2, p3 := &recordingPeer{}, &recordingPeer{}, &recordingPeer{}
	openAll(relay, p1, p2, p3)
	p2.fail = true

	req.NoError(relay.Message(p1, []byte(`{"type":"message","content":"hi"}`)))

	req.Len(p3.events(t), 1)
	req.Equal(3, relay.Count())
}

// TestRelay_Scenario_Three_Participants follows three participants through a
// message and a disconnect.
func TestRelay_Scenario_Three_Participants(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()
	p1, p2, p3 := &recordingPeer{}, &recordingPeer{}, &recordingPeer{}
	participants := openAll(relay, p1, p2, p3)

	req.NoError(relay.Message(p1, []byte(`{"type":"message","content":"hi"}`)))
	req.Empty(p1.events(t))
	for _, peer := range []*recordingPeer{p2, p3} {
		events := peer.events(t)
		req.Len(events, 1)
		req.Equal("hi", events[0].Body)
		req.Equal(participants[0].DisplayName, events[0].Sender)
		peer.reset()
	}

	relay.Close(p2)

	for _, peer := range []*recordingPeer{p1, p3} {
		events := peer.events(t)
		req.Len(events, 2)
		req.Equal(KindSystem, events[0].Kind)
		req.Contains(events[0].Body, "left the chat")
		req.Equal("ONLINE_USERS:2", events[1].Body)
	}
}

func TestRelay_Independent_Instances(t *testing.T) {
	req := require.New(t)
	lobby, backroom := newTestRelay(), newTestRelay()
	a, b := &recordingPeer{}, &recordingPeer{}
	openAll(lobby, a)
	openAll(backroom, b)

	req.NoError(lobby.Message(a, []byte(`{"type":"message","content":"hi"}`)))

	req.Equal(1, lobby.Count())
	req.Equal(1, backroom.Count())
	req.Empty(b.events(t))
}

func TestRelay_Concurrent_Connections(t *testing.T) {
	req := require.New(t)
	relay := newTestRelay()

	const clients = 20
	var wg sync.WaitGroup
	wg.Add(clients)
	for i := 0; i < clients; i++ {
		go func() {
			defer wg.Done()
			peer := &recordingPeer{}
			relay.Open(peer)
			_ = relay.Message(peer, []byte(`{"type":"message","content":"ping"}`))
			_ = relay.Message(peer, []byte(`{"type":"command","content":"/users"}`))
			relay.Close(peer)
		}()
	}
	wg.Wait()

	req.Zero(relay.Count())
	req.Empty(relay.Participants())
}
