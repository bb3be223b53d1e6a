package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var errPeerGone = errors.New("peer gone")

// recordingPeer keeps every payload it is asked to send.
type recordingPeer struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     bool
}

func (p *recordingPeer) Send(payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPeerGone
	}
	p.payloads = append(p.payloads, append([]byte(nil), payload...))
	return nil
}

func (p *recordingPeer) events(t *testing.T) []ChatEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()

	events := make([]ChatEvent, 0, len(p.payloads))
	for _, raw := range p.payloads {
		var evt ChatEvent
		require.NoError(t, json.Unmarshal(raw, &evt))
		events = append(events, evt)
	}
	return events
}

func (p *recordingPeer) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = nil
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 7, 21, 5, 1, 0, time.UTC)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
