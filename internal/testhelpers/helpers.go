// Package testhelpers provides common utilities and helper functions for testing the relay.
//
// It provides functions for creating test servers, making HTTP requests,
// dialing WebSocket connections, and exchanging relay events to reduce code
// duplication in test files.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tyrowin/matrix-relay/internal/chat"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// TestOrigin is the Origin header sent by ConnectWebSocket.
const TestOrigin = "http://localhost:8080"

// CreateTestServer creates a test HTTP server with the given handler.
// It returns a running httptest.Server that should be closed after use.
func CreateTestServer(handler http.Handler) *httptest.Server {
	return httptest.NewServer(handler)
}

// WebSocketURL turns an httptest server URL into its /ws endpoint.
func WebSocketURL(serverURL string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
}

// AssertStatusCode checks if the HTTP response has the expected status code.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	require.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertContentType checks if the HTTP response has the expected Content-Type header.
func AssertContentType(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	require.Equal(t, expected, resp.Header.Get("Content-Type"), "unexpected content type")
}

// MakeRequest creates and executes an HTTP request, returning the response.
// It includes a 5-second timeout and fails the test if the request cannot be
// created or executed successfully.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(method, url, http.NoBody)
	require.NoError(t, err, "failed to create request")

	resp, err := client.Do(req)
	require.NoError(t, err, "failed to make request")
	return resp
}

// ConnectWebSocketWithOrigin dials url sending origin (none when empty).
func ConnectWebSocketWithOrigin(url, origin string) (*websocket.Conn, *http.Response, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	if origin != "" {
		headers.Set("Origin", origin)
	}

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, resp, err
}

// ConnectWebSocket creates a WebSocket connection from the default test origin.
func ConnectWebSocket(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := ConnectWebSocketWithOrigin(url, TestOrigin)
	require.NoError(t, err, "failed to connect")
	return conn
}

// SendEvent writes a wire event of the given kind.
func SendEvent(conn *websocket.Conn, kind chat.Kind, content string) error {
	return conn.WriteJSON(map[string]any{
		"type":      string(kind),
		"username":  "",
		"content":   content,
		"timestamp": time.Now().UTC().Format(chat.TimestampLayout),
		"encrypted": false,
	})
}

// ReceiveEvent reads the next event, failing the test after timeout.
func ReceiveEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) chat.ChatEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))

	_, raw, err := conn.ReadMessage()
	require.NoError(t, err, "failed to read event")

	var evt chat.ChatEvent
	require.NoError(t, json.Unmarshal(raw, &evt), "invalid event %s", raw)
	return evt
}

// ExpectNoEvent fails the test if an event arrives within timeout.
func ExpectNoEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))

	if _, raw, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected no event, got %s", raw)
	}
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}
