package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Tyrowin/matrix-relay/internal/chat"
	"github.com/Tyrowin/matrix-relay/internal/console"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from RELAY_* environment variables.
type Config struct {
	URL    string `envconfig:"RELAY_URL" default:"ws://localhost:8080/ws"`
	Origin string `envconfig:"RELAY_ORIGIN" default:"http://localhost:8080"`
}

func main() {
	if err := run(); err != nil {
		color.Error.Println(err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.Dial(cfg.URL, http.Header{"Origin": []string{cfg.Origin}})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.URL, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		receive(conn)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		evt, ok := console.Outgoing(scanner.Text(), time.Now())
		if !ok {
			continue
		}
		if err := conn.WriteJSON(evt); err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return scanner.Err()
}

// receive prints every inbound event until the connection ends.
func receive(conn *websocket.Conn) {
	screen := &console.Screen{}
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				color.Warn.Println("connection closed:", err)
			}
			return
		}

		var evt chat.ChatEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			color.Warn.Println("unreadable event:", err)
			continue
		}
		if line := screen.Render(evt); line != "" {
			fmt.Println(line)
		}
	}
}
