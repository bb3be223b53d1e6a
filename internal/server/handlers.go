// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and the built-in test page.
package server

import (
	"fmt"
	"net/http"
)

// WebSocketHandler upgrades GET requests from allowed origins and attaches
// the resulting client to the relay.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Info("WebSocket upgrade failed", "addr", r.RemoteAddr, "error", err)
		return
	}

	s.hub.Attach(NewClient(conn, s.relay, s.log, r.RemoteAddr, s.cfg))
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Matrix relay is running!")
}

// TestPageHandler serves a bare HTML page that speaks the relay's JSON
// protocol, for poking at a running server from a browser.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, testPage); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

const testPage = `<!DOCTYPE html>
<html>
<head>
    <title>Matrix Relay Test</title>
    <style>
        body { font-family: monospace; background: #000; color: #0f0; margin: 20px; }
        #messages { border: 1px solid #0f0; height: 300px; padding: 10px; overflow-y: scroll; margin: 10px 0; }
        .system { color: #ff0; }
        input[type="text"] { width: 300px; background: #000; color: #0f0; border: 1px solid #0f0; }
    </style>
</head>
<body>
    <h1>Matrix Relay Test</h1>
    <div id="online">online: 0</div>
    <div id="messages"></div>
    <input type="text" id="messageInput" placeholder="Type a message or /help...">

    <script>
        const messages = document.getElementById('messages');
        const online = document.getElementById('online');
        const input = document.getElementById('messageInput');
        const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');

        function addLine(text, cls) {
            const line = document.createElement('div');
            line.textContent = text;
            if (cls) line.className = cls;
            messages.appendChild(line);
            messages.scrollTop = messages.scrollHeight;
        }

        ws.onmessage = function(event) {
            const evt = JSON.parse(event.data);
            if (evt.type === 'system' && evt.content.startsWith('ONLINE_USERS:')) {
                online.textContent = 'online: ' + evt.content.split(':')[1];
            } else if (evt.content === 'CLEAR_SCREEN') {
                messages.innerHTML = '';
            } else if (evt.type === 'system') {
                addLine('[SYSTEM] ' + evt.content, 'system');
            } else {
                addLine(evt.username + ': ' + evt.content);
            }
        };
        ws.onclose = function() { addLine('Connection closed', 'system'); };

        input.addEventListener('keypress', function(e) {
            const text = input.value.trim();
            if (e.key !== 'Enter' || !text) return;
            ws.send(JSON.stringify({
                type: text.startsWith('/') ? 'command' : 'message',
                username: '',
                content: text,
                timestamp: new Date().toISOString(),
                encrypted: false
            }));
            if (!text.startsWith('/')) addLine('you: ' + text);
            input.value = '';
        });
    </script>
</body>
</html>`
