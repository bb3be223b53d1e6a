// Package console renders relay events for a terminal and turns typed lines
// into outgoing events. It is the presentation layer for the sentinel bodies
// emitted by slash-commands.
package console

import (
	"strconv"
	"strings"
	"time"

	"github.com/Tyrowin/matrix-relay/internal/chat"
	"github.com/gookit/color"
)

const (
	onlineUsersPrefix = "ONLINE_USERS:"
	clearSequence     = "\033[H\033[2J"
	clockLayout       = "15:04:05"
)

// Screen keeps the display modes toggled by sentinel events. It is not safe
// for concurrent use.
type Screen struct {
	Matrix bool
	Hack   bool
	Online int
}

// Render returns the text to print for evt, possibly empty.
func (s *Screen) Render(evt chat.ChatEvent) string {
	if evt.Kind != chat.KindSystem {
		return s.renderMessage(evt)
	}

	switch {
	case strings.HasPrefix(evt.Body, onlineUsersPrefix):
		n := strings.TrimPrefix(evt.Body, onlineUsersPrefix)
		if count, err := strconv.Atoi(n); err == nil {
			s.Online = count
		}
		return color.Cyan.Sprintf("online: %s", n)
	case evt.Body == chat.ClearScreen:
		return clearSequence
	case evt.Body == chat.MatrixToggle:
		s.Matrix = !s.Matrix
		if s.Matrix {
			return color.Green.Sprint("matrix mode on")
		}
		return color.Gray.Sprint("matrix mode off")
	case evt.Body == chat.HackActivate:
		s.Hack = true
		return color.Red.Sprint("hack mode activated")
	default:
		return color.Yellow.Sprintf("[%s] %s", chat.SystemSender, evt.Body)
	}
}

func (s *Screen) renderMessage(evt chat.ChatEvent) string {
	stamp := evt.SentAt.Local().Format(clockLayout)
	line := evt.Sender + ": " + evt.Body
	switch {
	case s.Hack:
		return color.Red.Sprintf("[%s] %s", stamp, line)
	case s.Matrix:
		return color.Green.Sprintf("[%s] %s", stamp, line)
	default:
		return color.Gray.Sprintf("[%s] ", stamp) + color.Cyan.Sprint(evt.Sender) + ": " + evt.Body
	}
}

// Outgoing turns a typed line into an event. Lines starting with "/" are
// commands; blank lines produce nothing.
func Outgoing(line string, now time.Time) (chat.ChatEvent, bool) {
	text := strings.TrimSpace(line)
	if text == "" {
		return chat.ChatEvent{}, false
	}

	kind := chat.KindMessage
	if strings.HasPrefix(text, "/") {
		kind = chat.KindCommand
	}
	return chat.ChatEvent{Kind: kind, Body: text, SentAt: now}, true
}
