package chat

import (
	"fmt"
	"strings"
	"time"
)

// Sentinel bodies interpreted by the presentation layer.
const (
	MatrixToggle = "MATRIX_MODE:TOGGLE"
	HackActivate = "HACK_MODE:ACTIVATE"
	ClearScreen  = "CLEAR_SCREEN"
)

// HelpText lists every recognised command.
const HelpText = "Commands: /help, /matrix, /hack, /clear, /users, /time"

// serverTimeLayout mirrors the en-US locale rendering, e.g. "3/7/2026, 9:05:01 PM".
const serverTimeLayout = "1/2/2006, 3:04:05 PM"

// Interpreter maps slash-commands to reply bodies. It never changes relay state.
type Interpreter struct {
	count func() int
	now   func() time.Time
}

// NewInterpreter builds an interpreter reading the online count from count.
func NewInterpreter(count func() int, now func() time.Time) *Interpreter {
	if now == nil {
		now = time.Now
	}
	return &Interpreter{count: count, now: now}
}

// Interpret returns the reply for a command line. Matching is case-insensitive.
func (i *Interpreter) Interpret(text string) string {
	command := strings.ToLower(strings.TrimSpace(text))

	switch command {
	case "/help":
		return HelpText
	case "/matrix":
		return MatrixToggle
	case "/hack":
		return HackActivate
	case "/clear":
		return ClearScreen
	case "/users":
		return fmt.Sprintf("Online users: %d", i.count())
	case "/time":
		return "Server time: " + i.now().Format(serverTimeLayout)
	default:
		return fmt.Sprintf("Unknown command: %s. Type /help for available commands.", command)
	}
}
