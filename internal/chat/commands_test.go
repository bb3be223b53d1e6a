package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInterpreter_Interpret(t *testing.T) {
	count := 3
	interpreter := NewInterpreter(func() int { return count }, fixedClock)

	tests := []struct {
		name     string
		command  string
		expected string
	}{
		{"help", "/help", "Commands: /help, /matrix, /hack, /clear, /users, /time"},
		{"matrix", "/matrix", "MATRIX_MODE:TOGGLE"},
		{"hack", "/hack", "HACK_MODE:ACTIVATE"},
		{"clear", "/clear", "CLEAR_SCREEN"},
		{"users", "/users", "Online users: 3"},
		{"time", "/time", "Server time: 3/7/2026, 9:05:01 PM"},
		{"case folded", "/MaTrIx", "MATRIX_MODE:TOGGLE"},
		{"surrounding spaces", "  /clear ", "CLEAR_SCREEN"},
		{"unknown", "/Dance", "Unknown command: /dance. Type /help for available commands."},
		{"empty", "", "Unknown command: . Type /help for available commands."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, interpreter.Interpret(tt.command))
		})
	}
}

func TestInterpreter_Sentinels_Are_Deterministic(t *testing.T) {
	req := require.New(t)
	interpreter := NewInterpreter(func() int { return 0 }, nil)

	for _, command := range []string{"/matrix", "/hack", "/clear"} {
		first := interpreter.Interpret(command)
		for i := 0; i < 5; i++ {
			req.Equal(first, interpreter.Interpret(command))
		}
	}
}

func TestInterpreter_Users_Reads_Live_Count(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	interpreter := NewInterpreter(registry.Count, nil)

	req.Equal("Online users: 0", interpreter.Interpret("/users"))
	registry.Add(&recordingPeer{})
	registry.Add(&recordingPeer{})
	req.Equal("Online users: 2", interpreter.Interpret("/users"))
}

func TestInterpreter_Time_Uses_Clock(t *testing.T) {
	morning := func() time.Time { return time.Date(2026, time.October, 19, 8, 30, 0, 0, time.UTC) }
	interpreter := NewInterpreter(func() int { return 0 }, morning)

	require.Equal(t, "Server time: 10/19/2026, 8:30:00 AM", interpreter.Interpret("/time"))
}
