package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a ChatEvent.
type Kind string

const (
	KindMessage Kind = "message"
	KindSystem  Kind = "system"
	KindCommand Kind = "command"
)

// SystemSender is the username carried by every relay-generated event.
const SystemSender = "SYSTEM"

// TimestampLayout renders timestamps in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var validate = validator.New()

// ChatEvent is the unit exchanged between participants. It is a value: build
// a new one instead of changing an existing one.
type ChatEvent struct {
	Kind      Kind
	Sender    string
	Body      string
	SentAt    time.Time
	Encrypted bool
}

// NewSystemEvent builds a system notification sent at the given time.
func NewSystemEvent(body string, at time.Time) ChatEvent {
	return ChatEvent{Kind: KindSystem, Sender: SystemSender, Body: body, SentAt: at}
}

// wireEvent is the JSON shape shared by inbound and outbound payloads.
type wireEvent struct {
	Type      string `json:"type" validate:"required,oneof=message system command"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Encrypted bool   `json:"encrypted"`
}

// MarshalJSON implements json.Marshaler.
func (e ChatEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{
		Type:      string(e.Kind),
		Username:  e.Sender,
		Content:   e.Body,
		Timestamp: e.SentAt.UTC().Format(TimestampLayout),
		Encrypted: false,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The payload must carry a known
// type; an unreadable timestamp leaves SentAt zero.
func (e *ChatEvent) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	sentAt, _ := time.Parse(time.RFC3339Nano, w.Timestamp)
	*e = ChatEvent{
		Kind:      Kind(w.Type),
		Sender:    w.Username,
		Body:      w.Content,
		SentAt:    sentAt,
		Encrypted: w.Encrypted,
	}
	return nil
}

// ParseEvent decodes a raw payload. Every failure wraps ErrMalformedEvent.
func ParseEvent(raw []byte) (ChatEvent, error) {
	var evt ChatEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		if errors.Is(err, ErrMalformedEvent) {
			return ChatEvent{}, err
		}
		return ChatEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return evt, nil
}
