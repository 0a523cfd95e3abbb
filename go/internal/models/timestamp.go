package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Layouts accepted for backend timestamps. Values without a zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// ParseTimestamp parses the timestamp forms the backend emits. An empty
// string yields the zero time and ok false.
func ParseTimestamp(s string) (t time.Time, ok bool, err error) {
	if s == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", s)
}

// lenientTime decodes null, "" and zoneless timestamps.
type lenientTime struct {
	time.Time
	Valid bool
}

func (l *lenientTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*l = lenientTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	t, ok, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*l = lenientTime{Time: t, Valid: ok}
	return nil
}

// UnmarshalJSON leaves Timestamp zero when the backend sent none.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	type plain ChatMessage
	aux := struct {
		*plain
		Timestamp lenientTime `json:"timestamp"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Timestamp = aux.Timestamp.Time
	return nil
}

func (p *StreamChatPayload) UnmarshalJSON(data []byte) error {
	type plain StreamChatPayload
	aux := struct {
		*plain
		Timestamp lenientTime `json:"timestamp"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Timestamp = nil
	if aux.Timestamp.Valid {
		ts := aux.Timestamp.Time
		p.Timestamp = &ts
	}
	return nil
}
