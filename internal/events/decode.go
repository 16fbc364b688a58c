package events

import (
	"appointment-ivr/internal/clients/kafka"
	"encoding/json"
	"fmt"
	"time"
)

// AppointmentEvent is the consumer-side view of a published change.
type AppointmentEvent struct {
	ID              string    `json:"-"`
	Type            string    `json:"-"`
	Timestamp       time.Time `json:"-"`
	AppointmentID   int64     `json:"appointment_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	AppointmentType string    `json:"appointment_type"`
	Start           time.Time `json:"start"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
}

func Decode(msg kafka.EventMessage) (AppointmentEvent, error) {
	raw, err := json.Marshal(msg.Data)
	if err != nil {
		return AppointmentEvent{}, fmt.Errorf("failed to read event data: %w", err)
	}

	var event AppointmentEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return AppointmentEvent{}, fmt.Errorf("failed to decode appointment event: %w", err)
	}
	event.ID = msg.ID
	event.Type = msg.Type
	if msg.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, msg.Timestamp)
		if err != nil {
			return AppointmentEvent{}, fmt.Errorf("invalid event timestamp %q: %w", msg.Timestamp, err)
		}
		event.Timestamp = ts
	}
	return event, nil
}
