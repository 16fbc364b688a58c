package events

import (
	"appointment-ivr/internal/clients/kafka"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/store"
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Producer writes an event envelope to the broker.
type Producer interface {
	PublishEvent(ctx context.Context, event kafka.EventMessage) error
}

// Publisher turns appointment changes into broker events keyed by
// appointment id.
type Publisher struct {
	producer Producer
	now      func() time.Time
	logger   *observability.Logger
}

func NewPublisher(producer Producer, logger *observability.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		now:      time.Now,
		logger:   logger,
	}
}

func (p *Publisher) PublishAppointmentEvent(ctx context.Context, eventType string, appt store.Appointment) error {
	event := kafka.EventMessage{
		ID:   uuid.New().String(),
		Type: eventType,
		Key:  strconv.FormatInt(appt.ID, 10),
		Data: map[string]interface{}{
			"appointment_id":   appt.ID,
			"name":             appt.Name,
			"email":            appt.Email,
			"appointment_type": string(appt.Type),
			"start":            appt.Start.Format(time.RFC3339),
			"status":           string(appt.Status),
			"notes":            appt.Notes,
		},
		Timestamp: p.now().UTC().Format(time.RFC3339),
	}

	return p.producer.PublishEvent(ctx, event)
}
