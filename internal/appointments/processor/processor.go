package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/store"
	"context"
	"errors"
	"sort"
	"time"
)

const DefaultClosestSlots = 5

const (
	EventAppointmentBooked      = "appointment.booked"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentCancelled   = "appointment.cancelled"
)

// AppointmentStore defines the appointment operations required by AppointmentProcessor
type AppointmentStore interface {
	Create(ctx context.Context, params store.CreateAppointmentParams) (store.Appointment, error)
	Reschedule(ctx context.Context, id int64, newStart time.Time) (store.Appointment, time.Time, error)
	Cancel(ctx context.Context, id int64) (store.Appointment, error)
	AvailableSlots(ctx context.Context, date time.Time) ([]time.Time, error)
	IsAvailable(ctx context.Context, start time.Time) (bool, error)
	Get(ctx context.Context, id int64) (store.Appointment, error)
	ListByContact(ctx context.Context, email string) ([]store.Appointment, error)
	ListByDate(ctx context.Context, date time.Time) ([]store.Appointment, error)
}

// Notifier tells the contact about changes to their appointment
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, appt store.Appointment) error
	SendAppointmentRescheduled(ctx context.Context, appt store.Appointment, previousStart time.Time) error
	SendAppointmentCancellation(ctx context.Context, appt store.Appointment) error
}

// EventPublisher announces appointment changes to other services
type EventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, eventType string, appt store.Appointment) error
}

type AppointmentProcessor struct {
	store     AppointmentStore
	logger    *observability.Logger
	notifier  Notifier
	publisher EventPublisher
}

// New builds a processor. A nil notifier or publisher disables that side effect.
func New(store AppointmentStore, logger *observability.Logger, notifier Notifier, publisher EventPublisher) AppointmentProcessor {
	return AppointmentProcessor{
		store:     store,
		logger:    logger,
		notifier:  notifier,
		publisher: publisher,
	}
}

type BookRequest struct {
	Name  string
	Email string
	Type  string
	Start time.Time
	Notes string
}

func (p *AppointmentProcessor) Book(ctx context.Context, req BookRequest) (store.Appointment, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email", Value: observability.MaskEmail(req.Email)},
		observability.Field{Key: "start", Value: req.Start.Format(time.RFC3339)},
	)

	appt, err := p.store.Create(ctx, store.CreateAppointmentParams{
		Name:  req.Name,
		Email: req.Email,
		Type:  req.Type,
		Start: req.Start,
		Notes: req.Notes,
	})
	if err != nil {
		p.logRejection(ctx, "failed to book appointment", err)
		return store.Appointment{}, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "appointment_id", Value: appt.ID})
	p.logger.Info(ctx, "appointment booked")

	if p.notifier != nil {
		if err := p.notifier.SendAppointmentConfirmation(ctx, appt); err != nil {
			p.logger.Error(ctx, "failed to send appointment confirmation", err)
		}
	}
	p.publish(ctx, EventAppointmentBooked, appt)

	return appt, nil
}

func (p *AppointmentProcessor) Reschedule(ctx context.Context, id int64, newStart time.Time) (store.Appointment, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "appointment_id", Value: id},
		observability.Field{Key: "start", Value: newStart.Format(time.RFC3339)},
	)

	appt, previousStart, err := p.store.Reschedule(ctx, id, newStart)
	if err != nil {
		p.logRejection(ctx, "failed to reschedule appointment", err)
		return store.Appointment{}, err
	}

	p.logger.Info(ctx, "appointment rescheduled")

	if p.notifier != nil {
		if err := p.notifier.SendAppointmentRescheduled(ctx, appt, previousStart); err != nil {
			p.logger.Error(ctx, "failed to send reschedule notice", err)
		}
	}
	p.publish(ctx, EventAppointmentRescheduled, appt)

	return appt, nil
}

func (p *AppointmentProcessor) Cancel(ctx context.Context, id int64) (store.Appointment, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "appointment_id", Value: id})

	appt, err := p.store.Cancel(ctx, id)
	if err != nil {
		p.logRejection(ctx, "failed to cancel appointment", err)
		return store.Appointment{}, err
	}

	p.logger.Info(ctx, "appointment cancelled")

	if p.notifier != nil {
		if err := p.notifier.SendAppointmentCancellation(ctx, appt); err != nil {
			p.logger.Error(ctx, "failed to send cancellation notice", err)
		}
	}
	p.publish(ctx, EventAppointmentCancelled, appt)

	return appt, nil
}

func (p *AppointmentProcessor) CheckAvailability(ctx context.Context, start time.Time) (bool, error) {
	return p.store.IsAvailable(ctx, start)
}

func (p *AppointmentProcessor) AvailableSlots(ctx context.Context, date time.Time) ([]time.Time, error) {
	slots, err := p.store.AvailableSlots(ctx, date)
	if err != nil {
		p.logger.Error(ctx, "failed to list available slots", err)
		return nil, err
	}
	return slots, nil
}

// ClosestSlots returns up to max free slots on the same date as requested,
// choosing those nearest to it and returning them in chronological order.
func (p *AppointmentProcessor) ClosestSlots(ctx context.Context, requested time.Time, max int) ([]time.Time, error) {
	if max <= 0 {
		max = DefaultClosestSlots
	}

	slots, err := p.AvailableSlots(ctx, requested)
	if err != nil {
		return nil, err
	}

	distance := func(t time.Time) time.Duration {
		d := t.Sub(requested)
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return distance(slots[i]) < distance(slots[j])
	})
	if len(slots) > max {
		slots = slots[:max]
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })

	return slots, nil
}

func (p *AppointmentProcessor) GetAppointment(ctx context.Context, id int64) (store.Appointment, error) {
	return p.store.Get(ctx, id)
}

func (p *AppointmentProcessor) ListByContact(ctx context.Context, email string) ([]store.Appointment, error) {
	return p.store.ListByContact(ctx, email)
}

func (p *AppointmentProcessor) ListByDate(ctx context.Context, date time.Time) ([]store.Appointment, error) {
	return p.store.ListByDate(ctx, date)
}

func (p *AppointmentProcessor) publish(ctx context.Context, eventType string, appt store.Appointment) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishAppointmentEvent(ctx, eventType, appt); err != nil {
		p.logger.Error(ctx, "failed to publish appointment event", err)
	}
}

// logRejection logs caller mistakes at info level and everything else as errors.
func (p *AppointmentProcessor) logRejection(ctx context.Context, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrSlotTaken), errors.Is(err, store.ErrNotFound):
		p.logger.InfoWithError(ctx, msg, err)
	default:
		p.logger.Error(ctx, msg, err)
	}
}
