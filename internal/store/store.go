package store

import (
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/scheduling"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound   = errors.New("appointment not found")
	ErrSlotTaken  = errors.New("slot is already booked")
	ErrValidation = errors.New("invalid appointment request")
)

// Store is the in-memory appointment table. It owns every record for the
// lifetime of the process. Writers hold the write lock across the occupancy
// check and the mutation; readers share the read lock.
type Store struct {
	mu           sync.RWMutex
	validator    *scheduling.Validator
	logger       *observability.Logger
	nextID       int64
	appointments map[int64]*Appointment
	// occupied maps a slot start (unix seconds) to the active appointment holding it.
	occupied map[int64]int64
}

func New(validator *scheduling.Validator, logger *observability.Logger) *Store {
	return &Store{
		validator:    validator,
		logger:       logger,
		nextID:       1,
		appointments: make(map[int64]*Appointment),
		occupied:     make(map[int64]int64),
	}
}

// Validator exposes the slot rules the store enforces.
func (s *Store) Validator() *scheduling.Validator {
	return s.validator
}

func slotKey(t time.Time) int64 {
	return t.Unix()
}

func (s *Store) checkSlot(start time.Time) error {
	if err := s.validator.Validate(start); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, params CreateAppointmentParams) (Appointment, error) {
	params, apptType, err := normalizeParams(params)
	if err != nil {
		return Appointment{}, err
	}
	if err := s.checkSlot(params.Start); err != nil {
		return Appointment{}, err
	}

	start := params.Start.In(s.validator.Location())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.occupied[slotKey(start)]; taken {
		return Appointment{}, fmt.Errorf("%w: %s", ErrSlotTaken, start.Format("2006-01-02 15:04"))
	}

	now := time.Now()
	appt := &Appointment{
		ID:        s.nextID,
		Name:      params.Name,
		Email:     params.Email,
		Type:      apptType,
		Start:     start,
		Status:    AppointmentStatusScheduled,
		Notes:     params.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.appointments[appt.ID] = appt
	s.occupied[slotKey(start)] = appt.ID

	s.logger.Debug(observability.WithFields(ctx,
		observability.Field{Key: "appointment_id", Value: appt.ID},
	), "appointment stored")

	return *appt, nil
}

// Reschedule moves an active appointment to newStart and returns it with the
// start it held before. Unknown and cancelled ids are ErrNotFound whatever
// newStart is.
func (s *Store) Reschedule(ctx context.Context, id int64, newStart time.Time) (Appointment, time.Time, error) {
	start := newStart.In(s.validator.Location())

	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok || !appt.Active() {
		return Appointment{}, time.Time{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	if err := s.checkSlot(newStart); err != nil {
		return Appointment{}, time.Time{}, err
	}

	if holder, taken := s.occupied[slotKey(start)]; taken && holder != id {
		return Appointment{}, time.Time{}, fmt.Errorf("%w: %s", ErrSlotTaken, start.Format("2006-01-02 15:04"))
	}

	previous := appt.Start
	delete(s.occupied, slotKey(appt.Start))
	s.occupied[slotKey(start)] = id
	appt.Start = start
	appt.Status = AppointmentStatusRescheduled
	appt.UpdatedAt = time.Now()

	return *appt, previous, nil
}

func (s *Store) Cancel(ctx context.Context, id int64) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok || !appt.Active() {
		return Appointment{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	if s.occupied[slotKey(appt.Start)] == id {
		delete(s.occupied, slotKey(appt.Start))
	}
	appt.Status = AppointmentStatusCancelled
	appt.UpdatedAt = time.Now()

	return *appt, nil
}

// AvailableSlots lists the free, future slot starts on date in ascending order.
// The result is recomputed on every call.
func (s *Store) AvailableSlots(ctx context.Context, date time.Time) ([]time.Time, error) {
	candidates := s.validator.DaySlots(date)
	now := s.validator.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]time.Time, 0, len(candidates))
	for _, slot := range candidates {
		if !slot.After(now) {
			continue
		}
		if _, taken := s.occupied[slotKey(slot)]; taken {
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// IsAvailable reports whether start could be booked right now.
// Rule violations are returned as errors, occupancy as false.
func (s *Store) IsAvailable(ctx context.Context, start time.Time) (bool, error) {
	if err := s.checkSlot(start); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, taken := s.occupied[slotKey(start)]
	return !taken, nil
}

// Get returns the appointment with id, including cancelled ones.
func (s *Store) Get(ctx context.Context, id int64) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[id]
	if !ok {
		return Appointment{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return *appt, nil
}

// ListByContact returns every appointment booked under email, oldest first.
func (s *Store) ListByContact(ctx context.Context, email string) ([]Appointment, error) {
	email = strings.TrimSpace(email)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Appointment
	for _, appt := range s.appointments {
		if strings.EqualFold(appt.Email, email) {
			result = append(result, *appt)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListByDate returns active appointments on the calendar date of date,
// ordered by start.
func (s *Store) ListByDate(ctx context.Context, date time.Time) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Appointment
	for _, appt := range s.appointments {
		if appt.Active() && s.validator.SameDate(appt.Start, date) {
			result = append(result, *appt)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	return result, nil
}
